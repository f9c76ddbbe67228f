package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the loaded machines",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd, config(cmd))
		if err != nil {
			return err
		}
		defer app.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTAPES\tSTATES\tRULES\tSOURCE")
		reg := app.Sim.Registry()
		for _, name := range reg.Names() {
			entry, _ := reg.Lookup(name)
			m := entry.Machine
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", m.Name, m.TapeCount, len(m.States()), len(m.Transitions), entry.Source)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
