package main

import (
	"fmt"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <machine>",
	Short: "Show a machine's description, states and transition table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		app, err := openApp(cmd, config(cmd))
		if err != nil {
			return err
		}
		defer app.Close()

		m, err := app.Sim.Machine(args[0])
		if err != nil {
			return err
		}

		md := tui.MachineMarkdown(m)
		if !raw {
			if md, err = tui.NewRenderer(80)(md); err != nil {
				return fmt.Errorf("failed to render description: %w", err)
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().Bool("raw", false, "Print markdown without terminal styling")
}
