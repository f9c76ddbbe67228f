package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file-or-dir...]",
	Short: "Validate machine description files",
	Long: `Parses and validates each description. Directories are scanned for
.yaml and .yml files. Without arguments the sample directory is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		targets := args
		if len(targets) == 0 {
			targets = []string{config(cmd).Dir}
		}

		var files []string
		for _, target := range targets {
			info, err := os.Stat(target)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				files = append(files, target)
				continue
			}
			ids, err := file.NewLoader(target).ListSources()
			if err != nil {
				return err
			}
			for _, id := range ids {
				files = append(files, filepath.Join(target, id))
			}
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err == nil {
				machine, perr := turing.Parse(data)
				if perr == nil {
					fmt.Fprintf(out, "✓ %s: %s\n", path, machine.Name)
					continue
				}
				err = perr
			}
			failed++
			fmt.Fprintf(out, "✗ %s: %v\n", path, err)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d descriptions are invalid", failed, len(files))
		}
		fmt.Fprintf(out, "All %d descriptions are valid.\n", len(files))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
