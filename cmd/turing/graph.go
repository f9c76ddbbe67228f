package main

import (
	"fmt"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <machine>",
	Short: "Export the state diagram of a machine",
	Long: `Outputs a Mermaid diagram (graph LR) of the machine's states and transitions.
With --input, the diagram is highlighted with the path taken by a run on that input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, _ := cmd.Flags().GetStringSlice("input")
		maxSteps, _ := cmd.Flags().GetInt("max-steps")

		app, err := openApp(cmd, config(cmd))
		if err != nil {
			return err
		}
		defer app.Close()

		m, err := app.Sim.Machine(args[0])
		if err != nil {
			return err
		}

		var overlay *graph.RunOverlay
		if cmd.Flags().Changed("input") {
			ctx := cmd.Context()
			state, err := app.Sim.Start(ctx, m.Name, inputs)
			if err != nil {
				return err
			}
			overlay = graph.OverlayFromRun(state)
			overlay.Visited = []string{state.State}
			for !state.Halted && state.StepCount < maxSteps {
				if state, err = app.Sim.Step(ctx, m.Name, state); err != nil {
					return err
				}
				overlay.Visited = append(overlay.Visited, state.State)
			}
			if !state.Halted {
				return fmt.Errorf("%w: no halt within %d steps", domain.ErrStepBudgetExceeded, maxSteps)
			}
			overlay.Current = state.State
			overlay.Halted = true
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(m, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("input", nil, "Highlight the run on these tape inputs (one per tape)")
	graphCmd.Flags().Int("max-steps", 10000, "Step budget for the highlighted run")
}
