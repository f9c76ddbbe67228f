package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

type runResult struct {
	Machine string           `json:"machine"`
	State   *domain.RunState `json:"state"`
	Outcome domain.Outcome   `json:"outcome"`
	Error   string           `json:"error,omitempty"`
}

var runCmd = &cobra.Command{
	Use:   "run <machine> [input...]",
	Short: "Run a machine on the given tape inputs",
	Long: `Initializes the machine with one input per tape (missing inputs are empty)
and steps it until it halts or the step budget runs out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxSteps, _ := cmd.Flags().GetInt("max-steps")
		trace, _ := cmd.Flags().GetBool("trace")
		asJSON, _ := cmd.Flags().GetBool("json")

		app, err := openApp(cmd, config(cmd))
		if err != nil {
			return err
		}
		defer app.Close()

		m, err := app.Sim.Machine(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		profile := tui.Profile(out)

		state, err := app.Sim.Start(ctx, m.Name, args[1:])
		if err != nil {
			return err
		}

		var runErr error
		if trace && !asJSON {
			fmt.Fprint(out, tui.RenderTapes(state, m.BlankSymbol, profile))
			for !state.Halted {
				if state.StepCount >= maxSteps {
					runErr = fmt.Errorf("%w: no halt within %d steps", domain.ErrStepBudgetExceeded, maxSteps)
					break
				}
				if state, err = app.Sim.Step(ctx, m.Name, state); err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%s\n", tui.StatusLine(m, state, profile))
				fmt.Fprint(out, tui.RenderTapes(state, m.BlankSymbol, profile))
			}
		} else {
			next, err := app.Sim.Run(ctx, m.Name, state, maxSteps)
			if next == nil {
				return err
			}
			state, runErr = next, err
			if runErr != nil && !errors.Is(runErr, domain.ErrStepBudgetExceeded) {
				return runErr
			}
		}

		if asJSON {
			res := runResult{Machine: m.Name, State: state, Outcome: m.Outcome(state)}
			if runErr != nil {
				res.Error = runErr.Error()
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
			return runErr
		}

		if !trace {
			fmt.Fprint(out, tui.RenderTapes(state, m.BlankSymbol, profile))
		}
		fmt.Fprintln(out, tui.StatusLine(m, state, profile))
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("max-steps", 10000, "Stop after this many steps")
	runCmd.Flags().Bool("trace", false, "Print the tapes after every step")
	runCmd.Flags().Bool("json", false, "Print the final run state as JSON")
}
