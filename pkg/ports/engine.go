package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// Simulator is the stateless surface used by adapters (e.g., HTTP, MCP).
// Every call takes the run state explicitly and returns a new one.
type Simulator interface {
	// Machines lists the names of the loaded descriptions.
	Machines() []string

	// Machine returns a loaded description by name.
	Machine(name string) (*domain.Machine, error)

	// Start initializes a run with one input per tape.
	Start(ctx context.Context, name string, inputs []string) (*domain.RunState, error)

	// Step advances a copy of state by one transition.
	Step(ctx context.Context, name string, state *domain.RunState) (*domain.RunState, error)

	// Run steps a copy of state until it halts or maxSteps transitions were attempted.
	Run(ctx context.Context, name string, state *domain.RunState, maxSteps int) (*domain.RunState, error)
}
