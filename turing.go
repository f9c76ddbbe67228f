package turing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/registry"
)

// Simulator is the high-level entry point of the library.
// It owns the loaded descriptions and drives the stateless execution engine.
// Run states are passed in and returned by value, so one Simulator can serve
// any number of concurrent runs.
type Simulator struct {
	registry *registry.Registry
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
}

var _ ports.Simulator = (*Simulator)(nil)

// Option defines a functional option for configuring the Simulator.
type Option func(*Simulator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = hooks
	}
}

// WithRegistry starts from an existing registry instead of an empty one.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Simulator) {
		s.registry = r
	}
}

// New loads every description text the loader offers.
// Texts that fail to parse are logged and skipped; when two descriptions
// share a name the first one loaded is kept. A nil loader is allowed when
// WithRegistry supplies the machines.
func New(loader ports.MachineLoader, opts ...Option) (*Simulator, error) {
	sim := &Simulator{now: time.Now}
	for _, opt := range opts {
		opt(sim)
	}
	if sim.logger == nil {
		sim.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if sim.registry == nil {
		sim.registry = registry.NewRegistry()
	}

	if loader == nil {
		if sim.registry.Len() == 0 {
			return nil, fmt.Errorf("a loader is required when no registry is provided")
		}
		return sim, nil
	}

	ids, err := loader.ListSources()
	if err != nil {
		return nil, fmt.Errorf("failed to list machine sources: %w", err)
	}
	for _, id := range ids {
		sim.load(loader, id)
	}
	sim.logger.Info("Machines loaded", "count", sim.registry.Len(), "sources", len(ids))
	return sim, nil
}

// Open is New with a loader over the YAML files in dir.
func Open(dir string, opts ...Option) (*Simulator, error) {
	return New(file.NewLoader(dir), opts...)
}

func (s *Simulator) load(loader ports.MachineLoader, id string) {
	data, err := loader.ReadSource(id)
	if err != nil {
		s.logger.Warn("Failed to read machine source", "source", id, "err", err)
		return
	}
	m, err := compiler.Parse(data)
	if err != nil {
		s.logger.Warn("Skipping invalid machine description", "source", id, "err", err)
		return
	}
	if err := s.registry.Register(id, m); err != nil {
		if errors.Is(err, registry.ErrDuplicate) {
			s.logger.Warn("Duplicate machine name, keeping the first", "machine", m.Name, "source", id)
			return
		}
		s.logger.Warn("Failed to register machine", "source", id, "err", err)
		return
	}
	s.logger.Debug("Machine loaded", "machine", m.Name, "source", id, "transitions", len(m.Transitions))
}

// Parse parses and validates a single description text.
// An empty text is not a mapping and fails with domain.ErrInvalidDescription.
func Parse(data []byte) (*domain.Machine, error) {
	return compiler.Parse(data)
}

// Registry returns the underlying name registry.
func (s *Simulator) Registry() *registry.Registry {
	return s.registry
}

// Machines lists the names of the loaded descriptions, sorted.
func (s *Simulator) Machines() []string {
	return s.registry.Names()
}

// Machine returns a loaded description by name.
// Returns domain.ErrMachineNotFound if the name is unknown.
func (s *Simulator) Machine(name string) (*domain.Machine, error) {
	return s.registry.Get(name)
}

// Start initializes a run with one input per tape.
func (s *Simulator) Start(ctx context.Context, name string, inputs []string) (*domain.RunState, error) {
	m, err := s.Machine(name)
	if err != nil {
		return nil, err
	}
	if err := CheckInputs(inputs); err != nil {
		return nil, err
	}
	state := runtime.Initialize(m, inputs)

	if s.hooks.OnRunStart != nil {
		s.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase: s.event(domain.EventRunStart, m),
			Inputs:    inputs,
		})
	}
	s.logger.Debug("Run started", "machine", m.Name, "state", state.State)
	return state, nil
}

// Step advances a copy of state by one transition. The caller's state is
// never modified. Stepping a halted state returns domain.ErrAlreadyHalted.
func (s *Simulator) Step(ctx context.Context, name string, state *domain.RunState) (*domain.RunState, error) {
	m, err := s.Machine(name)
	if err != nil {
		return nil, err
	}
	if err := state.Validate(m); err != nil {
		return nil, err
	}

	next := state.Clone()
	if err := s.step(ctx, m, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Run steps a copy of state until it halts. With maxSteps > 0, it gives up
// after that many transitions and returns the last state together with
// domain.ErrStepBudgetExceeded. Cancelling ctx stops the run the same way.
func (s *Simulator) Run(ctx context.Context, name string, state *domain.RunState, maxSteps int) (*domain.RunState, error) {
	m, err := s.Machine(name)
	if err != nil {
		return nil, err
	}
	if err := state.Validate(m); err != nil {
		return nil, err
	}

	cur := state.Clone()
	for taken := 0; !cur.Halted; taken++ {
		if maxSteps > 0 && taken >= maxSteps {
			s.logger.Warn("Step budget exceeded", "machine", m.Name, "max_steps", maxSteps, "state", cur.State)
			return cur, fmt.Errorf("%w: %d steps", domain.ErrStepBudgetExceeded, maxSteps)
		}
		if err := ctx.Err(); err != nil {
			return cur, err
		}
		if err := s.step(ctx, m, cur); err != nil {
			return cur, err
		}
	}
	return cur, nil
}

// Outcome classifies state against the named machine.
func (s *Simulator) Outcome(name string, state *domain.RunState) (domain.Outcome, error) {
	m, err := s.Machine(name)
	if err != nil {
		return "", err
	}
	return m.Outcome(state), nil
}

func (s *Simulator) step(ctx context.Context, m *domain.Machine, state *domain.RunState) error {
	from := state.State
	res, err := runtime.Step(m, state)
	if err != nil {
		return err
	}

	if res.Rule >= 0 {
		if s.hooks.OnStep != nil {
			s.hooks.OnStep(ctx, &domain.StepEvent{
				EventBase: s.event(domain.EventStep, m),
				FromState: from,
				ToState:   state.State,
				StepCount: state.StepCount,
			})
		}
		s.logger.Debug("Transition applied", "machine", m.Name, "from", from, "to", state.State, "rule", res.Rule)
	}

	if res.Halted {
		outcome := m.Outcome(state)
		if s.hooks.OnHalt != nil {
			s.hooks.OnHalt(ctx, &domain.HaltEvent{
				EventBase: s.event(domain.EventHalt, m),
				State:     state.State,
				StepCount: state.StepCount,
				Reason:    res.Reason,
				Outcome:   outcome,
			})
		}
		s.logger.Info("Run halted",
			"machine", m.Name,
			"state", state.State,
			"steps", state.StepCount,
			"reason", res.Reason,
			"outcome", outcome,
		)
	}
	return nil
}

func (s *Simulator) event(t domain.EventType, m *domain.Machine) domain.EventBase {
	return domain.EventBase{
		Timestamp: s.now(),
		Type:      t,
		Machine:   m.Name,
	}
}
