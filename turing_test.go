package turing_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const looper = `
name: Looper
tape_count: 1
blank_symbol: _
initial_state: q0
final_states: [never]
transitions:
  - [[q0, [_]], [q0, [_], [R]]]
`

const inverter = `
name: Inverter
tape_count: 1
blank_symbol: _
initial_state: flip
final_states: [done]
transitions:
  - [[flip, [0]], [flip, [1], [R]]]
  - [[flip, [1]], [flip, [0], [R]]]
  - [[flip, [_]], [done, [_], [N]]]
`

func newSimulator(t *testing.T, opts ...turing.Option) *turing.Simulator {
	t.Helper()
	sim, err := turing.New(memory.NewLoader(map[string]string{
		"inverter": inverter,
		"looper":   looper,
	}), opts...)
	require.NoError(t, err)
	return sim
}

func TestNew_SkipsInvalidAndDuplicates(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	sim, err := turing.New(memory.NewLoader(map[string]string{
		"a-inverter": inverter,
		"b-broken":   "name: Broken\n",
		"c-garbage":  "[unclosed",
		"d-dup":      inverter,
		"e-empty":    "",
	}), turing.WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, []string{"Inverter"}, sim.Machines())
	entry, ok := sim.Registry().Lookup("Inverter")
	require.True(t, ok)
	assert.Equal(t, "a-inverter", entry.Source)

	assert.Contains(t, logs.String(), "Skipping invalid machine description")
	assert.Contains(t, logs.String(), "Duplicate machine name")
}

func TestNew_RequiresLoaderOrRegistry(t *testing.T) {
	_, err := turing.New(nil)
	assert.Error(t, err)

	r := registry.NewRegistry()
	require.NoError(t, r.Register("x", &domain.Machine{Name: "X", TapeCount: 1, BlankSymbol: "_", InitialState: "q0"}))
	sim, err := turing.New(nil, turing.WithRegistry(r))
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, sim.Machines())
}

func TestSimulator_UnknownMachine(t *testing.T) {
	sim := newSimulator(t)
	ctx := context.Background()

	_, err := sim.Machine("Nope")
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	_, err = sim.Start(ctx, "Nope", nil)
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	_, err = sim.Step(ctx, "Nope", &domain.RunState{})
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
}

func TestSimulator_StepDoesNotMutateCaller(t *testing.T) {
	sim := newSimulator(t)
	ctx := context.Background()

	state, err := sim.Start(ctx, "Inverter", []string{"01"})
	require.NoError(t, err)

	next, err := sim.Step(ctx, "Inverter", state)
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "1"}, state.Tapes[0])
	assert.Equal(t, 0, state.Heads[0])
	assert.Equal(t, 0, state.StepCount)
	assert.Equal(t, []string{"1", "1"}, next.Tapes[0])
	assert.Equal(t, 1, next.Heads[0])
	assert.Equal(t, 1, next.StepCount)
}

func TestSimulator_StepRejectsInvalidState(t *testing.T) {
	sim := newSimulator(t)
	_, err := sim.Step(context.Background(), "Inverter", &domain.RunState{
		State: "flip",
		Tapes: [][]string{{"0"}, {"1"}},
		Heads: []int{0, 0},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRunState)

	// A head far past its tape would make the step pad millions of blanks.
	_, err = sim.Step(context.Background(), "Inverter", &domain.RunState{
		State: "flip",
		Tapes: [][]string{{}},
		Heads: []int{20_000_000},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRunState)
}

func TestSimulator_StepHalted(t *testing.T) {
	sim := newSimulator(t)
	ctx := context.Background()

	state, _ := sim.Start(ctx, "Inverter", []string{""})
	final, err := sim.Step(ctx, "Inverter", state)
	require.NoError(t, err)
	require.True(t, final.Halted)

	_, err = sim.Step(ctx, "Inverter", final)
	assert.ErrorIs(t, err, domain.ErrAlreadyHalted)
}

func TestSimulator_RunBudget(t *testing.T) {
	sim := newSimulator(t)
	ctx := context.Background()

	state, _ := sim.Start(ctx, "Looper", nil)
	last, err := sim.Run(ctx, "Looper", state, 25)
	assert.ErrorIs(t, err, domain.ErrStepBudgetExceeded)
	require.NotNil(t, last)
	assert.Equal(t, 25, last.StepCount)
	assert.False(t, last.Halted)
	assert.Equal(t, 0, state.StepCount, "caller's state must not change")
}

func TestSimulator_RunCancelled(t *testing.T) {
	sim := newSimulator(t)
	ctx, cancel := context.WithCancel(context.Background())
	state, _ := sim.Start(ctx, "Looper", nil)
	cancel()

	last, err := sim.Run(ctx, "Looper", state, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, last.StepCount)
}

func TestSimulator_Hooks(t *testing.T) {
	var starts, steps int
	var halt *domain.HaltEvent
	sim := newSimulator(t, turing.WithLifecycleHooks(domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) { starts++ },
		OnStep:     func(_ context.Context, e *domain.StepEvent) { steps++ },
		OnHalt:     func(_ context.Context, e *domain.HaltEvent) { halt = e },
	}))
	ctx := context.Background()

	state, _ := sim.Start(ctx, "Inverter", []string{"10"})
	final, err := sim.Run(ctx, "Inverter", state, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, starts)
	assert.Equal(t, 3, steps)
	require.NotNil(t, halt)
	assert.Equal(t, "Inverter", halt.Machine)
	assert.Equal(t, domain.HaltFinalState, halt.Reason)
	assert.Equal(t, domain.OutcomeAccepted, halt.Outcome)
	assert.Equal(t, final.StepCount, halt.StepCount)
}

func TestSimulator_HaltWithoutTransition(t *testing.T) {
	var halt *domain.HaltEvent
	sim := newSimulator(t, turing.WithLifecycleHooks(domain.LifecycleHooks{
		OnHalt: func(_ context.Context, e *domain.HaltEvent) { halt = e },
	}))
	ctx := context.Background()

	state, _ := sim.Start(ctx, "Inverter", []string{"2"})
	final, err := sim.Run(ctx, "Inverter", state, 0)
	require.NoError(t, err)

	assert.True(t, final.Halted)
	assert.Equal(t, "flip", final.State)
	assert.Equal(t, 0, final.StepCount)
	require.NotNil(t, halt)
	assert.Equal(t, domain.HaltNoTransition, halt.Reason)
	assert.Equal(t, domain.OutcomeRejected, halt.Outcome)
}

func TestParse(t *testing.T) {
	m, err := turing.Parse([]byte(inverter))
	require.NoError(t, err)
	assert.Equal(t, "Inverter", m.Name)

	_, err = turing.Parse([]byte("name: x\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidDescription)

	for _, text := range []string{"", "  \n"} {
		m, err := turing.Parse([]byte(text))
		assert.Nil(t, m)
		assert.ErrorIs(t, err, domain.ErrInvalidDescription, "%q", text)
	}
}
