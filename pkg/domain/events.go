package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventStep     EventType = "step"
	EventHalt     EventType = "halt"
)

// HaltReason tells the two halting conditions apart.
type HaltReason string

const (
	HaltFinalState   HaltReason = "final_state"
	HaltNoTransition HaltReason = "no_transition"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Machine   string    `json:"machine"`
}

// RunEvent is emitted when a run is initialized.
type RunEvent struct {
	EventBase
	Inputs []string `json:"inputs"`
}

// StepEvent is emitted after a transition is applied.
type StepEvent struct {
	EventBase
	FromState string `json:"from_state"`
	ToState   string `json:"to_state"`
	StepCount int    `json:"step_count"`
}

// HaltEvent is emitted when a run halts.
type HaltEvent struct {
	EventBase
	State     string     `json:"state"`
	StepCount int        `json:"step_count"`
	Reason    HaltReason `json:"reason"`
	Outcome   Outcome    `json:"outcome"`
}

// LifecycleHooks defines callbacks for simulator observability.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnStep     func(context.Context, *StepEvent)
	OnHalt     func(context.Context, *HaltEvent)
}

// ChainHooks runs every non-nil callback of each hook set, in order.
func ChainHooks(sets ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *RunEvent) {
			for _, h := range sets {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnStep: func(ctx context.Context, e *StepEvent) {
			for _, h := range sets {
				if h.OnStep != nil {
					h.OnStep(ctx, e)
				}
			}
		},
		OnHalt: func(ctx context.Context, e *HaltEvent) {
			for _, h := range sets {
				if h.OnHalt != nil {
					h.OnHalt(ctx, e)
				}
			}
		},
	}
}
