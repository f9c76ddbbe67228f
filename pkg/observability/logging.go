package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// LogHooks writes one structured record per lifecycle event.
// Steps are logged at debug level; starts and halts at info.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start",
				"machine", e.Machine,
				"inputs", e.Inputs,
			)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"machine", e.Machine,
				"from", e.FromState,
				"to", e.ToState,
				"step_count", e.StepCount,
			)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			logger.InfoContext(ctx, "halt",
				"machine", e.Machine,
				"state", e.State,
				"step_count", e.StepCount,
				"reason", e.Reason,
				"outcome", e.Outcome,
			)
		},
	}
}
