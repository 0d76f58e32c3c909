package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// LoggingHooks logs every lifecycle event to logger.
// Steps are logged at debug level since a run can produce many of them.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModeChange: func(ctx context.Context, e *domain.ModeEvent) {
			logger.InfoContext(ctx, "mode_change",
				"run_id", e.RunID,
				"from", e.From.String(),
				"to", e.To.String(),
			)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"run_id", e.RunID,
				"step", e.Step,
				"transition", e.Transition.String(),
				"head", e.Head,
			)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			logger.InfoContext(ctx, "halt",
				"run_id", e.RunID,
				"steps", e.Steps,
				"state", e.State,
				"symbol", domain.SymbolLabel(e.Symbol),
				"head", e.Head,
			)
		},
	}
}
