package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/roomread/pkg/domain"
)

// Compose returns hooks that call every given hook set in order.
func Compose(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(ctx context.Context, e *domain.StepEvent) {
			for _, s := range sets {
				if s.OnLoad != nil {
					s.OnLoad(ctx, e)
				}
			}
		},
		OnSelect: func(ctx context.Context, e *domain.AnswerEvent) {
			for _, s := range sets {
				if s.OnSelect != nil {
					s.OnSelect(ctx, e)
				}
			}
		},
		OnAdvance: func(ctx context.Context, e *domain.StepEvent) {
			for _, s := range sets {
				if s.OnAdvance != nil {
					s.OnAdvance(ctx, e)
				}
			}
		},
		OnComplete: func(ctx context.Context, e *domain.StepEvent) {
			for _, s := range sets {
				if s.OnComplete != nil {
					s.OnComplete(ctx, e)
				}
			}
		},
		OnFailure: func(ctx context.Context, e *domain.FailureEvent) {
			for _, s := range sets {
				if s.OnFailure != nil {
					s.OnFailure(ctx, e)
				}
			}
		},
	}
}

// LogHooks logs every runner event. Answers and steps are debug; completions
// info; failures warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "content loaded", "session_id", e.SessionID, "key", e.Key.String(), "blocks", e.Total)
		},
		OnSelect: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.DebugContext(ctx, "option selected", "session_id", e.SessionID, "position", e.Position, "option", e.Option, "correct", e.Correct)
		},
		OnAdvance: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "advanced", "session_id", e.SessionID, "position", e.Position, "total", e.Total)
		},
		OnComplete: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "session complete", "session_id", e.SessionID, "key", e.Key.String())
		},
		OnFailure: func(ctx context.Context, e *domain.FailureEvent) {
			logger.WarnContext(ctx, "session failed", "session_id", e.SessionID, "key", e.Key.String(), "kind", e.Kind, "cause", e.Cause)
		},
	}
}
