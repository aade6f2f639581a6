package runtime

import (
	"context"

	"github.com/aretw0/roomread/pkg/domain"
)

func (e *Engine) base(t domain.EventType, state *domain.RunnerState) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		SessionID: state.SessionID,
		Key:       state.Key,
	}
}

func (e *Engine) emitStep(ctx context.Context, t domain.EventType, state *domain.RunnerState) {
	var hook func(context.Context, *domain.StepEvent)
	switch t {
	case domain.EventLoad:
		hook = e.hooks.OnLoad
	case domain.EventAdvance:
		hook = e.hooks.OnAdvance
	case domain.EventComplete:
		hook = e.hooks.OnComplete
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.StepEvent{
		EventBase: e.base(t, state),
		Position:  state.Position,
		Total:     len(state.Blocks),
	})
}

func (e *Engine) emitAnswer(ctx context.Context, state *domain.RunnerState, option int, correct bool) {
	if e.hooks.OnSelect == nil {
		return
	}
	e.hooks.OnSelect(ctx, &domain.AnswerEvent{
		EventBase: e.base(domain.EventSelect, state),
		Position:  state.Position,
		Option:    option,
		Correct:   correct,
	})
}

func (e *Engine) emitFailure(ctx context.Context, state *domain.RunnerState) {
	if e.hooks.OnFailure == nil || state.Failure == nil {
		return
	}
	e.hooks.OnFailure(ctx, &domain.FailureEvent{
		EventBase: e.base(domain.EventFailure, state),
		Kind:      state.Failure.Kind,
		Cause:     state.Failure.Cause,
	})
}
