package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/roomread/internal/logging"
	"github.com/aretw0/roomread/internal/runtime"
	"github.com/aretw0/roomread/pkg/domain"
)

// Sessions is the part of the session manager the runner drives.
type Sessions interface {
	StartAndWait(ctx context.Context, sessionID string, key domain.ContentKey, completed string) (*domain.RunnerState, error)
	Select(ctx context.Context, sessionID string, option int) (*domain.RunnerState, runtime.Outcome, error)
	Advance(ctx context.Context, sessionID string) (*domain.RunnerState, error)
}

// Runner drives one session from start to a terminal phase through an IOHandler.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// SessionID names the session. Empty lets the session manager pick one.
	SessionID string
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run starts a session for key and loops until it completes, fails, or the
// learner quits. It returns the last state seen.
func (r *Runner) Run(ctx context.Context, sessions Sessions, key domain.ContentKey, completed string) (*domain.RunnerState, error) {
	state, err := sessions.StartAndWait(ctx, r.SessionID, key, completed)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	r.Logger.Debug("session started", "session_id", state.SessionID, "phase", state.Phase)

	for {
		view := runtime.Render(state)
		if err := r.Handler.Output(ctx, view); err != nil {
			return state, fmt.Errorf("output error: %w", err)
		}
		if state.Phase.Terminal() {
			return state, nil
		}

		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return state, nil
			}
			if errors.Is(err, ErrInvalidAnswer) {
				_ = r.Handler.SystemOutput(ctx, err.Error())
				continue
			}
			return state, fmt.Errorf("input error: %w", err)
		}

		cmd, err := ParseCommand(line, view)
		if err != nil {
			_ = r.Handler.SystemOutput(ctx, err.Error())
			continue
		}

		if cmd.Kind == CommandQuit {
			return state, nil
		}

		next, err := r.apply(ctx, sessions, state.SessionID, cmd)
		switch {
		case errors.Is(err, domain.ErrInvalidOperation):
			r.Logger.Debug("command rejected", "session_id", state.SessionID, "err", err)
			_ = r.Handler.SystemOutput(ctx, rejection(view))
			continue
		case err != nil:
			return state, err
		}
		state = next
	}
}

func (r *Runner) apply(ctx context.Context, sessions Sessions, sessionID string, cmd Command) (*domain.RunnerState, error) {
	switch cmd.Kind {
	case CommandSelect:
		next, _, err := sessions.Select(ctx, sessionID, cmd.Option)
		return next, err
	default:
		return sessions.Advance(ctx, sessionID)
	}
}

func rejection(view runtime.View) string {
	if view.Step != nil && view.Step.Kind == domain.BlockQuestion && !view.Step.Revealed {
		return "Pick the correct answer to continue."
	}
	return "That is not possible right now."
}
