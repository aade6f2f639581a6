package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/roomread"
	"github.com/aretw0/roomread/internal/presentation/tui"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/runner"
)

// PlayOptions configures an interactive session.
type PlayOptions struct {
	Key       domain.ContentKey
	Completed string // progress token carried over from earlier sessions
	SessionID string
	JSON      bool
	Quiet     bool // no banner, no closing messages
}

// Play runs one lesson or quiz on in/out until it completes or the learner quits.
// Finished sessions are removed from the store; abandoned ones stay for inspection.
func Play(ctx context.Context, env *Environment, opts PlayOptions, in io.Reader, out io.Writer) error {
	var handler runner.IOHandler
	switch {
	case opts.JSON:
		handler = runner.NewJSONHandler(in, out)
	case isTerminal(out):
		if !opts.Quiet {
			tui.PrintBanner(out, roomread.Version)
		}
		handler = runner.NewTextHandler(in, out, runner.WithTextHandlerRenderer(tui.NewRenderer()))
	default:
		handler = runner.NewTextHandler(in, out)
	}

	r := runner.NewRunner(
		runner.WithInputHandler(handler),
		runner.WithLogger(env.Logger),
		runner.WithSessionID(opts.SessionID),
	)

	state, err := r.Run(ctx, env.App.Sessions(), opts.Key, opts.Completed)
	if err != nil {
		return err
	}
	env.Logger.Debug("session finished", "session_id", state.SessionID, "key", state.Key.String(), "phase", state.Phase)

	switch state.Phase {
	case domain.PhaseError:
		if err := env.App.Leave(ctx, state.SessionID); err != nil {
			env.Logger.Warn("failed to remove session", "session_id", state.SessionID, "err", err)
		}
		if state.Failure != nil {
			return state.Failure
		}
		return fmt.Errorf("%w: %s", domain.ErrContentLoadFailed, state.Key)
	case domain.PhaseComplete:
		view := env.App.View(state)
		if err := env.App.Leave(ctx, state.SessionID); err != nil {
			env.Logger.Warn("failed to remove session", "session_id", state.SessionID, "err", err)
		}
		if !opts.Quiet && !opts.JSON {
			printSystemMessage(out, "Progress: --completed %s", view.Completion.Completed)
		}
	default:
		if !opts.Quiet && !opts.JSON {
			printSystemMessage(out, "Session '%s' left at %s.", state.SessionID, positionLabel(state))
		}
	}
	return nil
}

func positionLabel(state *domain.RunnerState) string {
	return fmt.Sprintf("step %d of %d", state.Position+1, len(state.Blocks))
}
