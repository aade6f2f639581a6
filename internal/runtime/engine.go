package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/roomread/internal/logging"
	"github.com/aretw0/roomread/pkg/domain"
)

// Engine is the lesson and quiz runner.
// It is stateless: every operation takes a state and returns a new one,
// leaving its input untouched so that a rejected call cannot corrupt a session.
type Engine struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a runner engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Outcome describes the result of a selection.
type Outcome struct {
	Correct bool `json:"correct"`
	// TryAgain is the transient signal shown after a wrong answer.
	TryAgain bool `json:"try_again"`
}

// InvalidOperationError is returned when an action is not allowed in the current state.
type InvalidOperationError struct {
	Op     string
	Phase  domain.Phase
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("%s rejected in phase %s: %s", e.Op, e.Phase, e.Reason)
}

func (e *InvalidOperationError) Unwrap() error {
	return domain.ErrInvalidOperation
}

func reject(op string, state *domain.RunnerState, reason string) error {
	return &InvalidOperationError{Op: op, Phase: state.Phase, Reason: reason}
}

// Start creates a session waiting for its content.
func (e *Engine) Start(ctx context.Context, sessionID string, generation uint64, key domain.ContentKey, completed string) *domain.RunnerState {
	e.logger.DebugContext(ctx, "session started", "session_id", sessionID, "key", key.String(), "generation", generation)
	return domain.NewRunnerState(sessionID, generation, key, completed)
}

// Load installs content into a loading session.
// Empty content is treated as not found; malformed questions as a load failure.
// Both put the session into its terminal error phase rather than returning an error.
func (e *Engine) Load(ctx context.Context, state *domain.RunnerState, content domain.Content) (*domain.RunnerState, error) {
	if state.Phase != domain.PhaseLoading {
		return nil, reject("load", state, "session is not loading")
	}

	if content.IsEmpty() {
		return e.fail(ctx, state, domain.FailureNotFound, "no content for "+state.Key.String()), nil
	}

	blocks := content.Blocks()
	if err := blocks.Validate(); err != nil {
		return e.fail(ctx, state, domain.FailureLoadFailed, err.Error()), nil
	}

	next := e.cloneState(state)
	next.Phase = domain.PhaseReady
	next.Blocks = blocks
	next.Lesson = content.Meta()
	next.Position = 0
	next.ClearSelection()
	next.Failure = nil

	e.emitStep(ctx, domain.EventLoad, next)
	return next, nil
}

// Fail records a content load error on a loading session.
func (e *Engine) Fail(ctx context.Context, state *domain.RunnerState, err error) (*domain.RunnerState, error) {
	if state.Phase != domain.PhaseLoading {
		return nil, reject("fail", state, "session is not loading")
	}
	cause := ""
	if err != nil {
		cause = err.Error()
	}
	return e.fail(ctx, state, domain.ClassifyLoadError(err), cause), nil
}

func (e *Engine) fail(ctx context.Context, state *domain.RunnerState, kind domain.FailureKind, cause string) *domain.RunnerState {
	next := e.cloneState(state)
	next.Phase = domain.PhaseError
	next.Blocks = nil
	next.Lesson = nil
	next.Position = 0
	next.ClearSelection()
	next.Failure = &domain.Failure{
		Kind:    kind,
		Message: FailureMessage(state.Key.Mode, kind),
		Cause:   cause,
	}

	e.logger.WarnContext(ctx, "content load failed",
		"session_id", state.SessionID,
		"key", state.Key.String(),
		"kind", kind,
		"cause", cause,
	)
	e.emitFailure(ctx, next)
	return next
}

// FailureMessage returns the user-facing message for a failed load.
func FailureMessage(mode domain.Mode, kind domain.FailureKind) string {
	switch {
	case mode == domain.ModeLesson && kind == domain.FailureNotFound:
		return "Lesson not available yet."
	case mode == domain.ModeLesson:
		return "Failed to load lesson."
	case kind == domain.FailureNotFound:
		return "No questions available for this category yet."
	default:
		return "Failed to load questions."
	}
}

// Select answers the current question.
// A correct answer reveals the explanation and locks the question.
// A wrong answer leaves it open for another attempt; attempts are unlimited.
func (e *Engine) Select(ctx context.Context, state *domain.RunnerState, option int) (*domain.RunnerState, Outcome, error) {
	if state.Phase != domain.PhaseReady {
		return nil, Outcome{}, reject("select", state, "session is not ready")
	}

	blk, ok := state.Current()
	if !ok {
		return nil, Outcome{}, reject("select", state, "no current block")
	}

	var q domain.QuestionItem
	switch v := blk.(type) {
	case domain.QuestionItem:
		q = v
	case domain.TextBlock:
		return nil, Outcome{}, reject("select", state, "current block is text")
	default:
		return nil, Outcome{}, reject("select", state, fmt.Sprintf("unsupported block %T", blk))
	}

	if state.Revealed {
		return nil, Outcome{}, reject("select", state, "question already answered")
	}
	if !q.InRange(option) {
		return nil, Outcome{}, reject("select", state, fmt.Sprintf("option %d out of range [0, %d)", option, len(q.Options)))
	}

	correct := q.IsCorrect(option)

	next := e.cloneState(state)
	next.Selected = &option
	next.LastCorrect = &correct
	next.Revealed = correct

	e.emitAnswer(ctx, next, option, correct)
	return next, Outcome{Correct: correct, TryAgain: !correct}, nil
}

// Advance moves past the current block.
// Text blocks never block progression. Question blocks require a correct answer first.
// Advancing past the final block completes the session.
func (e *Engine) Advance(ctx context.Context, state *domain.RunnerState) (*domain.RunnerState, error) {
	if state.Phase != domain.PhaseReady {
		return nil, reject("advance", state, "session is not ready")
	}

	blk, ok := state.Current()
	if !ok {
		return nil, reject("advance", state, "no current block")
	}

	switch blk.(type) {
	case domain.TextBlock:
	case domain.QuestionItem:
		if !state.Revealed {
			return nil, reject("advance", state, "question not answered correctly")
		}
	default:
		return nil, reject("advance", state, fmt.Sprintf("unsupported block %T", blk))
	}

	next := e.cloneState(state)
	if state.IsLast() {
		next.Phase = domain.PhaseComplete
		e.emitStep(ctx, domain.EventComplete, next)
		return next, nil
	}

	next.Position++
	next.ClearSelection()
	e.emitStep(ctx, domain.EventAdvance, next)
	return next, nil
}

// ProgressFraction is the display-only share of blocks passed.
// It is 1 once complete and 0 while loading or failed.
func ProgressFraction(state *domain.RunnerState) float64 {
	switch state.Phase {
	case domain.PhaseComplete:
		return 1
	case domain.PhaseReady:
		if len(state.Blocks) == 0 {
			return 0
		}
		return float64(state.Position) / float64(len(state.Blocks))
	default:
		return 0
	}
}

func (e *Engine) cloneState(state *domain.RunnerState) *domain.RunnerState {
	return state.Snapshot()
}
