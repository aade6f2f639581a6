package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/roomread/internal/runtime"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quizKey = domain.ContentKey{Country: "france", Category: "dining-etiquette", Mode: domain.ModeQuiz}

var lessonKey = domain.ContentKey{Country: "france", Category: "greetings-gestures", Mode: domain.ModeLesson, Tier: domain.DefaultTier}

func q(correct int, options ...string) domain.QuestionItem {
	return domain.QuestionItem{
		Prompt:       "Which one?",
		Options:      options,
		CorrectIndex: correct,
		Explanation:  "Because.",
	}
}

func loaded(t *testing.T, e *runtime.Engine, key domain.ContentKey, content domain.Content) *domain.RunnerState {
	t.Helper()
	state := e.Start(context.Background(), "s1", 1, key, "")
	next, err := e.Load(context.Background(), state, content)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseReady, next.Phase)
	return next
}

func TestEngine_SelectCorrectRevealsExplanation(t *testing.T) {
	e := runtime.NewEngine()
	items := []domain.QuestionItem{q(0, "a", "b"), q(1, "a", "b", "c"), q(3, "a", "b", "c", "d")}

	for _, item := range items {
		state := loaded(t, e, quizKey, domain.QuizContent(item))

		next, outcome, err := e.Select(context.Background(), state, item.CorrectIndex)
		require.NoError(t, err)
		assert.True(t, outcome.Correct)
		assert.False(t, outcome.TryAgain)
		require.NotNil(t, next.LastCorrect)
		assert.True(t, *next.LastCorrect)
		assert.True(t, next.Revealed)
	}
}

func TestEngine_SelectWrongKeepsQuestionOpen(t *testing.T) {
	e := runtime.NewEngine()
	item := q(2, "a", "b", "c", "d")
	state := loaded(t, e, quizKey, domain.QuizContent(item))

	for i := range item.Options {
		if i == item.CorrectIndex {
			continue
		}
		next, outcome, err := e.Select(context.Background(), state, i)
		require.NoError(t, err)
		assert.False(t, outcome.Correct)
		assert.True(t, outcome.TryAgain)
		require.NotNil(t, next.LastCorrect)
		assert.False(t, *next.LastCorrect)
		assert.False(t, next.Revealed)

		// Still selectable
		again, _, err := e.Select(context.Background(), next, item.CorrectIndex)
		require.NoError(t, err)
		assert.True(t, again.Revealed)
	}
}

func TestEngine_AdvanceBlockedUntilRevealed(t *testing.T) {
	e := runtime.NewEngine()
	state := loaded(t, e, quizKey, domain.QuizContent(q(1, "a", "b"), q(0, "a", "b")))

	_, err := e.Advance(context.Background(), state)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	wrong, _, err := e.Select(context.Background(), state, 0)
	require.NoError(t, err)

	_, err = e.Advance(context.Background(), wrong)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, 0, wrong.Position, "rejected advance must not move the session")

	var invalid *runtime.InvalidOperationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "advance", invalid.Op)
}

func TestEngine_CompleteExactlyOnce(t *testing.T) {
	ctx := context.Background()
	completions := 0
	e := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnComplete: func(context.Context, *domain.StepEvent) { completions++ },
	}))
	state := loaded(t, e, quizKey, domain.QuizContent(q(1, "a", "b")))

	state, _, err := e.Select(ctx, state, 1)
	require.NoError(t, err)

	done, err := e.Advance(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseComplete, done.Phase)
	assert.Equal(t, 1, completions)

	_, err = e.Advance(ctx, done)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	_, _, err = e.Select(ctx, done, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, 1, completions)
}

func TestEngine_QuizScenario(t *testing.T) {
	ctx := context.Background()
	e := runtime.NewEngine()
	state := loaded(t, e, quizKey, domain.QuizContent(q(1, "A", "B", "C")))

	state, outcome, err := e.Select(ctx, state, 0)
	require.NoError(t, err)
	assert.False(t, outcome.Correct)
	assert.Empty(t, runtime.Render(state).Step.Explanation)

	state, outcome, err = e.Select(ctx, state, 1)
	require.NoError(t, err)
	assert.True(t, outcome.Correct)
	assert.Equal(t, "Because.", runtime.Render(state).Step.Explanation)

	state, err = e.Advance(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseComplete, state.Phase)
}

func TestEngine_LessonScenario(t *testing.T) {
	ctx := context.Background()
	e := runtime.NewEngine()
	lesson := domain.Lesson{
		Title: "Greetings",
		Intro: "How to say hello.",
		Blocks: domain.Blocks{
			domain.TextBlock{Body: "intro"},
			q(1, "A", "B", "C"),
		},
	}
	state := loaded(t, e, lessonKey, domain.LessonContent(lesson))
	assert.Equal(t, 0, state.Position)

	state, err := e.Advance(ctx, state)
	require.NoError(t, err, "text blocks never require an answer")
	assert.Equal(t, 1, state.Position)
	assert.Nil(t, state.Selected)

	_, err = e.Advance(ctx, state)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestEngine_SelectRejections(t *testing.T) {
	ctx := context.Background()
	e := runtime.NewEngine()

	t.Run("out of range", func(t *testing.T) {
		state := loaded(t, e, quizKey, domain.QuizContent(q(1, "a", "b")))
		for _, opt := range []int{-1, 2, 10} {
			_, _, err := e.Select(ctx, state, opt)
			assert.ErrorIs(t, err, domain.ErrInvalidOperation)
		}
		assert.Nil(t, state.Selected)
	})

	t.Run("on text block", func(t *testing.T) {
		state := loaded(t, e, lessonKey, domain.LessonContent(domain.Lesson{
			Blocks: domain.Blocks{domain.TextBlock{Body: "hi"}},
		}))
		_, _, err := e.Select(ctx, state, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	})

	t.Run("after reveal", func(t *testing.T) {
		state := loaded(t, e, quizKey, domain.QuizContent(q(1, "a", "b")))
		state, _, err := e.Select(ctx, state, 1)
		require.NoError(t, err)
		_, _, err = e.Select(ctx, state, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidOperation)
		assert.Equal(t, 1, *state.Selected)
	})

	t.Run("while loading", func(t *testing.T) {
		state := e.Start(ctx, "s1", 1, quizKey, "")
		_, _, err := e.Select(ctx, state, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidOperation)
		_, err = e.Advance(ctx, state)
		assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	})
}

func TestEngine_AdvanceResetsSelection(t *testing.T) {
	ctx := context.Background()
	e := runtime.NewEngine()
	state := loaded(t, e, quizKey, domain.QuizContent(q(0, "a", "b"), q(1, "a", "b")))

	state, _, err := e.Select(ctx, state, 0)
	require.NoError(t, err)
	state, err = e.Advance(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, 1, state.Position)
	assert.Nil(t, state.Selected)
	assert.Nil(t, state.LastCorrect)
	assert.False(t, state.Revealed)
}

func TestEngine_DoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	e := runtime.NewEngine()
	state := loaded(t, e, quizKey, domain.QuizContent(q(0, "a", "b"), q(1, "a", "b")))
	before := state.Snapshot()

	selected, _, err := e.Select(ctx, state, 0)
	require.NoError(t, err)
	_, err = e.Advance(ctx, selected)
	require.NoError(t, err)

	assert.Equal(t, before, state)
}

func TestEngine_Load(t *testing.T) {
	ctx := context.Background()
	e := runtime.NewEngine()

	t.Run("empty quiz is not found", func(t *testing.T) {
		state := e.Start(ctx, "s1", 1, quizKey, "")
		next, err := e.Load(ctx, state, domain.QuizContent())
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseError, next.Phase)
		assert.Equal(t, domain.FailureNotFound, next.Failure.Kind)
		assert.Equal(t, "No questions available for this category yet.", next.Failure.Message)
	})

	t.Run("empty lesson is not found", func(t *testing.T) {
		state := e.Start(ctx, "s1", 1, lessonKey, "")
		next, err := e.Load(ctx, state, domain.LessonContent(domain.Lesson{Title: "x"}))
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseError, next.Phase)
		assert.Equal(t, "Lesson not available yet.", next.Failure.Message)
	})

	t.Run("malformed question fails the load", func(t *testing.T) {
		state := e.Start(ctx, "s1", 1, quizKey, "")
		next, err := e.Load(ctx, state, domain.QuizContent(q(5, "a", "b")))
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseError, next.Phase)
		assert.Equal(t, domain.FailureLoadFailed, next.Failure.Kind)
		assert.Equal(t, "Failed to load questions.", next.Failure.Message)
	})

	t.Run("single option fails the load", func(t *testing.T) {
		state := e.Start(ctx, "s1", 1, quizKey, "")
		next, err := e.Load(ctx, state, domain.QuizContent(q(0, "only")))
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseError, next.Phase)
	})

	t.Run("twice is rejected", func(t *testing.T) {
		state := loaded(t, e, quizKey, domain.QuizContent(q(0, "a", "b")))
		_, err := e.Load(ctx, state, domain.QuizContent(q(0, "a", "b")))
		assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	})
}

func TestEngine_Fail(t *testing.T) {
	ctx := context.Background()
	var failures []*domain.FailureEvent
	e := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnFailure: func(_ context.Context, ev *domain.FailureEvent) { failures = append(failures, ev) },
	}))

	t.Run("not found is terminal and never completes", func(t *testing.T) {
		key := domain.ContentKey{Country: "atlantis", Category: "dining-etiquette", Mode: domain.ModeQuiz}
		state := e.Start(ctx, "s1", 1, key, "")
		next, err := e.Fail(ctx, state, domain.ErrUnknownCountry)
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseError, next.Phase)
		assert.NotEqual(t, domain.PhaseComplete, next.Phase)
		assert.ErrorIs(t, next.Failure, domain.ErrContentNotFound)

		_, err = e.Advance(ctx, next)
		assert.ErrorIs(t, err, domain.ErrInvalidOperation)
		_, _, err = e.Select(ctx, next, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	})

	t.Run("other errors are load failures", func(t *testing.T) {
		state := e.Start(ctx, "s2", 1, lessonKey, "")
		next, err := e.Fail(ctx, state, errors.New("disk on fire"))
		require.NoError(t, err)
		assert.Equal(t, domain.FailureLoadFailed, next.Failure.Kind)
		assert.Equal(t, "Failed to load lesson.", next.Failure.Message)
		assert.Equal(t, "disk on fire", next.Failure.Cause)
	})

	require.Len(t, failures, 2)
	assert.Equal(t, domain.FailureNotFound, failures[0].Kind)
}

func TestProgressFraction(t *testing.T) {
	ctx := context.Background()
	e := runtime.NewEngine()

	loading := e.Start(ctx, "s1", 1, lessonKey, "")
	assert.Equal(t, 0.0, runtime.ProgressFraction(loading))

	state := loaded(t, e, lessonKey, domain.LessonContent(domain.Lesson{
		Blocks: domain.Blocks{domain.TextBlock{Body: "1"}, domain.TextBlock{Body: "2"}, domain.TextBlock{Body: "3"}, domain.TextBlock{Body: "4"}},
	}))
	assert.Equal(t, 0.0, runtime.ProgressFraction(state))

	for i := 1; i < 4; i++ {
		var err error
		state, err = e.Advance(ctx, state)
		require.NoError(t, err)
		assert.InDelta(t, float64(i)/4, runtime.ProgressFraction(state), 1e-9)
		assert.Less(t, runtime.ProgressFraction(state), 1.0)
	}

	state, err := e.Advance(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, 1.0, runtime.ProgressFraction(state))
}
