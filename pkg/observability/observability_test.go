package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key = domain.ContentKey{Country: "france", Category: "dress-codes", Mode: domain.ModeQuiz}

func counterValue(t *testing.T, m *observability.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)

	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()
	base := domain.EventBase{SessionID: "s1", Key: key}

	hooks.OnLoad(ctx, &domain.StepEvent{EventBase: base, Total: 2})
	hooks.OnSelect(ctx, &domain.AnswerEvent{EventBase: base, Correct: false})
	hooks.OnSelect(ctx, &domain.AnswerEvent{EventBase: base, Correct: true})
	hooks.OnAdvance(ctx, &domain.StepEvent{EventBase: base, Position: 1})
	hooks.OnComplete(ctx, &domain.StepEvent{EventBase: base, Position: 1})
	hooks.OnFailure(ctx, &domain.FailureEvent{EventBase: base, Kind: domain.FailureNotFound})

	assert.Equal(t, 1.0, counterValue(t, m, "roomread_sessions_loaded_total"))
	assert.Equal(t, 2.0, counterValue(t, m, "roomread_answers_total"))
	assert.Equal(t, 2.0, counterValue(t, m, "roomread_steps_total"))
	assert.Equal(t, 1.0, counterValue(t, m, "roomread_completions_total"))
	assert.Equal(t, 1.0, counterValue(t, m, "roomread_load_failures_total"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `roomread_answers_total{category="dress-codes",correct="true"} 1`)
}

func TestCompose(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnComplete: func(context.Context, *domain.StepEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnComplete: func(context.Context, *domain.StepEvent) { calls = append(calls, "b") },
		OnLoad:     func(context.Context, *domain.StepEvent) { calls = append(calls, "b-load") },
	}

	hooks := observability.Compose(a, b)
	hooks.OnComplete(context.Background(), &domain.StepEvent{})
	hooks.OnLoad(context.Background(), &domain.StepEvent{})
	hooks.OnSelect(context.Background(), &domain.AnswerEvent{})

	assert.Equal(t, []string{"a", "b", "b-load"}, calls)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LogHooks(logger)

	hooks.OnFailure(context.Background(), &domain.FailureEvent{
		EventBase: domain.EventBase{SessionID: "s1", Key: key},
		Kind:      domain.FailureLoadFailed,
		Cause:     "bad json",
	})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "session failed")
	assert.Contains(t, out, "kind=content_load_failed")
}
