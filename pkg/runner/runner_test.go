package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/roomread/internal/runtime"
	"github.com/aretw0/roomread/pkg/adapters/memory"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/dsl"
	"github.com/aretw0/roomread/pkg/runner"
	"github.com/aretw0/roomread/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	content := memory.NewContentStore()

	quiz := dsl.NewQuiz()
	quiz.Question("Dinner at 8pm. Arrive?").
		Options("7:50pm", "8:15pm", "9pm").
		Correct(1).
		Explain("A quart d'heure late is polite.")
	require.NoError(t, quiz.Register(content, "france", "time-punctuality", ""))

	lesson := dsl.NewLesson("Greetings").
		Intro("How to say hello.").
		Summary("Greet first, then ask.")
	lesson.Text("Say bonjour when entering a shop.").
		Then().
		Question("Entering a bakery?").
		Options("Bonjour", "Silence").
		Correct(0)
	require.NoError(t, lesson.Register(content, "france", "greetings-gestures", domain.DefaultTier))

	return session.NewManager(memory.NewStore(), content)
}

var quizKey = domain.ContentKey{Country: "france", Category: "time-punctuality", Mode: domain.ModeQuiz}

func TestRunner_TextQuiz(t *testing.T) {
	in := strings.NewReader("\nz\nA\n\nb\n\n")
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(in, &out)))

	state, err := r.Run(context.Background(), newManager(t), quizKey, "dress-codes")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseComplete, state.Phase)

	text := out.String()
	assert.Contains(t, text, "[Question 1 of 1] 0% complete")
	assert.Contains(t, text, "  B) 8:15pm")
	assert.Contains(t, text, "[System] Pick the correct answer to continue.")
	assert.Contains(t, text, "[System] option Z out of range (A-C)")
	assert.Contains(t, text, runtime.FeedbackTryAgain)
	assert.Contains(t, text, runtime.FeedbackCorrect)
	assert.Contains(t, text, "A quart d'heure late is polite.")
	assert.Contains(t, text, "See Results (press Enter)")
	assert.Contains(t, text, "Category Complete!")
	assert.Contains(t, text, "Return to Categories: /countries/france?completed=dress-codes,time-punctuality")
}

func TestRunner_TextLesson(t *testing.T) {
	in := strings.NewReader("continue\n1\nnext\n")
	var out bytes.Buffer
	rendered := 0
	h := runner.NewTextHandler(in, &out, runner.WithTextHandlerRenderer(func(s string) (string, error) {
		rendered++
		return s, nil
	}))
	r := runner.NewRunner(runner.WithInputHandler(h), runner.WithSessionID("lesson-1"))

	key := domain.ContentKey{Country: "france", Category: "greetings-gestures", Mode: domain.ModeLesson}
	state, err := r.Run(context.Background(), newManager(t), key, "")
	require.NoError(t, err)
	assert.Equal(t, "lesson-1", state.SessionID)
	assert.Equal(t, domain.PhaseComplete, state.Phase)

	text := out.String()
	assert.Equal(t, 1, strings.Count(text, "# Greetings"), "lesson header is printed once")
	assert.Contains(t, text, "[Step 1 of 2]")
	assert.Contains(t, text, "Finish Lesson (press Enter)")
	assert.Contains(t, text, "Lesson Complete!")
	assert.Contains(t, text, "Greet first, then ask.")
	assert.Positive(t, rendered)
}

func TestRunner_QuitAndEOF(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("quit\n"), &out)))
	state, err := r.Run(context.Background(), newManager(t), quizKey, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseReady, state.Phase)

	r = runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), &out)))
	state, err = r.Run(context.Background(), newManager(t), quizKey, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseReady, state.Phase)
}

func TestRunner_UnavailableContent(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), &out)))

	key := domain.ContentKey{Country: "atlantis", Category: "dress-codes", Mode: domain.ModeQuiz}
	state, err := r.Run(context.Background(), newManager(t), key, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseError, state.Phase)
	assert.Contains(t, out.String(), state.Failure.Message)
}

func TestRunner_JSON(t *testing.T) {
	in := strings.NewReader("\"b\"\n\"\"\n")
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithInputHandler(runner.NewJSONHandler(in, &out)))

	state, err := r.Run(context.Background(), newManager(t), quizKey, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseComplete, state.Phase)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var last runtime.View
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Equal(t, domain.PhaseComplete, last.Phase)
	require.NotNil(t, last.Completion)
	assert.Equal(t, "time-punctuality", last.Completion.Completed)
}

func TestRunner_JSONMultilineAnswerRejected(t *testing.T) {
	in := strings.NewReader("\"a\\nquit\"\n\"q\"\n")
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithInputHandler(runner.NewJSONHandler(in, &out)))

	state, err := r.Run(context.Background(), newManager(t), quizKey, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseReady, state.Phase)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	var msg map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &msg))
	assert.Contains(t, msg["system"], "answers fit on one line")
}

func TestParseCommand(t *testing.T) {
	question := runtime.View{Step: &runtime.StepView{
		Kind:    domain.BlockQuestion,
		Options: []runtime.OptionView{{Index: 0}, {Index: 1}, {Index: 2}},
	}}
	text := runtime.View{Step: &runtime.StepView{Kind: domain.BlockText}}

	tests := []struct {
		name    string
		input   string
		view    runtime.View
		want    runner.Command
		wantErr bool
	}{
		{"empty advances", "", question, runner.Command{Kind: runner.CommandAdvance}, false},
		{"next keyword", " Next ", text, runner.Command{Kind: runner.CommandAdvance}, false},
		{"quit", "exit", text, runner.Command{Kind: runner.CommandQuit}, false},
		{"letter", "c", question, runner.Command{Kind: runner.CommandSelect, Option: 2}, false},
		{"upper letter", "A", question, runner.Command{Kind: runner.CommandSelect, Option: 0}, false},
		{"displayed label C picks third option", "C", question, runner.Command{Kind: runner.CommandSelect, Option: 2}, false},
		{"continue keyword", "continue", text, runner.Command{Kind: runner.CommandAdvance}, false},
		{"number", "2", question, runner.Command{Kind: runner.CommandSelect, Option: 1}, false},
		{"number out of range", "4", question, runner.Command{}, true},
		{"letter out of range", "d", question, runner.Command{}, true},
		{"option on text block", "a", text, runner.Command{}, true},
		{"gibberish", "maybe", question, runner.Command{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runner.ParseCommand(tt.input, tt.view)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
