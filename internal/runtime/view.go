package runtime

import (
	"fmt"
	"math"

	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/progress"
)

// User-facing labels.
const (
	FeedbackCorrect  = "Correct!"
	FeedbackTryAgain = "Not quite right. Try again!"

	ActionContinue     = "Continue"
	ActionNext         = "Next"
	ActionFinishLesson = "Finish Lesson"
	ActionNextQuestion = "Next Question"
	ActionSeeResults   = "See Results"
	ActionReturn       = "Return to Categories"
)

// OptionStatus is how an option should be highlighted.
type OptionStatus string

const (
	OptionIdle      OptionStatus = "idle"
	OptionCorrect   OptionStatus = "correct"
	OptionIncorrect OptionStatus = "incorrect"
	OptionDimmed    OptionStatus = "dimmed"
)

// OptionView is one answer choice.
type OptionView struct {
	Index  int          `json:"index"`
	Letter string       `json:"letter"`
	Text   string       `json:"text"`
	Status OptionStatus `json:"status"`
}

// StepView is the current block as shown to the learner.
// The correct option and the explanation stay hidden until the question is answered correctly.
type StepView struct {
	Kind        domain.BlockKind `json:"kind"`
	Text        string           `json:"text,omitempty"`
	Image       *domain.Image    `json:"image,omitempty"`
	Prompt      string           `json:"prompt,omitempty"`
	Options     []OptionView     `json:"options,omitempty"`
	Selected    *int             `json:"selected,omitempty"`
	Revealed    bool             `json:"revealed"`
	Explanation string           `json:"explanation,omitempty"`
	Feedback    string           `json:"feedback,omitempty"`
}

// ProgressView is the progress bar.
type ProgressView struct {
	Position int     `json:"position"`
	Total    int     `json:"total"`
	Label    string  `json:"label"`
	Percent  int     `json:"percent"`
	Fraction float64 `json:"fraction"`
	Caption  string  `json:"caption"`
}

// CompletionView is the completion screen.
type CompletionView struct {
	Headline  string `json:"headline"`
	Message   string `json:"message,omitempty"`
	Action    string `json:"action"`
	ReturnTo  string `json:"return_to"`
	Completed string `json:"completed"`
}

// View is a presentation-ready projection of a session.
type View struct {
	SessionID  string            `json:"session_id"`
	Key        domain.ContentKey `json:"key"`
	Phase      domain.Phase      `json:"phase"`
	Title      string            `json:"title,omitempty"`
	Intro      string            `json:"intro,omitempty"`
	Step       *StepView         `json:"step,omitempty"`
	Progress   *ProgressView     `json:"progress,omitempty"`
	Action     string            `json:"action,omitempty"`
	CanAdvance bool              `json:"can_advance"`
	Completion *CompletionView   `json:"completion,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Render projects a state into a View.
func Render(state *domain.RunnerState) View {
	v := View{
		SessionID: state.SessionID,
		Key:       state.Key,
		Phase:     state.Phase,
	}
	if state.Lesson != nil {
		v.Title = state.Lesson.Title
		v.Intro = state.Lesson.Intro
	}

	switch state.Phase {
	case domain.PhaseError:
		v.Error = "Lesson unavailable."
		if state.Failure != nil {
			v.Error = state.Failure.Message
		}
	case domain.PhaseComplete:
		v.Completion = renderCompletion(state)
		v.Progress = renderProgress(state)
	case domain.PhaseReady:
		blk, ok := state.Current()
		if !ok {
			break
		}
		v.Progress = renderProgress(state)
		v.Step = renderStep(state, blk)
		v.CanAdvance = canAdvance(state, blk)
		if v.CanAdvance {
			v.Action = actionLabel(state, blk)
		}
	}
	return v
}

func canAdvance(state *domain.RunnerState, blk domain.Block) bool {
	switch blk.(type) {
	case domain.TextBlock:
		return true
	case domain.QuestionItem:
		return state.Revealed
	default:
		return false
	}
}

func actionLabel(state *domain.RunnerState, blk domain.Block) string {
	if _, ok := blk.(domain.TextBlock); ok {
		return ActionContinue
	}
	last := state.IsLast()
	if state.Key.Mode == domain.ModeLesson {
		if last {
			return ActionFinishLesson
		}
		return ActionNext
	}
	if last {
		return ActionSeeResults
	}
	return ActionNextQuestion
}

func renderProgress(state *domain.RunnerState) *ProgressView {
	total := len(state.Blocks)
	noun := "Question"
	if state.Key.Mode == domain.ModeLesson {
		noun = "Step"
	}
	position := state.Position + 1
	if state.Phase == domain.PhaseComplete {
		position = total
	}
	fraction := ProgressFraction(state)
	percent := int(math.Round(fraction * 100))
	return &ProgressView{
		Position: position,
		Total:    total,
		Label:    fmt.Sprintf("%s %d of %d", noun, position, total),
		Percent:  percent,
		Fraction: fraction,
		Caption:  fmt.Sprintf("%d%% complete", percent),
	}
}

func renderStep(state *domain.RunnerState, blk domain.Block) *StepView {
	switch b := blk.(type) {
	case domain.TextBlock:
		return &StepView{Kind: domain.BlockText, Text: b.Body, Image: b.Image}
	case domain.QuestionItem:
		sv := &StepView{
			Kind:     domain.BlockQuestion,
			Prompt:   b.Prompt,
			Options:  make([]OptionView, len(b.Options)),
			Revealed: state.Revealed,
		}
		if state.Selected != nil {
			sel := *state.Selected
			sv.Selected = &sel
		}
		for i, text := range b.Options {
			sv.Options[i] = OptionView{
				Index:  i,
				Letter: OptionLetter(i),
				Text:   text,
				Status: optionStatus(state, b, i),
			}
		}
		switch {
		case state.Revealed:
			sv.Explanation = b.Explanation
			sv.Feedback = FeedbackCorrect
		case state.LastCorrect != nil && !*state.LastCorrect:
			sv.Feedback = FeedbackTryAgain
		}
		return sv
	default:
		return nil
	}
}

func optionStatus(state *domain.RunnerState, q domain.QuestionItem, i int) OptionStatus {
	if state.Revealed {
		if q.IsCorrect(i) {
			return OptionCorrect
		}
		return OptionDimmed
	}
	if state.Selected != nil && *state.Selected == i {
		return OptionIncorrect
	}
	return OptionIdle
}

// OptionLetter labels options A, B, C and so on.
func OptionLetter(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("%d", i+1)
}

func renderCompletion(state *domain.RunnerState) *CompletionView {
	completed := progress.MarkComplete(state.Completed, state.Key.Category)
	cv := &CompletionView{
		Action:    ActionReturn,
		ReturnTo:  progress.ReturnURL(state.Key.Country, completed),
		Completed: completed,
	}
	if state.Key.Mode == domain.ModeLesson {
		cv.Headline = "Lesson Complete!"
		if state.Lesson != nil {
			cv.Message = state.Lesson.Summary
		}
		return cv
	}
	cv.Headline = "Category Complete!"
	cv.Message = fmt.Sprintf("You've answered all %d questions correctly. Great job learning about these cultural customs!", state.Blocks.QuestionCount())
	return cv
}

// View renders the state. It is a convenience over Render for callers holding an Engine.
func (e *Engine) View(state *domain.RunnerState) View {
	return Render(state)
}
