package domain

import "fmt"

// Mode selects how a category is taught.
type Mode string

const (
	// ModeQuiz walks a flat list of questions.
	ModeQuiz Mode = "quiz"
	// ModeLesson walks a lesson document of mixed text and question blocks.
	ModeLesson Mode = "lesson"
)

// ParseMode converts a user supplied string into a Mode. Empty means quiz.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeQuiz:
		return ModeQuiz, nil
	case ModeLesson:
		return ModeLesson, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected %q or %q)", s, ModeQuiz, ModeLesson)
	}
}

// DefaultTier is the only lesson tier with published content.
const DefaultTier = "beginner"

// ContentKey addresses one content set.
type ContentKey struct {
	Country  string `json:"country" mapstructure:"country"`
	Category string `json:"category" mapstructure:"category"`
	Mode     Mode   `json:"mode" mapstructure:"mode"`
	Tier     string `json:"tier,omitempty" mapstructure:"tier"`
}

func (k ContentKey) String() string {
	if k.Mode == ModeLesson {
		return fmt.Sprintf("%s/%s/%s@%s", k.Country, k.Category, k.Mode, k.Tier)
	}
	return fmt.Sprintf("%s/%s/%s", k.Country, k.Category, k.Mode)
}

// Lesson is a guided walkthrough of one category.
type Lesson struct {
	Title   string `json:"title"`
	Intro   string `json:"intro"`
	Blocks  Blocks `json:"content"`
	Summary string `json:"summary,omitempty"`
}

// LessonMeta is the part of a lesson that surrounds its blocks.
type LessonMeta struct {
	Title   string `json:"title"`
	Intro   string `json:"intro,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// Content is the result of a content lookup.
// Exactly one of Questions (quiz mode) or Lesson (lesson mode) is set.
type Content struct {
	Questions []QuestionItem `json:"questions,omitempty"`
	Lesson    *Lesson        `json:"lesson,omitempty"`
}

// QuizContent wraps a question list.
func QuizContent(questions ...QuestionItem) Content {
	return Content{Questions: questions}
}

// LessonContent wraps a lesson document.
func LessonContent(lesson Lesson) Content {
	return Content{Lesson: &lesson}
}

// Blocks flattens the content into the ordered list the runner walks.
func (c Content) Blocks() Blocks {
	if c.Lesson != nil {
		return append(Blocks(nil), c.Lesson.Blocks...)
	}
	out := make(Blocks, 0, len(c.Questions))
	for _, q := range c.Questions {
		out = append(out, q)
	}
	return out
}

// Meta returns the lesson frame, if any.
func (c Content) Meta() *LessonMeta {
	if c.Lesson == nil {
		return nil
	}
	return &LessonMeta{
		Title:   c.Lesson.Title,
		Intro:   c.Lesson.Intro,
		Summary: c.Lesson.Summary,
	}
}

// IsEmpty reports whether there is nothing to walk.
func (c Content) IsEmpty() bool {
	if c.Lesson != nil {
		return len(c.Lesson.Blocks) == 0
	}
	return len(c.Questions) == 0
}
