package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/roomread/pkg/adapters/memory"
	"github.com/aretw0/roomread/pkg/domain"
)

// ErrNotQuiz is returned when a builder holding text blocks is used as a quiz.
var ErrNotQuiz = errors.New("quiz may only contain questions")

type step interface {
	block() domain.Block
}

// Builder manages the lesson construction.
type Builder struct {
	title   string
	intro   string
	summary string
	steps   []step
}

// NewLesson creates a builder for a titled lesson.
func NewLesson(title string) *Builder {
	return &Builder{title: title}
}

// NewQuiz creates a builder for a flat list of questions.
func NewQuiz() *Builder {
	return &Builder{}
}

// Intro sets the text shown above the first block.
func (b *Builder) Intro(text string) *Builder {
	b.intro = text
	return b
}

// Summary sets the message shown on the completion screen.
func (b *Builder) Summary(text string) *Builder {
	b.summary = text
	return b
}

// Text appends a reading step.
func (b *Builder) Text(body string) *TextBuilder {
	tb := &TextBuilder{text: domain.TextBlock{Body: body}, builder: b}
	b.steps = append(b.steps, tb)
	return tb
}

// Question appends a multiple choice step.
func (b *Builder) Question(prompt string) *QuestionBuilder {
	qb := &QuestionBuilder{item: domain.QuestionItem{Prompt: prompt}, builder: b}
	b.steps = append(b.steps, qb)
	return qb
}

// Blocks returns the steps added so far, in order, validated.
func (b *Builder) Blocks() (domain.Blocks, error) {
	blocks := make(domain.Blocks, 0, len(b.steps))
	for _, s := range b.steps {
		blocks = append(blocks, s.block())
	}
	if err := blocks.Validate(); err != nil {
		return nil, err
	}
	return blocks, nil
}

// Build compiles the steps into a lesson.
func (b *Builder) Build() (domain.Lesson, error) {
	blocks, err := b.Blocks()
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("failed to build lesson %q: %w", b.title, err)
	}
	return domain.Lesson{
		Title:   b.title,
		Intro:   b.intro,
		Blocks:  blocks,
		Summary: b.summary,
	}, nil
}

// Questions compiles the steps into a quiz. Text steps are rejected.
func (b *Builder) Questions() ([]domain.QuestionItem, error) {
	blocks, err := b.Blocks()
	if err != nil {
		return nil, fmt.Errorf("failed to build quiz: %w", err)
	}
	out := make([]domain.QuestionItem, 0, len(blocks))
	for i, blk := range blocks {
		q, ok := blk.(domain.QuestionItem)
		if !ok {
			return nil, fmt.Errorf("block %d: %w", i, ErrNotQuiz)
		}
		out = append(out, q)
	}
	return out, nil
}

// Register adds the result to store. A titled builder registers a lesson
// under tier; an untitled one registers a quiz and ignores tier.
func (b *Builder) Register(store *memory.ContentStore, country, category, tier string) error {
	if b.title == "" {
		questions, err := b.Questions()
		if err != nil {
			return err
		}
		store.AddQuiz(country, category, questions...)
		return nil
	}
	lesson, err := b.Build()
	if err != nil {
		return err
	}
	store.AddLesson(country, category, tier, lesson)
	return nil
}
