package dsl

import "github.com/aretw0/roomread/pkg/domain"

// TextBuilder provides a fluent API for configuring a text step.
type TextBuilder struct {
	text    domain.TextBlock
	builder *Builder
}

// Image attaches an illustration.
func (t *TextBuilder) Image(src, alt string) *TextBuilder {
	t.text.Image = &domain.Image{Source: src, Alt: alt}
	return t
}

// Then returns to the lesson builder.
func (t *TextBuilder) Then() *Builder {
	return t.builder
}

func (t *TextBuilder) block() domain.Block {
	return t.text
}

// QuestionBuilder provides a fluent API for configuring a question step.
type QuestionBuilder struct {
	item    domain.QuestionItem
	builder *Builder
}

// Options sets the answer choices, in display order.
func (q *QuestionBuilder) Options(options ...string) *QuestionBuilder {
	q.item.Options = append([]string(nil), options...)
	return q
}

// Correct sets the zero-based index of the correct option.
func (q *QuestionBuilder) Correct(index int) *QuestionBuilder {
	q.item.CorrectIndex = index
	return q
}

// Explain sets the explanation revealed after a correct answer.
func (q *QuestionBuilder) Explain(text string) *QuestionBuilder {
	q.item.Explanation = text
	return q
}

// Then returns to the lesson builder.
func (q *QuestionBuilder) Then() *Builder {
	return q.builder
}

func (q *QuestionBuilder) block() domain.Block {
	item := q.item
	item.Options = append([]string(nil), q.item.Options...)
	return item
}
