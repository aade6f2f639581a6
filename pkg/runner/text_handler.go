package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/roomread/internal/runtime"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/muesli/termenv"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	out       *termenv.Output
	lastTitle string
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
// Colours are only emitted when w is a terminal.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		out:    termenv.NewOutput(w),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) render(markdown string) string {
	if h.Renderer == nil {
		return markdown
	}
	rendered, err := h.Renderer(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimSpace(rendered)
}

func (h *TextHandler) styled(s, color string) termenv.Style {
	return h.out.String(s).Foreground(h.out.Color(color))
}

func (h *TextHandler) Output(ctx context.Context, view runtime.View) error {
	w := h.Writer

	if view.Title != "" && view.Title != h.lastTitle {
		h.lastTitle = view.Title
		header := "# " + view.Title
		if view.Intro != "" {
			header += "\n\n" + view.Intro
		}
		fmt.Fprintln(w, h.render(header))
		fmt.Fprintln(w)
	}

	switch view.Phase {
	case domain.PhaseError:
		fmt.Fprintln(w, h.styled(view.Error, "1"))
		return nil
	case domain.PhaseComplete:
		h.writeCompletion(view.Completion)
		return nil
	case domain.PhaseLoading:
		fmt.Fprintln(w, "Loading...")
		return nil
	}

	if view.Progress != nil {
		fmt.Fprintf(w, "[%s] %s\n", view.Progress.Label, view.Progress.Caption)
	}
	if view.Step != nil {
		h.writeStep(view.Step)
	}
	if view.CanAdvance {
		fmt.Fprintf(w, "%s (press Enter)\n", h.out.String(view.Action).Bold())
	}
	return nil
}

func (h *TextHandler) writeStep(step *runtime.StepView) {
	w := h.Writer
	if step.Kind == domain.BlockText {
		fmt.Fprintln(w, h.render(step.Text))
		if step.Image != nil {
			fmt.Fprintf(w, "[image: %s]\n", step.Image.Alt)
		}
		return
	}

	fmt.Fprintln(w, h.out.String(step.Prompt).Bold())
	for _, opt := range step.Options {
		line := fmt.Sprintf("  %s) %s", opt.Letter, opt.Text)
		switch opt.Status {
		case runtime.OptionCorrect:
			fmt.Fprintln(w, h.styled(line+"  ✓", "2"))
		case runtime.OptionIncorrect:
			fmt.Fprintln(w, h.styled(line+"  ✗", "1"))
		case runtime.OptionDimmed:
			fmt.Fprintln(w, h.out.String(line).Faint())
		default:
			fmt.Fprintln(w, line)
		}
	}
	switch step.Feedback {
	case runtime.FeedbackCorrect:
		fmt.Fprintln(w, h.styled(step.Feedback, "2"))
	case "":
	default:
		fmt.Fprintln(w, h.styled(step.Feedback, "1"))
	}
	if step.Explanation != "" {
		fmt.Fprintln(w, h.render(step.Explanation))
	}
}

func (h *TextHandler) writeCompletion(c *runtime.CompletionView) {
	if c == nil {
		return
	}
	w := h.Writer
	fmt.Fprintln(w, h.styled(c.Headline, "2").Bold())
	if c.Message != "" {
		fmt.Fprintln(w, c.Message)
	}
	fmt.Fprintf(w, "%s: %s\n", c.Action, c.ReturnTo)
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for {
		fmt.Fprint(h.Writer, "> ")
		text, err := h.Reader.ReadString('\n')
		if err != nil && (err != io.EOF || text == "") {
			return "", err
		}
		clean, serr := SanitizeInput(text)
		if serr != nil {
			fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", serr)
			if err == io.EOF {
				return "", err
			}
			continue
		}
		return clean, nil
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return nil
}
