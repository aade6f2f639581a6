package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/roomread"
	"github.com/aretw0/roomread/internal/presentation/graph"
	"github.com/aretw0/roomread/pkg/catalog"
	"github.com/aretw0/roomread/pkg/domain"
)

// OutlineEntry is one playable content set.
type OutlineEntry struct {
	Key       domain.ContentKey `json:"key" yaml:"key"`
	Title     string            `json:"title" yaml:"title"`
	Blocks    int               `json:"blocks" yaml:"blocks"`
	Questions int               `json:"questions" yaml:"questions"`
}

// Outline lists every quiz and lesson published for country, in catalog order.
func Outline(ctx context.Context, app *roomread.App, country string) ([]OutlineEntry, error) {
	if _, err := catalog.ResolveCountry(country); err != nil {
		return nil, err
	}

	var out []OutlineEntry
	for _, category := range catalog.Categories() {
		key := domain.ContentKey{Country: country, Category: category.Slug, Mode: domain.ModeQuiz}
		content, err := app.Content().Find(ctx, key)
		switch {
		case errors.Is(err, domain.ErrContentNotFound):
			continue
		case err != nil:
			return nil, err
		}
		blocks := content.Blocks()
		out = append(out, OutlineEntry{
			Key:       key,
			Title:     category.Title,
			Blocks:    len(blocks),
			Questions: blocks.QuestionCount(),
		})
	}

	if app.Lessons() == nil {
		return out, nil
	}
	lessons, err := app.Lessons().List(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range lessons {
		if l.Key.Country != country {
			continue
		}
		out = append(out, OutlineEntry{Key: l.Key, Title: l.Title, Blocks: l.Blocks, Questions: l.Questions})
	}
	return out, nil
}

// PrintOutline writes entries as an aligned table.
func PrintOutline(w io.Writer, entries []OutlineEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tCATEGORY\tTIER\tSTEPS\tQUESTIONS\tTITLE")
	for _, e := range entries {
		tier := e.Key.Tier
		if tier == "" {
			tier = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", e.Key.Mode, e.Key.Category, tier, e.Blocks, e.Questions, e.Title)
	}
	return tw.Flush()
}

// OutlineGraph renders one content set as a Mermaid flowchart.
// A non-nil state highlights how far its session has come.
func OutlineGraph(ctx context.Context, app *roomread.App, key domain.ContentKey, state *domain.RunnerState) (string, error) {
	var blocks domain.Blocks
	title := key.String()
	if state != nil && len(state.Blocks) > 0 {
		blocks = state.Blocks
		if state.Lesson != nil {
			title = state.Lesson.Title
		}
	} else {
		content, err := app.Content().Find(ctx, key)
		if err != nil {
			return "", err
		}
		blocks = content.Blocks()
		if meta := content.Meta(); meta != nil {
			title = meta.Title
		}
	}

	var overlay *graph.Overlay
	if state != nil {
		overlay = &graph.Overlay{Position: state.Position, Complete: state.Phase == domain.PhaseComplete}
	}
	return graph.GenerateMermaid(title, blocks, overlay), nil
}
