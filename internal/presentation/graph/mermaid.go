package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/roomread/pkg/domain"
)

// maxLabel caps node labels so long prompts keep the chart readable.
const maxLabel = 40

// Overlay contains session state to visualize on the outline.
type Overlay struct {
	Position int
	Complete bool
}

// GenerateMermaid produces a Mermaid flowchart of a lesson or quiz.
// It applies semantic styling:
// - Start and end: ((Circle))
// - Question: [/Parallelogram/] with a retry loop
// - Text: [Rectangle]
// Visited and current blocks are highlighted when an overlay is given.
func GenerateMermaid(title string, blocks domain.Blocks, overlay *Overlay) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(fmt.Sprintf("---\ntitle: %s\n---\n", escapeLabel(title)))
	}
	sb.WriteString("graph TD\n")
	sb.WriteString("    start((\"Start\"))\n")

	prev := "start"
	prevQuestion := false
	for i, blk := range blocks {
		id := nodeID(i)
		switch b := blk.(type) {
		case domain.TextBlock:
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, escapeLabel(b.Body)))
		case domain.QuestionItem:
			sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", id, escapeLabel(b.Prompt)))
			sb.WriteString(fmt.Sprintf("    %s -. \"retry\" .-> %s\n", id, id))
		}
		sb.WriteString(edge(prev, id, prevQuestion))
		prev = id
		_, prevQuestion = blk.(domain.QuestionItem)
	}

	sb.WriteString("    done((\"Complete\"))\n")
	sb.WriteString(edge(prev, "done", prevQuestion))

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := overlay.Position
		current := nodeID(overlay.Position)
		if overlay.Complete || overlay.Position >= len(blocks) {
			visited = len(blocks)
			current = "done"
		}
		sb.WriteString("    class start visited;\n")
		for i := 0; i < visited; i++ {
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(i)))
		}
		sb.WriteString(fmt.Sprintf("    class %s current;\n", current))
	}

	return sb.String()
}

func edge(from, to string, fromQuestion bool) string {
	if fromQuestion {
		return fmt.Sprintf("    %s -- \"correct\" --> %s\n", from, to)
	}
	return fmt.Sprintf("    %s --> %s\n", from, to)
}

func nodeID(i int) string {
	return fmt.Sprintf("b%d", i+1)
}

// escapeLabel flattens text into a single quoted Mermaid label.
func escapeLabel(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "\"", "'")
	if r := []rune(s); len(r) > maxLabel {
		s = string(r[:maxLabel-1]) + "…"
	}
	return s
}
