package loam

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/roomread/pkg/domain"
)

// LessonMetadata is the frontmatter of a lesson document.
// The markdown body below the frontmatter is the lesson intro.
type LessonMetadata struct {
	Title   string        `json:"title" mapstructure:"title"`
	Summary string        `json:"summary" mapstructure:"summary"`
	Blocks  []BlockRecord `json:"blocks" mapstructure:"blocks"`
}

// BlockRecord is one entry of the blocks list.
// Type selects which fields apply: "text" uses Text and Image,
// "question" uses Question, Options, CorrectIndex and Explanation.
type BlockRecord struct {
	Type        string        `json:"type" mapstructure:"type"`
	Text        string        `json:"text" mapstructure:"text"`
	Image       *domain.Image `json:"image" mapstructure:"image"`
	Question    string        `json:"question" mapstructure:"question"`
	Options     []string      `json:"options" mapstructure:"options"`
	Explanation string        `json:"explanation" mapstructure:"explanation"`

	// CorrectIndex arrives as int, float64 or json.Number depending on the serializer.
	CorrectIndex any `json:"correctIndex" mapstructure:"correctIndex"`
}

func (r BlockRecord) block() (domain.Block, error) {
	switch domain.BlockKind(r.Type) {
	case domain.BlockText, "":
		return domain.TextBlock{Body: r.Text, Image: r.Image}, nil
	case domain.BlockQuestion:
		idx, err := toInt(r.CorrectIndex)
		if err != nil {
			return nil, fmt.Errorf("question %q: correctIndex: %w", r.Question, err)
		}
		return domain.QuestionItem{
			Prompt:       r.Question,
			Options:      append([]string(nil), r.Options...),
			CorrectIndex: idx,
			Explanation:  r.Explanation,
		}, nil
	default:
		return nil, fmt.Errorf("unknown block type %q", r.Type)
	}
}

// toLesson converts frontmatter and body into a lesson.
func (m LessonMetadata) toLesson(intro string) (domain.Lesson, error) {
	blocks := make(domain.Blocks, 0, len(m.Blocks))
	for i, r := range m.Blocks {
		b, err := r.block()
		if err != nil {
			return domain.Lesson{}, fmt.Errorf("block %d: %w", i, err)
		}
		blocks = append(blocks, b)
	}
	return domain.Lesson{
		Title:   m.Title,
		Intro:   intro,
		Blocks:  blocks,
		Summary: m.Summary,
	}, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, fmt.Errorf("missing")
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
