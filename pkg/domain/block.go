package domain

import (
	"encoding/json"
	"fmt"
)

// BlockKind identifies the variant of a Block.
type BlockKind string

const (
	// BlockText is a reading step. It never blocks progression.
	BlockText BlockKind = "text"
	// BlockQuestion is a multiple choice step. It must be answered correctly before moving on.
	BlockQuestion BlockKind = "question"
)

// Block is one step of a lesson or quiz.
// The set of implementations is closed: TextBlock and QuestionItem.
// Consumers are expected to switch over the concrete type exhaustively.
type Block interface {
	Kind() BlockKind
	block()
}

// Image is an optional illustration attached to a text block.
type Image struct {
	Source string `json:"src" yaml:"src" mapstructure:"src"`
	Alt    string `json:"alt" yaml:"alt" mapstructure:"alt"`
}

// TextBlock carries explanatory prose.
type TextBlock struct {
	Body  string `json:"text" yaml:"text" mapstructure:"text"`
	Image *Image `json:"image,omitempty" yaml:"image,omitempty" mapstructure:"image"`
}

func (TextBlock) Kind() BlockKind { return BlockText }
func (TextBlock) block()          {}

// QuestionItem is a multiple choice question with exactly one correct option.
type QuestionItem struct {
	Prompt       string   `json:"question" yaml:"question" mapstructure:"question"`
	Options      []string `json:"options" yaml:"options" mapstructure:"options"`
	CorrectIndex int      `json:"correctIndex" yaml:"correctIndex" mapstructure:"correctIndex"`
	Explanation  string   `json:"explanation" yaml:"explanation" mapstructure:"explanation"`
}

func (QuestionItem) Kind() BlockKind { return BlockQuestion }
func (QuestionItem) block()          {}

// MinOptions is the smallest number of options a question may offer.
const MinOptions = 2

// Validate checks the structural invariants of the question.
func (q QuestionItem) Validate() error {
	if len(q.Options) < MinOptions {
		return fmt.Errorf("question %q has %d options, need at least %d", q.Prompt, len(q.Options), MinOptions)
	}
	if !q.InRange(q.CorrectIndex) {
		return fmt.Errorf("question %q has correct index %d outside [0, %d)", q.Prompt, q.CorrectIndex, len(q.Options))
	}
	return nil
}

// InRange reports whether i addresses one of the options.
func (q QuestionItem) InRange(i int) bool {
	return i >= 0 && i < len(q.Options)
}

// IsCorrect reports whether i is the correct option. Exact index equality, no partial credit.
func (q QuestionItem) IsCorrect(i int) bool {
	return i == q.CorrectIndex
}

// Blocks is an ordered list of blocks with a tagged JSON encoding:
// every element carries a "type" field naming its variant.
type Blocks []Block

type taggedText struct {
	Type BlockKind `json:"type"`
	TextBlock
}

type taggedQuestion struct {
	Type BlockKind `json:"type"`
	QuestionItem
}

// MarshalJSON encodes each block with its "type" tag.
func (b Blocks) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(b))
	for i, blk := range b {
		switch v := blk.(type) {
		case TextBlock:
			out = append(out, taggedText{Type: BlockText, TextBlock: v})
		case QuestionItem:
			out = append(out, taggedQuestion{Type: BlockQuestion, QuestionItem: v})
		default:
			return nil, fmt.Errorf("block %d: unsupported block type %T", i, blk)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes tagged blocks. Unknown tags are rejected.
func (b *Blocks) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Blocks, 0, len(raw))
	for i, msg := range raw {
		var head struct {
			Type BlockKind `json:"type"`
		}
		if err := json.Unmarshal(msg, &head); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}

		switch head.Type {
		case BlockText:
			var t TextBlock
			if err := json.Unmarshal(msg, &t); err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			out = append(out, t)
		case BlockQuestion:
			var q QuestionItem
			if err := json.Unmarshal(msg, &q); err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			out = append(out, q)
		default:
			return fmt.Errorf("block %d: unknown block type %q", i, head.Type)
		}
	}

	*b = out
	return nil
}

// Validate checks every question in the list.
func (b Blocks) Validate() error {
	for i, blk := range b {
		switch v := blk.(type) {
		case TextBlock:
		case QuestionItem:
			if err := v.Validate(); err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
		default:
			return fmt.Errorf("block %d: unsupported block type %T", i, blk)
		}
	}
	return nil
}

// QuestionCount returns how many question blocks the list contains.
func (b Blocks) QuestionCount() int {
	n := 0
	for _, blk := range b {
		if _, ok := blk.(QuestionItem); ok {
			n++
		}
	}
	return n
}
