package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/roomread/pkg/adapters/file"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const franceJSON = `[
  {"country": "France", "category": "Dining Etiquette", "question": "Where do your hands go?", "options": ["In your lap", "On the table", "Behind your back"], "correctIndex": 1, "explanation": "Wrists rest on the table."},
  {"country": "France", "category": "Greetings & Gestures", "question": "First word in a shop?", "options": ["Salut", "Bonjour"], "correctIndex": 1, "explanation": "Always greet the shopkeeper."},
  {"country": "France", "category": "Dining Etiquette", "question": "Who pays the tip?", "options": ["Included", "20% extra"], "correctIndex": 0, "explanation": "Service is included."}
]`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestQuestionStore_Contract(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "france.json", franceJSON)

	store := file.NewQuestionStore(dir)
	key := domain.ContentKey{Country: "france", Category: "dining-etiquette", Mode: domain.ModeQuiz}
	want := domain.Blocks{
		domain.QuestionItem{Prompt: "Where do your hands go?", Options: []string{"In your lap", "On the table", "Behind your back"}, CorrectIndex: 1, Explanation: "Wrists rest on the table."},
		domain.QuestionItem{Prompt: "Who pays the tip?", Options: []string{"Included", "20% extra"}, CorrectIndex: 0, Explanation: "Service is included."},
	}
	tests.ContentStoreContractTest(t, store, key, want)
}

func TestQuestionStore_Find(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "france.json", franceJSON)
	store := file.NewQuestionStore(dir)

	t.Run("category with no records", func(t *testing.T) {
		_, err := store.Find(ctx, domain.ContentKey{Country: "france", Category: "dress-codes", Mode: domain.ModeQuiz})
		assert.ErrorIs(t, err, domain.ErrContentNotFound)
		assert.NotErrorIs(t, err, domain.ErrUnknownCategory)
	})

	t.Run("unknown country", func(t *testing.T) {
		_, err := store.Find(ctx, domain.ContentKey{Country: "atlantis", Category: "dining-etiquette", Mode: domain.ModeQuiz})
		assert.ErrorIs(t, err, domain.ErrUnknownCountry)
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		_, err := store.Find(ctx, domain.ContentKey{Country: "../france", Category: "dining-etiquette", Mode: domain.ModeQuiz})
		assert.ErrorIs(t, err, domain.ErrContentNotFound)
	})

	t.Run("malformed file is a load failure", func(t *testing.T) {
		writeFile(t, dir, "spain.json", `{"not": "a list"`)
		_, err := store.Find(ctx, domain.ContentKey{Country: "spain", Category: "dining-etiquette", Mode: domain.ModeQuiz})
		assert.ErrorIs(t, err, domain.ErrContentLoadFailed)
		assert.NotErrorIs(t, err, domain.ErrContentNotFound)
	})
}

func TestQuestionStore_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "japan.yaml", `
- country: Japan
  category: Dress Codes
  question: What do you remove at the door?
  options: [Hat, Shoes]
  correctIndex: 1
  explanation: Shoes stay in the genkan.
`)

	content, err := file.NewQuestionStore(dir).Find(context.Background(), domain.ContentKey{Country: "japan", Category: "dress-codes", Mode: domain.ModeQuiz})
	require.NoError(t, err)
	require.Len(t, content.Questions, 1)
	assert.Equal(t, []string{"Hat", "Shoes"}, content.Questions[0].Options)
	assert.Equal(t, 1, content.Questions[0].CorrectIndex)
}
