package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// WriteFiles writes files relative to root, creating parent directories.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// FranceQuestions is a small question file in the on-disk format.
const FranceQuestions = `[
  {"country": "France", "category": "Dining Etiquette", "question": "Where should your hands rest during a meal?", "options": ["In your lap", "On the table, wrists visible", "Behind your chair"], "correctIndex": 1, "explanation": "Keeping your wrists on the table is polite in France."},
  {"country": "France", "category": "Dining Etiquette", "question": "Is service included in the bill?", "options": ["Yes, service compris", "No, add 20%"], "correctIndex": 0, "explanation": "Service is included; rounding up is optional."},
  {"country": "France", "category": "Greetings & Gestures", "question": "What do you say when entering a shop?", "options": ["Nothing", "Bonjour"], "correctIndex": 1, "explanation": "Greeting the shopkeeper is expected."}
]`

// GreetingsLesson is a beginner lesson document in the on-disk format.
const GreetingsLesson = `---
title: Greetings in France
summary: You now know how to greet people the French way.
blocks:
  - type: text
    text: A greeting opens every interaction in France.
    image:
      src: /images/bonjour.png
      alt: A shopkeeper waving
  - type: question
    question: What do you say when entering a bakery?
    options:
      - Salut
      - Bonjour
      - Nothing
    correctIndex: 1
    explanation: Bonjour is the polite default.
---
Greetings set the tone for every encounter.
`
