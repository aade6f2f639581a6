package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/roomread/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")
	key := domain.ContentKey{Country: "france", Category: "dress-codes", Mode: domain.ModeLesson, Tier: domain.DefaultTier}

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewRunnerState(sessionID, 3, key, "dining-etiquette")
		state.Phase = domain.PhaseReady
		state.Blocks = domain.Blocks{
			domain.TextBlock{Body: "Bonjour first.", Image: &domain.Image{Source: "/img/bise.png", Alt: "la bise"}},
			domain.QuestionItem{Prompt: "Greeting?", Options: []string{"Hi", "Bonjour"}, CorrectIndex: 1, Explanation: "Always."},
		}
		state.Lesson = &domain.LessonMeta{Title: "Greetings", Intro: "Start here."}
		state.Position = 1
		selected := 0
		correct := false
		state.Selected = &selected
		state.LastCorrect = &correct

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state, loaded)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Position = 99

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 1, again.Position)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewRunnerState(sessionID, 1, key, ""))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewRunnerState(id1, 1, key, ""))
		_ = store.Save(ctx, id2, domain.NewRunnerState(id2, 1, key, ""))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
