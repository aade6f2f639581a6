package tests

import (
	"context"
	"testing"

	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContentStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.ContentStore.
// found must address content the store holds; want is the expected block list for it.
func ContentStoreContractTest(t *testing.T, store ports.ContentStore, found domain.ContentKey, want domain.Blocks) {
	t.Helper()
	ctx := context.Background()

	t.Run("Find_Success", func(t *testing.T) {
		content, err := store.Find(ctx, found)
		require.NoError(t, err)
		require.False(t, content.IsEmpty())
		assert.Equal(t, want, content.Blocks())
		if found.Mode == domain.ModeLesson {
			assert.NotNil(t, content.Lesson)
		} else {
			assert.Nil(t, content.Lesson)
		}
	})

	t.Run("Find_UnknownCountry", func(t *testing.T) {
		key := found
		key.Country = "atlantis"
		_, err := store.Find(ctx, key)
		assert.ErrorIs(t, err, domain.ErrContentNotFound)
	})

	t.Run("Find_UnknownCategory", func(t *testing.T) {
		key := found
		key.Category = "haggling"
		_, err := store.Find(ctx, key)
		assert.ErrorIs(t, err, domain.ErrContentNotFound)
	})
}
