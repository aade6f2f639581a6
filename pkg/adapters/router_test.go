package adapters_test

import (
	"context"
	"testing"

	"github.com/aretw0/roomread/pkg/adapters"
	"github.com/aretw0/roomread/pkg/adapters/memory"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Dispatch(t *testing.T) {
	item := domain.QuestionItem{Prompt: "p", Options: []string{"a", "b"}, CorrectIndex: 0}
	quiz := memory.NewContentStore().AddQuiz("france", "dining-etiquette", item)
	lessons := memory.NewContentStore().AddLesson("france", "dining-etiquette", domain.DefaultTier, domain.Lesson{
		Title:  "Dining",
		Blocks: domain.Blocks{domain.TextBlock{Body: "Bon appétit."}},
	})
	router := adapters.NewRouter(quiz, lessons)
	ctx := context.Background()

	content, err := router.Find(ctx, domain.ContentKey{Country: "france", Category: "dining-etiquette", Mode: domain.ModeQuiz})
	require.NoError(t, err)
	assert.Len(t, content.Questions, 1)

	content, err = router.Find(ctx, domain.ContentKey{Country: "france", Category: "dining-etiquette", Mode: domain.ModeLesson})
	require.NoError(t, err)
	require.NotNil(t, content.Lesson)
	assert.Equal(t, "Dining", content.Lesson.Title)
}

func TestRouter_RejectsBeforeQuerying(t *testing.T) {
	queried := false
	spy := ports.ContentStoreFunc(func(context.Context, domain.ContentKey) (domain.Content, error) {
		queried = true
		return domain.Content{}, nil
	})
	router := adapters.NewRouter(spy, spy)
	ctx := context.Background()

	_, err := router.Find(ctx, domain.ContentKey{Country: "france", Category: "haggling", Mode: domain.ModeQuiz})
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)

	_, err = router.Find(ctx, domain.ContentKey{Country: "france", Category: "dress-codes", Mode: domain.ModeLesson, Tier: "advanced"})
	assert.ErrorIs(t, err, domain.ErrLessonLocked)

	assert.False(t, queried)
}

func TestRouter_MissingStore(t *testing.T) {
	router := adapters.NewRouter(nil, nil)
	_, err := router.Find(context.Background(), domain.ContentKey{Country: "france", Category: "dress-codes", Mode: domain.ModeQuiz})
	assert.ErrorIs(t, err, domain.ErrContentNotFound)
}
