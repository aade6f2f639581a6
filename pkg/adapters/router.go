// Package adapters holds the concrete implementations of the roomread ports.
// The subpackages provide stores; this package composes them.
package adapters

import (
	"context"
	"fmt"

	"github.com/aretw0/roomread/pkg/catalog"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/ports"
)

// Router dispatches content lookups to a quiz store or a lesson store by mode.
// Keys are validated against the catalog before any store is queried.
type Router struct {
	Quiz   ports.ContentStore
	Lesson ports.ContentStore
}

// NewRouter creates a Router. Either store may be nil, in which case that mode has no content.
func NewRouter(quiz, lesson ports.ContentStore) *Router {
	return &Router{Quiz: quiz, Lesson: lesson}
}

// Find implements ports.ContentStore.
func (r *Router) Find(ctx context.Context, key domain.ContentKey) (domain.Content, error) {
	if key.Mode == domain.ModeLesson && key.Tier == "" {
		key.Tier = domain.DefaultTier
	}
	if err := catalog.Validate(key); err != nil {
		return domain.Content{}, err
	}

	var store ports.ContentStore
	switch key.Mode {
	case domain.ModeQuiz, "":
		store = r.Quiz
	case domain.ModeLesson:
		store = r.Lesson
	default:
		return domain.Content{}, fmt.Errorf("%w: unknown mode %q", domain.ErrContentNotFound, key.Mode)
	}

	if store == nil {
		return domain.Content{}, fmt.Errorf("%w: no %s content configured", domain.ErrContentNotFound, key.Mode)
	}
	return store.Find(ctx, key)
}
