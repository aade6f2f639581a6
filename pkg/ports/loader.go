package ports

import (
	"context"

	"github.com/aretw0/roomread/pkg/domain"
)

// ContentStore resolves a content key into the blocks a runner walks.
// The store is read-only from the runner's perspective.
type ContentStore interface {
	// Find returns the content for key.
	// An unknown country, an unknown category or zero matching items must be
	// reported as an error wrapping domain.ErrContentNotFound. Any other error
	// is treated as a load failure.
	Find(ctx context.Context, key domain.ContentKey) (domain.Content, error)
}

// ContentStoreFunc adapts a function to ContentStore.
type ContentStoreFunc func(ctx context.Context, key domain.ContentKey) (domain.Content, error)

// Find calls f(ctx, key).
func (f ContentStoreFunc) Find(ctx context.Context, key domain.ContentKey) (domain.Content, error) {
	return f(ctx, key)
}
