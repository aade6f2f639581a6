package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/roomread/pkg/catalog"
	"github.com/aretw0/roomread/pkg/domain"
)

// ContentStore implements ports.ContentStore using an in-memory map.
// It is meant for tests and demos.
type ContentStore struct {
	mu      sync.RWMutex
	content map[domain.ContentKey]domain.Content
}

// NewContentStore creates an empty store.
func NewContentStore() *ContentStore {
	return &ContentStore{content: make(map[domain.ContentKey]domain.Content)}
}

func normalize(key domain.ContentKey) domain.ContentKey {
	if key.Mode == "" {
		key.Mode = domain.ModeQuiz
	}
	if key.Mode == domain.ModeQuiz {
		key.Tier = ""
	} else if key.Tier == "" {
		key.Tier = domain.DefaultTier
	}
	return key
}

// Put stores content under key, replacing any previous value.
func (s *ContentStore) Put(key domain.ContentKey, content domain.Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content[normalize(key)] = content
}

// AddQuiz stores a question list for a country and category slug.
func (s *ContentStore) AddQuiz(country, category string, items ...domain.QuestionItem) *ContentStore {
	s.Put(domain.ContentKey{Country: country, Category: category, Mode: domain.ModeQuiz}, domain.QuizContent(items...))
	return s
}

// AddLesson stores a lesson for a country, category slug and tier.
func (s *ContentStore) AddLesson(country, category, tier string, lesson domain.Lesson) *ContentStore {
	s.Put(domain.ContentKey{Country: country, Category: category, Mode: domain.ModeLesson, Tier: tier}, domain.LessonContent(lesson))
	return s
}

// Find returns the content stored under key.
func (s *ContentStore) Find(ctx context.Context, key domain.ContentKey) (domain.Content, error) {
	if err := ctx.Err(); err != nil {
		return domain.Content{}, err
	}
	if _, err := catalog.ResolveCategory(key.Category); err != nil {
		return domain.Content{}, err
	}

	key = normalize(key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.content[key]; ok {
		return c, nil
	}
	for k := range s.content {
		if k.Country == key.Country {
			return domain.Content{}, fmt.Errorf("%w: %s", domain.ErrContentNotFound, key)
		}
	}
	return domain.Content{}, fmt.Errorf("%w: %q", domain.ErrUnknownCountry, key.Country)
}

// Keys returns every stored key in a deterministic order.
func (s *ContentStore) Keys() []domain.ContentKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]domain.ContentKey, 0, len(s.content))
	for k := range s.content {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}
