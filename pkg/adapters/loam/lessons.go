package loam

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/roomread/pkg/catalog"
	"github.com/aretw0/roomread/pkg/domain"
)

const lessonExt = ".md"

// LessonStore serves lesson documents from a loam repository laid out as
// <root>/<country>/<category>/<tier>.md.
type LessonStore struct {
	Repo *loam.TypedRepository[LessonMetadata]
	root string
}

// New wraps an existing typed repository rooted at root.
func New(repo *loam.TypedRepository[LessonMetadata], root string) *LessonStore {
	return &LessonStore{Repo: repo, root: root}
}

// Open initializes a read-only loam repository at dir.
func Open(dir string) (*LessonStore, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number across serializers.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[LessonMetadata](repo), absPath), nil
}

// DocumentID returns the repository ID of a lesson.
func DocumentID(key domain.ContentKey) string {
	tier := key.Tier
	if tier == "" {
		tier = domain.DefaultTier
	}
	return path.Join(key.Country, key.Category, tier)
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// Find loads the lesson for key.
func (s *LessonStore) Find(ctx context.Context, key domain.ContentKey) (domain.Content, error) {
	if _, err := catalog.ResolveCategory(key.Category); err != nil {
		return domain.Content{}, err
	}
	if !validSegment(key.Country) {
		return domain.Content{}, fmt.Errorf("%w: %q", domain.ErrUnknownCountry, key.Country)
	}
	if key.Tier != "" && !validSegment(key.Tier) {
		return domain.Content{}, fmt.Errorf("%w: %q", domain.ErrUnknownTier, key.Tier)
	}

	id := DocumentID(key)
	if err := s.exists(key, id); err != nil {
		return domain.Content{}, err
	}

	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Content{}, fmt.Errorf("%w: loam get failed for %s: %v", domain.ErrContentLoadFailed, id, err)
	}

	lesson, err := doc.Data.toLesson(strings.TrimSpace(doc.Content))
	if err != nil {
		return domain.Content{}, fmt.Errorf("%w: %s: %v", domain.ErrContentLoadFailed, id, err)
	}
	return domain.LessonContent(lesson), nil
}

// exists distinguishes a missing country from a missing lesson before asking loam.
func (s *LessonStore) exists(key domain.ContentKey, id string) error {
	if s.root == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Join(s.root, key.Country)); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCountry, key.Country)
	}
	if _, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(id)+lessonExt)); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: no lesson %s", domain.ErrContentNotFound, id)
	}
	return nil
}

// Outline is a lesson listed without its blocks.
type Outline struct {
	Key       domain.ContentKey `json:"key"`
	Title     string            `json:"title"`
	Blocks    int               `json:"blocks"`
	Questions int               `json:"questions"`
}

// List returns an outline of every lesson document in the repository.
func (s *LessonStore) List(ctx context.Context) ([]Outline, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	out := make([]Outline, 0, len(docs))
	for _, doc := range docs {
		id := trimExtension(doc.ID)
		parts := strings.Split(id, "/")
		if len(parts) != 3 {
			continue
		}
		questions := 0
		for _, b := range doc.Data.Blocks {
			if b.Type == string(domain.BlockQuestion) {
				questions++
			}
		}
		out = append(out, Outline{
			Key: domain.ContentKey{
				Country:  parts[0],
				Category: parts[1],
				Mode:     domain.ModeLesson,
				Tier:     parts[2],
			},
			Title:     doc.Data.Title,
			Blocks:    len(doc.Data.Blocks),
			Questions: questions,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.String() < out[j].Key.String() })
	return out, nil
}

func trimExtension(id string) string {
	return filepath.ToSlash(strings.TrimSuffix(id, filepath.Ext(id)))
}
