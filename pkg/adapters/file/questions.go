package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aretw0/roomread/pkg/catalog"
	"github.com/aretw0/roomread/pkg/domain"
	"gopkg.in/yaml.v3"
)

// QuestionRecord is one entry of a country question file.
// Records carry the category display name, not its slug.
type QuestionRecord struct {
	Country      string   `json:"country" yaml:"country"`
	Category     string   `json:"category" yaml:"category"`
	Question     string   `json:"question" yaml:"question"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correctIndex" yaml:"correctIndex"`
	Explanation  string   `json:"explanation" yaml:"explanation"`
}

func (r QuestionRecord) item() domain.QuestionItem {
	return domain.QuestionItem{
		Prompt:       r.Question,
		Options:      append([]string(nil), r.Options...),
		CorrectIndex: r.CorrectIndex,
		Explanation:  r.Explanation,
	}
}

// QuestionStore serves quiz content from one file per country.
// It looks for <dir>/<country>.json, then <dir>/<country>.yaml.
type QuestionStore struct {
	dir string
}

// NewQuestionStore creates a store reading from dir.
func NewQuestionStore(dir string) *QuestionStore {
	return &QuestionStore{dir: dir}
}

var questionExts = []string{".json", ".yaml", ".yml"}

// Find returns the questions of the key's category, in file order.
func (s *QuestionStore) Find(ctx context.Context, key domain.ContentKey) (domain.Content, error) {
	category, err := catalog.ResolveCategory(key.Category)
	if err != nil {
		return domain.Content{}, err
	}

	records, err := s.Records(ctx, key.Country)
	if err != nil {
		return domain.Content{}, err
	}

	var items []domain.QuestionItem
	for _, r := range records {
		if r.Category == category.Title {
			items = append(items, r.item())
		}
	}
	if len(items) == 0 {
		return domain.Content{}, fmt.Errorf("%w: no questions for %s/%s", domain.ErrContentNotFound, key.Country, key.Category)
	}
	return domain.QuizContent(items...), nil
}

// Records reads every record of a country file.
func (s *QuestionStore) Records(ctx context.Context, country string) ([]QuestionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if country == "" || country != filepath.Base(country) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCountry, country)
	}

	for _, ext := range questionExts {
		path := filepath.Join(s.dir, country+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrContentLoadFailed, path, err)
		}

		var records []QuestionRecord
		if ext == ".json" {
			err = json.Unmarshal(data, &records)
		} else {
			err = yaml.Unmarshal(data, &records)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrContentLoadFailed, path, err)
		}
		return records, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCountry, country)
}
