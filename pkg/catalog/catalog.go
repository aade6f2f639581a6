// Package catalog holds the fixed lookup tables for countries, categories and lesson tiers.
//
// Category slugs are validated here before any content store is queried.
package catalog

import (
	"fmt"

	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/progress"
)

// Country describes a destination with published content.
type Country struct {
	Slug        string `json:"slug" yaml:"slug"`
	Name        string `json:"name" yaml:"name"`
	Region      string `json:"region" yaml:"region"`
	Flag        string `json:"flag" yaml:"flag"`
	Description string `json:"description" yaml:"description"`
}

// Category is a topical grouping of etiquette content.
type Category struct {
	Slug        string `json:"slug" yaml:"slug"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Guides      int    `json:"guides" yaml:"guides"`
}

// Tier is a lesson difficulty level.
type Tier struct {
	Slug        string `json:"slug" yaml:"slug"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Locked      bool   `json:"locked" yaml:"locked"`
}

var countries = []Country{
	{
		Slug:        "france",
		Name:        "France",
		Region:      "Europe",
		Flag:        "\U0001F1EB\U0001F1F7",
		Description: "Discover France, the world's top tourist destination, renowned for its rich history, iconic art, fashion, and cuisine.",
	},
}

var categories = []Category{
	{"dining-etiquette", "Dining Etiquette", "Table manners, tipping customs, and food-related traditions", 45},
	{"greetings-gestures", "Greetings & Gestures", "How to properly greet locals and avoid offensive gestures", 38},
	{"communication-styles", "Communication Styles", "Verbal and non-verbal communication norms across cultures", 32},
	{"religious-sacred-sites", "Religious & Sacred Sites", "Respectful practices when visiting temples, churches, and mosques", 28},
	{"dress-codes", "Dress Codes", "What to wear and what to avoid in different cultural contexts", 24},
	{"time-punctuality", "Time & Punctuality", "Expectations around timeliness and scheduling in different regions", 20},
}

var tiers = []Tier{
	{domain.DefaultTier, "Beginner Guide", "Core cultural foundations and essential etiquette.", false},
	{"intermediate", "Intermediate Guide", "Deeper cultural nuance and social expectations.", true},
	{"advanced", "Advanced Guide", "High-context and professional etiquette mastery.", true},
}

// Countries returns every country in display order.
func Countries() []Country {
	return append([]Country(nil), countries...)
}

// Categories returns every category in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Tiers returns every lesson tier in display order.
func Tiers() []Tier {
	return append([]Tier(nil), tiers...)
}

// ResolveCountry looks a country up by slug.
func ResolveCountry(slug string) (Country, error) {
	for _, c := range countries {
		if c.Slug == slug {
			return c, nil
		}
	}
	return Country{}, fmt.Errorf("%w: %q", domain.ErrUnknownCountry, slug)
}

// ResolveCategory looks a category up by slug.
func ResolveCategory(slug string) (Category, error) {
	for _, c := range categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, slug)
}

// ResolveTier looks a lesson tier up by slug. Locked tiers resolve with ErrLessonLocked.
func ResolveTier(slug string) (Tier, error) {
	for _, t := range tiers {
		if t.Slug != slug {
			continue
		}
		if t.Locked {
			return t, fmt.Errorf("%w: %q", domain.ErrLessonLocked, slug)
		}
		return t, nil
	}
	return Tier{}, fmt.Errorf("%w: %q", domain.ErrUnknownTier, slug)
}

// Validate checks every catalog slug a content key references.
// Country existence is left to the content store so that unknown countries
// surface as a missing content file.
func Validate(key domain.ContentKey) error {
	if _, err := ResolveCategory(key.Category); err != nil {
		return err
	}
	if key.Mode == domain.ModeLesson {
		if _, err := ResolveTier(key.Tier); err != nil {
			return err
		}
	}
	return nil
}

// CategoryEntry is a category as listed on a country page.
type CategoryEntry struct {
	Category
	Completed bool   `json:"completed"`
	Href      string `json:"href"`
}

// CategoryListing marks completed categories and builds links that keep the progress token.
func CategoryListing(country, token string) []CategoryEntry {
	done := progress.Decode(token)
	out := make([]CategoryEntry, 0, len(categories))
	for _, c := range categories {
		href := fmt.Sprintf("/countries/%s/%s", country, c.Slug)
		if token != "" {
			href += "?" + progress.QueryParam + "=" + token
		}
		out = append(out, CategoryEntry{
			Category:  c,
			Completed: done.Has(c.Slug),
			Href:      href,
		})
	}
	return out
}

// TierEntry is a lesson tier as listed on a category page.
type TierEntry struct {
	Tier
	Status string `json:"status"`
	Href   string `json:"href,omitempty"`
}

// TierListing returns the tiers for a category with their links.
func TierListing(country, category string) []TierEntry {
	out := make([]TierEntry, 0, len(tiers))
	for _, t := range tiers {
		e := TierEntry{Tier: t, Status: "Coming soon"}
		if !t.Locked {
			e.Status = "Available"
			e.Href = fmt.Sprintf("/countries/%s/%s/%s", country, category, t.Slug)
		}
		out = append(out, e)
	}
	return out
}

// Stats are the dashboard counters.
type Stats struct {
	Countries  int `json:"countries"`
	Guides     int `json:"guides"`
	Categories int `json:"categories"`
}

// DashboardStats counts the published catalog.
func DashboardStats() Stats {
	guides := 0
	for _, t := range tiers {
		if !t.Locked {
			guides++
		}
	}
	return Stats{
		Countries:  len(countries),
		Guides:     guides,
		Categories: len(categories),
	}
}

// Greeting returns the dashboard headline for a display name.
func Greeting(displayName string) string {
	if displayName == "" {
		return "Welcome back"
	}
	return "Welcome back, " + displayName
}
