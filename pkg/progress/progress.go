// Package progress encodes the set of completed categories carried in navigation state.
//
// The wire form is a comma-joined list of category slugs. The empty string is
// the empty set. Decoding collapses duplicates and ignores empty segments.
package progress

import (
	"net/url"
	"sort"
	"strings"
)

// Separator joins category slugs in a token.
const Separator = ","

// QueryParam is the query parameter that carries a token.
const QueryParam = "completed"

// Set is a set of completed category slugs.
type Set map[string]struct{}

// NewSet builds a set from slugs. Empty slugs are ignored.
func NewSet(categories ...string) Set {
	s := make(Set, len(categories))
	for _, c := range categories {
		s.Add(c)
	}
	return s
}

// Has reports whether the category is in the set.
func (s Set) Has(category string) bool {
	_, ok := s[category]
	return ok
}

// Add inserts a category. Adding an existing member is a no-op.
func (s Set) Add(category string) {
	if category == "" {
		return
	}
	s[category] = struct{}{}
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Slice returns the members sorted.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold the same members.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// Decode parses a token into a set.
func Decode(token string) Set {
	if token == "" {
		return Set{}
	}
	return NewSet(strings.Split(token, Separator)...)
}

// Encode serializes a set. Members are sorted so equal sets encode identically.
func Encode(s Set) string {
	return strings.Join(s.Slice(), Separator)
}

// MarkComplete adds category to the token and re-encodes it.
func MarkComplete(token, category string) string {
	s := Decode(token)
	s.Add(category)
	return Encode(s)
}

// ReturnURL builds the category listing URL for a country, carrying the token.
func ReturnURL(country, token string) string {
	u := url.URL{Path: "/countries/" + country}
	if token != "" {
		u.RawQuery = QueryParam + "=" + token
	}
	return u.String()
}
