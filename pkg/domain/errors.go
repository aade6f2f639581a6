package domain

import (
	"errors"
	"fmt"
)

// ErrContentNotFound is returned when a country, category or tier has no content.
var ErrContentNotFound = errors.New("content not found")

// ErrContentLoadFailed is returned when content exists but could not be read or parsed.
var ErrContentLoadFailed = errors.New("content load failed")

// ErrInvalidOperation is returned when select or advance is not allowed in the current state.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

var (
	ErrUnknownCountry  = fmt.Errorf("%w: unknown country", ErrContentNotFound)
	ErrUnknownCategory = fmt.Errorf("%w: unknown category", ErrContentNotFound)
	ErrUnknownTier     = fmt.Errorf("%w: unknown lesson tier", ErrContentNotFound)
	ErrLessonLocked    = fmt.Errorf("%w: lesson tier is locked", ErrContentNotFound)
)

// FailureKind classifies why a session could not start.
type FailureKind string

const (
	FailureNotFound   FailureKind = "content_not_found"
	FailureLoadFailed FailureKind = "content_load_failed"
)

// Failure is the user-facing record of a failed load.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	Cause   string      `json:"cause,omitempty"`
}

func (f *Failure) Error() string {
	if f.Cause == "" {
		return fmt.Sprintf("%s: %s", f.Kind, f.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", f.Kind, f.Message, f.Cause)
}

// Unwrap lets errors.Is match the sentinel for the failure kind.
func (f *Failure) Unwrap() error {
	if f.Kind == FailureNotFound {
		return ErrContentNotFound
	}
	return ErrContentLoadFailed
}

// ClassifyLoadError maps a content store error onto a failure kind.
func ClassifyLoadError(err error) FailureKind {
	if errors.Is(err, ErrContentNotFound) {
		return FailureNotFound
	}
	return FailureLoadFailed
}
