package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxAnswerSize bounds a single answer line in bytes.
	DefaultMaxAnswerSize = 64
	// EnvMaxAnswerSize overrides DefaultMaxAnswerSize.
	EnvMaxAnswerSize = "ROOMREAD_MAX_ANSWER_SIZE"
)

// ErrInvalidAnswer is the parent of every rejection SanitizeInput reports.
// The play loop prints these and waits for another line.
var ErrInvalidAnswer = errors.New("invalid answer")

var (
	ErrInputTooLarge = fmt.Errorf("%w: too long", ErrInvalidAnswer)
	ErrInvalidUTF8   = fmt.Errorf("%w: not valid UTF-8", ErrInvalidAnswer)
	ErrMultiline     = fmt.Errorf("%w: answers fit on one line", ErrInvalidAnswer)
)

// SanitizeInput turns a raw answer line into something ParseCommand can read.
// Surrounding space is trimmed and remaining control characters are dropped,
// so terminal escapes pasted into the prompt cannot reach the log.
func SanitizeInput(input string) (string, error) {
	input = strings.TrimSpace(input)
	if limit := maxAnswerSize(); len(input) > limit {
		return "", fmt.Errorf("%w (%d bytes, limit %d)", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	if strings.ContainsAny(input, "\r\n") {
		return "", ErrMultiline
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input), nil
}

func maxAnswerSize() int {
	if val := os.Getenv(EnvMaxAnswerSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxAnswerSize
}
