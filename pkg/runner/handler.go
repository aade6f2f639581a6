package runner

import (
	"context"

	"github.com/aretw0/roomread/internal/runtime"
)

// IOHandler defines the strategy for interacting with the learner.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the current view.
	Output(ctx context.Context, view runtime.View) error

	// Input reads the next command line.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message such as a rejected command.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is written.
type ContentRenderer func(string) (string, error)
