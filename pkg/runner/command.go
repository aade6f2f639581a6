package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/roomread/internal/runtime"
	"github.com/aretw0/roomread/pkg/domain"
)

// CommandKind is what a line of input asks the runner to do.
type CommandKind int

const (
	CommandAdvance CommandKind = iota
	CommandSelect
	CommandQuit
)

// Command is a parsed input line.
type Command struct {
	Kind   CommandKind
	Option int
}

// ErrUnknownCommand is returned for input that is neither an option nor a keyword.
var ErrUnknownCommand = errors.New("unknown command")

// ParseCommand interprets a line against the current view.
// Options are picked by letter (A, b) or 1-based number. An empty line,
// "next" or "continue" advances; "q", "quit" or "exit" stops. Single letters
// other than q are reserved for options.
func ParseCommand(input string, view runtime.View) (Command, error) {
	in := strings.ToLower(strings.TrimSpace(input))
	switch in {
	case "q", "quit", "exit":
		return Command{Kind: CommandQuit}, nil
	case "", "next", "continue":
		return Command{Kind: CommandAdvance}, nil
	}

	if view.Step == nil || view.Step.Kind != domain.BlockQuestion {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, input)
	}
	count := len(view.Step.Options)

	if n, err := strconv.Atoi(in); err == nil {
		if n < 1 || n > count {
			return Command{}, fmt.Errorf("option %d out of range (1-%d)", n, count)
		}
		return Command{Kind: CommandSelect, Option: n - 1}, nil
	}
	if len(in) == 1 && in[0] >= 'a' && in[0] <= 'z' {
		idx := int(in[0] - 'a')
		if idx >= count {
			return Command{}, fmt.Errorf("option %s out of range (A-%s)", strings.ToUpper(in), runtime.OptionLetter(count-1))
		}
		return Command{Kind: CommandSelect, Option: idx}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, input)
}
