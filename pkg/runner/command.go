package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/maturity/pkg/domain"
)

// CommandKind enumerates what an input line asks for.
type CommandKind int

const (
	CommandAnswer CommandKind = iota
	CommandAdvance
	CommandBack
	CommandRestart
	CommandQuit
	CommandHelp
)

// Command is a parsed input line.
type Command struct {
	Kind     CommandKind
	OptionID domain.OptionID
}

// ErrUnrecognizedInput is returned when a line matches neither a keyword nor an option.
var ErrUnrecognizedInput = errors.New("unrecognized input")

// HelpText lists the keywords understood by ParseCommand.
const HelpText = "Type an option number, id or label. Empty line: next. b: back. r: restart. q: quit."

var keywords = map[string]CommandKind{
	"":        CommandAdvance,
	"n":       CommandAdvance,
	"next":    CommandAdvance,
	"b":       CommandBack,
	"back":    CommandBack,
	"r":       CommandRestart,
	"restart": CommandRestart,
	"q":       CommandQuit,
	"quit":    CommandQuit,
	"exit":    CommandQuit,
	"?":       CommandHelp,
	"h":       CommandHelp,
	"help":    CommandHelp,
}

// ParseCommand resolves input against the options of view.
// Option numbers (1-based), ids and labels are matched case-insensitively;
// keywords win over option ids.
func ParseCommand(input string, view *domain.View) (Command, error) {
	text := strings.ToLower(strings.TrimSpace(input))
	if kind, ok := keywords[text]; ok {
		return Command{Kind: kind}, nil
	}
	if view == nil {
		return Command{}, fmt.Errorf("%w: %q", ErrUnrecognizedInput, input)
	}

	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(view.Options) {
			return Command{Kind: CommandAnswer, OptionID: view.Options[n-1].ID}, nil
		}
		return Command{}, fmt.Errorf("%w: choose between 1 and %d", ErrUnrecognizedInput, len(view.Options))
	}

	for _, o := range view.Options {
		if strings.EqualFold(string(o.ID), text) {
			return Command{Kind: CommandAnswer, OptionID: o.ID}, nil
		}
	}
	for _, o := range view.Options {
		if strings.EqualFold(strings.TrimSpace(o.Label), text) {
			return Command{Kind: CommandAnswer, OptionID: o.ID}, nil
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnrecognizedInput, input)
}
