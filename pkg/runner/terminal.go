package runner

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stream is an interactive terminal.
func IsTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
