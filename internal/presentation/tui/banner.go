package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{` __  __       _              _ _         `, "#34d399"},
	{`|  \/  | __ _| |_ _   _ _ __(_) |_ _   _ `, "#2dd4bf"},
	{`| |\/| |/ _' | __| | | | '__| | __| | | |`, "#22d3ee"},
	{`| |  | | (_| | |_| |_| | |  | | |_| |_| |`, "#38bdf8"},
	{`|_|  |_|\__,_|\__|\__,_|_|  |_|\__|\__, |`, "#60a5fa"},
	{`                                   |___/ `, "#818cf8"},
}

// PrintBanner writes the colored banner and the questionnaire title to w.
// Colors degrade to plain text when w is not a color terminal.
func PrintBanner(w io.Writer, title string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	if title != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, out.String("  "+title).Bold())
	}
	fmt.Fprintln(w)
}
