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
	{`  ____                       ____                _ `, "#38bdf8"},
	{` |  _ \ ___   ___  _ __ ___ |  _ \ ___  __ _  __| |`, "#22d3ee"},
	{` | |_) / _ \ / _ \| '_ ' _ \| |_) / _ \/ _' |/ _' |`, "#2dd4bf"},
	{` |  _ < (_) | (_) | | | | | |  _ <  __/ (_| | (_| |`, "#34d399"},
	{` |_| \_\___/ \___/|_| |_| |_|_| \_\___|\__,_|\__,_|`, "#4ade80"},
}

// PrintBanner writes the roomread banner and version to w.
// Colours degrade to plain text when w is not a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	fmt.Fprintln(w, out.String("  cultural etiquette, one step at a time  v"+version).Faint())
	fmt.Fprintln(w)
}
