package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the facet banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   __               _   ", "#818cf8"},
		{"  / _| __ _  ___ ___| |_ ", "#a78bfa"},
		{" | |_ / _` |/ __/ _ \\ __|", "#c084fc"},
		{" |  _| (_| | (_|  __/ |_ ", "#e879f9"},
		{" |_|  \\__,_|\\___\\___|\\__|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintf(w, " %s\n\n", termenv.String("v"+strings.TrimSpace(version)).Faint())
}
