package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Status prints ">>> message" lines, colored when the output is a terminal.
// A nil *Status prints nothing.
type Status struct {
	w       io.Writer
	profile termenv.Profile
}

// NewStatus writes status lines to w. Pass color=false for plain output.
func NewStatus(w io.Writer, color bool) *Status {
	profile := termenv.Ascii
	if color {
		profile = termenv.ColorProfile()
	}
	return &Status{w: w, profile: profile}
}

// Info prints a neutral status line.
func (s *Status) Info(format string, args ...any) {
	s.print("#818cf8", format, args...)
}

// Success prints a status line marking completion.
func (s *Status) Success(format string, args ...any) {
	s.print("#4ade80", format, args...)
}

// Error prints a status line marking failure.
func (s *Status) Error(format string, args ...any) {
	s.print("#f87171", format, args...)
}

func (s *Status) print(color, format string, args ...any) {
	if s == nil {
		return
	}
	prefix := s.profile.String(">>>").Foreground(s.profile.Color(color)).Bold()
	fmt.Fprintf(s.w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
