// Package ui holds the terminal-facing helpers shared by the profilesync
// commands.
package ui

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// IsInteractive reports whether w is a terminal.
func IsInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// NewLogger returns a logger writing to w. Terminals get text records,
// anything else gets JSON.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if IsInteractive(w) {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

// Progress is a spinner that only renders on a terminal.
type Progress struct {
	s *spinner.Spinner
}

// StartProgress starts a spinner on w with message as its suffix. When w is
// not a terminal nothing is written.
func StartProgress(w io.Writer, message string) *Progress {
	if !IsInteractive(w) {
		return &Progress{}
	}
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	s.Start()
	return &Progress{s: s}
}

// Stop clears the spinner. It is safe to call more than once.
func (p *Progress) Stop() {
	if p.s == nil {
		return
	}
	p.s.Stop()
	p.s = nil
}
