// Package output provides styling helpers for terminal output.
//
// Styles degrade to plain text when the writer is not a color terminal, so
// the same rendering code serves pipes, files and tests.
package output

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Styles renders styled strings for one writer.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates Styles matching the color support of w.
func NewStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w)}
}

// Success returns text in bold green.
func (s *Styles) Success(text string) string {
	return s.output.String(text).Foreground(s.output.Color("2")).Bold().String()
}

// Error returns text in bold red.
func (s *Styles) Error(text string) string {
	return s.output.String(text).Foreground(s.output.Color("1")).Bold().String()
}

// Warning returns text in bold yellow.
func (s *Styles) Warning(text string) string {
	return s.output.String(text).Foreground(s.output.Color("3")).Bold().String()
}

// FilePath returns text in cyan.
func (s *Styles) FilePath(text string) string {
	return s.output.String(text).Foreground(s.output.Color("6")).String()
}

// Account returns an account name in yellow.
func (s *Styles) Account(text string) string {
	return s.output.String(text).Foreground(s.output.Color("3")).String()
}

// Amount returns a formatted amount, red when it is negative. Surrounding
// padding is kept.
func (s *Styles) Amount(text string) string {
	if strings.HasPrefix(strings.TrimSpace(text), "-") {
		return s.output.String(text).Foreground(s.output.Color("1")).String()
	}
	return text
}

// Status returns a budget status such as "+10%" in green and a behind
// status such as "-5%" in red.
func (s *Styles) Status(text string) string {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, "+"):
		return s.output.String(text).Foreground(s.output.Color("2")).String()
	case strings.HasPrefix(trimmed, "-"):
		return s.output.String(text).Foreground(s.output.Color("1")).String()
	}
	return text
}

// Keyword returns text in bold.
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).Bold().String()
}

// Dim returns faint text for secondary information.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).Faint().String()
}

// Timing returns a duration in red when the operation was slow, dimmed
// otherwise.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.output.String(text).Foreground(s.output.Color("1")).String()
	}
	return s.Dim(text)
}
