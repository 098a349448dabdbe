// Package theme holds the terminal styles of the studyplan CLI.
package theme

import (
	"io"
	"os"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"golang.org/x/term"

	"github.com/abhisek/studyplan/internal/plan"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)
)

// States
var (
	Done = lipgloss.NewStyle().
		Foreground(Success)

	Overdue = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Accent)

	Review = lipgloss.NewStyle().
		Foreground(TextDim)

	Rehearsal = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// Painter applies styles when color output is enabled.
type Painter struct {
	Color bool
}

// NewPainter enables color for terminals, unless NO_COLOR is set.
func NewPainter(w io.Writer) Painter {
	return Painter{Color: ShouldUseColor(w)}
}

// Paint renders text with s, or returns it unchanged without color.
func (p Painter) Paint(s lipgloss.Style, text string) string {
	if !p.Color {
		return text
	}
	return s.Render(text)
}

// ShouldUseColor reports whether w is a terminal that accepts color.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of w, or fallback when w is not a
// terminal.
func TerminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// SessionStyle picks the style of a session row.
func SessionStyle(s plan.Session, today time.Time) lipgloss.Style {
	switch {
	case s.IsCompleted():
		return Done
	case s.IsOverdue(today):
		return Overdue
	case s.Kind.IsRehearsal():
		return Rehearsal
	case s.Kind.IsReview() || s.Kind == plan.KindReinforcement:
		return Review
	}
	return Body
}

// ProgressBar renders a horizontal bar filled to percent (0-1).
func (p Painter) ProgressBar(percent float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * percent)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled

	if !p.Color {
		return "[" + strings.Repeat("#", filled) + strings.Repeat(".", empty) + "]"
	}
	return ProgressFilled.Render(strings.Repeat(" ", filled)) +
		ProgressEmpty.Render(strings.Repeat(" ", empty))
}
