// Package table renders aligned text tables for terminal output.
package table

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/abhisek/studyplan/internal/ui/theme"
)

const (
	gap  = "  "
	tail = "…"
)

// Align is a column alignment.
type Align int

const (
	Left Align = iota
	Right
)

// Column describes one table column.
type Column struct {
	Title string
	Align Align

	// Flex marks the column shrunk first when the table exceeds MaxWidth.
	Flex bool
}

// Table is a list of rows under column headers. Widths are measured in
// terminal cells, so accented and wide runes line up.
type Table struct {
	Columns []Column
	Rows    [][]string

	// Styles holds an optional style per row, applied after padding.
	Styles []lipgloss.Style

	// MaxWidth limits the rendered line width when > 0.
	MaxWidth int
}

// Append adds a row with style s.
func (t *Table) Append(s lipgloss.Style, cells ...string) {
	t.Rows = append(t.Rows, cells)
	t.Styles = append(t.Styles, s)
}

// Widths returns the cell width of each column after fitting MaxWidth.
func (t *Table) Widths() []int {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = runewidth.StringWidth(c.Title)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	if t.MaxWidth <= 0 {
		return widths
	}

	total := len(gap) * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	for i, c := range t.Columns {
		if total <= t.MaxWidth {
			break
		}
		if !c.Flex {
			continue
		}
		floor := max(runewidth.StringWidth(c.Title), 4)
		shrink := min(total-t.MaxWidth, widths[i]-floor)
		if shrink > 0 {
			widths[i] -= shrink
			total -= shrink
		}
	}
	return widths
}

// Render writes the table to w. The header uses theme.Heading.
func (t *Table) Render(w io.Writer, p theme.Painter) error {
	widths := t.Widths()

	titles := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = c.Title
	}
	if _, err := fmt.Fprintln(w, p.Paint(theme.Heading, t.line(titles, widths))); err != nil {
		return err
	}
	for i, row := range t.Rows {
		line := t.line(row, widths)
		if i < len(t.Styles) {
			line = p.Paint(t.Styles[i], line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) line(cells []string, widths []int) string {
	var b strings.Builder
	for i, width := range widths {
		if i > 0 {
			b.WriteString(gap)
		}
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if runewidth.StringWidth(cell) > width {
			cell = runewidth.Truncate(cell, width, tail)
		}
		last := i == len(widths)-1
		switch {
		case t.Columns[i].Align == Right:
			b.WriteString(runewidth.FillLeft(cell, width))
		case last:
			b.WriteString(cell)
		default:
			b.WriteString(runewidth.FillRight(cell, width))
		}
	}
	return b.String()
}
