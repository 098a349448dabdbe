package table

import (
	"bytes"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/abhisek/studyplan/internal/ui/theme"
)

func render(t *testing.T, tb *Table) []string {
	t.Helper()
	var buf bytes.Buffer
	if err := tb.Render(&buf, theme.Painter{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestRenderAlignsAccentedText(t *testing.T) {
	tb := &Table{Columns: []Column{{Title: "Topic"}, {Title: "Min", Align: Right}}}
	tb.Append(lipgloss.NewStyle(), "Obrigações", "60")
	tb.Append(lipgloss.NewStyle(), "Contratos", "120")

	lines := render(t, tb)
	want := []string{
		"Topic       Min",
		"Obrigações   60",
		"Contratos   120",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRenderShrinksFlexColumn(t *testing.T) {
	tb := &Table{
		Columns:  []Column{{Title: "Date"}, {Title: "Topic", Flex: true}, {Title: "Kind"}},
		MaxWidth: 30,
	}
	tb.Append(lipgloss.NewStyle(), "2025-03-04", "Responsabilidade civil objetiva", "NewTopic")

	for _, line := range render(t, tb) {
		if w := runewidth.StringWidth(line); w > 30 {
			t.Errorf("line %q is %d cells wide", line, w)
		}
	}
	lines := render(t, tb)
	if !strings.Contains(lines[1], "…") {
		t.Errorf("expected truncated topic in %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], "NewTopic") {
		t.Errorf("fixed column was cut: %q", lines[1])
	}
}

func TestWidthsWithoutLimit(t *testing.T) {
	tb := &Table{Columns: []Column{{Title: "A"}, {Title: "Long title"}}}
	tb.Append(lipgloss.NewStyle(), "abc", "x")
	got := tb.Widths()
	if got[0] != 3 || got[1] != 10 {
		t.Errorf("Widths = %v, want [3 10]", got)
	}
}
