package theme

import (
	"bytes"
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/plan"
)

func TestPainterPlain(t *testing.T) {
	p := Painter{}
	if got := p.Paint(Overdue, "late"); got != "late" {
		t.Errorf("Paint = %q, want unchanged text", got)
	}
	if got := p.ProgressBar(0.5, 10); got != "[#####.....]" {
		t.Errorf("ProgressBar = %q", got)
	}
	if got := p.ProgressBar(2, 4); got != "[####]" {
		t.Errorf("ProgressBar over 100%% = %q", got)
	}
}

func TestShouldUseColorNonFile(t *testing.T) {
	if ShouldUseColor(&bytes.Buffer{}) {
		t.Error("buffer should not get color")
	}
	if w := TerminalWidth(&bytes.Buffer{}, 100); w != 100 {
		t.Errorf("TerminalWidth = %d, want fallback", w)
	}
}

func TestSessionStyle(t *testing.T) {
	today := plan.MustParseDate("2025-03-10")
	past := plan.MustParseDate("2025-03-01")
	tests := []struct {
		name string
		s    plan.Session
		want lipgloss.Style
	}{
		{"completed", plan.Session{Status: plan.StatusCompleted, Date: past}, Done},
		{"overdue", plan.Session{Status: plan.StatusPending, Date: past}, Overdue},
		{"rehearsal", plan.Session{Status: plan.StatusPending, Kind: plan.KindFullRehearsal, Date: today}, Rehearsal},
		{"review", plan.Session{Status: plan.StatusPending, Kind: plan.ReviewKind(7), Date: today}, Review},
		{"new topic", plan.Session{Status: plan.StatusPending, Kind: plan.KindNewTopic, Date: today}, Body},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SessionStyle(tt.s, today)
			if got.GetForeground() != tt.want.GetForeground() || got.GetBold() != tt.want.GetBold() {
				t.Errorf("SessionStyle(%s) picked the wrong style", tt.name)
			}
		})
	}
}
