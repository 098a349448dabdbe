package session

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
)

var (
	friday = plan.MustParseDate("2025-01-10")
	monday = plan.MustParseDate("2025-01-13")
)

func weekdayPlan() *plan.Plan {
	return &plan.Plan{ID: 1, ExamDate: plan.AddDays(friday, 30), DaysPerWeek: 5, DailyHours: 4}
}

func pendingOn(d time.Time) *plan.Session {
	return &plan.Session{ID: "s1", PlanID: 1, Date: d, Kind: plan.KindNewTopic, Status: plan.StatusPending, Priority: 20}
}

func TestPostponeFromFridayLandsOnMonday(t *testing.T) {
	p := NewPostponer(DefaultConfig())
	pl := weekdayPlan()
	s := pendingOn(friday)

	res, err := p.Postpone(pl, s, Request{Reason: "sick"}, nil, nil)
	if err != nil {
		t.Fatalf("Postpone: %v", err)
	}
	if !res.NewDate.Equal(monday) {
		t.Errorf("new date = %s, want %s", plan.FormatDate(res.NewDate), plan.FormatDate(monday))
	}
	if !s.Date.Equal(monday) {
		t.Errorf("session date = %s, want Monday", plan.FormatDate(s.Date))
	}
	if s.Postponements != 1 || res.PostponementCount != 1 {
		t.Errorf("session postponements = %d, result = %d, want 1", s.Postponements, res.PostponementCount)
	}
	if pl.Postponements != 1 {
		t.Errorf("plan postponements = %d, want 1", pl.Postponements)
	}
	if s.Priority != 30 {
		t.Errorf("priority = %v, want 30", s.Priority)
	}
	if s.PostponeReason != "sick" {
		t.Errorf("reason = %q, want sick", s.PostponeReason)
	}
	if !res.CanPostpone {
		t.Error("CanPostpone = false after first postponement")
	}
}

func TestPostponeIsMonotonic(t *testing.T) {
	p := NewPostponer(DefaultConfig())
	pl := weekdayPlan()
	s := pendingOn(friday)

	prev := s.Date
	for i := 1; i <= 5; i++ {
		if _, err := p.Postpone(pl, s, Request{}, nil, nil); err != nil {
			t.Fatalf("postpone %d: %v", i, err)
		}
		if !s.Date.After(prev) {
			t.Fatalf("postpone %d: %s is not after %s", i, plan.FormatDate(s.Date), plan.FormatDate(prev))
		}
		if s.Postponements != i || pl.Postponements != i {
			t.Fatalf("postpone %d: counters session=%d plan=%d", i, s.Postponements, pl.Postponements)
		}
		prev = s.Date
	}
}

func TestPostponeExplicitTarget(t *testing.T) {
	p := NewPostponer(DefaultConfig())
	pl := weekdayPlan()

	// Saturday target advances to Monday.
	s := pendingOn(friday)
	res, err := p.Postpone(pl, s, Request{Target: "2025-01-11"}, nil, nil)
	if err != nil {
		t.Fatalf("Postpone: %v", err)
	}
	if !res.NewDate.Equal(monday) {
		t.Errorf("new date = %s, want Monday", plan.FormatDate(res.NewDate))
	}

	// Wednesday target is kept.
	s = pendingOn(friday)
	res, err = p.Postpone(pl, s, Request{Target: "2025-01-15"}, nil, nil)
	if err != nil {
		t.Fatalf("Postpone: %v", err)
	}
	if got := plan.FormatDate(res.NewDate); got != "2025-01-15" {
		t.Errorf("new date = %s, want 2025-01-15", got)
	}
}

func TestPostponeSkipsFullDays(t *testing.T) {
	p := NewPostponer(DefaultConfig())
	pl := weekdayPlan()
	s := pendingOn(friday)
	load := map[time.Time]int{monday: 6}

	res, err := p.Postpone(pl, s, Request{}, load, nil)
	if err != nil {
		t.Fatalf("Postpone: %v", err)
	}
	if got := plan.FormatDate(res.NewDate); got != "2025-01-14" {
		t.Errorf("new date = %s, want 2025-01-14", got)
	}
}

func TestPostponeErrors(t *testing.T) {
	p := NewPostponer(DefaultConfig())

	tests := []struct {
		name    string
		session func() *plan.Session
		req     Request
		exam    time.Time
		kind    error
	}{
		{
			name:    "completed session",
			session: func() *plan.Session { s := pendingOn(friday); s.Status = plan.StatusCompleted; return s },
			exam:    plan.AddDays(friday, 30),
			kind:    plan.ErrInvalidTransition,
		},
		{
			name:    "past exam date",
			session: func() *plan.Session { return pendingOn(friday) },
			exam:    plan.AddDays(friday, 2), // Sunday
			kind:    plan.ErrInvalidTransition,
		},
		{
			name:    "target after exam",
			session: func() *plan.Session { return pendingOn(friday) },
			req:     Request{Target: "2025-03-01"},
			exam:    plan.AddDays(friday, 30),
			kind:    plan.ErrInvalidTransition,
		},
		{
			name:    "target not later",
			session: func() *plan.Session { return pendingOn(friday) },
			req:     Request{Target: "2025-01-10"},
			exam:    plan.AddDays(friday, 30),
			kind:    plan.ErrValidation,
		},
		{
			name:    "malformed target",
			session: func() *plan.Session { return pendingOn(friday) },
			req:     Request{Target: "next week"},
			exam:    plan.AddDays(friday, 30),
			kind:    plan.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := weekdayPlan()
			pl.ExamDate = tt.exam
			s := tt.session()
			before := *s

			_, err := p.Postpone(pl, s, tt.req, nil, nil)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("err = %v, want %v", err, tt.kind)
			}
			if s.Date != before.Date || s.Postponements != before.Postponements || pl.Postponements != 0 {
				t.Error("failed postponement mutated state")
			}
		})
	}
}

func TestCanPostpone(t *testing.T) {
	p := NewPostponer(DefaultConfig())
	for n, want := range map[int]bool{0: true, 2: true, 3: false, 5: false} {
		s := &plan.Session{Postponements: n}
		if got := p.CanPostpone(s); got != want {
			t.Errorf("CanPostpone(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	p := NewPostponer(DefaultConfig())
	tests := []struct {
		postponements, total int
		rate                 int
		want                 string
	}{
		{0, 0, 0, RecommendGood},
		{1, 10, 10, RecommendGood},
		{3, 20, 15, RecommendGood},
		{2, 10, 20, RecommendModerate},
		{3, 10, 30, RecommendModerate},
		{4, 10, 40, RecommendHigh},
		{1, 3, 33, RecommendHigh},
	}
	for _, tt := range tests {
		a := p.Analyze(tt.postponements, tt.total)
		if a.Rate != tt.rate || a.Recommendation != tt.want {
			t.Errorf("Analyze(%d, %d) = %d%% %q, want %d%% %q",
				tt.postponements, tt.total, a.Rate, a.Recommendation, tt.rate, tt.want)
		}
	}
}

func TestAnalyzeSessionsCountsPostponedSessions(t *testing.T) {
	p := NewPostponer(DefaultConfig())
	sessions := make([]plan.Session, 10)
	sessions[0].Postponements = 3
	sessions[1].Postponements = 1

	a := p.AnalyzeSessions(sessions)
	if a.Postponements != 2 || a.TotalSessions != 10 || a.Rate != 20 || a.Recommendation != RecommendModerate {
		t.Errorf("AnalyzeSessions = %+v, want 2 of 10, 20%%, moderate", a)
	}
}

func TestPostponeAnalysisIncludesMovedSession(t *testing.T) {
	p := NewPostponer(DefaultConfig())
	pl := weekdayPlan()
	pl.Postponements = 40
	s := pendingOn(friday)
	others := []plan.Session{*pendingOn(monday), *pendingOn(monday), *pendingOn(monday)}

	res, err := p.Postpone(pl, s, Request{}, nil, others)
	if err != nil {
		t.Fatalf("Postpone: %v", err)
	}
	if a := res.Analysis; a.Postponements != 1 || a.TotalSessions != 4 || a.Rate != 25 {
		t.Errorf("analysis = %+v, want 1 of 4 sessions, 25%%, whatever the plan counter says", a)
	}
}
