package spacedrep

import (
	"math"
	"testing"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
)

var monday = plan.MustParseDate("2025-01-06")

// steady scores 0.69: confidence 4 with full accuracy.
var steady = Completion{ConfidenceRating: 4, QuestionsSolved: 10, QuestionsCorrect: 10}

func completedSession() plan.Session {
	return plan.Session{
		ID:              "orig",
		PlanID:          1,
		TopicID:         plan.TopicRef(7),
		Subject:         "Math",
		Date:            monday,
		Kind:            plan.KindNewTopic,
		Status:          plan.StatusCompleted,
		DurationMinutes: 60,
		Priority:        40,
	}
}

func offsets(sessions []plan.Session) []int {
	var out []int
	for _, s := range sessions {
		n, _ := s.Kind.ReviewOffset()
		out = append(out, n)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReviewsExcellentUsesSparseTable(t *testing.T) {
	s := NewScheduler(DefaultConfig())
	d := Completion{ConfidenceRating: 5, DifficultyRating: 1, TimeStudiedSeconds: 300, QuestionsSolved: 10, QuestionsCorrect: 9}

	got := s.Reviews(completedSession(), d, plan.AddDays(monday, 100))

	if got.Score <= 0.85 {
		t.Fatalf("score = %v, want > 0.85", got.Score)
	}
	if got.Tier != TierExcellent {
		t.Fatalf("tier = %s, want excellent", got.Tier)
	}
	if want := []int{3, 7, 21, 45}; !equalInts(offsets(got.Sessions), want) {
		t.Errorf("offsets = %v, want %v", offsets(got.Sessions), want)
	}
}

func TestReviewsPoorUsesDenseTable(t *testing.T) {
	s := NewScheduler(DefaultConfig())
	d := Completion{ConfidenceRating: 1, DifficultyRating: 1, TimeStudiedSeconds: 3600}

	got := s.Reviews(completedSession(), d, plan.AddDays(monday, 100))

	if got.Tier != TierPoor {
		t.Fatalf("tier = %s, want poor", got.Tier)
	}
	if want := []int{1, 2, 5, 10, 20}; !equalInts(offsets(got.Sessions), want) {
		t.Errorf("offsets = %v, want %v", offsets(got.Sessions), want)
	}
}

func TestReviewsFastConfidentSessionStaysStandard(t *testing.T) {
	s := NewScheduler(DefaultConfig())
	// Confidence 5 and a session far shorter than expected reach 0.85 at
	// most, which is not above the excellent threshold.
	d := Completion{ConfidenceRating: 5, DifficultyRating: 1, TimeStudiedSeconds: 60}

	got := s.Reviews(completedSession(), d, plan.AddDays(monday, 100))

	if math.Abs(got.Score-0.85) > 1e-9 {
		t.Fatalf("score = %v, want 0.85", got.Score)
	}
	if got.Tier != TierStandard {
		t.Fatalf("tier = %s, want standard", got.Tier)
	}
	if want := []int{1, 3, 7, 15, 30}; !equalInts(offsets(got.Sessions), want) {
		t.Errorf("offsets = %v, want %v", offsets(got.Sessions), want)
	}
}

func TestReviewsFields(t *testing.T) {
	s := NewScheduler(DefaultConfig())
	orig := completedSession()

	got := s.Reviews(orig, steady, plan.AddDays(monday, 100))

	if got.Tier != TierStandard {
		t.Fatalf("tier = %s, want standard", got.Tier)
	}
	wantMinutes := []int{30, 24, 24, 18, 18}
	for i, r := range got.Sessions {
		n, _ := r.Kind.ReviewOffset()
		if !r.Date.Equal(plan.AddDays(orig.Date, n)) {
			t.Errorf("%s date = %s, want original + %d", r.Kind, plan.FormatDate(r.Date), n)
		}
		if r.DurationMinutes != wantMinutes[i] {
			t.Errorf("%s duration = %d, want %d", r.Kind, r.DurationMinutes, wantMinutes[i])
		}
		if math.Abs(r.Priority-32) > 1e-9 {
			t.Errorf("%s priority = %v, want 32", r.Kind, r.Priority)
		}
		if r.Status != plan.StatusPending || !r.HasTopic(7) || r.Subject != "Math" {
			t.Errorf("review %+v does not inherit original fields", r)
		}
		if r.ID == "" || r.ID == orig.ID {
			t.Errorf("review ID = %q, want fresh ID", r.ID)
		}
	}
}

func TestReviewsRespectExamDate(t *testing.T) {
	s := NewScheduler(DefaultConfig())
	exam := plan.AddDays(monday, 10)

	got := s.Reviews(completedSession(), steady, exam)

	if want := []int{1, 3, 7}; !equalInts(offsets(got.Sessions), want) {
		t.Errorf("offsets = %v, want %v", offsets(got.Sessions), want)
	}
	if want := []int{15, 30}; !equalInts(got.Skipped, want) {
		t.Errorf("skipped = %v, want %v", got.Skipped, want)
	}
	for _, r := range got.Sessions {
		if r.Date.After(exam) {
			t.Errorf("%s on %s is after exam", r.Kind, plan.FormatDate(r.Date))
		}
	}
}

func TestReviewsMinimumDuration(t *testing.T) {
	s := NewScheduler(DefaultConfig())
	orig := completedSession()
	orig.DurationMinutes = 20

	got := s.Reviews(orig, Completion{}, plan.AddDays(monday, 100))
	for _, r := range got.Sessions {
		if r.DurationMinutes != 15 {
			t.Errorf("%s duration = %d, want floor of 15", r.Kind, r.DurationMinutes)
		}
	}
}

func TestReinforcement(t *testing.T) {
	s := NewScheduler(DefaultConfig())
	today := time.Date(2025, 1, 8, 15, 30, 0, 0, time.UTC)

	r := s.Reinforcement(completedSession(), today)

	if r.Kind != plan.KindReinforcement {
		t.Errorf("kind = %s, want Reinforcement", r.Kind)
	}
	if got := plan.FormatDate(r.Date); got != "2025-01-09" {
		t.Errorf("date = %s, want 2025-01-09", got)
	}
	if r.DurationMinutes != 30 {
		t.Errorf("duration = %d, want 30", r.DurationMinutes)
	}
	if r.Priority != 60 {
		t.Errorf("priority = %v, want 60", r.Priority)
	}
}
