package scheduler

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
)

func scenarioPlan() *plan.Plan {
	return &plan.Plan{
		ID:          1,
		ExamDate:    plan.AddDays(sunday, 40),
		DailyHours:  4,
		DaysPerWeek: 5,
	}
}

func scenarioRequest(p *plan.Plan, topics []plan.Topic) Request {
	subjects := []plan.Subject{{ID: 1, PlanID: p.ID, Name: "Math", Weight: 2}}
	cfg := DefaultConfig()
	return Request{
		Plan:       p,
		Subjects:   subjects,
		Topics:     Prioritize(topics, subjects, cfg.Defaults),
		Calendar:   BuildCalendar(sunday, p.ExamDate, p.DaysPerWeek),
		Rehearsals: true,
	}
}

func manyTopics(n int) []plan.Topic {
	topics := make([]plan.Topic, n)
	for i := range topics {
		topics[i] = plan.Topic{
			ID:            int64(i + 1),
			SubjectID:     1,
			Name:          fmt.Sprintf("topic-%d", i+1),
			Difficulty:    i%3 + 1,
			QuestionCount: 5 + i%20,
		}
	}
	return topics
}

func calendarIndex(cal []time.Time) map[time.Time]int {
	idx := make(map[time.Time]int, len(cal))
	for i, d := range cal {
		idx[d] = i
	}
	return idx
}

func TestBuild_TwoTopicScenario(t *testing.T) {
	p := scenarioPlan()
	req := scenarioRequest(p, []plan.Topic{
		{ID: 1, SubjectID: 1, Difficulty: 2, QuestionCount: 10},
		{ID: 2, SubjectID: 1, Difficulty: 2, QuestionCount: 10},
	})
	if len(req.Calendar) != 29 {
		t.Fatalf("calendar length = %d, want 29", len(req.Calendar))
	}

	res := NewBuilder(DefaultConfig()).Build(req)

	kinds := make(map[int64][]plan.Kind)
	rehearsals := 0
	for _, s := range res.Sessions {
		if s.TopicID == nil {
			rehearsals++
			continue
		}
		kinds[*s.TopicID] = append(kinds[*s.TopicID], s.Kind)
	}

	for _, id := range []int64{1, 2} {
		got := fmt.Sprint(kinds[id])
		want := "[NewTopic Review3d Review7d Review15d]"
		if got != want {
			t.Errorf("topic %d kinds = %s, want %s", id, got, want)
		}
		if day := res.FirstStudy[id]; day >= 20 {
			t.Errorf("topic %d first studied at index %d, outside the learning window", id, day)
		}
	}
	if rehearsals != 4 {
		t.Errorf("rehearsals = %d, want 4", rehearsals)
	}
	if len(res.Sessions) != 12 {
		t.Errorf("total sessions = %d, want 12", len(res.Sessions))
	}
	if res.Coverage != 1 {
		t.Errorf("coverage = %v, want 1", res.Coverage)
	}
}

func TestBuild_RehearsalKindsAndPriority(t *testing.T) {
	p := scenarioPlan()
	res := NewBuilder(DefaultConfig()).Build(scenarioRequest(p, manyTopics(3)))

	var got []plan.Kind
	for _, s := range res.Sessions {
		if s.Kind.IsRehearsal() {
			got = append(got, s.Kind)
			if s.Priority != 100 {
				t.Errorf("rehearsal priority = %v, want 100", s.Priority)
			}
			if s.DurationMinutes != 240 {
				t.Errorf("rehearsal duration = %d, want 240", s.DurationMinutes)
			}
		}
	}
	want := "[TargetedRehearsal TargetedRehearsal FullRehearsal FullRehearsal]"
	if fmt.Sprint(got) != want {
		t.Errorf("rehearsals = %v, want %s", got, want)
	}
}

func TestBuild_CapacityAndExamCeiling(t *testing.T) {
	p := scenarioPlan()
	cfg := DefaultConfig()
	res := NewBuilder(cfg).Build(scenarioRequest(p, manyTopics(200)))

	for date, n := range DailyLoad(res.Sessions) {
		if n > cfg.DailyCap {
			t.Errorf("%s holds %d sessions, cap is %d", plan.FormatDate(date), n, cfg.DailyCap)
		}
		if date.After(p.ExamDate) {
			t.Errorf("session dated %s after exam", plan.FormatDate(date))
		}
	}
	if res.Coverage <= 0 || res.Coverage >= 1 {
		t.Errorf("coverage = %v, want within (0, 1) for an overflowing syllabus", res.Coverage)
	}
	if got := len(res.FirstStudy) + len(res.Unplaced); got != 200 {
		t.Errorf("placed + unplaced = %d, want 200", got)
	}
	// 20 learning days of 6, less the two rehearsal slots held inside them.
	if res.Slots != 118 || len(res.FirstStudy) != res.Slots {
		t.Errorf("slots = %d, placed = %d, want 118 both", res.Slots, len(res.FirstStudy))
	}
	for _, s := range res.Sessions {
		if s.Kind.IsRehearsal() {
			return
		}
	}
	t.Error("rehearsals crowded out by a full calendar")
}

func TestBuild_ReviewOffsetsAreCalendarIndexes(t *testing.T) {
	p := scenarioPlan()
	req := scenarioRequest(p, manyTopics(40))
	res := NewBuilder(DefaultConfig()).Build(req)
	index := calendarIndex(req.Calendar)

	for _, s := range res.Sessions {
		off, ok := s.Kind.ReviewOffset()
		if !ok {
			continue
		}
		first, ok := res.FirstStudy[*s.TopicID]
		if !ok {
			t.Fatalf("review for unplaced topic %d", *s.TopicID)
		}
		if got := index[s.Date]; got != first+off {
			t.Errorf("topic %d %s at index %d, want %d", *s.TopicID, s.Kind, got, first+off)
		}
	}
}

func TestBuild_NewTopicUniquePerTopic(t *testing.T) {
	p := scenarioPlan()
	res := NewBuilder(DefaultConfig()).Build(scenarioRequest(p, manyTopics(80)))
	seen := make(map[int64]bool)
	for _, s := range res.Sessions {
		if s.Kind != plan.KindNewTopic {
			continue
		}
		if seen[*s.TopicID] {
			t.Errorf("topic %d has two NewTopic sessions", *s.TopicID)
		}
		seen[*s.TopicID] = true
	}
}

func TestBuild_SortedByDateThenPriority(t *testing.T) {
	p := scenarioPlan()
	res := NewBuilder(DefaultConfig()).Build(scenarioRequest(p, manyTopics(60)))
	for i := 1; i < len(res.Sessions); i++ {
		prev, cur := res.Sessions[i-1], res.Sessions[i]
		if cur.Date.Before(prev.Date) {
			t.Fatalf("session %d dated before its predecessor", i)
		}
		if cur.Date.Equal(prev.Date) && cur.Priority > prev.Priority {
			t.Fatalf("session %d outranks its predecessor on the same date", i)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	p := scenarioPlan()
	b := NewBuilder(DefaultConfig())
	first := b.Build(scenarioRequest(p, manyTopics(120)))
	second := b.Build(scenarioRequest(p, manyTopics(120)))

	if len(first.Sessions) != len(second.Sessions) || first.Coverage != second.Coverage {
		t.Fatalf("regeneration differs: %d/%v vs %d/%v",
			len(first.Sessions), first.Coverage, len(second.Sessions), second.Coverage)
	}
	for i := range first.Sessions {
		a, b := first.Sessions[i], second.Sessions[i]
		if !a.Date.Equal(b.Date) || a.Kind != b.Kind || *ptrOrZero(a.TopicID) != *ptrOrZero(b.TopicID) {
			t.Fatalf("session %d differs between runs", i)
		}
	}
}

func TestBuild_RespectsExistingLoad(t *testing.T) {
	p := scenarioPlan()
	req := scenarioRequest(p, manyTopics(1))
	cfg := DefaultConfig()
	req.Load = map[time.Time]int{req.Calendar[0]: cfg.DailyCap}

	res := NewBuilder(cfg).Build(req)
	if res.FirstStudy[1] != 1 {
		t.Errorf("first study index = %d, want 1 (day 0 is full)", res.FirstStudy[1])
	}
}

func TestBuild_EmptyCalendar(t *testing.T) {
	p := scenarioPlan()
	req := scenarioRequest(p, manyTopics(3))
	req.Calendar = nil

	res := NewBuilder(DefaultConfig()).Build(req)
	if len(res.Sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(res.Sessions))
	}
	if len(res.Unplaced) != 3 {
		t.Errorf("unplaced = %d, want 3", len(res.Unplaced))
	}
}

func TestCoverage(t *testing.T) {
	sessions := []plan.Session{
		{Kind: plan.KindNewTopic, TopicID: plan.TopicRef(1)},
		{Kind: plan.ReviewKind(3), TopicID: plan.TopicRef(2)},
		{Kind: plan.KindNewTopic, TopicID: plan.TopicRef(1)},
		{Kind: plan.KindFullRehearsal},
	}
	if got := Coverage(sessions, 4); got != 0.25 {
		t.Errorf("Coverage() = %v, want 0.25", got)
	}
	if got := Coverage(sessions, 0); got != 0 {
		t.Errorf("Coverage() with no topics = %v, want 0", got)
	}
}

func ptrOrZero(p *int64) *int64 {
	if p == nil {
		var zero int64
		return &zero
	}
	return p
}

func TestExclusions(t *testing.T) {
	p := scenarioPlan()
	cfg := DefaultConfig()
	req := scenarioRequest(p, manyTopics(130))
	res := NewBuilder(cfg).Build(req)
	if !res.Infeasible() {
		t.Fatal("Infeasible = false for 130 topics over 118 slots")
	}

	at := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	excl := Exclusions(p, res.Unplaced, req.Subjects, at)
	if len(excl) != 12 {
		t.Fatalf("exclusions = %d, want 12", len(excl))
	}
	lowestPlaced := req.Topics[res.Slots-1].CalculatedPriority
	for i, e := range excl {
		u := res.Unplaced[i]
		if e.TopicID != u.ID || e.SubjectID != 1 || e.PlanID != p.ID || !e.CreatedAt.Equal(at) {
			t.Errorf("exclusion %d = %+v, want topic %d of plan %d", i, e, u.ID, p.ID)
		}
		if e.Priority > lowestPlaced {
			t.Errorf("excluded %s has priority %v above placed %v", u.Name, e.Priority, lowestPlaced)
		}
		if !strings.Contains(e.Reason, "Math - "+u.Name) {
			t.Errorf("reason %q does not name %s", e.Reason, u.Name)
		}
	}
}

func TestInfeasibleFalseWhenEverythingFits(t *testing.T) {
	res := NewBuilder(DefaultConfig()).Build(scenarioRequest(scenarioPlan(), manyTopics(5)))
	if res.Infeasible() {
		t.Errorf("Infeasible = true with %d slots for 5 topics", res.Slots)
	}
}
