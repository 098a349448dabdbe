package progress

import (
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
)

func reviewOn(id string, topic int64, d time.Time, priority float64) plan.Session {
	return plan.Session{
		ID:              id,
		PlanID:          1,
		TopicID:         plan.TopicRef(topic),
		Subject:         "Math",
		Date:            d,
		Kind:            plan.ReviewKind(3),
		Status:          plan.StatusPending,
		DurationMinutes: 20,
		Priority:        priority,
	}
}

// conflictedSchedule holds one overloaded day, one duplicated topic and one
// gap:
//
//	Feb 4:  a1 (topic 1) + seven reviews of topic 2
//	Feb 11: a2, a second NewTopic of topic 1
//	Feb 25: b1 (topic 2), 14 days after Feb 11
func conflictedSchedule() []plan.Session {
	feb4 := plan.AddDays(monday, 1)
	sessions := []plan.Session{newTopicOn("a1", 1, feb4, plan.StatusPending)}
	for i := 1; i <= 7; i++ {
		sessions = append(sessions, reviewOn(fmt.Sprintf("r%d", i), 2, feb4, float64(i*10)))
	}
	return append(sessions,
		newTopicOn("a2", 1, plan.AddDays(monday, 8), plan.StatusPending),
		newTopicOn("b1", 2, plan.AddDays(monday, 22), plan.StatusPending),
	)
}

func TestDetectConflicts(t *testing.T) {
	c := DefaultConfig().DetectConflicts(fixturePlan(), conflictedSchedule())

	if c.Total() != 3 || !c.Critical() {
		t.Fatalf("total = %d critical = %v, want 3 true", c.Total(), c.Critical())
	}
	o := c.Overloaded[0]
	if !o.Date.Equal(plan.AddDays(monday, 1)) || o.Sessions != 8 || o.Minutes != 200 || o.Severity != SeverityWarning {
		t.Errorf("overloaded = %+v, want Feb 4 with 8 sessions, 200 minutes, warning", o)
	}
	d := c.Duplicates[0]
	if d.TopicID != 1 || len(d.Sessions) != 2 || d.Sessions[0].ID != "a1" || d.Subject != "Math" {
		t.Errorf("duplicate = %+v, want topic 1 with a1 first", d)
	}
	g := c.Gaps[0]
	if g.Days != 14 || g.Severity != SeverityWarning || !g.From.Equal(plan.AddDays(monday, 8)) {
		t.Errorf("gap = %+v, want 14 days from Feb 11, warning", g)
	}
}

func TestDetectConflictsMinuteOverload(t *testing.T) {
	d := plan.AddDays(monday, 1)
	var sessions []plan.Session
	for i := 1; i <= 3; i++ {
		s := newTopicOn(fmt.Sprintf("n%d", i), int64(i), d, plan.StatusPending)
		s.DurationMinutes = 130
		sessions = append(sessions, s)
	}

	c := DefaultConfig().DetectConflicts(fixturePlan(), sessions)
	if len(c.Overloaded) != 1 {
		t.Fatalf("overloaded = %d, want 1", len(c.Overloaded))
	}
	// 390 minutes against 240: above 1.5x the daily time.
	if c.Overloaded[0].Minutes != 390 || c.Overloaded[0].Severity != SeverityCritical {
		t.Errorf("overloaded = %+v, want 390 minutes, critical", c.Overloaded[0])
	}
}

func TestDetectConflictsClean(t *testing.T) {
	sessions := []plan.Session{
		newTopicOn("a", 1, plan.AddDays(monday, 1), plan.StatusPending),
		newTopicOn("b", 2, plan.AddDays(monday, 2), plan.StatusPending),
	}
	if c := DefaultConfig().DetectConflicts(fixturePlan(), sessions); c.Total() != 0 {
		t.Errorf("conflicts = %+v, want none", c)
	}
}

func TestResolveConflicts(t *testing.T) {
	r := newReplanner()
	p := fixturePlan()

	res := r.ResolveConflicts(p, conflictedSchedule(), monday)

	if len(res.Deleted) != 1 || res.Deleted[0].ID != "a2" {
		t.Errorf("deleted = %v, want [a2]", ids(res.Deleted))
	}
	if len(res.Updated) != 2 {
		t.Fatalf("updated = %v, want the two lowest-priority reviews", ids(res.Updated))
	}
	feb5 := plan.AddDays(monday, 2)
	for _, u := range res.Updated {
		if u.ID != "r1" && u.ID != "r2" {
			t.Errorf("moved %s, want r1 and r2", u.ID)
		}
		if !u.Date.Equal(feb5) {
			t.Errorf("%s moved to %s, want %s", u.ID, plan.FormatDate(u.Date), plan.FormatDate(feb5))
		}
	}
	if len(res.Unresolved) != 0 {
		t.Errorf("unresolved = %v, want none", res.Unresolved)
	}

	after := r.Config().DetectConflicts(p, res.Schedule)
	if len(after.Overloaded) != 0 || len(after.Duplicates) != 0 {
		t.Errorf("after resolution: %+v", after)
	}
	if len(after.Gaps) != 1 || after.Gaps[0].Severity != SeverityCritical {
		t.Errorf("gaps = %+v, want the widened gap reported as critical", after.Gaps)
	}
}

func TestResolveConflictsKeepsCompletedDuplicate(t *testing.T) {
	sessions := []plan.Session{
		newTopicOn("early", 1, plan.AddDays(monday, 1), plan.StatusPending),
		newTopicOn("done", 1, plan.AddDays(monday, 3), plan.StatusCompleted),
		newTopicOn("late", 1, plan.AddDays(monday, 5), plan.StatusPending),
	}

	res := newReplanner().ResolveConflicts(fixturePlan(), sessions, monday)

	if got := ids(res.Deleted); len(got) != 2 || got[0] != "early" || got[1] != "late" {
		t.Errorf("deleted = %v, want [early late]", got)
	}
	if len(res.Schedule) != 1 || res.Schedule[0].ID != "done" {
		t.Errorf("schedule = %v, want [done]", ids(res.Schedule))
	}
}

func TestResolveConflictsLeavesFirstStudyInPlace(t *testing.T) {
	d := plan.AddDays(monday, 1)
	var sessions []plan.Session
	for i := 1; i <= 8; i++ {
		s := newTopicOn(fmt.Sprintf("n%d", i), int64(i), d, plan.StatusPending)
		s.DurationMinutes = 20
		sessions = append(sessions, s)
	}

	res := newReplanner().ResolveConflicts(fixturePlan(), sessions, monday)

	if !res.Empty() {
		t.Errorf("changes = %v deleted, %v updated, want none", ids(res.Deleted), ids(res.Updated))
	}
	if len(res.Unresolved) != 1 || !res.Unresolved[0].Equal(d) {
		t.Errorf("unresolved = %v, want [%s]", res.Unresolved, plan.FormatDate(d))
	}
}

func TestResolveConflictsStopsAtExam(t *testing.T) {
	p := fixturePlan()
	eve := plan.AddDays(p.ExamDate, -1)
	var sessions []plan.Session
	for i := 1; i <= 8; i++ {
		sessions = append(sessions, reviewOn(fmt.Sprintf("r%d", i), 1, eve, float64(i)))
	}

	res := newReplanner().ResolveConflicts(p, sessions, monday)

	if len(res.Updated) != 0 {
		t.Errorf("moved %v past the exam eve", ids(res.Updated))
	}
	if len(res.Unresolved) != 1 {
		t.Errorf("unresolved = %v, want the exam eve", res.Unresolved)
	}
}

func ids(sessions []plan.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}
