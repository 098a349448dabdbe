package scheduler

import (
	"fmt"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
)

// Infeasible reports whether the syllabus overflowed the learning window.
func (r *Result) Infeasible() bool {
	return len(r.Unplaced) > 0
}

// Exclusions turns the unplaced topics of a final-stretch run into
// exclusion records, highest priority first.
func Exclusions(p *plan.Plan, unplaced []plan.Topic, subjects []plan.Subject, at time.Time) []plan.Exclusion {
	names := make(map[int64]string, len(subjects))
	for _, s := range subjects {
		names[s.ID] = s.Name
	}
	out := make([]plan.Exclusion, 0, len(unplaced))
	for _, t := range unplaced {
		out = append(out, plan.Exclusion{
			PlanID:    p.ID,
			TopicID:   t.ID,
			SubjectID: t.SubjectID,
			Priority:  t.CalculatedPriority,
			Reason: fmt.Sprintf("%s - %s left out in final stretch mode for lack of time (priority %.2f)",
				names[t.SubjectID], t.Name, t.CalculatedPriority),
			CreatedAt: at,
		})
	}
	return out
}

// InfeasibleMessage explains an overflowing syllabus to the plan owner.
func InfeasibleMessage(topics, slots int) string {
	return fmt.Sprintf("schedule infeasible: %d topics for %d study slots; enable final stretch mode to keep the highest-priority topics",
		topics, slots)
}
