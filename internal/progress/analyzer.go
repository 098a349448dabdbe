package progress

import (
	"sort"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
)

// Report is the analyzer's view of a plan on a given day.
type Report struct {
	Today time.Time

	TotalTopics     int
	CompletedTopics int

	// CompletedTopicIDs holds topics with a completed NewTopic session.
	CompletedTopicIDs map[int64]bool

	TotalSessions     int
	PendingSessions   int
	CompletedSessions int

	// Overdue holds pending sessions dated before Today, oldest first.
	Overdue []plan.Session

	ProgressPercentage float64
	BehindSchedule     bool

	DaysSinceStart int
	DaysUntilExam  int

	// CurrentPace and RequiredPace are in topics per day.
	CurrentPace  float64
	RequiredPace float64
	OnTrack      bool
}

// OverdueCount returns the number of overdue sessions.
func (r *Report) OverdueCount() int {
	return len(r.Overdue)
}

// RemainingTopics returns the number of topics not yet completed.
func (r *Report) RemainingTopics() int {
	return r.TotalTopics - r.CompletedTopics
}

// Analyze classifies a plan's sessions and computes its progress and pace.
func Analyze(p *plan.Plan, topics []plan.Topic, sessions []plan.Session, today time.Time) *Report {
	today = plan.Day(today)
	r := &Report{
		Today:             today,
		TotalTopics:       len(topics),
		CompletedTopicIDs: make(map[int64]bool),
		TotalSessions:     len(sessions),
	}

	for _, s := range sessions {
		switch {
		case s.IsCompleted():
			r.CompletedSessions++
			if s.Kind == plan.KindNewTopic && s.TopicID != nil {
				r.CompletedTopicIDs[*s.TopicID] = true
			}
		default:
			r.PendingSessions++
			if s.IsOverdue(today) {
				r.Overdue = append(r.Overdue, s)
			}
		}
	}
	sort.SliceStable(r.Overdue, func(i, j int) bool {
		return r.Overdue[i].Date.Before(r.Overdue[j].Date)
	})

	r.CompletedTopics = len(r.CompletedTopicIDs)
	if r.TotalTopics > 0 {
		r.ProgressPercentage = float64(r.CompletedTopics) / float64(r.TotalTopics) * 100
	}
	r.BehindSchedule = len(r.Overdue) > 0

	r.DaysSinceStart = max(1, plan.DaysBetween(p.CreatedAt, today))
	r.DaysUntilExam = plan.DaysBetween(today, p.ExamDate)
	r.CurrentPace = float64(r.CompletedTopics) / float64(r.DaysSinceStart)
	remaining := float64(r.RemainingTopics())
	if r.DaysUntilExam > 0 {
		r.RequiredPace = remaining / float64(r.DaysUntilExam)
	} else {
		r.RequiredPace = remaining
	}
	r.OnTrack = r.CurrentPace >= r.RequiredPace
	return r
}
