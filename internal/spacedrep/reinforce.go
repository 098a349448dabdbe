package spacedrep

import (
	"math"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/google/uuid"
)

// Scheduler emits follow-up reviews for completed sessions.
type Scheduler struct {
	cfg   Config
	newID func() string
}

// NewScheduler creates a Scheduler with the given configuration.
func NewScheduler(cfg Config) *Scheduler {
	return &Scheduler{cfg: cfg, newID: uuid.NewString}
}

// Plan is the outcome of a reinforcement decision.
type Plan struct {
	Score    float64
	Tier     Tier
	Sessions []plan.Session

	// Skipped lists interval days that would land after the exam date.
	Skipped []int
}

// Reviews builds the review sessions for a completed NewTopic session. One
// review per interval of the selected table, dated original date + days;
// intervals past the exam date are skipped.
func (s *Scheduler) Reviews(original plan.Session, d Completion, examDate time.Time) *Plan {
	score := s.cfg.PerformanceScore(d)
	tier := s.cfg.TierFor(score)
	out := &Plan{Score: score, Tier: tier}

	exam := plan.Day(examDate)
	for _, iv := range s.cfg.TableFor(tier) {
		date := plan.AddDays(original.Date, iv.Days)
		if date.After(exam) {
			out.Skipped = append(out.Skipped, iv.Days)
			continue
		}
		out.Sessions = append(out.Sessions, plan.Session{
			ID:              s.newID(),
			PlanID:          original.PlanID,
			TopicID:         original.TopicID,
			Subject:         original.Subject,
			Date:            date,
			Kind:            plan.ReviewKind(iv.Days),
			Status:          plan.StatusPending,
			DurationMinutes: s.minutes(original.DurationMinutes, iv.DurationFactor),
			Priority:        original.Priority * s.cfg.ReviewPriorityFactor,
		})
	}
	return out
}

// Reinforcement builds the single manual follow-up for a completed session:
// dated the day after today, half the original duration, priority +20.
func (s *Scheduler) Reinforcement(original plan.Session, today time.Time) plan.Session {
	return plan.Session{
		ID:              s.newID(),
		PlanID:          original.PlanID,
		TopicID:         original.TopicID,
		Subject:         original.Subject,
		Date:            plan.AddDays(today, 1),
		Kind:            plan.KindReinforcement,
		Status:          plan.StatusPending,
		DurationMinutes: s.minutes(original.DurationMinutes, 0.5),
		Priority:        original.Priority + 20,
	}
}

func (s *Scheduler) minutes(original int, factor float64) int {
	m := int(math.Floor(float64(original) * factor))
	if m < s.cfg.MinSessionMinutes {
		return s.cfg.MinSessionMinutes
	}
	return m
}
