package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/progress"
	"github.com/abhisek/studyplan/internal/scheduler"
	"github.com/abhisek/studyplan/internal/store"
)

// GenerateOptions tune schedule generation.
type GenerateOptions struct {
	// SkipRehearsals leaves out the rehearsal phase.
	SkipRehearsals bool

	// FinalStretch keeps the highest-priority topics when the syllabus
	// overflows the learning window and records the rest as exclusions.
	FinalStretch bool
}

// GenerateResult is the outcome of GenerateSchedule.
type GenerateResult struct {
	TotalSessions int
	StudyDays     int
	Coverage      float64
	Schedule      []plan.Session

	// Topics is the number of topics in the plan's syllabus.
	Topics int

	// Slots is the number of NewTopic places the learning window offered.
	Slots int

	// Unplaced lists topics that did not fit the learning window.
	Unplaced []plan.Topic

	// Infeasible is set when topics outnumber slots.
	Infeasible bool

	// Excluded holds the exclusions recorded in final stretch mode.
	Excluded []plan.Exclusion

	// Replaced is the number of sessions the new schedule replaced.
	Replaced int64
}

// GenerateSchedule builds a fresh schedule for a plan and atomically
// replaces its sessions, completed ones included. The plan's exclusions are
// replaced in the same transaction: cleared when everything fits or final
// stretch mode is off.
func (s *Service) GenerateSchedule(ctx context.Context, planID, userID int64, opts GenerateOptions) (*GenerateResult, error) {
	today := s.Today()
	var res *GenerateResult
	err := s.st.Tx(ctx, func(r store.Repository) error {
		p, err := r.GetPlan(ctx, planID, userID)
		if err != nil {
			return err
		}
		subjects, err := r.SubjectsByPlan(ctx, planID)
		if err != nil {
			return err
		}
		if len(subjects) == 0 {
			return &plan.PreconditionError{PlanID: planID, Reason: "no subjects"}
		}
		topics, err := r.TopicsByPlan(ctx, planID)
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			return &plan.PreconditionError{PlanID: planID, Reason: "no topics"}
		}
		calendar := scheduler.BuildCalendar(today, p.ExamDate, p.DaysPerWeek)
		if len(calendar) == 0 {
			return &plan.PreconditionError{PlanID: planID, Reason: "calendar window too short"}
		}

		built := s.builder.Build(scheduler.Request{
			Plan:       p,
			Subjects:   subjects,
			Topics:     scheduler.Prioritize(topics, subjects, s.builder.Config().Defaults),
			Calendar:   calendar,
			Rehearsals: !opts.SkipRehearsals,
		})

		replaced, err := r.DeleteSessionsByPlan(ctx, planID)
		if err != nil {
			return err
		}
		if err := r.CreateSessions(ctx, built.Sessions); err != nil {
			return err
		}
		var excluded []plan.Exclusion
		if opts.FinalStretch && built.Infeasible() {
			excluded = scheduler.Exclusions(p, built.Unplaced, subjects, s.now())
		}
		if err := r.ReplaceExclusions(ctx, planID, excluded); err != nil {
			return err
		}
		res = &GenerateResult{
			TotalSessions: len(built.Sessions),
			StudyDays:     built.StudyDays,
			Coverage:      built.Coverage,
			Schedule:      built.Sessions,
			Topics:        len(topics),
			Slots:         built.Slots,
			Unplaced:      built.Unplaced,
			Infeasible:    built.Infeasible(),
			Excluded:      excluded,
			Replaced:      replaced,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case res.Infeasible && !opts.FinalStretch:
		s.log.Warn(scheduler.InfeasibleMessage(res.Topics, res.Slots),
			"plan_id", planID, "coverage", res.Coverage, "unplaced", len(res.Unplaced))
	case res.Infeasible:
		s.log.Warn("final stretch excluded topics",
			"plan_id", planID, "excluded", len(res.Excluded), "slots", res.Slots)
	}
	s.notify(ctx, Event{Kind: EventGenerated, PlanID: planID, Count: res.TotalSessions,
		Attrs: []slog.Attr{
			slog.Int("study_days", res.StudyDays),
			slog.Float64("coverage", res.Coverage),
			slog.Int("excluded", len(res.Excluded)),
		}})
	return res, nil
}

// Exclusions lists the topics the last final-stretch generation left out.
func (s *Service) Exclusions(ctx context.Context, planID, userID int64) ([]plan.Exclusion, error) {
	if _, err := s.st.GetPlan(ctx, planID, userID); err != nil {
		return nil, err
	}
	return s.st.ExclusionsByPlan(ctx, planID)
}

// Day is one date of a schedule.
type Day struct {
	Date     time.Time
	Sessions []plan.Session
}

// Schedule lists a plan's sessions grouped by date, optionally limited to
// [from, to]. Zero bounds are open.
func (s *Service) Schedule(ctx context.Context, planID, userID int64, from, to time.Time) ([]Day, error) {
	if _, err := s.st.GetPlan(ctx, planID, userID); err != nil {
		return nil, err
	}
	sessions, err := s.st.SessionsByPlan(ctx, planID, store.SessionFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	return GroupByDate(sessions), nil
}

// GroupByDate groups date-ordered sessions into days.
func GroupByDate(sessions []plan.Session) []Day {
	var days []Day
	for _, ss := range sessions {
		d := plan.Day(ss.Date)
		if n := len(days); n == 0 || !days[n-1].Date.Equal(d) {
			days = append(days, Day{Date: d})
		}
		days[len(days)-1].Sessions = append(days[len(days)-1].Sessions, ss)
	}
	return days
}

// OverdueReport is the outcome of CheckOverdue.
type OverdueReport struct {
	Count           int
	Sessions        []plan.Session
	NeedsReplanning bool

	// Strategy is what a replan without a priority change would do.
	Strategy progress.Strategy
}

// CheckOverdue reports a plan's overdue sessions.
func (s *Service) CheckOverdue(ctx context.Context, planID, userID int64) (*OverdueReport, error) {
	p, err := s.st.GetPlan(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.st.SessionsByPlan(ctx, planID, store.SessionFilter{Status: plan.StatusPending})
	if err != nil {
		return nil, err
	}
	report := progress.Analyze(p, nil, sessions, s.Today())
	return &OverdueReport{
		Count:           report.OverdueCount(),
		Sessions:        report.Overdue,
		NeedsReplanning: report.BehindSchedule,
		Strategy:        s.replanner.Config().Choose(report, progress.Options{}),
	}, nil
}

// Progress returns the analyzer report for a plan.
func (s *Service) Progress(ctx context.Context, planID, userID int64) (*progress.Report, error) {
	p, err := s.st.GetPlan(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	topics, err := s.st.TopicsByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.st.SessionsByPlan(ctx, planID, store.SessionFilter{})
	if err != nil {
		return nil, err
	}
	return progress.Analyze(p, topics, sessions, s.Today()), nil
}
