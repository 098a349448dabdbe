package session

import (
	"math"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/scheduler"
)

// Recommendation texts returned by Analyze.
const (
	RecommendHigh     = "High postponement rate: reduce the daily load or adjust your study days"
	RecommendModerate = "Moderate postponement rate: try to keep a consistent routine"
	RecommendGood     = "Good consistency: keep it up"
)

// Analysis summarizes how often a plan's sessions get postponed.
type Analysis struct {
	// Postponements counts sessions postponed at least once.
	Postponements  int
	TotalSessions  int
	Rate           int // percent, rounded
	Recommendation string
}

// Result describes a successful postponement.
type Result struct {
	SessionID         string
	PreviousDate      time.Time
	NewDate           time.Time
	PostponementCount int
	CanPostpone       bool
	Analysis          Analysis
}

// Postponer moves single sessions to later study days.
type Postponer struct {
	cfg Config
}

// NewPostponer creates a Postponer with the given rules.
func NewPostponer(cfg Config) *Postponer {
	return &Postponer{cfg: cfg}
}

// Config returns the postponement rules.
func (p *Postponer) Config() Config {
	return p.cfg
}

// Postpone moves s to a later study day of pl. The candidate date is the
// request's target, or the day after the session's date, advanced until it
// falls on a study weekday with spare capacity in load (sessions per date,
// not counting s). Moving past the exam date is an InvalidTransition.
//
// On success s and pl are updated in place. others are the plan's other
// sessions, analyzed together with s for the postponement rate.
func (p *Postponer) Postpone(pl *plan.Plan, s *plan.Session, req Request, load map[time.Time]int, others []plan.Session) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.IsCompleted() {
		return nil, &plan.TransitionError{SessionID: s.ID, Op: "postpone", Reason: "session is already completed"}
	}

	from := plan.Day(s.Date)
	candidate := plan.AddDays(from, 1)
	if req.Target != "" {
		target, err := plan.ParseDate(req.Target)
		if err != nil {
			return nil, err
		}
		if !target.After(from) {
			return nil, &plan.ValidationError{
				Field:  "target",
				Value:  req.Target,
				Reason: "must be after the session date " + plan.FormatDate(from),
			}
		}
		candidate = plan.Day(target)
	}

	newDate, ok := p.nextFreeDay(candidate, pl, load)
	if !ok {
		return nil, &plan.TransitionError{
			SessionID: s.ID,
			Op:        "postpone",
			Reason:    "no study day with free capacity before the exam on " + plan.FormatDate(pl.ExamDate),
		}
	}

	s.Date = newDate
	s.Postponements++
	s.PostponeReason = req.Reason
	s.Priority += p.cfg.PriorityBoost
	pl.Postponements++

	return &Result{
		SessionID:         s.ID,
		PreviousDate:      from,
		NewDate:           newDate,
		PostponementCount: s.Postponements,
		CanPostpone:       p.CanPostpone(s),
		Analysis:          p.AnalyzeSessions(append([]plan.Session{*s}, others...)),
	}, nil
}

func (p *Postponer) nextFreeDay(d time.Time, pl *plan.Plan, load map[time.Time]int) (time.Time, bool) {
	exam := plan.Day(pl.ExamDate)
	for ; !d.After(exam); d = plan.AddDays(d, 1) {
		if !scheduler.IsStudyDay(d, pl.DaysPerWeek) {
			continue
		}
		if p.cfg.DailyCap > 0 && load[d] >= p.cfg.DailyCap {
			continue
		}
		return d, true
	}
	return time.Time{}, false
}

// CanPostpone reports whether s is still under the postponement limit.
func (p *Postponer) CanPostpone(s *plan.Session) bool {
	return s.Postponements < p.cfg.MaxPostponements
}

// AnalyzeSessions computes the postponement rate over a plan's current
// sessions.
func (p *Postponer) AnalyzeSessions(sessions []plan.Session) Analysis {
	postponed := 0
	for _, s := range sessions {
		if s.Postponements > 0 {
			postponed++
		}
	}
	return p.Analyze(postponed, len(sessions))
}

// Analyze computes the postponement rate from the number of postponed
// sessions and picks a recommendation.
func (p *Postponer) Analyze(postponements, totalSessions int) Analysis {
	a := Analysis{Postponements: postponements, TotalSessions: totalSessions}
	var rate float64
	if totalSessions > 0 {
		rate = float64(postponements) / float64(totalSessions) * 100
	}
	a.Rate = int(math.Round(rate))
	switch {
	case rate > p.cfg.HighRate:
		a.Recommendation = RecommendHigh
	case rate > p.cfg.ModerateRate:
		a.Recommendation = RecommendModerate
	default:
		a.Recommendation = RecommendGood
	}
	return a
}
