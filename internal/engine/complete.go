package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/session"
	"github.com/abhisek/studyplan/internal/spacedrep"
	"github.com/abhisek/studyplan/internal/store"
)

// CompleteResult is the outcome of CompleteSession.
type CompleteResult struct {
	Session *plan.Session

	// Reinforcement is set for NewTopic sessions.
	Reinforcement *ReinforceResult
}

// ReinforceResult describes the reviews scheduled after a completion.
type ReinforceResult struct {
	Score    float64
	Tier     spacedrep.Tier
	Sessions []plan.Session

	// Skipped holds interval days that fell after the exam or on a full day.
	Skipped []int
}

// CompleteSession records completion metrics on a pending session. A
// completed NewTopic session gets its spaced reviews scheduled in the same
// transaction.
func (s *Service) CompleteSession(ctx context.Context, planID, userID int64, sessionID string, d spacedrep.Completion) (*CompleteResult, error) {
	if err := session.ValidateCompletion(d); err != nil {
		return nil, err
	}
	res := &CompleteResult{}
	err := s.st.Tx(ctx, func(r store.Repository) error {
		p, err := r.GetPlan(ctx, planID, userID)
		if err != nil {
			return err
		}
		ss, err := r.GetSession(ctx, planID, sessionID)
		if err != nil {
			return err
		}
		if ss.IsCompleted() {
			return &plan.TransitionError{SessionID: ss.ID, Op: "complete", Reason: "session is already completed"}
		}

		ss.Status = plan.StatusCompleted
		ss.TimeStudiedSeconds = d.TimeStudiedSeconds
		ss.QuestionsSolved = d.QuestionsSolved
		ss.QuestionsCorrect = d.QuestionsCorrect
		ss.Confidence = d.ConfidenceRating
		ss.DifficultyRating = d.DifficultyRating
		ss.CompletedAt = s.now()
		if err := r.UpdateSession(ctx, *ss); err != nil {
			return err
		}
		res.Session = ss

		if ss.Kind == plan.KindNewTopic {
			res.Reinforcement, err = s.scheduleReviews(ctx, r, p, ss, d)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, Event{Kind: EventCompleted, PlanID: planID, SessionID: sessionID, Count: 1,
		Attrs: []slog.Attr{
			slog.String("kind", string(res.Session.Kind)),
			slog.Int("time_studied_seconds", d.TimeStudiedSeconds),
		}})
	if res.Reinforcement != nil {
		s.notifyReviews(ctx, planID, sessionID, res.Reinforcement)
	}
	return res, nil
}

// ReinforceAfterCompletion schedules spaced reviews for a completed
// NewTopic session whose completion has not produced reviews yet.
func (s *Service) ReinforceAfterCompletion(ctx context.Context, planID, userID int64, sessionID string, d spacedrep.Completion) (*ReinforceResult, error) {
	if err := session.ValidateCompletion(d); err != nil {
		return nil, err
	}
	var res *ReinforceResult
	err := s.st.Tx(ctx, func(r store.Repository) error {
		p, err := r.GetPlan(ctx, planID, userID)
		if err != nil {
			return err
		}
		ss, err := r.GetSession(ctx, planID, sessionID)
		if err != nil {
			return err
		}
		switch {
		case !ss.IsCompleted():
			return &plan.TransitionError{SessionID: ss.ID, Op: "reinforce", Reason: "session is not completed"}
		case ss.Kind != plan.KindNewTopic:
			return &plan.TransitionError{SessionID: ss.ID, Op: "reinforce", Reason: "only NewTopic sessions get spaced reviews, not " + string(ss.Kind)}
		case ss.ReviewsScheduled:
			return &plan.TransitionError{SessionID: ss.ID, Op: "reinforce", Reason: "reviews already scheduled"}
		}
		res, err = s.scheduleReviews(ctx, r, p, ss, d)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifyReviews(ctx, planID, sessionID, res)
	return res, nil
}

// scheduleReviews inserts the reviews of a completed session, skipping
// intervals whose date is already at the daily cap, and marks ss when any
// review was created.
func (s *Service) scheduleReviews(ctx context.Context, r store.Repository, p *plan.Plan, ss *plan.Session, d spacedrep.Completion) (*ReinforceResult, error) {
	rp := s.reinforcer.Reviews(*ss, d, p.ExamDate)
	res := &ReinforceResult{Score: rp.Score, Tier: rp.Tier, Skipped: rp.Skipped}

	dailyCap := s.builder.Config().DailyCap
	for _, rev := range rp.Sessions {
		n, err := r.CountSessionsOn(ctx, p.ID, rev.Date)
		if err != nil {
			return nil, err
		}
		if dailyCap > 0 && n >= dailyCap {
			offset, _ := rev.Kind.ReviewOffset()
			res.Skipped = append(res.Skipped, offset)
			continue
		}
		if err := r.CreateSessions(ctx, []plan.Session{rev}); err != nil {
			return nil, err
		}
		res.Sessions = append(res.Sessions, rev)
	}
	if len(res.Sessions) > 0 {
		ss.ReviewsScheduled = true
		if err := r.UpdateSession(ctx, *ss); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *Service) notifyReviews(ctx context.Context, planID int64, sessionID string, res *ReinforceResult) {
	s.notify(ctx, Event{Kind: EventReinforced, PlanID: planID, SessionID: sessionID, Count: len(res.Sessions),
		Attrs: []slog.Attr{
			slog.String("tier", string(res.Tier)),
			slog.Float64("score", res.Score),
			slog.Int("skipped", len(res.Skipped)),
		}})
}

// Reinforce adds one manual reinforcement session for a completed session,
// on the first day from tomorrow with free capacity, no later than the exam.
func (s *Service) Reinforce(ctx context.Context, planID, userID int64, sessionID string) (*plan.Session, error) {
	today := s.Today()
	var out plan.Session
	err := s.st.Tx(ctx, func(r store.Repository) error {
		p, err := r.GetPlan(ctx, planID, userID)
		if err != nil {
			return err
		}
		ss, err := r.GetSession(ctx, planID, sessionID)
		if err != nil {
			return err
		}
		if !ss.IsCompleted() {
			return &plan.TransitionError{SessionID: ss.ID, Op: "reinforce", Reason: "session is not completed"}
		}

		out = s.reinforcer.Reinforcement(*ss, today)
		date, err := s.freeDay(ctx, r, p, out.Date)
		if err != nil {
			return err
		}
		if date.IsZero() {
			return &plan.TransitionError{
				SessionID: ss.ID,
				Op:        "reinforce",
				Reason:    "no day with free capacity before the exam on " + plan.FormatDate(p.ExamDate),
			}
		}
		out.Date = date
		return r.CreateSessions(ctx, []plan.Session{out})
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, Event{Kind: EventManualReinforce, PlanID: planID, SessionID: sessionID, Count: 1,
		Attrs: []slog.Attr{slog.String("date", plan.FormatDate(out.Date))}})
	return &out, nil
}

// freeDay returns the first date from d through the exam date below the
// daily cap, or the zero time.
func (s *Service) freeDay(ctx context.Context, r store.Repository, p *plan.Plan, d time.Time) (time.Time, error) {
	dailyCap := s.builder.Config().DailyCap
	exam := plan.Day(p.ExamDate)
	for d = plan.Day(d); !d.After(exam); d = plan.AddDays(d, 1) {
		if dailyCap <= 0 {
			return d, nil
		}
		n, err := r.CountSessionsOn(ctx, p.ID, d)
		if err != nil {
			return time.Time{}, err
		}
		if n < dailyCap {
			return d, nil
		}
	}
	return time.Time{}, nil
}
