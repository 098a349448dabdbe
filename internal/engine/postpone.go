package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/session"
	"github.com/abhisek/studyplan/internal/store"
)

// PostponeSession moves one pending session to a later study day with free
// capacity. An empty target means the day after the session's date.
func (s *Service) PostponeSession(ctx context.Context, planID, userID int64, sessionID string, req session.Request) (*session.Result, error) {
	var res *session.Result
	err := s.st.Tx(ctx, func(r store.Repository) error {
		p, err := r.GetPlan(ctx, planID, userID)
		if err != nil {
			return err
		}
		ss, err := r.GetSession(ctx, planID, sessionID)
		if err != nil {
			return err
		}
		all, err := r.SessionsByPlan(ctx, planID, store.SessionFilter{})
		if err != nil {
			return err
		}
		load := make(map[time.Time]int)
		var others []plan.Session
		for _, o := range all {
			if o.ID != ss.ID {
				load[plan.Day(o.Date)]++
				others = append(others, o)
			}
		}

		res, err = s.postponer.Postpone(p, ss, req, load, others)
		if err != nil {
			return err
		}
		if err := r.UpdateSession(ctx, *ss); err != nil {
			return err
		}
		return r.IncrementPlanPostponements(ctx, planID)
	})
	if err != nil {
		return nil, err
	}

	if !res.CanPostpone {
		s.log.Warn("session reached the postponement limit",
			"plan_id", planID, "session_id", sessionID, "postponements", res.PostponementCount)
	}
	s.notify(ctx, Event{Kind: EventPostponed, PlanID: planID, SessionID: sessionID, Count: 1,
		Attrs: []slog.Attr{
			slog.String("from", plan.FormatDate(res.PreviousDate)),
			slog.String("to", plan.FormatDate(res.NewDate)),
			slog.Int("rate", res.Analysis.Rate),
		}})
	return res, nil
}

// PostponementAnalysis reports the share of a plan's current sessions that
// were postponed.
func (s *Service) PostponementAnalysis(ctx context.Context, planID, userID int64) (session.Analysis, error) {
	if _, err := s.st.GetPlan(ctx, planID, userID); err != nil {
		return session.Analysis{}, err
	}
	all, err := s.st.SessionsByPlan(ctx, planID, store.SessionFilter{})
	if err != nil {
		return session.Analysis{}, err
	}
	return s.postponer.AnalyzeSessions(all), nil
}
