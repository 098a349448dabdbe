package engine

import (
	"context"
	"log/slog"

	"github.com/abhisek/studyplan/internal/progress"
	"github.com/abhisek/studyplan/internal/store"
)

// Conflicts reports overloaded days, duplicate first-study sessions and
// long gaps in a plan's schedule.
func (s *Service) Conflicts(ctx context.Context, planID, userID int64) (*progress.Conflicts, error) {
	p, err := s.st.GetPlan(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.st.SessionsByPlan(ctx, planID, store.SessionFilter{})
	if err != nil {
		return nil, err
	}
	return s.replanner.Config().DetectConflicts(p, sessions), nil
}

// ResolveResult is the outcome of ResolveConflicts.
type ResolveResult struct {
	*progress.Resolution

	// Remaining is what detection finds after the changes.
	Remaining *progress.Conflicts
}

// ResolveConflicts deletes duplicate NewTopic sessions and moves pending
// reviews off overloaded days, in one transaction.
func (s *Service) ResolveConflicts(ctx context.Context, planID, userID int64) (*ResolveResult, error) {
	today := s.Today()
	var res *ResolveResult
	err := s.st.Tx(ctx, func(r store.Repository) error {
		p, err := r.GetPlan(ctx, planID, userID)
		if err != nil {
			return err
		}
		sessions, err := r.SessionsByPlan(ctx, planID, store.SessionFilter{})
		if err != nil {
			return err
		}

		rs := s.replanner.ResolveConflicts(p, sessions, today)
		for _, d := range rs.Deleted {
			if err := r.DeleteSession(ctx, planID, d.ID); err != nil {
				return err
			}
		}
		for _, u := range rs.Updated {
			if err := r.UpdateSession(ctx, u); err != nil {
				return err
			}
		}
		res = &ResolveResult{
			Resolution: rs,
			Remaining:  s.replanner.Config().DetectConflicts(p, rs.Schedule),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(res.Unresolved) > 0 {
		s.log.Warn("overloaded days left unresolved", "plan_id", planID, "days", len(res.Unresolved))
	}
	if !res.Empty() {
		s.notify(ctx, Event{Kind: EventConflicts, PlanID: planID, Count: len(res.Deleted) + len(res.Updated),
			Attrs: []slog.Attr{
				slog.Int("found", res.Found.Total()),
				slog.Int("deleted", len(res.Deleted)),
				slog.Int("moved", len(res.Updated)),
				slog.Int("remaining", res.Remaining.Total()),
			}})
	}
	return res, nil
}
