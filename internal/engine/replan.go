package engine

import (
	"context"
	"log/slog"

	"github.com/abhisek/studyplan/internal/progress"
	"github.com/abhisek/studyplan/internal/store"
)

// ReplanOptions tune ReplanSchedule.
type ReplanOptions struct {
	// PriorityChange signals changed subject weights or topic attributes.
	PriorityChange bool

	// Preview computes the changes without writing them.
	Preview bool
}

// ReplanResult is the outcome of ReplanSchedule.
type ReplanResult struct {
	*progress.Changes
	Preview bool
}

// ReplanSchedule analyzes drift, picks a strategy and applies it. Completed
// sessions are never touched.
func (s *Service) ReplanSchedule(ctx context.Context, planID, userID int64, opts ReplanOptions) (*ReplanResult, error) {
	today := s.Today()
	var ch *progress.Changes
	err := s.st.Tx(ctx, func(r store.Repository) error {
		p, err := r.GetPlan(ctx, planID, userID)
		if err != nil {
			return err
		}
		subjects, err := r.SubjectsByPlan(ctx, planID)
		if err != nil {
			return err
		}
		topics, err := r.TopicsByPlan(ctx, planID)
		if err != nil {
			return err
		}
		sessions, err := r.SessionsByPlan(ctx, planID, store.SessionFilter{})
		if err != nil {
			return err
		}

		ch, err = s.replanner.Replan(progress.Input{
			Plan:     p,
			Subjects: subjects,
			Topics:   topics,
			Sessions: sessions,
			Today:    today,
		}, progress.Options{PriorityChange: opts.PriorityChange})
		if err != nil {
			return err
		}
		if opts.Preview {
			return nil
		}

		for _, d := range ch.Deleted {
			if err := r.DeleteSession(ctx, planID, d.ID); err != nil {
				return err
			}
		}
		for _, u := range ch.Updated {
			if err := r.UpdateSession(ctx, u); err != nil {
				return err
			}
		}
		return r.CreateSessions(ctx, ch.Created)
	})
	if err != nil {
		return nil, err
	}

	if !opts.Preview && !ch.Empty() {
		s.notify(ctx, Event{Kind: EventReplanned, PlanID: planID,
			Count: len(ch.Deleted) + len(ch.Updated) + len(ch.Created),
			Attrs: []slog.Attr{
				slog.String("strategy", string(ch.Strategy)),
				slog.Int("overdue", ch.Report.OverdueCount()),
				slog.Int("deleted", len(ch.Deleted)),
				slog.Int("updated", len(ch.Updated)),
				slog.Int("created", len(ch.Created)),
			}})
	}
	if len(ch.Unplaced) > 0 || len(ch.Unmoved) > 0 {
		s.log.Warn("replan left work unscheduled", "plan_id", planID,
			"strategy", string(ch.Strategy), "unplaced", len(ch.Unplaced), "unmoved", len(ch.Unmoved))
	}
	return &ReplanResult{Changes: ch, Preview: opts.Preview}, nil
}
