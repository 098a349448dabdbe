package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/studyplan/internal/store"
)

// EventKind names what happened to a plan.
type EventKind string

const (
	EventPlanCreated     EventKind = "plan_created"
	EventSubjectAdded    EventKind = "subject_added"
	EventWeightChanged   EventKind = "subject_weight_changed"
	EventGenerated       EventKind = "schedule_generated"
	EventReplanned       EventKind = "schedule_replanned"
	EventPostponed       EventKind = "session_postponed"
	EventCompleted       EventKind = "session_completed"
	EventReinforced      EventKind = "reviews_scheduled"
	EventManualReinforce EventKind = "reinforcement_added"
	EventConflicts       EventKind = "conflicts_resolved"
)

// Event describes one committed change to a plan.
type Event struct {
	Kind      EventKind
	PlanID    int64
	SessionID string
	At        time.Time

	// Count is the number of sessions the change produced or touched.
	Count int

	// Attrs carries kind-specific details, in key/value pairs.
	Attrs []slog.Attr
}

// Observer is notified after a change commits. A failing observer never
// fails the operation.
type Observer interface {
	Observe(ctx context.Context, e Event) error
}

// LogObserver logs events with a structured logger.
type LogObserver struct {
	Logger *slog.Logger
}

func (o LogObserver) Observe(ctx context.Context, e Event) error {
	attrs := append([]slog.Attr{
		slog.Int64("plan_id", e.PlanID),
		slog.Int("count", e.Count),
	}, e.Attrs...)
	if e.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", e.SessionID))
	}
	o.Logger.LogAttrs(ctx, slog.LevelInfo, string(e.Kind), attrs...)
	return nil
}

// RecordObserver persists events in the plan event log.
type RecordObserver struct {
	Events store.EventRepo
}

func (o RecordObserver) Observe(ctx context.Context, e Event) error {
	return o.Events.AppendEvent(ctx, &store.PlanEvent{
		Timestamp: e.At,
		PlanID:    e.PlanID,
		Action:    string(e.Kind),
		Detail:    detail(e),
	})
}

// detail renders an event's count, session and attributes as one line.
func detail(e Event) string {
	s := fmt.Sprintf("count=%d", e.Count)
	if e.SessionID != "" {
		s += " session=" + e.SessionID
	}
	for _, a := range e.Attrs {
		s += " " + a.String()
	}
	return s
}
