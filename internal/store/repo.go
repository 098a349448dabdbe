package store

import (
	"context"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SessionFilter narrows a session listing. Zero fields do not filter.
type SessionFilter struct {
	From   time.Time // date >= From
	To     time.Time // date <= To
	Status plan.Status
}

// PlanEvent is one recorded engine event.
type PlanEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	PlanID    int64
	Action    string
	Detail    string
}

// Repository is the storage contract of the engine. Every method returns
// a *plan.NotFoundError (wrapping plan.ErrNotFound) for missing rows.
type Repository interface {
	PlanRepo
	SessionRepo
	EventRepo
	ExclusionRepo
}

// PlanRepo manages plans, subjects and topics.
type PlanRepo interface {
	// CreatePlan inserts p and sets its ID and CreatedAt.
	CreatePlan(ctx context.Context, p *plan.Plan) error

	// GetPlan returns a plan owned by userID.
	GetPlan(ctx context.Context, planID, userID int64) (*plan.Plan, error)

	ListPlans(ctx context.Context, userID int64) ([]plan.Plan, error)

	// DeletePlan removes a plan with its subjects, topics and sessions.
	DeletePlan(ctx context.Context, planID, userID int64) error

	IncrementPlanPostponements(ctx context.Context, planID int64) error

	CreateSubject(ctx context.Context, s *plan.Subject) error
	UpdateSubjectWeight(ctx context.Context, planID, subjectID int64, weight float64) error
	SubjectsByPlan(ctx context.Context, planID int64) ([]plan.Subject, error)

	CreateTopic(ctx context.Context, t *plan.Topic) error
	TopicsByPlan(ctx context.Context, planID int64) ([]plan.Topic, error)
}

// SessionRepo manages scheduled sessions.
type SessionRepo interface {
	GetSession(ctx context.Context, planID int64, sessionID string) (*plan.Session, error)

	// SessionsByPlan lists sessions ordered by date, then priority
	// descending.
	SessionsByPlan(ctx context.Context, planID int64, f SessionFilter) ([]plan.Session, error)

	CompletedSessions(ctx context.Context, planID int64) ([]plan.Session, error)

	// CountSessionsOn returns the number of sessions of a plan on a date.
	CountSessionsOn(ctx context.Context, planID int64, date time.Time) (int, error)

	// CreateSessions bulk-inserts sessions.
	CreateSessions(ctx context.Context, sessions []plan.Session) error

	// UpdateSession writes every mutable field of s.
	UpdateSession(ctx context.Context, s plan.Session) error

	DeleteSession(ctx context.Context, planID int64, sessionID string) error

	// DeleteSessionsByPlan removes every session of a plan and returns
	// the number removed.
	DeleteSessionsByPlan(ctx context.Context, planID int64) (int64, error)
}

// EventRepo provides append access to plan events.
type EventRepo interface {
	// AppendEvent records an event with the next global sequence number.
	AppendEvent(ctx context.Context, e *PlanEvent) error

	// Events lists a plan's events in sequence order.
	Events(ctx context.Context, planID int64, opts QueryOpts) ([]PlanEvent, error)
}

// ExclusionRepo keeps the topics a final-stretch schedule left out.
type ExclusionRepo interface {
	// ReplaceExclusions swaps a plan's exclusions for excl. An empty excl
	// clears them.
	ReplaceExclusions(ctx context.Context, planID int64, excl []plan.Exclusion) error

	// ExclusionsByPlan lists exclusions by priority descending.
	ExclusionsByPlan(ctx context.Context, planID int64) ([]plan.Exclusion, error)
}
