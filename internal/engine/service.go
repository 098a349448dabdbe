// Package engine exposes the study plan operations: plan management,
// schedule generation, replanning, postponement, completion and
// reinforcement. Every mutating operation runs in one storage transaction.
package engine

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/abhisek/studyplan/internal/config"
	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/planfile"
	"github.com/abhisek/studyplan/internal/progress"
	"github.com/abhisek/studyplan/internal/scheduler"
	"github.com/abhisek/studyplan/internal/session"
	"github.com/abhisek/studyplan/internal/spacedrep"
	"github.com/abhisek/studyplan/internal/store"
)

// Storage is the persistence the engine needs: repositories plus a
// transaction runner.
type Storage interface {
	store.Repository
	Tx(ctx context.Context, fn func(store.Repository) error) error
}

// Service runs engine operations against a Storage.
type Service struct {
	st         Storage
	builder    *scheduler.Builder
	reinforcer *spacedrep.Scheduler
	postponer  *session.Postponer
	replanner  *progress.Replanner
	observers  []Observer
	log        *slog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithObserver adds an observer notified after each committed change.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observers = append(s.observers, o) }
}

// WithLogger sets the logger used for warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock sets the source of "now". The civil date of now is "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service.
func New(st Storage, cfg config.Config, opts ...Option) *Service {
	b := scheduler.NewBuilder(cfg.Scheduler)
	s := &Service{
		st:         st,
		builder:    b,
		reinforcer: spacedrep.NewScheduler(cfg.Reinforcement),
		postponer:  session.NewPostponer(cfg.Postpone),
		replanner:  progress.NewReplanner(cfg.Replan, b),
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current civil date.
func (s *Service) Today() time.Time {
	return plan.Day(s.now())
}

func (s *Service) notify(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = s.now()
	}
	for _, o := range s.observers {
		if err := o.Observe(ctx, e); err != nil {
			s.log.Warn("observer failed", "event", string(e.Kind), "plan_id", e.PlanID, "error", err)
		}
	}
}

// CreatePlan validates a plan definition and stores it with its subjects
// and topics.
func (s *Service) CreatePlan(ctx context.Context, userID int64, def *planfile.Definition) (*plan.Plan, error) {
	if err := def.Validate(s.Today()); err != nil {
		return nil, err
	}
	p := def.Plan(userID)
	p.CreatedAt = s.now()
	err := s.st.Tx(ctx, func(r store.Repository) error {
		if err := r.CreatePlan(ctx, p); err != nil {
			return err
		}
		for _, sub := range def.Subjects {
			if _, _, err := addSubject(ctx, r, p.ID, sub); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, Event{Kind: EventPlanCreated, PlanID: p.ID, Count: def.TopicCount(),
		Attrs: []slog.Attr{slog.Int("subjects", len(def.Subjects))}})
	return p, nil
}

// AddSubject adds a subject with its topics to an existing plan.
func (s *Service) AddSubject(ctx context.Context, planID, userID int64, in planfile.Subject) (*plan.Subject, []plan.Topic, error) {
	if err := plan.ValidateStruct(in); err != nil {
		return nil, nil, err
	}
	var (
		sub    *plan.Subject
		topics []plan.Topic
	)
	err := s.st.Tx(ctx, func(r store.Repository) error {
		if _, err := r.GetPlan(ctx, planID, userID); err != nil {
			return err
		}
		existing, err := r.SubjectsByPlan(ctx, planID)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if e.Name == in.Name {
				return &plan.ValidationError{Field: "name", Value: in.Name, Reason: "subject already exists"}
			}
		}
		sub, topics, err = addSubject(ctx, r, planID, in)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	s.notify(ctx, Event{Kind: EventSubjectAdded, PlanID: planID, Count: len(topics),
		Attrs: []slog.Attr{slog.String("subject", sub.Name)}})
	return sub, topics, nil
}

func addSubject(ctx context.Context, r store.Repository, planID int64, in planfile.Subject) (*plan.Subject, []plan.Topic, error) {
	sub := &plan.Subject{PlanID: planID, Name: in.Name, Weight: in.Weight}
	if err := r.CreateSubject(ctx, sub); err != nil {
		return nil, nil, err
	}
	topics := make([]plan.Topic, 0, len(in.Topics))
	for _, t := range in.Topics {
		topic := plan.Topic{
			PlanID:        planID,
			SubjectID:     sub.ID,
			Name:          t.Name,
			Difficulty:    t.Difficulty,
			QuestionCount: t.Questions,
		}
		if err := r.CreateTopic(ctx, &topic); err != nil {
			return nil, nil, err
		}
		topics = append(topics, topic)
	}
	return sub, topics, nil
}

// SetSubjectWeight changes a subject's weight. Existing sessions keep their
// priorities until the next replan with a priority change.
func (s *Service) SetSubjectWeight(ctx context.Context, planID, userID, subjectID int64, weight float64) error {
	if weight < 1 || weight > 5 {
		return &plan.ValidationError{Field: "weight", Value: weight, Reason: "must be between 1 and 5"}
	}
	err := s.st.Tx(ctx, func(r store.Repository) error {
		if _, err := r.GetPlan(ctx, planID, userID); err != nil {
			return err
		}
		return r.UpdateSubjectWeight(ctx, planID, subjectID, weight)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, Event{Kind: EventWeightChanged, PlanID: planID, Count: 1,
		Attrs: []slog.Attr{slog.Int64("subject_id", subjectID), slog.Float64("weight", weight)}})
	return nil
}

// PlanDetail is a plan with its syllabus.
type PlanDetail struct {
	Plan     *plan.Plan
	Subjects []plan.Subject

	// Topics are in priority order.
	Topics []plan.Topic
}

// GetPlan returns a plan with its subjects and prioritized topics.
func (s *Service) GetPlan(ctx context.Context, planID, userID int64) (*PlanDetail, error) {
	p, err := s.st.GetPlan(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.st.SubjectsByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	topics, err := s.st.TopicsByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return &PlanDetail{
		Plan:     p,
		Subjects: subjects,
		Topics:   scheduler.Prioritize(topics, subjects, s.builder.Config().Defaults),
	}, nil
}

// ListPlans returns the plans owned by userID.
func (s *Service) ListPlans(ctx context.Context, userID int64) ([]plan.Plan, error) {
	return s.st.ListPlans(ctx, userID)
}

// DeletePlan removes a plan and everything under it.
func (s *Service) DeletePlan(ctx context.Context, planID, userID int64) error {
	return s.st.DeletePlan(ctx, planID, userID)
}

// Events returns the recorded history of a plan.
func (s *Service) Events(ctx context.Context, planID, userID int64, opts store.QueryOpts) ([]store.PlanEvent, error) {
	if _, err := s.st.GetPlan(ctx, planID, userID); err != nil {
		return nil, err
	}
	return s.st.Events(ctx, planID, opts)
}
