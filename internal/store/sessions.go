package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/abhisek/studyplan/internal/plan"
)

// insertBatch bounds the rows per INSERT to stay under SQLite's
// bound-parameter limit.
const insertBatch = 50

var sessionColumns = []string{
	"id", "plan_id", "topic_id", "subject", "date", "kind", "status",
	"duration_minutes", "priority", "postponements", "postpone_reason",
	"time_studied_seconds", "questions_solved", "questions_correct",
	"confidence", "difficulty_rating", "completed_at", "reviews_scheduled",
}

func sessionValues(s plan.Session) []any {
	var topic, completed any
	if s.TopicID != nil {
		topic = *s.TopicID
	}
	if !s.CompletedAt.IsZero() {
		completed = formatTime(s.CompletedAt)
	}
	return []any{
		s.ID, s.PlanID, topic, s.Subject, plan.FormatDate(s.Date), string(s.Kind), string(s.Status),
		s.DurationMinutes, s.Priority, s.Postponements, s.PostponeReason,
		s.TimeStudiedSeconds, s.QuestionsSolved, s.QuestionsCorrect,
		s.Confidence, s.DifficultyRating, completed, s.ReviewsScheduled,
	}
}

func scanSession(row rowScanner) (*plan.Session, error) {
	var (
		s          plan.Session
		topic      sql.NullInt64
		date       string
		kind, stat string
		completed  sql.NullString
	)
	err := row.Scan(&s.ID, &s.PlanID, &topic, &s.Subject, &date, &kind, &stat,
		&s.DurationMinutes, &s.Priority, &s.Postponements, &s.PostponeReason,
		&s.TimeStudiedSeconds, &s.QuestionsSolved, &s.QuestionsCorrect,
		&s.Confidence, &s.DifficultyRating, &completed, &s.ReviewsScheduled)
	if err != nil {
		return nil, err
	}
	if topic.Valid {
		s.TopicID = plan.TopicRef(topic.Int64)
	}
	if s.Date, err = plan.ParseDate(date); err != nil {
		return nil, fmt.Errorf("session %s date: %w", s.ID, err)
	}
	s.Kind = plan.Kind(kind)
	s.Status = plan.Status(stat)
	if completed.Valid && completed.String != "" {
		if s.CompletedAt, err = parseTime(completed.String); err != nil {
			return nil, fmt.Errorf("session %s completed_at: %w", s.ID, err)
		}
	}
	return &s, nil
}

func (r *repo) GetSession(ctx context.Context, planID int64, sessionID string) (*plan.Session, error) {
	query, args := builder().
		Select(sessionColumns...).
		From(entsql.Table(SessionsTable.Name)).
		Where(entsql.And(entsql.EQ("id", sessionID), entsql.EQ("plan_id", planID))).
		Query()
	s, err := scanSession(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &plan.NotFoundError{Entity: "session", ID: sessionID}
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

func (r *repo) SessionsByPlan(ctx context.Context, planID int64, f SessionFilter) ([]plan.Session, error) {
	preds := []*entsql.Predicate{entsql.EQ("plan_id", planID)}
	if !f.From.IsZero() {
		preds = append(preds, entsql.GTE("date", plan.FormatDate(f.From)))
	}
	if !f.To.IsZero() {
		preds = append(preds, entsql.LTE("date", plan.FormatDate(f.To)))
	}
	if f.Status != "" {
		preds = append(preds, entsql.EQ("status", string(f.Status)))
	}

	query, args := builder().
		Select(sessionColumns...).
		From(entsql.Table(SessionsTable.Name)).
		Where(entsql.And(preds...)).
		OrderBy("date", entsql.Desc("priority"), "id").
		Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []plan.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *repo) CompletedSessions(ctx context.Context, planID int64) ([]plan.Session, error) {
	return r.SessionsByPlan(ctx, planID, SessionFilter{Status: plan.StatusCompleted})
}

func (r *repo) CountSessionsOn(ctx context.Context, planID int64, date time.Time) (int, error) {
	query, args := builder().
		Select().
		Count().
		From(entsql.Table(SessionsTable.Name)).
		Where(entsql.And(entsql.EQ("plan_id", planID), entsql.EQ("date", plan.FormatDate(date)))).
		Query()
	var n int
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (r *repo) CreateSessions(ctx context.Context, sessions []plan.Session) error {
	for start := 0; start < len(sessions); start += insertBatch {
		end := min(start+insertBatch, len(sessions))
		ins := builder().Insert(SessionsTable.Name).Columns(sessionColumns...)
		for _, s := range sessions[start:end] {
			ins.Values(sessionValues(s)...)
		}
		query, args := ins.Query()
		if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("create sessions: %w", err)
		}
	}
	return nil
}

func (r *repo) UpdateSession(ctx context.Context, s plan.Session) error {
	vals := sessionValues(s)
	upd := builder().Update(SessionsTable.Name)
	// id and plan_id are immutable.
	for i := 2; i < len(sessionColumns); i++ {
		if vals[i] == nil {
			upd.SetNull(sessionColumns[i])
			continue
		}
		upd.Set(sessionColumns[i], vals[i])
	}
	query, args := upd.
		Where(entsql.And(entsql.EQ("id", s.ID), entsql.EQ("plan_id", s.PlanID))).
		Query()
	return r.execOne(ctx, query, args, "session", s.ID)
}

func (r *repo) DeleteSession(ctx context.Context, planID int64, sessionID string) error {
	query, args := builder().
		Delete(SessionsTable.Name).
		Where(entsql.And(entsql.EQ("id", sessionID), entsql.EQ("plan_id", planID))).
		Query()
	return r.execOne(ctx, query, args, "session", sessionID)
}

func (r *repo) DeleteSessionsByPlan(ctx context.Context, planID int64) (int64, error) {
	query, args := builder().
		Delete(SessionsTable.Name).
		Where(entsql.EQ("plan_id", planID)).
		Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete sessions of plan %d: %w", planID, err)
	}
	return res.RowsAffected()
}
