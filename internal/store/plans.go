package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/abhisek/studyplan/internal/plan"
)

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// execQuerier is satisfied by *sql.DB and *sql.Tx.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// repo implements Repository on a connection or a transaction.
type repo struct {
	q   execQuerier
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

var planColumns = []string{
	"id", "user_id", "name", "exam_date", "daily_hours", "days_per_week",
	"questions_per_day", "questions_per_week", "postponements", "created_at",
}

func (r *repo) CreatePlan(ctx context.Context, p *plan.Plan) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	query, args := builder().
		Insert(PlansTable.Name).
		Columns(planColumns[1:]...).
		Values(p.UserID, p.Name, plan.FormatDate(p.ExamDate), p.DailyHours, p.DaysPerWeek,
			p.QuestionsPerDay, p.QuestionsPerWeek, p.Postponements, formatTime(p.CreatedAt)).
		Query()
	id, err := r.insert(ctx, query, args)
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	p.ID = id
	return nil
}

func (r *repo) GetPlan(ctx context.Context, planID, userID int64) (*plan.Plan, error) {
	query, args := builder().
		Select(planColumns...).
		From(entsql.Table(PlansTable.Name)).
		Where(entsql.And(entsql.EQ("id", planID), entsql.EQ("user_id", userID))).
		Query()
	p, err := scanPlan(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &plan.NotFoundError{Entity: "plan", ID: strconv.FormatInt(planID, 10)}
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

func (r *repo) ListPlans(ctx context.Context, userID int64) ([]plan.Plan, error) {
	query, args := builder().
		Select(planColumns...).
		From(entsql.Table(PlansTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("exam_date", "id").
		Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var out []plan.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("list plans: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repo) DeletePlan(ctx context.Context, planID, userID int64) error {
	query, args := builder().
		Delete(PlansTable.Name).
		Where(entsql.And(entsql.EQ("id", planID), entsql.EQ("user_id", userID))).
		Query()
	return r.execOne(ctx, query, args, "plan", strconv.FormatInt(planID, 10))
}

func (r *repo) IncrementPlanPostponements(ctx context.Context, planID int64) error {
	query, args := builder().
		Update(PlansTable.Name).
		Add("postponements", 1).
		Where(entsql.EQ("id", planID)).
		Query()
	return r.execOne(ctx, query, args, "plan", strconv.FormatInt(planID, 10))
}

func (r *repo) CreateSubject(ctx context.Context, s *plan.Subject) error {
	query, args := builder().
		Insert(SubjectsTable.Name).
		Columns("plan_id", "name", "weight").
		Values(s.PlanID, s.Name, s.Weight).
		Query()
	id, err := r.insert(ctx, query, args)
	if err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	s.ID = id
	return nil
}

func (r *repo) UpdateSubjectWeight(ctx context.Context, planID, subjectID int64, weight float64) error {
	query, args := builder().
		Update(SubjectsTable.Name).
		Set("weight", weight).
		Where(entsql.And(entsql.EQ("id", subjectID), entsql.EQ("plan_id", planID))).
		Query()
	return r.execOne(ctx, query, args, "subject", strconv.FormatInt(subjectID, 10))
}

func (r *repo) SubjectsByPlan(ctx context.Context, planID int64) ([]plan.Subject, error) {
	query, args := builder().
		Select("id", "plan_id", "name", "weight").
		From(entsql.Table(SubjectsTable.Name)).
		Where(entsql.EQ("plan_id", planID)).
		OrderBy("id").
		Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var out []plan.Subject
	for rows.Next() {
		var s plan.Subject
		if err := rows.Scan(&s.ID, &s.PlanID, &s.Name, &s.Weight); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) CreateTopic(ctx context.Context, t *plan.Topic) error {
	query, args := builder().
		Insert(TopicsTable.Name).
		Columns("plan_id", "subject_id", "name", "difficulty", "question_count").
		Values(t.PlanID, t.SubjectID, t.Name, t.Difficulty, t.QuestionCount).
		Query()
	id, err := r.insert(ctx, query, args)
	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	t.ID = id
	return nil
}

func (r *repo) TopicsByPlan(ctx context.Context, planID int64) ([]plan.Topic, error) {
	query, args := builder().
		Select("id", "plan_id", "subject_id", "name", "difficulty", "question_count").
		From(entsql.Table(TopicsTable.Name)).
		Where(entsql.EQ("plan_id", planID)).
		OrderBy("id").
		Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var out []plan.Topic
	for rows.Next() {
		var t plan.Topic
		if err := rows.Scan(&t.ID, &t.PlanID, &t.SubjectID, &t.Name, &t.Difficulty, &t.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*plan.Plan, error) {
	var (
		p             plan.Plan
		exam, created string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &exam, &p.DailyHours, &p.DaysPerWeek,
		&p.QuestionsPerDay, &p.QuestionsPerWeek, &p.Postponements, &created)
	if err != nil {
		return nil, err
	}
	if p.ExamDate, err = plan.ParseDate(exam); err != nil {
		return nil, fmt.Errorf("plan %d exam date: %w", p.ID, err)
	}
	if p.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("plan %d created_at: %w", p.ID, err)
	}
	return &p, nil
}

func (r *repo) insert(ctx context.Context, query string, args []any) (int64, error) {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// execOne runs a statement that must affect exactly one row.
func (r *repo) execOne(ctx context.Context, query string, args []any, entity, id string) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}
	if n == 0 {
		return &plan.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
