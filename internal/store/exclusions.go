package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/abhisek/studyplan/internal/plan"
)

var exclusionColumns = []string{"plan_id", "topic_id", "subject_id", "priority", "reason", "created_at"}

func (r *repo) ReplaceExclusions(ctx context.Context, planID int64, excl []plan.Exclusion) error {
	query, args := builder().
		Delete(ExclusionsTable.Name).
		Where(entsql.EQ("plan_id", planID)).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear exclusions of plan %d: %w", planID, err)
	}

	for start := 0; start < len(excl); start += insertBatch {
		end := min(start+insertBatch, len(excl))
		ins := builder().Insert(ExclusionsTable.Name).Columns(exclusionColumns...)
		for _, e := range excl[start:end] {
			ins.Values(planID, e.TopicID, e.SubjectID, e.Priority, e.Reason, formatTime(e.CreatedAt))
		}
		query, args := ins.Query()
		if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("create exclusions: %w", err)
		}
	}
	return nil
}

func (r *repo) ExclusionsByPlan(ctx context.Context, planID int64) ([]plan.Exclusion, error) {
	query, args := builder().
		Select(exclusionColumns...).
		From(entsql.Table(ExclusionsTable.Name)).
		Where(entsql.EQ("plan_id", planID)).
		OrderBy(entsql.Desc("priority"), "id").
		Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exclusions: %w", err)
	}
	defer rows.Close()

	var out []plan.Exclusion
	for rows.Next() {
		var (
			e       plan.Exclusion
			created string
		)
		if err := rows.Scan(&e.PlanID, &e.TopicID, &e.SubjectID, &e.Priority, &e.Reason, &created); err != nil {
			return nil, fmt.Errorf("scan exclusion: %w", err)
		}
		if e.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("exclusion of topic %d created_at: %w", e.TopicID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
