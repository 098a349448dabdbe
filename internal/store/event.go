package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global monotonic sequence number stamped
// on every plan event. Events of all plans share one counter so a history
// read across plans has a single order.
//
// Uses raw SQL outside the migrated tables because ent doesn't support
// database-level atomic counters. The mutex serializes within the process;
// the RETURNING clause makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
}

// newSequenceCounter ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{}, nil
}

// Next atomically returns the next sequence number and increments the
// counter, on q so the increment joins the caller's transaction.
func (sc *sequenceCounter) Next(ctx context.Context, q execQuerier) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := q.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

func (r *repo) AppendEvent(ctx context.Context, e *PlanEvent) error {
	seqNum, err := r.seq.Next(ctx, r.q)
	if err != nil {
		return err
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	query, args := builder().
		Insert(PlanEventsTable.Name).
		Columns("sequence", "timestamp", "plan_id", "action", "detail").
		Values(seqNum, formatTime(e.Timestamp), e.PlanID, e.Action, e.Detail).
		Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save plan event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("save plan event: %w", err)
	}
	e.ID = id
	e.Sequence = seqNum
	return nil
}

func (r *repo) Events(ctx context.Context, planID int64, opts QueryOpts) ([]PlanEvent, error) {
	preds := []*entsql.Predicate{entsql.EQ("plan_id", planID)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", formatTime(opts.To)))
	}

	sel := builder().
		Select("id", "sequence", "timestamp", "plan_id", "action", "detail").
		From(entsql.Table(PlanEventsTable.Name)).
		Where(entsql.And(preds...)).
		OrderBy("sequence")
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plan events: %w", err)
	}
	defer rows.Close()

	var out []PlanEvent
	for rows.Next() {
		var (
			e  PlanEvent
			ts string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.PlanID, &e.Action, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan plan event: %w", err)
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("plan event %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
