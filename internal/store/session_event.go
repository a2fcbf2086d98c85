package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/bootseq/internal/game"
)

func (r *eventRepo) RecordAttempt(ctx context.Context, e game.AttemptEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableAttemptEvents).
		Columns("sequence", "timestamp", "session_id", "module_id", "outcome",
			"steps_remaining", "mistakes", "wrong").
		Values(seqNum, time.Now().UnixMilli(), e.SessionID, e.ModuleID, e.Outcome.String(),
			e.StepsRemaining, e.Mistakes, strings.Join(e.Wrong, ",")).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecordSession(ctx context.Context, e game.SessionEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSessionEvents).
		Columns("sequence", "timestamp", "session_id", "action", "variant",
			"steps_used", "new_best").
		Values(seqNum, time.Now().UnixMilli(), e.SessionID, string(e.Action), e.Variant,
			e.StepsUsed, e.NewBest).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "session_id", "module_id", "outcome",
			"steps_remaining", "mistakes", "wrong").
		From(entsql.Table(tableAttemptEvents))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var (
			rec     AttemptRecord
			ts      int64
			outcome string
			wrong   string
		)
		err := rows.Scan(&rec.Sequence, &ts, &rec.SessionID, &rec.ModuleID, &outcome,
			&rec.StepsRemaining, &rec.Mistakes, &wrong)
		if err != nil {
			return nil, fmt.Errorf("scan attempt event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		if s, ok := game.ParseStatus(outcome); ok {
			rec.Outcome = s
		}
		if wrong != "" {
			rec.Wrong = strings.Split(wrong, ",")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "session_id", "action", "variant",
			"steps_used", "new_best").
		From(entsql.Table(tableSessionEvents))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec    SessionRecord
			ts     int64
			action string
		)
		err := rows.Scan(&rec.Sequence, &ts, &rec.SessionID, &action, &rec.Variant,
			&rec.StepsUsed, &rec.NewBest)
		if err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		rec.Action = game.SessionAction(action)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	return out, nil
}

// applyQueryOpts adds the filters and ordering shared by event queries.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if opts.SessionID != "" {
		sel.Where(entsql.EQ("session_id", opts.SessionID))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
