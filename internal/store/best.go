package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/bootseq/internal/game"
)

// BestScoreKey is the kv slot holding the fewest steps used in a win.
const BestScoreKey = "rag2f_best_steps"

// BestScore is a single integer slot in the kv table. It satisfies
// game.BestScoreStore; the write-if-better decision belongs to the caller.
type BestScore struct {
	drv *entsql.Driver
	key string
}

var _ game.BestScoreStore = (*BestScore)(nil)

// Read returns the stored value and whether one exists.
func (b *BestScore) Read(ctx context.Context) (int, bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table(tableKV)).
		Where(entsql.EQ("key", b.key)).
		Query()

	var rows entsql.Rows
	if err := b.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, false, fmt.Errorf("query best score: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, false, fmt.Errorf("query best score: %w", err)
		}
		return 0, false, nil
	}
	var v int
	if err := rows.Scan(&v); err != nil {
		return 0, false, fmt.Errorf("scan best score: %w", err)
	}
	return v, true, nil
}

// Write stores v unconditionally.
func (b *BestScore) Write(ctx context.Context, v int) error {
	if v < 0 {
		return fmt.Errorf("best score must not be negative, got %d", v)
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableKV).
		Columns("key", "value", "updated_at").
		Values(b.key, v, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := b.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("write best score: %w", err)
	}
	return nil
}

// Clear removes the stored value. It reports whether one existed.
func (b *BestScore) Clear(ctx context.Context) (bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tableKV).
		Where(entsql.EQ("key", b.key)).
		Query()

	var res sql.Result
	if err := b.drv.Exec(ctx, query, args, &res); err != nil {
		return false, fmt.Errorf("clear best score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("clear best score: %w", err)
	}
	return n > 0, nil
}
