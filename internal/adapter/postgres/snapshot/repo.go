// Package snapshot persists ListCache lists in PostgreSQL so that a console
// restarted against the same API shows the last known lists immediately.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/backoffice/internal/adapter/postgres"
	"github.com/heartmarshall/backoffice/internal/cache"
	"github.com/heartmarshall/backoffice/internal/domain"
)

const table = "list_snapshots"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repo stores one row per cache.Key.
type Repo struct {
	pool     *pgxpool.Pool
	tx       txManager
	maxLists int
}

// New creates a snapshot repository keeping at most maxLists rows; the
// least recently written rows are pruned on save. maxLists <= 0 disables
// pruning.
func New(pool *pgxpool.Pool, tx txManager, maxLists int) *Repo {
	return &Repo{pool: pool, tx: tx, maxLists: maxLists}
}

// Save upserts the list under key and prunes old rows in one transaction.
func (r *Repo) Save(ctx context.Context, key cache.Key, records []domain.Record) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}

	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.pool)

		query, args, err := psql.Insert(table).
			Columns("operation", "cond", "lim", "records", "record_count", "updated_at").
			Values(key.Operation, key.Cond, key.Limit, payload, len(records), sq.Expr("now()")).
			Suffix("ON CONFLICT (operation, cond, lim) DO UPDATE SET " +
				"records = EXCLUDED.records, record_count = EXCLUDED.record_count, updated_at = EXCLUDED.updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build snapshot upsert: %w", err)
		}
		if _, err := q.Exec(ctx, query, args...); err != nil {
			return postgres.MapError(err, "snapshot", key.String())
		}

		if r.maxLists <= 0 {
			return nil
		}

		keep := psql.Select("operation", "cond", "lim").
			From(table).
			OrderBy("updated_at DESC").
			Limit(uint64(r.maxLists))
		keepSQL, keepArgs, err := keep.ToSql()
		if err != nil {
			return fmt.Errorf("build snapshot prune: %w", err)
		}
		// squirrel inlines LIMIT, so keepSQL carries no placeholders.
		prune, pruneArgs, err := psql.Delete(table).
			Where("(operation, cond, lim) NOT IN ("+keepSQL+")", keepArgs...).
			ToSql()
		if err != nil {
			return fmt.Errorf("build snapshot prune: %w", err)
		}
		if _, err := q.Exec(ctx, prune, pruneArgs...); err != nil {
			return postgres.MapError(err, "snapshot prune", key.String())
		}
		return nil
	})
}

// Load returns the list stored under key, or domain.ErrNotFound.
func (r *Repo) Load(ctx context.Context, key cache.Key) ([]domain.Record, error) {
	query, args, err := psql.Select("records").
		From(table).
		Where(sq.Eq{"operation": key.Operation, "cond": key.Cond, "lim": key.Limit}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build snapshot select: %w", err)
	}

	var payload []byte
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		return nil, postgres.MapError(err, "snapshot", key.String())
	}

	var records []domain.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return records, nil
}

// Delete removes the list stored under key. Deleting a missing key is not
// an error.
func (r *Repo) Delete(ctx context.Context, key cache.Key) error {
	query, args, err := psql.Delete(table).
		Where(sq.Eq{"operation": key.Operation, "cond": key.Cond, "lim": key.Limit}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build snapshot delete: %w", err)
	}
	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "snapshot", key.String())
	}
	return nil
}

// Summary describes one stored list.
type Summary struct {
	Key         cache.Key
	RecordCount int
}

// List returns the stored lists, most recently written first.
func (r *Repo) List(ctx context.Context) ([]Summary, error) {
	query, args, err := psql.Select("operation", "cond", "lim", "record_count").
		From(table).
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build snapshot list: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "snapshot", "list")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Key.Operation, &s.Key.Cond, &s.Key.Limit, &s.RecordCount); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
