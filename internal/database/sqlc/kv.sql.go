package sqldb

import (
	"context"
	"time"
)

const getKVEntry = `SELECT key, value, created_at, updated_at FROM kv_entries WHERE key = ?`

func (q *Queries) GetKVEntry(ctx context.Context, key string) (KvEntry, error) {
	row := q.db.QueryRowContext(ctx, getKVEntry, key)
	var i KvEntry
	err := row.Scan(&i.Key, &i.Value, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const upsertKVEntry = `INSERT INTO kv_entries (key, value) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

type UpsertKVEntryParams struct {
	Key   string
	Value []byte
}

func (q *Queries) UpsertKVEntry(ctx context.Context, arg UpsertKVEntryParams) error {
	_, err := q.db.ExecContext(ctx, upsertKVEntry, arg.Key, arg.Value)
	return err
}

const deleteKVEntry = `DELETE FROM kv_entries WHERE key = ?`

func (q *Queries) DeleteKVEntry(ctx context.Context, key string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteKVEntry, key)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listKVKeys = `SELECT key FROM kv_entries ORDER BY key`

func (q *Queries) ListKVKeys(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listKVKeys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		items = append(items, key)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listKVEntryStats = `SELECT key, length(value) AS size, updated_at FROM kv_entries ORDER BY key`

type ListKVEntryStatsRow struct {
	Key       string
	Size      int64
	UpdatedAt time.Time
}

func (q *Queries) ListKVEntryStats(ctx context.Context) ([]ListKVEntryStatsRow, error) {
	rows, err := q.db.QueryContext(ctx, listKVEntryStats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListKVEntryStatsRow
	for rows.Next() {
		var i ListKVEntryStatsRow
		if err := rows.Scan(&i.Key, &i.Size, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
