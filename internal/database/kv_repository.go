package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqldb "github.com/yougen/yougen/internal/database/sqlc"
	"github.com/yougen/yougen/internal/kv"
)

// KVRepository stores medium values as rows of the kv_entries table.
// It satisfies kv.Medium.
type KVRepository struct {
	ctx *Context
}

var _ kv.Medium = (*KVRepository)(nil)

// NewKVRepository creates a repository over an open database context.
func NewKVRepository(dbCtx *Context) *KVRepository {
	return &KVRepository{ctx: dbCtx}
}

// Get returns the value stored at key.
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, kv.ErrEmptyKey
	}
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, false, ErrNoDatabase
	}

	row, err := queries.GetKVEntry(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return row.Value, true, nil
}

// Set inserts or replaces the value at key.
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return kv.ErrEmptyKey
	}
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return ErrNoDatabase
	}

	if value == nil {
		value = []byte{}
	}
	if err := queries.UpsertKVEntry(ctx, sqldb.UpsertKVEntryParams{Key: key, Value: value}); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete removes key if present.
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return kv.ErrEmptyKey
	}
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return ErrNoDatabase
	}

	if _, err := queries.DeleteKVEntry(ctx, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Keys lists stored keys in lexical order.
func (r *KVRepository) Keys(ctx context.Context) ([]string, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, ErrNoDatabase
	}

	keys, err := queries.ListKVKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// EntryStat describes the size and freshness of one stored value.
type EntryStat struct {
	Key       string
	Size      int64
	UpdatedAt time.Time
}

// Stats reports the size of every stored value.
func (r *KVRepository) Stats(ctx context.Context) ([]EntryStat, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, ErrNoDatabase
	}

	rows, err := queries.ListKVEntryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry stats: %w", err)
	}

	result := make([]EntryStat, 0, len(rows))
	for _, row := range rows {
		result = append(result, EntryStat{
			Key:       row.Key,
			Size:      row.Size,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return result, nil
}
