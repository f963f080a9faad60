package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yougen/yougen/internal/kv"
	"github.com/yougen/yougen/internal/logging"
)

// Collection is a homogeneous record array stored as JSON under a single key.
// Records are identified by the key function fixed at construction.
type Collection[T any, K comparable] struct {
	name   string
	medium kv.Medium
	mu     *sync.Mutex
	logger *slog.Logger
	keyFn  func(T) K
}

// NewCollection returns a collection with its own lock. Collections created by
// New share the Store's lock instead.
func NewCollection[T any, K comparable](name string, medium kv.Medium, logger *slog.Logger, keyFn func(T) K) *Collection[T, K] {
	if logger == nil {
		logger = slog.Default()
	}
	return newCollection(name, medium, &sync.Mutex{}, logger, keyFn)
}

func newCollection[T any, K comparable](name string, medium kv.Medium, mu *sync.Mutex, logger *slog.Logger, keyFn func(T) K) *Collection[T, K] {
	return &Collection[T, K]{
		name:   name,
		medium: medium,
		mu:     mu,
		logger: logger.With(logging.FieldCollection, name),
		keyFn:  keyFn,
	}
}

// Name returns the storage key.
func (c *Collection[T, K]) Name() string {
	return c.name
}

// All returns every record in storage order. Absent or corrupt data yields an
// empty slice.
func (c *Collection[T, K]) All(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// SaveAll replaces the whole collection.
func (c *Collection[T, K]) SaveAll(ctx context.Context, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, records)
}

// Upsert replaces the record sharing record's key, or appends it.
func (c *Collection[T, K]) Upsert(ctx context.Context, record T) (T, error) {
	err := c.modify(ctx, func(records []T) ([]T, bool, error) {
		return upsert(records, record, c.keyFn), true, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return record, nil
}

// FindOne returns a copy of the record with key, or nil.
func (c *Collection[T, K]) FindOne(ctx context.Context, key K) (*T, error) {
	records, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	if i := c.indexOf(records, key); i >= 0 {
		found := records[i]
		return &found, nil
	}
	return nil, nil
}

// Remove deletes the record with key. A missing key leaves storage untouched.
func (c *Collection[T, K]) Remove(ctx context.Context, key K) error {
	return c.modify(ctx, func(records []T) ([]T, bool, error) {
		kept := records[:0]
		for _, r := range records {
			if c.keyFn(r) != key {
				kept = append(kept, r)
			}
		}
		return kept, len(kept) != len(records), nil
	})
}

// Filter returns the records matching keep, in storage order.
func (c *Collection[T, K]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	records, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]T, 0, len(records))
	for _, r := range records {
		if keep(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// modify runs a load-mutate-save cycle under the lock. fn reports whether it
// changed anything; unchanged collections are not rewritten.
func (c *Collection[T, K]) modify(ctx context.Context, fn func([]T) ([]T, bool, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return err
	}
	updated, changed, err := fn(records)
	if err != nil || !changed {
		return err
	}
	return c.save(ctx, updated)
}

func (c *Collection[T, K]) indexOf(records []T, key K) int {
	for i, r := range records {
		if c.keyFn(r) == key {
			return i
		}
	}
	return -1
}

func (c *Collection[T, K]) load(ctx context.Context) ([]T, error) {
	raw, ok, err := c.medium.Get(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.name, err)
	}
	if !ok || len(raw) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		c.logger.Warn("discarding unreadable collection", "error", err, "bytes", len(raw))
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *Collection[T, K]) save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return &WriteError{Collection: c.name, Err: err}
	}
	if err := c.medium.Set(ctx, c.name, data); err != nil {
		return &WriteError{Collection: c.name, Err: err}
	}
	c.logger.Debug("collection saved", "records", len(records), "bytes", len(data))
	return nil
}

// upsert replaces the first record sharing record's key and drops any later
// duplicates, or appends record when no key matches.
func upsert[T any, K comparable](records []T, record T, keyFn func(T) K) []T {
	key := keyFn(record)
	out := records[:0]
	replaced := false
	for _, r := range records {
		if keyFn(r) != key {
			out = append(out, r)
			continue
		}
		if !replaced {
			out = append(out, record)
			replaced = true
		}
	}
	if !replaced {
		out = append(out, record)
	}
	return out
}
