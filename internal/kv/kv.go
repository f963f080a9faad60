// Package kv provides the key-value media that yougen collections are persisted on.
//
// A medium stores opaque byte values under string keys. Each collection owns
// exactly one key and rewrites its full value on every mutation, so a medium
// only needs whole-value reads and writes.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded is returned when a write would grow a medium past its quota.
	ErrQuotaExceeded = errors.New("kv: quota exceeded")
	// ErrEmptyKey is returned for operations on the empty key.
	ErrEmptyKey = errors.New("kv: empty key")
)

// Medium is the storage surface used by the store package.
type Medium interface {
	// Get returns the value stored at key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set replaces the value at key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists the stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
