package kv

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is a process-local medium. The zero value is not usable; call NewMemory.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	quota  int
	used   int
}

// NewMemory returns an empty in-memory medium without a quota.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

// NewMemoryWithQuota returns an in-memory medium that rejects writes once the
// total size of keys and values would exceed quota bytes.
func NewMemoryWithQuota(quota int) *Memory {
	m := NewMemory()
	m.quota = quota
	return m
}

// Get implements Medium.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set implements Medium. A write that would exceed the quota leaves the
// previous value in place.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev, existed := m.values[key]
	next := m.used + len(value)
	if existed {
		next -= len(prev)
	} else {
		next += len(key)
	}
	if m.quota > 0 && next > m.quota {
		return fmt.Errorf("set %q (%d bytes): %w", key, len(value), ErrQuotaExceeded)
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	m.used = next
	return nil
}

// Delete implements Medium.
func (m *Memory) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.values[key]; ok {
		m.used -= len(prev) + len(key)
		delete(m.values, key)
	}
	return nil
}

// Keys implements Medium.
func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for key := range m.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
