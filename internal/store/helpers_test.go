package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yougen/yougen/internal/kv"
	"github.com/yougen/yougen/internal/logging"
)

// clock is a manual time source that advances one second per reading.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 3, 14, 15, 0, 0, 0, time.Local)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T) (*Store, *kv.Memory, *clock) {
	t.Helper()
	medium := kv.NewMemory()
	clk := newClock()
	s := New(medium, Options{
		Now:    clk.Now,
		NewID:  sequentialIDs(),
		Logger: logging.NewNop(),
	})
	return s, medium, clk
}

func rawValue(t *testing.T, m kv.Medium, key string) string {
	t.Helper()
	value, _, err := m.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return string(value)
}

// failingMedium fails every operation with err.
type failingMedium struct {
	err error
}

func (f failingMedium) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingMedium) Set(context.Context, string, []byte) error        { return f.err }
func (f failingMedium) Delete(context.Context, string) error             { return f.err }
func (f failingMedium) Keys(context.Context) ([]string, error)           { return nil, f.err }

var errDiskGone = errors.New("disk gone")
