package database

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/yougen/yougen/internal/kv"
)

func TestKVRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepository(setupTestDB(t))

	if _, ok, err := repo.Get(ctx, "yougen_notes"); err != nil || ok {
		t.Fatalf("Get on empty table = ok %v err %v", ok, err)
	}

	if err := repo.Set(ctx, "yougen_notes", []byte(`[{"id":"n1"}]`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := repo.Set(ctx, "yougen_notes", []byte(`[{"id":"n2"}]`)); err != nil {
		t.Fatalf("second Set returned error: %v", err)
	}

	value, ok, err := repo.Get(ctx, "yougen_notes")
	if err != nil || !ok {
		t.Fatalf("Get returned ok %v err %v", ok, err)
	}
	if string(value) != `[{"id":"n2"}]` {
		t.Fatalf("expected latest value, got %q", value)
	}

	if err := repo.Set(ctx, "yougen_chats", nil); err != nil {
		t.Fatalf("Set(nil) returned error: %v", err)
	}

	keys, err := repo.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	if want := []string{"yougen_chats", "yougen_notes"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if len(stats) != 2 || stats[1].Key != "yougen_notes" || stats[1].Size != int64(len(`[{"id":"n2"}]`)) {
		t.Fatalf("unexpected stats %+v", stats)
	}

	if err := repo.Delete(ctx, "yougen_notes"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := repo.Delete(ctx, "yougen_notes"); err != nil {
		t.Fatalf("Delete of missing key returned error: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "yougen_notes"); ok {
		t.Fatalf("expected key to be deleted")
	}
}

func TestKVRepositoryRejectsEmptyKey(t *testing.T) {
	repo := NewKVRepository(setupTestDB(t))
	if err := repo.Set(context.Background(), "", []byte("x")); !errors.Is(err, kv.ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}

func TestKVRepositoryWithoutDatabase(t *testing.T) {
	repo := NewKVRepository(nil)
	if _, _, err := repo.Get(context.Background(), "k"); !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("expected ErrNoDatabase, got %v", err)
	}
}
