// Package store persists videos, playlists, chats, notes and settings on a kv.Medium.
//
// Each collection is a JSON array kept under one fixed key and rewritten in
// full on every mutation. All collections of a Store share one mutex, so a
// load-mutate-save cycle never interleaves with another and sequential calls
// always observe each other's writes. There are no transactions spanning
// collections and no referential integrity between them.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yougen/yougen/internal/kv"
	"github.com/yougen/yougen/internal/logging"
)

// Storage keys, one per collection.
const (
	KeyVideos    = "yougen_videos"
	KeyPlaylists = "yougen_playlists"
	KeyChats     = "yougen_chats"
	KeyNotes     = "yougen_notes"
	KeySettings  = "yougen_settings"
)

// Millis is a point in time as epoch milliseconds, the unit used in stored JSON.
type Millis int64

// MillisOf converts t to Millis.
func MillisOf(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

// Time converts m back to a local time.Time.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

// Options customise a Store. Zero values select the defaults.
type Options struct {
	Now      func() time.Time
	NewID    func() string
	Logger   *slog.Logger
	Defaults *Settings
}

// Store groups the five collections persisted on one medium.
type Store struct {
	Videos    *VideoStore
	Playlists *PlaylistStore
	Chats     *ChatStore
	Notes     *NoteStore
	Settings  *SettingsStore

	medium kv.Medium
	mu     sync.Mutex
}

// New builds a Store on medium. The store is usable immediately and needs no teardown;
// closing the medium is the caller's concern.
func New(medium kv.Medium, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	defaults := DefaultSettings()
	if opts.Defaults != nil {
		defaults = *opts.Defaults
	}

	logger := opts.Logger.With(logging.FieldComponent, "store")
	s := &Store{medium: medium}
	shared := &env{now: opts.Now, newID: opts.NewID, logger: logger}

	s.Videos = &VideoStore{env: shared, col: newCollection(KeyVideos, medium, &s.mu, logger, videoKey)}
	s.Playlists = &PlaylistStore{env: shared, col: newCollection(KeyPlaylists, medium, &s.mu, logger, playlistKey)}
	s.Chats = &ChatStore{env: shared, col: newCollection(KeyChats, medium, &s.mu, logger, chatKey)}
	s.Notes = &NoteStore{env: shared, col: newCollection(KeyNotes, medium, &s.mu, logger, noteKey)}
	s.Settings = &SettingsStore{medium: medium, mu: &s.mu, logger: logger, defaults: defaults}
	return s
}

// Medium returns the medium the store writes to.
func (s *Store) Medium() kv.Medium {
	return s.medium
}

// env carries the clock, id source and logger shared by the typed stores.
type env struct {
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

func (e *env) stamp() Millis {
	return MillisOf(e.now())
}
