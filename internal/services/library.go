package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yougen/yougen/internal/logging"
	"github.com/yougen/yougen/internal/store"
	"github.com/yougen/yougen/internal/youtube"
)

// LibraryService serves video and playlist metadata from the local cache,
// fetching from the metadata service when needed.
type LibraryService struct {
	store   *store.Store
	fetcher MetadataFetcher
	logger  *slog.Logger
}

// NewLibraryService creates a LibraryService. fetcher may be nil, in which
// case only cached records are served.
func NewLibraryService(s *store.Store, fetcher MetadataFetcher, logger *slog.Logger) *LibraryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LibraryService{store: s, fetcher: fetcher, logger: logger.With(logging.FieldComponent, "library")}
}

// OpenVideo returns the cached video unless it is missing or refresh is set,
// in which case it is fetched and upserted. Nothing is written when the fetch fails.
func (l *LibraryService) OpenVideo(ctx context.Context, id string, refresh bool) (store.VideoMetadata, error) {
	if !refresh {
		cached, err := l.store.Videos.Get(ctx, id)
		if err != nil {
			return store.VideoMetadata{}, err
		}
		if cached != nil {
			return *cached, nil
		}
	}
	if l.fetcher == nil {
		return store.VideoMetadata{}, fmt.Errorf("video %s: %w", id, ErrNotFound)
	}

	fetched, err := l.fetcher.FetchVideo(ctx, youtube.VideoURL(id))
	if err != nil {
		logging.FromContext(ctx, l.logger).Warn("video metadata fetch failed", logging.FieldResourceID, id, "error", err)
		return store.VideoMetadata{}, externalError(err, "fetch video metadata")
	}
	fetched.ID = id
	return l.store.Videos.Upsert(ctx, fetched)
}

// OpenPlaylist is OpenVideo for playlists. The playlist's videos are also
// cached in the video collection.
func (l *LibraryService) OpenPlaylist(ctx context.Context, id string, refresh bool) (store.PlaylistMetadata, error) {
	if !refresh {
		cached, err := l.store.Playlists.Get(ctx, id)
		if err != nil {
			return store.PlaylistMetadata{}, err
		}
		if cached != nil {
			return *cached, nil
		}
	}
	if l.fetcher == nil {
		return store.PlaylistMetadata{}, fmt.Errorf("playlist %s: %w", id, ErrNotFound)
	}

	fetched, err := l.fetcher.FetchPlaylist(ctx, youtube.PlaylistURL(id))
	if err != nil {
		logging.FromContext(ctx, l.logger).Warn("playlist metadata fetch failed", logging.FieldResourceID, id, "error", err)
		return store.PlaylistMetadata{}, externalError(err, "fetch playlist metadata")
	}
	fetched.ID = id

	stored, err := l.store.Playlists.Upsert(ctx, fetched)
	if err != nil {
		return store.PlaylistMetadata{}, err
	}
	if err := l.store.Videos.UpsertMany(ctx, fetched.Videos); err != nil {
		return store.PlaylistMetadata{}, err
	}
	return stored, nil
}

// Opened is the result of Open: exactly one of Video and Playlist is set.
type Opened struct {
	Resource youtube.Resource        `json:"resource"`
	Video    *store.VideoMetadata    `json:"video,omitempty"`
	Playlist *store.PlaylistMetadata `json:"playlist,omitempty"`
}

// Open parses a YouTube link and opens the video or playlist it names.
func (l *LibraryService) Open(ctx context.Context, rawURL string, refresh bool) (Opened, error) {
	res, err := youtube.Parse(rawURL)
	if err != nil {
		return Opened{}, &ValidationError{Field: "url", Message: err.Error()}
	}

	opened := Opened{Resource: res}
	switch res.Kind {
	case youtube.KindPlaylist:
		p, err := l.OpenPlaylist(ctx, res.ID, refresh)
		if err != nil {
			return Opened{}, err
		}
		opened.Playlist = &p
	default:
		v, err := l.OpenVideo(ctx, res.ID, refresh)
		if err != nil {
			return Opened{}, err
		}
		opened.Video = &v
	}
	return opened, nil
}

// ResourceURL returns the canonical URL for a resource id, using the cache to
// tell playlists from videos.
func (l *LibraryService) ResourceURL(ctx context.Context, resourceID string) (string, error) {
	p, err := l.store.Playlists.Get(ctx, resourceID)
	if err != nil {
		return "", err
	}
	if p != nil {
		return youtube.PlaylistURL(resourceID), nil
	}
	return youtube.VideoURL(resourceID), nil
}

// Title returns the cached title of a resource, or "" when unknown.
func (l *LibraryService) Title(ctx context.Context, resourceID string) (string, error) {
	v, err := l.store.Videos.Get(ctx, resourceID)
	if err != nil {
		return "", err
	}
	if v != nil {
		return v.Title, nil
	}
	p, err := l.store.Playlists.Get(ctx, resourceID)
	if err != nil || p == nil {
		return "", err
	}
	return p.Title, nil
}
