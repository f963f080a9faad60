// Package services coordinates the store with the external metadata and chat collaborators.
package services

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_metadata_fetcher.go -package=mocks github.com/yougen/yougen/internal/services MetadataFetcher
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_assistant.go -package=mocks github.com/yougen/yougen/internal/services Assistant

import (
	"context"

	"github.com/yougen/yougen/internal/store"
)

// MetadataFetcher resolves canonical YouTube URLs to metadata records.
// This interface is defined from the service layer's perspective (consumer-first).
type MetadataFetcher interface {
	// FetchVideo returns metadata for a watch URL.
	FetchVideo(ctx context.Context, videoURL string) (store.VideoMetadata, error)
	// FetchPlaylist returns metadata, including its videos, for a playlist URL.
	FetchPlaylist(ctx context.Context, playlistURL string) (store.PlaylistMetadata, error)
}

// AskRequest is a question about a video or playlist.
type AskRequest struct {
	ResourceURL string
	Message     string
	Language    string
}

// AskResponse is the assistant's answer.
type AskResponse struct {
	Response    string
	Suggestions []string
}

// Assistant answers questions about a resource.
type Assistant interface {
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}
