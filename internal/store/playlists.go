package store

import "context"

// PlaylistStore caches playlist metadata by id.
type PlaylistStore struct {
	*env
	col *Collection[PlaylistMetadata, string]
}

// Upsert stores p with the same merge rules as VideoStore.Upsert. A non-nil
// Videos slice replaces the stored snapshot.
func (s *PlaylistStore) Upsert(ctx context.Context, p PlaylistMetadata) (PlaylistMetadata, error) {
	if p.ID == "" {
		return PlaylistMetadata{}, &ValidationError{Field: "id", Message: "playlist id is required"}
	}

	var stored PlaylistMetadata
	err := s.col.modify(ctx, func(records []PlaylistMetadata) ([]PlaylistMetadata, bool, error) {
		now := s.stamp()
		if i := s.col.indexOf(records, p.ID); i >= 0 {
			stored = mergePlaylist(records[i], p)
			if stored.CreatedAt == 0 {
				stored.CreatedAt = now
			}
		} else {
			stored = p
			stored.CreatedAt = now
		}
		if stored.Videos == nil {
			stored.Videos = []VideoMetadata{}
		}
		stored.UpdatedAt = now
		return upsert(records, stored, playlistKey), true, nil
	})
	if err != nil {
		return PlaylistMetadata{}, err
	}
	return stored, nil
}

// Get returns the playlist with id, or nil.
func (s *PlaylistStore) Get(ctx context.Context, id string) (*PlaylistMetadata, error) {
	return s.col.FindOne(ctx, id)
}

// List returns every cached playlist in storage order.
func (s *PlaylistStore) List(ctx context.Context) ([]PlaylistMetadata, error) {
	return s.col.All(ctx)
}

// Recent returns playlists by updatedAt, newest first. limit <= 0 means all.
func (s *PlaylistStore) Recent(ctx context.Context, limit int) ([]PlaylistMetadata, error) {
	playlists, err := s.col.All(ctx)
	if err != nil {
		return nil, err
	}
	sortByUpdated(playlists, func(v PlaylistMetadata) Millis { return v.UpdatedAt })
	return head(playlists, limit), nil
}

func mergePlaylist(old, incoming PlaylistMetadata) PlaylistMetadata {
	merged := old
	setString(&merged.Title, incoming.Title)
	setString(&merged.ChannelTitle, incoming.ChannelTitle)
	setString(&merged.ChannelID, incoming.ChannelID)
	setString(&merged.Description, incoming.Description)
	setString(&merged.PublishedAt, incoming.PublishedAt)
	setString(&merged.ThumbnailURL, incoming.ThumbnailURL)
	if incoming.ItemCount != 0 {
		merged.ItemCount = incoming.ItemCount
	}
	if incoming.Videos != nil {
		merged.Videos = incoming.Videos
	}
	return merged
}
