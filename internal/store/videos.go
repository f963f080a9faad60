package store

import "context"

// VideoStore caches video metadata by id.
type VideoStore struct {
	*env
	col *Collection[VideoMetadata, string]
}

// Upsert stores v. An existing record keeps its createdAt and takes every
// non-empty field of v; a new record is stamped createdAt = updatedAt = now.
func (s *VideoStore) Upsert(ctx context.Context, v VideoMetadata) (VideoMetadata, error) {
	if v.ID == "" {
		return VideoMetadata{}, &ValidationError{Field: "id", Message: "video id is required"}
	}

	var stored VideoMetadata
	err := s.col.modify(ctx, func(records []VideoMetadata) ([]VideoMetadata, bool, error) {
		stored = s.stampVideo(records, v)
		return upsert(records, stored, videoKey), true, nil
	})
	if err != nil {
		return VideoMetadata{}, err
	}
	return stored, nil
}

// UpsertMany stores videos in one write, applying the same merge as Upsert.
func (s *VideoStore) UpsertMany(ctx context.Context, videos []VideoMetadata) error {
	return s.col.modify(ctx, func(records []VideoMetadata) ([]VideoMetadata, bool, error) {
		changed := false
		for _, v := range videos {
			if v.ID == "" {
				continue
			}
			records = upsert(records, s.stampVideo(records, v), videoKey)
			changed = true
		}
		return records, changed, nil
	})
}

func (s *VideoStore) stampVideo(records []VideoMetadata, v VideoMetadata) VideoMetadata {
	now := s.stamp()
	if i := s.col.indexOf(records, v.ID); i >= 0 {
		merged := mergeVideo(records[i], v)
		if merged.CreatedAt == 0 {
			merged.CreatedAt = now
		}
		merged.UpdatedAt = now
		return merged
	}
	v.CreatedAt = now
	v.UpdatedAt = now
	return v
}

// Get returns the video with id, or nil.
func (s *VideoStore) Get(ctx context.Context, id string) (*VideoMetadata, error) {
	return s.col.FindOne(ctx, id)
}

// List returns every cached video in storage order.
func (s *VideoStore) List(ctx context.Context) ([]VideoMetadata, error) {
	return s.col.All(ctx)
}

// Recent returns videos by updatedAt, newest first. limit <= 0 means all.
func (s *VideoStore) Recent(ctx context.Context, limit int) ([]VideoMetadata, error) {
	videos, err := s.col.All(ctx)
	if err != nil {
		return nil, err
	}
	sortByUpdated(videos, func(v VideoMetadata) Millis { return v.UpdatedAt })
	return head(videos, limit), nil
}

func mergeVideo(old, incoming VideoMetadata) VideoMetadata {
	merged := old
	setString(&merged.Title, incoming.Title)
	setString(&merged.ChannelTitle, incoming.ChannelTitle)
	setString(&merged.ChannelID, incoming.ChannelID)
	setString(&merged.Description, incoming.Description)
	setString(&merged.PublishedAt, incoming.PublishedAt)
	setString(&merged.ThumbnailURL, incoming.ThumbnailURL)
	setString(&merged.Duration, incoming.Duration)
	setString(&merged.ViewCount, incoming.ViewCount)
	return merged
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func head[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
