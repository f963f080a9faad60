package store

import (
	"cmp"
	"context"
	"slices"

	"github.com/yougen/yougen/internal/logging"
)

// ChatStore keeps one conversation per resource.
type ChatStore struct {
	*env
	col *Collection[Chat, string]
}

// GetOrCreate returns the id of the chat attached to resourceID, creating an
// empty chat titled title when none exists.
func (s *ChatStore) GetOrCreate(ctx context.Context, resourceID, title string) (string, error) {
	if resourceID == "" {
		return "", &ValidationError{Field: "resourceId", Message: "resource id is required"}
	}

	var id string
	err := s.col.modify(ctx, func(chats []Chat) ([]Chat, bool, error) {
		for _, c := range chats {
			if c.ResourceID == resourceID {
				id = c.ID
				return chats, false, nil
			}
		}
		now := s.stamp()
		id = s.newID()
		chats = append(chats, Chat{
			ID:         id,
			ResourceID: resourceID,
			Title:      title,
			Messages:   []Message{},
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		return chats, true, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// AppendMessage adds msg to the chat and bumps its updatedAt. A message
// without id or timestamp gets fresh ones. When the chat does not exist
// nothing is written and the returned message is nil.
func (s *ChatStore) AppendMessage(ctx context.Context, chatID string, msg Message) (*Message, error) {
	if !msg.Role.Valid() {
		return nil, &ValidationError{Field: "role", Message: "must be user or assistant"}
	}
	if msg.ID == "" {
		msg.ID = s.newID()
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = s.stamp()
	}

	found := false
	err := s.col.modify(ctx, func(chats []Chat) ([]Chat, bool, error) {
		i := s.col.indexOf(chats, chatID)
		if i < 0 {
			return chats, false, nil
		}
		found = true
		chats[i].Messages = append(chats[i].Messages, msg)
		chats[i].UpdatedAt = s.stamp()
		return chats, true, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		s.logger.Warn("message dropped for unknown chat", "chat_id", chatID)
		return nil, nil
	}
	return &msg, nil
}

// Get returns the chat with id, or nil.
func (s *ChatStore) Get(ctx context.Context, id string) (*Chat, error) {
	return s.col.FindOne(ctx, id)
}

// ByResource returns the first chat attached to resourceID, or nil.
func (s *ChatStore) ByResource(ctx context.Context, resourceID string) (*Chat, error) {
	chats, err := s.ListByResource(ctx, resourceID)
	if err != nil || len(chats) == 0 {
		return nil, err
	}
	return &chats[0], nil
}

// ListByResource returns every chat attached to resourceID in storage order.
// Older data may hold more than one.
func (s *ChatStore) ListByResource(ctx context.Context, resourceID string) ([]Chat, error) {
	return s.col.Filter(ctx, func(c Chat) bool {
		return c.ResourceID == resourceID
	})
}

// List returns every chat in storage order.
func (s *ChatStore) List(ctx context.Context) ([]Chat, error) {
	return s.col.All(ctx)
}

// Recent returns chats by updatedAt, newest first. limit <= 0 means all.
func (s *ChatStore) Recent(ctx context.Context, limit int) ([]Chat, error) {
	chats, err := s.col.All(ctx)
	if err != nil {
		return nil, err
	}
	sortByUpdated(chats, func(c Chat) Millis { return c.UpdatedAt })
	return head(chats, limit), nil
}

// Remove deletes the chat with id. Missing ids are ignored.
func (s *ChatStore) Remove(ctx context.Context, id string) error {
	if err := s.col.Remove(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("chat removed", logging.FieldResourceID, id)
	return nil
}

// History groups chats by how recently they were updated.
func (s *ChatStore) History(ctx context.Context) (History[Chat], error) {
	chats, err := s.col.All(ctx)
	if err != nil {
		return History[Chat]{}, err
	}
	return groupByRecency(chats, func(c Chat) Millis { return c.UpdatedAt }, s.now()), nil
}

func sortByUpdated[T any](items []T, updated func(T) Millis) {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(updated(b), updated(a))
	})
}
