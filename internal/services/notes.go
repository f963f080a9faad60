package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/yougen/yougen/internal/logging"
	"github.com/yougen/yougen/internal/store"
)

const noteTitleLimit = 60

// NoteService creates notes from other records.
type NoteService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewNoteService creates a NoteService.
func NewNoteService(s *store.Store, logger *slog.Logger) *NoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteService{store: s, logger: logger.With(logging.FieldComponent, "notes")}
}

// SaveMessageAsNote stores a chat message as a note on the chat's resource.
// The note links back to the chat and keeps the message's video position.
func (n *NoteService) SaveMessageAsNote(ctx context.Context, chatID, messageID string) (store.Note, error) {
	chat, err := n.store.Chats.Get(ctx, chatID)
	if err != nil {
		return store.Note{}, err
	}
	if chat == nil {
		return store.Note{}, fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}

	for _, msg := range chat.Messages {
		if msg.ID != messageID {
			continue
		}
		note, err := n.store.Notes.Create(ctx, store.NoteDraft{
			ResourceID:     chat.ResourceID,
			Title:          titleFromText(msg.Content),
			Content:        msg.Content,
			VideoTimestamp: msg.VideoTimestamp,
			FromChatID:     chat.ID,
		})
		if err != nil {
			return store.Note{}, err
		}
		logging.FromContext(ctx, n.logger).InfoContext(ctx, "message saved as note", "chat_id", chat.ID, "note_id", note.ID)
		return note, nil
	}
	return store.Note{}, fmt.Errorf("message %s in chat %s: %w", messageID, chatID, ErrNotFound)
}

// titleFromText uses the first non-empty line, shortened to a readable length.
func titleFromText(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= noteTitleLimit {
			return line
		}
		runes := []rune(line)
		return strings.TrimSpace(string(runes[:noteTitleLimit-1])) + "…"
	}
	return "Untitled note"
}
