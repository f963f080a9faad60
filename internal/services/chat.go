package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yougen/yougen/internal/logging"
	"github.com/yougen/yougen/internal/store"
	"github.com/yougen/yougen/internal/youtube"
)

// DefaultLanguage is the language hint sent when a request names none.
const DefaultLanguage = "en"

// AskInput is one user turn in a resource's chat.
type AskInput struct {
	ResourceID     string
	Message        string
	Language       string
	VideoTimestamp *youtube.Timestamp
}

// AskResult holds the persisted exchange.
type AskResult struct {
	ChatID      string        `json:"chatId"`
	Question    store.Message `json:"question"`
	Answer      store.Message `json:"answer"`
	Suggestions []string      `json:"suggestions"`
}

// ChatService runs the question and answer loop for a resource's chat.
type ChatService struct {
	store     *store.Store
	library   *LibraryService
	assistant Assistant
	logger    *slog.Logger
}

// NewChatService creates a ChatService.
func NewChatService(s *store.Store, library *LibraryService, assistant Assistant, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		store:     s,
		library:   library,
		assistant: assistant,
		logger:    logger.With(logging.FieldComponent, "chat"),
	}
}

// Ask sends the message to the assistant. The question and the answer are
// appended to the resource's chat only when the assistant succeeds.
func (c *ChatService) Ask(ctx context.Context, in AskInput) (AskResult, error) {
	logger := logging.FromContext(ctx, c.logger)

	message := strings.TrimSpace(in.Message)
	if message == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return AskResult{}, &ValidationError{Field: "message", Message: "cannot be empty"}
	}
	if in.ResourceID == "" {
		return AskResult{}, &ValidationError{Field: "resourceId", Message: "cannot be empty"}
	}
	language := in.Language
	if language == "" {
		language = DefaultLanguage
	}

	title, err := c.library.Title(ctx, in.ResourceID)
	if err != nil {
		return AskResult{}, err
	}
	if title == "" {
		title = in.ResourceID
	}
	chatID, err := c.store.Chats.GetOrCreate(ctx, in.ResourceID, "Chat about "+title)
	if err != nil {
		return AskResult{}, err
	}

	resourceURL, err := c.library.ResourceURL(ctx, in.ResourceID)
	if err != nil {
		return AskResult{}, err
	}
	question := store.Message{Role: store.RoleUser, Content: message, VideoTimestamp: in.VideoTimestamp}

	resp, err := c.assistant.Ask(ctx, AskRequest{ResourceURL: resourceURL, Message: message, Language: language})
	if err != nil {
		logger.ErrorContext(ctx, "assistant request failed", logging.FieldResourceID, in.ResourceID, "error", err)
		return AskResult{}, externalError(err, "ask assistant")
	}

	stored, err := c.store.Chats.AppendMessage(ctx, chatID, question)
	if err != nil {
		return AskResult{}, err
	}
	if stored == nil {
		return AskResult{}, fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}
	answer, err := c.store.Chats.AppendMessage(ctx, chatID, store.Message{Role: store.RoleAssistant, Content: resp.Response})
	if err != nil {
		return AskResult{}, err
	}
	if answer == nil {
		return AskResult{}, fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}

	suggestions := resp.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	logger.InfoContext(ctx, "chat request processed successfully",
		"chat_id", chatID,
		"message_length", len(message),
		"reply_length", len(resp.Response),
	)
	return AskResult{ChatID: chatID, Question: *stored, Answer: *answer, Suggestions: suggestions}, nil
}
