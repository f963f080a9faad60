// Package mcp exposes notes, chats and settings as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yougen/yougen/internal/logging"
	"github.com/yougen/yougen/internal/services"
	"github.com/yougen/yougen/internal/store"
	"github.com/yougen/yougen/internal/youtube"
)

// Server wraps the MCP server with yougen tools.
type Server struct {
	server  *mcp.Server
	store   *store.Store
	library *services.LibraryService
	logger  *slog.Logger
}

// NewServer creates an MCP server over s. library may be nil, in which case
// video_get only reads the cache.
func NewServer(s *store.Store, library *services.LibraryService, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "yougen",
		Version: version,
	}, nil)

	srv := &Server{
		server:  mcpServer,
		store:   s,
		library: library,
		logger:  logger.With(logging.FieldComponent, "mcp"),
	}
	srv.registerTools()
	return srv
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session over t.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "note_create",
		Description: "Create a note attached to a YouTube video or playlist",
	}, s.handleNoteCreate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "note_list",
		Description: "List notes, pinned first, optionally for one video or playlist",
	}, s.handleNoteList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "note_search",
		Description: "Search note titles and content, ignoring case",
	}, s.handleNoteSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "note_pin",
		Description: "Pin or unpin a note",
	}, s.handleNotePin)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "note_delete",
		Description: "Delete a note",
	}, s.handleNoteDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "notes_export",
		Description: "Export all notes as one Markdown document",
	}, s.handleNotesExport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chat_history",
		Description: "Return the chat attached to a video or playlist",
	}, s.handleChatHistory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "video_get",
		Description: "Return metadata for a video id or URL",
	}, s.handleVideoGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "settings_get",
		Description: "Return the current application settings",
	}, s.handleSettingsGet)
}

type NoteCreateInput struct {
	ResourceID string   `json:"resourceId" jsonschema:"video or playlist id the note belongs to"`
	Title      string   `json:"title" jsonschema:"note title"`
	Content    string   `json:"content" jsonschema:"plain text body"`
	Seconds    *float64 `json:"seconds,omitempty" jsonschema:"optional video position in seconds"`
	Pinned     bool     `json:"pinned,omitempty" jsonschema:"pin the note"`
}

type NoteOutput struct {
	Note store.Note `json:"note"`
}

type NoteListInput struct {
	ResourceID string `json:"resourceId,omitempty" jsonschema:"only notes for this video or playlist id"`
}

type NoteListOutput struct {
	Notes []store.Note `json:"notes"`
}

type NoteSearchInput struct {
	Query      string `json:"query" jsonschema:"text to look for"`
	ResourceID string `json:"resourceId,omitempty" jsonschema:"only notes for this video or playlist id"`
}

type NotePinInput struct {
	ID     string `json:"id" jsonschema:"note id"`
	Pinned bool   `json:"pinned" jsonschema:"true to pin, false to unpin"`
}

type NoteDeleteInput struct {
	ID string `json:"id" jsonschema:"note id"`
}

type DeleteOutput struct {
	Message string `json:"message"`
}

type ExportInput struct{}

type ExportOutput struct {
	Markdown string `json:"markdown"`
	Count    int    `json:"count"`
}

type ChatHistoryInput struct {
	ResourceID string `json:"resourceId" jsonschema:"video or playlist id"`
}

type ChatHistoryOutput struct {
	Chat *store.Chat `json:"chat,omitempty"`
}

type VideoGetInput struct {
	Video   string `json:"video" jsonschema:"video id or YouTube URL"`
	Refresh bool   `json:"refresh,omitempty" jsonschema:"fetch fresh metadata even when cached"`
}

type VideoGetOutput struct {
	Video store.VideoMetadata `json:"video"`
}

type SettingsInput struct{}

type SettingsOutput struct {
	Settings store.Settings `json:"settings"`
}

func (s *Server) handleNoteCreate(ctx context.Context, _ *mcp.CallToolRequest, input NoteCreateInput) (*mcp.CallToolResult, NoteOutput, error) {
	draft := store.NoteDraft{
		ResourceID: input.ResourceID,
		Title:      input.Title,
		Content:    input.Content,
		Pinned:     input.Pinned,
	}
	if input.Seconds != nil {
		ts := youtube.TimestampAt(*input.Seconds)
		draft.VideoTimestamp = &ts
	}
	note, err := s.store.Notes.Create(ctx, draft)
	if err != nil {
		return nil, NoteOutput{}, fmt.Errorf("failed to create note: %w", err)
	}
	s.logger.InfoContext(ctx, "note created", "note_id", note.ID, logging.FieldResourceID, note.ResourceID)
	return nil, NoteOutput{Note: note}, nil
}

func (s *Server) handleNoteList(ctx context.Context, _ *mcp.CallToolRequest, input NoteListInput) (*mcp.CallToolResult, NoteListOutput, error) {
	var (
		notes []store.Note
		err   error
	)
	if input.ResourceID != "" {
		notes, err = s.store.Notes.ListByResource(ctx, input.ResourceID)
	} else {
		notes, err = s.store.Notes.ListAllSorted(ctx)
	}
	if err != nil {
		return nil, NoteListOutput{}, fmt.Errorf("failed to list notes: %w", err)
	}
	return nil, NoteListOutput{Notes: notes}, nil
}

func (s *Server) handleNoteSearch(ctx context.Context, _ *mcp.CallToolRequest, input NoteSearchInput) (*mcp.CallToolResult, NoteListOutput, error) {
	notes, err := s.store.Notes.Search(ctx, input.Query)
	if err != nil {
		return nil, NoteListOutput{}, fmt.Errorf("failed to search notes: %w", err)
	}
	if input.ResourceID != "" {
		kept := make([]store.Note, 0, len(notes))
		for _, n := range notes {
			if n.ResourceID == input.ResourceID {
				kept = append(kept, n)
			}
		}
		notes = kept
	}
	return nil, NoteListOutput{Notes: notes}, nil
}

func (s *Server) handleNotePin(ctx context.Context, _ *mcp.CallToolRequest, input NotePinInput) (*mcp.CallToolResult, NoteOutput, error) {
	note, err := s.store.Notes.SetPinned(ctx, input.ID, input.Pinned)
	if err != nil {
		return nil, NoteOutput{}, fmt.Errorf("failed to pin note: %w", err)
	}
	if note == nil {
		return nil, NoteOutput{}, fmt.Errorf("note not found: %s", input.ID)
	}
	return nil, NoteOutput{Note: *note}, nil
}

func (s *Server) handleNoteDelete(ctx context.Context, _ *mcp.CallToolRequest, input NoteDeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	existing, err := s.store.Notes.Get(ctx, input.ID)
	if err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete note: %w", err)
	}
	if existing == nil {
		return nil, DeleteOutput{}, fmt.Errorf("note not found: %s", input.ID)
	}
	if err := s.store.Notes.Remove(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete note: %w", err)
	}
	return nil, DeleteOutput{Message: fmt.Sprintf("Deleted note '%s'", existing.Title)}, nil
}

func (s *Server) handleNotesExport(ctx context.Context, _ *mcp.CallToolRequest, _ ExportInput) (*mcp.CallToolResult, ExportOutput, error) {
	notes, err := s.store.Notes.List(ctx)
	if err != nil {
		return nil, ExportOutput{}, fmt.Errorf("failed to export notes: %w", err)
	}
	return nil, ExportOutput{Markdown: store.RenderMarkdown(notes), Count: len(notes)}, nil
}

func (s *Server) handleChatHistory(ctx context.Context, _ *mcp.CallToolRequest, input ChatHistoryInput) (*mcp.CallToolResult, ChatHistoryOutput, error) {
	chat, err := s.store.Chats.ByResource(ctx, input.ResourceID)
	if err != nil {
		return nil, ChatHistoryOutput{}, fmt.Errorf("failed to load chat: %w", err)
	}
	return nil, ChatHistoryOutput{Chat: chat}, nil
}

func (s *Server) handleVideoGet(ctx context.Context, _ *mcp.CallToolRequest, input VideoGetInput) (*mcp.CallToolResult, VideoGetOutput, error) {
	id := input.Video
	if res, err := youtube.Parse(input.Video); err == nil {
		if res.Kind != youtube.KindVideo {
			return nil, VideoGetOutput{}, fmt.Errorf("not a video: %s", input.Video)
		}
		id = res.ID
	}

	if s.library != nil {
		v, err := s.library.OpenVideo(ctx, id, input.Refresh)
		if errors.Is(err, services.ErrNotFound) {
			return nil, VideoGetOutput{}, fmt.Errorf("video not found: %s", id)
		}
		if err != nil {
			return nil, VideoGetOutput{}, fmt.Errorf("failed to load video: %w", err)
		}
		return nil, VideoGetOutput{Video: v}, nil
	}

	v, err := s.store.Videos.Get(ctx, id)
	if err != nil {
		return nil, VideoGetOutput{}, fmt.Errorf("failed to load video: %w", err)
	}
	if v == nil {
		return nil, VideoGetOutput{}, fmt.Errorf("video not found: %s", id)
	}
	return nil, VideoGetOutput{Video: *v}, nil
}

func (s *Server) handleSettingsGet(ctx context.Context, _ *mcp.CallToolRequest, _ SettingsInput) (*mcp.CallToolResult, SettingsOutput, error) {
	settings, err := s.store.Settings.Load(ctx)
	if err != nil {
		return nil, SettingsOutput{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return nil, SettingsOutput{Settings: settings}, nil
}
