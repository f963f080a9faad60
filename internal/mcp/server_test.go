package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yougen/yougen/internal/kv"
	"github.com/yougen/yougen/internal/logging"
	"github.com/yougen/yougen/internal/store"
)

const videoID = "dQw4w9WgXcQ"

func connect(t *testing.T, s *store.Store) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	srv := NewServer(s, nil, "test", logging.NewNop())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	if _, err := srv.Connect(ctx, serverTransport); err != nil {
		t.Fatalf("server connect: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func call[T any](t *testing.T, session *mcp.ClientSession, name string, args any) (T, *mcp.CallToolResult) {
	t.Helper()
	var out T
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	if res.IsError {
		return out, res
	}
	if len(res.Content) == 0 {
		t.Fatalf("%s: empty content", name)
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("%s: unexpected content %T", name, res.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
		t.Fatalf("%s: decode %q: %v", name, text.Text, err)
	}
	return out, res
}

func newStore() *store.Store {
	return store.New(kv.NewMemory(), store.Options{Logger: logging.NewNop()})
}

func TestNoteTools(t *testing.T) {
	s := newStore()
	session := connect(t, s)

	created, _ := call[NoteOutput](t, session, "note_create", map[string]any{
		"resourceId": videoID,
		"title":      "Chorus",
		"content":    "Never gonna give you up",
		"seconds":    43,
	})
	if created.Note.ID == "" || created.Note.VideoTimestamp == nil || created.Note.VideoTimestamp.Formatted != "0:43" {
		t.Fatalf("unexpected created note %+v", created.Note)
	}

	if _, err := s.Notes.Create(context.Background(), store.NoteDraft{ResourceID: "other", Title: "Elsewhere", Content: "give"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	pinned, _ := call[NoteOutput](t, session, "note_pin", map[string]any{"id": created.Note.ID, "pinned": true})
	if !pinned.Note.Pinned {
		t.Fatalf("expected pinned note")
	}

	list, _ := call[NoteListOutput](t, session, "note_list", map[string]any{})
	if len(list.Notes) != 2 || list.Notes[0].ID != created.Note.ID {
		t.Fatalf("expected pinned note first, got %+v", list.Notes)
	}

	found, _ := call[NoteListOutput](t, session, "note_search", map[string]any{"query": "GIVE", "resourceId": videoID})
	if len(found.Notes) != 1 || found.Notes[0].ID != created.Note.ID {
		t.Fatalf("unexpected search result %+v", found.Notes)
	}

	export, _ := call[ExportOutput](t, session, "notes_export", map[string]any{})
	if export.Count != 2 || !strings.Contains(export.Markdown, "# Chorus\n\nTimestamp: 0:43\n\n") {
		t.Fatalf("unexpected export %+v", export)
	}

	if _, res := call[DeleteOutput](t, session, "note_delete", map[string]any{"id": created.Note.ID}); res.IsError {
		t.Fatalf("delete failed: %+v", res.Content)
	}
	if _, res := call[DeleteOutput](t, session, "note_delete", map[string]any{"id": created.Note.ID}); !res.IsError {
		t.Fatalf("expected error deleting a missing note")
	}
}

func TestReadTools(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	if _, err := s.Videos.Upsert(ctx, store.VideoMetadata{ID: videoID, Title: "Never Gonna"}); err != nil {
		t.Fatalf("seed video: %v", err)
	}
	chatID, err := s.Chats.GetOrCreate(ctx, videoID, "Chat about Never Gonna")
	if err != nil {
		t.Fatalf("seed chat: %v", err)
	}
	session := connect(t, s)

	video, _ := call[VideoGetOutput](t, session, "video_get", map[string]any{"video": "https://youtu.be/" + videoID})
	if video.Video.Title != "Never Gonna" {
		t.Fatalf("unexpected video %+v", video.Video)
	}
	if _, res := call[VideoGetOutput](t, session, "video_get", map[string]any{"video": "aaaaaaaaaaa"}); !res.IsError {
		t.Fatalf("expected error for unknown video")
	}

	history, _ := call[ChatHistoryOutput](t, session, "chat_history", map[string]any{"resourceId": videoID})
	if history.Chat == nil || history.Chat.ID != chatID {
		t.Fatalf("unexpected chat %+v", history.Chat)
	}

	settings, _ := call[SettingsOutput](t, session, "settings_get", map[string]any{})
	if settings.Settings != store.DefaultSettings() {
		t.Fatalf("expected default settings, got %+v", settings.Settings)
	}
}
