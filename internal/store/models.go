package store

import "github.com/yougen/yougen/internal/youtube"

// VideoMetadata caches what the metadata service returned for one video.
type VideoMetadata struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	ChannelID    string `json:"channelId"`
	Description  string `json:"description"`
	PublishedAt  string `json:"publishedAt"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     string `json:"duration"`
	ViewCount    string `json:"viewCount"`
	CreatedAt    Millis `json:"createdAt,omitempty"`
	UpdatedAt    Millis `json:"updatedAt,omitempty"`
}

// PlaylistMetadata caches a playlist with a snapshot of its videos.
type PlaylistMetadata struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	ChannelTitle string          `json:"channelTitle"`
	ChannelID    string          `json:"channelId"`
	Description  string          `json:"description"`
	PublishedAt  string          `json:"publishedAt"`
	ThumbnailURL string          `json:"thumbnailUrl"`
	ItemCount    int             `json:"itemCount"`
	Videos       []VideoMetadata `json:"videos"`
	CreatedAt    Millis          `json:"createdAt,omitempty"`
	UpdatedAt    Millis          `json:"updatedAt,omitempty"`
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one entry of a chat log.
type Message struct {
	ID             string             `json:"id"`
	Content        string             `json:"content"`
	Role           Role               `json:"role"`
	Timestamp      Millis             `json:"timestamp"`
	VideoTimestamp *youtube.Timestamp `json:"videoTimestamp,omitempty"`
}

// Chat is the conversation attached to one video or playlist.
type Chat struct {
	ID         string    `json:"id"`
	ResourceID string    `json:"resourceId"`
	Title      string    `json:"title"`
	Messages   []Message `json:"messages"`
	CreatedAt  Millis    `json:"createdAt"`
	UpdatedAt  Millis    `json:"updatedAt"`
}

// NoteTag labels a note.
type NoteTag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Note is a user note attached to a video or playlist.
type Note struct {
	ID             string             `json:"id"`
	ResourceID     string             `json:"resourceId"`
	Title          string             `json:"title"`
	Content        string             `json:"content"`
	RichContent    string             `json:"richContent,omitempty"`
	Tags           []NoteTag          `json:"tags"`
	Pinned         bool               `json:"pinned"`
	Color          string             `json:"color,omitempty"`
	CreatedAt      Millis             `json:"createdAt"`
	UpdatedAt      Millis             `json:"updatedAt"`
	VideoTimestamp *youtube.Timestamp `json:"videoTimestamp,omitempty"`
	FromChatID     string             `json:"fromChatId,omitempty"`
}

// NoteDraft is the caller-supplied part of a new note.
type NoteDraft struct {
	ResourceID     string             `json:"resourceId"`
	Title          string             `json:"title"`
	Content        string             `json:"content"`
	RichContent    string             `json:"richContent,omitempty"`
	Tags           []NoteTag          `json:"tags,omitempty"`
	Pinned         bool               `json:"pinned,omitempty"`
	Color          string             `json:"color,omitempty"`
	VideoTimestamp *youtube.Timestamp `json:"videoTimestamp,omitempty"`
	FromChatID     string             `json:"fromChatId,omitempty"`
}

func videoKey(v VideoMetadata) string       { return v.ID }
func playlistKey(p PlaylistMetadata) string { return p.ID }
func chatKey(c Chat) string                 { return c.ID }
func noteKey(n Note) string                 { return n.ID }
