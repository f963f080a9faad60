// Package backend is the HTTP client for the yougen backend's metadata and AI chat endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yougen/yougen/internal/services"
	"github.com/yougen/yougen/internal/store"
	"github.com/yougen/yougen/internal/youtube"
)

const (
	defaultBaseURL     = "http://localhost:8000/api"
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBody       = 4 << 10
)

// Config captures the settings needed to reach the backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements services.MetadataFetcher and services.Assistant over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var (
	_ services.MetadataFetcher = (*Client)(nil)
	_ services.Assistant       = (*Client)(nil)
)

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a backend client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx backend response.
type APIError struct {
	Endpoint   string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend %s: http %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("backend %s: http %d: %s", e.Endpoint, e.StatusCode, e.Detail)
}

type videoPayload struct {
	Platform   string `json:"platform"`
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	Thumbnail  string `json:"thumbnail"`
	Duration   *int   `json:"duration"`
	UploadDate string `json:"upload_date"`
	Channel    string `json:"channel"`
}

type playlistPayload struct {
	Platform   string         `json:"platform"`
	PlaylistID string         `json:"playlist_id"`
	Title      string         `json:"title"`
	Thumbnail  string         `json:"thumbnail"`
	ItemCount  int            `json:"item_count"`
	Channel    string         `json:"channel"`
	Videos     []videoPayload `json:"videos"`
}

type chatRequest struct {
	VideoURL string `json:"video_url"`
	Message  string `json:"message"`
	Language string `json:"language,omitempty"`
}

type chatResponse struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
	VideoID     string   `json:"video_id"`
}

// FetchVideo calls GET /youtube/metadata.
func (c *Client) FetchVideo(ctx context.Context, videoURL string) (store.VideoMetadata, error) {
	var payload videoPayload
	if err := c.get(ctx, "/youtube/metadata", url.Values{"url": {videoURL}}, &payload); err != nil {
		return store.VideoMetadata{}, err
	}
	return payload.toVideo(), nil
}

// FetchPlaylist calls GET /youtube/playlist.
func (c *Client) FetchPlaylist(ctx context.Context, playlistURL string) (store.PlaylistMetadata, error) {
	var payload playlistPayload
	if err := c.get(ctx, "/youtube/playlist", url.Values{"url": {playlistURL}}, &payload); err != nil {
		return store.PlaylistMetadata{}, err
	}

	videos := make([]store.VideoMetadata, 0, len(payload.Videos))
	for _, v := range payload.Videos {
		videos = append(videos, v.toVideo())
	}
	itemCount := payload.ItemCount
	if itemCount == 0 {
		itemCount = len(videos)
	}
	thumbnail := payload.Thumbnail
	if thumbnail == "" && len(videos) > 0 {
		thumbnail = videos[0].ThumbnailURL
	}
	return store.PlaylistMetadata{
		ID:           payload.PlaylistID,
		Title:        payload.Title,
		ChannelTitle: payload.Channel,
		ThumbnailURL: thumbnail,
		ItemCount:    itemCount,
		Videos:       videos,
	}, nil
}

// Ask calls POST /ai/chat.
func (c *Client) Ask(ctx context.Context, req services.AskRequest) (services.AskResponse, error) {
	var resp chatResponse
	body := chatRequest{VideoURL: req.ResourceURL, Message: req.Message, Language: req.Language}
	if err := c.post(ctx, "/ai/chat", body, &resp); err != nil {
		return services.AskResponse{}, err
	}
	return services.AskResponse{Response: resp.Response, Suggestions: resp.Suggestions}, nil
}

func (p videoPayload) toVideo() store.VideoMetadata {
	v := store.VideoMetadata{
		ID:           p.VideoID,
		Title:        p.Title,
		ChannelTitle: p.Channel,
		PublishedAt:  uploadDate(p.UploadDate),
		ThumbnailURL: p.Thumbnail,
	}
	if p.Duration != nil {
		v.Duration = youtube.FormatDuration(*p.Duration)
	}
	if v.ThumbnailURL == "" && v.ID != "" {
		v.ThumbnailURL = youtube.ThumbnailURL(v.ID)
	}
	return v
}

// uploadDate turns the backend's YYYYMMDD dates into ISO dates and passes
// anything else through.
func uploadDate(raw string) string {
	if t, err := time.Parse("20060102", raw); err == nil {
		return t.Format("2006-01-02")
	}
	return raw
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build backend request: %w", err)
	}
	return c.do(req, path, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode backend request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Endpoint: path, StatusCode: resp.StatusCode, Detail: errorDetail(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode backend %s response: %w", path, err)
	}
	return nil
}

// errorDetail extracts FastAPI's {"detail": ...} message, falling back to the raw body.
func errorDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Detail) > 0 {
		var text string
		if json.Unmarshal(body.Detail, &text) == nil {
			return text
		}
		return string(body.Detail)
	}
	return strings.TrimSpace(string(raw))
}
