package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yougen/yougen/internal/services"
	"github.com/yougen/yougen/internal/youtube"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/api/", Timeout: 5 * time.Second})
}

func TestFetchVideo(t *testing.T) {
	videoURL := youtube.VideoURL("dQw4w9WgXcQ")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/youtube/metadata" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("url"); got != videoURL {
			t.Errorf("url param = %q", got)
		}
		_, _ = w.Write([]byte(`{"platform":"youtube","video_id":"dQw4w9WgXcQ","title":"Never Gonna","duration":213,"upload_date":"20091025","channel":"Rick Astley"}`))
	})

	v, err := client.FetchVideo(context.Background(), videoURL)
	if err != nil {
		t.Fatalf("FetchVideo: %v", err)
	}
	if v.ID != "dQw4w9WgXcQ" || v.Title != "Never Gonna" || v.ChannelTitle != "Rick Astley" {
		t.Fatalf("unexpected video %+v", v)
	}
	if v.Duration != "3:33" || v.PublishedAt != "2009-10-25" {
		t.Fatalf("unexpected conversions %+v", v)
	}
	if v.ThumbnailURL != "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Fatalf("expected default thumbnail, got %q", v.ThumbnailURL)
	}
}

func TestFetchPlaylist(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/youtube/playlist" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"platform":"youtube","playlist_id":"PLabc","title":"Talks","channel":"Conf","videos":[
			{"video_id":"aaaaaaaaaaa","title":"A","thumbnail":"https://img/a.jpg","duration":3700},
			{"video_id":"bbbbbbbbbbb","title":"B"}]}`))
	})

	p, err := client.FetchPlaylist(context.Background(), youtube.PlaylistURL("PLabc"))
	if err != nil {
		t.Fatalf("FetchPlaylist: %v", err)
	}
	if p.ID != "PLabc" || p.ItemCount != 2 || len(p.Videos) != 2 {
		t.Fatalf("unexpected playlist %+v", p)
	}
	if p.ThumbnailURL != "https://img/a.jpg" || p.Videos[0].Duration != "1:01:40" || p.Videos[1].Duration != "" {
		t.Fatalf("unexpected playlist details %+v", p)
	}
}

func TestAsk(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/ai/chat" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body chatRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Message != "why?" || body.Language != "en" || body.VideoURL == "" {
			t.Errorf("unexpected body %+v", body)
		}
		_, _ = w.Write([]byte(`{"response":"because","suggestions":["and then?"],"video_id":"x"}`))
	})

	resp, err := client.Ask(context.Background(), services.AskRequest{
		ResourceURL: youtube.VideoURL("dQw4w9WgXcQ"),
		Message:     "why?",
		Language:    "en",
	})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Response != "because" || len(resp.Suggestions) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{name: "fastapi detail", status: http.StatusNotFound, body: `{"detail":"Could not extract video metadata"}`, detail: "Could not extract video metadata"},
		{name: "structured detail", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"field required"}]}`, detail: `[{"msg":"field required"}]`},
		{name: "plain body", status: http.StatusBadGateway, body: "upstream down\n", detail: "upstream down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.FetchVideo(context.Background(), "u")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Detail != tt.detail || apiErr.Endpoint != "/youtube/metadata" {
				t.Fatalf("unexpected error %+v", apiErr)
			}
		})
	}
}

func TestDecodeErrorAndTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	if _, err := client.FetchVideo(context.Background(), "u"); err == nil {
		t.Fatalf("expected decode error")
	}

	slow := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := slow.FetchVideo(ctx, "u"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	if c.baseURL != defaultBaseURL || c.httpClient.Timeout != defaultHTTPTimeout {
		t.Fatalf("unexpected defaults %+v", c)
	}
	custom := &http.Client{}
	if got := NewClient(Config{}, WithHTTPClient(custom)); got.httpClient != custom {
		t.Fatalf("WithHTTPClient not applied")
	}
}
