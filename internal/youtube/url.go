// Package youtube parses YouTube links and formats video positions.
package youtube

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned when input is not a recognised YouTube video or playlist link.
var ErrInvalidURL = errors.New("invalid YouTube URL")

// Kind distinguishes videos from playlists.
type Kind string

const (
	KindVideo    Kind = "video"
	KindPlaylist Kind = "playlist"
)

// Resource is the result of parsing a YouTube link.
type Resource struct {
	Kind Kind   `json:"type"`
	ID   string `json:"id"`
	URL  string `json:"url"`
}

var (
	videoIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	playlistIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{2,64}$`)
)

var longHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
}

// Parse recognises watch, share, shorts, embed, live and playlist links. A
// watch link carrying both a video and a playlist resolves to the video.
// Bare ids are accepted as a convenience for the CLI.
func Parse(raw string) (Resource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Resource{}, ErrInvalidURL
	}
	if videoIDPattern.MatchString(raw) {
		return video(raw), nil
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Resource{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	host := strings.ToLower(u.Hostname())
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch {
	case host == "youtu.be" || host == "www.youtu.be":
		if len(segments) >= 1 && videoIDPattern.MatchString(segments[0]) {
			return video(segments[0]), nil
		}
	case longHosts[host]:
		query := u.Query()
		switch segments[0] {
		case "watch":
			if id := query.Get("v"); videoIDPattern.MatchString(id) {
				return video(id), nil
			}
			if id := query.Get("list"); playlistIDPattern.MatchString(id) {
				return playlist(id), nil
			}
		case "playlist":
			if id := query.Get("list"); playlistIDPattern.MatchString(id) {
				return playlist(id), nil
			}
		case "shorts", "embed", "live", "v":
			if len(segments) >= 2 && videoIDPattern.MatchString(segments[1]) {
				return video(segments[1]), nil
			}
		}
	}
	return Resource{}, ErrInvalidURL
}

// VideoURL returns the canonical watch URL for id.
func VideoURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}

// PlaylistURL returns the canonical playlist URL for id.
func PlaylistURL(id string) string {
	return "https://www.youtube.com/playlist?list=" + url.QueryEscape(id)
}

// ThumbnailURL returns the high quality default thumbnail for a video id.
func ThumbnailURL(id string) string {
	return "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
}

func video(id string) Resource {
	return Resource{Kind: KindVideo, ID: id, URL: VideoURL(id)}
}

func playlist(id string) Resource {
	return Resource{Kind: KindPlaylist, ID: id, URL: PlaylistURL(id)}
}
