package youtube

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind Kind
		id   string
	}{
		{name: "watch", in: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", kind: KindVideo, id: "dQw4w9WgXcQ"},
		{name: "watch without scheme", in: "youtube.com/watch?v=dQw4w9WgXcQ&t=42", kind: KindVideo, id: "dQw4w9WgXcQ"},
		{name: "short link", in: "https://youtu.be/dQw4w9WgXcQ?si=abc", kind: KindVideo, id: "dQw4w9WgXcQ"},
		{name: "shorts", in: "https://www.youtube.com/shorts/dQw4w9WgXcQ", kind: KindVideo, id: "dQw4w9WgXcQ"},
		{name: "embed", in: "https://www.youtube.com/embed/dQw4w9WgXcQ", kind: KindVideo, id: "dQw4w9WgXcQ"},
		{name: "live", in: "https://www.youtube.com/live/dQw4w9WgXcQ", kind: KindVideo, id: "dQw4w9WgXcQ"},
		{name: "mobile", in: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", kind: KindVideo, id: "dQw4w9WgXcQ"},
		{name: "music", in: "https://music.youtube.com/watch?v=dQw4w9WgXcQ", kind: KindVideo, id: "dQw4w9WgXcQ"},
		{name: "video wins over list", in: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLabc123", kind: KindVideo, id: "dQw4w9WgXcQ"},
		{name: "playlist", in: "https://www.youtube.com/playlist?list=PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf", kind: KindPlaylist, id: "PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf"},
		{name: "watch with only list", in: "https://www.youtube.com/watch?list=PLabc123", kind: KindPlaylist, id: "PLabc123"},
		{name: "bare id", in: "dQw4w9WgXcQ", kind: KindVideo, id: "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got.Kind != tt.kind || got.ID != tt.id {
				t.Fatalf("Parse(%q) = %+v, want %s %s", tt.in, got, tt.kind, tt.id)
			}
		})
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"https://vimeo.com/123456",
		"https://www.youtube.com/watch?v=short",
		"https://www.youtube.com/channel/UC123",
		"https://youtu.be/",
		"https://www.youtube.com/playlist",
	}
	for _, in := range inputs {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidURL", in, err)
		}
	}
}

func TestCanonicalURLs(t *testing.T) {
	if got := VideoURL("dQw4w9WgXcQ"); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Fatalf("VideoURL = %q", got)
	}
	if got := PlaylistURL("PLabc"); got != "https://www.youtube.com/playlist?list=PLabc" {
		t.Fatalf("PlaylistURL = %q", got)
	}
	if got := ThumbnailURL("dQw4w9WgXcQ"); got != "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Fatalf("ThumbnailURL = %q", got)
	}
}

func TestFormatAndParseDuration(t *testing.T) {
	tests := []struct {
		seconds int
		text    string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{75, "1:15"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.text {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.text)
		}
		got, err := ParseDuration(tt.text)
		if err != nil || got != tt.seconds {
			t.Errorf("ParseDuration(%q) = %d, %v, want %d", tt.text, got, err, tt.seconds)
		}
	}

	if got, err := ParseDuration("360"); err != nil || got != 360 {
		t.Errorf("ParseDuration(360) = %d, %v", got, err)
	}
	for _, bad := range []string{"", "1:2:3:4", "a:00", "1:75"} {
		if _, err := ParseDuration(bad); err == nil {
			t.Errorf("ParseDuration(%q) expected error", bad)
		}
	}
}

func TestTimestampAt(t *testing.T) {
	ts := TimestampAt(125.6)
	if ts.Seconds != 125.6 || ts.Formatted != "2:05" {
		t.Fatalf("unexpected timestamp %+v", ts)
	}
	if ts := TimestampAt(-3); ts.Seconds != 0 || ts.Formatted != "0:00" {
		t.Fatalf("negative position not clamped: %+v", ts)
	}
}
