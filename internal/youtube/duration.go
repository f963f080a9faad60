package youtube

import (
	"fmt"
	"strconv"
	"strings"
)

// Timestamp anchors a message or note to a position in a video.
type Timestamp struct {
	Seconds   float64 `json:"seconds"`
	Formatted string  `json:"formatted"`
}

// TimestampAt builds the Timestamp for a playback position.
func TimestampAt(seconds float64) Timestamp {
	if seconds < 0 {
		seconds = 0
	}
	return Timestamp{Seconds: seconds, Formatted: FormatDuration(int(seconds))}
}

// FormatDuration renders seconds as M:SS, or H:MM:SS from one hour on.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseDuration is the inverse of FormatDuration. It also accepts a plain
// number of seconds.
func ParseDuration(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("parse duration: empty value")
	}

	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("parse duration %q: too many fields", value)
	}

	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse duration %q: invalid field %q", value, part)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("parse duration %q: field %q out of range", value, part)
		}
		total = total*60 + n
	}
	return total, nil
}
