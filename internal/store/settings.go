package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yougen/yougen/internal/kv"
	"github.com/yougen/yougen/internal/logging"
)

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Quality is the preferred download quality.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// Accepted ranges for numeric settings.
const (
	MinFontScale     = 0.8
	MaxFontScale     = 1.4
	MinPlaybackSpeed = 0.25
	MaxPlaybackSpeed = 2.0
)

// Settings is the single application preferences record.
type Settings struct {
	Theme                  Theme   `json:"theme"`
	FontScale              float64 `json:"fontScale"`
	Autoplay               bool    `json:"autoplay"`
	DefaultPlaybackSpeed   float64 `json:"defaultPlaybackSpeed"`
	DefaultVolume          float64 `json:"defaultVolume"`
	DefaultDownloadQuality Quality `json:"defaultDownloadQuality"`
	AutosaveNotes          bool    `json:"autosaveNotes"`
	EnableNotifications    bool    `json:"enableNotifications"`
	NotifyNewSummaries     bool    `json:"notifyNewSummaries"`
	NotifyTranscriptReady  bool    `json:"notifyTranscriptReady"`
	NotifyNotesSaved       bool    `json:"notifyNotesSaved"`
}

// DefaultSettings returns the preferences used for keys missing from storage.
func DefaultSettings() Settings {
	return Settings{
		Theme:                  ThemeSystem,
		FontScale:              1.0,
		Autoplay:               true,
		DefaultPlaybackSpeed:   1.0,
		DefaultVolume:          1.0,
		DefaultDownloadQuality: QualityMedium,
		AutosaveNotes:          true,
		EnableNotifications:    true,
		NotifyNewSummaries:     true,
		NotifyTranscriptReady:  true,
		NotifyNotesSaved:       false,
	}
}

// Validate reports the first out-of-range field.
func (s Settings) Validate() error {
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return &ValidationError{Field: "theme", Message: fmt.Sprintf("%q is not light, dark or system", s.Theme)}
	}
	if s.FontScale < MinFontScale || s.FontScale > MaxFontScale {
		return &ValidationError{Field: "fontScale", Message: fmt.Sprintf("%g is outside %g-%g", s.FontScale, MinFontScale, MaxFontScale)}
	}
	if s.DefaultPlaybackSpeed < MinPlaybackSpeed || s.DefaultPlaybackSpeed > MaxPlaybackSpeed {
		return &ValidationError{Field: "defaultPlaybackSpeed", Message: fmt.Sprintf("%g is outside %g-%g", s.DefaultPlaybackSpeed, MinPlaybackSpeed, MaxPlaybackSpeed)}
	}
	if s.DefaultVolume < 0 || s.DefaultVolume > 1 {
		return &ValidationError{Field: "defaultVolume", Message: fmt.Sprintf("%g is outside 0-1", s.DefaultVolume)}
	}
	switch s.DefaultDownloadQuality {
	case QualityLow, QualityMedium, QualityHigh:
	default:
		return &ValidationError{Field: "defaultDownloadQuality", Message: fmt.Sprintf("%q is not low, medium or high", s.DefaultDownloadQuality)}
	}
	return nil
}

// SettingsStore persists the Settings record as one JSON object.
type SettingsStore struct {
	medium   kv.Medium
	mu       *sync.Mutex
	logger   *slog.Logger
	defaults Settings
}

// Defaults returns the record Load falls back to.
func (s *SettingsStore) Defaults() Settings {
	return s.defaults
}

// Load returns the stored settings with defaults for every key missing from
// storage. Stored false and zero values are kept. Unreadable data yields the
// defaults, and out-of-range stored values are replaced by their default.
func (s *SettingsStore) Load(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.medium.Get(ctx, KeySettings)
	if err != nil {
		return Settings{}, fmt.Errorf("read %s: %w", KeySettings, err)
	}
	if !ok || len(raw) == 0 {
		return s.defaults, nil
	}

	merged := s.defaults
	if err := json.Unmarshal(raw, &merged); err != nil {
		s.logger.Warn("discarding unreadable settings", logging.FieldCollection, KeySettings, "error", err)
		return s.defaults, nil
	}
	return s.normalize(merged), nil
}

// Save overwrites the stored record with settings after validating it.
func (s *SettingsStore) Save(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return &WriteError{Collection: KeySettings, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.medium.Set(ctx, KeySettings, data); err != nil {
		return &WriteError{Collection: KeySettings, Err: err}
	}
	return nil
}

// Reset removes the stored record so Load returns the defaults.
func (s *SettingsStore) Reset(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.medium.Delete(ctx, KeySettings); err != nil {
		return Settings{}, &WriteError{Collection: KeySettings, Err: err}
	}
	return s.defaults, nil
}

func (s *SettingsStore) normalize(in Settings) Settings {
	out := in
	d := s.defaults
	reset := func(field string, value any) {
		s.logger.Warn("stored setting out of range, using default", "field", field, "value", value)
	}

	switch out.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		reset("theme", out.Theme)
		out.Theme = d.Theme
	}
	if out.FontScale < MinFontScale || out.FontScale > MaxFontScale {
		reset("fontScale", out.FontScale)
		out.FontScale = d.FontScale
	}
	if out.DefaultPlaybackSpeed < MinPlaybackSpeed || out.DefaultPlaybackSpeed > MaxPlaybackSpeed {
		reset("defaultPlaybackSpeed", out.DefaultPlaybackSpeed)
		out.DefaultPlaybackSpeed = d.DefaultPlaybackSpeed
	}
	if out.DefaultVolume < 0 || out.DefaultVolume > 1 {
		reset("defaultVolume", out.DefaultVolume)
		out.DefaultVolume = d.DefaultVolume
	}
	switch out.DefaultDownloadQuality {
	case QualityLow, QualityMedium, QualityHigh:
	default:
		reset("defaultDownloadQuality", out.DefaultDownloadQuality)
		out.DefaultDownloadQuality = d.DefaultDownloadQuality
	}
	return out
}
