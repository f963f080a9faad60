package store

import (
	"context"
	"errors"
	"testing"

	"github.com/yougen/yougen/internal/kv"
	"github.com/yougen/yougen/internal/logging"
)

func TestSettingsLoadPreservesFalsyValues(t *testing.T) {
	ctx := context.Background()
	s, medium, _ := newTestStore(t)
	if err := medium.Set(ctx, KeySettings, []byte(`{"autoplay":false,"notifyNewSummaries":false,"defaultVolume":0}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := s.Settings.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Autoplay || got.NotifyNewSummaries || got.DefaultVolume != 0 {
		t.Fatalf("stored falsy values replaced by defaults: %+v", got)
	}
	if got.FontScale != 1.0 || got.Theme != ThemeSystem || !got.AutosaveNotes {
		t.Fatalf("missing keys not filled from defaults: %+v", got)
	}
}

func TestSettingsLoadWithCallerDefaults(t *testing.T) {
	ctx := context.Background()
	medium := kv.NewMemory()
	defaults := Settings{
		Theme:                  ThemeDark,
		FontScale:              1.0,
		Autoplay:               true,
		DefaultPlaybackSpeed:   1.5,
		DefaultVolume:          0.5,
		DefaultDownloadQuality: QualityHigh,
	}
	s := New(medium, Options{Logger: logging.NewNop(), Defaults: &defaults})
	_ = medium.Set(ctx, KeySettings, []byte(`{"autoplay":false}`))

	got, _ := s.Settings.Load(ctx)
	want := defaults
	want.Autoplay = false
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSettingsLoadFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"", "{broken", "[1,2]", `{"autoplay":"yes"}`} {
		s, medium, _ := newTestStore(t)
		if raw != "" {
			_ = medium.Set(ctx, KeySettings, []byte(raw))
		}
		got, err := s.Settings.Load(ctx)
		if err != nil {
			t.Fatalf("Load(%q): %v", raw, err)
		}
		if got != DefaultSettings() {
			t.Fatalf("Load(%q) = %+v, want defaults", raw, got)
		}
	}
}

func TestSettingsLoadNormalisesOutOfRange(t *testing.T) {
	ctx := context.Background()
	s, medium, _ := newTestStore(t)
	_ = medium.Set(ctx, KeySettings, []byte(`{"theme":"neon","fontScale":3,"defaultVolume":1.5,"defaultPlaybackSpeed":0.1,"defaultDownloadQuality":"4k","autoplay":false}`))

	got, _ := s.Settings.Load(ctx)
	want := DefaultSettings()
	want.Autoplay = false
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSettingsSaveRoundTripAndValidation(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	custom := DefaultSettings()
	custom.Theme = ThemeDark
	custom.FontScale = 1.2
	custom.NotifyNotesSaved = true
	if err := s.Settings.Save(ctx, custom); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := s.Settings.Load(ctx)
	if got != custom {
		t.Fatalf("got %+v, want %+v", got, custom)
	}

	invalid := []func(*Settings){
		func(v *Settings) { v.Theme = "sepia" },
		func(v *Settings) { v.FontScale = 0.5 },
		func(v *Settings) { v.DefaultVolume = -0.1 },
		func(v *Settings) { v.DefaultPlaybackSpeed = 2.5 },
		func(v *Settings) { v.DefaultDownloadQuality = "ultra" },
	}
	for i, mutate := range invalid {
		bad := custom
		mutate(&bad)
		err := s.Settings.Save(ctx, bad)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d: expected *ValidationError, got %v", i, err)
		}
	}
	if got, _ := s.Settings.Load(ctx); got != custom {
		t.Fatalf("rejected save changed storage: %+v", got)
	}
}

func TestSettingsResetAndWriteFailure(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	custom := DefaultSettings()
	custom.Autoplay = false
	_ = s.Settings.Save(ctx, custom)

	reset, err := s.Settings.Reset(ctx)
	if err != nil || reset != DefaultSettings() {
		t.Fatalf("Reset = %+v, %v", reset, err)
	}
	if got, _ := s.Settings.Load(ctx); got != DefaultSettings() {
		t.Fatalf("Load after Reset = %+v", got)
	}

	failing := New(failingMedium{err: errDiskGone}, Options{Logger: logging.NewNop()})
	err = failing.Settings.Save(ctx, DefaultSettings())
	if !IsWriteError(err) || !errors.Is(err, errDiskGone) {
		t.Fatalf("expected write error, got %v", err)
	}
	if _, err := failing.Settings.Load(ctx); !errors.Is(err, errDiskGone) {
		t.Fatalf("expected read error, got %v", err)
	}
}
