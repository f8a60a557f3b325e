// Package settings holds the launcher's display preferences.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/easylaunch/internal/stream"
)

// ErrInvalid is returned for out-of-range settings.
var ErrInvalid = errors.New("invalid settings")

// Scale bounds, shared by icon and text scale.
const (
	MinScale = 0.5
	MaxScale = 3.0
)

// WallpaperStyle selects how the wallpaper is shown behind the app grid.
type WallpaperStyle string

const (
	WallpaperNone WallpaperStyle = "none"
	WallpaperDim  WallpaperStyle = "dim"
	WallpaperFull WallpaperStyle = "full"
)

// Valid reports whether s is a known style.
func (s WallpaperStyle) Valid() bool {
	switch s {
	case WallpaperNone, WallpaperDim, WallpaperFull:
		return true
	}
	return false
}

// Settings are the user-facing display preferences.
type Settings struct {
	IconScale      float64        `json:"icon_scale"`
	TextScale      float64        `json:"text_scale"`
	WallpaperStyle WallpaperStyle `json:"wallpaper_style"`
	OnboardingDone bool           `json:"onboarding_done"`
}

// Defaults returns the settings of a fresh install.
func Defaults() Settings {
	return Settings{
		IconScale:      1,
		TextScale:      1,
		WallpaperStyle: WallpaperDim,
	}
}

// inScale is false for NaN.
func inScale(v float64) bool {
	return v >= MinScale && v <= MaxScale
}

// Validate checks every field.
func (s Settings) Validate() error {
	if !inScale(s.IconScale) {
		return fmt.Errorf("%w: icon scale %.2f not in [%.1f, %.1f]", ErrInvalid, s.IconScale, MinScale, MaxScale)
	}
	if !inScale(s.TextScale) {
		return fmt.Errorf("%w: text scale %.2f not in [%.1f, %.1f]", ErrInvalid, s.TextScale, MinScale, MaxScale)
	}
	if !s.WallpaperStyle.Valid() {
		return fmt.Errorf("%w: wallpaper style %q", ErrInvalid, s.WallpaperStyle)
	}
	return nil
}

// Store keeps the settings in memory and broadcasts every change.
type Store struct {
	mu      sync.Mutex
	current Settings
	updates *stream.Latest[Settings]
}

// NewStore creates a store seeded with initial.
func NewStore(initial Settings) (*Store, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	s := &Store{
		current: initial,
		updates: stream.NewLatest[Settings](),
	}
	s.updates.Publish(initial)
	return s, nil
}

// Get returns the current settings.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the settings after validation.
func (s *Store) Set(next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = next
	s.updates.Publish(next)
	return nil
}

// CompleteOnboarding marks onboarding as done.
func (s *Store) CompleteOnboarding() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.OnboardingDone {
		return
	}
	s.current.OnboardingDone = true
	s.updates.Publish(s.current)
}

// Subscribe streams settings, starting with the current value.
func (s *Store) Subscribe(ctx context.Context) <-chan Settings {
	return s.updates.Subscribe(ctx)
}
