// Package onboarding derives whether the first-run walkthrough should be
// shown. It only reads the catalog and settings streams.
package onboarding

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
	"github.com/MrSnakeDoc/easylaunch/internal/settings"
	"github.com/MrSnakeDoc/easylaunch/internal/stream"
)

// State is what the UI needs to decide on onboarding.
type State struct {
	Required  bool `json:"required"`
	Completed bool `json:"completed"`
	Pinned    int  `json:"pinned"`
	Installed int  `json:"installed"`
}

// Evaluate computes the onboarding state: it is required while the user has
// not completed it and has pinned nothing.
func Evaluate(cat domain.Catalog, s settings.Settings) State {
	return State{
		Required:  !s.OnboardingDone && len(cat.Favorites) == 0,
		Completed: s.OnboardingDone,
		Pinned:    len(cat.Favorites),
		Installed: len(cat.AllApps),
	}
}

// Catalogs streams published catalogs. *favorites.Reconciler implements it.
type Catalogs interface {
	Subscribe(ctx context.Context) <-chan domain.Catalog
}

// SettingsSource streams settings. *settings.Store implements it.
type SettingsSource interface {
	Subscribe(ctx context.Context) <-chan settings.Settings
}

// Tracker keeps State up to date.
type Tracker struct {
	catalogs Catalogs
	settings SettingsSource
	logger   logger.Logger
	states   *stream.Latest[State]

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTracker(catalogs Catalogs, settings SettingsSource, log logger.Logger) *Tracker {
	return &Tracker{
		catalogs: catalogs,
		settings: settings,
		logger:   log,
		states:   stream.NewLatest[State](),
	}
}

// Start consumes both streams until Stop or ctx is done. Nothing is
// published until both have delivered a value.
func (t *Tracker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	t.cancel = cancel
	t.done = make(chan struct{})
	done := t.done
	t.mu.Unlock()

	catCh := t.catalogs.Subscribe(ctx)
	setCh := t.settings.Subscribe(ctx)

	go func() {
		defer close(done)

		var (
			cat     domain.Catalog
			set     settings.Settings
			haveCat bool
			haveSet bool
		)
		for {
			select {
			case c, ok := <-catCh:
				if !ok {
					return
				}
				cat, haveCat = c, true
			case s, ok := <-setCh:
				if !ok {
					return
				}
				set, haveSet = s, true
			}
			if !haveCat || !haveSet {
				continue
			}

			next := Evaluate(cat, set)
			if prev, ok := t.states.Get(); !ok || prev != next {
				t.logger.Debug("Onboarding state changed",
					logger.Bool("required", next.Required),
					logger.Int("pinned", next.Pinned))
				t.states.Publish(next)
			}
		}
	}()
}

// Stop stops the tracker and waits for its goroutine.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Current returns the last computed state.
func (t *Tracker) Current() (State, bool) {
	return t.states.Get()
}

// Subscribe streams states, starting with the current one.
func (t *Tracker) Subscribe(ctx context.Context) <-chan State {
	return t.states.Subscribe(ctx)
}
