// Package catalog enumerates launchable activities and republishes the
// sorted app list every time the installed set changes.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"image"
	"slices"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/iconnorm"
	"github.com/MrSnakeDoc/easylaunch/internal/identity"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
	"github.com/MrSnakeDoc/easylaunch/internal/metrics"
	"github.com/MrSnakeDoc/easylaunch/internal/stream"
)

// Options tune how records are built.
type Options struct {
	Density    int                  // icon density requested from the source (ex: 320)
	Locale     language.Tag         // collation used to sort labels
	Normalizer *iconnorm.Normalizer // framing for non-adaptive icons; nil keeps icons as-is
}

// Service owns the published app list.
//
// Every trigger starts a new refresh and cancels the one in flight. Only
// the most recently triggered refresh may publish, so subscribers never see
// an older install state after a newer one.
type Service struct {
	source   Source
	profiles Profiles
	resolver *identity.Resolver
	opts     Options
	logger   logger.Logger
	apps     *stream.Latest[[]domain.AppRecord]

	mu            sync.Mutex
	baseCtx       context.Context
	generation    uint64
	cancel        context.CancelFunc
	running       int
	lastError     error
	lastPublished time.Time

	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewService creates an idle catalog service. Call Start to load it.
func NewService(
	src Source,
	profiles Profiles,
	resolver *identity.Resolver,
	opts Options,
	log logger.Logger,
) *Service {
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}
	return &Service{
		source:   src,
		profiles: profiles,
		resolver: resolver,
		opts:     opts,
		logger:   log,
		apps:     stream.NewLatest[[]domain.AppRecord](),
		baseCtx:  context.Background(),
		stopCh:   make(chan struct{}),
	}
}

// Start triggers the initial refresh and follows the source's change
// notifications until ctx is done or Stop is called.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	changes := s.source.Changes(ctx)
	s.Trigger()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case ev, ok := <-changes:
				if !ok {
					return
				}
				s.logger.Debug("activity change received",
					logger.Stringer("kind", ev.Kind),
					logger.String("profile", string(ev.Profile)),
					logger.Strings("packages", ev.Packages))
				s.Trigger()
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels any in-flight refresh and waits for background work.
func (s *Service) Stop() {
	close(s.stopCh)
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Trigger starts a refresh, superseding the one in flight.
func (s *Service) Trigger() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.cancel = cancel
	s.running++
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()
		s.run(ctx, gen)
	}()
}

// Subscribe streams the app list: the current one, then each new one.
func (s *Service) Subscribe(ctx context.Context) <-chan []domain.AppRecord {
	return s.apps.Subscribe(ctx)
}

// Current returns the last published app list.
func (s *Service) Current() ([]domain.AppRecord, bool) {
	return s.apps.Get()
}

// Status describes the service for health endpoints.
type Status struct {
	Refreshing    bool
	Published     bool
	LastPublished time.Time
	LastError     error
}

// Status returns a snapshot of the service state.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Refreshing:    s.running > 0,
		Published:     s.apps.Version() > 0,
		LastPublished: s.lastPublished,
		LastError:     s.lastError,
	}
}

func (s *Service) run(ctx context.Context, gen uint64) {
	start := time.Now()
	apps, err := s.build(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.running--

	switch {
	case ctx.Err() != nil || gen != s.generation:
		metrics.CatalogRefreshTotal.WithLabelValues("superseded").Inc()
		s.logger.Debug("catalog refresh superseded", logger.Uint64("generation", gen))
	case err != nil:
		s.lastError = err
		metrics.CatalogRefreshTotal.WithLabelValues("failed").Inc()
		s.logger.Warn("catalog refresh failed, keeping previous catalog",
			logger.Uint64("generation", gen),
			logger.Error(err))
	default:
		s.lastError = nil
		s.lastPublished = time.Now()
		s.apps.Publish(apps)
		metrics.CatalogRefreshTotal.WithLabelValues("published").Inc()
		metrics.CatalogRefreshDuration.Observe(time.Since(start).Seconds())
		metrics.CatalogApps.Set(float64(len(apps)))
		s.logger.Info("catalog published",
			logger.Uint64("generation", gen),
			logger.Int("apps", len(apps)),
			logger.Duration("took", time.Since(start)))
	}
}

// build runs one full enumeration. It never publishes.
func (s *Service) build(ctx context.Context) ([]domain.AppRecord, error) {
	infos, err := s.enumerate(ctx)
	if err != nil {
		return nil, err
	}

	apps := make([]domain.AppRecord, 0, len(infos))
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := s.resolver.IdentityOf(info)
		if s.resolver.IsSelf(id) {
			continue
		}

		icon, err := s.icon(info)
		if err != nil {
			return nil, fmt.Errorf("icon of %s: %w", id, err)
		}

		apps = append(apps, domain.AppRecord{
			Label:    info.Label,
			Icon:     icon,
			Identity: id,
			Serial:   s.resolver.Serialize(id),
		})
	}

	collator := collate.New(s.opts.Locale)
	slices.SortStableFunc(apps, func(a, b domain.AppRecord) int {
		return collator.CompareString(a.Label, b.Label)
	})
	return apps, nil
}

// enumerate queries every profile. Failing profiles are skipped as long as
// at least one succeeds.
func (s *Service) enumerate(ctx context.Context) ([]domain.ActivityInfo, error) {
	profiles := s.profiles.Profiles()

	if len(profiles) <= 1 {
		primary := s.profiles.Primary()
		if primary.IsZero() {
			return nil, errors.New("no user profile available")
		}
		infos, err := s.source.Activities(ctx, primary)
		if err != nil {
			return nil, fmt.Errorf("query profile %s: %w", primary, err)
		}
		return infos, nil
	}

	var (
		infos  []domain.ActivityInfo
		failed int
		errs   []error
	)
	for _, p := range profiles {
		list, err := s.source.Activities(ctx, p)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failed++
			errs = append(errs, fmt.Errorf("profile %s: %w", p, err))
			metrics.ProfileQueryErrors.Inc()
			s.logger.Warn("failed to query profile, skipping",
				logger.String("profile", string(p)),
				logger.Error(err))
			continue
		}
		infos = append(infos, list...)
	}
	if failed == len(profiles) {
		return nil, errors.Join(errs...)
	}
	return infos, nil
}

func (s *Service) icon(info domain.ActivityInfo) (image.Image, error) {
	raw, fallback, err := iconOrNil(info.Icon, s.opts.Density)
	if err != nil {
		return nil, err
	}
	if fallback != "" {
		metrics.IconFallbackTotal.WithLabelValues(fallback).Inc()
		s.logger.Debug("icon unavailable, showing none",
			logger.String("package", info.Package),
			logger.String("kind", fallback))
		return nil, nil
	}
	if raw.Image == nil || raw.Adaptive || s.opts.Normalizer == nil {
		return raw.Image, nil
	}
	return s.opts.Normalizer.Normalize(raw.Image), nil
}
