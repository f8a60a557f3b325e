// Package favorites merges the persisted favorites list with the live app
// catalog and writes user edits back.
package favorites

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/identity"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
	"github.com/MrSnakeDoc/easylaunch/internal/metrics"
	"github.com/MrSnakeDoc/easylaunch/internal/stream"
)

// DefaultReobserveDelay is the pause before observing the store again after
// its stream ended unexpectedly.
const DefaultReobserveDelay = time.Second

// Reconciler publishes the Catalog: all apps plus the favorites that are
// still installed, in rank order.
//
// The Catalog is recomputed whenever either input changes, using the latest
// value of both. Nothing is published until both inputs produced a value.
type Reconciler struct {
	apps     Apps
	store    Store
	resolver *identity.Resolver
	logger   logger.Logger
	catalog  *stream.Latest[domain.Catalog]
	clock    clockwork.Clock

	reobserveDelay time.Duration
	stopCh         chan struct{}
	wg             sync.WaitGroup
}

// NewReconciler creates a reconciler. Call Start to begin publishing.
func NewReconciler(apps Apps, store Store, resolver *identity.Resolver, log logger.Logger, clock clockwork.Clock) *Reconciler {
	return &Reconciler{
		apps:           apps,
		store:          store,
		resolver:       resolver,
		logger:         log,
		catalog:        stream.NewLatest[domain.Catalog](),
		clock:          clock,
		reobserveDelay: DefaultReobserveDelay,
		stopCh:         make(chan struct{}),
	}
}

// Start subscribes to both inputs. It fails only if the store cannot be
// observed at all.
func (r *Reconciler) Start(ctx context.Context) error {
	favCh, err := r.store.Observe(ctx)
	if err != nil {
		return fmt.Errorf("observe favorites: %w", err)
	}
	appsCh := r.apps.Subscribe(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.loop(ctx, appsCh, favCh)
	}()
	return nil
}

// Stop ends the combination loop.
func (r *Reconciler) Stop() {
	close(r.stopCh)
	r.wg.Wait()
}

// Subscribe streams the Catalog: the current one, then each new one.
func (r *Reconciler) Subscribe(ctx context.Context) <-chan domain.Catalog {
	return r.catalog.Subscribe(ctx)
}

// Current returns the last published Catalog.
func (r *Reconciler) Current() (domain.Catalog, bool) {
	return r.catalog.Get()
}

// SetFavorites persists apps as the new favorites, ranked by position.
// The whole list is replaced in one transaction; storage errors are
// returned as-is, without retry.
func (r *Reconciler) SetFavorites(ctx context.Context, apps []domain.AppRecord) error {
	ids := make([]domain.ActivityIdentitySer, 0, len(apps))
	seen := make(map[domain.ActivityIdentity]struct{}, len(apps))

	for _, app := range apps {
		if _, dup := seen[app.Key()]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateFavorite, app.Identity)
		}
		seen[app.Key()] = struct{}{}

		ser := r.resolver.Serialize(app.Identity)
		if !ser.ProfileSerial.Known() {
			return fmt.Errorf("%w: profile of %s", domain.ErrUnknownActivity, app.Identity)
		}
		ids = append(ids, ser)
	}

	if err := r.store.ReplaceAll(ctx, domain.NewFavoritesList(ids)); err != nil {
		metrics.FavoritesWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("replace favorites: %w", err)
	}

	metrics.FavoritesWritesTotal.WithLabelValues("ok").Inc()
	r.logger.Info("favorites updated", logger.Int("count", len(ids)))
	return nil
}

func (r *Reconciler) loop(ctx context.Context, appsCh <-chan []domain.AppRecord, favCh <-chan domain.FavoritesList) {
	var (
		apps     []domain.AppRecord
		list     domain.FavoritesList
		haveApps bool
		haveList bool
		retry    <-chan time.Time
	)

	for {
		select {
		case next, ok := <-appsCh:
			if !ok {
				return
			}
			apps, haveApps = next, true
		case next, ok := <-favCh:
			if !ok {
				if ctx.Err() != nil {
					return
				}
				r.logger.Warn("favorites stream ended, observing again",
					logger.Duration("delay", r.reobserveDelay))
				favCh = nil
				retry = r.clock.After(r.reobserveDelay)
				continue
			}
			list, haveList = next, true
		case <-retry:
			retry = nil
			ch, err := r.store.Observe(ctx)
			if err != nil {
				r.logger.Warn("failed to observe favorites", logger.Error(err))
				retry = r.clock.After(r.reobserveDelay)
				continue
			}
			favCh = ch
			continue
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		}

		if haveApps && haveList {
			r.publish(apps, list)
		}
	}
}

func (r *Reconciler) publish(apps []domain.AppRecord, list domain.FavoritesList) {
	favorites, dropped := Reconcile(apps, list, r.resolver)
	for _, d := range dropped {
		metrics.FavoritesDroppedTotal.WithLabelValues(string(d.Reason)).Inc()
		r.logger.Debug("favorite skipped",
			logger.Stringer("identity", d.Favorite.Identity),
			logger.String("reason", string(d.Reason)))
	}

	r.catalog.Publish(domain.Catalog{
		AllApps:   apps,
		Favorites: favorites,
	})
}
