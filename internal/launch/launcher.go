// Package launch starts catalog activities and counts launches.
package launch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
	"github.com/MrSnakeDoc/easylaunch/internal/metrics"
)

// Starter asks the platform to start an activity.
type Starter interface {
	StartActivity(ctx context.Context, id domain.ActivityIdentity) error
}

// Catalog exposes the last published catalog.
type Catalog interface {
	Current() (domain.Catalog, bool)
}

// Counter keeps launch statistics. Implemented by every favorites backend.
type Counter interface {
	RecordLaunch(ctx context.Context, id domain.ActivityIdentitySer) error
	LaunchCounts(ctx context.Context) (map[domain.ActivityIdentitySer]int64, error)
}

// Launcher starts activities the catalog knows about.
type Launcher struct {
	catalog Catalog
	starter Starter
	counter Counter
	logger  logger.Logger
}

// NewLauncher creates a launcher. counter may be nil.
func NewLauncher(catalog Catalog, starter Starter, counter Counter, log logger.Logger) *Launcher {
	return &Launcher{
		catalog: catalog,
		starter: starter,
		counter: counter,
		logger:  log,
	}
}

// Launch starts the activity persisted as id.
//
// Returns domain.ErrUnknownActivity when id is not in the current catalog and
// domain.ErrLaunchRejected when the platform refuses to start it.
func (l *Launcher) Launch(ctx context.Context, id domain.ActivityIdentitySer) (domain.AppRecord, error) {
	cat, _ := l.catalog.Current()
	app, ok := cat.FindSerialized(id)
	if !ok {
		metrics.LaunchTotal.WithLabelValues("unknown").Inc()
		return domain.AppRecord{}, fmt.Errorf("%w: %s", domain.ErrUnknownActivity, id)
	}

	if err := l.starter.StartActivity(ctx, app.Identity); err != nil {
		if !errors.Is(err, domain.ErrLaunchRejected) {
			err = fmt.Errorf("%w: %v", domain.ErrLaunchRejected, err)
		}
		metrics.LaunchTotal.WithLabelValues("rejected").Inc()
		l.logger.Warn("Launch rejected",
			logger.Stringer("activity", id),
			logger.Error(err))
		return app, err
	}

	metrics.LaunchTotal.WithLabelValues("ok").Inc()
	l.logger.Info("Launched", logger.Stringer("activity", id), logger.String("label", app.Label))

	// Best effort: a failed counter never fails the launch.
	if l.counter != nil {
		if err := l.counter.RecordLaunch(ctx, id); err != nil {
			l.logger.Warn("Failed to record launch", logger.Stringer("activity", id), logger.Error(err))
		}
	}

	return app, nil
}

// Usage pairs a catalog app with its launch count.
type Usage struct {
	App      domain.AppRecord
	Launches int64
}

// Usage returns launch counts for every app of the current catalog, most
// launched first. Ties keep catalog order. Apps never launched have a zero count.
func (l *Launcher) Usage(ctx context.Context) ([]Usage, error) {
	cat, _ := l.catalog.Current()

	counts := map[domain.ActivityIdentitySer]int64{}
	if l.counter != nil {
		var err error
		if counts, err = l.counter.LaunchCounts(ctx); err != nil {
			return nil, err
		}
	}

	out := make([]Usage, 0, len(cat.AllApps))
	for _, app := range cat.AllApps {
		out = append(out, Usage{App: app, Launches: counts[app.Serial]})
	}
	slices.SortStableFunc(out, func(a, b Usage) int {
		return cmp.Compare(b.Launches, a.Launches)
	})
	return out, nil
}
