package scheduler

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
	"github.com/MrSnakeDoc/easylaunch/internal/metrics"
)

const (
	// DefaultUsageThreshold is how long an activity may stay uninstalled
	// before its launch counter is deleted
	DefaultUsageThreshold = 30 * 24 * time.Hour // 30 days
)

// Catalog exposes the last published app catalog
type Catalog interface {
	Current() ([]domain.AppRecord, bool)
}

// LaunchCounters is the part of a favorites backend holding launch counters
type LaunchCounters interface {
	LaunchCounts(ctx context.Context) (map[domain.ActivityIdentitySer]int64, error)
	ForgetLaunches(ctx context.Context, ids ...domain.ActivityIdentitySer) error
}

// UsageCollector deletes launch counters of activities that have been
// missing from the catalog for longer than the threshold. An app that is
// reinstalled within the threshold keeps its history.
type UsageCollector struct {
	catalog   Catalog
	counters  LaunchCounters
	logger    logger.Logger
	clock     clockwork.Clock
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}

	// missingSince is only touched from Collect
	missingSince map[domain.ActivityIdentitySer]time.Time
}

// NewUsageCollector creates a new usage collector
func NewUsageCollector(
	catalog Catalog,
	counters LaunchCounters,
	log logger.Logger,
	clock clockwork.Clock,
	interval time.Duration,
	threshold time.Duration,
) *UsageCollector {
	if threshold == 0 {
		threshold = DefaultUsageThreshold
	}

	return &UsageCollector{
		catalog:      catalog,
		counters:     counters,
		logger:       log,
		clock:        clock,
		interval:     interval,
		threshold:    threshold,
		stopCh:       make(chan struct{}),
		missingSince: make(map[domain.ActivityIdentitySer]time.Time),
	}
}

// Start begins the periodic collection process
func (uc *UsageCollector) Start(ctx context.Context) {
	ticker := uc.clock.NewTicker(uc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				if _, err := uc.Collect(ctx); err != nil {
					uc.logger.Error("usage collection failed", logger.Error(err))
				}
			case <-uc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the collector
func (uc *UsageCollector) Stop() {
	close(uc.stopCh)
}

// Collect runs one pass and returns the number of counters deleted.
// It does nothing before the first catalog is published: an empty view at
// startup must not read as "everything was uninstalled".
func (uc *UsageCollector) Collect(ctx context.Context) (int, error) {
	apps, ok := uc.catalog.Current()
	if !ok {
		uc.logger.Debug("no catalog yet, skipping usage collection")
		return 0, nil
	}

	counts, err := uc.counters.LaunchCounts(ctx)
	if err != nil {
		return 0, err
	}

	installed := make(map[domain.ActivityIdentitySer]bool, len(apps))
	for _, app := range apps {
		installed[app.Serial] = true
	}

	now := uc.clock.Now()
	var expired []domain.ActivityIdentitySer

	for id := range counts {
		if installed[id] {
			delete(uc.missingSince, id)
			continue
		}

		since, seen := uc.missingSince[id]
		if !seen {
			uc.missingSince[id] = now
			continue
		}
		if now.Sub(since) >= uc.threshold {
			expired = append(expired, id)
		}
	}

	// Forget bookkeeping for counters deleted elsewhere
	for id := range uc.missingSince {
		if _, ok := counts[id]; !ok {
			delete(uc.missingSince, id)
		}
	}

	if len(expired) == 0 {
		uc.logger.Debug("no launch counters to collect")
		return 0, nil
	}

	if err := uc.counters.ForgetLaunches(ctx, expired...); err != nil {
		return 0, err
	}
	for _, id := range expired {
		delete(uc.missingSince, id)
		uc.logger.Info("collected launch counter of uninstalled activity",
			logger.Stringer("activity", id))
	}
	metrics.UsageCollectedTotal.Add(float64(len(expired)))

	return len(expired), nil
}
