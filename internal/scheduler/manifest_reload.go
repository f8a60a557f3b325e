package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MrSnakeDoc/easylaunch/internal/logger"
	"github.com/MrSnakeDoc/easylaunch/internal/sources/manifest"
)

// ManifestReloader periodically re-reads the activities manifest and applies
// it to the source, which turns differences into change notifications.
type ManifestReloader struct {
	loader        *manifest.Loader
	source        *manifest.Source
	logger        logger.Logger
	clock         clockwork.Clock
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger <-chan struct{}
}

// NewManifestReloader creates a new manifest reloader
func NewManifestReloader(
	loader *manifest.Loader,
	source *manifest.Source,
	log logger.Logger,
	clock clockwork.Clock,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *ManifestReloader {
	return &ManifestReloader{
		loader:        loader,
		source:        source,
		logger:        log,
		clock:         clock,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the manifest once, then reloads it on every tick and manual trigger.
// A broken manifest at startup is fatal; later on the previous one is kept.
func (mr *ManifestReloader) Start(ctx context.Context) error {
	if err := mr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := mr.clock.NewTicker(mr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				if err := mr.Reload(ctx); err != nil {
					mr.logger.Error("failed to reload manifest", logger.Error(err))
				}
			case <-mr.manualTrigger:
				mr.logger.Info("manual reload triggered")
				if err := mr.Reload(ctx); err != nil {
					mr.logger.Error("failed to reload manifest", logger.Error(err))
				}
			case <-mr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (mr *ManifestReloader) Stop() {
	close(mr.stopCh)
}

// Reload reads the manifest and applies it.
func (mr *ManifestReloader) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := mr.loader.Load()
	if err != nil {
		return err
	}

	events := mr.source.Apply(m)
	mr.logger.Debug("manifest reloaded",
		logger.String("path", mr.loader.Path()),
		logger.Int("changes", len(events)))
	return nil
}
