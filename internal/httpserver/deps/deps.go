package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/easylaunch/internal/catalog"
	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/launch"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
	"github.com/MrSnakeDoc/easylaunch/internal/onboarding"
	"github.com/MrSnakeDoc/easylaunch/internal/settings"
)

// CatalogStatus reports the state of the app catalog service.
type CatalogStatus interface {
	Status() catalog.Status
}

// Favorites exposes the reconciled catalog. *favorites.Reconciler implements it.
type Favorites interface {
	Current() (domain.Catalog, bool)
	Subscribe(ctx context.Context) <-chan domain.Catalog
	SetFavorites(ctx context.Context, apps []domain.AppRecord) error
}

// Launcher starts activities. *launch.Launcher implements it.
type Launcher interface {
	Launch(ctx context.Context, id domain.ActivityIdentitySer) (domain.AppRecord, error)
	Usage(ctx context.Context) ([]launch.Usage, error)
}

// Settings is the display settings store. *settings.Store implements it.
type Settings interface {
	Get() settings.Settings
	Set(next settings.Settings) error
	CompleteOnboarding()
}

// Onboarding exposes the onboarding state. *onboarding.Tracker implements it.
type Onboarding interface {
	Current() (onboarding.State, bool)
}

// Check probes one backing component (favorites backend, ...).
type Check func(ctx context.Context) error

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	AllowedCIDRS     []string // IPs allowed to access reload/readyz/metrics endpoints
	TrustProxy       bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	LaunchBurst      int      // launches allowed in a burst per client IP
	LaunchRefillRate int      // launches regained per minute per client IP

	Catalog    CatalogStatus
	Favorites  Favorites
	Launcher   Launcher
	Settings   Settings
	Onboarding Onboarding

	FavoritesBackend string           // "sqlite" | "redis" | "memory"
	Checks           map[string]Check // readiness probes by component name
	ManifestFile     string           // Path to the activities manifest
	ReloadTrigger    chan struct{}    // Channel to trigger manual manifest reload
}
