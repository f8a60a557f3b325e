package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/text/language"

	"github.com/MrSnakeDoc/easylaunch/internal/catalog"
	"github.com/MrSnakeDoc/easylaunch/internal/config"
	"github.com/MrSnakeDoc/easylaunch/internal/favorites"
	"github.com/MrSnakeDoc/easylaunch/internal/httpserver"
	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/easylaunch/internal/iconnorm"
	"github.com/MrSnakeDoc/easylaunch/internal/identity"
	"github.com/MrSnakeDoc/easylaunch/internal/launch"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
	"github.com/MrSnakeDoc/easylaunch/internal/onboarding"
	"github.com/MrSnakeDoc/easylaunch/internal/profiles"
	"github.com/MrSnakeDoc/easylaunch/internal/redis"
	"github.com/MrSnakeDoc/easylaunch/internal/scheduler"
	"github.com/MrSnakeDoc/easylaunch/internal/settings"
	"github.com/MrSnakeDoc/easylaunch/internal/sources/manifest"
	"github.com/MrSnakeDoc/easylaunch/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/easylaunch/internal/store/redis"
	"github.com/MrSnakeDoc/easylaunch/internal/store/sqlite"
	"github.com/MrSnakeDoc/easylaunch/internal/version"
)

// usageStore is the launch counter side of a favorites backend.
type usageStore interface {
	launch.Counter
	scheduler.LaunchCounters
}

// backend is a favorites store plus everything that comes with it.
type backend struct {
	favorites favorites.Store
	usage     usageStore
	checks    map[string]deps.Check
	closer    io.Closer // nil when there is nothing to close
}

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *httpserver.Server
	backend    backend
	reloader   *scheduler.ManifestReloader
	collector  *scheduler.UsageCollector
	catalog    *catalog.Service
	reconciler *favorites.Reconciler
	onboarding *onboarding.Tracker
}

func New(ctx context.Context) (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Open the favorites backend early - fail fast if unavailable
	b, err := openBackend(ctx, cfg, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s favorites backend: %w", cfg.FavoritesBackend, err)
	}
	loggerClient.Info("favorites backend ready", logger.String("backend", cfg.FavoritesBackend))

	// Activity source, fed by the manifest reloader
	source := manifest.NewSource(manifest.BaseDir(cfg.ManifestFile), loggerClient.Named("manifest"))
	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewManifestReloader(
		manifest.NewLoader(cfg.ManifestFile),
		source,
		loggerClient.Named("reloader"),
		clockwork.NewRealClock(),
		cfg.ReloadInterval,
		reloadTrigger,
	)

	registry := profiles.NewRegistry(source, loggerClient.Named("profiles"))
	resolver := identity.NewResolver(cfg.SelfPackage, registry)

	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		loggerClient.Warn("invalid locale, sorting labels in English",
			logger.String("locale", cfg.Locale), logger.Error(err))
		locale = language.English
	}

	catalogService := catalog.NewService(source, registry, resolver, catalog.Options{
		Density:    cfg.IconDensity,
		Locale:     locale,
		Normalizer: iconnorm.New(cfg.IconSize, cfg.IconInset),
	}, loggerClient.Named("catalog"))

	reconciler := favorites.NewReconciler(catalogService, b.favorites, resolver, loggerClient.Named("favorites"), clockwork.NewRealClock())

	launcher := launch.NewLauncher(reconciler, source, b.usage, loggerClient.Named("launch"))

	collector := scheduler.NewUsageCollector(
		catalogService,
		b.usage,
		loggerClient.Named("usage"),
		clockwork.NewRealClock(),
		cfg.UsageGCInterval,
		cfg.UsageThreshold,
	)

	settingsStore, err := settings.NewStore(settings.Settings{
		IconScale:      cfg.IconScale,
		TextScale:      cfg.TextScale,
		WallpaperStyle: settings.WallpaperStyle(cfg.WallpaperStyle),
	})
	if err != nil {
		closeBackend(b, loggerClient)
		return nil, fmt.Errorf("invalid display settings: %w", err)
	}

	tracker := onboarding.NewTracker(reconciler, settingsStore, loggerClient.Named("onboarding"))

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		LaunchBurst:      cfg.LaunchBurst,
		LaunchRefillRate: cfg.LaunchRefillRate,
		Catalog:          catalogService,
		Favorites:        reconciler,
		Launcher:         launcher,
		Settings:         settingsStore,
		Onboarding:       tracker,
		FavoritesBackend: cfg.FavoritesBackend,
		Checks:           b.checks,
		ManifestFile:     cfg.ManifestFile,
		ReloadTrigger:    reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:        cfg,
		logger:     loggerClient,
		server:     server,
		backend:    b,
		reloader:   reloader,
		collector:  collector,
		catalog:    catalogService,
		reconciler: reconciler,
		onboarding: tracker,
	}, nil
}

func openBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (backend, error) {
	switch cfg.FavoritesBackend {
	case config.BackendRedis:
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
			ClientName:     "easylaunch",
		}, log.Named("redis"))
		if err != nil {
			return backend{}, err
		}
		store := redisstore.NewStore(client, log.Named("redis"))
		return backend{
			favorites: store,
			usage:     store,
			checks:    map[string]deps.Check{config.BackendRedis: redisPing(client)},
			closer:    client,
		}, nil

	case config.BackendMemory:
		return backend{
			favorites: memory.NewFavoritesStore(),
			usage:     memory.NewLaunchCounter(),
		}, nil

	default:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return backend{}, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return backend{}, err
		}
		return backend{
			favorites: store,
			usage:     store,
			checks:    map[string]deps.Check{config.BackendSQLite: store.Ping},
			closer:    store,
		}, nil
	}
}

func redisPing(client *goredis.Client) deps.Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

func closeBackend(b backend, log logger.Logger) {
	if b.closer == nil {
		return
	}
	if err := b.closer.Close(); err != nil {
		log.Warnf("failed to close favorites backend: %v", err)
	} else {
		log.Info("✅ Favorites backend closed cleanly")
	}
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting easylaunch v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the manifest and start periodic reloads
	if err := a.reloader.Start(ctx); err != nil {
		closeBackend(a.backend, a.logger)
		return fmt.Errorf("failed to start manifest reloader: %w", err)
	}
	a.logger.Info("manifest reloader started",
		logger.String("file", a.cfg.ManifestFile),
		logger.Duration("interval", a.cfg.ReloadInterval))

	a.catalog.Start(ctx)

	if err := a.reconciler.Start(ctx); err != nil {
		a.catalog.Stop()
		a.reloader.Stop()
		closeBackend(a.backend, a.logger)
		return fmt.Errorf("failed to start favorites reconciler: %w", err)
	}

	a.onboarding.Start(ctx)

	a.collector.Start(ctx)
	a.logger.Info("usage collector started",
		logger.Duration("interval", a.cfg.UsageGCInterval),
		logger.Duration("threshold", a.cfg.UsageThreshold))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	// Stop producers before their consumers
	a.reloader.Stop()
	a.collector.Stop()
	a.catalog.Stop()
	a.onboarding.Stop()
	a.reconciler.Stop()

	closeBackend(a.backend, a.logger)

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ easylaunch stopped cleanly")
	return nil
}
