package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Catalog refresh metrics
var (
	// CatalogRefreshTotal counts refreshes by outcome (published, superseded, failed)
	CatalogRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easylaunch_catalog_refresh_total",
			Help: "Catalog refreshes by outcome",
		},
		[]string{"outcome"},
	)

	// CatalogRefreshDuration tracks how long a published refresh took
	CatalogRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "easylaunch_catalog_refresh_duration_seconds",
			Help:    "Duration of published catalog refreshes in seconds",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// CatalogApps is the number of apps in the last published catalog
	CatalogApps = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "easylaunch_catalog_apps",
			Help: "Number of apps in the last published catalog",
		},
	)

	// IconFallbackTotal counts icons replaced by "no icon", by failure kind
	IconFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easylaunch_icon_fallback_total",
			Help: "Icon lookups that fell back to no icon, by failure kind",
		},
		[]string{"kind"},
	)

	// ProfileQueryErrors counts per-profile enumeration failures
	ProfileQueryErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "easylaunch_profile_query_errors_total",
			Help: "Activity enumeration failures for a single profile",
		},
	)
)

// Favorites metrics
var (
	// FavoritesDroppedTotal counts persisted entries skipped while reconciling
	FavoritesDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easylaunch_favorites_dropped_total",
			Help: "Persisted favorites skipped during reconciliation, by reason",
		},
		[]string{"reason"},
	)

	// FavoritesWritesTotal counts favorites replacements by status
	FavoritesWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easylaunch_favorites_writes_total",
			Help: "Favorites list replacements by status",
		},
		[]string{"status"},
	)
)

// LaunchTotal counts activity launches by status
var LaunchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "easylaunch_launch_total",
		Help: "Activity launches by status",
	},
	[]string{"status"},
)

// UsageCollectedTotal counts launch counters dropped for uninstalled apps
var UsageCollectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "easylaunch_usage_collected_total",
		Help: "Launch counters removed because their activity stayed uninstalled",
	},
)

// HTTPRequestsTotal counts served requests by chi route pattern and status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "easylaunch_http_requests_total",
		Help: "HTTP requests by route pattern and status code",
	},
	[]string{"route", "code"},
)

// RateLimitedTotal counts requests rejected by the per-client rate limit
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "easylaunch_rate_limited_total",
		Help: "Requests rejected by the per-client rate limit",
	},
)
