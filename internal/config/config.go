package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Favorites backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const appName = "easylaunch"

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Activity source
	ManifestFile   string        // path to activities.yaml (default: $XDG_CONFIG_HOME/easylaunch/activities.yaml)
	ReloadInterval time.Duration // interval to reload the manifest (default: 1m)

	// Catalog
	SelfPackage string  // launcher package, never listed (ex: "org.easylaunch.launcher")
	Locale      string  // BCP 47 tag used to sort labels (ex: "fr-FR")
	IconDensity int     // density requested from the source (ex: 160)
	IconSize    int     // normalized icon edge in pixels (ex: 192)
	IconInset   float64 // foreground inset of non-adaptive icons, fraction of the edge

	// Favorites
	FavoritesBackend string        // "sqlite" | "redis" | "memory"
	SQLitePath       string        // default: $XDG_DATA_HOME/easylaunch/easylaunch.db
	UsageGCInterval  time.Duration // interval to collect launch counters of uninstalled apps (default: 24h)
	UsageThreshold   time.Duration // how long an app may stay uninstalled before its counter goes (default: 720h)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Initial display settings
	IconScale      float64 // ex: 1.5
	TextScale      float64 // ex: 1.25
	WallpaperStyle string  // "none" | "dim" | "full"

	LaunchBurst      int // launches allowed in a burst per client IP
	LaunchRefillRate int // launches regained per minute per client IP

	AllowedCIDRS []string // optional, restrict /reload, /readyz, /infra and /metrics (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	// .env is optional, real environment variables take precedence
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("EASYLAUNCH_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("EASYLAUNCH_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("EASYLAUNCH_LOG_LEVEL", "info"),
		PrettyLog: mustBool("EASYLAUNCH_PRETTY_LOG", true),

		// Activity source
		ManifestFile:   getenv("EASYLAUNCH_MANIFEST_FILE", filepath.Join(xdg.ConfigHome, appName, "activities.yaml")),
		ReloadInterval: mustDuration("EASYLAUNCH_RELOAD_INTERVAL", time.Minute),

		// Catalog
		SelfPackage: getenv("EASYLAUNCH_SELF_PACKAGE", "org.easylaunch.launcher"),
		Locale:      getenv("EASYLAUNCH_LOCALE", "en"),
		IconDensity: getenvInt("EASYLAUNCH_ICON_DENSITY", 160),
		IconSize:    getenvInt("EASYLAUNCH_ICON_SIZE", 192),
		IconInset:   getenvFloat("EASYLAUNCH_ICON_INSET", 1.0/6),

		// Favorites
		FavoritesBackend: strings.ToLower(getenv("EASYLAUNCH_FAVORITES_BACKEND", BackendSQLite)),
		SQLitePath:       getenv("EASYLAUNCH_SQLITE_PATH", filepath.Join(xdg.DataHome, appName, appName+".db")),
		UsageGCInterval:  mustDuration("EASYLAUNCH_USAGE_GC_INTERVAL", 24*time.Hour),
		UsageThreshold:   mustDuration("EASYLAUNCH_USAGE_THRESHOLD", 30*24*time.Hour),

		// Redis settings
		RedisAddr:             getenv("EASYLAUNCH_REDIS_ADDR", ""),
		RedisUser:             getenv("EASYLAUNCH_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("EASYLAUNCH_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("EASYLAUNCH_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("EASYLAUNCH_REDIS_DB", 0),
		RedisDT:               mustDuration("EASYLAUNCH_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("EASYLAUNCH_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("EASYLAUNCH_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("EASYLAUNCH_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("EASYLAUNCH_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("EASYLAUNCH_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("EASYLAUNCH_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("EASYLAUNCH_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("EASYLAUNCH_REDIS_WARN_THRESHOLD", 3),

		// Display settings
		IconScale:      getenvFloat("EASYLAUNCH_ICON_SCALE", 1),
		TextScale:      getenvFloat("EASYLAUNCH_TEXT_SCALE", 1),
		WallpaperStyle: getenv("EASYLAUNCH_WALLPAPER_STYLE", "dim"),

		// Launch rate limit
		LaunchBurst:      getenvInt("EASYLAUNCH_LAUNCH_BURST", 10),
		LaunchRefillRate: getenvInt("EASYLAUNCH_LAUNCH_PER_MINUTE", 30),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("EASYLAUNCH_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("EASYLAUNCH_TRUST_PROXY", false),
	}

	switch cfg.FavoritesBackend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		cfg.RedisAddr = requireEnv("EASYLAUNCH_REDIS_ADDR")
		// Validate Redis password configuration
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: EASYLAUNCH_REDIS_PASSWORD is required when EASYLAUNCH_REDIS_PASSWORD_REQUIRED=true")
		}
	default:
		panic(fmt.Sprintf("❌ FATAL: EASYLAUNCH_FAVORITES_BACKEND must be one of %s, %s, %s (got %q)",
			BackendSQLite, BackendRedis, BackendMemory, cfg.FavoritesBackend))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
