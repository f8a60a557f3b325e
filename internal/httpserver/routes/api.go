package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/mw"
)

func init() {
	Register(registerAPI, middleware.Timeout(5*time.Second))
	Register(registerEvents)
}

func registerAPI(r chi.Router, d deps.Deps) {
	r.Get("/api/catalog", handlers.Catalog(d))
	r.Get("/api/apps/{package}/{class}/{serial}/icon.png", handlers.Icon(d))
	r.Put("/api/favorites", handlers.SetFavorites(d))
	r.Get("/api/usage", handlers.Usage(d))

	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.LaunchBurst,
		RefillPerIPPerMin: d.LaunchRefillRate,
		MaxEntries:        1024,
		TrustProxy:        d.TrustProxy,
	})).Post("/api/launch", handlers.Launch(d))

	r.Get("/api/settings", handlers.GetSettings(d))
	r.Put("/api/settings", handlers.PutSettings(d))
	r.Get("/api/onboarding", handlers.Onboarding(d))
	r.Post("/api/onboarding/complete", handlers.CompleteOnboarding(d))
}

// Event streams are long-lived: no request timeout.
func registerEvents(r chi.Router, d deps.Deps) {
	r.Get("/api/catalog/events", handlers.CatalogEvents(d))
}
