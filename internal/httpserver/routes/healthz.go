package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/mw"
)

func init() { Register(registerHealthz) }

func registerHealthz(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Get("/infra", handlers.Infra(d))
}
