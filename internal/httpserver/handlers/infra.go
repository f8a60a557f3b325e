package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Apps       *int   `json:"apps,omitempty"`
	Favorites  *int   `json:"favorites,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra describes every component and the resulting service mode.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"catalog":   catalogStatus(d),
			"favorites": favoritesStatus(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// No catalog = nothing to show
	if c, exists := components["catalog"]; exists && !c.OK {
		return "critical"
	}

	// Favorites backend down: apps still listed, pinning fails
	if f, exists := components["favorites"]; exists && !f.OK {
		return "degraded"
	}

	return "optimal"
}

func catalogStatus(d deps.Deps) componentStatus {
	st := d.Catalog.Status()

	status := componentStatus{
		OK:         st.Published,
		LastReload: "never",
		Mode:       "idle",
	}
	if !st.LastPublished.IsZero() {
		status.LastReload = st.LastPublished.Format("2006-01-02 15:04:05")
	}
	if st.Refreshing {
		status.Mode = "refreshing"
	}
	if st.LastError != nil {
		status.Error = st.LastError.Error()
		status.Impact = "showing previous catalog"
	}

	if cat, ok := d.Favorites.Current(); ok {
		apps, favs := len(cat.AllApps), len(cat.Favorites)
		status.Apps = &apps
		status.Favorites = &favs
	}
	return status
}

func favoritesStatus(ctx context.Context, d deps.Deps) componentStatus {
	check, ok := d.Checks[d.FavoritesBackend]
	if !ok {
		return componentStatus{OK: true, Mode: d.FavoritesBackend}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := check(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.FavoritesBackend,
			Impact: "favorites-edits-failing",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:   true,
		Mode: d.FavoritesBackend,
	}
}
