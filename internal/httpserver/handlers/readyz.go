package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool              `json:"ready"`
	Failed map[string]string `json:"failed,omitempty"`
}

// Readyz reports ready once a catalog has been published and every backend
// check passes.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		failed := map[string]string{}

		if _, ok := d.Favorites.Current(); !ok {
			failed["catalog"] = "not published yet"
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for name, check := range d.Checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}

		if len(failed) > 0 {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Failed: failed})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
