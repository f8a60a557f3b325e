package handlers

import (
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
)

type favoritesRequest struct {
	Favorites []domain.ActivityIdentitySer `json:"favorites"`
}

// SetFavorites replaces the favorites with the given ordered list.
func SetFavorites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req favoritesRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid favorites payload")
			return
		}

		cat, ok := d.Favorites.Current()
		if !ok {
			writeError(w, http.StatusServiceUnavailable, "catalog not loaded yet")
			return
		}

		apps := make([]domain.AppRecord, 0, len(req.Favorites))
		for _, id := range req.Favorites {
			app, found := cat.FindSerialized(id)
			if !found {
				err := fmt.Errorf("%w: %s", domain.ErrUnknownActivity, id)
				writeError(w, statusFor(err), err.Error())
				return
			}
			apps = append(apps, app)
		}

		if err := d.Favorites.SetFavorites(r.Context(), apps); err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				d.Logger.Error("failed to save favorites", logger.Error(err))
				writeError(w, status, "failed to save favorites")
				return
			}
			writeError(w, status, err.Error())
			return
		}

		d.Logger.Info("favorites replaced", logger.Int("count", len(apps)))
		w.WriteHeader(http.StatusNoContent)
	}
}
