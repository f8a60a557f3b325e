package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
)

// SSEHeartbeat is how often an idle event stream sends a keep-alive comment.
var SSEHeartbeat = 15 * time.Second

// Catalog returns the current reconciled catalog.
func Catalog(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, ok := d.Favorites.Current()
		if !ok {
			writeError(w, http.StatusServiceUnavailable, "catalog not loaded yet")
			return
		}
		writeJSON(w, http.StatusOK, toCatalogResponse(cat))
	}
}

// CatalogEvents streams every published catalog as a server-sent event.
// The first event carries the current catalog, if any.
func CatalogEvents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		// Streams outlive the server write timeout
		if err := rc.SetWriteDeadline(time.Time{}); err != nil {
			d.Logger.Debug("cannot clear write deadline", logger.Error(err))
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		if err := rc.Flush(); err != nil {
			d.Logger.Warn("event stream not supported", logger.Error(err))
			return
		}

		ctx := r.Context()
		updates := d.Favorites.Subscribe(ctx)
		heartbeat := time.NewTicker(SSEHeartbeat)
		defer heartbeat.Stop()

		var id uint64
		for {
			select {
			case cat, ok := <-updates:
				if !ok {
					return
				}
				data, err := json.Marshal(toCatalogResponse(cat))
				if err != nil {
					d.Logger.Error("failed to encode catalog event", logger.Error(err))
					return
				}
				id++
				if _, err := fmt.Fprintf(w, "id: %d\nevent: catalog\ndata: %s\n\n", id, data); err != nil {
					return
				}
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
			case <-ctx.Done():
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
