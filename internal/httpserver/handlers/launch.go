package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/deps"
)

type launchResponse struct {
	Launched appResponse `json:"launched"`
}

type usageEntry struct {
	App      appResponse `json:"app"`
	Launches int64       `json:"launches"`
}

// Launch starts one activity.
func Launch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id domain.ActivityIdentitySer
		if err := decodeJSON(w, r, &id); err != nil || id.Package == "" || id.Class == "" {
			writeError(w, http.StatusBadRequest, "invalid launch payload")
			return
		}

		app, err := d.Launcher.Launch(r.Context(), id)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, launchResponse{Launched: toAppResponse(app)})
	}
}

// Usage lists launch counts of every installed app, most launched first.
func Usage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		usage, err := d.Launcher.Usage(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read launch counters")
			return
		}

		out := make([]usageEntry, 0, len(usage))
		for _, u := range usage {
			out = append(out, usageEntry{App: toAppResponse(u.App), Launches: u.Launches})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
