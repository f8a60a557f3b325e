package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/easylaunch/internal/settings"
)

func GetSettings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Settings.Get())
	}
}

// PutSettings replaces the settings wholesale.
func PutSettings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var next settings.Settings
		if err := decodeJSON(w, r, &next); err != nil {
			writeError(w, http.StatusBadRequest, "invalid settings payload")
			return
		}
		if err := d.Settings.Set(next); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, d.Settings.Get())
	}
}

func Onboarding(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, ok := d.Onboarding.Current()
		if !ok {
			writeError(w, http.StatusServiceUnavailable, "catalog not loaded yet")
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

// CompleteOnboarding marks onboarding as done.
func CompleteOnboarding(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Settings.CompleteOnboarding()
		w.WriteHeader(http.StatusNoContent)
	}
}
