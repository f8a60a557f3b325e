package handlers

import (
	"bytes"
	"image/png"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
)

// Icon serves the normalized icon of one app as PNG.
func Icon(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identityFromPath(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "malformed app path")
			return
		}

		cat, _ := d.Favorites.Current()
		app, found := cat.FindSerialized(id)
		if !found || app.Icon == nil {
			writeError(w, http.StatusNotFound, "no icon")
			return
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, app.Icon); err != nil {
			d.Logger.Error("failed to encode icon", logger.Stringer("activity", id), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "icon encoding failed")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

func identityFromPath(r *http.Request) (domain.ActivityIdentitySer, bool) {
	pkg, err1 := url.PathUnescape(chi.URLParam(r, "package"))
	class, err2 := url.PathUnescape(chi.URLParam(r, "class"))
	serial, err3 := strconv.ParseInt(chi.URLParam(r, "serial"), 10, 64)
	if err1 != nil || err2 != nil || err3 != nil || pkg == "" || class == "" {
		return domain.ActivityIdentitySer{}, false
	}
	return domain.ActivityIdentitySer{Package: pkg, Class: class, ProfileSerial: domain.ProfileSerial(serial)}, true
}
