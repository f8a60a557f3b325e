package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/easylaunch/internal/logger"
	"github.com/MrSnakeDoc/easylaunch/internal/utils"
)

// AllowOnlyCIDRS restricts a route to the given IPs and CIDRs. An empty
// list leaves the route open. trustProxy resolves the caller from proxy
// headers, for deployments behind a trusted reverse proxy.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debug("rejected caller outside allowed CIDRs",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
