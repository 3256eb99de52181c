package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
	"go.uber.org/zap"
)

// APIKey guards the API surface with a static key carried in X-API-Key.
// When no key is configured the middleware is a no-op, which keeps local
// development friction-free.
func APIKey(cfg *config.ApiKeyConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	if cfg.Value == "" {
		logger.Warn("API key not configured, API surface is unauthenticated")
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.Value)) != 1 {
				logger.Warn("API key rejected",
					zap.String("remote_addr", r.RemoteAddr),
					zap.String("path", r.URL.Path),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(domain.APIError{
					Type:   domain.ErrorTypeUnauthorized,
					Title:  http.StatusText(http.StatusUnauthorized),
					Status: http.StatusUnauthorized,
					Detail: "Missing or invalid API key",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
