package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	internal "github.com/frahmantamala/wishlist-management/internal"
)

// RecoveryMiddleware provides panic recovery with detailed logging
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					// The panic value stays in the logs only.
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					resp := internal.Response{Error: internal.NewInternalError("internal server error", nil)}
					if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
						logger.Error("failed to encode recovery response", "error", encErr)
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
