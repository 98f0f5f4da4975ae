package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	internal "github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/auth"
	userDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/user"
)

// RequireGlobalAdmin guards routes reserved for platform administrators,
// such as suspending accounts. It runs after AuthMiddleware, so a missing
// user on the context means the route was wired without authentication.
func RequireGlobalAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok || user == nil {
			writeError(w, internal.NewUnauthorizedError("unauthorized", internal.ErrCodeInvalidToken))
			return
		}

		if !user.IsAdmin && user.Role != userDatamodel.RoleAdmin {
			slog.Warn("access denied: administrator role required",
				"user_id", user.ID,
				"path", r.URL.Path)
			writeError(w, internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeInsufficientPermissions))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, appErr *internal.AppError) {
	status, _ := internal.MapError(appErr)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(internal.Response{Error: appErr}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
