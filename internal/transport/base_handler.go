package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	internal "github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response. A nil payload ends the response at
// the status line.
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	if data == nil || status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := map[string]interface{}{
		"code":    status,
		"message": message,
	}

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// HandleServiceError translates a service error through internal.MapError
// and writes the response. When the mapper downgrades a denial to
// NOT_FOUND the body is replaced wholesale so the answer is identical to
// the one for a list that does not exist.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	status, errType := internal.MapError(err)

	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("internal server error", err)
	}

	if status >= http.StatusInternalServerError {
		h.Logger.Error("service error", "error", err, "status", status)
	} else {
		h.Logger.Warn("request rejected", "status", status, "error_code", appErr.Code)
	}

	body := appErr
	if errType == internal.ErrorTypeNotFound && appErr.Type != internal.ErrorTypeNotFound {
		body = internal.NewNotFoundError("List not found", internal.ErrCodeListNotFound)
	}

	h.WriteJSON(w, status, internal.Response{Error: body})
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
