package invitation

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/wishlist-management/internal/auth"
	"github.com/frahmantamala/wishlist-management/internal/transport"
	"github.com/frahmantamala/wishlist-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateInvitation(listID int64, dto CreateInvitationDTO, requesterID int64) (*InvitationResult, error)
	RemoveCoManager(listID, targetUserID, requesterID int64) error
	GetListCoManagers(listID, requesterID int64) ([]CoManager, error)
	AcceptInvitation(token string, userID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// CreateInvitation handles POST /lists/{id}/co-managers
func (h *Handler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listID, ok := h.listIDParam(w, r)
	if !ok {
		return
	}

	var dto CreateInvitationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateInvitation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.CreateInvitation(listID, dto, user.ID)
	if err != nil {
		h.Logger.Error("CreateInvitation: service error", "error", err, "list_id", listID, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if result.DirectlyAdded {
		status = http.StatusOK
	}
	h.WriteJSON(w, status, result)
}

// RemoveCoManager handles DELETE /lists/{id}/co-managers/{userID}
func (h *Handler) RemoveCoManager(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listID, ok := h.listIDParam(w, r)
	if !ok {
		return
	}

	targetIDStr := chi.URLParam(r, "userID")
	targetID, err := strconv.ParseInt(targetIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("RemoveCoManager: invalid user ID", "id", targetIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.Service.RemoveCoManager(listID, targetID, user.ID); err != nil {
		h.Logger.Error("RemoveCoManager: service error", "error", err, "list_id", listID, "target_id", targetID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusNoContent, nil)
}

// GetListCoManagers handles GET /lists/{id}/co-managers
func (h *Handler) GetListCoManagers(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listID, ok := h.listIDParam(w, r)
	if !ok {
		return
	}

	coManagers, err := h.Service.GetListCoManagers(listID, user.ID)
	if err != nil {
		h.Logger.Error("GetListCoManagers: service error", "error", err, "list_id", listID, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"co_managers": coManagers})
}

// AcceptInvitation handles POST /invitations/accept
func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto AcceptInvitationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AcceptInvitation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.AcceptInvitation(dto.Token, user.ID); err != nil {
		h.Logger.Error("AcceptInvitation: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) listIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	listIDStr := chi.URLParam(r, "id")
	listID, err := strconv.ParseInt(listIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid list ID", "id", listIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid list ID")
		return 0, false
	}
	return listID, true
}
