package list

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

// HeaderListPassword carries the caller-supplied password for
// password-protected lists.
const HeaderListPassword = "X-List-Password"

type ServiceAPI interface {
	CreateList(dto CreateListDTO, ownerID int64) (*List, error)
	GetList(listID, actorID int64, password string) (*List, error)
	UpdateList(listID int64, dto UpdateListDTO, actorID int64) (*List, error)
	DeleteList(listID, actorID int64) error
	ListMyLists(actorID int64) ([]*List, error)
	ShareWithGroup(listID, groupID, actorID int64) error
	UnshareGroup(listID, groupID, actorID int64) error
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

func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateList: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateListDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateList: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.Service.CreateList(dto, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateList: list created", "list_id", l.ID, "owner_id", user.ID)
	h.WriteJSON(w, http.StatusCreated, l)
}

func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetList: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listID, ok := h.listIDParam(w, r)
	if !ok {
		return
	}

	l, err := h.Service.GetList(listID, user.ID, r.Header.Get(HeaderListPassword))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) UpdateList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("UpdateList: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listID, ok := h.listIDParam(w, r)
	if !ok {
		return
	}

	var dto UpdateListDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateList: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.Service.UpdateList(listID, dto, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("DeleteList: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listID, ok := h.listIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteList(listID, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DeleteList: list deleted", "list_id", listID, "actor_id", user.ID)
	h.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ListMyLists(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListMyLists: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	lists, err := h.Service.ListMyLists(user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"lists": lists,
	})
}

func (h *Handler) ShareWithGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ShareWithGroup: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listID, ok := h.listIDParam(w, r)
	if !ok {
		return
	}
	groupID, ok := h.groupIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.ShareWithGroup(listID, groupID, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("ShareWithGroup: list shared", "list_id", listID, "group_id", groupID, "actor_id", user.ID)
	h.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) UnshareGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("UnshareGroup: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listID, ok := h.listIDParam(w, r)
	if !ok {
		return
	}
	groupID, ok := h.groupIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.UnshareGroup(listID, groupID, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) listIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid list ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid list ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) groupIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "groupID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid group ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid group ID")
		return 0, false
	}
	return id, true
}
