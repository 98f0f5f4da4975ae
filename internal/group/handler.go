package group

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
	CreateGroup(dto CreateGroupDTO, actorID int64) (*Group, error)
	GetGroup(groupID, actorID int64) (*Group, error)
	ListMyGroups(actorID int64) ([]*Group, error)
	DeleteGroup(groupID, actorID int64) error
	ListMembers(groupID, actorID int64) ([]Member, error)
	AddMember(groupID int64, dto AddMemberDTO, actorID int64) error
	RemoveMember(groupID, targetUserID, actorID int64) error
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

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateGroup: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateGroupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateGroup: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := h.Service.CreateGroup(dto, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateGroup: group created", "group_id", g.ID, "owner_id", user.ID)
	h.WriteJSON(w, http.StatusCreated, g)
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetGroup: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	groupID, ok := h.groupIDParam(w, r)
	if !ok {
		return
	}

	g, err := h.Service.GetGroup(groupID, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) ListMyGroups(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListMyGroups: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	groups, err := h.Service.ListMyGroups(user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"groups": groups,
	})
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("DeleteGroup: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	groupID, ok := h.groupIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteGroup(groupID, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DeleteGroup: group deleted", "group_id", groupID, "actor_id", user.ID)
	h.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListMembers: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	groupID, ok := h.groupIDParam(w, r)
	if !ok {
		return
	}

	members, err := h.Service.ListMembers(groupID, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"members": members,
	})
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("AddMember: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	groupID, ok := h.groupIDParam(w, r)
	if !ok {
		return
	}

	var dto AddMemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddMember: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.AddMember(groupID, dto, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("AddMember: member added", "group_id", groupID, "user_id", dto.UserID, "added_by", user.ID)
	h.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("RemoveMember: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	groupID, ok := h.groupIDParam(w, r)
	if !ok {
		return
	}

	targetStr := chi.URLParam(r, "userID")
	targetUserID, err := strconv.ParseInt(targetStr, 10, 64)
	if err != nil {
		h.Logger.Error("RemoveMember: invalid user ID", "id", targetStr)
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.Service.RemoveMember(groupID, targetUserID, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) groupIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid group ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid group ID")
		return 0, false
	}
	return id, true
}
