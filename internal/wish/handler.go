package wish

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/wishlist-management/internal/auth"
	"github.com/frahmantamala/wishlist-management/internal/list"
	"github.com/frahmantamala/wishlist-management/internal/transport"
	"github.com/frahmantamala/wishlist-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateWish(listID int64, dto CreateWishDTO, actorID int64) (*Wish, error)
	GetWish(wishID, actorID int64) (*Wish, error)
	UpdateWish(wishID int64, dto UpdateWishDTO, actorID int64) (*Wish, error)
	DeleteWish(wishID, actorID int64) error
	ListWishes(listID, actorID int64, password string) ([]*Wish, error)
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

func (h *Handler) CreateWish(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateWish: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listID, ok := h.pathID(w, r, "id", "invalid list ID")
	if !ok {
		return
	}

	var dto CreateWishDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateWish: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateWish(listID, dto, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateWish: wish created", "wish_id", created.ID, "list_id", listID, "owner_id", user.ID)
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetWish(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetWish: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	wishID, ok := h.pathID(w, r, "id", "invalid wish ID")
	if !ok {
		return
	}

	got, err := h.Service.GetWish(wishID, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, got)
}

func (h *Handler) UpdateWish(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("UpdateWish: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	wishID, ok := h.pathID(w, r, "id", "invalid wish ID")
	if !ok {
		return
	}

	var dto UpdateWishDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateWish: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.UpdateWish(wishID, dto, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteWish(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("DeleteWish: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	wishID, ok := h.pathID(w, r, "id", "invalid wish ID")
	if !ok {
		return
	}

	if err := h.Service.DeleteWish(wishID, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DeleteWish: wish deleted", "wish_id", wishID, "actor_id", user.ID)
	h.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ListWishes(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListWishes: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listID, ok := h.pathID(w, r, "id", "invalid list ID")
	if !ok {
		return
	}

	wishes, err := h.Service.ListWishes(listID, user.ID, r.Header.Get(list.HeaderListPassword))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"wishes": wishes,
	})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param, message string) (int64, bool) {
	idStr := chi.URLParam(r, param)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error(message, "id", idStr)
		h.WriteError(w, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}
