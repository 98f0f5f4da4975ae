package reservation

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
	ReserveWish(wishID int64, dto ReserveWishDTO, actorID int64) (*Reservation, error)
	CancelReservation(reservationID, actorID int64) error
	ListMyReservations(actorID int64) ([]*Reservation, error)
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

func (h *Handler) ReserveWish(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ReserveWish: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	wishID, ok := h.pathID(w, r, "id", "invalid wish ID")
	if !ok {
		return
	}

	// The note is optional, so an empty body is fine.
	var dto ReserveWishDTO
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.Logger.Error("ReserveWish: invalid request body", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	res, err := h.Service.ReserveWish(wishID, dto, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("ReserveWish: wish reserved", "reservation_id", res.ID, "wish_id", wishID, "user_id", user.ID)
	h.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CancelReservation: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reservationID, ok := h.pathID(w, r, "id", "invalid reservation ID")
	if !ok {
		return
	}

	if err := h.Service.CancelReservation(reservationID, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ListMyReservations(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListMyReservations: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reservations, err := h.Service.ListMyReservations(user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reservations": reservations,
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
