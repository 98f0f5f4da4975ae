package reservation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/auth"
	reservationpkg "github.com/frahmantamala/wishlist-management/internal/reservation"
)

type mockReservationService struct {
	reservation  *reservationpkg.Reservation
	reservations []*reservationpkg.Reservation
	reserveErr   error
	cancelErr    error
	listErr      error

	reservedWishID       int64
	canceledReservation  int64
	receivedReserveActor int64
}

func (m *mockReservationService) ReserveWish(wishID int64, dto reservationpkg.ReserveWishDTO, actorID int64) (*reservationpkg.Reservation, error) {
	m.reservedWishID = wishID
	m.receivedReserveActor = actorID
	if m.reserveErr != nil {
		return nil, m.reserveErr
	}
	return m.reservation, nil
}

func (m *mockReservationService) CancelReservation(reservationID, actorID int64) error {
	m.canceledReservation = reservationID
	return m.cancelErr
}

func (m *mockReservationService) ListMyReservations(actorID int64) ([]*reservationpkg.Reservation, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.reservations, nil
}

func requestWithUser(method, target string, body []byte, user *auth.User) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if user != nil {
		req = req.WithContext(auth.ContextWithUser(req.Context(), user))
	}
	return req
}

func requestWithID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var _ = ginkgo.Describe("ReservationHandler", func() {
	var (
		service  *mockReservationService
		handler  *reservationpkg.Handler
		recorder *httptest.ResponseRecorder
		holder   *auth.User
	)

	ginkgo.BeforeEach(func() {
		service = &mockReservationService{
			reservation: &reservationpkg.Reservation{
				ID:         7,
				WishID:     42,
				UserID:     2,
				Note:       "Got this one!",
				ReservedAt: time.Now(),
			},
		}
		handler = reservationpkg.NewHandler(service)
		recorder = httptest.NewRecorder()
		holder = &auth.User{ID: 2, Email: "bob@mail.com", Name: "Bob"}
	})

	ginkgo.Context("ReserveWish", func() {
		ginkgo.When("the reservation succeeds", func() {
			ginkgo.It("should return the created reservation", func() {
				req := requestWithUser("POST", "/wishes/42/reservations", []byte(`{"note":"Got this one!"}`), holder)
				req = requestWithID(req, "42")

				handler.ReserveWish(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusCreated))
				gomega.Expect(service.reservedWishID).To(gomega.Equal(int64(42)))
				gomega.Expect(service.receivedReserveActor).To(gomega.Equal(int64(2)))

				var res reservationpkg.Reservation
				err := json.Unmarshal(recorder.Body.Bytes(), &res)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(res.ID).To(gomega.Equal(int64(7)))
				gomega.Expect(res.Note).To(gomega.Equal("Got this one!"))
			})

			ginkgo.It("should accept an empty body, the note is optional", func() {
				req := requestWithUser("POST", "/wishes/42/reservations", nil, holder)
				req = requestWithID(req, "42")

				handler.ReserveWish(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusCreated))
			})
		})

		ginkgo.When("the wish is already reserved", func() {
			ginkgo.It("should answer with a conflict", func() {
				service.reserveErr = internal.NewConflictError("Wish is already reserved", internal.ErrCodeAlreadyReserved)
				req := requestWithUser("POST", "/wishes/42/reservations", nil, holder)
				req = requestWithID(req, "42")

				handler.ReserveWish(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusConflict))
			})
		})

		ginkgo.When("the session is missing", func() {
			ginkgo.It("should return unauthorized", func() {
				req := requestWithUser("POST", "/wishes/42/reservations", nil, nil)
				req = requestWithID(req, "42")

				handler.ReserveWish(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusUnauthorized))
			})
		})

		ginkgo.When("the wish ID is not numeric", func() {
			ginkgo.It("should return bad request", func() {
				req := requestWithUser("POST", "/wishes/abc/reservations", nil, holder)
				req = requestWithID(req, "abc")

				handler.ReserveWish(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusBadRequest))
			})
		})
	})

	ginkgo.Context("CancelReservation", func() {
		ginkgo.It("should cancel and end at the status line", func() {
			req := requestWithUser("DELETE", "/reservations/7", nil, holder)
			req = requestWithID(req, "7")

			handler.CancelReservation(recorder, req)

			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(recorder.Body.Len()).To(gomega.BeZero())
			gomega.Expect(service.canceledReservation).To(gomega.Equal(int64(7)))
		})

		ginkgo.It("should pass a holder mismatch through as forbidden", func() {
			service.cancelErr = internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeInsufficientPermissions)
			req := requestWithUser("DELETE", "/reservations/7", nil, holder)
			req = requestWithID(req, "7")

			handler.CancelReservation(recorder, req)

			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusForbidden))
		})
	})

	ginkgo.Context("ListMyReservations", func() {
		ginkgo.It("should wrap the caller's reservations", func() {
			service.reservations = []*reservationpkg.Reservation{service.reservation}
			req := requestWithUser("GET", "/reservations", nil, holder)

			handler.ListMyReservations(recorder, req)

			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusOK))

			var response map[string]json.RawMessage
			err := json.Unmarshal(recorder.Body.Bytes(), &response)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(response).To(gomega.HaveKey("reservations"))
		})
	})
})
