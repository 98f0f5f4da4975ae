package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/wishlist-management/internal/auth"
	"github.com/frahmantamala/wishlist-management/internal/group"
	"github.com/frahmantamala/wishlist-management/internal/invitation"
	"github.com/frahmantamala/wishlist-management/internal/list"
	"github.com/frahmantamala/wishlist-management/internal/reservation"
	"github.com/frahmantamala/wishlist-management/internal/transport/middleware"
	"github.com/frahmantamala/wishlist-management/internal/transport/swagger"
	"github.com/frahmantamala/wishlist-management/internal/user"
	"github.com/frahmantamala/wishlist-management/internal/wish"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
)

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, authHandler *auth.Handler, userHandler *user.Handler, listHandler *list.Handler, wishHandler *wish.Handler, groupHandler *group.Handler, reservationHandler *reservation.Handler, invitationHandler *invitation.Handler, rateCfg middleware.RateLimitConfig, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	if rateCfg.RequestsPerSecond > 0 {
		router.Use(middleware.RateLimiter(rateCfg))
	}
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		// Registration is open, everything past this point needs a session
		if userHandler != nil {
			r.Post("/users", userHandler.Register)
		}

		if authHandler != nil {
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)

					// Account moderation is reserved for administrators
					pr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireGlobalAdmin)
						ar.Post("/users/{id}/suspend", userHandler.Suspend)
						ar.Delete("/users/{id}/suspend", userHandler.Unsuspend)
					})
				}

				// List routes
				if listHandler != nil {
					pr.Route("/lists", func(lr chi.Router) {
						lr.Post("/", listHandler.CreateList) // POST /lists
						lr.Get("/", listHandler.ListMyLists) // GET /lists
						lr.Get("/{id}", listHandler.GetList) // GET /lists/:id
						lr.Patch("/{id}", listHandler.UpdateList)
						lr.Delete("/{id}", listHandler.DeleteList)

						// Group sharing
						lr.Post("/{id}/groups/{groupID}", listHandler.ShareWithGroup)
						lr.Delete("/{id}/groups/{groupID}", listHandler.UnshareGroup)

						// Co-manager roster and invitations
						if invitationHandler != nil {
							lr.Get("/{id}/co-managers", invitationHandler.GetListCoManagers)
							lr.Post("/{id}/co-managers", invitationHandler.CreateInvitation)
							lr.Delete("/{id}/co-managers/{userID}", invitationHandler.RemoveCoManager)
						}

						// Wishes live under their list for create and listing
						if wishHandler != nil {
							lr.Get("/{id}/wishes", wishHandler.ListWishes)
							lr.Post("/{id}/wishes", wishHandler.CreateWish)
						}
					})
				}

				if invitationHandler != nil {
					pr.Post("/invitations/accept", invitationHandler.AcceptInvitation)
				}

				// Wish routes addressed by wish ID
				if wishHandler != nil {
					pr.Route("/wishes", func(wr chi.Router) {
						wr.Get("/{id}", wishHandler.GetWish)
						wr.Patch("/{id}", wishHandler.UpdateWish)
						wr.Delete("/{id}", wishHandler.DeleteWish)

						if reservationHandler != nil {
							wr.Post("/{id}/reservations", reservationHandler.ReserveWish)
						}
					})
				}

				if reservationHandler != nil {
					pr.Get("/reservations", reservationHandler.ListMyReservations)
					pr.Delete("/reservations/{id}", reservationHandler.CancelReservation)
				}

				// Group routes
				if groupHandler != nil {
					pr.Route("/groups", func(gr chi.Router) {
						gr.Post("/", groupHandler.CreateGroup)
						gr.Get("/", groupHandler.ListMyGroups)
						gr.Get("/{id}", groupHandler.GetGroup)
						gr.Delete("/{id}", groupHandler.DeleteGroup)
						gr.Get("/{id}/members", groupHandler.ListMembers)
						gr.Post("/{id}/members", groupHandler.AddMember)
						gr.Delete("/{id}/members/{userID}", groupHandler.RemoveMember)
					})
				}
			})
		}
	})
}
