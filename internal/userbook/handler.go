// AngelaMos | 2026
// handler.go

package userbook

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/user-books/{userId}", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(selfOrAdmin)

		r.Get("/", h.List)
		r.Get("/check/{bookId}", h.Check)
		r.Get("/categories", h.Categories)
		r.Get("/stats", h.Stats)
	})
}

// selfOrAdmin guards every ledger route on the {userId} path parameter.
func selfOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := core.PathID(r, "userId")
		if !ok {
			core.BadRequest(w, "Invalid user id")
			return
		}
		if !middleware.CanActFor(r.Context(), userID) {
			core.Forbidden(w, "Access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := core.PathID(r, "userId")

	owned, err := h.service.List(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToOwnedResponseList(owned))
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	userID, _ := core.PathID(r, "userId")
	bookID, ok := core.PathID(r, "bookId")
	if !ok {
		core.BadRequest(w, "Invalid book id")
		return
	}

	ownership, err := h.service.Check(r.Context(), userID, bookID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToCheckResponse(ownership))
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	userID, _ := core.PathID(r, "userId")

	categories, err := h.service.Categories(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, categories)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, _ := core.PathID(r, "userId")

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}
