// AngelaMos | 2026
// handler.go

package feedback

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/feedback", func(r chi.Router) {
		r.Get("/book/{bookId}", h.ListByBook)
		r.Get("/recent", h.Recent)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.Submit)
			r.Get("/user/{userId}", h.ListByUser)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if req.UserID <= 0 || req.Rating == 0 {
		core.BadRequest(w, "Please provide userId and rating")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if !middleware.CanActFor(r.Context(), req.UserID) {
		core.Forbidden(w, "Access denied")
		return
	}

	view, err := h.service.Submit(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, ToFeedbackResponse(view), "Feedback submitted successfully")
}

func (h *Handler) ListByBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := core.PathID(r, "bookId")
	if !ok {
		core.NotFound(w, "book")
		return
	}

	params := ListByBookParams{
		BookID: bookID,
		Page:   core.QueryInt(r, "page", 1),
		Limit:  core.QueryInt(r, "limit", DefaultPageSize),
		SortBy: r.URL.Query().Get("sortBy"),
		Order:  r.URL.Query().Get("order"),
	}
	params.Normalize()

	result, err := h.service.ListByBook(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToBookFeedbackResponse(result, params))
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := core.PathID(r, "userId")
	if !ok {
		core.BadRequest(w, "Invalid user id")
		return
	}

	if !middleware.CanActFor(r.Context(), userID) {
		core.Forbidden(w, "Access denied")
		return
	}

	views, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToFeedbackResponseList(views))
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.Recent(r.Context(), core.QueryInt(r, "limit", DefaultPageSize))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToFeedbackResponseList(views))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "feedback")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()
	view, err := h.service.Update(ctx, id, req, func(ownerID int64) bool {
		return middleware.CanActFor(ctx, ownerID)
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OKWithMessage(w, ToFeedbackResponse(view), "Feedback updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "feedback")
		return
	}

	ctx := r.Context()
	err := h.service.Delete(ctx, id, func(ownerID int64) bool {
		return middleware.CanActFor(ctx, ownerID)
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Message(w, "Feedback deleted successfully")
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		core.NotFound(w, "user")
	case errors.Is(err, ErrBookNotFound):
		core.NotFound(w, "book")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "feedback")
	case errors.Is(err, ErrInvalidRating):
		core.BadRequest(w, "Rating must be between 1 and 5")
	case errors.Is(err, ErrNoFields):
		core.BadRequest(w, "No fields to update")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "Access denied")
	default:
		core.InternalServerError(w, err)
	}
}
