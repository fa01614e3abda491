// AngelaMos | 2026
// handler.go

package order

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
	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Get("/user/{userId}", h.ListByUser)
		r.Get("/{id}", h.Get)
		r.Delete("/{id}", h.Delete)

		r.With(middleware.RequireAdmin).Put("/{id}/status", h.UpdateStatus)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Invalid order data: "+core.FormatValidationError(err))
		return
	}

	if !middleware.CanActFor(r.Context(), req.UserID) {
		core.Forbidden(w, "You can only place orders for your own account")
		return
	}

	detail, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, ToDetailResponse(detail), "Order created successfully")
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

	orders, err := h.service.ListUserOrders(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSummaryResponseList(orders))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "order")
		return
	}

	detail, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if !middleware.CanActFor(r.Context(), detail.UserID) {
		core.Forbidden(w, "Access denied")
		return
	}

	core.OK(w, ToDetailResponse(detail))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "order")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OKWithMessage(w, ToOrderResponse(order), "Order status updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "order")
		return
	}

	ctx := r.Context()
	err := h.service.DeleteOrder(ctx, id, func(ownerID int64) bool {
		return middleware.CanActFor(ctx, ownerID)
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Message(w, "Order deleted successfully")
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var stockErr *InsufficientStockError

	switch {
	case errors.As(err, &stockErr):
		core.JSONError(w, core.NewAppError(
			err,
			stockErr.Error(),
			http.StatusBadRequest,
			core.CodeBadRequest,
		).WithDetails(map[string]any{
			"bookId":    stockErr.BookID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		}))
	case errors.Is(err, ErrUserNotFound):
		core.NotFound(w, "user")
	case errors.Is(err, ErrBooksNotFound):
		core.JSONError(w, core.NewAppError(
			err,
			"One or more books not found",
			http.StatusNotFound,
			core.CodeNotFound,
		))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "order")
	case errors.Is(err, ErrInvalidStatus):
		core.BadRequest(w, "Invalid status. Must be: pending, processing, completed, or cancelled")
	case errors.Is(err, ErrCannotReopen):
		core.BadRequest(w, "Cancelled orders cannot be reopened")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "Invalid order data")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "Access denied")
	default:
		core.InternalServerError(w, err)
	}
}
