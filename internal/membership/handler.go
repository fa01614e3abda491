// AngelaMos | 2026
// handler.go

package membership

import (
	"encoding/json"
	"errors"
	"io"
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
	r.Route("/memberships", func(r chi.Router) {
		r.Get("/plans", h.Plans)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/subscribe", h.Subscribe)
			r.Get("/user/{userId}", h.ListByUser)
			r.Put("/{id}/cancel", h.Cancel)
			r.Put("/{id}/renew", h.Renew)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *Handler) Plans(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, Plans())
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if req.UserID <= 0 || req.PlanType == "" {
		core.BadRequest(w, "Please provide userId and planType")
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

	m, err := h.service.Subscribe(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, ToMembershipResponse(m), "Membership subscribed successfully")
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

	memberships, err := h.service.GetUserMemberships(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserMembershipsResponse(memberships))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "membership")
		return
	}

	ctx := r.Context()
	m, err := h.service.Cancel(ctx, id, func(ownerID int64) bool {
		return middleware.CanActFor(ctx, ownerID)
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OKWithMessage(w, ToMembershipResponse(m), "Membership cancelled successfully")
}

func (h *Handler) Renew(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "membership")
		return
	}

	var req RenewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()
	m, err := h.service.Renew(ctx, id, req.Duration, func(ownerID int64) bool {
		return middleware.CanActFor(ctx, ownerID)
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OKWithMessage(w, ToMembershipResponse(m), "Membership renewed successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "membership")
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

	core.Message(w, "Membership deleted successfully")
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var lockErr *LockPeriodError

	switch {
	case errors.As(err, &lockErr):
		writeLockPeriod(w, lockErr)
	case errors.Is(err, ErrUserNotFound):
		core.NotFound(w, "user")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "membership")
	case errors.Is(err, ErrNotActive):
		core.BadRequest(w, "Membership is not active")
	case errors.Is(err, ErrInvalidPlan):
		core.BadRequest(w, "Invalid plan type. Must be: basic, premium, or enterprise")
	case errors.Is(err, ErrInvalidDuration):
		core.BadRequest(w, "Duration must be between 1 and 365 days")
	case errors.Is(err, ErrActiveElsewhere):
		core.Conflict(w, "User already has another active membership")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "Access denied")
	default:
		core.InternalServerError(w, err)
	}
}

// lockPeriodResponse repeats daysRemaining and the current membership at
// the top level, where existing storefront clients read them.
type lockPeriodResponse struct {
	core.ErrorResponse
	DaysRemaining int                `json:"daysRemaining"`
	Data          MembershipResponse `json:"data"`
}

func writeLockPeriod(w http.ResponseWriter, lockErr *LockPeriodError) {
	current := ToMembershipResponse(lockErr.Current)
	appErr := core.NewAppError(
		lockErr,
		lockErr.Error(),
		http.StatusConflict,
		CodeLockPeriod,
	).WithDetails(map[string]any{
		"daysRemaining": lockErr.DaysRemaining,
		"membership":    current,
	})

	core.JSON(w, http.StatusConflict, lockPeriodResponse{
		ErrorResponse: core.NewErrorResponse(appErr),
		DaysRemaining: lockErr.DaysRemaining,
		Data:          current,
	})
}
