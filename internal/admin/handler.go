// AngelaMos | 2026
// handler.go

package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/middleware"
)

// RouteRegistrar is implemented by feature handlers that expose
// management endpoints under /admin.
type RouteRegistrar interface {
	RegisterAdminRoutes(r chi.Router)
}

type Handler struct {
	service *Service
	probes  Probes
	modules []RouteRegistrar
}

func NewHandler(service *Service, probes Probes, modules ...RouteRegistrar) *Handler {
	return &Handler{
		service: service,
		probes:  probes,
		modules: modules,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireAdmin)

		r.Get("/dashboard", h.Dashboard)
		r.Get("/users/{id}/details", h.UserDetails)
		r.Get("/sales-report", h.SalesReport)

		r.Get("/stats", h.SystemStats)
		r.Get("/stats/db", h.DatabaseStats)
		r.Get("/stats/redis", h.RedisStats)
		r.Get("/stats/runtime", h.RuntimeStats)

		for _, m := range h.modules {
			m.RegisterAdminRoutes(r)
		}
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, d)
}

func (h *Handler) UserDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.BadRequest(w, "Invalid user id")
		return
	}

	d, err := h.service.UserDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "User")
			return
		}
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, ToUserDetailsResponse(d))
}

func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params, err := ParseSalesReportParams(
		q.Get("startDate"),
		q.Get("endDate"),
		q.Get("groupBy"),
	)
	if err != nil {
		core.BadRequest(w, "Dates must use the YYYY-MM-DD format")
		return
	}

	report, err := h.service.SalesReport(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, report)
}

func (h *Handler) SystemStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.probes.Collect(r.Context()))
}

func (h *Handler) DatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.probes.dbPool())
}

func (h *Handler) RedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.probes.redisPool())
}

func (h *Handler) RuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntime())
}
