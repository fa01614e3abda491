// AngelaMos | 2026
// handler.go

package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

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
	r.Route("/books", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/categories/list", h.Categories)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(middleware.RequireAdmin)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// RegisterAdminRoutes mounts the camelCase console endpoints on a router
// that already enforces the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/books", h.AdminCreate)
	r.Put("/books/{id}", h.AdminUpdate)
	r.Delete("/books/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := ListBooksParams{
		Category: q.Get("category"),
		Author:   q.Get("author"),
		Search:   q.Get("search"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
		Page:     core.QueryInt(r, "page", 1),
		Limit:    core.QueryInt(r, "limit", 20),
	}
	params.Featured, _ = core.QueryBool(r, "featured")
	params.Bestseller, _ = core.QueryBool(r, "bestseller")

	var err error
	if params.MinPrice, err = parseDecimal(q.Get("minPrice")); err != nil {
		core.BadRequest(w, "Invalid minPrice")
		return
	}
	if params.MaxPrice, err = parseDecimal(q.Get("maxPrice")); err != nil {
		core.BadRequest(w, "Invalid maxPrice")
		return
	}
	params.Normalize()

	books, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToBookResponseList(books), params.Page, params.Limit, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "book")
		return
	}

	book, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToBookResponse(book))
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	if categories == nil {
		categories = []Category{}
	}
	core.OK(w, categories)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	h.create(w, r, req)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req AdminBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	h.create(w, r, req.ToCreate())
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, req CreateBookRequest) {
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Please provide title, author, category, and price")
		return
	}

	book, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, ToBookResponse(book), "Book created successfully")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	h.update(w, r, req)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	var req AdminBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	h.update(w, r, req.ToUpdate())
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, req UpdateBookRequest) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "book")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	book, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OKWithMessage(w, ToBookResponse(book), "Book updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "book")
		return
	}

	title, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Message(w, fmt.Sprintf("Book %q deleted successfully", title))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "book")
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.NewAppError(
			err,
			"Book with this ISBN already exists",
			http.StatusConflict,
			core.CodeDuplicate,
		))
	case errors.Is(err, core.ErrConflict):
		core.Conflict(w, "Book has order history and cannot be deleted")
	case errors.Is(err, core.ErrInvalidInput):
		if errors.Is(err, errNoFields) {
			core.BadRequest(w, "No valid fields to update")
			return
		}
		core.BadRequest(w, "Invalid book data")
	default:
		core.InternalServerError(w, err)
	}
}

func parseDecimal(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
