// AngelaMos | 2026
// book_test.go

package book

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewService(NewRepository(sqlx.NewDb(db, "pgx"))), mock
}

var bookCols = []string{
	"id", "title", "author", "category", "description", "price", "cover_image",
	"publish_year", "pages", "language", "publisher", "isbn", "stock_quantity",
	"is_featured", "is_bestseller", "rating", "reviews_count", "created_at", "updated_at",
}

func bookRow(rows *sqlmock.Rows, id int64, title, price string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, title, "Author", "Fiction", "", price, "",
		nil, nil, "English", "", nil, 5, false, false, "0", 0, now, now)
}

func TestListBuildsParameterisedFilters(t *testing.T) {
	svc, mock := newTestService(t)
	minPrice := decimal.RequireFromString("5")

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM books WHERE category = $1 AND price >= $2 AND "+
			"(title ILIKE $3 OR author ILIKE $4 OR description ILIKE $5) AND is_featured",
	)).
		WithArgs("Fiction", "5", "%50\\%%", "%50\\%%", "%50\\%%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY price ASC, id ASC LIMIT $6 OFFSET $7")).
		WithArgs("Fiction", "5", "%50\\%%", "%50\\%%", "%50\\%%", 10, 10).
		WillReturnRows(bookRow(sqlmock.NewRows(bookCols), 1, "A", "12.50"))

	books, total, err := svc.List(context.Background(), ListBooksParams{
		Category: "Fiction",
		MinPrice: &minPrice,
		Search:   "50%",
		Featured: true,
		SortBy:   "price",
		Order:    "asc",
		Page:     2,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, books, 1)
	assert.True(t, books[0].Price.Equal(decimal.RequireFromString("12.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRejectsUnknownSortColumn(t *testing.T) {
	params := ListBooksParams{SortBy: "price; DROP TABLE books", Limit: 1000}
	params.Normalize()
	assert.Equal(t, "created_at", params.SortBy)
	assert.Equal(t, 100, params.Limit)
	assert.Equal(t, 1, params.Page)
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, mock := newTestService(t)
	price := decimal.RequireFromString("9.999")
	isbn := "  "

	mock.ExpectQuery("INSERT INTO books").
		WithArgs("Dune", "Herbert", "Sci-Fi", "", "10", "", nil, nil,
			DefaultLanguage, "", nil, 0, false, false).
		WillReturnRows(bookRow(sqlmock.NewRows(bookCols), 9, "Dune", "10.00"))

	book, err := svc.Create(context.Background(), CreateBookRequest{
		Title:    "Dune",
		Author:   "Herbert",
		Category: "Sci-Fi",
		Price:    &price,
		ISBN:     &isbn,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 9, book.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc, _ := newTestService(t)
	price := decimal.RequireFromString("-1")

	_, err := svc.Create(context.Background(), CreateBookRequest{
		Title: "x", Author: "y", Category: "z", Price: &price,
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestUpdateOnlyTouchesGivenFields(t *testing.T) {
	svc, mock := newTestService(t)
	title := "New Title"
	stock := 3

	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE books SET title = $1, stock_quantity = $2, updated_at = NOW() WHERE id = $3",
	)).
		WithArgs("New Title", 3, int64(4)).
		WillReturnRows(bookRow(sqlmock.NewRows(bookCols), 4, "New Title", "1.00"))

	book, err := svc.Update(context.Background(), 4, UpdateBookRequest{
		Title:         &title,
		StockQuantity: &stock,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", book.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWithoutFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), 4, UpdateBookRequest{})
	assert.ErrorIs(t, err, errNoFields)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestUpdateMissingBook(t *testing.T) {
	svc, mock := newTestService(t)
	title := "x"

	mock.ExpectQuery("UPDATE books").WillReturnRows(sqlmock.NewRows(bookCols))

	_, err := svc.Update(context.Background(), 404, UpdateBookRequest{Title: &title})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func newRouter(svc *Service, admin bool) http.Handler {
	r := chi.NewRouter()
	auth := func(next http.Handler) http.Handler { return next }
	h := NewHandler(svc)
	r.Route("/api", func(r chi.Router) {
		h.RegisterRoutes(r, auth)
	})
	if admin {
		r.Route("/admin", h.RegisterAdminRoutes)
	}
	return r
}

func TestHandlerDuplicateISBN(t *testing.T) {
	svc, mock := newTestService(t)
	mock.ExpectQuery("INSERT INTO books").WillReturnError(&pgconn.PgError{Code: "23505"})

	body := []byte(`{"title":"A","author":"B","category":"C","price":10,"isbn":"123"}`)
	rec := httptest.NewRecorder()
	newRouter(svc, true).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/admin/books", bytes.NewReader(body)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Book with this ISBN already exists", out["message"])
}

func TestHandlerCreateRequiresFields(t *testing.T) {
	svc, _ := newTestService(t)

	body := []byte(`{"title":"A","author":"B"}`)
	rec := httptest.NewRecorder()
	newRouter(svc, true).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/admin/books", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerDeleteReferencedBook(t *testing.T) {
	svc, mock := newTestService(t)
	mock.ExpectQuery("DELETE FROM books").
		WithArgs(int64(2)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	rec := httptest.NewRecorder()
	newRouter(svc, false).ServeHTTP(rec,
		httptest.NewRequest(http.MethodDelete, "/api/books/2", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerGetUnknownBook(t *testing.T) {
	svc, mock := newTestService(t)
	mock.ExpectQuery("FROM books WHERE id").WillReturnRows(sqlmock.NewRows(bookCols))

	rec := httptest.NewRecorder()
	newRouter(svc, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books/77", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Book not found", out["message"])
}

func TestHandlerCategories(t *testing.T) {
	svc, mock := newTestService(t)
	mock.ExpectQuery("GROUP BY category").
		WillReturnRows(sqlmock.NewRows([]string{"category", "count"}).
			AddRow("Fiction", 3).AddRow("History", 1))

	rec := httptest.NewRecorder()
	newRouter(svc, false).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/books/categories/list", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data []Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []Category{{"Fiction", 3}, {"History", 1}}, out.Data)
}
