// AngelaMos | 2026
// userbook_test.go

package userbook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/boi-backend/internal/middleware"
)

func newRouter(t *testing.T, userID int64, role string) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	authenticate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
				UserID: userID,
				Role:   role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	h := NewHandler(NewService(NewRepository(sqlx.NewDb(db, "pgx"))))
	r := chi.NewRouter()
	h.RegisterRoutes(r, authenticate)
	return r, mock
}

func get(t *testing.T, h http.Handler, path string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestOtherUsersLedgerIsForbidden(t *testing.T) {
	h, mock := newRouter(t, 5, "user")

	code, _ := get(t, h, "/user-books/6/stats")

	assert.Equal(t, http.StatusForbidden, code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminReadsAnyLedger(t *testing.T) {
	h, mock := newRouter(t, 1, middleware.RoleAdmin)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(oi.price * oi.quantity), 0) AS total_spent")).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{
			"total_books", "total_categories", "total_authors", "total_spent",
		}).AddRow(3, 2, 3, "45.50"))

	code, out := get(t, h, "/user-books/6/stats")

	require.Equal(t, http.StatusOK, code)
	data := out["data"].(map[string]any)
	assert.EqualValues(t, 3, data["total_books"])
	assert.Equal(t, "45.5", data["total_spent"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckReportsMissingOwnership(t *testing.T) {
	h, mock := newRouter(t, 5, "user")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE ub.user_id = $1 AND ub.book_id = $2")).
		WithArgs(int64(5), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	code, out := get(t, h, "/user-books/5/check/9")

	require.Equal(t, http.StatusOK, code)
	data := out["data"].(map[string]any)
	assert.Equal(t, false, data["owns"])
	assert.Nil(t, data["details"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckReportsOwnership(t *testing.T) {
	h, mock := newRouter(t, 5, "user")

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_books ub")).
		WithArgs(int64(5), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "book_id", "order_id", "purchased_at", "order_status",
		}).AddRow(1, 5, 9, 40, time.Now(), "completed"))

	code, out := get(t, h, "/user-books/5/check/9")

	require.Equal(t, http.StatusOK, code)
	data := out["data"].(map[string]any)
	assert.Equal(t, true, data["owns"])
	assert.EqualValues(t, 40, data["details"].(map[string]any)["order_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoriesNeverNull(t *testing.T) {
	h, mock := newRouter(t, 5, "user")

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY b.category")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"category", "book_count"}))

	code, out := get(t, h, "/user-books/5/categories")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, out["data"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
