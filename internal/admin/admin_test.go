// AngelaMos | 2026
// admin_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/middleware"
	"github.com/carterperez-dev/boi-backend/internal/user"
)

var clock = func() time.Time {
	return time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
}

type fakeUsers map[int64]*user.User

func (f fakeUsers) GetUser(_ context.Context, id int64) (*user.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

type fakeDB struct{ err error }

func (f fakeDB) Ping(context.Context) error { return f.err }
func (f fakeDB) Stats() sql.DBStats         { return sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2} }

type fakeCache struct{}

func (fakeCache) Ping(context.Context) error  { return nil }
func (fakeCache) PoolStats() *redis.PoolStats { return &redis.PoolStats{Hits: 7, TotalConns: 2} }

func newTestService(t *testing.T, users fakeUsers) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewService(sqlx.NewDb(db, "pgx"), users, clock), mock
}

func asRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{UserID: 1, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(svc *Service, role string) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc, Probes{DB: fakeDB{}, Cache: fakeCache{}}).RegisterRoutes(r, asRole(role))
	return r
}

func TestParseSalesReportParams(t *testing.T) {
	p, err := ParseSalesReportParams("2026-01-01", "", "week")
	require.NoError(t, err)
	assert.Equal(t, "day", p.GroupBy)
	require.NotNil(t, p.StartDate)
	assert.Equal(t, time.January, p.StartDate.Month())
	assert.Nil(t, p.EndDate)

	p, err = ParseSalesReportParams("", "", "month")
	require.NoError(t, err)
	assert.Equal(t, "month", p.GroupBy)

	_, err = ParseSalesReportParams("", "03/01/2026", "day")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestSalesReportSummarisesCompletedOrders(t *testing.T) {
	svc, mock := newTestService(t, nil)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("to_char(created_at, 'YYYY-MM') AS period")).
		WithArgs("completed", start).
		WillReturnRows(sqlmock.NewRows([]string{"period", "order_count", "revenue", "avg_order_value"}).
			AddRow("2026-02", 2, "45.00", "22.50").
			AddRow("2026-01", 1, "15.00", "15.00"))

	report, err := svc.SalesReport(context.Background(), SalesReportParams{
		StartDate: &start,
		GroupBy:   "month",
	})
	require.NoError(t, err)

	assert.Len(t, report.SalesByPeriod, 2)
	assert.Equal(t, 3, report.Summary.TotalOrders)
	assert.Equal(t, "60", report.Summary.TotalRevenue.String())
	assert.Equal(t, "20", report.Summary.AverageOrderValue.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalesReportEmptyHasZeroAverage(t *testing.T) {
	svc, mock := newTestService(t, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
		WithArgs("completed").
		WillReturnRows(sqlmock.NewRows([]string{"period", "order_count", "revenue", "avg_order_value"}))

	report, err := svc.SalesReport(context.Background(), SalesReportParams{GroupBy: "day"})
	require.NoError(t, err)

	assert.NotNil(t, report.SalesByPeriod)
	assert.Empty(t, report.SalesByPeriod)
	assert.True(t, report.Summary.AverageOrderValue.IsZero())
}

func TestDashboardReadsInsideOneTransaction(t *testing.T) {
	svc, mock := newTestService(t, nil)
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("AS total_users")).
		WithArgs(today).
		WillReturnRows(sqlmock.NewRows([]string{
			"total_users", "total_books", "total_orders", "total_revenue",
			"total_order_items", "active_memberships", "total_feedback", "average_rating",
		}).AddRow(4, 12, 3, "87.456", 9, 1, 5, "4.333"))
	mock.ExpectQuery(regexp.QuoteMeta("STRING_AGG")).
		WithArgs(dashboardListSize).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "total_amount", "status", "payment_method", "created_at",
			"user_name", "user_email", "books",
		}).AddRow(3, "40.00", "completed", "cash", today, "Ann", "ann@example.com", "Dune, Emma"))
	mock.ExpectQuery(regexp.QuoteMeta("AS total_quantity")).
		WithArgs(dashboardListSize).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("AS month")).
		WithArgs(today.AddDate(0, -monthlySalesSpan, 0)).
		WillReturnRows(sqlmock.NewRows([]string{"month"}))
	mock.ExpectQuery(regexp.QuoteMeta("AS total_stock")).
		WillReturnRows(sqlmock.NewRows([]string{"category", "count", "total_stock"}).
			AddRow("Fiction", 7, 140))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}))
	mock.ExpectCommit()

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, d.Overview.TotalUsers)
	assert.Equal(t, "87.46", d.Overview.TotalRevenue.String())
	assert.Equal(t, "4.33", d.Overview.AverageRating.String())
	require.Len(t, d.RecentOrders, 1)
	assert.Equal(t, "Dune, Emma", d.RecentOrders[0].Books)
	assert.NotNil(t, d.TopSellingBooks)
	assert.NotNil(t, d.MonthlySales)
	assert.NotNil(t, d.OrderStatusDistribution)
	assert.Equal(t, 140, d.CategoryDistribution[0].TotalStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRollsBackOnFailure(t *testing.T) {
	svc, mock := newTestService(t, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("AS total_users")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.Dashboard(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDetailsWithoutMembership(t *testing.T) {
	svc, mock := newTestService(t, fakeUsers{
		5: {ID: 5, Name: "Ann", Email: "ann@example.com", Role: user.RoleUser},
	})

	mock.ExpectQuery(regexp.QuoteMeta("AS total_spent")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"total_orders", "total_spent", "last_order_date", "total_books", "total_feedback",
		}).AddRow(0, "0", nil, 0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM memberships")).
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	d, err := svc.UserDetails(context.Background(), 5)
	require.NoError(t, err)

	resp := ToUserDetailsResponse(d)
	assert.Equal(t, "Ann", resp.User.Name)
	assert.Nil(t, resp.Statistics.LastOrderDate)
	assert.Nil(t, resp.Membership)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerUserDetailsUnknownUser(t *testing.T) {
	svc, _ := newTestService(t, fakeUsers{})

	rec := httptest.NewRecorder()
	newRouter(svc, middleware.RoleAdmin).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users/99/details", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerRejectsNonAdmin(t *testing.T) {
	svc, _ := newTestService(t, nil)

	rec := httptest.NewRecorder()
	newRouter(svc, "user").
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlerSalesReportBadDate(t *testing.T) {
	svc, _ := newTestService(t, nil)

	rec := httptest.NewRecorder()
	newRouter(svc, middleware.RoleAdmin).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/sales-report?startDate=yesterday", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerSystemStats(t *testing.T) {
	svc, _ := newTestService(t, nil)

	rec := httptest.NewRecorder()
	newRouter(svc, middleware.RoleAdmin).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data SystemStats `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Data.Database.Healthy)
	assert.Equal(t, 3, body.Data.Database.Pool.Open)
	assert.True(t, body.Data.Redis.Healthy)
	assert.Equal(t, uint32(7), body.Data.Redis.Pool.Hits)
	assert.NotEmpty(t, body.Data.Runtime.GoVersion)
}

func TestProbesReportFailedPing(t *testing.T) {
	stats := Probes{DB: fakeDB{err: errors.New("down")}}.Collect(context.Background())

	assert.False(t, stats.Database.Healthy)
	assert.False(t, stats.Redis.Healthy)
	assert.Nil(t, stats.Redis.Pool)
}

type stubModule struct{ mounted bool }

func (s *stubModule) RegisterAdminRoutes(r chi.Router) {
	s.mounted = true
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { core.Message(w, "pong") })
}

func TestHandlerMountsModules(t *testing.T) {
	svc, _ := newTestService(t, nil)
	mod := &stubModule{}

	r := chi.NewRouter()
	NewHandler(svc, Probes{}, mod).RegisterRoutes(r, asRole(middleware.RoleAdmin))
	require.True(t, mod.mounted)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
