// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/boi-backend/internal/config"
)

type drainRecorder struct{ draining bool }

func (d *drainRecorder) SetShutdown(v bool) { d.draining = v }

func newTestServer(d Drainer) *Server {
	return New(Config{
		ServerConfig:  config.ServerConfig{Host: "127.0.0.1", Port: 0},
		HealthHandler: d,
		Logger:        slog.New(slog.DiscardHandler),
	})
}

func TestUnknownRouteIsJSON(t *testing.T) {
	srv := newTestServer(nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Route not found")
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(nil)
	srv.Router().Get("/api/books", func(w http.ResponseWriter, _ *http.Request) {})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/books", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestShutdownMarksDraining(t *testing.T) {
	d := &drainRecorder{}
	srv := newTestServer(d)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx, time.Millisecond))
	assert.True(t, d.draining)
}

func TestShutdownRespectsDeadline(t *testing.T) {
	srv := newTestServer(&drainRecorder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, srv.Shutdown(ctx, time.Minute), context.Canceled)
}
