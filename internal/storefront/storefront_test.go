// AngelaMos | 2026
// storefront_test.go

package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/boi-backend/internal/auth"
	"github.com/carterperez-dev/boi-backend/internal/book"
	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/membership"
	"github.com/carterperez-dev/boi-backend/internal/order"
	"github.com/carterperez-dev/boi-backend/internal/userbook"
)

func testBook(id int64, price string) book.BookResponse {
	return book.BookResponse{ID: id, Title: "Book", Price: decimal.RequireFromString(price)}
}

func signedIn() *State {
	s := NewState()
	s.SignIn(&auth.AuthResponse{UserID: 3, Name: "Ann", Email: "ann@example.com", Role: "user", Token: "tok"})
	return s
}

func TestCartOperations(t *testing.T) {
	s := NewState()

	s.AddToCart(testBook(1, "10.00"), 2)
	s.AddToCart(testBook(2, "20.00"), 1)
	s.AddToCart(testBook(1, "10.00"), 0)

	require.Len(t, s.Cart, 2)
	assert.Equal(t, 3, s.Cart[0].Quantity)
	assert.Equal(t, 4, s.CartCount())
	assert.True(t, s.CartTotal().Equal(decimal.RequireFromString("50.00")))

	s.UpdateCartQuantity(2, 5)
	assert.Equal(t, 5, s.Cart[1].Quantity)

	s.UpdateCartQuantity(1, 0)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, int64(2), s.Cart[0].Book.ID)

	s.RemoveFromCart(2)
	assert.Empty(t, s.Cart)
	assert.True(t, s.CartTotal().IsZero())
}

func TestSessionRoles(t *testing.T) {
	s := signedIn()
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())

	s.Session.Role = "admin"
	assert.True(t, s.IsAdmin())

	s.AddToCart(testBook(1, "1"), 1)
	s.SignOut()
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Cart)
}

func TestSaveFileReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	empty, err := LoadFile(path)
	require.NoError(t, err)
	assert.Nil(t, empty.Session)

	s := signedIn()
	s.AddToCart(testBook(7, "12.50"), 2)
	require.NoError(t, s.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, s.Session, loaded.Session)
	require.Len(t, loaded.Cart, 1)
	assert.Equal(t, 2, loaded.Cart[0].Quantity)
	assert.True(t, loaded.CartTotal().Equal(decimal.RequireFromString("25")))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load(bytes.NewBufferString("{not json"))
	assert.Error(t, err)
}

type fakeAPI struct {
	mux       *http.ServeMux
	lastOrder order.CreateOrderRequest
	lastAuth  string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	api := &fakeAPI{mux: http.NewServeMux()}
	srv := httptest.NewServer(api.mux)
	t.Cleanup(srv.Close)
	return api, NewClient(srv.URL+"/api/", srv.Client())
}

func TestCheckoutClearsCartAndPrependsOrder(t *testing.T) {
	api, client := newFakeAPI(t)
	api.mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		api.lastAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&api.lastOrder))
		core.Created(w, order.DetailResponse{
			OrderResponse: order.OrderResponse{
				ID: 41, UserID: 3, TotalAmount: decimal.RequireFromString("40.00"),
				Status: "completed", PaymentMethod: "cash", CreatedAt: time.Now(),
			},
			Items: []order.ItemResponse{{BookID: 1, Quantity: 2}, {BookID: 2, Quantity: 1}},
		}, "Order created successfully")
	})
	api.mux.HandleFunc("GET /api/user-books/3", func(w http.ResponseWriter, _ *http.Request) {
		core.OK(w, []userbook.OwnedResponse{{BookResponse: testBook(1, "10.00")}})
	})

	s := signedIn()
	client.SetToken(s.Session.Token)
	s.Orders = []order.SummaryResponse{{OrderResponse: order.OrderResponse{ID: 9}}}
	s.AddToCart(testBook(1, "10.00"), 2)
	s.AddToCart(testBook(2, "20.00"), 1)

	placed, err := s.Checkout(context.Background(), client, "1 Main St", "")
	require.NoError(t, err)

	assert.Equal(t, int64(41), placed.ID)
	assert.Equal(t, "Bearer tok", api.lastAuth)
	assert.Equal(t, int64(3), api.lastOrder.UserID)
	assert.Equal(t, "cash", api.lastOrder.PaymentMethod)
	assert.Equal(t, []order.ItemRequest{{BookID: 1, Quantity: 2}, {BookID: 2, Quantity: 1}}, api.lastOrder.Items)

	assert.Empty(t, s.Cart)
	require.Len(t, s.Orders, 2)
	assert.Equal(t, int64(41), s.Orders[0].ID)
	assert.Equal(t, 2, s.Orders[0].ItemCount)
	assert.Len(t, s.MyBooks, 1)
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	api, client := newFakeAPI(t)
	api.mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, _ *http.Request) {
		core.JSONError(w, core.NewAppError(nil, "Insufficient stock for \"Dune\"",
			http.StatusBadRequest, core.CodeBadRequest).
			WithDetails(map[string]any{"bookId": 1, "requested": 3, "available": 1}))
	})

	s := signedIn()
	s.AddToCart(testBook(1, "10.00"), 3)

	_, err := s.Checkout(context.Background(), client, "", "card")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Insufficient stock for \"Dune\"", apiErr.Message)
	assert.Equal(t, float64(1), apiErr.Details["available"])

	assert.Equal(t, 3, s.CartCount())
	assert.True(t, s.IsAuthenticated())
}

func TestCheckoutGuards(t *testing.T) {
	_, client := newFakeAPI(t)

	_, err := NewState().Checkout(context.Background(), client, "", "")
	assert.ErrorIs(t, err, ErrNotSignedIn)

	_, err = signedIn().Checkout(context.Background(), client, "", "")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubscribeLockPeriodExposesDaysRemaining(t *testing.T) {
	api, client := newFakeAPI(t)
	api.mux.HandleFunc("POST /api/memberships/subscribe", func(w http.ResponseWriter, _ *http.Request) {
		core.JSONError(w, core.NewAppError(nil,
			"You can change your subscription after one month. 12 days remaining.",
			http.StatusConflict, membership.CodeLockPeriod).
			WithDetails(map[string]any{"daysRemaining": 12}))
	})

	s := signedIn()
	_, err := s.SubscribeMembership(context.Background(), client, membership.PlanPremium)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	days, ok := apiErr.DaysRemaining()
	require.True(t, ok)
	assert.Equal(t, 12, days)
	assert.Equal(t, membership.CodeLockPeriod, apiErr.Code)
	assert.Nil(t, s.Membership)
}

func TestLoginLoadsUserData(t *testing.T) {
	api, client := newFakeAPI(t)
	api.mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		core.OKWithMessage(w, auth.AuthResponse{UserID: 3, Name: "Ann", Role: "user", Token: "fresh"}, "Login successful")
	})
	api.mux.HandleFunc("GET /api/user-books/3", func(w http.ResponseWriter, r *http.Request) {
		api.lastAuth = r.Header.Get("Authorization")
		core.OK(w, []userbook.OwnedResponse{})
	})
	api.mux.HandleFunc("GET /api/orders/user/3", func(w http.ResponseWriter, _ *http.Request) {
		core.OK(w, []order.SummaryResponse{{OrderResponse: order.OrderResponse{ID: 5}, ItemCount: 1}})
	})
	api.mux.HandleFunc("GET /api/memberships/user/3", func(w http.ResponseWriter, _ *http.Request) {
		core.OK(w, membership.UserMembershipsResponse{
			ActiveMembership: &membership.MembershipResponse{ID: 8, PlanType: membership.PlanBasic},
			History:          []membership.MembershipResponse{},
		})
	})

	s := NewState()
	require.NoError(t, s.Login(context.Background(), client, "ann@example.com", "secret1"))

	assert.Equal(t, "Bearer fresh", api.lastAuth)
	assert.Equal(t, int64(3), s.Session.UserID)
	require.Len(t, s.Orders, 1)
	require.NotNil(t, s.Membership)
	assert.Equal(t, membership.PlanBasic, s.Membership.PlanType)
}

func TestUnauthorizedSignsOut(t *testing.T) {
	api, client := newFakeAPI(t)
	api.mux.HandleFunc("GET /api/auth/verify", func(w http.ResponseWriter, _ *http.Request) {
		core.Unauthorized(w, "Token has expired")
	})

	s := signedIn()
	s.AddToCart(testBook(1, "5"), 1)

	err := s.Resume(context.Background(), client)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsUnauthorized())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Cart)
}

func TestPlansAndBooks(t *testing.T) {
	api, client := newFakeAPI(t)
	api.mux.HandleFunc("GET /api/memberships/plans", func(w http.ResponseWriter, _ *http.Request) {
		core.OK(w, membership.Plans())
	})
	api.mux.HandleFunc("GET /api/books", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Fiction", r.URL.Query().Get("category"))
		core.Paginated(w, []book.BookResponse{testBook(1, "9.99")}, 1, 20, 1)
	})

	plans, err := client.Plans(context.Background())
	require.NoError(t, err)
	assert.Len(t, plans, 3)

	books, page, err := client.Books(context.Background(), map[string][]string{"category": {"Fiction"}})
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.NotNil(t, page)
	assert.Equal(t, 1, page.TotalItems)
}
