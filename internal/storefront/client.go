// AngelaMos | 2026
// client.go

package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/carterperez-dev/boi-backend/internal/auth"
	"github.com/carterperez-dev/boi-backend/internal/book"
	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/feedback"
	"github.com/carterperez-dev/boi-backend/internal/membership"
	"github.com/carterperez-dev/boi-backend/internal/order"
	"github.com/carterperez-dev/boi-backend/internal/userbook"
)

const defaultTimeout = 15 * time.Second

// APIError carries the envelope of a non-2xx response. Message is meant
// to be shown to the user as is.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

// DaysRemaining reports the lock period left on a rejected plan change.
func (e *APIError) DaysRemaining() (int, bool) {
	if e.Status != http.StatusConflict || e.Details == nil {
		return 0, false
	}
	v, ok := e.Details["daysRemaining"].(float64)
	if !ok {
		return 0, false
	}
	return int(v), true
}

func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

type envelope struct {
	Success    bool             `json:"success"`
	Data       json.RawMessage  `json:"data"`
	Message    string           `json:"message"`
	Code       string           `json:"code"`
	Details    map[string]any   `json:"details"`
	Pagination *core.Pagination `json:"pagination"`
}

// Client talks to the REST API under baseURL, e.g. http://localhost:5000/api.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Login(ctx context.Context, email, password string) (*auth.AuthResponse, error) {
	var out auth.AuthResponse
	_, err := c.do(ctx, http.MethodPost, "/auth/login", auth.LoginRequest{
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*auth.AuthResponse, error) {
	var out auth.AuthResponse
	_, err := c.do(ctx, http.MethodPost, "/auth/register", auth.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Verify(ctx context.Context) (*auth.UserResponse, error) {
	var out auth.UserResponse
	if _, err := c.do(ctx, http.MethodGet, "/auth/verify", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Books(ctx context.Context, query url.Values) ([]book.BookResponse, *core.Pagination, error) {
	path := "/books"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var out []book.BookResponse
	env, err := c.do(ctx, http.MethodGet, path, nil, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, env.Pagination, nil
}

func (c *Client) CreateOrder(ctx context.Context, req order.CreateOrderRequest) (*order.DetailResponse, error) {
	var out order.DetailResponse
	if _, err := c.do(ctx, http.MethodPost, "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserOrders(ctx context.Context, userID int64) ([]order.SummaryResponse, error) {
	var out []order.SummaryResponse
	if _, err := c.do(ctx, http.MethodGet, "/orders/user/"+id(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UserBooks(ctx context.Context, userID int64) ([]userbook.OwnedResponse, error) {
	var out []userbook.OwnedResponse
	if _, err := c.do(ctx, http.MethodGet, "/user-books/"+id(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Plans(ctx context.Context) ([]membership.Plan, error) {
	var out []membership.Plan
	if _, err := c.do(ctx, http.MethodGet, "/memberships/plans", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Subscribe(
	ctx context.Context,
	req membership.SubscribeRequest,
) (*membership.MembershipResponse, error) {
	var out membership.MembershipResponse
	if _, err := c.do(ctx, http.MethodPost, "/memberships/subscribe", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserMemberships(
	ctx context.Context,
	userID int64,
) (*membership.UserMembershipsResponse, error) {
	var out membership.UserMembershipsResponse
	if _, err := c.do(ctx, http.MethodGet, "/memberships/user/"+id(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitFeedback(
	ctx context.Context,
	req feedback.SubmitRequest,
) (*feedback.FeedbackResponse, error) {
	var out feedback.FeedbackResponse
	if _, err := c.do(ctx, http.MethodPost, "/feedback", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Code:    env.Code,
			Message: env.Message,
			Details: env.Details,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return &env, nil
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
