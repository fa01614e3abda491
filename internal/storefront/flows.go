// AngelaMos | 2026
// flows.go

package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/boi-backend/internal/membership"
	"github.com/carterperez-dev/boi-backend/internal/order"
)

var (
	ErrNotSignedIn = errors.New("user not authenticated")
	ErrEmptyCart   = errors.New("cart is empty")
)

// Login signs in, points the client at the new token and loads the
// user's orders, library and membership.
func (s *State) Login(ctx context.Context, c *Client, email, password string) error {
	a, err := c.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.SignIn(a)
	c.SetToken(a.Token)
	return s.Refresh(ctx, c)
}

func (s *State) Register(ctx context.Context, c *Client, name, email, password string) error {
	a, err := c.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	s.SignIn(a)
	c.SetToken(a.Token)
	return s.Refresh(ctx, c)
}

// Resume restores a persisted session, dropping it when the token no
// longer verifies.
func (s *State) Resume(ctx context.Context, c *Client) error {
	if !s.IsAuthenticated() {
		return nil
	}
	c.SetToken(s.Session.Token)

	u, err := c.Verify(ctx)
	if err != nil {
		return s.observe(c, err)
	}
	s.Session.Name = u.Name
	s.Session.Email = u.Email
	s.Session.Role = u.Role
	return s.Refresh(ctx, c)
}

func (s *State) Refresh(ctx context.Context, c *Client) error {
	if !s.IsAuthenticated() {
		return ErrNotSignedIn
	}
	userID := s.Session.UserID

	books, err := c.UserBooks(ctx, userID)
	if err != nil {
		return s.observe(c, err)
	}
	orders, err := c.UserOrders(ctx, userID)
	if err != nil {
		return s.observe(c, err)
	}
	memberships, err := c.UserMemberships(ctx, userID)
	if err != nil {
		return s.observe(c, err)
	}

	s.MyBooks = books
	s.Orders = orders
	s.Membership = memberships.ActiveMembership
	return nil
}

// Checkout submits the cart as one order. The cart is cleared only when
// the order is accepted; failures are returned as is without retrying.
func (s *State) Checkout(
	ctx context.Context,
	c *Client,
	shippingAddress, paymentMethod string,
) (*order.DetailResponse, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotSignedIn
	}
	if len(s.Cart) == 0 {
		return nil, ErrEmptyCart
	}
	if paymentMethod == "" {
		paymentMethod = order.DefaultPaymentMethod
	}

	placed, err := c.CreateOrder(ctx, order.CreateOrderRequest{
		UserID:          s.Session.UserID,
		Items:           s.cartLines(),
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
	})
	if err != nil {
		return nil, s.observe(c, err)
	}

	s.ClearCart()
	s.Orders = append([]order.SummaryResponse{{
		OrderResponse: placed.OrderResponse,
		ItemCount:     len(placed.Items),
	}}, s.Orders...)

	if books, err := c.UserBooks(ctx, s.Session.UserID); err == nil {
		s.MyBooks = books
	}

	return placed, nil
}

func (s *State) SubscribeMembership(
	ctx context.Context,
	c *Client,
	planType string,
) (*membership.MembershipResponse, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotSignedIn
	}

	m, err := c.Subscribe(ctx, membership.SubscribeRequest{
		UserID:   s.Session.UserID,
		PlanType: planType,
		Duration: membership.DefaultDuration,
	})
	if err != nil {
		return nil, s.observe(c, err)
	}

	s.Membership = m
	return m, nil
}

// observe signs out on a 401 so a stale token is not reused.
func (s *State) observe(c *Client, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
		s.SignOut()
		c.SetToken("")
		return fmt.Errorf("session expired: %w", err)
	}
	return err
}
