// AngelaMos | 2026
// state.go

package storefront

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/boi-backend/internal/auth"
	"github.com/carterperez-dev/boi-backend/internal/book"
	"github.com/carterperez-dev/boi-backend/internal/membership"
	"github.com/carterperez-dev/boi-backend/internal/middleware"
	"github.com/carterperez-dev/boi-backend/internal/order"
	"github.com/carterperez-dev/boi-backend/internal/userbook"
)

type Session struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

type CartItem struct {
	Book     book.BookResponse `json:"book"`
	Quantity int               `json:"quantity"`
}

// State is everything a storefront front end keeps between page views.
// It is not safe for concurrent use.
type State struct {
	Session    *Session                       `json:"session"`
	Cart       []CartItem                     `json:"cart"`
	Orders     []order.SummaryResponse        `json:"orders"`
	MyBooks    []userbook.OwnedResponse       `json:"myBooks"`
	Membership *membership.MembershipResponse `json:"membership"`
}

func NewState() *State {
	return &State{}
}

func (s *State) SignIn(a *auth.AuthResponse) {
	s.Session = &Session{
		UserID: a.UserID,
		Name:   a.Name,
		Email:  a.Email,
		Role:   a.Role,
		Token:  a.Token,
	}
}

// SignOut drops the session together with everything tied to it,
// including the cart.
func (s *State) SignOut() {
	*s = State{}
}

func (s *State) IsAuthenticated() bool {
	return s.Session != nil && s.Session.Token != ""
}

func (s *State) IsAdmin() bool {
	return s.Session != nil && s.Session.Role == middleware.RoleAdmin
}

// AddToCart merges quantities when the book is already in the cart.
func (s *State) AddToCart(b book.BookResponse, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range s.Cart {
		if s.Cart[i].Book.ID == b.ID {
			s.Cart[i].Quantity += quantity
			return
		}
	}
	s.Cart = append(s.Cart, CartItem{Book: b, Quantity: quantity})
}

func (s *State) RemoveFromCart(bookID int64) {
	kept := s.Cart[:0]
	for _, item := range s.Cart {
		if item.Book.ID != bookID {
			kept = append(kept, item)
		}
	}
	s.Cart = kept
}

// UpdateCartQuantity removes the line when quantity drops to zero or below.
func (s *State) UpdateCartQuantity(bookID int64, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(bookID)
		return
	}
	for i := range s.Cart {
		if s.Cart[i].Book.ID == bookID {
			s.Cart[i].Quantity = quantity
			return
		}
	}
}

func (s *State) ClearCart() {
	s.Cart = nil
}

func (s *State) CartCount() int {
	n := 0
	for _, item := range s.Cart {
		n += item.Quantity
	}
	return n
}

func (s *State) CartTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Cart {
		total = total.Add(item.Book.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (s *State) cartLines() []order.ItemRequest {
	lines := make([]order.ItemRequest, 0, len(s.Cart))
	for _, item := range s.Cart {
		lines = append(lines, order.ItemRequest{BookID: item.Book.ID, Quantity: item.Quantity})
	}
	return lines
}

func (s *State) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return nil
}

func Load(r io.Reader) (*State, error) {
	var s State
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &s, nil
}

// SaveFile writes through a temp file in the same directory and renames
// it over path, so readers never observe a partial file.
func (s *State) SaveFile(path string) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if err := s.Save(tmp); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		return fmt.Errorf("sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// LoadFile returns an empty state when path does not exist yet.
func LoadFile(path string) (*State, error) {
	f, err := os.Open(path) //nolint:gosec // caller-chosen state path
	if os.IsNotExist(err) {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	return Load(f)
}
