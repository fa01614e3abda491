// AngelaMos | 2026
// errors.go

package order

import (
	"errors"
	"fmt"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

var (
	ErrUserNotFound  = fmt.Errorf("user not found: %w", core.ErrNotFound)
	ErrBooksNotFound = fmt.Errorf("one or more books not found: %w", core.ErrNotFound)
	ErrOrderNotFound = fmt.Errorf("order not found: %w", core.ErrNotFound)
	ErrInvalidStatus = fmt.Errorf("invalid order status: %w", core.ErrInvalidInput)
	ErrEmptyOrder    = fmt.Errorf("order has no items: %w", core.ErrInvalidInput)
	ErrCannotReopen  = errors.New("cancelled orders cannot be reopened")
)

// InsufficientStockError rejects an order line that asks for more copies
// than the book has in stock.
type InsufficientStockError struct {
	BookID    int64
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for \"%s\". Available: %d", e.Title, e.Available)
}
