// AngelaMos | 2026
// entity.go

package userbook

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/boi-backend/internal/book"
)

// Owned is a purchased book with the ledger row that records it.
type Owned struct {
	book.Book
	UserBookID  int64     `db:"user_book_id"`
	OrderID     int64     `db:"order_id"`
	PurchasedAt time.Time `db:"purchased_at"`
	OrderStatus string    `db:"order_status"`
}

// Ownership is a bare ledger row.
type Ownership struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	BookID      int64     `db:"book_id"`
	OrderID     int64     `db:"order_id"`
	PurchasedAt time.Time `db:"purchased_at"`
	OrderStatus string    `db:"order_status"`
}

type Category struct {
	Category  string `db:"category"   json:"category"`
	BookCount int    `db:"book_count" json:"book_count"`
}

type Stats struct {
	TotalBooks      int             `db:"total_books"      json:"total_books"`
	TotalCategories int             `db:"total_categories" json:"total_categories"`
	TotalAuthors    int             `db:"total_authors"    json:"total_authors"`
	TotalSpent      decimal.Decimal `db:"total_spent"      json:"total_spent"`
}
