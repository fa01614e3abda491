// AngelaMos | 2026
// entity.go

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"

	DefaultPaymentMethod = "cash"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              int64           `db:"id"`
	UserID          int64           `db:"user_id"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	Status          string          `db:"status"`
	PaymentMethod   string          `db:"payment_method"`
	ShippingAddress string          `db:"shipping_address"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// Summary is an order row in a customer's history.
type Summary struct {
	Order
	ItemCount int `db:"item_count"`
}

// Detail is an order with its buyer and lines.
type Detail struct {
	Order
	UserName  string `db:"user_name"`
	UserEmail string `db:"user_email"`
	Items     []Item `db:"-"`
}

// Item is an order line joined with the book it refers to. Price is the
// unit price captured when the order was placed.
type Item struct {
	ID         int64           `db:"id"`
	OrderID    int64           `db:"order_id"`
	BookID     int64           `db:"book_id"`
	Quantity   int             `db:"quantity"`
	Price      decimal.Decimal `db:"price"`
	Title      string          `db:"title"`
	Author     string          `db:"author"`
	CoverImage string          `db:"cover_image"`
}

// Line is the book and quantity of one order item.
type Line struct {
	BookID   int64 `db:"book_id"`
	Quantity int   `db:"quantity"`
}

// stockedBook is a books row read under FOR UPDATE while placing an order.
type stockedBook struct {
	ID            int64           `db:"id"`
	Title         string          `db:"title"`
	Author        string          `db:"author"`
	CoverImage    string          `db:"cover_image"`
	Price         decimal.Decimal `db:"price"`
	StockQuantity int             `db:"stock_quantity"`
}

const orderColumns = `id, user_id, total_amount, status, payment_method,
	shipping_address, created_at, updated_at`
