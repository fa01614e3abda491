// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

type Repository interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
	LockBooks(ctx context.Context, ids []int64) ([]stockedBook, error)
	Insert(ctx context.Context, order *Order) error
	InsertItem(ctx context.Context, item *Item) error
	AdjustStock(ctx context.Context, bookID int64, delta int) error
	UpsertOwnership(ctx context.Context, userID, bookID, orderID int64) error

	LockOrder(ctx context.Context, id int64) (*Order, error)
	Lines(ctx context.Context, orderID int64) ([]Line, error)
	SetStatus(ctx context.Context, id int64, status string) (*Order, error)
	Delete(ctx context.Context, id int64) error

	ListByUser(ctx context.Context, userID int64) ([]Summary, error)
	GetDetail(ctx context.Context, id int64) (*Detail, error)
	Items(ctx context.Context, orderID int64) ([]Item, error)
}

type repository struct {
	db core.DBTX
}

// NewRepository binds to a pool or, for the write paths, a transaction.
func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

// LockBooks reads the requested books and holds their row locks until the
// transaction ends. Rows are locked in id order so concurrent orders over
// overlapping books cannot deadlock.
func (r *repository) LockBooks(ctx context.Context, ids []int64) ([]stockedBook, error) {
	query, args, err := sqlx.In(`
		SELECT id, title, author, cover_image, price, stock_quantity
		FROM books
		WHERE id IN (?)
		ORDER BY id
		FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock books: %w", err)
	}

	var books []stockedBook
	if err := r.db.SelectContext(ctx, &books, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("lock books: %w", err)
	}

	return books, nil
}

func (r *repository) Insert(ctx context.Context, order *Order) error {
	query := `
		INSERT INTO orders (user_id, total_amount, status, payment_method, shipping_address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		order.UserID,
		order.TotalAmount,
		order.Status,
		order.PaymentMethod,
		order.ShippingAddress,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r *repository) InsertItem(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO order_items (order_id, book_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		item.OrderID,
		item.BookID,
		item.Quantity,
		item.Price,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}

	return nil
}

func (r *repository) AdjustStock(ctx context.Context, bookID int64, delta int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE books SET stock_quantity = stock_quantity + $1, updated_at = NOW() WHERE id = $2`,
		delta, bookID)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	return nil
}

func (r *repository) UpsertOwnership(ctx context.Context, userID, bookID, orderID int64) error {
	query := `
		INSERT INTO user_books (user_id, book_id, order_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, book_id) DO UPDATE SET order_id = EXCLUDED.order_id`

	if _, err := r.db.ExecContext(ctx, query, userID, bookID, orderID); err != nil {
		return fmt.Errorf("record ownership: %w", err)
	}
	return nil
}

func (r *repository) LockOrder(ctx context.Context, id int64) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	var o Order
	err := r.db.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}

	return &o, nil
}

func (r *repository) Lines(ctx context.Context, orderID int64) ([]Line, error) {
	var lines []Line
	err := r.db.SelectContext(ctx, &lines,
		`SELECT book_id, quantity FROM order_items WHERE order_id = $1 ORDER BY book_id`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("order lines: %w", err)
	}
	return lines, nil
}

func (r *repository) SetStatus(ctx context.Context, id int64, status string) (*Order, error) {
	query := `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns

	var o Order
	err := r.db.GetContext(ctx, &o, query, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set order status: %w", err)
	}

	return &o, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if rows == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]Summary, error) {
	query := `
		SELECT o.id, o.user_id, o.total_amount, o.status, o.payment_method,
		       o.shipping_address, o.created_at, o.updated_at,
		       COUNT(oi.id) AS item_count
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE o.user_id = $1
		GROUP BY o.id
		ORDER BY o.created_at DESC`

	var orders []Summary
	if err := r.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}

	return orders, nil
}

func (r *repository) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	query := `
		SELECT o.id, o.user_id, o.total_amount, o.status, o.payment_method,
		       o.shipping_address, o.created_at, o.updated_at,
		       u.name AS user_name, u.email AS user_email
		FROM orders o
		INNER JOIN users u ON u.id = o.user_id
		WHERE o.id = $1`

	var d Detail
	err := r.db.GetContext(ctx, &d, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	return &d, nil
}

func (r *repository) Items(ctx context.Context, orderID int64) ([]Item, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.book_id, oi.quantity, oi.price,
		       b.title, b.author, b.cover_image
		FROM order_items oi
		INNER JOIN books b ON b.id = oi.book_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	var items []Item
	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, fmt.Errorf("order items: %w", err)
	}

	return items, nil
}
