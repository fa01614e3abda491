// AngelaMos | 2026
// repository.go

package userbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

// Repository reads the ownership ledger. Rows are written only by the
// order engine while it places an order.
type Repository interface {
	List(ctx context.Context, userID int64) ([]Owned, error)
	Find(ctx context.Context, userID, bookID int64) (*Ownership, error)
	Categories(ctx context.Context, userID int64) ([]Category, error)
	Stats(ctx context.Context, userID int64) (*Stats, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, userID int64) ([]Owned, error) {
	query := `
		SELECT ub.id AS user_book_id, ub.purchased_at, ub.order_id,
		       b.id, b.title, b.author, b.category, b.description, b.price,
		       b.cover_image, b.publish_year, b.pages, b.language, b.publisher,
		       b.isbn, b.stock_quantity, b.is_featured, b.is_bestseller,
		       b.rating, b.reviews_count, b.created_at, b.updated_at,
		       o.status AS order_status
		FROM user_books ub
		INNER JOIN books b ON b.id = ub.book_id
		INNER JOIN orders o ON o.id = ub.order_id
		WHERE ub.user_id = $1
		ORDER BY ub.purchased_at DESC`

	var owned []Owned
	if err := r.db.SelectContext(ctx, &owned, query, userID); err != nil {
		return nil, fmt.Errorf("list user books: %w", err)
	}

	return owned, nil
}

// Find returns nil without error when the user does not own the book.
func (r *repository) Find(ctx context.Context, userID, bookID int64) (*Ownership, error) {
	query := `
		SELECT ub.id, ub.user_id, ub.book_id, ub.order_id, ub.purchased_at,
		       o.status AS order_status
		FROM user_books ub
		INNER JOIN orders o ON o.id = ub.order_id
		WHERE ub.user_id = $1 AND ub.book_id = $2`

	var o Ownership
	err := r.db.GetContext(ctx, &o, query, userID, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check ownership: %w", err)
	}

	return &o, nil
}

func (r *repository) Categories(ctx context.Context, userID int64) ([]Category, error) {
	query := `
		SELECT b.category, COUNT(*) AS book_count
		FROM user_books ub
		INNER JOIN books b ON b.id = ub.book_id
		WHERE ub.user_id = $1
		GROUP BY b.category
		ORDER BY book_count DESC, b.category`

	var categories []Category
	if err := r.db.SelectContext(ctx, &categories, query, userID); err != nil {
		return nil, fmt.Errorf("user book categories: %w", err)
	}

	return categories, nil
}

func (r *repository) Stats(ctx context.Context, userID int64) (*Stats, error) {
	query := `
		SELECT COUNT(DISTINCT ub.book_id) AS total_books,
		       COUNT(DISTINCT b.category) AS total_categories,
		       COUNT(DISTINCT b.author) AS total_authors,
		       COALESCE(SUM(oi.price * oi.quantity), 0) AS total_spent
		FROM user_books ub
		INNER JOIN books b ON b.id = ub.book_id
		LEFT JOIN order_items oi ON oi.order_id = ub.order_id AND oi.book_id = ub.book_id
		WHERE ub.user_id = $1`

	var s Stats
	if err := r.db.GetContext(ctx, &s, query, userID); err != nil {
		return nil, fmt.Errorf("user book stats: %w", err)
	}

	return &s, nil
}
