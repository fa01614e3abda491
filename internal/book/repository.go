// AngelaMos | 2026
// repository.go

package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

var errNoFields = fmt.Errorf("no fields to update: %w", core.ErrInvalidInput)

type Repository interface {
	List(ctx context.Context, params ListBooksParams) ([]Book, int, error)
	GetByID(ctx context.Context, id int64) (*Book, error)
	Create(ctx context.Context, book *Book) error
	Update(ctx context.Context, id int64, req UpdateBookRequest) (*Book, error)
	Delete(ctx context.Context, id int64) (string, error)
	Categories(ctx context.Context) ([]Category, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(
	ctx context.Context,
	params ListBooksParams,
) ([]Book, int, error) {
	params.Normalize()

	preds := core.NewPredicates()
	preds.AddIf(params.Category != "", "category = ?", params.Category)
	preds.AddIf(params.Author != "", "author ILIKE ?", core.Contains(params.Author))
	if params.MinPrice != nil {
		preds.Add("price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		preds.Add("price <= ?", *params.MaxPrice)
	}
	if params.Search != "" {
		pattern := core.Contains(params.Search)
		preds.Add("(title ILIKE ? OR author ILIKE ? OR description ILIKE ?)",
			pattern, pattern, pattern)
	}
	preds.AddIf(params.Featured, "is_featured")
	preds.AddIf(params.Bestseller, "is_bestseller")

	countQuery := `SELECT COUNT(*) FROM books ` + preds.Where()
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, preds.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM books %s ORDER BY %s %s, id %s LIMIT %s OFFSET %s`,
		columns,
		preds.Where(),
		sortColumns[params.SortBy],
		core.SortOrder(params.Order, "DESC"),
		core.SortOrder(params.Order, "DESC"),
		preds.Bind(params.Limit),
		preds.Bind(params.Offset()),
	)

	var books []Book
	if err := r.db.SelectContext(ctx, &books, query, preds.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	return books, total, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Book, error) {
	query := `SELECT ` + columns + ` FROM books WHERE id = $1`

	var book Book
	err := r.db.GetContext(ctx, &book, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get book: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	return &book, nil
}

func (r *repository) Create(ctx context.Context, book *Book) error {
	query := `
		INSERT INTO books (
			title, author, category, description, price, cover_image,
			publish_year, pages, language, publisher, isbn, stock_quantity,
			is_featured, is_bestseller
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + columns

	err := r.db.GetContext(ctx, book, query,
		book.Title,
		book.Author,
		book.Category,
		book.Description,
		book.Price,
		book.CoverImage,
		book.PublishYear,
		book.Pages,
		book.Language,
		book.Publisher,
		book.ISBN,
		book.StockQuantity,
		book.IsFeatured,
		book.IsBestseller,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create book: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create book: %w", err)
	}

	return nil
}

// Update applies only the non-nil fields of req.
func (r *repository) Update(
	ctx context.Context,
	id int64,
	req UpdateBookRequest,
) (*Book, error) {
	preds := core.NewPredicates()
	var sets []string

	set := func(column string, v any) {
		sets = append(sets, column+" = "+preds.Bind(v))
	}

	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.Author != nil {
		set("author", *req.Author)
	}
	if req.Category != nil {
		set("category", *req.Category)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.Price != nil {
		set("price", *req.Price)
	}
	if req.Rating != nil {
		set("rating", *req.Rating)
	}
	if req.ReviewsCount != nil {
		set("reviews_count", *req.ReviewsCount)
	}
	if req.CoverImage != nil {
		set("cover_image", *req.CoverImage)
	}
	if req.PublishYear != nil {
		set("publish_year", *req.PublishYear)
	}
	if req.Pages != nil {
		set("pages", *req.Pages)
	}
	if req.Language != nil {
		set("language", *req.Language)
	}
	if req.Publisher != nil {
		set("publisher", *req.Publisher)
	}
	if req.ISBN != nil {
		set("isbn", nullable(*req.ISBN))
	}
	if req.StockQuantity != nil {
		set("stock_quantity", *req.StockQuantity)
	}
	if req.IsFeatured != nil {
		set("is_featured", *req.IsFeatured)
	}
	if req.IsBestseller != nil {
		set("is_bestseller", *req.IsBestseller)
	}

	if len(sets) == 0 {
		return nil, fmt.Errorf("update book: %w", errNoFields)
	}

	query := fmt.Sprintf(
		`UPDATE books SET %s, updated_at = NOW() WHERE id = %s RETURNING %s`,
		strings.Join(sets, ", "),
		preds.Bind(id),
		columns,
	)

	var book Book
	err := r.db.GetContext(ctx, &book, query, preds.Args()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update book: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("update book: %w", core.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("update book: %w", err)
	}

	return &book, nil
}

// Delete removes a book and returns its title.
func (r *repository) Delete(ctx context.Context, id int64) (string, error) {
	var title string
	err := r.db.GetContext(ctx, &title,
		`DELETE FROM books WHERE id = $1 RETURNING title`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("delete book: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsForeignKeyError(err) {
			return "", fmt.Errorf("delete book: %w", core.ErrConflict)
		}
		return "", fmt.Errorf("delete book: %w", err)
	}

	return title, nil
}

func (r *repository) Categories(ctx context.Context) ([]Category, error) {
	query := `
		SELECT category, COUNT(*) AS count
		FROM books
		GROUP BY category
		ORDER BY category ASC`

	var categories []Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
