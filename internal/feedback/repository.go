// AngelaMos | 2026
// repository.go

package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

type Repository interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
	LockBook(ctx context.Context, bookID int64) error
	Insert(ctx context.Context, f *Feedback) error
	GetForUpdate(ctx context.Context, id int64) (*Feedback, error)
	Update(ctx context.Context, id int64, rating *int, comment *string) (*Feedback, error)
	Delete(ctx context.Context, id int64) error
	RecomputeBookRating(ctx context.Context, bookID int64) error

	View(ctx context.Context, id int64) (*View, error)
	ListByBook(ctx context.Context, params ListByBookParams) ([]View, int, error)
	Distribution(ctx context.Context, bookID int64) ([]RatingCount, error)
	ListByUser(ctx context.Context, userID int64) ([]View, error)
	Recent(ctx context.Context, limit int) ([]View, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) exists(ctx context.Context, query string, id int64) (bool, error) {
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, id); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *repository) UserExists(ctx context.Context, userID int64) (bool, error) {
	ok, err := r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return ok, nil
}

// LockBook takes the book row lock that serialises rating recomputes for
// that book.
func (r *repository) LockBook(ctx context.Context, bookID int64) error {
	var id int64
	err := r.db.GetContext(ctx, &id, `SELECT id FROM books WHERE id = $1 FOR UPDATE`, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookNotFound
	}
	if err != nil {
		return fmt.Errorf("lock book: %w", err)
	}
	return nil
}

func (r *repository) Insert(ctx context.Context, f *Feedback) error {
	query := `
		INSERT INTO feedback (user_id, book_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		f.UserID,
		f.BookID,
		f.Rating,
		f.Comment,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	return nil
}

func (r *repository) GetForUpdate(ctx context.Context, id int64) (*Feedback, error) {
	var f Feedback
	err := r.db.GetContext(ctx, &f,
		`SELECT `+columns+` FROM feedback WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	return &f, nil
}

func (r *repository) Update(
	ctx context.Context,
	id int64,
	rating *int,
	comment *string,
) (*Feedback, error) {
	preds := core.NewPredicates()
	var sets []string

	if rating != nil {
		sets = append(sets, "rating = "+preds.Bind(*rating))
	}
	if comment != nil {
		sets = append(sets, "comment = "+preds.Bind(*comment))
	}
	if len(sets) == 0 {
		return nil, ErrNoFields
	}

	query := `UPDATE feedback SET ` + strings.Join(sets, ", ") +
		`, updated_at = NOW() WHERE id = ` + preds.Bind(id) +
		` RETURNING ` + columns

	var f Feedback
	err := r.db.GetContext(ctx, &f, query, preds.Args()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update feedback: %w", err)
	}

	return &f, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if rows == 0 {
		return ErrFeedbackNotFound
	}

	return nil
}

// RecomputeBookRating rewrites a book's rating and reviews_count from its
// feedback rows. A book with no feedback gets 0 for both.
func (r *repository) RecomputeBookRating(ctx context.Context, bookID int64) error {
	query := `
		UPDATE books SET
			rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 2) FROM feedback WHERE book_id = $1), 0),
			reviews_count = (SELECT COUNT(*) FROM feedback WHERE book_id = $1)
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, bookID); err != nil {
		return fmt.Errorf("recompute book rating: %w", err)
	}
	return nil
}

func (r *repository) View(ctx context.Context, id int64) (*View, error) {
	var v View
	err := r.db.GetContext(ctx, &v, viewSelect+` WHERE f.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	return &v, nil
}

func (r *repository) ListByBook(
	ctx context.Context,
	params ListByBookParams,
) ([]View, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM feedback WHERE book_id = $1`, params.BookID)
	if err != nil {
		return nil, 0, fmt.Errorf("count book feedback: %w", err)
	}

	order := core.SortOrder(params.Order, "DESC")
	query := viewSelect + `
		WHERE f.book_id = $1
		ORDER BY f.` + params.SortBy + ` ` + order + `, f.id ` + order + `
		LIMIT $2 OFFSET $3`

	var views []View
	err = r.db.SelectContext(ctx, &views, query, params.BookID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list book feedback: %w", err)
	}

	return views, total, nil
}

func (r *repository) Distribution(ctx context.Context, bookID int64) ([]RatingCount, error) {
	query := `
		SELECT rating, COUNT(*) AS count
		FROM feedback
		WHERE book_id = $1
		GROUP BY rating
		ORDER BY rating DESC`

	var dist []RatingCount
	if err := r.db.SelectContext(ctx, &dist, query, bookID); err != nil {
		return nil, fmt.Errorf("rating distribution: %w", err)
	}
	return dist, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]View, error) {
	var views []View
	err := r.db.SelectContext(ctx, &views,
		viewSelect+` WHERE f.user_id = $1 ORDER BY f.created_at DESC, f.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user feedback: %w", err)
	}
	return views, nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]View, error) {
	var views []View
	err := r.db.SelectContext(ctx, &views,
		viewSelect+` ORDER BY f.created_at DESC, f.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent feedback: %w", err)
	}
	return views, nil
}
