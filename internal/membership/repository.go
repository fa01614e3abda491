// AngelaMos | 2026
// repository.go

package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

type Repository interface {
	LockUser(ctx context.Context, userID int64) error
	Active(ctx context.Context, userID int64, today time.Time) (*Membership, error)
	Insert(ctx context.Context, m *Membership) error
	GetForUpdate(ctx context.Context, id int64) (*Membership, error)
	SetStatus(ctx context.Context, id int64, status string) (*Membership, error)
	Extend(ctx context.Context, id int64, endDate time.Time, charge decimal.Decimal) (*Membership, error)
	ListByUser(ctx context.Context, userID int64) ([]WithUser, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// LockUser holds the user's row lock so subscription changes for one user
// run one at a time.
func (r *repository) LockUser(ctx context.Context, userID int64) error {
	var id int64
	err := r.db.GetContext(ctx, &id, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lock user: %w", err)
	}
	return nil
}

// Active returns the user's current membership, or nil when there is none.
func (r *repository) Active(
	ctx context.Context,
	userID int64,
	today time.Time,
) (*Membership, error) {
	query := `
		SELECT ` + columns + `
		FROM memberships
		WHERE user_id = $1 AND status = 'active' AND end_date > $2
		ORDER BY start_date DESC, id DESC
		LIMIT 1`

	var m Membership
	err := r.db.GetContext(ctx, &m, query, userID, today)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active membership: %w", err)
	}

	return &m, nil
}

func (r *repository) Insert(ctx context.Context, m *Membership) error {
	query := `
		INSERT INTO memberships (user_id, plan_type, status, start_date, end_date, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		m.UserID,
		m.PlanType,
		m.Status,
		m.StartDate,
		m.EndDate,
		m.Price,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}

	return nil
}

func (r *repository) GetForUpdate(ctx context.Context, id int64) (*Membership, error) {
	query := `SELECT ` + columns + ` FROM memberships WHERE id = $1 FOR UPDATE`

	var m Membership
	err := r.db.GetContext(ctx, &m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}

	return &m, nil
}

func (r *repository) SetStatus(ctx context.Context, id int64, status string) (*Membership, error) {
	query := `
		UPDATE memberships SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + columns

	var m Membership
	err := r.db.GetContext(ctx, &m, query, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set membership status: %w", err)
	}

	return &m, nil
}

func (r *repository) Extend(
	ctx context.Context,
	id int64,
	endDate time.Time,
	charge decimal.Decimal,
) (*Membership, error) {
	query := `
		UPDATE memberships
		SET end_date = $2, status = 'active', price = price + $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + columns

	var m Membership
	err := r.db.GetContext(ctx, &m, query, id, endDate, charge)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("renew membership: %w", err)
	}

	return &m, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]WithUser, error) {
	query := `
		SELECT m.id, m.user_id, m.plan_type, m.status, m.start_date, m.end_date,
		       m.price, m.created_at, m.updated_at,
		       u.name AS user_name, u.email AS user_email
		FROM memberships m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC, m.id DESC`

	var rows []WithUser
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	return rows, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM memberships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	if rows == 0 {
		return ErrMembershipNotFound
	}

	return nil
}
