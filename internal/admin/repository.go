// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/membership"
)

type Repository interface {
	Overview(ctx context.Context, today time.Time) (*Overview, error)
	RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error)
	TopSellingBooks(ctx context.Context, limit int) ([]TopBook, error)
	MonthlySales(ctx context.Context, since time.Time) ([]MonthlySales, error)
	CategoryDistribution(ctx context.Context) ([]CategoryStat, error)
	OrderStatusDistribution(ctx context.Context) ([]StatusCount, error)

	UserStatistics(ctx context.Context, userID int64) (*UserStatistics, error)
	LatestMembership(ctx context.Context, userID int64) (*membership.Membership, error)

	SalesByPeriod(ctx context.Context, params SalesReportParams) ([]SalesPeriod, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Overview(ctx context.Context, today time.Time) (*Overview, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'user') AS total_users,
			(SELECT COUNT(*) FROM books) AS total_books,
			(SELECT COUNT(*) FROM orders) AS total_orders,
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders) AS total_revenue,
			(SELECT COALESCE(SUM(quantity), 0) FROM order_items) AS total_order_items,
			(SELECT COUNT(*) FROM memberships WHERE status = 'active' AND end_date > $1) AS active_memberships,
			(SELECT COUNT(*) FROM feedback) AS total_feedback,
			(SELECT COALESCE(ROUND(AVG(rating), 2), 0) FROM books WHERE rating > 0) AS average_rating`

	var o Overview
	if err := r.db.GetContext(ctx, &o, query, today); err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}
	return &o, nil
}

func (r *repository) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	query := `
		SELECT o.id, o.total_amount, o.status, o.payment_method, o.created_at,
		       u.name AS user_name, u.email AS user_email,
		       COALESCE(STRING_AGG(b.title, ', ' ORDER BY oi.id), '') AS books
		FROM orders o
		INNER JOIN users u ON u.id = o.user_id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN books b ON b.id = oi.book_id
		GROUP BY o.id, u.name, u.email
		ORDER BY o.created_at DESC
		LIMIT $1`

	var orders []RecentOrder
	if err := r.db.SelectContext(ctx, &orders, query, limit); err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	return orders, nil
}

func (r *repository) TopSellingBooks(ctx context.Context, limit int) ([]TopBook, error) {
	query := `
		SELECT b.id, b.title, b.author, b.price, b.cover_image,
		       COUNT(oi.id) AS total_sold,
		       SUM(oi.quantity) AS total_quantity
		FROM books b
		INNER JOIN order_items oi ON oi.book_id = b.id
		GROUP BY b.id
		ORDER BY total_quantity DESC, b.id
		LIMIT $1`

	var books []TopBook
	if err := r.db.SelectContext(ctx, &books, query, limit); err != nil {
		return nil, fmt.Errorf("top selling books: %w", err)
	}
	return books, nil
}

func (r *repository) MonthlySales(ctx context.Context, since time.Time) ([]MonthlySales, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM') AS month,
		       COUNT(*) AS order_count,
		       SUM(total_amount) AS revenue
		FROM orders
		WHERE created_at >= $1
		GROUP BY month
		ORDER BY month DESC`

	var sales []MonthlySales
	if err := r.db.SelectContext(ctx, &sales, query, since); err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}
	return sales, nil
}

func (r *repository) CategoryDistribution(ctx context.Context) ([]CategoryStat, error) {
	query := `
		SELECT category, COUNT(*) AS count, COALESCE(SUM(stock_quantity), 0) AS total_stock
		FROM books
		GROUP BY category
		ORDER BY count DESC, category`

	var stats []CategoryStat
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("category distribution: %w", err)
	}
	return stats, nil
}

func (r *repository) OrderStatusDistribution(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.SelectContext(ctx, &counts,
		`SELECT status, COUNT(*) AS count FROM orders GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("order status distribution: %w", err)
	}
	return counts, nil
}

func (r *repository) UserStatistics(ctx context.Context, userID int64) (*UserStatistics, error) {
	query := `
		SELECT COUNT(*) AS total_orders,
		       COALESCE(SUM(total_amount), 0) AS total_spent,
		       MAX(created_at) AS last_order_date,
		       (SELECT COUNT(DISTINCT book_id) FROM user_books WHERE user_id = $1) AS total_books,
		       (SELECT COUNT(*) FROM feedback WHERE user_id = $1) AS total_feedback
		FROM orders
		WHERE user_id = $1`

	var s UserStatistics
	if err := r.db.GetContext(ctx, &s, query, userID); err != nil {
		return nil, fmt.Errorf("user statistics: %w", err)
	}
	return &s, nil
}

// LatestMembership returns nil when the user never subscribed.
func (r *repository) LatestMembership(
	ctx context.Context,
	userID int64,
) (*membership.Membership, error) {
	query := `
		SELECT id, user_id, plan_type, status, start_date, end_date, price,
		       created_at, updated_at
		FROM memberships
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	var m membership.Membership
	err := r.db.GetContext(ctx, &m, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest membership: %w", err)
	}
	return &m, nil
}

func (r *repository) SalesByPeriod(
	ctx context.Context,
	params SalesReportParams,
) ([]SalesPeriod, error) {
	preds := core.NewPredicates().
		Add("status = ?", "completed").
		AddIf(params.StartDate != nil, "created_at::date >= ?", deref(params.StartDate)).
		AddIf(params.EndDate != nil, "created_at::date <= ?", deref(params.EndDate))

	query := `
		SELECT to_char(created_at, '` + periodFormats[params.GroupBy] + `') AS period,
		       COUNT(*) AS order_count,
		       SUM(total_amount) AS revenue,
		       ROUND(AVG(total_amount), 2) AS avg_order_value
		FROM orders
		` + preds.Where() + `
		GROUP BY period
		ORDER BY period DESC`

	var rows []SalesPeriod
	if err := r.db.SelectContext(ctx, &rows, query, preds.Args()...); err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	return rows, nil
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
