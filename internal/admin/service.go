// AngelaMos | 2026
// service.go

package admin

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/membership"
	"github.com/carterperez-dev/boi-backend/internal/user"
)

const (
	dashboardListSize = 10
	monthlySalesSpan  = 6
)

type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*user.User, error)
}

type Service struct {
	db    *sqlx.DB
	users UserLookup
	now   func() time.Time
}

func NewService(db *sqlx.DB, users UserLookup, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{db: db, users: users, now: now}
}

type UserDetails struct {
	User       *user.User
	Statistics *UserStatistics
	Membership *membership.Membership
}

// Dashboard gathers every panel inside one read-only snapshot so the
// figures agree with each other.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, -monthlySalesSpan, 0)

	d := &Dashboard{}
	err := core.InTxWithOptions(ctx, s.db, core.ReadOnlySnapshot, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		overview, err := repo.Overview(ctx, today)
		if err != nil {
			return err
		}
		d.Overview = *overview

		if d.RecentOrders, err = repo.RecentOrders(ctx, dashboardListSize); err != nil {
			return err
		}
		if d.TopSellingBooks, err = repo.TopSellingBooks(ctx, dashboardListSize); err != nil {
			return err
		}
		if d.MonthlySales, err = repo.MonthlySales(ctx, since); err != nil {
			return err
		}
		if d.CategoryDistribution, err = repo.CategoryDistribution(ctx); err != nil {
			return err
		}
		d.OrderStatusDistribution, err = repo.OrderStatusDistribution(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	d.Overview.TotalRevenue = d.Overview.TotalRevenue.Round(2)
	d.Overview.AverageRating = d.Overview.AverageRating.Round(2)
	fillEmpty(d)

	return d, nil
}

func fillEmpty(d *Dashboard) {
	if d.RecentOrders == nil {
		d.RecentOrders = []RecentOrder{}
	}
	if d.TopSellingBooks == nil {
		d.TopSellingBooks = []TopBook{}
	}
	if d.MonthlySales == nil {
		d.MonthlySales = []MonthlySales{}
	}
	if d.CategoryDistribution == nil {
		d.CategoryDistribution = []CategoryStat{}
	}
	if d.OrderStatusDistribution == nil {
		d.OrderStatusDistribution = []StatusCount{}
	}
}

func (s *Service) UserDetails(ctx context.Context, id int64) (*UserDetails, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	repo := NewRepository(s.db)

	stats, err := repo.UserStatistics(ctx, id)
	if err != nil {
		return nil, err
	}
	stats.TotalSpent = stats.TotalSpent.Round(2)

	m, err := repo.LatestMembership(ctx, id)
	if err != nil {
		return nil, err
	}

	return &UserDetails{User: u, Statistics: stats, Membership: m}, nil
}

// SalesReport covers completed orders only.
func (s *Service) SalesReport(ctx context.Context, params SalesReportParams) (*SalesReport, error) {
	rows, err := NewRepository(s.db).SalesByPeriod(ctx, params)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []SalesPeriod{}
	}

	summary := SalesSummary{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	for _, row := range rows {
		summary.TotalOrders += row.OrderCount
		summary.TotalRevenue = summary.TotalRevenue.Add(row.Revenue)
	}
	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = summary.TotalRevenue.
			Div(decimal.NewFromInt(int64(summary.TotalOrders))).
			Round(2)
	}

	return &SalesReport{SalesByPeriod: rows, Summary: summary}, nil
}
