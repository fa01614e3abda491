// AngelaMos | 2026
// entity.go

package admin

import (
	"time"

	"github.com/shopspring/decimal"
)

type Overview struct {
	TotalUsers        int             `db:"total_users"        json:"totalUsers"`
	TotalBooks        int             `db:"total_books"        json:"totalBooks"`
	TotalOrders       int             `db:"total_orders"       json:"totalOrders"`
	TotalRevenue      decimal.Decimal `db:"total_revenue"      json:"totalRevenue"`
	TotalOrderItems   int             `db:"total_order_items"  json:"totalOrderItems"`
	ActiveMemberships int             `db:"active_memberships" json:"activeMemberships"`
	TotalFeedback     int             `db:"total_feedback"     json:"totalFeedback"`
	AverageRating     decimal.Decimal `db:"average_rating"     json:"averageRating"`
}

type RecentOrder struct {
	ID            int64           `db:"id"             json:"id"`
	TotalAmount   decimal.Decimal `db:"total_amount"   json:"total_amount"`
	Status        string          `db:"status"         json:"status"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	CreatedAt     time.Time       `db:"created_at"     json:"created_at"`
	UserName      string          `db:"user_name"      json:"user_name"`
	UserEmail     string          `db:"user_email"     json:"user_email"`
	Books         string          `db:"books"          json:"books"`
}

type TopBook struct {
	ID            int64           `db:"id"             json:"id"`
	Title         string          `db:"title"          json:"title"`
	Author        string          `db:"author"         json:"author"`
	Price         decimal.Decimal `db:"price"          json:"price"`
	CoverImage    string          `db:"cover_image"    json:"cover_image"`
	TotalSold     int             `db:"total_sold"     json:"total_sold"`
	TotalQuantity int             `db:"total_quantity" json:"total_quantity"`
}

type MonthlySales struct {
	Month      string          `db:"month"       json:"month"`
	OrderCount int             `db:"order_count" json:"order_count"`
	Revenue    decimal.Decimal `db:"revenue"     json:"revenue"`
}

type CategoryStat struct {
	Category   string `db:"category"    json:"category"`
	Count      int    `db:"count"       json:"count"`
	TotalStock int    `db:"total_stock" json:"total_stock"`
}

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count"  json:"count"`
}

type Dashboard struct {
	Overview                Overview       `json:"overview"`
	RecentOrders            []RecentOrder  `json:"recentOrders"`
	TopSellingBooks         []TopBook      `json:"topSellingBooks"`
	MonthlySales            []MonthlySales `json:"monthlySales"`
	CategoryDistribution    []CategoryStat `json:"categoryDistribution"`
	OrderStatusDistribution []StatusCount  `json:"orderStatusDistribution"`
}

type UserStatistics struct {
	TotalOrders   int             `db:"total_orders"    json:"totalOrders"`
	TotalSpent    decimal.Decimal `db:"total_spent"     json:"totalSpent"`
	LastOrderDate *time.Time      `db:"last_order_date" json:"lastOrderDate"`
	TotalBooks    int             `db:"total_books"     json:"totalBooks"`
	TotalFeedback int             `db:"total_feedback"  json:"totalFeedback"`
}

type SalesPeriod struct {
	Period        string          `db:"period"          json:"period"`
	OrderCount    int             `db:"order_count"     json:"order_count"`
	Revenue       decimal.Decimal `db:"revenue"         json:"revenue"`
	AvgOrderValue decimal.Decimal `db:"avg_order_value" json:"avg_order_value"`
}

type SalesSummary struct {
	TotalOrders       int             `json:"totalOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

type SalesReport struct {
	SalesByPeriod []SalesPeriod `json:"salesByPeriod"`
	Summary       SalesSummary  `json:"summary"`
}

// periodFormats maps a sales report grouping to its to_char pattern.
var periodFormats = map[string]string{
	"day":   "YYYY-MM-DD",
	"month": "YYYY-MM",
	"year":  "YYYY",
}
