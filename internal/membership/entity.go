// AngelaMos | 2026
// entity.go

package membership

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PlanBasic      = "basic"
	PlanPremium    = "premium"
	PlanEnterprise = "enterprise"

	StatusActive    = "active"
	StatusCancelled = "cancelled"

	DefaultDuration = 30
	MaxDuration     = 365

	// LockPeriodDays is how long a subscription must run before the user
	// may switch to another plan.
	LockPeriodDays = 30
)

type Membership struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	PlanType  string          `db:"plan_type"`
	Status    string          `db:"status"`
	StartDate time.Time       `db:"start_date"`
	EndDate   time.Time       `db:"end_date"`
	Price     decimal.Decimal `db:"price"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// ActiveOn reports whether the membership is active and has not reached
// its end date on the given day.
func (m *Membership) ActiveOn(day time.Time) bool {
	return m.Status == StatusActive && m.EndDate.After(day)
}

// WithUser is a membership joined with the subscriber's name and email.
type WithUser struct {
	Membership
	UserName  string `db:"user_name"`
	UserEmail string `db:"user_email"`
}

type Plan struct {
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Features []string        `json:"features"`
}

var plans = []Plan{
	{
		Type:  PlanBasic,
		Name:  "Basic Plan",
		Price: decimal.RequireFromString("9.99"),
		Features: []string{
			"Access to 100+ ebooks",
			"Basic support",
			"1 device",
			"Standard quality",
		},
	},
	{
		Type:  PlanPremium,
		Name:  "Premium Plan",
		Price: decimal.RequireFromString("19.99"),
		Features: []string{
			"Access to 1000+ ebooks",
			"Priority support",
			"3 devices",
			"HD quality",
			"Offline reading",
		},
	},
	{
		Type:  PlanEnterprise,
		Name:  "Enterprise Plan",
		Price: decimal.RequireFromString("49.99"),
		Features: []string{
			"Unlimited ebooks access",
			"24/7 support",
			"Unlimited devices",
			"4K quality",
			"Offline reading",
			"Early access to new releases",
			"Exclusive author interviews",
		},
	},
}

// Plans returns a copy of the plan catalogue.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

func PlanByType(planType string) (Plan, bool) {
	for _, p := range plans {
		if p.Type == planType {
			return p, true
		}
	}
	return Plan{}, false
}

const columns = `id, user_id, plan_type, status, start_date, end_date, price,
	created_at, updated_at`
