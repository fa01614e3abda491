// AngelaMos | 2026
// dto.go

package admin

import (
	"fmt"
	"time"

	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/membership"
	"github.com/carterperez-dev/boi-backend/internal/user"
)

const dateLayout = "2006-01-02"

type SalesReportParams struct {
	StartDate *time.Time
	EndDate   *time.Time
	GroupBy   string
}

// ParseSalesReportParams reads YYYY-MM-DD bounds and a day/month/year
// grouping. An unknown grouping falls back to day.
func ParseSalesReportParams(startDate, endDate, groupBy string) (SalesReportParams, error) {
	p := SalesReportParams{GroupBy: groupBy}
	if _, ok := periodFormats[p.GroupBy]; !ok {
		p.GroupBy = "day"
	}

	var err error
	if p.StartDate, err = parseDate(startDate); err != nil {
		return p, fmt.Errorf("startDate: %w", err)
	}
	if p.EndDate, err = parseDate(endDate); err != nil {
		return p, fmt.Errorf("endDate: %w", err)
	}

	return p, nil
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a YYYY-MM-DD date: %w", raw, core.ErrInvalidInput)
	}
	return &t, nil
}

type UserDetailsResponse struct {
	User       user.UserResponse              `json:"user"`
	Statistics UserStatistics                 `json:"statistics"`
	Membership *membership.MembershipResponse `json:"membership"`
}

func ToUserDetailsResponse(d *UserDetails) UserDetailsResponse {
	resp := UserDetailsResponse{
		User:       user.ToUserResponse(d.User),
		Statistics: *d.Statistics,
	}
	if d.Membership != nil {
		m := membership.ToMembershipResponse(d.Membership)
		resp.Membership = &m
	}
	return resp
}
