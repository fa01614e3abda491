// AngelaMos | 2026
// dto.go

package membership

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscribeRequest struct {
	UserID   int64  `json:"userId"   validate:"required,gt=0"`
	PlanType string `json:"planType" validate:"required"`
	Duration int    `json:"duration" validate:"omitempty,min=1,max=365"`
}

type RenewRequest struct {
	Duration int `json:"duration" validate:"omitempty,min=1,max=365"`
}

const dateLayout = "2006-01-02"

type MembershipResponse struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	PlanType  string          `json:"plan_type"`
	Status    string          `json:"status"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	UserName  string          `json:"user_name,omitempty"`
	UserEmail string          `json:"user_email,omitempty"`
}

type UserMembershipsResponse struct {
	ActiveMembership *MembershipResponse  `json:"activeMembership"`
	History          []MembershipResponse `json:"history"`
}

func ToMembershipResponse(m *Membership) MembershipResponse {
	return MembershipResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		PlanType:  m.PlanType,
		Status:    m.Status,
		StartDate: m.StartDate.Format(dateLayout),
		EndDate:   m.EndDate.Format(dateLayout),
		Price:     m.Price,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toWithUserResponse(m *WithUser) MembershipResponse {
	resp := ToMembershipResponse(&m.Membership)
	resp.UserName = m.UserName
	resp.UserEmail = m.UserEmail
	return resp
}

func ToUserMembershipsResponse(um *UserMemberships) UserMembershipsResponse {
	out := UserMembershipsResponse{
		History: make([]MembershipResponse, 0, len(um.History)),
	}
	for i := range um.History {
		out.History = append(out.History, toWithUserResponse(&um.History[i]))
	}
	if um.Active != nil {
		active := toWithUserResponse(um.Active)
		out.ActiveMembership = &active
	}
	return out
}
