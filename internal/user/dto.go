// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateProfileRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=100"`
	Phone   string `json:"phone"   validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

type ListedUserResponse struct {
	UserResponse
	OrderCount int `json:"order_count"`
}

type ListUsersParams struct {
	Page   int
	Limit  int
	Search string
	Role   string
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Role != RoleUser && p.Role != RoleAdmin {
		p.Role = ""
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
}

func ToListedResponseList(users []Listed) []ListedUserResponse {
	responses := make([]ListedUserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ListedUserResponse{
			UserResponse: ToUserResponse(&users[i].User),
			OrderCount:   users[i].OrderCount,
		})
	}
	return responses
}
