// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type UpdateProfileRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=100"`
	Phone   string `json:"phone"   validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

type AuthResponse struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

type LoginResponse struct {
	AuthResponse
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UserResponse struct {
	UserID    int64     `json:"userId"`
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *UserInfo) *UserResponse {
	return &UserResponse{
		UserID:    u.ID,
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
