// AngelaMos | 2026
// dto.go

package userbook

import (
	"time"

	"github.com/carterperez-dev/boi-backend/internal/book"
)

type OwnedResponse struct {
	book.BookResponse
	UserBookID  int64     `json:"user_book_id"`
	OrderID     int64     `json:"order_id"`
	PurchasedAt time.Time `json:"purchased_at"`
	OrderStatus string    `json:"order_status"`
}

type OwnershipResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	BookID      int64     `json:"book_id"`
	OrderID     int64     `json:"order_id"`
	PurchasedAt time.Time `json:"purchased_at"`
	OrderStatus string    `json:"order_status"`
}

type CheckResponse struct {
	Owns    bool               `json:"owns"`
	Details *OwnershipResponse `json:"details"`
}

func ToOwnedResponseList(owned []Owned) []OwnedResponse {
	out := make([]OwnedResponse, 0, len(owned))
	for i := range owned {
		o := &owned[i]
		out = append(out, OwnedResponse{
			BookResponse: book.ToBookResponse(&o.Book),
			UserBookID:   o.UserBookID,
			OrderID:      o.OrderID,
			PurchasedAt:  o.PurchasedAt,
			OrderStatus:  o.OrderStatus,
		})
	}
	return out
}

func ToCheckResponse(o *Ownership) CheckResponse {
	if o == nil {
		return CheckResponse{}
	}
	return CheckResponse{
		Owns: true,
		Details: &OwnershipResponse{
			ID:          o.ID,
			UserID:      o.UserID,
			BookID:      o.BookID,
			OrderID:     o.OrderID,
			PurchasedAt: o.PurchasedAt,
			OrderStatus: o.OrderStatus,
		},
	}
}
