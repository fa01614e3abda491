// AngelaMos | 2026
// dto.go

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemRequest struct {
	BookID   int64 `json:"bookId"   validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gte=1"`
}

type CreateOrderRequest struct {
	UserID          int64         `json:"userId"          validate:"required,gt=0"`
	Items           []ItemRequest `json:"items"           validate:"required,min=1,dive"`
	ShippingAddress string        `json:"shippingAddress" validate:"max=500"`
	PaymentMethod   string        `json:"paymentMethod"   validate:"max=50"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// mergeLines folds repeated books into one line, keeping first-seen order.
func mergeLines(items []ItemRequest) []Line {
	index := make(map[int64]int, len(items))
	lines := make([]Line, 0, len(items))

	for _, it := range items {
		if i, ok := index[it.BookID]; ok {
			lines[i].Quantity += it.Quantity
			continue
		}
		index[it.BookID] = len(lines)
		lines = append(lines, Line{BookID: it.BookID, Quantity: it.Quantity})
	}

	return lines
}

type OrderResponse struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	ShippingAddress string          `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type SummaryResponse struct {
	OrderResponse
	ItemCount int `json:"item_count"`
}

type ItemResponse struct {
	ID         int64           `json:"id"`
	BookID     int64           `json:"book_id"`
	Title      string          `json:"title"`
	Author     string          `json:"author"`
	CoverImage string          `json:"cover_image"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

type DetailResponse struct {
	OrderResponse
	UserName  string         `json:"user_name,omitempty"`
	UserEmail string         `json:"user_email,omitempty"`
	Items     []ItemResponse `json:"items"`
}

func ToOrderResponse(o *Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		PaymentMethod:   o.PaymentMethod,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func ToSummaryResponseList(orders []Summary) []SummaryResponse {
	out := make([]SummaryResponse, 0, len(orders))
	for i := range orders {
		out = append(out, SummaryResponse{
			OrderResponse: ToOrderResponse(&orders[i].Order),
			ItemCount:     orders[i].ItemCount,
		})
	}
	return out
}

func ToDetailResponse(d *Detail) DetailResponse {
	items := make([]ItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, ItemResponse{
			ID:         it.ID,
			BookID:     it.BookID,
			Title:      it.Title,
			Author:     it.Author,
			CoverImage: it.CoverImage,
			Quantity:   it.Quantity,
			Price:      it.Price,
		})
	}

	return DetailResponse{
		OrderResponse: ToOrderResponse(&d.Order),
		UserName:      d.UserName,
		UserEmail:     d.UserEmail,
		Items:         items,
	}
}
