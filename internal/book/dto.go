// AngelaMos | 2026
// dto.go

package book

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateBookRequest struct {
	Title         string           `json:"title"          validate:"required,max=255"`
	Author        string           `json:"author"         validate:"required,max=255"`
	Category      string           `json:"category"       validate:"required,max=100"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price"          validate:"required"`
	CoverImage    string           `json:"cover_image"`
	PublishYear   *int             `json:"publish_year"   validate:"omitempty,gte=0,lte=3000"`
	Pages         *int             `json:"pages"          validate:"omitempty,gte=0"`
	Language      string           `json:"language"       validate:"omitempty,max=50"`
	Publisher     string           `json:"publisher"      validate:"omitempty,max=255"`
	ISBN          *string          `json:"isbn"           validate:"omitempty,max=20"`
	StockQuantity int              `json:"stock_quantity" validate:"gte=0"`
	IsFeatured    bool             `json:"is_featured"`
	IsBestseller  bool             `json:"is_bestseller"`
}

// UpdateBookRequest is a partial update. Nil fields are left unchanged.
type UpdateBookRequest struct {
	Title         *string          `json:"title"          validate:"omitempty,min=1,max=255"`
	Author        *string          `json:"author"         validate:"omitempty,min=1,max=255"`
	Category      *string          `json:"category"       validate:"omitempty,min=1,max=100"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Rating        *decimal.Decimal `json:"rating"`
	ReviewsCount  *int             `json:"reviews_count"  validate:"omitempty,gte=0"`
	CoverImage    *string          `json:"cover_image"`
	PublishYear   *int             `json:"publish_year"   validate:"omitempty,gte=0,lte=3000"`
	Pages         *int             `json:"pages"          validate:"omitempty,gte=0"`
	Language      *string          `json:"language"       validate:"omitempty,max=50"`
	Publisher     *string          `json:"publisher"      validate:"omitempty,max=255"`
	ISBN          *string          `json:"isbn"           validate:"omitempty,max=20"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,gte=0"`
	IsFeatured    *bool            `json:"is_featured"`
	IsBestseller  *bool            `json:"is_bestseller"`
}

// AdminBookRequest is the camelCase body used by the admin console. Every
// field is optional so it serves both create and update.
type AdminBookRequest struct {
	Title         *string          `json:"title"`
	Author        *string          `json:"author"`
	Category      *string          `json:"category"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	CoverImage    *string          `json:"coverImage"`
	PublishYear   *int             `json:"publishYear"`
	Pages         *int             `json:"pages"`
	Language      *string          `json:"language"`
	Publisher     *string          `json:"publisher"`
	ISBN          *string          `json:"isbn"`
	StockQuantity *int             `json:"stockQuantity"`
	IsFeatured    *bool            `json:"isFeatured"`
	IsBestseller  *bool            `json:"isBestseller"`
}

func (a AdminBookRequest) ToCreate() CreateBookRequest {
	return CreateBookRequest{
		Title:         deref(a.Title),
		Author:        deref(a.Author),
		Category:      deref(a.Category),
		Description:   deref(a.Description),
		Price:         a.Price,
		CoverImage:    deref(a.CoverImage),
		PublishYear:   a.PublishYear,
		Pages:         a.Pages,
		Language:      deref(a.Language),
		Publisher:     deref(a.Publisher),
		ISBN:          a.ISBN,
		StockQuantity: deref(a.StockQuantity),
		IsFeatured:    deref(a.IsFeatured),
		IsBestseller:  deref(a.IsBestseller),
	}
}

func (a AdminBookRequest) ToUpdate() UpdateBookRequest {
	return UpdateBookRequest{
		Title:         a.Title,
		Author:        a.Author,
		Category:      a.Category,
		Description:   a.Description,
		Price:         a.Price,
		CoverImage:    a.CoverImage,
		PublishYear:   a.PublishYear,
		Pages:         a.Pages,
		Language:      a.Language,
		Publisher:     a.Publisher,
		ISBN:          a.ISBN,
		StockQuantity: a.StockQuantity,
		IsFeatured:    a.IsFeatured,
		IsBestseller:  a.IsBestseller,
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

type ListBooksParams struct {
	Category   string
	Author     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
	Featured   bool
	Bestseller bool
	SortBy     string
	Order      string
	Page       int
	Limit      int
}

var sortColumns = map[string]string{
	"title":        "title",
	"price":        "price",
	"rating":       "rating",
	"created_at":   "created_at",
	"publish_year": "publish_year",
}

func (p *ListBooksParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if _, ok := sortColumns[p.SortBy]; !ok {
		p.SortBy = "created_at"
	}
}

func (p *ListBooksParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type BookResponse struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	CoverImage    string          `json:"cover_image"`
	PublishYear   *int            `json:"publish_year"`
	Pages         *int            `json:"pages"`
	Language      string          `json:"language"`
	Publisher     string          `json:"publisher"`
	ISBN          *string         `json:"isbn"`
	StockQuantity int             `json:"stock_quantity"`
	IsFeatured    bool            `json:"is_featured"`
	IsBestseller  bool            `json:"is_bestseller"`
	Rating        decimal.Decimal `json:"rating"`
	ReviewsCount  int             `json:"reviews_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func ToBookResponse(b *Book) BookResponse {
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Category:      b.Category,
		Description:   b.Description,
		Price:         b.Price,
		CoverImage:    b.CoverImage,
		PublishYear:   b.PublishYear,
		Pages:         b.Pages,
		Language:      b.Language,
		Publisher:     b.Publisher,
		ISBN:          b.ISBN,
		StockQuantity: b.StockQuantity,
		IsFeatured:    b.IsFeatured,
		IsBestseller:  b.IsBestseller,
		Rating:        b.Rating,
		ReviewsCount:  b.ReviewsCount,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func ToBookResponseList(books []Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, ToBookResponse(&books[i]))
	}
	return out
}
