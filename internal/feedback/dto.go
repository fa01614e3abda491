// AngelaMos | 2026
// dto.go

package feedback

import (
	"strings"
	"time"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

type SubmitRequest struct {
	UserID  int64  `json:"userId"  validate:"required,gt=0"`
	BookID  *int64 `json:"bookId"  validate:"omitempty,gt=0"`
	Rating  int    `json:"rating"  validate:"required"`
	Comment string `json:"comment" validate:"max=5000"`
}

type UpdateRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment" validate:"omitempty,max=5000"`
}

type ListByBookParams struct {
	BookID int64
	Page   int
	Limit  int
	SortBy string
	Order  string
}

func (p *ListByBookParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if strings.ToLower(p.SortBy) == "rating" {
		p.SortBy = "rating"
	} else {
		p.SortBy = "created_at"
	}
}

func (p ListByBookParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type FeedbackResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	BookID     *int64    `json:"book_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserName   string    `json:"user_name,omitempty"`
	BookTitle  string    `json:"book_title,omitempty"`
	BookAuthor string    `json:"book_author,omitempty"`
	BookCover  string    `json:"book_cover,omitempty"`
}

type BookFeedbackResponse struct {
	Feedback           []FeedbackResponse `json:"feedback"`
	RatingDistribution []RatingCount      `json:"ratingDistribution"`
	Pagination         *core.Pagination   `json:"pagination"`
}

func ToFeedbackResponse(v *View) FeedbackResponse {
	return FeedbackResponse{
		ID:         v.ID,
		UserID:     v.UserID,
		BookID:     v.BookID,
		Rating:     v.Rating,
		Comment:    v.Comment,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
		UserName:   v.UserName,
		BookTitle:  v.BookTitle,
		BookAuthor: v.BookAuthor,
		BookCover:  v.BookCover,
	}
}

func ToFeedbackResponseList(views []View) []FeedbackResponse {
	out := make([]FeedbackResponse, 0, len(views))
	for i := range views {
		out = append(out, ToFeedbackResponse(&views[i]))
	}
	return out
}

func ToBookFeedbackResponse(bf *BookFeedback, p ListByBookParams) BookFeedbackResponse {
	dist := bf.Distribution
	if dist == nil {
		dist = []RatingCount{}
	}

	return BookFeedbackResponse{
		Feedback:           ToFeedbackResponseList(bf.Feedback),
		RatingDistribution: dist,
		Pagination:         core.NewPagination(p.Page, p.Limit, bf.Total),
	}
}
