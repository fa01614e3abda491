// AngelaMos | 2026
// entity.go

package feedback

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5

	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxRecent       = 50
)

// Feedback is a review of a book, or general feedback when BookID is nil.
type Feedback struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	BookID    *int64    `db:"book_id"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// View is a feedback row with the reviewer and book fields the listings
// show. Joined columns are empty when the join finds nothing.
type View struct {
	Feedback
	UserName   string `db:"user_name"`
	BookTitle  string `db:"book_title"`
	BookAuthor string `db:"book_author"`
	BookCover  string `db:"book_cover"`
}

type RatingCount struct {
	Rating int `db:"rating" json:"rating"`
	Count  int `db:"count"  json:"count"`
}

const columns = `id, user_id, book_id, rating, comment, created_at, updated_at`

const viewSelect = `
	SELECT f.id, f.user_id, f.book_id, f.rating, f.comment, f.created_at, f.updated_at,
	       COALESCE(u.name, '') AS user_name,
	       COALESCE(b.title, '') AS book_title,
	       COALESCE(b.author, '') AS book_author,
	       COALESCE(b.cover_image, '') AS book_cover
	FROM feedback f
	LEFT JOIN users u ON u.id = f.user_id
	LEFT JOIN books b ON b.id = f.book_id`
