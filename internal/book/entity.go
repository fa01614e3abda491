// AngelaMos | 2026
// entity.go

package book

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID            int64           `db:"id"`
	Title         string          `db:"title"`
	Author        string          `db:"author"`
	Category      string          `db:"category"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	CoverImage    string          `db:"cover_image"`
	PublishYear   *int            `db:"publish_year"`
	Pages         *int            `db:"pages"`
	Language      string          `db:"language"`
	Publisher     string          `db:"publisher"`
	ISBN          *string         `db:"isbn"`
	StockQuantity int             `db:"stock_quantity"`
	IsFeatured    bool            `db:"is_featured"`
	IsBestseller  bool            `db:"is_bestseller"`
	Rating        decimal.Decimal `db:"rating"`
	ReviewsCount  int             `db:"reviews_count"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type Category struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count"    json:"count"`
}

const DefaultLanguage = "English"

var maxRating = decimal.NewFromInt(5)

const columns = `id, title, author, category, description, price, cover_image,
	publish_year, pages, language, publisher, isbn, stock_quantity,
	is_featured, is_bestseller, rating, reviews_count, created_at, updated_at`
