// AngelaMos | 2026
// query_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicatesNumbering(t *testing.T) {
	p := NewPredicates()
	p.Add("category = ?", "Fiction")
	p.Add("(title ILIKE ? OR author ILIKE ?)", "%go%", "%go%")
	p.AddIf(false, "is_featured = ?", true)
	p.AddIf(true, "price >= ?", 10)

	assert.Equal(t,
		"WHERE category = $1 AND (title ILIKE $2 OR author ILIKE $3) AND price >= $4",
		p.Where(),
	)
	assert.Equal(t, []any{"Fiction", "%go%", "%go%", 10}, p.Args())

	limit := p.Bind(20)
	offset := p.Bind(40)
	assert.Equal(t, "$5", limit)
	assert.Equal(t, "$6", offset)
	assert.Len(t, p.Args(), 6)
	assert.Equal(t, 3, p.Len())
}

func TestPredicatesEmpty(t *testing.T) {
	p := NewPredicates()
	assert.Empty(t, p.Where())
	assert.Empty(t, p.Args())
	assert.Equal(t, "$1", p.Bind(5))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, EscapeLike(`50% off_now\`))
	assert.Equal(t, `%a\_b%`, Contains("a_b"))
}

func TestSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", SortOrder("asc", "DESC"))
	assert.Equal(t, "DESC", SortOrder("DESC", "ASC"))
	assert.Equal(t, "DESC", SortOrder("; drop table", "DESC"))
}
