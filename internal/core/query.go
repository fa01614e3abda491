// AngelaMos | 2026
// query.go

package core

import (
	"strconv"
	"strings"
)

// Predicates accumulates parameterised WHERE conditions. Conditions are
// written with ? placeholders which are numbered as $n in insertion order,
// so user input never reaches the SQL text.
type Predicates struct {
	conditions []string
	args       []any
}

func NewPredicates() *Predicates {
	return &Predicates{}
}

// Add appends a condition. The number of ? marks in cond must equal len(args).
func (p *Predicates) Add(cond string, args ...any) *Predicates {
	var b strings.Builder
	b.Grow(len(cond) + 4*len(args))

	for _, r := range cond {
		if r == '?' {
			p.args = append(p.args, args[0])
			args = args[1:]
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(len(p.args)))
			continue
		}
		b.WriteRune(r)
	}

	p.conditions = append(p.conditions, b.String())
	return p
}

// AddIf appends the condition only when ok is true.
func (p *Predicates) AddIf(ok bool, cond string, args ...any) *Predicates {
	if ok {
		return p.Add(cond, args...)
	}
	return p
}

// Bind appends a value outside any condition and returns its placeholder,
// for LIMIT/OFFSET and similar trailing clauses.
func (p *Predicates) Bind(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

// Where returns "WHERE a AND b" or an empty string.
func (p *Predicates) Where() string {
	if len(p.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.conditions, " AND ")
}

func (p *Predicates) Args() []any {
	out := make([]any, len(p.args))
	copy(out, p.args)
	return out
}

func (p *Predicates) Len() int {
	return len(p.conditions)
}

func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

func Contains(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// SortOrder normalises a user supplied direction to ASC or DESC.
func SortOrder(order string, fallback string) string {
	switch strings.ToLower(order) {
	case "asc":
		return "ASC"
	case "desc":
		return "DESC"
	}
	return fallback
}
