// AngelaMos | 2026
// params.go

package core

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// PathID parses a positive integer route parameter.
func PathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func QueryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

func QueryBool(r *http.Request, key string) (bool, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return false, false
	}

	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false, false
	}

	return parsed, true
}
