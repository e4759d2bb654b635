package utils

import (
	"net/http"
	"strconv"
)

// DefaultLimit is the default number of items returned by list endpoints
const DefaultLimit = 20

// MaxLimit is the maximum number of items returned by list endpoints
const MaxLimit = 100

// ParseLimit reads the limit query parameter, clamped to [1, MaxLimit]
func ParseLimit(r *http.Request) int {
	limit := parseIntQuery(r.URL.Query().Get("limit"), DefaultLimit)
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ParseBoolQuery reads a boolean query parameter, falling back to def
func ParseBoolQuery(r *http.Request, key string, def bool) bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func parseIntQuery(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}
