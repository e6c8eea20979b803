package shared

import (
	"net/http"
	"strconv"
)

// Audit-log page policy: the log gains one event per mutation, so listings
// default to the latest 50 and never hand out more than 200 per request.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

type Pagination struct {
	Limit  int
	Offset int
}

func ParsePagination(r *http.Request) Pagination {
	limit := DefaultPageSize
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Pagination{Limit: limit, Offset: offset}
}
