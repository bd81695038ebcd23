package helpers

import (
	"net/http"
	"net/url"
	"strconv"

	"refereehub/internal/domain"
)

// List endpoints serve DefaultPageSize rows unless the client asks for up to MaxPageSize.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// pageSizeKeys are read in order; per_page is what the admin front-end sends.
var pageSizeKeys = []string{"page_size", "per_page"}

// ParsePagination reads the page number and size from the query string. Unparseable or
// non-positive values are ignored and oversized pages are capped.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	params := domain.PaginationParams{Page: 1, PageSize: DefaultPageSize}
	if page, ok := positiveInt(q, "page"); ok {
		params.Page = page
	}
	for _, key := range pageSizeKeys {
		if size, ok := positiveInt(q, key); ok {
			params.PageSize = min(size, MaxPageSize)
			break
		}
	}
	return params
}

func positiveInt(q url.Values, key string) (int, bool) {
	v, err := strconv.Atoi(q.Get(key))
	return v, err == nil && v > 0
}

// PaginationMeta accompanies every paginated list response.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta describes the page in params of a listing holding total rows.
func NewPaginationMeta(params domain.PaginationParams, total int) PaginationMeta {
	meta := PaginationMeta{Page: params.Page, PageSize: params.PageSize, Total: total}
	if params.PageSize > 0 {
		meta.TotalPages = (total + params.PageSize - 1) / params.PageSize
	}
	return meta
}
