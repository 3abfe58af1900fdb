package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

// Defaults applied when the caller omits paging parameters.
const (
	DefaultPageNo   = 0
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSortBy   = "createdAt"
)

// Request carries the paging and sorting parameters of a list call.
type Request struct {
	PageNo   int
	PageSize int
	SortBy   string
	Desc     bool
}

// FromQuery parses pageNo, pageSize, sortBy and sortDir query parameters,
// falling back to defaults for anything missing or malformed. Page size is
// clamped so a caller cannot request unbounded result sets.
func FromQuery(q url.Values) Request {
	req := Request{
		PageNo:   DefaultPageNo,
		PageSize: DefaultPageSize,
		SortBy:   DefaultSortBy,
	}

	if v, err := strconv.Atoi(q.Get("pageNo")); err == nil && v >= 0 {
		req.PageNo = v
	}
	if v, err := strconv.Atoi(q.Get("pageSize")); err == nil && v > 0 {
		req.PageSize = v
	}
	if req.PageSize > MaxPageSize {
		req.PageSize = MaxPageSize
	}
	if v := q.Get("sortBy"); v != "" {
		req.SortBy = v
	}
	req.Desc = strings.EqualFold(q.Get("sortDir"), "desc")

	return req
}

// Limit returns the SQL limit for the request.
func (r Request) Limit() int { return r.PageSize }

// Offset returns the SQL offset for the request.
func (r Request) Offset() int { return r.PageNo * r.PageSize }

// Meta describes the position of a returned page within the full result set.
type Meta struct {
	PageNo        int  `json:"pageNo"`
	PageSize      int  `json:"pageSize"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Last          bool `json:"last"`
}

// NewMeta computes page metadata for a request and a total element count.
func NewMeta(req Request, total int) Meta {
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = (total + req.PageSize - 1) / req.PageSize
	}
	return Meta{
		PageNo:        req.PageNo,
		PageSize:      req.PageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          req.PageNo >= totalPages-1,
	}
}
