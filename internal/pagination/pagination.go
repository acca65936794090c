// Package pagination implements offset/limit paging for list endpoints:
// parsing of page/size/sort query parameters, page composition with
// total counts, and the X-Total-Count / Link response headers.
//
// Pages are 0-based.
package pagination

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultSize = 20
	MaxSize     = 100

	// DefaultSort is the stable sort key applied when none is requested and
	// appended as a tiebreaker otherwise.
	DefaultSort = "id"
)

// Order is one sort criterion.
type Order struct {
	Property string
	Desc     bool
}

// Request describes the slice of a listing a caller wants.
type Request struct {
	Page int // 0-based page number
	Size int // items per page
	Sort []Order
}

// Offset returns the number of rows to skip.
func (r Request) Offset() int {
	return CalculateOffset(r.Page, r.Size)
}

// Orders returns the requested sort criteria with the identifier appended
// as a final tiebreaker, so that paging is stable.
func (r Request) Orders() []Order {
	out := make([]Order, 0, len(r.Sort)+1)
	for _, o := range r.Sort {
		out = append(out, o)
		if o.Property == DefaultSort {
			return out
		}
	}
	return append(out, Order{Property: DefaultSort})
}

// Page is one slice of a listing plus the totals of the whole listing.
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
}

// NewPage composes a page from its content and the total element count.
func NewPage[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    CalculateTotalPages(total, req.Size),
	}
}

// Map converts the content of a page, keeping its totals.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Content))
	for _, v := range p.Content {
		out = append(out, fn(v))
	}
	return Page[U]{
		Content:       out,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}

// CalculateOffset calculates the database OFFSET for a 0-based page.
//
// Examples:
//   - Page 0, Size 20 -> Offset 0
//   - Page 2, Size 20 -> Offset 40
//
// The result saturates at math.MaxInt instead of overflowing.
func CalculateOffset(page, size int) int {
	if page <= 0 || size <= 0 {
		return 0
	}
	if page > math.MaxInt/size {
		return math.MaxInt
	}
	return page * size
}

// CalculateTotalPages returns ceil(total / size).  An empty listing has
// zero pages.
func CalculateTotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// ParseRequest reads page, size and sort from query parameters.  sort may
// repeat and has the form "property" or "property,asc|desc"; properties
// outside allowed are rejected.
func ParseRequest(q url.Values, allowed ...string) (Request, error) {
	req := Request{Page: 0, Size: DefaultSize}

	if s := q.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 0 {
			return req, fmt.Errorf("invalid query parameter: page must be a non-negative integer")
		}
		req.Page = page
	}
	if s := q.Get("size"); s != "" {
		size, err := strconv.Atoi(s)
		if err != nil || size < 1 {
			return req, fmt.Errorf("invalid query parameter: size must be a positive integer")
		}
		if size > MaxSize {
			size = MaxSize
		}
		req.Size = size
	}
	if req.Page > math.MaxInt/req.Size {
		return req, fmt.Errorf("invalid query parameter: page is out of range")
	}

	ok := map[string]bool{DefaultSort: true}
	for _, a := range allowed {
		ok[a] = true
	}
	for _, raw := range q["sort"] {
		parts := strings.Split(raw, ",")
		prop := strings.TrimSpace(parts[0])
		if prop == "" {
			continue
		}
		if !ok[prop] {
			return req, fmt.Errorf("invalid query parameter: cannot sort by %q", prop)
		}
		o := Order{Property: prop}
		if len(parts) > 1 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "desc":
				o.Desc = true
			case "asc", "":
			default:
				return req, fmt.Errorf("invalid query parameter: sort direction must be asc or desc")
			}
		}
		req.Sort = append(req.Sort, o)
	}
	return req, nil
}
