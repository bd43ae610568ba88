// Package pagination implements page-number pagination over ordered record
// lists. Page numbers are 1-based; a page request past the end of the list
// resets to page 1 rather than clamping, so stale page state self-corrects
// after the underlying list shrinks.
package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Page     int
	PageSize int
}

// FromContext extracts pagination parameters from the echo context.
func FromContext(c echo.Context) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	size, _ := strconv.Atoi(c.QueryParam("pageSize"))
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return Params{Page: page, PageSize: size}
}

// Page describes one window over an ordered list.
type Page struct {
	Start      int
	End        int
	Page       int
	Total      int
	TotalPages int
}

// Paginate computes the window for the given page over a list of n items.
// TotalPages is at least 1 even for an empty list, so "page 1 of 1" is
// always valid to render. A page beyond the last resets to page 1.
func Paginate(n, pageSize, page int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := (n + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 || page > totalPages {
		page = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}

	return Page{Start: start, End: end, Page: page, Total: n, TotalPages: totalPages}
}

// Slice returns the window of items for the given page together with the
// resolved page metadata.
func Slice[T any](items []T, pageSize, page int) ([]T, Page) {
	p := Paginate(len(items), pageSize, page)
	return items[p.Start:p.End], p
}

// Response wraps a paginated API response.
type Response struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

func NewResponse(data interface{}, p Page, pageSize int) *Response {
	return &Response{
		Data:       data,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   pageSize,
		TotalPages: p.TotalPages,
	}
}
