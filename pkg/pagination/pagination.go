package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// DefaultPageSize is the number of items returned per page.
const DefaultPageSize = 20

// Params holds page-based pagination parameters.
type Params struct {
	Page     int
	PageSize int
}

// FromContext reads pagination parameters from the request query string.
// Invalid or missing values fall back to page 1.
func FromContext(c echo.Context) Params {
	p := Params{Page: 1, PageSize: DefaultPageSize}

	if raw := c.QueryParam("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			p.Page = page
		}
	}

	return p
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the row limit for the current page.
func (p Params) Limit() int {
	return p.PageSize
}

// Response wraps a page of results with its paging metadata.
type Response struct {
	Items    interface{} `json:"items"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Total    int         `json:"total"`
}

// NewResponse builds a paginated response envelope.
func NewResponse(items interface{}, params Params, total int) Response {
	return Response{
		Items:    items,
		Page:     params.Page,
		PageSize: params.PageSize,
		Total:    total,
	}
}
