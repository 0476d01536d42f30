package dto

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	qb "github.com/jhoicas/storerating-api/pkg/querybuilder"
)

// PageQuery pagination for listings. Zero values fall back to page 1 / limit 10.
type PageQuery struct {
	Page  int `query:"page" json:"page" validate:"omitempty,min=1,max=100000"`
	Limit int `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
}

// Window returns the skip/take window for the query.
func (p PageQuery) Window() qb.Page {
	return qb.Paginate(p.Page, p.Limit)
}

// Pagination page metadata in list responses.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
	Limit       int `json:"limit"`
}

// NewPagination builds the metadata for a page of total items.
func NewPagination(p PageQuery, total int) Pagination {
	w := p.Window()
	return Pagination{
		CurrentPage: w.Skip/w.Take + 1,
		TotalPages:  qb.TotalPages(total, w.Take),
		TotalItems:  total,
		Limit:       w.Take,
	}
}

// APIResponse success envelope.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// FieldError one field-level validation issue.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse HTTP error body.
type ErrorResponse struct {
	StatusCode int          `json:"statusCode"`
	Success    bool         `json:"success"`
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Errors     []FieldError `json:"error,omitempty"`
}

var lower = cases.Lower(language.Und)

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(s string) string {
	return lower.String(strings.TrimSpace(s))
}
