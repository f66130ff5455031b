package domain

import "math"

// Field names a queryable attribute of a record. Values reaching the
// repositories have already been checked against a per-record allow-list.
type Field string

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder falls back to ascending for anything but "desc".
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortDesc {
		return SortDesc
	}
	return SortAsc
}

// TextSearch matches records where at least one field contains Query.
type TextSearch struct {
	Query  string
	Fields []Field
}

type Sort struct {
	Field Field
	Order SortOrder
}

// Filters are ANDed equality conditions.
type Filters map[Field]any

// QueryParams is the storage-agnostic description of a list query.
type QueryParams struct {
	TextSearch *TextSearch
	Filters    Filters
	Sort       *Sort
}

// Pagination carries a 1-based page and a page size.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Offset is the number of rows skipped before the page starts.
func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

type PaginatedQueryParams struct {
	QueryParams
	Pagination Pagination
}

type PageMeta struct {
	Page            int  `json:"page"`
	Limit           int  `json:"limit"`
	TotalItems      int  `json:"totalItems"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewPageMeta derives page metadata from the unpaginated total. TotalPages is
// never below 1, even for an empty result.
func NewPageMeta(p Pagination, totalItems int) PageMeta {
	pages := 0
	if p.Limit > 0 {
		pages = int(math.Ceil(float64(totalItems) / float64(p.Limit)))
	}
	totalPages := pages
	if totalPages < 1 {
		totalPages = 1
	}
	return PageMeta{
		Page:            p.Page,
		Limit:           p.Limit,
		TotalItems:      totalItems,
		TotalPages:      totalPages,
		HasNextPage:     p.Page < pages,
		HasPreviousPage: p.Page > 1,
	}
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}
