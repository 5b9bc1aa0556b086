package blog

import (
	"math"
	"strconv"
	"strings"
)

// SortOrder is the createdAt ordering of a listing.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

const (
	DefaultPage  = 1
	DefaultLimit = 6
)

// ListFilter enumerates every supported listing parameter.
type ListFilter struct {
	Search string
	// Author is a username, resolved to a user id by the post service.
	Author string
	SortBy SortOrder
	Page   int
	Limit  int
}

// ParseListFilter builds a filter from raw query values. Unknown sort values
// mean newest; non-numeric or non-positive page/limit fall back to defaults.
func ParseListFilter(search, author, sortBy, page, limit string) ListFilter {
	return ListFilter{
		Search: search,
		Author: author,
		SortBy: SortOrder(sortBy),
		Page:   positiveOr(page, DefaultPage),
		Limit:  positiveOr(limit, DefaultLimit),
	}.Normalize()
}

// Normalize applies defaults to zero or invalid fields.
func (f ListFilter) Normalize() ListFilter {
	f.Search = strings.TrimSpace(f.Search)
	f.Author = strings.TrimSpace(f.Author)
	if f.SortBy != SortOldest {
		f.SortBy = SortNewest
	}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	return f
}

// Skip is the offset of the first record on the page. It saturates at
// math.MaxInt64 instead of overflowing for huge page numbers.
func (f ListFilter) Skip() int64 {
	page, limit := int64(f.Page-1), int64(f.Limit)
	if page > 0 && limit > math.MaxInt64/page {
		return math.MaxInt64
	}
	return page * limit
}

// TotalPages is ceil(total/limit).
func (f ListFilter) TotalPages(total int64) int64 {
	limit := int64(f.Limit)
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

// PastEnd reports whether the page starts after the last of total records.
func (f ListFilter) PastEnd(total int64) bool {
	return int64(f.Page) > f.TotalPages(total)
}

func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
