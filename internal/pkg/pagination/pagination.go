// Package pagination normalizes page/limit values and builds page metadata.
package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	// DefaultLimit applies when a paged list gets no usable limit
	DefaultLimit = 10
	// MaxLimit caps any requested page size
	MaxLimit = 100
)

// Params is a normalized page request. Limit 0 means the whole set.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Paged reports whether the request asks for a slice of the set
func (p *Params) Paged() bool {
	return p.Limit > 0
}

// Meta describes one page of a filtered set
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Page is a paginated list response
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// New clamps page to >= 1 and limit to 1..MaxLimit, defaulting to DefaultLimit
func New(page, limit int) *Params {
	if limit < 1 {
		limit = DefaultLimit
	}
	return clamp(page, limit)
}

// NewOptional is New but keeps a non-positive limit as "everything"
func NewOptional(page, limit int) *Params {
	if limit < 1 {
		return &Params{Page: 1}
	}
	return clamp(page, limit)
}

func clamp(page, limit int) *Params {
	if page < 1 {
		page = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Query reads ?page= and ?limit=; unparsable values count as absent
func Query(c *fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page"))
	limit, _ = strconv.Atoi(c.Query("limit"))
	return page, limit
}

// TotalPages is ceil(total/limit); an unpaged set is one page
func TotalPages(total int64, limit int) int {
	if limit < 1 {
		return 1
	}
	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}
	return pages
}

// NewMeta builds metadata for params over total matching rows
func NewMeta(params *Params, total int64) Meta {
	pages := TotalPages(total, params.Limit)
	return Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    params.Page < pages,
		HasPrev:    params.Page > 1,
	}
}

// NewPage wraps one page of items
func NewPage[T any](items []T, params *Params, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Data: items, Meta: NewMeta(params, total)}
}
