// Package pagination maps ?page=&limit= onto a query window for the admin
// listings and builds the meta block returned next to each page.
package pagination

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	// DefaultLimit is used when limit is missing or not positive
	DefaultLimit = 50
	// MaxLimit caps a single page
	MaxLimit = 200
)

// Window is one page of a listing, 1-based
type Window struct {
	Page  int
	Limit int
}

// Meta describes the page returned to the client
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// FromQuery reads page and limit from the query string. Junk values fall
// back to the defaults.
func FromQuery(c *fiber.Ctx) Window {
	return New(c.QueryInt("page", 1), c.QueryInt("limit", DefaultLimit))
}

// New clamps page and limit into range
func New(page, limit int) Window {
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return Window{Page: page, Limit: limit}
}

// Offset is the number of rows before this page
func (w Window) Offset() int {
	return (w.Page - 1) * w.Limit
}

// Scope applies the window to a query, e.g. db.Scopes(w.Scope)
func (w Window) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset(w.Offset()).Limit(w.Limit)
}

// Meta describes this window over total rows
func (w Window) Meta(total int64) *Meta {
	pages := int((total + int64(w.Limit) - 1) / int64(w.Limit))
	return &Meta{
		Page:       w.Page,
		Limit:      w.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    w.Page < pages,
		HasPrev:    w.Page > 1,
	}
}
