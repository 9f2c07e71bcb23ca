package util

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1_000_000
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate turns a 1-based page and a size into the effective page and the
// offset/limit to query with. The size is clamped to MaxPageSize and the page
// to MaxPage, so the offset never overflows.
func Calculate(page, size int) (outPage, offset, limit int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return page, (page - 1) * size, size
}
