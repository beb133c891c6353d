package utils

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// PaginationMeta describes one page of an offset-paginated listing
type PaginationMeta struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Pages       int   `json:"pages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// BuildPaginationMeta computes the page envelope. An empty result still
// reports one page.
func BuildPaginationMeta(total int64, page, limit int) PaginationMeta {
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages == 0 {
		pages = 1
	}
	return PaginationMeta{
		Total:       total,
		Page:        page,
		Limit:       limit,
		Pages:       pages,
		HasNextPage: page < pages,
		HasPrevPage: page > 1,
	}
}

// NormalizePagination clamps raw page/limit query values to the contract
// page>=1, limit>0.
func NormalizePagination(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// EncodeCursor turns a log entry ID into an opaque forward-pagination cursor
func EncodeCursor(id uint) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

// DecodeCursor reverses EncodeCursor. A malformed cursor is treated as "no
// cursor" rather than an error, so a bad token restarts the listing instead
// of failing the request.
func DecodeCursor(cursor string) (uint, bool) {
	if cursor == "" {
		return 0, false
	}
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

const maxSearchLength = 100

// SafeLikePattern builds a case-insensitive substring LIKE pattern from user
// input: LIKE metacharacters are escaped and the input is clamped to bound
// worst-case matching cost. Use with LOWER(col) LIKE ? ESCAPE '\'.
func SafeLikePattern(search string) string {
	// Clamp on runes so a multi-byte character at the boundary is never split.
	if runes := []rune(search); len(runes) > maxSearchLength {
		search = string(runes[:maxSearchLength])
	}

	var b strings.Builder
	for _, r := range strings.ToLower(search) {
		switch r {
		case '\\', '%', '_':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return "%" + b.String() + "%"
}
