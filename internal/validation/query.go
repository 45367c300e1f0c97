package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/iliyamo/trip-ticket-log/internal/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// ListQuery carries the raw query parameters of the list and export routes.
type ListQuery struct {
	Reason    string `query:"reason"`
	StartDate string `query:"start_date" validate:"omitempty,isodate"`
	EndDate   string `query:"end_date" validate:"omitempty,isodate"`
	Page      string `query:"page" validate:"omitempty,posint"`
	Limit     string `query:"limit" validate:"omitempty,posint"`
	Format    string `query:"format" validate:"omitempty,oneof=csv xlsx"`
}

var listFields = []string{"reason", "start_date", "end_date", "page", "limit", "format"}

// CheckList validates q after trimming every value.
func (val *Validator) CheckList(q *ListQuery) []apperr.Violation {
	for _, p := range []*string{&q.Reason, &q.StartDate, &q.EndDate, &q.Page, &q.Limit, &q.Format} {
		*p = strings.TrimSpace(*p)
	}
	q.Format = strings.ToLower(q.Format)
	if err := val.v.Struct(q); err != nil {
		return ordered(listFields, translate(err))
	}
	if _, ok := q.Offset(); !ok {
		return []apperr.Violation{{Field: "page", Message: "page is out of range for the given limit"}}
	}
	return nil
}

// PageNumber returns the 1-based page, defaulting to DefaultPage.
func (q ListQuery) PageNumber() int {
	return atoiOr(q.Page, DefaultPage)
}

// PageSize returns the page size, defaulting to DefaultLimit.
func (q ListQuery) PageSize() int {
	return atoiOr(q.Limit, DefaultLimit)
}

// Offset returns the number of rows to skip for the requested page.  ok is
// false when (page-1)*limit does not fit in an int.
func (q ListQuery) Offset() (skip int, ok bool) {
	page, limit := q.PageNumber(), q.PageSize()
	if page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

// TotalPages returns ceil(total/limit) without overflowing for large limits.
func (q ListQuery) TotalPages(total int64) int64 {
	limit := int64(q.PageSize())
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
