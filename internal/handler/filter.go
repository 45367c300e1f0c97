package handler

import (
	"time"

	"github.com/iliyamo/trip-ticket-log/internal/repository"
	"github.com/iliyamo/trip-ticket-log/internal/validation"
)

// BuildFilter turns an accepted list query into a trip_date range.
//
// A single bound selects that whole day.  When both bounds are given each
// keeps the clock time it was supplied with, so a date-only end_date stops
// at 00:00:00 of that day rather than at the end of it.  Clients rely on
// this, keep it.
func BuildFilter(q validation.ListQuery) repository.TicketFilter {
	f := repository.TicketFilter{Reason: q.Reason}

	start, hasStart := validation.ParseDate(q.StartDate)
	end, hasEnd := validation.ParseDate(q.EndDate)

	switch {
	case hasStart && hasEnd:
		f.From, f.To = &start, &end
	case hasStart:
		from, to := dayBounds(start)
		f.From, f.To = &from, &to
	case hasEnd:
		from, to := dayBounds(end)
		f.From, f.To = &from, &to
	}
	return f
}

// dayBounds returns 00:00:00 and 23:59:59 of t's calendar day in UTC.
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}
