package clock

import (
	"fmt"
	"time"

	_ "time/tzdata" // club timezone must resolve on minimal images
)

const DefaultTimezone = "America/Argentina/Buenos_Aires"

// Resolver turns "today" and explicit civil dates into day windows.
//
// Window bounds are the civil date's calendar fields read as UTC, not the
// true UTC instants of the club's midnight. Entry timestamps are bucketed
// with this same construction on write and read, so every caller must go
// through DayWindow.
type Resolver struct {
	clock    Clock
	location *time.Location
}

func NewResolver(c Clock, timezone string) (*Resolver, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Resolver{clock: c, location: loc}, nil
}

// MustResolver panics on an unknown timezone. Config validation rejects those first.
func MustResolver(c Clock, timezone string) *Resolver {
	r, err := NewResolver(c, timezone)
	if err != nil {
		panic(err)
	}
	return r
}

// Now is the current instant in UTC.
func (r *Resolver) Now() time.Time {
	return r.clock.Now().UTC()
}

// Today is the current civil date in the club timezone.
func (r *Resolver) Today() CivilDate {
	return CivilDateOf(r.clock.Now().In(r.location))
}

// DayWindow returns 00:00:00.000 and 23:59:59.999 of date (today when nil).
func (r *Resolver) DayWindow(date *CivilDate) (time.Time, time.Time) {
	d := r.Today()
	if date != nil {
		d = *date
	}
	return Window(d)
}

// Window is DayWindow for an explicit date.
func Window(d CivilDate) (time.Time, time.Time) {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	end := time.Date(d.Year, d.Month, d.Day, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return start, end
}
