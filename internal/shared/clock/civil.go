package clock

import (
	"errors"
	"fmt"
	"time"
)

const civilLayout = "2006-01-02"

var ErrInvalidCivilDate = errors.New("clock: invalid civil date")

// CivilDate is a calendar day with no time of day or zone attached.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseCivilDate parses a YYYY-MM-DD string.
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse(civilLayout, s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("%w: %q", ErrInvalidCivilDate, s)
	}
	return CivilDateOf(t), nil
}

// CivilDateOf returns the calendar fields of t in t's own location.
func CivilDateOf(t time.Time) CivilDate {
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddDays handles month and year rollover.
func (d CivilDate) AddDays(n int) CivilDate {
	return CivilDateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}
