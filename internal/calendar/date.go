// Package calendar computes civil dates, Monday-start week keys and date
// ranges for a single configured timezone.
//
// The timezone database is consulted only when an instant is turned into a
// civil date. Everything after that (day arithmetic, weekdays, comparisons)
// runs on a zone-free proleptic Gregorian calendar, so daylight-saving
// transitions cannot shift a result by a day.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for civil dates and week keys.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// MinDate and MaxDate bound every date ParseDate accepts and every date the
// engine's day arithmetic may produce.
var (
	MinDate = Date{Year: 1, Month: time.January, Day: 1}
	MaxDate = Date{Year: 9999, Month: time.December, Day: 31}
)

// Date is a calendar day with no time-of-day and no location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the normalized civil date for the given fields, so
// NewDate(2025, 1, 32) is February 1st.
func NewDate(year int, month time.Month, dayOfMonth int) Date {
	return DateOf(time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the civil date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &ParseError{Value: s, Err: err}
	}
	d := DateOf(t)
	if !d.InRange() {
		return Date{}, &ParseError{Value: s, Err: ErrDateOutOfRange}
	}
	return d, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// InRange reports whether d lies within MinDate..MaxDate.
func (d Date) InRange() bool {
	return !d.Before(MinDate) && !d.After(MaxDate)
}

// utc anchors d at midnight UTC. UTC has no offset changes, so whole-day
// arithmetic on the result is exact.
func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (before d when n is negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.utc().AddDate(0, 0, n))
}

// Weekday returns the ISO weekday of d.
func (d Date) Weekday() Weekday {
	return weekdayOf(d.utc().Weekday())
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// DaysUntil returns the number of days from d to o; negative when o is
// earlier.
func (d Date) DaysUntil(o Date) int {
	return int((o.utc().Unix() - d.utc().Unix()) / secondsPerDay)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
