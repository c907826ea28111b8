package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// DateRange is an inclusive span of civil dates with Start <= End.
type DateRange struct {
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`
}

// Days returns the number of days in the range, counting both ends.
func (r DateRange) Days() int {
	return r.Start.DaysUntil(r.End) + 1
}

// String formats the range as "start..end".
func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}

// Weeks returns the key of every week that overlaps the range, oldest first.
// Aggregations over stored weekly rows use these keys as their bounds.
func (r DateRange) Weeks() []WeekKey {
	if r.End.Before(r.Start) {
		return nil
	}

	// Occurrences sit at noon. rrule reads a zero Dtstart as "now", and
	// 0001-01-01 is a Monday whose midnight is the zero time.
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Wkst:      rrule.MO,
		Byweekday: []rrule.Weekday{rrule.MO},
		Dtstart:   mondayOf(r.Start).utc().Add(12 * time.Hour),
		Until:     r.End.utc().Add(12 * time.Hour),
	})
	if err != nil {
		return nil
	}

	mondays := rule.All()
	keys := make([]WeekKey, 0, len(mondays))
	for _, m := range mondays {
		keys = append(keys, WeekKey(DateOf(m).String()))
	}
	return keys
}

// MaxRangeDays bounds the length of an explicit range.
const MaxRangeDays = 3660

// RangeCheck is the outcome of validating a user-supplied range. An invalid
// range is an expected result, not an error.
type RangeCheck struct {
	Valid   bool      `json:"valid"`
	Message string    `json:"message"`
	Range   DateRange `json:"-"`
}

// Err returns a *RangeError for an invalid check and nil otherwise.
func (c RangeCheck) Err(start, end string) error {
	if c.Valid {
		return nil
	}
	return &RangeError{Start: start, End: end, Message: c.Message}
}

// ValidateRange checks that both bounds are civil dates and start <= end.
func ValidateRange(start, end string) RangeCheck {
	s, err := ParseDate(start)
	if err != nil {
		return RangeCheck{Message: fmt.Sprintf("Invalid start date %q", start)}
	}
	e, err := ParseDate(end)
	if err != nil {
		return RangeCheck{Message: fmt.Sprintf("Invalid end date %q", end)}
	}
	if s.After(e) {
		return RangeCheck{Message: "Start date must be on or before end date"}
	}
	if s.DaysUntil(e)+1 > MaxRangeDays {
		return RangeCheck{Message: fmt.Sprintf("Date range must not exceed %d days", MaxRangeDays)}
	}
	return RangeCheck{
		Valid:   true,
		Message: "Date range is valid",
		Range:   DateRange{Start: s, End: e},
	}
}
