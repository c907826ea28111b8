package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is an ISO 8601 day of the week, Monday=1 through Sunday=7.
type Weekday int

// The seven days of a Monday-start week.
const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// Weekdays lists every weekday in week order.
var Weekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func weekdayOf(w time.Weekday) Weekday {
	if w == time.Sunday {
		return Sunday
	}
	return Weekday(w)
}

// ParseWeekday resolves a weekday name, case-insensitively. Only the seven
// full English names are accepted.
func ParseWeekday(s string) (Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, w := range Weekdays {
		if w.Column() == name {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// Valid reports whether w is one of the seven weekdays.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// String returns the English name, e.g. "Monday".
func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Column returns the lower-case name used to address per-day storage
// columns, e.g. "monday".
func (w Weekday) Column() string {
	return strings.ToLower(w.String())
}

// Offset returns the number of days from Monday to w.
func (w Weekday) Offset() int {
	return int(w) - 1
}

// Std converts w to the standard library's Sunday-first weekday.
func (w Weekday) Std() time.Weekday {
	return time.Weekday(int(w) % 7)
}

// MarshalText implements encoding.TextMarshaler.
func (w Weekday) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(w))
	}
	return []byte(w.Column()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Weekday) UnmarshalText(b []byte) error {
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
