package calendar

import (
	"fmt"
)

// WeekKey is the Monday that begins a week, formatted as YYYY-MM-DD. Weekly
// time-entry rows are addressed by (employee, WeekKey).
type WeekKey string

// WeekOf returns the key of the Monday-start week containing d.
func WeekOf(d Date) WeekKey {
	return WeekKey(mondayOf(d).String())
}

func mondayOf(d Date) Date {
	return d.AddDays(-d.Weekday().Offset())
}

// ParseWeekKey parses s as a civil date and returns the key of the week
// containing it. A key that is already a Monday comes back unchanged.
func ParseWeekKey(s string) (WeekKey, error) {
	d, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return WeekOf(d), nil
}

// String returns the key as stored.
func (k WeekKey) String() string {
	return string(k)
}

// Monday returns the first day of the week.
func (k WeekKey) Monday() (Date, error) {
	return ParseDate(string(k))
}

// Sunday returns the last day of the week.
func (k WeekKey) Sunday() (Date, error) {
	d, err := k.Monday()
	if err != nil {
		return Date{}, err
	}
	return d.AddDays(6), nil
}

// WeekDay is one column of a week grid.
type WeekDay struct {
	Weekday Weekday `json:"weekday"`
	Date    Date    `json:"date"`
}

// Days returns the seven days of the week, Monday first.
func (k WeekKey) Days() ([7]WeekDay, error) {
	var days [7]WeekDay
	monday, err := k.Monday()
	if err != nil {
		return days, err
	}
	if wd := monday.Weekday(); wd != Monday {
		return days, fmt.Errorf("week key %s falls on %s, not Monday", k, wd)
	}
	for i, wd := range Weekdays {
		days[i] = WeekDay{Weekday: wd, Date: monday.AddDays(wd.Offset())}
	}
	return days, nil
}
