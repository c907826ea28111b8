package calendar

import (
	"errors"
	"fmt"
)

// ErrCustomPreset is returned when the custom preset is resolved without
// explicit bounds. Custom ranges go through ValidateRange instead.
var ErrCustomPreset = errors.New("custom preset requires explicit start and end dates")

// ErrDateOutOfRange is wrapped by errors for dates outside MinDate..MaxDate.
var ErrDateOutOfRange = errors.New("date outside 0001-01-01..9999-12-31")

// ShiftError reports day arithmetic whose result would leave
// MinDate..MaxDate.
type ShiftError struct {
	From   string
	Amount int
	Unit   string
}

func (e *ShiftError) Error() string {
	return fmt.Sprintf("shifting %s by %d %s leaves 0001-01-01..9999-12-31", e.From, e.Amount, e.Unit)
}

func (e *ShiftError) Unwrap() error {
	return ErrDateOutOfRange
}

// ParseError reports a value that is not a YYYY-MM-DD civil date (or, for
// navigation targets, not a recognized instant).
type ParseError struct {
	Value    string
	Expected string
	Err      error
}

func (e *ParseError) Error() string {
	expected := e.Expected
	if expected == "" {
		expected = "YYYY-MM-DD"
	}
	return fmt.Sprintf("invalid date %q: expected %s", e.Value, expected)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// TimezoneError reports a timezone identifier the timezone database cannot
// resolve.
type TimezoneError struct {
	Name string
	Err  error
}

func (e *TimezoneError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unknown timezone %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("unknown timezone %q", e.Name)
}

func (e *TimezoneError) Unwrap() error {
	return e.Err
}

// RangeError reports an invalid explicit date range.
type RangeError struct {
	Start   string
	End     string
	Message string
}

func (e *RangeError) Error() string {
	return e.Message
}
