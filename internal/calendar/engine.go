package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Engine derives civil dates and week keys in one fixed location. An Engine
// is immutable and safe for concurrent use.
type Engine struct {
	loc *time.Location
}

// NewEngine creates an engine bound to loc. A nil loc means UTC.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{loc: loc}
}

// LoadLocation resolves an IANA timezone identifier. Empty names and "Local"
// are rejected so a server's own zone never leaks into a computation.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "Local") {
		return nil, &TimezoneError{Name: name}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &TimezoneError{Name: name, Err: err}
	}
	return loc, nil
}

// LoadEngine resolves name and returns an engine bound to it.
func LoadEngine(name string) (*Engine, error) {
	loc, err := LoadLocation(name)
	if err != nil {
		return nil, err
	}
	return NewEngine(loc), nil
}

// Location returns the engine's timezone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Timezone returns the identifier of the engine's timezone.
func (e *Engine) Timezone() string {
	return e.loc.String()
}

// DateOf returns the civil date t falls on in the engine's timezone.
func (e *Engine) DateOf(t time.Time) Date {
	return DateOf(t.In(e.loc))
}

// WeekStart returns the key of the week containing t in the engine's
// timezone.
func (e *Engine) WeekStart(t time.Time) WeekKey {
	return WeekOf(e.DateOf(t))
}

// maxShiftDays is the distance from MinDate to MaxDate.
var maxShiftDays = MinDate.DaysUntil(MaxDate)

// AddDays shifts the civil date s by n days and returns the new date with the
// key of the week that contains it. A result outside MinDate..MaxDate fails
// with *ShiftError.
func (e *Engine) AddDays(s string, n int) (Date, WeekKey, error) {
	return shift(s, n, 1, "days")
}

// AddWeeks shifts the civil date s by n whole weeks.
func (e *Engine) AddWeeks(s string, n int) (Date, WeekKey, error) {
	return shift(s, n, 7, "weeks")
}

func shift(s string, n, unit int, unitName string) (Date, WeekKey, error) {
	d, err := ParseDate(s)
	if err != nil {
		return Date{}, "", err
	}
	// Bound n before multiplying so huge counts cannot wrap around.
	if limit := maxShiftDays / unit; n > limit || n < -limit {
		return Date{}, "", &ShiftError{From: s, Amount: n, Unit: unitName}
	}
	next := d.AddDays(n * unit)
	if !next.InRange() {
		return Date{}, "", &ShiftError{From: s, Amount: n, Unit: unitName}
	}
	return next, WeekOf(next), nil
}

// ResolvePreset turns a preset into concrete bounds relative to now.
func (e *Engine) ResolvePreset(p Preset, now time.Time) (DateRange, error) {
	today := e.DateOf(now)

	if p == PresetPriorWeek {
		lastMonday := mondayOf(today).AddDays(-7)
		return DateRange{Start: lastMonday, End: lastMonday.AddDays(6)}, nil
	}
	if n, ok := p.trailingDays(); ok {
		return DateRange{Start: today.AddDays(-n), End: today}, nil
	}
	if p == PresetCustom {
		return DateRange{}, ErrCustomPreset
	}
	return DateRange{}, fmt.Errorf("%w %q", ErrUnknownPreset, string(p))
}

// FormatWeekDisplay renders the week beginning at key as a short label such
// as "Aug 11 – Aug 17, 2025". Month names are always English so every viewer
// sees the same label.
func (e *Engine) FormatWeekDisplay(key string) (string, error) {
	start, err := ParseDate(key)
	if err != nil {
		return "", err
	}
	end := start.AddDays(6)

	if start.Year != end.Year {
		return fmt.Sprintf("%s %d, %d – %s %d, %d",
			shortMonth(start.Month), start.Day, start.Year,
			shortMonth(end.Month), end.Day, end.Year), nil
	}
	return fmt.Sprintf("%s %d – %s %d, %d",
		shortMonth(start.Month), start.Day,
		shortMonth(end.Month), end.Day, end.Year), nil
}

func shortMonth(m time.Month) string {
	return m.String()[:3]
}
