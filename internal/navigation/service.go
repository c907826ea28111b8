// Package navigation exposes the calendar engine as stateless week
// navigation and date-range actions. Every action resolves "now" and the
// timezone on the server; nothing depends on a client's clock or locale.
package navigation

import (
	"errors"
	"strings"
	"time"

	"github.com/weekly-tracker/backend/internal/calendar"
)

// EngineSource hands out an engine bound to the configured timezone.
// settings.Timezone implements it.
type EngineSource interface {
	Engine() (*calendar.Engine, error)
}

// ErrInvalidDirection is returned by ShiftWeek for directions other than
// +1 and -1.
var ErrInvalidDirection = errors.New("direction must be 1 or -1")

// ErrMissingTarget is returned by JumpToWeek when no target is given.
var ErrMissingTarget = errors.New("target is required")

// WeekResult is the answer to every week navigation action.
type WeekResult struct {
	WeekKey    calendar.WeekKey `json:"week_key"`
	Display    string           `json:"display"`
	Timezone   string           `json:"timezone"`
	Target     string           `json:"target,omitempty"`
	ServerTime time.Time        `json:"server_time"`
}

// RangeResult is a resolved analytics range.
type RangeResult struct {
	Preset     calendar.Preset    `json:"preset"`
	StartDate  calendar.Date      `json:"start_date"`
	EndDate    calendar.Date      `json:"end_date"`
	Days       int                `json:"days"`
	WeekKeys   []calendar.WeekKey `json:"week_keys"`
	Timezone   string             `json:"timezone"`
	ServerTime time.Time          `json:"server_time"`
}

// Service implements the week navigation actions.
type Service struct {
	zones EngineSource
	now   func() time.Time
}

// NewService creates a navigation service reading the timezone from zones.
func NewService(zones EngineSource) *Service {
	return &Service{zones: zones, now: time.Now}
}

// WithClock replaces the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Now returns the service clock's current instant in UTC.
func (s *Service) Now() time.Time {
	return s.now().UTC()
}

// CurrentWeek returns the week containing target, or the current week when
// target is empty.
func (s *Service) CurrentWeek(target string) (WeekResult, error) {
	e, err := s.zones.Engine()
	if err != nil {
		return WeekResult{}, err
	}
	now := s.Now()

	d := e.DateOf(now)
	if target = strings.TrimSpace(target); target != "" {
		if d, err = parseTarget(e, target); err != nil {
			return WeekResult{}, err
		}
	}
	return s.weekResult(e, calendar.WeekOf(d), now)
}

// JumpToWeek returns the week containing target and echoes the target.
func (s *Service) JumpToWeek(target string) (WeekResult, error) {
	if strings.TrimSpace(target) == "" {
		return WeekResult{}, ErrMissingTarget
	}
	res, err := s.CurrentWeek(target)
	if err != nil {
		return WeekResult{}, err
	}
	res.Target = target
	return res, nil
}

// ShiftWeek moves exactly one week forward (direction 1) or back
// (direction -1) from weekKey.
func (s *Service) ShiftWeek(weekKey string, direction int) (WeekResult, error) {
	if direction != 1 && direction != -1 {
		return WeekResult{}, ErrInvalidDirection
	}
	e, err := s.zones.Engine()
	if err != nil {
		return WeekResult{}, err
	}

	_, key, err := e.AddWeeks(weekKey, direction)
	if err != nil {
		return WeekResult{}, err
	}
	return s.weekResult(e, key, s.Now())
}

// ResolveAnalyticsRange resolves a preset, or validates start and end for the
// custom preset. An invalid custom range fails with *calendar.RangeError.
func (s *Service) ResolveAnalyticsRange(preset, start, end string) (RangeResult, error) {
	p, err := calendar.ParsePreset(preset)
	if err != nil {
		return RangeResult{}, err
	}
	e, err := s.zones.Engine()
	if err != nil {
		return RangeResult{}, err
	}
	now := s.Now()

	r, err := resolveRange(e, now, p, start, end)
	if err != nil {
		return RangeResult{}, err
	}

	return RangeResult{
		Preset:     p,
		StartDate:  r.Start,
		EndDate:    r.End,
		Days:       r.Days(),
		WeekKeys:   r.Weeks(),
		Timezone:   e.Timezone(),
		ServerTime: now,
	}, nil
}

// resolveRange resolves p against now, or validates the explicit bounds of a
// custom range.
func resolveRange(e *calendar.Engine, now time.Time, p calendar.Preset, start, end string) (calendar.DateRange, error) {
	if p != calendar.PresetCustom {
		return e.ResolvePreset(p, now)
	}
	check := calendar.ValidateRange(start, end)
	if err := check.Err(start, end); err != nil {
		return calendar.DateRange{}, err
	}
	return check.Range, nil
}

func (s *Service) weekResult(e *calendar.Engine, key calendar.WeekKey, now time.Time) (WeekResult, error) {
	display, err := e.FormatWeekDisplay(key.String())
	if err != nil {
		return WeekResult{}, err
	}
	return WeekResult{
		WeekKey:    key,
		Display:    display,
		Timezone:   e.Timezone(),
		ServerTime: now,
	}, nil
}

// Zone-less layouts are read as wall-clock time in the configured timezone.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseTarget reads an RFC 3339 instant, a zone-less local date-time or a
// plain civil date and returns its civil date in e's timezone.
func parseTarget(e *calendar.Engine, target string) (calendar.Date, error) {
	if len(target) == len(calendar.DateLayout) {
		return calendar.ParseDate(target)
	}
	if t, err := time.Parse(time.RFC3339Nano, target); err == nil {
		return checkTargetDate(target, e.DateOf(t))
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, target, e.Location()); err == nil {
			return checkTargetDate(target, calendar.DateOf(t))
		}
	}
	return calendar.Date{}, &calendar.ParseError{
		Value:    target,
		Expected: "an RFC 3339 instant or YYYY-MM-DD",
	}
}

func checkTargetDate(target string, d calendar.Date) (calendar.Date, error) {
	if !d.InRange() {
		return calendar.Date{}, &calendar.ParseError{Value: target, Err: calendar.ErrDateOutOfRange}
	}
	return d, nil
}
