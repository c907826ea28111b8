package calendar_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/weekly-tracker/backend/internal/calendar"
)

func TestParseDate(t *testing.T) {
	d, err := calendar.ParseDate("2025-08-11")
	if err != nil {
		t.Fatal(err)
	}
	if d != calendar.NewDate(2025, time.August, 11) {
		t.Errorf("ParseDate = %+v", d)
	}
	if d.String() != "2025-08-11" {
		t.Errorf("String() = %q", d.String())
	}
	if d.Weekday() != calendar.Monday {
		t.Errorf("Weekday() = %s, want Monday", d.Weekday())
	}
}

func TestParseDateBounds(t *testing.T) {
	for _, in := range []string{"0001-01-01", "9999-12-31"} {
		if _, err := calendar.ParseDate(in); err != nil {
			t.Errorf("ParseDate(%q): %v", in, err)
		}
	}
	_, err := calendar.ParseDate("0000-06-15")
	var perr *calendar.ParseError
	if !errors.As(err, &perr) || !errors.Is(err, calendar.ErrDateOutOfRange) {
		t.Errorf("ParseDate(0000-06-15) error = %v, want out of range", err)
	}
	if calendar.MinDate.Weekday() != calendar.Monday {
		t.Errorf("MinDate weekday = %s", calendar.MinDate.Weekday())
	}
}

func TestNewDateNormalizes(t *testing.T) {
	if got := calendar.NewDate(2025, time.January, 32).String(); got != "2025-02-01" {
		t.Errorf("NewDate(2025, 1, 32) = %s", got)
	}
	if got := calendar.NewDate(2025, time.March, 0).String(); got != "2025-02-28" {
		t.Errorf("NewDate(2025, 3, 0) = %s", got)
	}
}

func TestDateCompare(t *testing.T) {
	a := calendar.NewDate(2024, time.December, 31)
	b := calendar.NewDate(2025, time.January, 1)

	if !a.Before(b) || a.After(b) || a.Compare(b) != -1 {
		t.Error("2024-12-31 should be before 2025-01-01")
	}
	if b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("Compare is not antisymmetric")
	}
	if n := a.DaysUntil(b); n != 1 {
		t.Errorf("DaysUntil = %d, want 1", n)
	}
	if n := b.DaysUntil(calendar.NewDate(2024, time.March, 1)); n != -306 {
		t.Errorf("DaysUntil = %d, want -306", n)
	}
	// Spans longer than time.Duration can hold.
	if n := calendar.MinDate.DaysUntil(calendar.MaxDate); n != 3652058 {
		t.Errorf("DaysUntil(min, max) = %d, want 3652058", n)
	}
}

func TestDateJSON(t *testing.T) {
	in := struct {
		Day calendar.Date `json:"day"`
	}{calendar.NewDate(2025, time.August, 17)}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"day":"2025-08-17"}` {
		t.Errorf("Marshal = %s", b)
	}

	var out struct {
		Day calendar.Date `json:"day"`
	}
	if err := json.Unmarshal([]byte(`{"day":"2025-13-01"}`), &out); err == nil {
		t.Error("Unmarshal accepted month 13")
	}
}

func TestWeekKeyDays(t *testing.T) {
	days, err := calendar.WeekKey("2024-12-30").Days()
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for i, d := range days {
		if d.Weekday != calendar.Weekdays[i] {
			t.Errorf("day %d weekday = %s", i, d.Weekday)
		}
		got = append(got, d.Date.String())
	}
	want := []string{"2024-12-30", "2024-12-31", "2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Days() = %v, want %v", got, want)
	}

	if _, err := calendar.WeekKey("2025-01-01").Days(); err == nil {
		t.Error("Days() accepted a Wednesday key")
	}
}

func TestWeekdayEnumeration(t *testing.T) {
	for _, name := range []string{"monday", "Tuesday", " WEDNESDAY ", "sunday"} {
		if _, err := calendar.ParseWeekday(name); err != nil {
			t.Errorf("ParseWeekday(%q): %v", name, err)
		}
	}
	for _, name := range []string{"", "mon", "monday; drop table", "8"} {
		if _, err := calendar.ParseWeekday(name); err == nil {
			t.Errorf("ParseWeekday(%q) succeeded", name)
		}
	}

	if calendar.Sunday.Std() != time.Sunday || calendar.Monday.Std() != time.Monday {
		t.Error("Std() mapping is wrong")
	}
	if calendar.Friday.Column() != "friday" || calendar.Friday.Offset() != 4 {
		t.Error("Friday column/offset mismatch")
	}
	if calendar.Weekday(0).Valid() || calendar.Weekday(8).Valid() {
		t.Error("out-of-range weekday reported valid")
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		start, end string
		valid      bool
	}{
		{"2025-08-01", "2025-07-01", false},
		{"2025-07-01", "2025-08-01", true},
		{"2025-08-01", "2025-08-01", true},
		{"2025-03-09", "2025-03-10", true},
		{"2025-08-01", "", false},
		{"yesterday", "2025-08-01", false},
		{"2025-02-29", "2025-03-01", false},
		{"0000-01-01", "0000-01-20", false},
		{"2015-01-01", "2025-01-07", true},
		{"2015-01-01", "2025-01-08", false},
		{"0001-01-01", "9999-12-31", false},
	}
	for _, tt := range tests {
		got := calendar.ValidateRange(tt.start, tt.end)
		if got.Valid != tt.valid {
			t.Errorf("ValidateRange(%q, %q).Valid = %v, want %v (%s)", tt.start, tt.end, got.Valid, tt.valid, got.Message)
		}
		if got.Message == "" {
			t.Errorf("ValidateRange(%q, %q) has no message", tt.start, tt.end)
		}
		if got.Valid && (got.Range.Start.String() != tt.start || got.Range.End.String() != tt.end) {
			t.Errorf("ValidateRange(%q, %q).Range = %s", tt.start, tt.end, got.Range)
		}
		if err := got.Err(tt.start, tt.end); (err == nil) != tt.valid {
			t.Errorf("ValidateRange(%q, %q).Err() = %v", tt.start, tt.end, err)
		}
	}
}

func TestDateRangeWeeks(t *testing.T) {
	tests := []struct {
		start, end string
		want       []calendar.WeekKey
	}{
		{"2025-08-01", "2025-08-17", []calendar.WeekKey{"2025-07-28", "2025-08-04", "2025-08-11"}},
		{"2025-08-17", "2025-08-17", []calendar.WeekKey{"2025-08-11"}},
		{"2025-08-18", "2025-08-18", []calendar.WeekKey{"2025-08-18"}},
		{"2024-12-25", "2025-01-06", []calendar.WeekKey{"2024-12-23", "2024-12-30", "2025-01-06"}},
		{"2025-10-27", "2025-11-09", []calendar.WeekKey{"2025-10-27", "2025-11-03"}},
		{"0001-01-01", "0001-01-20", []calendar.WeekKey{"0001-01-01", "0001-01-08", "0001-01-15"}},
		{"9999-12-20", "9999-12-31", []calendar.WeekKey{"9999-12-20", "9999-12-27"}},
	}
	for _, tt := range tests {
		check := calendar.ValidateRange(tt.start, tt.end)
		if !check.Valid {
			t.Fatalf("invalid test range %s..%s", tt.start, tt.end)
		}
		got := check.Range.Weeks()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Weeks(%s..%s) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}

	backwards := calendar.DateRange{
		Start: calendar.NewDate(2025, time.August, 2),
		End:   calendar.NewDate(2025, time.August, 1),
	}
	if got := backwards.Weeks(); got != nil {
		t.Errorf("Weeks() of reversed range = %v, want nil", got)
	}
}

func TestParsePreset(t *testing.T) {
	tests := map[string]calendar.Preset{
		"":       calendar.PresetPriorWeek,
		"week":   calendar.PresetPriorWeek,
		"month":  calendar.PresetTrailing30,
		"90days": calendar.PresetTrailing90,
		"Custom": calendar.PresetCustom,
	}
	for in, want := range tests {
		got, err := calendar.ParsePreset(in)
		if err != nil || got != want {
			t.Errorf("ParsePreset(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := calendar.ParsePreset("year"); err == nil {
		t.Error("ParsePreset accepted an unknown preset")
	}
}
