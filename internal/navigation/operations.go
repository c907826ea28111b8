package navigation

import (
	"fmt"
	"time"

	"github.com/weekly-tracker/backend/internal/calendar"
)

// Operation names accepted by Execute.
const (
	OpGetToday           = "getToday"
	OpAddDays            = "addDays"
	OpAddWeeks           = "addWeeks"
	OpFormatWeekDisplay  = "formatWeekDisplay"
	OpCalculateDateRange = "calculateDateRange"
	OpValidateDateRange  = "validateDateRange"
	OpGetWeekDays        = "getWeekDays"
)

// Operations lists every supported operation name.
var Operations = []string{
	OpGetToday,
	OpAddDays,
	OpAddWeeks,
	OpFormatWeekDisplay,
	OpCalculateDateRange,
	OpValidateDateRange,
	OpGetWeekDays,
}

// UnknownOperationError reports an operation name Execute does not know.
type UnknownOperationError struct {
	Operation string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown date operation %q", e.Operation)
}

func knownOperation(name string) bool {
	for _, op := range Operations {
		if op == name {
			return true
		}
	}
	return false
}

// OperationRequest carries the operation name and its parameters. Only the
// fields an operation reads need to be set.
type OperationRequest struct {
	Operation string `json:"operation"`
	Date      string `json:"date,omitempty"`
	Days      int    `json:"days,omitempty"`
	Weeks     int    `json:"weeks,omitempty"`
	WeekKey   string `json:"week_key,omitempty"`
	Preset    string `json:"preset,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// OperationResult holds the fields produced by an operation plus the
// timezone and server instant every result carries.
type OperationResult struct {
	Operation  string             `json:"operation"`
	Date       string             `json:"date,omitempty"`
	Weekday    calendar.Weekday   `json:"weekday,omitempty"`
	WeekKey    calendar.WeekKey   `json:"week_key,omitempty"`
	Display    string             `json:"display,omitempty"`
	StartDate  string             `json:"start_date,omitempty"`
	EndDate    string             `json:"end_date,omitempty"`
	Valid      *bool              `json:"valid,omitempty"`
	Message    string             `json:"message,omitempty"`
	Days       []calendar.WeekDay `json:"days,omitempty"`
	Timezone   string             `json:"timezone"`
	ServerTime time.Time          `json:"server_time"`
}

// Execute runs one date operation against a single timezone snapshot.
func (s *Service) Execute(req OperationRequest) (OperationResult, error) {
	if !knownOperation(req.Operation) {
		return OperationResult{}, &UnknownOperationError{Operation: req.Operation}
	}
	e, err := s.zones.Engine()
	if err != nil {
		return OperationResult{}, err
	}
	now := s.Now()

	res := OperationResult{
		Operation:  req.Operation,
		Timezone:   e.Timezone(),
		ServerTime: now,
	}

	switch req.Operation {
	case OpGetToday:
		today := e.DateOf(now)
		res.Date = today.String()
		res.Weekday = today.Weekday()
		res.WeekKey = calendar.WeekOf(today)

	case OpAddDays, OpAddWeeks:
		var next calendar.Date
		var key calendar.WeekKey
		if req.Operation == OpAddDays {
			next, key, err = e.AddDays(req.Date, req.Days)
		} else {
			next, key, err = e.AddWeeks(req.Date, req.Weeks)
		}
		if err != nil {
			return OperationResult{}, err
		}
		res.Date = next.String()
		res.Weekday = next.Weekday()
		res.WeekKey = key

	case OpFormatWeekDisplay:
		key := req.WeekKey
		if key == "" {
			key = req.Date
		}
		week, err := calendar.ParseWeekKey(key)
		if err != nil {
			return OperationResult{}, err
		}
		display, err := e.FormatWeekDisplay(week.String())
		if err != nil {
			return OperationResult{}, err
		}
		res.WeekKey = week
		res.Display = display

	case OpCalculateDateRange:
		p, err := calendar.ParsePreset(req.Preset)
		if err != nil {
			return OperationResult{}, err
		}
		r, err := resolveRange(e, now, p, req.StartDate, req.EndDate)
		if err != nil {
			return OperationResult{}, err
		}
		res.StartDate = r.Start.String()
		res.EndDate = r.End.String()

	case OpValidateDateRange:
		check := calendar.ValidateRange(req.StartDate, req.EndDate)
		res.Valid = &check.Valid
		res.Message = check.Message
		if check.Valid {
			res.StartDate = check.Range.Start.String()
			res.EndDate = check.Range.End.String()
		}

	case OpGetWeekDays:
		key := req.WeekKey
		if key == "" {
			key = req.Date
		}
		if key == "" {
			key = e.WeekStart(now).String()
		}
		week, err := calendar.ParseWeekKey(key)
		if err != nil {
			return OperationResult{}, err
		}
		days, err := week.Days()
		if err != nil {
			return OperationResult{}, err
		}
		res.WeekKey = week
		res.Days = days[:]

	default:
		return OperationResult{}, &UnknownOperationError{Operation: req.Operation}
	}

	return res, nil
}
