package navigation

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/weekly-tracker/backend/internal/calendar"
	"github.com/weekly-tracker/backend/internal/websocket"
)

// DefaultRolloverSpec is how often the current week is re-evaluated.
const DefaultRolloverSpec = "@every 1m"

// Notifier receives week change events. websocket.EventBroadcaster
// implements it.
type Notifier interface {
	BroadcastWeekRolledOver(previous string, current websocket.WeekPayload)
	BroadcastTimezoneChanged(timezone string, current websocket.WeekPayload)
	BroadcastNotification(level, title, message string)
}

// RolloverScheduler watches the current week and tells clients when it
// changes, either because local midnight on Sunday passed or because the
// configured timezone moved.
type RolloverScheduler struct {
	cron     *cron.Cron
	service  *Service
	notifier Notifier
	spec     string

	mu      sync.Mutex
	last    calendar.WeekKey
	faulted bool
}

// NewRolloverScheduler creates a scheduler polling on spec. An empty spec
// means DefaultRolloverSpec.
func NewRolloverScheduler(service *Service, notifier Notifier, spec string) *RolloverScheduler {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = DefaultRolloverSpec
	}
	return &RolloverScheduler{
		cron:     cron.New(cron.WithSeconds()),
		service:  service,
		notifier: notifier,
		spec:     spec,
	}
}

// Start records the current week and begins polling.
func (s *RolloverScheduler) Start() error {
	log.Println("Starting week rollover scheduler...")

	if _, err := s.cron.AddFunc(s.spec, s.Check); err != nil {
		return fmt.Errorf("invalid rollover schedule %q: %w", s.spec, err)
	}

	s.Check()
	s.cron.Start()
	log.Printf("Week rollover scheduler started (%s)", s.spec)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *RolloverScheduler) Stop() {
	log.Println("Stopping week rollover scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Week rollover scheduler stopped")
}

// Check re-evaluates the current week and broadcasts week.rolled_over when it
// differs from the last one seen. The first check only records the week.
// Clients get one error notification when checks start failing and one
// success notification when they recover.
func (s *RolloverScheduler) Check() {
	res, err := s.service.CurrentWeek("")
	if err != nil {
		log.Printf("Week rollover check failed: %v", err)
		if s.setFaulted(true) && s.notifier != nil {
			s.notifier.BroadcastNotification("error", "Calendar unavailable",
				fmt.Sprintf("Week boundaries cannot be computed: %v", err))
		}
		return
	}
	if s.setFaulted(false) && s.notifier != nil {
		s.notifier.BroadcastNotification("success", "Calendar restored",
			fmt.Sprintf("Weeks are computed in %s again", res.Timezone))
	}

	s.mu.Lock()
	previous := s.last
	s.last = res.WeekKey
	s.mu.Unlock()

	if previous == "" || previous == res.WeekKey {
		return
	}

	log.Printf("Week rolled over from %s to %s (%s)", previous, res.WeekKey, res.Timezone)
	if s.notifier != nil {
		s.notifier.BroadcastWeekRolledOver(previous.String(), payload(res))
	}
}

// TimezoneChanged re-evaluates the current week immediately and broadcasts
// settings.timezone_changed. Register it with settings.Timezone.OnChange.
func (s *RolloverScheduler) TimezoneChanged(name string) {
	res, err := s.service.CurrentWeek("")
	if err != nil {
		log.Printf("Failed to resolve current week after timezone change to %s: %v", name, err)
		return
	}

	s.mu.Lock()
	s.last = res.WeekKey
	s.faulted = false
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.BroadcastTimezoneChanged(res.Timezone, payload(res))
	}
}

// setFaulted records the fault state and reports whether it changed.
func (s *RolloverScheduler) setFaulted(faulted bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.faulted != faulted
	s.faulted = faulted
	return changed
}

// LastWeek returns the most recently observed current week.
func (s *RolloverScheduler) LastWeek() calendar.WeekKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func payload(res WeekResult) websocket.WeekPayload {
	return websocket.WeekPayload{
		WeekKey:  res.WeekKey.String(),
		Display:  res.Display,
		Timezone: res.Timezone,
	}
}
