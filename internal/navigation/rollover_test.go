package navigation

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/weekly-tracker/backend/internal/calendar"
	"github.com/weekly-tracker/backend/internal/websocket"
)

type rolloverEvent struct {
	kind     string
	previous string
	current  websocket.WeekPayload
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []rolloverEvent
}

func (n *recordingNotifier) BroadcastWeekRolledOver(previous string, current websocket.WeekPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, rolloverEvent{kind: "rolled_over", previous: previous, current: current})
}

func (n *recordingNotifier) BroadcastTimezoneChanged(timezone string, current websocket.WeekPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, rolloverEvent{kind: "timezone_changed", previous: timezone, current: current})
}

func (n *recordingNotifier) BroadcastNotification(level, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, rolloverEvent{kind: "notification", previous: level})
}

func (n *recordingNotifier) snapshot() []rolloverEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]rolloverEvent(nil), n.events...)
}

// switchableZone lets a test change the configured timezone.
type switchableZone struct {
	mu   sync.Mutex
	name string
	err  error
}

func (z *switchableZone) set(name string) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.name = name
}

func (z *switchableZone) Engine() (*calendar.Engine, error) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.err != nil {
		return nil, z.err
	}
	return calendar.LoadEngine(z.name)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func TestRolloverCheck(t *testing.T) {
	// Sunday 23:59 in New York.
	clock := &testClock{now: time.Date(2025, time.August, 18, 3, 59, 0, 0, time.UTC)}
	svc := NewService(&switchableZone{name: "America/New_York"}).WithClock(clock.Now)
	notifier := &recordingNotifier{}
	s := NewRolloverScheduler(svc, notifier, "")

	s.Check()
	if got := s.LastWeek(); got != "2025-08-11" {
		t.Fatalf("LastWeek = %s", got)
	}
	if len(notifier.snapshot()) != 0 {
		t.Fatal("first check should not broadcast")
	}

	// Still the same week a few seconds later.
	clock.Set(time.Date(2025, time.August, 18, 3, 59, 30, 0, time.UTC))
	s.Check()
	if len(notifier.snapshot()) != 0 {
		t.Fatal("unchanged week should not broadcast")
	}

	// Monday 00:01 local.
	clock.Set(time.Date(2025, time.August, 18, 4, 1, 0, 0, time.UTC))
	s.Check()

	events := notifier.snapshot()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.kind != "rolled_over" || ev.previous != "2025-08-11" || ev.current.WeekKey != "2025-08-18" {
		t.Errorf("event = %+v", ev)
	}
	if ev.current.Display != "Aug 18 – Aug 24, 2025" || ev.current.Timezone != "America/New_York" {
		t.Errorf("payload = %+v", ev.current)
	}
}

func TestRolloverTimezoneChanged(t *testing.T) {
	// Monday 02:00 UTC: Sunday evening in New York, Monday in Berlin.
	clock := &testClock{now: time.Date(2025, time.August, 18, 2, 0, 0, 0, time.UTC)}
	zone := &switchableZone{name: "America/New_York"}
	svc := NewService(zone).WithClock(clock.Now)
	notifier := &recordingNotifier{}
	s := NewRolloverScheduler(svc, notifier, "")

	s.Check()
	if s.LastWeek() != "2025-08-11" {
		t.Fatalf("LastWeek = %s", s.LastWeek())
	}

	zone.set("Europe/Berlin")
	s.TimezoneChanged("Europe/Berlin")

	events := notifier.snapshot()
	if len(events) != 1 || events[0].kind != "timezone_changed" {
		t.Fatalf("events = %+v", events)
	}
	if events[0].previous != "Europe/Berlin" || events[0].current.WeekKey != "2025-08-18" {
		t.Errorf("event = %+v", events[0])
	}

	// The next poll sees the week already recorded by the timezone change.
	s.Check()
	if len(notifier.snapshot()) != 1 {
		t.Error("rollover re-announced after timezone change")
	}
}

func TestRolloverCheckKeepsLastWeekOnFault(t *testing.T) {
	clock := &testClock{now: time.Date(2025, time.August, 20, 12, 0, 0, 0, time.UTC)}
	zone := &switchableZone{name: "UTC"}
	svc := NewService(zone).WithClock(clock.Now)
	notifier := &recordingNotifier{}
	s := NewRolloverScheduler(svc, notifier, "")

	s.Check()
	zone.mu.Lock()
	zone.err = &calendar.TimezoneError{Name: "Nowhere/Town", Err: errors.New("unknown time zone")}
	zone.mu.Unlock()
	s.Check()
	s.Check()

	if s.LastWeek() != "2025-08-18" {
		t.Errorf("LastWeek = %s", s.LastWeek())
	}
	events := notifier.snapshot()
	if len(events) != 1 || events[0].kind != "notification" || events[0].previous != "error" {
		t.Fatalf("events after fault = %+v, want one error notification", events)
	}

	zone.mu.Lock()
	zone.err = nil
	zone.mu.Unlock()
	s.Check()
	s.Check()

	events = notifier.snapshot()
	if len(events) != 2 || events[1].kind != "notification" || events[1].previous != "success" {
		t.Errorf("events after recovery = %+v, want a success notification", events)
	}
}

func TestRolloverStartRejectsBadSpec(t *testing.T) {
	svc := newTestService("UTC")
	s := NewRolloverScheduler(svc, nil, "every so often")
	if err := s.Start(); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestRolloverStartStop(t *testing.T) {
	svc := newTestService("UTC")
	s := NewRolloverScheduler(svc, nil, "@every 1h")
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if s.LastWeek() != "2025-08-18" {
		t.Errorf("LastWeek = %s", s.LastWeek())
	}
	s.Stop()
}
