package settings_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/weekly-tracker/backend/internal/calendar"
	"github.com/weekly-tracker/backend/internal/settings"
	"github.com/weekly-tracker/backend/internal/storage/models"
)

type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
	writes int
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.values[key] = value
	s.writes++
	return nil
}

func TestTimezoneLoadInitializesDefault(t *testing.T) {
	store := newMemoryStore()
	tz := settings.NewTimezone(store, "")

	if got := tz.Get(); got != settings.DefaultTimezone {
		t.Errorf("Get before Load = %q, want %q", got, settings.DefaultTimezone)
	}
	if err := tz.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if store.values[models.SettingTimezone] != settings.DefaultTimezone {
		t.Errorf("default not persisted, store = %v", store.values)
	}

	e, err := tz.Engine()
	if err != nil {
		t.Fatal(err)
	}
	if e.Timezone() != "America/New_York" {
		t.Errorf("engine timezone = %q", e.Timezone())
	}
}

func TestTimezoneLoadKeepsStoredValue(t *testing.T) {
	store := newMemoryStore()
	store.values[models.SettingTimezone] = "Asia/Tokyo"
	tz := settings.NewTimezone(store, "Europe/Berlin")

	if err := tz.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := tz.Get(); got != "Asia/Tokyo" {
		t.Errorf("Get = %q, want Asia/Tokyo", got)
	}
	if store.writes != 0 {
		t.Errorf("Load wrote %d times, want 0", store.writes)
	}
}

func TestTimezoneLoadInvalidStoredValueIsAFault(t *testing.T) {
	store := newMemoryStore()
	store.values[models.SettingTimezone] = "Not/AZone"
	tz := settings.NewTimezone(store, "")

	err := tz.Load(context.Background())
	var tzErr *calendar.TimezoneError
	if !errors.As(err, &tzErr) {
		t.Fatalf("Load error = %v, want *TimezoneError", err)
	}
	if tz.Get() != "Not/AZone" {
		t.Errorf("Get = %q, want the stored value", tz.Get())
	}
	if _, err := tz.Engine(); !errors.As(err, &tzErr) {
		t.Errorf("Engine error = %v, want *TimezoneError", err)
	}
	if tz.Err() == nil {
		t.Error("Err() = nil for an invalid snapshot")
	}

	// An administrator fixes it.
	if _, err := tz.Set(context.Background(), "UTC"); err != nil {
		t.Fatal(err)
	}
	if _, err := tz.Engine(); err != nil {
		t.Errorf("Engine after fix: %v", err)
	}
	if tz.Err() != nil {
		t.Errorf("Err() after fix = %v", tz.Err())
	}
}

func TestTimezoneSetRejectsInvalid(t *testing.T) {
	store := newMemoryStore()
	tz := settings.NewTimezone(store, "")
	if err := tz.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	writes := store.writes

	for _, name := range []string{"", "   ", "Local", "Eastern", "America/Atlantis"} {
		_, err := tz.Set(context.Background(), name)
		var tzErr *calendar.TimezoneError
		if !errors.As(err, &tzErr) {
			t.Errorf("Set(%q) error = %v, want *TimezoneError", name, err)
		}
	}
	if store.writes != writes {
		t.Errorf("invalid Set calls wrote to the store")
	}
	if tz.Get() != settings.DefaultTimezone {
		t.Errorf("Get = %q after rejected writes", tz.Get())
	}
}

func TestTimezoneSetNotifiesListeners(t *testing.T) {
	tz := settings.NewTimezone(newMemoryStore(), "")
	if err := tz.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var got []string
	tz.OnChange(func(name string) { got = append(got, name) })

	if name, err := tz.Set(context.Background(), " Europe/Berlin "); err != nil || name != "Europe/Berlin" {
		t.Fatalf("Set = %q, %v", name, err)
	}
	// Same value again is not a change.
	if _, err := tz.Set(context.Background(), "Europe/Berlin"); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "Europe/Berlin" {
		t.Errorf("listener calls = %v, want [Europe/Berlin]", got)
	}
}

func TestTimezoneStoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("disk full")
	tz := settings.NewTimezone(store, "")

	if err := tz.Load(context.Background()); err == nil {
		t.Error("Load succeeded with a failing store")
	}
	if _, err := tz.Set(context.Background(), "UTC"); err == nil {
		t.Error("Set succeeded with a failing store")
	}
	if tz.Get() != settings.DefaultTimezone {
		t.Errorf("Get = %q after failed Set", tz.Get())
	}
}

func TestTimezoneConcurrentAccess(t *testing.T) {
	tz := settings.NewTimezone(newMemoryStore(), "")
	if err := tz.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	zones := []string{"UTC", "Europe/Berlin", "America/New_York"}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			tz.Set(context.Background(), zones[i%len(zones)])
		}(i)
		go func() {
			defer wg.Done()
			e, err := tz.Engine()
			if err != nil {
				t.Error(err)
				return
			}
			_ = e.WeekStart(time.Now())
		}()
	}
	wg.Wait()
}

// slowStore stalls after writing UTC, widening the window between a
// write and the snapshot that follows it.
type slowStore struct {
	*memoryStore
}

func (s slowStore) Set(ctx context.Context, key, value string) error {
	err := s.memoryStore.Set(ctx, key, value)
	if value == "UTC" {
		time.Sleep(20 * time.Millisecond)
	}
	return err
}

func TestTimezoneConcurrentSetsAgreeWithStore(t *testing.T) {
	store := slowStore{newMemoryStore()}
	tz := settings.NewTimezone(store, "")
	if err := tz.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	for round := 0; round < 5; round++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			tz.Set(context.Background(), "UTC")
		}()
		go func() {
			defer wg.Done()
			time.Sleep(5 * time.Millisecond)
			tz.Set(context.Background(), "Europe/Berlin")
		}()
		wg.Wait()

		stored, _, _ := store.Get(context.Background(), models.SettingTimezone)
		if stored != tz.Get() {
			t.Fatalf("round %d: store has %q, snapshot has %q", round, stored, tz.Get())
		}
	}
}
