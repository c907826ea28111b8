// Package settings holds the process-wide configuration values that every
// calendar computation reads.
package settings

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/weekly-tracker/backend/internal/calendar"
	"github.com/weekly-tracker/backend/internal/storage/models"
)

// DefaultTimezone is used on first boot, before an administrator picks one.
const DefaultTimezone = "America/New_York"

// Store persists setting values. storage.SettingsRepository implements it.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// zoneSnapshot is one immutable view of the configured timezone. When the
// stored identifier cannot be resolved, err is set and engine is nil.
type zoneSnapshot struct {
	name   string
	engine *calendar.Engine
	err    error
}

// Timezone is the accessor for the configured timezone. Reads take an atomic
// snapshot; Load and Set are the only ways the snapshot changes.
type Timezone struct {
	store    Store
	fallback string
	current  atomic.Pointer[zoneSnapshot]

	// Serializes store writes with snapshot swaps
	writeMu sync.Mutex

	mu        sync.Mutex
	listeners []func(name string)
}

// NewTimezone creates an accessor backed by store. fallback is written on
// first boot; an empty fallback means DefaultTimezone.
func NewTimezone(store Store, fallback string) *Timezone {
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		fallback = DefaultTimezone
	}
	return &Timezone{store: store, fallback: fallback}
}

// Load reads the persisted identifier and replaces the snapshot. When nothing
// is stored yet the fallback is persisted. A stored identifier that does not
// resolve is kept as a configuration fault: Load returns the
// *calendar.TimezoneError and Engine keeps failing until Set succeeds.
func (z *Timezone) Load(ctx context.Context) error {
	z.writeMu.Lock()
	defer z.writeMu.Unlock()

	name, ok, err := z.store.Get(ctx, models.SettingTimezone)
	if err != nil {
		return fmt.Errorf("loading timezone setting: %w", err)
	}

	if !ok {
		if _, err := calendar.LoadLocation(z.fallback); err != nil {
			return err
		}
		if err := z.store.Set(ctx, models.SettingTimezone, z.fallback); err != nil {
			return fmt.Errorf("initializing timezone setting: %w", err)
		}
		log.Printf("Timezone setting initialized to %s", z.fallback)
		name = z.fallback
	}

	snap := newSnapshot(name)
	z.current.Store(snap)
	if snap.err != nil {
		log.Printf("ERROR: configured timezone %q is invalid, calendar requests will fail until it is fixed: %v", name, snap.err)
		return snap.err
	}
	return nil
}

// Get returns the configured identifier, or the fallback before the first
// Load.
func (z *Timezone) Get() string {
	if snap := z.current.Load(); snap != nil {
		return snap.name
	}
	return z.fallback
}

// Engine returns a calendar engine bound to the current snapshot. Callers
// should take one engine per request and use it for every computation in
// that request.
func (z *Timezone) Engine() (*calendar.Engine, error) {
	snap := z.current.Load()
	if snap == nil {
		snap = newSnapshot(z.fallback)
	}
	if snap.err != nil {
		return nil, snap.err
	}
	return snap.engine, nil
}

// Err returns the configuration fault of the current snapshot, if any.
func (z *Timezone) Err() error {
	if snap := z.current.Load(); snap != nil {
		return snap.err
	}
	return nil
}

// Set validates name against the timezone database, persists it and makes it
// the current snapshot. Unknown identifiers are rejected with a
// *calendar.TimezoneError and nothing is written.
func (z *Timezone) Set(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	snap := newSnapshot(name)
	if snap.err != nil {
		return "", snap.err
	}

	z.writeMu.Lock()
	if err := z.store.Set(ctx, models.SettingTimezone, name); err != nil {
		z.writeMu.Unlock()
		return "", fmt.Errorf("saving timezone setting: %w", err)
	}
	previous := z.current.Swap(snap)
	z.writeMu.Unlock()

	if previous == nil || previous.name != name {
		log.Printf("Timezone setting changed to %s", name)
		z.notify(name)
	}
	return name, nil
}

// OnChange registers fn to run after every successful Set that changes the
// identifier.
func (z *Timezone) OnChange(fn func(name string)) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.listeners = append(z.listeners, fn)
}

func (z *Timezone) notify(name string) {
	z.mu.Lock()
	listeners := append([]func(string){}, z.listeners...)
	z.mu.Unlock()

	for _, fn := range listeners {
		fn(name)
	}
}

func newSnapshot(name string) *zoneSnapshot {
	engine, err := calendar.LoadEngine(name)
	return &zoneSnapshot{name: name, engine: engine, err: err}
}
