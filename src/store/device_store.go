package store

import (
	"sync"
	"time"

	"pigdevice/src/models"
	"pigdevice/src/mutation"
)

// -----------------------------------------------------------------------------
// DeviceStore
// -----------------------------------------------------------------------------

// DeviceStore holds the authoritative balance record per device. Records are
// created lazily on first reference and live for the process lifetime.
//
// Locking is two-level: an RWMutex guards the map, and each device entry
// carries its own mutex so mutations of the same device serialize while
// different devices proceed independently.
type DeviceStore struct {
	mu              sync.RWMutex
	devices         map[string]*deviceEntry
	defaultCurrency string
}

type deviceEntry struct {
	mu    sync.Mutex
	state models.MDeviceState
}

// -----------------------------------------------------------------------------

// NewDeviceStore creates an empty store seeding new devices with the given
// default currency.
func NewDeviceStore(defaultCurrency string) *DeviceStore {
	return &DeviceStore{
		devices:         make(map[string]*deviceEntry),
		defaultCurrency: defaultCurrency,
	}
}

// -----------------------------------------------------------------------------

// GetOrCreate returns a snapshot of the device's current state, seeding
// {amountCents: 0, default currency} on first reference.
func (s *DeviceStore) GetOrCreate(deviceID string) models.MDeviceState {
	e := s.entry(deviceID)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// -----------------------------------------------------------------------------

// Update applies the mutation under the device's lock and, still under that
// lock, invokes onApplied with the new snapshot. Holding the lock across
// onApplied keeps apply-then-publish atomic per device: two racing mutations
// cannot interleave their broadcasts out of order.
func (s *DeviceStore) Update(deviceID string, m models.MMutation, onApplied func(models.MDeviceState)) models.MDeviceState {
	e := s.entry(deviceID)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = mutation.Apply(e.state, m, time.Now())
	if onApplied != nil {
		onApplied(e.state)
	}
	return e.state
}

// -----------------------------------------------------------------------------

// Count returns the number of known devices.
func (s *DeviceStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.devices)
}

// -----------------------------------------------------------------------------

func (s *DeviceStore) entry(deviceID string) *deviceEntry {
	s.mu.RLock()
	e, ok := s.devices[deviceID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check: another goroutine may have seeded between the locks.
	if e, ok := s.devices[deviceID]; ok {
		return e
	}

	e = &deviceEntry{
		state: models.MDeviceState{
			DeviceID:    deviceID,
			AmountCents: 0,
			Currency:    s.defaultCurrency,
			UpdatedAt:   time.Now(),
		},
	}
	s.devices[deviceID] = e
	return e
}
