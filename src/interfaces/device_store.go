package interfaces

import "pigdevice/src/models"

// -----------------------------------------------------------------------------
// IDeviceStore defines the contract for the authoritative in-memory
// per-device balance state.
// -----------------------------------------------------------------------------

type IDeviceStore interface {

	// -----------------------------------------------------------------------------

	// GetOrCreate returns a snapshot of the device's state, seeding a
	// default record on first reference. Idempotent; never overwrites an
	// existing record on a read.
	GetOrCreate(deviceID string) models.MDeviceState

	// -----------------------------------------------------------------------------

	// Update applies the mutation to the device's record and calls
	// onApplied with the resulting snapshot while the device is still
	// locked, so apply-then-publish is atomic with respect to other
	// mutations of the same device. onApplied may be nil.
	Update(deviceID string, mutation models.MMutation, onApplied func(models.MDeviceState)) models.MDeviceState
}
