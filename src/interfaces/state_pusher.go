package interfaces

import "pigdevice/src/models"

// -----------------------------------------------------------------------------
// IStatePusher fans a device state change out to all watching connections.
// -----------------------------------------------------------------------------

type IStatePusher interface {

	// -----------------------------------------------------------------------------

	// PushDeviceState queues the full state record for broadcast to every
	// connection watching the device. A device with zero watchers is a
	// no-op. Never blocks the caller beyond the buffered queue.
	PushDeviceState(state models.MDeviceState)
}
