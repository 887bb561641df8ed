package interfaces

import "pigdevice/src/models"

// -----------------------------------------------------------------------------
// MutationSink receives decoded balance mutations from the telemetry channel.
// -----------------------------------------------------------------------------

type MutationSink func(deviceID string, mutation models.MMutation)

// -----------------------------------------------------------------------------
// ITelemetryAdapter defines the contract for the external publish/subscribe
// telemetry transport. Absence of a live connection is a checkable status,
// not an exception path.
// -----------------------------------------------------------------------------

type ITelemetryAdapter interface {

	// -----------------------------------------------------------------------------

	// Start establishes the connection and the balance-topic subscription.
	// A missing configuration or a failed connection is logged and leaves
	// the adapter in degraded mode; Start only returns an error for faults
	// that the caller could act on.
	Start(sink MutationSink) error

	// -----------------------------------------------------------------------------

	// Publish sends a payload on the given topic over the held connection.
	// Returns a transport error if no connection is currently established.
	Publish(topic string, payload interface{}) error

	// -----------------------------------------------------------------------------

	// Connected reports whether a live transport connection is held.
	Connected() bool

	// -----------------------------------------------------------------------------

	// Stop tears down the subscription and the connection.
	Stop()
}
