package helpers

import "fmt"

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type PigDeviceError struct {
	Message string
	Cause   error
}

func (e *PigDeviceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PigDeviceError) Unwrap() error {
	return e.Cause
}

// Distinct error types for the failure categories the relay can hit:
// bad request fields, telemetry transport not available, undecodable
// telemetry messages, and missing startup configuration.
type ValidationError struct{ PigDeviceError }
type TransportError struct{ PigDeviceError }
type DecodeError struct{ PigDeviceError }
type ConfigurationError struct{ PigDeviceError }

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{PigDeviceError{Message: fmt.Sprintf(format, args...)}}
}

func NewTransportError(message string, cause error) error {
	return &TransportError{PigDeviceError{Message: message, Cause: cause}}
}

func NewDecodeError(message string, cause error) error {
	return &DecodeError{PigDeviceError{Message: message, Cause: cause}}
}

func NewConfigurationError(message string) error {
	return &ConfigurationError{PigDeviceError{Message: message}}
}
