package models

import "time"

// -----------------------------------------------------------------------------
// Device State (authoritative in-memory record, one per device)
// -----------------------------------------------------------------------------

type MDeviceState struct {
	DeviceID    string    `json:"deviceId"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// -----------------------------------------------------------------------------
// Push payload sent to watching clients ("device-state" event)
// -----------------------------------------------------------------------------

type MStatePush struct {
	Event           string    `json:"event"`
	DeviceID        string    `json:"deviceId"`
	AmountCents     int64     `json:"amountCents"`
	Currency        string    `json:"currency"`
	AmountFormatted string    `json:"amountFormatted"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Clock           string    `json:"clock"`
}
