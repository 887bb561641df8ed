package models

// -----------------------------------------------------------------------------
// MJoinCommand for client messages on the live-update channel
// -----------------------------------------------------------------------------

type MJoinCommand struct {
	Event    string `json:"event"`
	DeviceID string `json:"deviceId"`
}

// -----------------------------------------------------------------------------
// MPublishRequest for the outbound telemetry publish endpoint
// -----------------------------------------------------------------------------

type MPublishRequest struct {
	Topic   string                 `json:"topic"`
	Payload map[string]interface{} `json:"payload"`
}
