package telemetry

import (
	"encoding/json"
	"strings"

	"pigdevice/src/models"
)

// -----------------------------------------------------------------------------
// Topic Parsing
// -----------------------------------------------------------------------------

// DeviceIDFromTopic extracts the device identifier from a balance topic of
// the form "<prefix>/<deviceId>/state". The identifier is the second-to-last
// segment. Returns false for topics too short to carry one.
func DeviceIDFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 {
		return "", false
	}
	deviceID := parts[len(parts)-2]
	if deviceID == "" || deviceID == "+" {
		return "", false
	}
	return deviceID, true
}

// -----------------------------------------------------------------------------
// Payload Decoding
// -----------------------------------------------------------------------------

// DecodeMutation parses a telemetry payload {amountCents?, deltaCents?,
// currency?} into a mutation command. Fields of the wrong type are dropped
// silently (a no-op for that field); only an unparseable body is an error.
func DecodeMutation(payload []byte) (models.MMutation, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return models.MMutation{}, err
	}

	return models.MMutation{
		AbsoluteCents: safeCentsField(fields, "amountCents"),
		DeltaCents:    safeCentsField(fields, "deltaCents"),
		Currency:      safeStringField(fields, "currency"),
	}, nil
}

// -----------------------------------------------------------------------------

// safeCentsField returns the field as minor units if it is numeric, nil
// otherwise. encoding/json hands numbers over as float64.
func safeCentsField(fields map[string]interface{}, key string) *int64 {
	val, ok := fields[key]
	if !ok {
		return nil
	}

	switch v := val.(type) {
	case float64:
		cents := int64(v)
		return &cents
	case int64:
		return &v
	case int:
		cents := int64(v)
		return &cents
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return &n
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func safeStringField(fields map[string]interface{}, key string) *string {
	if val, ok := fields[key]; ok {
		if s, ok := val.(string); ok && s != "" {
			return &s
		}
	}
	return nil
}
