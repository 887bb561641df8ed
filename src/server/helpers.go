package server

import "encoding/json"

// -----------------------------------------------------------------------------

// safeCents returns the field as minor units if present and numeric, nil
// otherwise. Request bodies arrive via encoding/json, which hands numbers
// over as float64.
func safeCents(data map[string]interface{}, key string) *int64 {
	val, ok := data[key]
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

func safeString(data map[string]interface{}, key string) *string {
	if val, ok := data[key]; ok {
		if s, ok := val.(string); ok && s != "" {
			return &s
		}
	}
	return nil
}
