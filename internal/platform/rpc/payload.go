package rpc

import "encoding/json"

// StringValue decodes a JSON string or number into its textual form. Numeric
// ids are common in payloads produced by JavaScript callers.
func StringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// Field returns the first of keys present in a JSON object payload as text.
func Field(obj map[string]json.RawMessage, keys ...string) (string, bool) {
	for _, k := range keys {
		if raw, ok := obj[k]; ok {
			if s, ok := StringValue(raw); ok {
				return s, true
			}
		}
	}
	return "", false
}
