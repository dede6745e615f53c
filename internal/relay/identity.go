package relay

import (
	"bytes"
	"encoding/json"
	"strings"
)

// resolveIdentity maps the joinRoom identity payload to a user ID. The wire
// allows three shapes, matched in priority order: a plain string, an object
// carrying one of uid/userId/id, or anything else stringified. The single
// fallback for every unresolvable shape is the connection ID.
func resolveIdentity(raw json.RawMessage, connID string) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return connID
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if s == "" {
			return connID
		}
		return s
	}

	if trimmed[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			for _, key := range []string{"uid", "userId", "id"} {
				if v, ok := obj[key]; ok {
					if id := rawString(v); id != "" {
						return id
					}
				}
			}
			return connID
		}
	}

	if id := rawString(trimmed); id != "" {
		return id
	}
	return connID
}

// normalizeRoom coerces a room value of any JSON type to a trimmed string.
// Empty means "no room": the event carrying it is ignored.
func normalizeRoom(raw json.RawMessage) string {
	return strings.TrimSpace(rawString(raw))
}

// rawString stringifies a raw JSON value: strings decode, null and absence
// become empty, everything else renders as compact JSON text.
func rawString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return ""
	}
	return buf.String()
}
