package transport

import (
	"encoding/json"
	"fmt"
)

// Frame is the wire envelope for every message in both directions: a named
// event plus an arbitrary JSON payload.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func newFrame(event string, payload any) (*Frame, error) {
	if payload == nil {
		return &Frame{Event: event}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("transport: marshal %q payload: %w", event, err)
	}
	return &Frame{Event: event, Data: data}, nil
}

func decodeFrame(raw []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("transport: decode frame: %w", err)
	}
	if f.Event == "" {
		return nil, fmt.Errorf("transport: frame missing event name")
	}
	return &f, nil
}
