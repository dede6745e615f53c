package transport

import (
	"testing"
)

func TestDecodeFrame(t *testing.T) {
	frame, err := decodeFrame([]byte(`{"event":"joinRoom","data":{"room":"lobby"}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if frame.Event != "joinRoom" {
		t.Fatalf("unexpected event %q", frame.Event)
	}
	if string(frame.Data) != `{"room":"lobby"}` {
		t.Fatalf("unexpected data %s", frame.Data)
	}
}

func TestDecodeFrameWithoutData(t *testing.T) {
	frame, err := decodeFrame([]byte(`{"event":"leaveRoom"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(frame.Data) != 0 {
		t.Fatalf("expected empty data, got %s", frame.Data)
	}
}

func TestDecodeFrameRejectsGarbage(t *testing.T) {
	if _, err := decodeFrame([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if _, err := decodeFrame([]byte(`{"data":{}}`)); err == nil {
		t.Fatal("expected error for missing event name")
	}
}

func TestNewFrameMarshalsPayload(t *testing.T) {
	frame, err := newFrame("usersOnline", []string{"a", "b"})
	if err != nil {
		t.Fatalf("newFrame failed: %v", err)
	}
	if string(frame.Data) != `["a","b"]` {
		t.Fatalf("unexpected data %s", frame.Data)
	}

	frame, err = newFrame("ping", nil)
	if err != nil || frame.Data != nil {
		t.Fatalf("nil payload should produce empty data, got %s err=%v", frame.Data, err)
	}
}

func TestNewFrameRejectsUnmarshalablePayload(t *testing.T) {
	if _, err := newFrame("bad", func() {}); err == nil {
		t.Fatal("expected error for unmarshalable payload")
	}
}
