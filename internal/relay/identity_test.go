package relay

import (
	"encoding/json"
	"testing"
)

func TestResolveIdentity(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"absent", "", "conn-1"},
		{"null", "null", "conn-1"},
		{"plain string", `"alice"`, "alice"},
		{"empty string", `""`, "conn-1"},
		{"object uid", `{"uid":"bob"}`, "bob"},
		{"object userId", `{"userId":"carol"}`, "carol"},
		{"object id", `{"id":"dave"}`, "dave"},
		{"uid wins over userId", `{"userId":"carol","uid":"bob"}`, "bob"},
		{"numeric uid stringified", `{"uid":42}`, "42"},
		{"empty uid falls through to id", `{"uid":"","id":"dave"}`, "dave"},
		{"object without identity keys", `{"name":"eve"}`, "conn-1"},
		{"number", `7`, "7"},
		{"bool", `true`, "true"},
		{"array stringified", `[1,2]`, "[1,2]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveIdentity(json.RawMessage(tc.raw), "conn-1")
			if got != tc.want {
				t.Fatalf("resolveIdentity(%s) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeRoom(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"lobby"`, "lobby"},
		{`"  lobby  "`, "lobby"},
		{`"   "`, ""},
		{`""`, ""},
		{`null`, ""},
		{``, ""},
		{`123`, "123"},
	}

	for _, tc := range cases {
		if got := normalizeRoom(json.RawMessage(tc.raw)); got != tc.want {
			t.Fatalf("normalizeRoom(%s) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
