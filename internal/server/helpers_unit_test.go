package server

import (
	"encoding/json"
	"testing"
)

func TestToString(t *testing.T) {
	cases := []struct {
		input any
		want  string
	}{
		{"text", "text"},
		{json.Number("42"), "42"},
		{float64(3.5), "3.5"},
		{true, "true"},
		{nil, ""},
		{[]string{"no"}, ""},
	}
	for _, tc := range cases {
		if got := toString(tc.input); got != tc.want {
			t.Fatalf("toString(%v) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseJSONStringMap(t *testing.T) {
	parsed := parseJSONStringMap([]byte(`{"a":1,"b":"x"}`))
	if parsed["b"] != "x" {
		t.Fatalf("unexpected map %v", parsed)
	}

	for _, raw := range [][]byte{nil, []byte(""), []byte("not json"), []byte("null")} {
		parsed = parseJSONStringMap(raw)
		if parsed == nil || len(parsed) != 0 {
			t.Fatalf("input %q: expected empty map, got %v", raw, parsed)
		}
	}
}

func TestTruncateForLog(t *testing.T) {
	if got := truncateForLog("  short  ", 100); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := truncateForLog("abcdefgh", 4); got != "abcd...(truncated)" {
		t.Fatalf("unexpected %q", got)
	}
	if got := truncateForLog("abcdefgh", 0); got != "abcdefgh" {
		t.Fatalf("unexpected %q", got)
	}
}
