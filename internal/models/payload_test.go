package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func decodePayload(t *testing.T, raw string) any {
	t.Helper()
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("failed to decode payload %q: %v", raw, err)
	}
	return payload
}

func TestExtractValue(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    float64
		ok      bool
	}{
		{"bare float", `85.5`, 85.5, true},
		{"bare integer", `42`, 42, true},
		{"negative number", `-3.25`, -3.25, true},
		{"wrapped number", `{"value": 85.5}`, 85.5, true},
		{"wrapped integer", `{"value": 17}`, 17, true},
		{"wrapped string", `{"value": "x"}`, 0, false},
		{"object without value field", `{"other": 12.5}`, 0, false},
		{"string", `"not a number"`, 0, false},
		{"boolean", `true`, 0, false},
		{"null", `null`, 0, false},
		{"array", `[1, 2, 3]`, 0, false},
		{"empty object", `{}`, 0, false},
		{"nested too deep", `{"value": {"value": 5}}`, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractValue(decodePayload(t, tc.payload))
			if ok != tc.ok {
				t.Fatalf("ExtractValue(%s): ok = %v, want %v", tc.payload, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("ExtractValue(%s) = %v, want %v", tc.payload, got, tc.want)
			}
		})
	}
}

func TestClassifyPayloadKinds(t *testing.T) {
	if _, kind := ClassifyPayload(decodePayload(t, `55.0`)); kind != PayloadNumber {
		t.Errorf("bare number classified as %v, want PayloadNumber", kind)
	}
	if _, kind := ClassifyPayload(decodePayload(t, `{"value": 55.0}`)); kind != PayloadWrapped {
		t.Errorf("wrapped number classified as %v, want PayloadWrapped", kind)
	}
	if _, kind := ClassifyPayload(decodePayload(t, `"text"`)); kind != PayloadInvalid {
		t.Errorf("string classified as %v, want PayloadInvalid", kind)
	}
}

func TestClassifyPayloadJSONNumber(t *testing.T) {
	// decoder с UseNumber выдает json.Number вместо float64
	dec := json.NewDecoder(strings.NewReader(`{"value": 90.5}`))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	got, ok := ExtractValue(payload)
	if !ok || got != 90.5 {
		t.Fatalf("ExtractValue = (%v, %v), want (90.5, true)", got, ok)
	}
}
