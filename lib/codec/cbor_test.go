// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
)

type sampleRecord struct {
	Nonce uint64 `json:"nonce"`
	Hash  string `json:"hash"`
	Note  string `json:"note,omitempty"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{Nonce: 1 << 63, Hash: "00ab"}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalUsesJSONTags(t *testing.T) {
	data, err := Marshal(sampleRecord{Nonce: 1, Hash: "x"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var generic map[string]any
	if err := Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := generic["nonce"]; !ok {
		t.Errorf("decoded keys %v, want json tag names", generic)
	}
	if _, ok := generic["note"]; ok {
		t.Error("omitempty field was encoded")
	}
}

func TestFromJSONDeterministic(t *testing.T) {
	compact := []byte(`{"b":[1,2.5,"x"],"a":{"nested":true,"n":null}}`)
	spaced := []byte("{\n  \"a\": {\"n\": null, \"nested\": true},\n  \"b\": [1, 2.5, \"x\"]\n}")

	first, err := FromJSON(compact)
	if err != nil {
		t.Fatalf("FromJSON(compact): %v", err)
	}
	second, err := FromJSON(spaced)
	if err != nil {
		t.Fatalf("FromJSON(spaced): %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("equivalent JSON encoded differently: %x vs %x", first, second)
	}
	if !Wellformed(first) {
		t.Error("FromJSON output is not well-formed CBOR")
	}
}

func TestJSONRoundtripPreservesValues(t *testing.T) {
	tests := []string{
		`{"nonce":18446744073709551615,"hash":"ff"}`,
		`{"negative":-42,"float":0.125,"text":"héllo <b>"}`,
		`["a","b",[],{}]`,
		`"just a string"`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			encoded, err := FromJSON([]byte(input))
			if err != nil {
				t.Fatalf("FromJSON: %v", err)
			}
			output, err := ToJSON(encoded)
			if err != nil {
				t.Fatalf("ToJSON: %v", err)
			}

			var want, got any
			if err := json.Unmarshal([]byte(input), &want); err != nil {
				t.Fatal(err)
			}
			if err := json.Unmarshal(output, &got); err != nil {
				t.Fatalf("ToJSON produced invalid JSON %s: %v", output, err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("roundtrip = %s, want %s", output, input)
			}
		})
	}
}

func TestFromJSONRejectsOversizedNumbers(t *testing.T) {
	if _, err := FromJSON([]byte(`{"n":1e400}`)); err == nil {
		t.Error("FromJSON accepted a number outside float64 range")
	}
}

func TestFromJSONRejectsInvalid(t *testing.T) {
	if _, err := FromJSON([]byte(`{"open":`)); err == nil {
		t.Error("FromJSON accepted truncated JSON")
	}
}

func TestToJSONRejectsGarbage(t *testing.T) {
	if _, err := ToJSON([]byte{0xff, 0x00}); err == nil {
		t.Error("ToJSON accepted malformed CBOR")
	}
}
