// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FromJSON re-encodes a JSON document as deterministic CBOR.
func FromJSON(data []byte) ([]byte, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	converted, err := convertNumbers(value)
	if err != nil {
		return nil, err
	}
	encoded, err := Marshal(converted)
	if err != nil {
		return nil, fmt.Errorf("encoding CBOR: %w", err)
	}
	return encoded, nil
}

// ToJSON decodes a CBOR document and re-encodes it as compact JSON.
// Map keys must be strings.
func ToJSON(data []byte) ([]byte, error) {
	var value any
	if err := Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decoding CBOR: %w", err)
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return encoded, nil
}

// convertNumbers recursively walks a JSON-decoded value and converts
// json.Number to int64, uint64, or float64. Without this the CBOR
// encoder would write numbers as text strings.
func convertNumbers(v any) (any, error) {
	switch value := v.(type) {
	case json.Number:
		if integer, err := value.Int64(); err == nil {
			return integer, nil
		}
		if unsigned, err := strconv.ParseUint(value.String(), 10, 64); err == nil {
			return unsigned, nil
		}
		if float, err := value.Float64(); err == nil {
			return float, nil
		}
		return nil, fmt.Errorf("number %q does not fit in 64 bits", value.String())

	case map[string]any:
		for key, element := range value {
			converted, err := convertNumbers(element)
			if err != nil {
				return nil, err
			}
			value[key] = converted
		}
		return value, nil

	case []any:
		for index, element := range value {
			converted, err := convertNumbers(element)
			if err != nil {
				return nil, err
			}
			value[index] = converted
		}
		return value, nil

	default:
		return v, nil
	}
}
