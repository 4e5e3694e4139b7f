package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Int is a signed count that the API sometimes sends as a JSON string.
type Int int64

// UnmarshalJSON accepts 12 or "12". null leaves the value untouched.
func (n *Int) UnmarshalJSON(data []byte) error {
	raw, err := numericText(data)
	if err != nil || raw == "" {
		return err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("decode integer %s: %w", data, err)
	}
	*n = Int(v)
	return nil
}

// Uint is an unsigned count that the API sometimes sends as a JSON string.
type Uint uint64

// UnmarshalJSON accepts 12 or "12". null leaves the value untouched.
func (n *Uint) UnmarshalJSON(data []byte) error {
	raw, err := numericText(data)
	if err != nil || raw == "" {
		return err
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("decode unsigned integer %s: %w", data, err)
	}
	*n = Uint(v)
	return nil
}

func numericText(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] != '"' {
		return string(data), nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("decode number: empty string")
	}
	return s, nil
}

// IntValue returns the pointed-to value or zero.
func IntValue(n *Int) int64 {
	if n == nil {
		return 0
	}
	return int64(*n)
}

// UintValue returns the pointed-to value or zero.
func UintValue(n *Uint) uint64 {
	if n == nil {
		return 0
	}
	return uint64(*n)
}
