package ifc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNoValue is returned by [Value.Float] when the value is absent.
	ErrNoValue = errors.New("no value")

	// ErrNotNumeric is returned by [Value.Float] when the raw text cannot be
	// read as a finite number.
	ErrNotNumeric = errors.New("not numeric")
)

// Value is a measure or nominal value as it appears in the source model.
// The zero value is an absent value.
type Value struct {
	raw   string
	valid bool
}

// Number returns a Value holding f.
func Number(f float64) Value {
	return Value{raw: strconv.FormatFloat(f, 'g', -1, 64), valid: true}
}

// Text returns a Value holding s verbatim.
func Text(s string) Value {
	return Value{raw: s, valid: true}
}

// IsZero reports whether the value is absent.
func (v Value) IsZero() bool { return !v.valid }

// String returns the raw text, or "" for an absent value.
func (v Value) String() string { return v.raw }

// Float coerces the value to a finite float64.
func (v Value) Float() (float64, error) {
	if !v.valid {
		return 0, ErrNoValue
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, v.raw)
	}
	return f, nil
}

// UnmarshalJSON accepts null, numbers, strings, and booleans.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Value{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = Text(string(data))
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("value must be a scalar, got %s", data)
	default:
		*v = Value{raw: string(data), valid: true}
	}
	return nil
}

// MarshalJSON writes numbers as JSON numbers and everything else as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	if f, err := v.Float(); err == nil {
		return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
	}
	return json.Marshal(v.raw)
}
