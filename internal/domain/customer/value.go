package customer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/churn/internal/domain"
)

// Kind is the type tag of a field value.
type Kind int

// Value kinds.
const (
	String Kind = iota + 1
	Integer
	Float
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	default:
		return "unknown"
	}
}

// Value is a single customer attribute: a string, an integer or a float.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// StringValue creates a categorical value.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// IntegerValue creates an integer value.
func IntegerValue(i int64) Value { return Value{kind: Integer, num: float64(i)} }

// FloatValue creates a floating-point value.
func FloatValue(f float64) Value { return Value{kind: Float, num: f} }

// Kind returns the value type tag.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload. Empty for numeric values.
func (v Value) Str() string { return v.str }

// Number returns the numeric payload. Zero for string values.
func (v Value) Number() float64 { return v.num }

// IsNumeric reports whether the value is an integer or a float.
func (v Value) IsNumeric() bool { return v.kind == Integer || v.kind == Float }

func (v Value) String() string {
	switch v.kind {
	case String:
		return strconv.Quote(v.str)
	case Integer:
		return strconv.FormatInt(int64(v.num), 10)
	case Float:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	default:
		return "<invalid>"
	}
}

// parseValue converts one raw JSON value into a Value.
// Booleans become integers 1/0; null, objects and arrays are rejected.
func parseValue(raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Value{}, fmt.Errorf("%w: empty value", domain.ErrMalformedRecord)
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, fmt.Errorf("%w: %w", domain.ErrMalformedRecord, err)
		}
		return StringValue(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, fmt.Errorf("%w: %w", domain.ErrMalformedRecord, err)
		}
		if b {
			return IntegerValue(1), nil
		}
		return IntegerValue(0), nil
	case 'n':
		return Value{}, fmt.Errorf("%w: null value", domain.ErrMalformedRecord)
	case '{', '[':
		return Value{}, fmt.Errorf("%w: nested value", domain.ErrMalformedRecord)
	}

	return parseNumber(string(raw))
}

func parseNumber(s string) (Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntegerValue(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: invalid number %q", domain.ErrMalformedRecord, s)
	}
	return FloatValue(f), nil
}
