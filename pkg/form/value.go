package form

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindText
	KindNumber
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is one answer: text, number or boolean. The zero Value is null.
type Value struct {
	kind    ValueKind
	text    string
	number  float64
	boolean bool
}

// Null returns the explicit null sentinel.
func Null() Value { return Value{} }

// Text wraps a string answer.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number wraps a numeric answer.
func Number(f float64) Value { return Value{kind: KindNumber, number: f} }

// Bool wraps a boolean answer.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Kind reports the held variant.
func (v Value) Kind() ValueKind { return v.kind }

// AsText returns the text payload and whether the value holds text.
func (v Value) AsText() (string, bool) { return v.text, v.kind == KindText }

// AsNumber returns the numeric payload and whether the value holds a number.
func (v Value) AsNumber() (float64, bool) { return v.number, v.kind == KindNumber }

// AsBool returns the boolean payload and whether the value holds a boolean.
func (v Value) AsBool() (bool, bool) { return v.boolean, v.kind == KindBool }

// IsBlank reports whether the value counts as unanswered: null or empty text.
// false and 0 are answers.
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return v.text == ""
	default:
		return false
	}
}

// String renders the canonical text form used on the wire. Numbers use the
// shortest decimal that round-trips, so 5 becomes "5" and 1.5 stays "1.5".
// Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.boolean)
	default:
		return ""
	}
}

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

// MarshalJSON encodes the value as its native JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return json.Marshal(v.number)
	case KindBool:
		return json.Marshal(v.boolean)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, strings, numbers and booleans.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Null()
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = Text(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Bool(b)
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return fmt.Errorf("form: unsupported value %s", trimmed)
		}
		*v = Number(f)
	}
	return nil
}
