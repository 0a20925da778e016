// Package logic implements the four-valued signal domain used throughout the
// simulator, together with the word-level arithmetic built on top of it.
package logic

// A Value is one level of the four-valued signal domain.
type Value uint8

// The four signal levels. Low and High are the determined levels. Unknown
// marks a signal that could resolve either way. HiZ marks a signal that no
// source currently drives.
const (
	Low Value = iota
	High
	HiZ
	Unknown
)

// FromBool converts a Go boolean to a determined Value.
func FromBool(b bool) Value {
	if b {
		return High
	}
	return Low
}

// Determined returns true if the value is Low or High.
func (v Value) Determined() bool {
	return v == Low || v == High
}

// Bool returns the boolean reading of a determined value. The second return
// value is false for Unknown and HiZ.
func (v Value) Bool() (bool, bool) {
	switch v {
	case Low:
		return false, true
	case High:
		return true, true
	}
	return false, false
}

// Not inverts a determined value. An indeterminate input yields Unknown.
func (v Value) Not() Value {
	switch v {
	case Low:
		return High
	case High:
		return Low
	}
	return Unknown
}

// And combines two values. A Low operand decides the result on its own, so it
// wins over an indeterminate one. Two determined operands give the exact
// conjunction. Everything else is Unknown.
func And(a, b Value) Value {
	if a == Low || b == Low {
		return Low
	}
	if a == High && b == High {
		return High
	}
	return Unknown
}

// Or combines two values. A High operand decides the result on its own.
func Or(a, b Value) Value {
	if a == High || b == High {
		return High
	}
	if a == Low && b == Low {
		return Low
	}
	return Unknown
}

// Xor combines two values. No single operand can decide an exclusive or, so
// any indeterminate operand makes the result Unknown.
func Xor(a, b Value) Value {
	if !a.Determined() || !b.Determined() {
		return Unknown
	}
	return FromBool(a != b)
}

// Combine resolves two values driving the same point, wire-OR style. A driven
// level wins over HiZ. Conflicting driven levels resolve to Unknown.
func Combine(cur, next Value) Value {
	switch {
	case cur == next:
		return cur
	case cur == Unknown || next == Unknown:
		return Unknown
	case cur == HiZ:
		return next
	case next == HiZ:
		return cur
	}
	return Unknown
}

// Rune returns the single-character rendering of the value.
func (v Value) Rune() rune {
	switch v {
	case Low:
		return '0'
	case High:
		return '1'
	case HiZ:
		return 'z'
	}
	return 'x'
}

func (v Value) String() string {
	return string(v.Rune())
}

// ParseValue converts a single-character rendering back to a Value.
func ParseValue(s string) (Value, bool) {
	switch s {
	case "0":
		return Low, true
	case "1":
		return High, true
	case "z":
		return HiZ, true
	case "x":
		return Unknown, true
	}
	return Unknown, false
}

// MarshalJSON encodes the value as its single-character rendering.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// UnmarshalJSON decodes a value from its single-character rendering.
func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) != 3 || data[0] != '"' || data[2] != '"' {
		return errMalformedValue(string(data))
	}

	parsed, ok := ParseValue(string(data[1]))
	if !ok {
		return errMalformedValue(string(data))
	}

	*v = parsed
	return nil
}

type errMalformedValue string

func (e errMalformedValue) Error() string {
	return "malformed logic value " + string(e)
}
