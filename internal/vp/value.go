// internal/vp/value.go
package vp

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the wire type of a VP slot.
type Type uint8

const (
	// Invalid is the zero Type. A Value of this type carries nothing.
	Invalid Type = iota
	Str
	UInt8
	UInt16
)

func (t Type) String() string {
	switch t {
	case Str:
		return "str"
	case UInt8:
		return "uint8"
	case UInt16:
		return "uint16"
	default:
		return "invalid"
	}
}

// ParseType accepts the names used in schema files.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "str", "string", "text":
		return Str, nil
	case "uint8", "u8":
		return UInt8, nil
	case "uint16", "u16":
		return UInt16, nil
	default:
		return Invalid, fmt.Errorf("vp: unknown type %q", s)
	}
}

// Value is one typed VP value. The zero Value means "no value".
type Value struct {
	kind Type
	text string
	num  uint16
}

// Text builds a string value. No width is applied here.
func Text(s string) Value {
	return Value{kind: Str, text: s}
}

// Uint builds an integer value of the given integer type.
func Uint(t Type, n uint16) Value {
	return Value{kind: t, num: n}
}

func (v Value) Kind() Type { return v.kind }

// Valid reports whether v carries a value.
func (v Value) Valid() bool { return v.kind != Invalid }

func (v Value) Text() string { return v.text }

func (v Value) Uint() uint16 { return v.num }

// Any returns the value as a plain Go value (string or int), nil when absent.
func (v Value) Any() any {
	switch v.kind {
	case Str:
		return v.text
	case UInt8, UInt16:
		return int(v.num)
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case Str:
		return strconv.Quote(v.text)
	case UInt8, UInt16:
		return strconv.Itoa(int(v.num))
	default:
		return "<none>"
	}
}

// maxFor is the largest integer a slot of width bytes can hold.
func maxFor(width uint8) int64 {
	return int64(1)<<(8*uint(width)) - 1
}

// integral reports whether raw is a Go integer kind and returns it widened.
// Floats are rejected even when they hold a whole number.
func integral(raw any) (int64, bool) {
	switch n := raw.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > 1<<62 {
			return 1 << 62, true
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > 1<<62 {
			return 1 << 62, true
		}
		return int64(n), true
	case Value:
		if n.kind == UInt8 || n.kind == UInt16 {
			return int64(n.num), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// coerce validates raw against d and returns the value to store.
// Strings are truncated to the slot width; integers are range-checked.
func coerce(d Descriptor, raw any) (Value, error) {
	switch d.Type {
	case Str:
		var s string
		switch t := raw.(type) {
		case string:
			s = t
		case Value:
			if t.kind != Str {
				return Value{}, fmt.Errorf("%w: %s requires a string, got %s", ErrTypeMismatch, d.Name, t.kind)
			}
			s = t.text
		default:
			return Value{}, fmt.Errorf("%w: %s requires a string, got %T", ErrTypeMismatch, d.Name, raw)
		}
		if i := nonASCII(s); i >= 0 {
			return Value{}, fmt.Errorf("%w: %s accepts ASCII only, byte %d is 0x%02X", ErrTypeMismatch, d.Name, i, s[i])
		}
		if len(s) > int(d.Width) {
			s = s[:d.Width]
		}
		return Text(s), nil

	case UInt8, UInt16:
		n, ok := integral(raw)
		if !ok {
			return Value{}, fmt.Errorf("%w: %s requires an integer, got %T", ErrTypeMismatch, d.Name, raw)
		}
		limit := maxFor(d.Width)
		if n < 0 || n > limit {
			return Value{}, fmt.Errorf("%w: %s value %d outside 0-%d", ErrOutOfRange, d.Name, n, limit)
		}
		return Uint(d.Type, uint16(n)), nil

	default:
		return Value{}, fmt.Errorf("%w: %s has no usable type", ErrTypeMismatch, d.Name)
	}
}

// nonASCII returns the index of the first byte above 0x7F, or -1.
func nonASCII(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return i
		}
	}
	return -1
}

// ValueOf converts a plain decoded value (config, saved state) into a Value
// of kind t. A nil raw gives the zero Value. The width check happens when
// the value meets its descriptor.
func ValueOf(t Type, raw any) (Value, error) {
	if raw == nil {
		return Value{}, nil
	}
	switch t {
	case Str:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: want a string, got %T", ErrTypeMismatch, raw)
		}
		return Text(s), nil
	case UInt8, UInt16:
		n, ok := integral(raw)
		if !ok {
			return Value{}, fmt.Errorf("%w: want an integer, got %T", ErrTypeMismatch, raw)
		}
		if n < 0 || n > 0xFFFF {
			return Value{}, fmt.Errorf("%w: %d", ErrOutOfRange, n)
		}
		return Uint(t, uint16(n)), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %s", ErrTypeMismatch, t)
	}
}
