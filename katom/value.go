// Package katom defines the values exchanged between graph nodes.
//
// A Value is a small tagged payload. Its Kind is the only thing the wiring
// layer looks at: links, ports and synthesis compare kinds, never payloads.
package katom

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidValue = errors.New("invalid value")

// Value is an immutable tagged payload. It is cheap to copy and should be
// passed by value.
type Value struct {
	kind Kind
	bits uint64
}

func EntityValue(v uint8) Value { return Value{kind: Entity, bits: uint64(v)} }

func UsizeValue(v uint64) Value { return Value{kind: Usize, bits: v} }

func IntValue(v int64) Value { return Value{kind: Int, bits: uint64(v)} }

func FloatValue(v float64) Value { return Value{kind: Float, bits: math.Float64bits(v)} }

func BoolValue(v bool) Value {
	if v {
		return Value{kind: Bool, bits: 1}
	}
	return Value{kind: Bool}
}

// Raw builds a value of a custom kind. It panics when used with a built-in
// kind, whose payload layout is owned by this package.
func Raw(kind Kind, bits uint64) Value {
	if !kind.Custom() {
		panic(fmt.Sprintf("katom: Raw used with built-in kind %s", kind))
	}
	return Value{kind: kind, bits: bits}
}

// Kind returns the discriminant of v.
func (v Value) Kind() Kind { return v.kind }

// Valid reports whether v carries a payload. The zero Value is invalid.
func (v Value) Valid() bool { return v.kind != Invalid }

func (v Value) Entity() (uint8, bool) { return uint8(v.bits), v.kind == Entity }

func (v Value) Usize() (uint64, bool) { return v.bits, v.kind == Usize }

func (v Value) Int() (int64, bool) { return int64(v.bits), v.kind == Int }

func (v Value) Float() (float64, bool) { return math.Float64frombits(v.bits), v.kind == Float }

func (v Value) Bool() (bool, bool) { return v.bits != 0, v.kind == Bool }

// Bits returns the raw payload. Useful for custom kinds.
func (v Value) Bits() uint64 { return v.bits }

func (v Value) String() string {
	return v.kind.String() + ":" + v.payloadString()
}

func (v Value) payloadString() string {
	switch v.kind {
	case Entity, Usize:
		return strconv.FormatUint(v.bits, 10)
	case Int:
		return strconv.FormatInt(int64(v.bits), 10)
	case Float:
		return strconv.FormatFloat(math.Float64frombits(v.bits), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(v.bits != 0)
	default:
		return strconv.FormatUint(v.bits, 10)
	}
}

// ParseValue parses the "kind:payload" form produced by Value.String.
func ParseValue(s string) (Value, error) {
	name, payload, ok := strings.Cut(s, ":")
	if !ok {
		return Value{}, fmt.Errorf("%w: %q is not of the form kind:payload", ErrInvalidValue, s)
	}
	kind, err := ParseKind(name)
	if err != nil {
		return Value{}, err
	}

	payload = strings.TrimSpace(payload)
	switch kind {
	case Entity:
		n, err := strconv.ParseUint(payload, 10, 8)
		if err != nil {
			return Value{}, fmt.Errorf("%w: entity %q: %w", ErrInvalidValue, payload, err)
		}
		return EntityValue(uint8(n)), nil
	case Usize:
		n, err := strconv.ParseUint(payload, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: usize %q: %w", ErrInvalidValue, payload, err)
		}
		return UsizeValue(n), nil
	case Int:
		n, err := strconv.ParseInt(payload, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: int %q: %w", ErrInvalidValue, payload, err)
		}
		return IntValue(n), nil
	case Float:
		f, err := strconv.ParseFloat(payload, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: float %q: %w", ErrInvalidValue, payload, err)
		}
		return FloatValue(f), nil
	case Bool:
		b, err := strconv.ParseBool(payload)
		if err != nil {
			return Value{}, fmt.Errorf("%w: bool %q: %w", ErrInvalidValue, payload, err)
		}
		return BoolValue(b), nil
	case Invalid:
		return Value{}, fmt.Errorf("%w: kind %q", ErrInvalidValue, name)
	default:
		n, err := strconv.ParseUint(payload, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s %q: %w", ErrInvalidValue, kind, payload, err)
		}
		return Raw(kind, n), nil
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, ErrInvalidValue
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Value) UnmarshalText(text []byte) error {
	parsed, err := ParseValue(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
