package katom

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
)

// Kind is the discriminant of a Value. Kinds are compared for equality only;
// all type matching between ports and links is done on Kind.
type Kind uint16

// Built-in kinds. Embedders add their own with Define.
const (
	Invalid Kind = iota
	Entity
	Usize
	Int
	Float
	Bool

	firstCustom
)

var (
	ErrUnknownKind    = errors.New("unknown kind")
	ErrKindsExhausted = errors.New("kind range exhausted")
)

const invalidName = "invalid"

var registry = struct {
	sync.RWMutex
	names  []string
	byName map[string]Kind
}{
	names: []string{invalidName, "entity", "usize", "int", "float", "bool"},
	byName: map[string]Kind{
		"entity": Entity,
		"usize":  Usize,
		"int":    Int,
		"float":  Float,
		"bool":   Bool,
	},
}

// Define registers a new kind carrying a raw 64-bit payload. Defining a name
// twice returns the kind registered first.
//
// Define panics on an empty name, on the reserved name "invalid" and once all
// 65536 kind IDs are taken.
func Define(name string) Kind {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		panic("katom: kind name cannot be empty")
	}
	if key == invalidName {
		panic("katom: kind name \"invalid\" is reserved")
	}

	registry.Lock()
	defer registry.Unlock()

	if k, ok := registry.byName[key]; ok {
		return k
	}
	k, err := nextKind(len(registry.names))
	if err != nil {
		panic(fmt.Sprintf("katom: define %q: %v", key, err))
	}
	registry.names = append(registry.names, key)
	registry.byName[key] = k
	return k
}

// nextKind returns the ID for the n-th registered name.
func nextKind(n int) (Kind, error) {
	if n > math.MaxUint16 {
		return Invalid, fmt.Errorf("%w: %d kinds registered", ErrKindsExhausted, n)
	}
	return Kind(n), nil
}

// ParseKind resolves a kind by name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	registry.RLock()
	defer registry.RUnlock()

	if k, ok := registry.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Custom reports whether k was registered through Define.
func (k Kind) Custom() bool {
	return k >= firstCustom
}

// Numeric reports whether values of k support arithmetic.
func (k Kind) Numeric() bool {
	switch k {
	case Entity, Usize, Int, Float:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	registry.RLock()
	defer registry.RUnlock()

	if int(k) < len(registry.names) {
		return registry.names[k]
	}
	return fmt.Sprintf("kind(%d)", uint16(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
