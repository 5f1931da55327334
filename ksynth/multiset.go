package ksynth

import (
	"fmt"
	"slices"
	"strings"

	"github.com/birdayz/kgraph/katom"
)

// Multiset counts values per kind. Absent kinds count as zero.
type Multiset map[katom.Kind]uint32

// MultisetOf counts the kinds in kinds.
func MultisetOf(kinds []katom.Kind) Multiset {
	m := make(Multiset, len(kinds))
	for _, k := range kinds {
		m[k]++
	}
	return m
}

// Contains reports whether haystack holds at least as many values of every
// kind as needle.
func Contains(haystack, needle Multiset) bool {
	for kind, n := range needle {
		if n > haystack[kind] {
			return false
		}
	}
	return true
}

// Contains is Contains(m, needle).
func (m Multiset) Contains(needle Multiset) bool {
	return Contains(m, needle)
}

// Balanced reports whether every count is zero, i.e. everything produced has
// been consumed.
func (m Multiset) Balanced() bool {
	for _, n := range m {
		if n != 0 {
			return false
		}
	}
	return true
}

func (m Multiset) Clone() Multiset {
	cp := make(Multiset, len(m))
	for k, n := range m {
		cp[k] = n
	}
	return cp
}

// Apply returns m with consumed removed and produced added. It panics when m
// does not contain consumed; callers check Contains first.
func (m Multiset) Apply(consumed, produced Multiset) Multiset {
	if !Contains(m, consumed) {
		panic(fmt.Sprintf("ksynth: %s does not contain %s", m, consumed))
	}
	next := m.Clone()
	for k, n := range consumed {
		next[k] -= n
	}
	for k, n := range produced {
		next[k] += n
	}
	return next
}

// String renders the multiset sorted by kind, e.g. "{usize:1, entity:0}".
func (m Multiset) String() string {
	kinds := make([]katom.Kind, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s:%d", k, m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
