// Package layout partitions a bounded area into named slots arranged in
// rows, resolving each slot's size from its sizing policy and assigning
// the result to the occupying widget. It has no opinion about rendering;
// it only writes geometry.
package layout

import "math"

// Kind identifies a dimension's sizing policy.
type Kind int

const (
	// KindAuto is computed once per Apply by the distribution pass.
	KindAuto Kind = iota
	// KindStatic is a fixed cell count, immutable after construction.
	KindStatic
	// KindRelative is floor(bound*scale), recomputed on every read.
	KindRelative
)

// Dimension is one axis of a slot's size.
type Dimension struct {
	kind  Kind
	value int
	scale float64
	bound func() int
}

// Auto returns a dimension resolved by the distribution algorithm.
func Auto() Dimension {
	return Dimension{kind: KindAuto}
}

// Cells returns a static dimension of n cells.
func Cells(n int) Dimension {
	if n < 0 {
		n = 0
	}
	return Dimension{kind: KindStatic, value: n}
}

// Fraction returns a dimension bound to a share of an authority axis.
// The bound is attached when the slot joins a layout.
func Fraction(scale float64) Dimension {
	return Dimension{kind: KindRelative, scale: scale}
}

// Kind reports the sizing policy.
func (d Dimension) Kind() Kind { return d.kind }

// Value resolves the dimension. Relative dimensions re-read their bound;
// Auto dimensions report whatever the last Apply assigned.
func (d Dimension) Value() int {
	if d.kind == KindRelative {
		if d.bound == nil {
			return 0
		}
		v := int(math.Floor(float64(d.bound()) * d.scale))
		if v < 0 {
			return 0
		}
		return v
	}
	return d.value
}

// set assigns a resolved value. Only the distribution pass calls this,
// and only for Auto dimensions; Static and Relative are not settable.
func (d *Dimension) set(v int) bool {
	if d.kind != KindAuto {
		return false
	}
	if v < 0 {
		v = 0
	}
	d.value = v
	return true
}

// attach binds a relative dimension to its authority axis.
func (d *Dimension) attach(bound func() int) {
	if d.kind == KindRelative {
		d.bound = bound
	}
}
