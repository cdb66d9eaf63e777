package interval

import (
	"fmt"
	"strconv"
)

// Range is a plain pair of closed bounds. It is used for queries and for
// the routing ranges of tree nodes.
type Range struct {
	Lo, Hi float64
}

// R is a shortcut for creating a Range.
func R(lo, hi float64) Range {
	return Range{Lo: lo, Hi: hi}
}

// Contains reports whether other lies within r, bounds included.
func (r Range) Contains(other Range) bool {
	return ContainsWithValues(r.Lo, r.Hi, other.Lo, other.Hi)
}

// Intersects reports whether r and other share at least one point.
func (r Range) Intersects(other Range) bool {
	return IntersectsWithValues(r.Lo, r.Hi, other.Lo, other.Hi)
}

// Equals reports whether both bounds are equal.
func (r Range) Equals(other Range) bool {
	return r.Lo == other.Lo && r.Hi == other.Hi
}

func (r Range) String() string {
	return "[" + fmtBound(r.Lo) + "," + fmtBound(r.Hi) + "]"
}

// ContainsWithValues reports whether [lo2,hi2] lies within [lo1,hi1].
func ContainsWithValues(lo1, hi1, lo2, hi2 float64) bool {
	return lo1 <= lo2 && hi2 <= hi1
}

// IntersectsWithValues reports whether the closed ranges [lo1,hi1] and
// [lo2,hi2] overlap.
func IntersectsWithValues(lo1, hi1, lo2, hi2 float64) bool {
	return lo1 <= hi2 && lo2 <= hi1
}

// Interval is an immutable closed interval. A fragment remembers the logical
// interval it has been cut from.
type Interval struct {
	rng      Range
	original *Interval // nil for non-fragments
}

// New creates an interval [lo, hi]. It panics if lo > hi.
func New(lo, hi float64) *Interval {
	if lo > hi {
		panic(fmt.Sprintf("interval: inverted bounds [%v,%v]", lo, hi))
	}
	return &Interval{rng: Range{Lo: lo, Hi: hi}}
}

// FromRange creates an interval from a range.
func FromRange(r Range) *Interval {
	return New(r.Lo, r.Hi)
}

// Lo returns the lower bound.
func (iv *Interval) Lo() float64 { return iv.rng.Lo }

// Hi returns the upper bound.
func (iv *Interval) Hi() float64 { return iv.rng.Hi }

// Range returns the bounds of iv.
func (iv *Interval) Range() Range { return iv.rng }

// Original returns the logical interval iv is a fragment of, or iv itself.
func (iv *Interval) Original() *Interval {
	if iv.original == nil {
		return iv
	}
	return iv.original
}

// IsFragment is true for compound intervals, i.e. for intervals whose
// original differs from themselves.
func (iv *Interval) IsFragment() bool {
	return iv.original != nil && iv.original != iv
}

// Contains reports whether other lies within iv.
func (iv *Interval) Contains(other *Interval) bool {
	return iv.rng.Contains(other.rng)
}

// Intersects reports whether iv and other overlap.
func (iv *Interval) Intersects(other *Interval) bool {
	return iv.rng.Intersects(other.rng)
}

// Equals compares bounds only. Use pointer comparison for identity.
func (iv *Interval) Equals(other *Interval) bool {
	if other == nil {
		return false
	}
	return iv.rng.Equals(other.rng)
}

func (iv *Interval) String() string {
	if iv == nil {
		return "[]"
	}
	if iv.IsFragment() {
		return iv.rng.String() + "⊂" + iv.original.rng.String()
	}
	return iv.rng.String()
}

// Fragment cuts iv at point at into a left part [Lo,at] and a right part
// [at,Hi]. Both parts refer to the logical original of iv; cutting a
// fragment again does not nest originals. ok is false if at does not lie
// strictly inside iv, in which case iv is not cut.
func Fragment(iv *Interval, at float64) (left, right *Interval, ok bool) {
	if !(iv.rng.Lo < at && at < iv.rng.Hi) {
		return nil, nil, false
	}
	orig := iv.Original()
	left = &Interval{rng: Range{Lo: iv.rng.Lo, Hi: at}, original: orig}
	right = &Interval{rng: Range{Lo: at, Hi: iv.rng.Hi}, original: orig}
	tracer().Debugf("fragment %s at %v", iv, at)
	return left, right, true
}

func fmtBound(b float64) string {
	return strconv.FormatFloat(b, 'g', -1, 64)
}
