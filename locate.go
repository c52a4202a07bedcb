package bilinear

import "math"

const (
	// minStep is the smallest usable node spacing; anything at or below it
	// leaves the axis undefined.
	minStep = 2.220446049250313e-16 // float64 machine epsilon

	// snapTolerance is the distance, in cells, within which a grid ratio is
	// treated as lying exactly on a node. origin+step*i is rounded, so the
	// ratio recovered from a node coordinate can be off by a few ulps.
	snapTolerance = 1e-9
)

// Bracket is the pair of node indices enclosing a coordinate on one axis.
// T is the normalized position between them: 0 at Lo, approaching 1 at Hi.
// When the coordinate falls exactly on a node, Lo == Hi and T == 0.
type Bracket struct {
	Lo, Hi int
	T      float64
}

// Locate finds the bracket for coordinate v on an axis with n nodes starting
// at origin and spaced by step.
//
// Both end nodes are inside coverage. ok is false when v lies outside
// [origin, origin+step*(n-1)], when step is not a finite value above machine
// epsilon, or when any input is NaN.
func Locate(v, origin, step float64, n int) (b Bracket, ok bool) {
	if n < 1 || !(step > minStep) || math.IsInf(step, 0) {
		return Bracket{}, false
	}
	r := (v - origin) / step
	if k := math.Round(r); math.Abs(r-k) <= snapTolerance {
		r = k
	}
	last := float64(n - 1)
	// the negated comparison also rejects NaN
	if !(r >= 0 && r <= last) {
		return Bracket{}, false
	}
	if r == last {
		return Bracket{Lo: n - 1, Hi: n - 1}, true
	}

	lo := int(math.Floor(r))
	t := r - float64(lo)
	if t == 0 {
		return Bracket{Lo: lo, Hi: lo}, true
	}
	return Bracket{Lo: lo, Hi: min(lo+1, n-1), T: t}, true
}
