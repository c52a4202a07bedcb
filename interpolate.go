package bilinear

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
)

// Evaluate estimates the field at (x, y) from the four surrounding nodes.
// ok is false when the point is outside the grid's coverage, or when the
// grid's step on either axis is unusable.
func (g *Grid[F]) Evaluate(x, y float64) (v F, ok bool) {
	bx, ok := Locate(x, g.origin.X, g.step.X, g.nx)
	if !ok {
		return 0, false
	}
	by, ok := Locate(y, g.origin.Y, g.step.Y, g.ny)
	if !ok {
		return 0, false
	}

	lo := by.Lo * g.nx
	hi := by.Hi * g.nx
	f11 := float64(g.vals[lo+bx.Lo])
	f12 := float64(g.vals[hi+bx.Lo])
	f21 := float64(g.vals[lo+bx.Hi])
	f22 := float64(g.vals[hi+bx.Hi])
	return F(Blend(f11, f12, f21, f22, bx.T, by.T)), true
}

// EvaluateCoord is Evaluate for a model2d.Coord.
func (g *Grid[F]) EvaluateCoord(c model2d.Coord) (F, bool) {
	return g.Evaluate(c.X, c.Y)
}

// EvaluateOrNaN is Evaluate with math.NaN() standing in for a point outside
// coverage.
func (g *Grid[F]) EvaluateOrNaN(x, y float64) float64 {
	v, ok := g.Evaluate(x, y)
	if !ok {
		return math.NaN()
	}
	return float64(v)
}

// Blend combines four corner values with normalized offsets tx, ty.
// The first digit of each corner names the x side (1 = low, 2 = high) and the
// second digit the y side. tx == 0 or ty == 0 reproduces the low edge exactly.
func Blend(f11, f12, f21, f22, tx, ty float64) float64 {
	fLow := f11 + tx*(f21-f11)
	fHigh := f12 + tx*(f22-f12)
	return fLow + ty*(fHigh-fLow)
}
