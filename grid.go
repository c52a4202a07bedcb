// Package bilinear interpolates a scalar field sampled on a regular 2D grid.
//
// A Grid stores one value per node in a flat row-major slice and answers
// point queries anywhere inside the rectangle its nodes cover.
package bilinear

import (
	"errors"
	"fmt"
	"math"

	"github.com/unixpickle/model3d/model2d"
	"golang.org/x/exp/constraints"
)

var (
	// ErrInvalidDims is returned when a grid would have no nodes along an
	// axis, or more nodes than an int can index.
	ErrInvalidDims = errors.New("bilinear: invalid grid dimensions")

	// ErrInvalidOrigin is returned for a NaN or infinite origin.
	ErrInvalidOrigin = errors.New("bilinear: invalid grid origin")
)

// Grid holds node values for a regular lattice whose node (ix, iy) sits at
// Origin + Step*(ix, iy).
// Values are stored row-major: vals[iy*nx + ix].
//
// A Grid is not safe for concurrent Insert and Evaluate calls. Populate it
// first, then query it from as many goroutines as needed.
type Grid[F constraints.Float] struct {
	origin model2d.Coord
	step   model2d.Coord
	nx, ny int
	vals   []F
}

// New creates a zero-filled grid with nx*ny nodes.
//
// nx and ny are node counts, not step counts: a grid covering [0, 1] with
// step 0.25 has 5 nodes along that axis.
// A zero, negative or non-finite step is accepted, but every query is then
// outside coverage on that axis.
func New[F constraints.Float](origin, step model2d.Coord, nx, ny int) (*Grid[F], error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDims, nx, ny)
	}
	// checked by division so the product itself can never overflow
	if nx > math.MaxInt/ny {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrInvalidDims, nx, ny)
	}
	if !finite(origin.X) || !finite(origin.Y) {
		return nil, fmt.Errorf("%w: (%v, %v)", ErrInvalidOrigin, origin.X, origin.Y)
	}
	return &Grid[F]{
		origin: origin,
		step:   step,
		nx:     nx,
		ny:     ny,
		vals:   make([]F, nx*ny),
	}, nil
}

// NewOverRange creates a grid spanning [min, max] with the given number of
// steps per axis. Node counts are stepsX+1 and stepsY+1, so min and max are
// both nodes.
// max must be finite and strictly greater than min on both axes.
func NewOverRange[F constraints.Float](min, max model2d.Coord, stepsX, stepsY int) (*Grid[F], error) {
	if stepsX < 1 || stepsY < 1 {
		return nil, fmt.Errorf("%w: %dx%d steps", ErrInvalidDims, stepsX, stepsY)
	}
	if stepsX == math.MaxInt || stepsY == math.MaxInt {
		return nil, fmt.Errorf("%w: %dx%d steps overflows", ErrInvalidDims, stepsX, stepsY)
	}
	if !finite(min.X) || !finite(min.Y) {
		return nil, fmt.Errorf("%w: (%v, %v)", ErrInvalidOrigin, min.X, min.Y)
	}
	step := model2d.XY(
		(max.X-min.X)/float64(stepsX),
		(max.Y-min.Y)/float64(stepsY),
	)
	// rejects reversed, empty and non-finite spans, including a span whose
	// width overflows
	if !(max.X > min.X) || !(max.Y > min.Y) || !finite(step.X) || !finite(step.Y) {
		return nil, fmt.Errorf("%w: span (%v, %v) to (%v, %v)",
			ErrInvalidDims, min.X, min.Y, max.X, max.Y)
	}
	return New[F](min, step, stepsX+1, stepsY+1)
}

// Insert stores v at node (ix, iy), replacing any earlier value.
// It panics if the node is outside the grid.
func (g *Grid[F]) Insert(ix, iy int, v F) {
	g.vals[g.index(ix, iy)] = v
}

// At returns the value stored at node (ix, iy), or zero if the node was
// never written. It panics if the node is outside the grid.
func (g *Grid[F]) At(ix, iy int) F {
	return g.vals[g.index(ix, iy)]
}

// Node returns the coordinate of node (ix, iy).
// It panics if the node is outside the grid.
func (g *Grid[F]) Node(ix, iy int) model2d.Coord {
	g.index(ix, iy)
	return model2d.XY(
		g.origin.X+g.step.X*float64(ix),
		g.origin.Y+g.step.Y*float64(iy),
	)
}

// Dims returns the node counts along x and y.
func (g *Grid[F]) Dims() (nx, ny int) {
	return g.nx, g.ny
}

// Origin returns the coordinate of node (0, 0).
func (g *Grid[F]) Origin() model2d.Coord {
	return g.origin
}

// Step returns the node spacing along each axis.
func (g *Grid[F]) Step() model2d.Coord {
	return g.step
}

// Bounds returns the coordinates of the first and last nodes.
// For a negative step the returned min is greater than max on that axis.
func (g *Grid[F]) Bounds() (min, max model2d.Coord) {
	return g.origin, g.Node(g.nx-1, g.ny-1)
}

// Fill sets every node to f evaluated at that node's coordinate.
func (g *Grid[F]) Fill(f func(x, y float64) F) {
	for iy := 0; iy < g.ny; iy++ {
		g.FillRow(iy, f)
	}
}

// FillRow sets every node in row iy to f evaluated at the node's coordinate.
// Different rows share no storage, so distinct rows may be filled
// concurrently.
func (g *Grid[F]) FillRow(iy int, f func(x, y float64) F) {
	if iy < 0 || iy >= g.ny {
		panic(fmt.Sprintf("bilinear: row %d out of range [0, %d)", iy, g.ny))
	}
	y := g.origin.Y + g.step.Y*float64(iy)
	row := g.vals[iy*g.nx : (iy+1)*g.nx]
	for ix := range row {
		row[ix] = f(g.origin.X+g.step.X*float64(ix), y)
	}
}

func (g *Grid[F]) index(ix, iy int) int {
	if ix < 0 || ix >= g.nx || iy < 0 || iy >= g.ny {
		panic(fmt.Sprintf("bilinear: node (%d, %d) out of range [0, %d) x [0, %d)",
			ix, iy, g.nx, g.ny))
	}
	return iy*g.nx + ix
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
