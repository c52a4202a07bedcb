package bilinear

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model2d"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  model2d.Coord
		nx, ny  int
		wantErr error
	}{
		{"single node", model2d.XY(0, 0), 1, 1, nil},
		{"rectangular", model2d.XY(-1, 2), 7, 3, nil},
		{"zero nx", model2d.XY(0, 0), 0, 4, ErrInvalidDims},
		{"negative ny", model2d.XY(0, 0), 4, -1, ErrInvalidDims},
		{"overflow", model2d.XY(0, 0), math.MaxInt, 2, ErrInvalidDims},
		{"nan origin", model2d.XY(math.NaN(), 0), 2, 2, ErrInvalidOrigin},
		{"inf origin", model2d.XY(0, math.Inf(-1)), 2, 2, ErrInvalidOrigin},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := New[float64](tc.origin, model2d.XY(1, 1), tc.nx, tc.ny)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr), "got %v, want %v", err, tc.wantErr)
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			nx, ny := g.Dims()
			assert.Equal(t, tc.nx, nx)
			assert.Equal(t, tc.ny, ny)
		})
	}
}

// A zero step is a usable grid as far as storage goes; only queries are
// affected.
func TestNewAcceptsDegenerateStep(t *testing.T) {
	g, err := New[float64](model2d.XY(0, 0), model2d.XY(0, -1), 3, 3)
	require.NoError(t, err)
	g.Insert(1, 1, 5)
	assert.Equal(t, 5.0, g.At(1, 1))
}

func TestNewOverRange(t *testing.T) {
	g, err := NewOverRange[float64](model2d.XY(-4, -2), model2d.XY(4, 2), 8, 2)
	require.NoError(t, err)

	nx, ny := g.Dims()
	assert.Equal(t, 9, nx)
	assert.Equal(t, 3, ny)
	assert.Equal(t, model2d.XY(1, 2), g.Step())
	assert.Equal(t, model2d.XY(-4, -2), g.Origin())

	min, max := g.Bounds()
	assert.Equal(t, model2d.XY(-4, -2), min)
	assert.Equal(t, model2d.XY(4, 2), max)

	_, err = NewOverRange[float64](model2d.XY(0, 0), model2d.XY(1, 1), 0, 4)
	assert.ErrorIs(t, err, ErrInvalidDims)
	_, err = NewOverRange[float64](model2d.XY(0, 0), model2d.XY(1, 1), math.MaxInt, 4)
	assert.ErrorIs(t, err, ErrInvalidDims)
}

func TestNewOverRangeRejectsBadSpan(t *testing.T) {
	tests := []struct {
		name     string
		min, max model2d.Coord
		want     error
	}{
		{"reversed x", model2d.XY(1, 0), model2d.XY(0, 1), ErrInvalidDims},
		{"reversed y", model2d.XY(0, 1), model2d.XY(1, 0), ErrInvalidDims},
		{"empty x", model2d.XY(2, 0), model2d.XY(2, 1), ErrInvalidDims},
		{"empty both", model2d.XY(0, 0), model2d.XY(0, 0), ErrInvalidDims},
		{"nan max", model2d.XY(0, 0), model2d.XY(math.NaN(), 1), ErrInvalidDims},
		{"infinite max", model2d.XY(0, 0), model2d.XY(1, math.Inf(1)), ErrInvalidDims},
		{"span overflows", model2d.XY(-math.MaxFloat64, 0), model2d.XY(math.MaxFloat64, 1), ErrInvalidDims},
		{"nan min", model2d.XY(math.NaN(), 0), model2d.XY(1, 1), ErrInvalidOrigin},
		{"infinite min", model2d.XY(0, math.Inf(-1)), model2d.XY(1, 1), ErrInvalidOrigin},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewOverRange[float64](tc.min, tc.max, 4, 4)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, g)
		})
	}
}

func TestInsertAndAt(t *testing.T) {
	g, err := New[float64](model2d.XY(0, 0), model2d.XY(0.5, 0.5), 4, 3)
	require.NoError(t, err)

	// unwritten nodes read zero
	for iy := 0; iy < 3; iy++ {
		for ix := 0; ix < 4; ix++ {
			assert.Zero(t, g.At(ix, iy))
		}
	}

	g.Insert(3, 2, 1.5)
	g.Insert(0, 1, -2)
	assert.Equal(t, 1.5, g.At(3, 2))
	assert.Equal(t, -2.0, g.At(0, 1))

	// last write wins
	g.Insert(3, 2, 9)
	assert.Equal(t, 9.0, g.At(3, 2))

	// neighbours untouched: no wrapping between rows
	assert.Zero(t, g.At(0, 2))
	assert.Zero(t, g.At(3, 1))

	// row-major layout
	assert.Equal(t, 9.0, g.vals[2*4+3])
	assert.Equal(t, -2.0, g.vals[1*4+0])
}

func TestOutOfRangeIndexPanics(t *testing.T) {
	g, err := New[float64](model2d.XY(0, 0), model2d.XY(1, 1), 4, 3)
	require.NoError(t, err)

	bad := [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {4, 3}, {100, 100}}
	for _, idx := range bad {
		ix, iy := idx[0], idx[1]
		assert.Panics(t, func() { g.Insert(ix, iy, 1) }, "Insert(%d, %d)", ix, iy)
		assert.Panics(t, func() { g.At(ix, iy) }, "At(%d, %d)", ix, iy)
		assert.Panics(t, func() { g.Node(ix, iy) }, "Node(%d, %d)", ix, iy)
	}
	// (4, 0) would alias (0, 1) in a flat slice without the check
	for iy := 0; iy < 3; iy++ {
		for ix := 0; ix < 4; ix++ {
			assert.Zero(t, g.At(ix, iy))
		}
	}

	assert.Panics(t, func() { g.FillRow(3, func(x, y float64) float64 { return 0 }) })
	assert.Panics(t, func() { g.FillRow(-1, func(x, y float64) float64 { return 0 }) })
}

func TestNode(t *testing.T) {
	g, err := New[float64](model2d.XY(-1, 10), model2d.XY(0.25, -2), 5, 4)
	require.NoError(t, err)

	assert.Equal(t, model2d.XY(-1, 10), g.Node(0, 0))
	assert.Equal(t, model2d.XY(0, 10), g.Node(4, 0))
	assert.Equal(t, model2d.XY(-0.5, 4), g.Node(2, 3))

	min, max := g.Bounds()
	assert.Equal(t, model2d.XY(-1, 10), min)
	assert.Equal(t, model2d.XY(0, 4), max)
}

func TestFill(t *testing.T) {
	g, err := New[float64](model2d.XY(1, -1), model2d.XY(0.5, 2), 3, 4)
	require.NoError(t, err)

	g.Fill(func(x, y float64) float64 { return 10*x + y })
	for iy := 0; iy < 4; iy++ {
		for ix := 0; ix < 3; ix++ {
			c := g.Node(ix, iy)
			assert.Equal(t, 10*c.X+c.Y, g.At(ix, iy), "node (%d, %d)", ix, iy)
		}
	}

	g.FillRow(2, func(x, y float64) float64 { return -1 })
	assert.Equal(t, []float64{-1, -1, -1}, g.vals[6:9])
	assert.Equal(t, 10*2.0+1, g.At(2, 1))
}

func TestFloat32Values(t *testing.T) {
	g, err := New[float32](model2d.XY(0, 0), model2d.XY(1, 1), 2, 2)
	require.NoError(t, err)
	g.Insert(0, 0, 1)
	g.Insert(1, 0, 2)
	g.Insert(0, 1, 3)
	g.Insert(1, 1, 4)

	v, ok := g.Evaluate(0.5, 0.5)
	require.True(t, ok)
	assert.Equal(t, float32(2.5), v)
	assert.Len(t, g.vals, 4)
}
