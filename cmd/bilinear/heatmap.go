package main

import (
	"fmt"

	"github.com/geal-ai/bilinear"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// maxPlotCells caps the heat map resolution per axis; larger grids are
// drawn from every stride-th node.
const maxPlotCells = 400

// gridXYZ exposes a grid's nodes as a plotter.GridXYZ.
type gridXYZ[F constraints.Float] struct {
	g       *bilinear.Grid[F]
	strideX int
	strideY int
}

var _ plotter.GridXYZ = gridXYZ[float64]{}

func newGridXYZ[F constraints.Float](g *bilinear.Grid[F]) gridXYZ[F] {
	nx, ny := g.Dims()
	return gridXYZ[F]{
		g:       g,
		strideX: stride(nx),
		strideY: stride(ny),
	}
}

func stride(n int) int {
	return max(1, (n+maxPlotCells-1)/maxPlotCells)
}

func (h gridXYZ[F]) Dims() (c, r int) {
	nx, ny := h.g.Dims()
	return (nx + h.strideX - 1) / h.strideX, (ny + h.strideY - 1) / h.strideY
}

func (h gridXYZ[F]) Z(c, r int) float64 {
	return float64(h.g.At(c*h.strideX, r*h.strideY))
}

func (h gridXYZ[F]) X(c int) float64 {
	return h.g.Node(c*h.strideX, 0).X
}

func (h gridXYZ[F]) Y(r int) float64 {
	return h.g.Node(0, r*h.strideY).Y
}

// writeHeatMap renders the grid's node values to path; the image format
// follows the file extension.
func writeHeatMap[F constraints.Float](g *bilinear.Grid[F], title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	p.Add(plotter.NewHeatMap(newGridXYZ(g), palette.Heat(16, 1)))
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving heat map: %w", err)
	}
	return nil
}
