package main

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/geal-ai/bilinear"
	"github.com/geal-ai/bilinear/internal/config"
	"github.com/geal-ai/bilinear/internal/monitoring"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model2d"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// checkResult summarises one accuracy run.
type checkResult struct {
	Points   int
	Checked  int
	Failed   int
	Outside  int
	MaxPct   float64
	MeanPct  float64
	Limit    float64
	Populate time.Duration
	Evaluate time.Duration
}

func (r checkResult) pass() bool {
	return r.Failed == 0 && r.Outside == 0
}

// buildGrid tabulates f over the configured span. Rows are filled
// concurrently; each row belongs to exactly one goroutine and the grid is
// complete before it is returned.
func buildGrid[F constraints.Float](cfg *config.SamplingConfig, f func(x, y float64) float64) (*bilinear.Grid[F], time.Duration, error) {
	xMin, xMax := cfg.GetXRange()
	yMin, yMax := cfg.GetYRange()
	stepsX, stepsY := cfg.GetSteps()

	done := monitoring.Timed("populating grid")
	g, err := bilinear.NewOverRange[F](model2d.XY(xMin, yMin), model2d.XY(xMax, yMax), stepsX, stepsY)
	if err != nil {
		return nil, 0, err
	}
	cell := func(x, y float64) F { return F(f(x, y)) }
	_, ny := g.Dims()
	essentials.ConcurrentMap(0, ny, func(iy int) {
		g.FillRow(iy, cell)
	})
	return g, done(), nil
}

// runCheck queries g at seeded uniform random points inside the configured
// span and scores the relative error wherever |f| exceeds the configured
// magnitude.
func runCheck[F constraints.Float](g *bilinear.Grid[F], cfg *config.SamplingConfig, f func(x, y float64) float64, populate time.Duration) checkResult {
	xMin, xMax := cfg.GetXRange()
	yMin, yMax := cfg.GetYRange()
	seed := cfg.GetSeed()
	xs := distuv.Uniform{Min: xMin, Max: xMax, Src: rand.NewPCG(seed, 1)}
	ys := distuv.Uniform{Min: yMin, Max: yMax, Src: rand.NewPCG(seed, 2)}

	res := checkResult{
		Points:   cfg.GetPoints(),
		Limit:    cfg.GetMaxPercentError(),
		Populate: populate,
	}
	minMag := cfg.GetMinMagnitude()
	errs := make([]float64, 0, res.Points)

	done := monitoring.Timed("evaluating points")
	for i := 0; i < res.Points; i++ {
		x, y := xs.Rand(), ys.Rand()
		approx := g.EvaluateOrNaN(x, y)
		if math.IsNaN(approx) {
			res.Outside++
			continue
		}
		z := f(x, y)
		if math.Abs(z) <= minMag {
			continue
		}
		pct := percentError(z, approx)
		errs = append(errs, pct)
		if pct >= res.Limit {
			res.Failed++
		}
	}
	res.Evaluate = done()

	res.Checked = len(errs)
	if len(errs) > 0 {
		res.MaxPct = floats.Max(errs)
		res.MeanPct = stat.Mean(errs, nil)
	}
	if res.Outside > 0 {
		monitoring.Logf("%d points fell outside grid coverage", res.Outside)
	}
	return res
}
