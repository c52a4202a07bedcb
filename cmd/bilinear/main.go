// Command bilinear tabulates a sample field on a grid and queries it with
// bilinear interpolation.
//
// Usage:
//
//	bilinear [flags] <x> <y>
//	bilinear -check [flags]
//	bilinear -list
//
// Examples:
//
//	bilinear 0.5 1.25
//	bilinear -field ripple -steps 400 -json 0.5 1.25
//	bilinear -check
//	bilinear -check -points 200000 -float32
//	bilinear -check -config run.json -plot bumps.png
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/geal-ai/bilinear"
	"github.com/geal-ai/bilinear/internal/config"
	"github.com/geal-ai/bilinear/internal/monitoring"
	"github.com/google/uuid"
	"github.com/unixpickle/essentials"
	"golang.org/x/exp/constraints"
)

// options holds everything parsed from the command line.
type options struct {
	cfg    *config.SamplingConfig
	field  sampleField
	check  bool
	asJSON bool
	single bool
	plot   string
	x, y   float64
}

// jsonGrid describes the grid in JSON output.
type jsonGrid struct {
	Origin    [2]float64 `json:"origin"`
	Step      [2]float64 `json:"step"`
	Nodes     [2]int     `json:"nodes"`
	Precision string     `json:"precision"`
}

// jsonPoint is the JSON response for a single query.
type jsonPoint struct {
	Field        string   `json:"field"`
	Grid         jsonGrid `json:"grid"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Value        float64  `json:"value"`
	TrueValue    float64  `json:"true_value"`
	PercentError *float64 `json:"percent_error,omitempty"`
}

// jsonCheck is the JSON response for an accuracy run.
type jsonCheck struct {
	RunID            string   `json:"run_id"`
	Field            string   `json:"field"`
	Grid             jsonGrid `json:"grid"`
	Seed             uint64   `json:"seed"`
	Points           int      `json:"points"`
	Checked          int      `json:"checked"`
	Failed           int      `json:"failed"`
	Outside          int      `json:"outside"`
	MaxPercentError  float64  `json:"max_percent_error"`
	MeanPercentError float64  `json:"mean_percent_error"`
	Limit            float64  `json:"limit_percent"`
	PopulateMS       float64  `json:"populate_ms"`
	EvaluateMS       float64  `json:"evaluate_ms"`
	Pass             bool     `json:"pass"`
}

func main() {
	configPath := flag.String("config", "", "JSON sampling config (range, steps, points, seed, limits)")
	fieldKey := flag.String("field", "bumps", "Sample field to tabulate (see -list)")
	steps := flag.Int("steps", 0, "Steps per axis; overrides the config (nodes = steps+1)")
	points := flag.Int("points", 0, "Random query points for -check; overrides the config")
	seed := flag.Int64("seed", -1, "Random seed for -check; overrides the config")
	check := flag.Bool("check", false, "Run the accuracy check instead of a single query")
	asFloat32 := flag.Bool("float32", false, "Store node values as float32")
	plotPath := flag.String("plot", "", "Write a heat map of the grid to this file (.png, .svg, .pdf)")
	listFields := flag.Bool("list", false, "Print the sample fields and exit")
	asJSON := flag.Bool("json", false, "Output results as JSON")
	quiet := flag.Bool("quiet", false, "Suppress timing diagnostics on stderr")
	flag.Usage = usage
	flag.Parse()

	if *listFields {
		printFieldList()
		os.Exit(0)
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}

	opts := options{
		check:  *check,
		asJSON: *asJSON,
		single: *asFloat32,
		plot:   *plotPath,
	}

	var ok bool
	opts.field, ok = lookupField(*fieldKey)
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unknown field %q (known: %s)\n", *fieldKey, strings.Join(fieldKeys(), ", "))
		os.Exit(2)
	}

	opts.cfg = config.DefaultSamplingConfig()
	if *configPath != "" {
		cfg, err := config.LoadSamplingConfig(*configPath)
		if err != nil {
			fatalf("%v", err)
		}
		opts.cfg = cfg
	}
	if *steps > 0 {
		opts.cfg.SetSteps(*steps)
	}
	if *points > 0 {
		opts.cfg.SetPoints(*points)
	}
	if *seed >= 0 {
		opts.cfg.SetSeed(uint64(*seed))
	}
	essentials.Must(opts.cfg.Validate())

	if !opts.check {
		if flag.NArg() != 2 {
			fmt.Fprintln(os.Stderr, "error: x and y are required (or use -check)")
			usage()
			os.Exit(2)
		}
		var err error
		opts.x, err = strconv.ParseFloat(flag.Arg(0), 64)
		if err != nil {
			fatalf("invalid x %q: %v", flag.Arg(0), err)
		}
		opts.y, err = strconv.ParseFloat(flag.Arg(1), 64)
		if err != nil {
			fatalf("invalid y %q: %v", flag.Arg(1), err)
		}
	}

	var pass bool
	if opts.single {
		pass = run[float32](opts)
	} else {
		pass = run[float64](opts)
	}
	if !pass {
		os.Exit(1)
	}
}

// run builds the grid at precision F and performs the requested query mode.
// It reports whether an accuracy run passed; point queries always pass.
func run[F constraints.Float](opts options) bool {
	g, populate, err := buildGrid[F](opts.cfg, opts.field.f)
	if err != nil {
		fatalf("building grid: %v", err)
	}

	if opts.plot != "" {
		if err := writeHeatMap(g, opts.field.desc, opts.plot); err != nil {
			fatalf("%v", err)
		}
		monitoring.Logf("wrote heat map to %s", opts.plot)
	}

	if !opts.check {
		runPoint(g, opts)
		return true
	}

	res := runCheck(g, opts.cfg, opts.field.f, populate)
	if opts.asJSON {
		emitJSON(jsonCheck{
			RunID:            uuid.NewString(),
			Field:            opts.field.key,
			Grid:             describeGrid(g),
			Seed:             opts.cfg.GetSeed(),
			Points:           res.Points,
			Checked:          res.Checked,
			Failed:           res.Failed,
			Outside:          res.Outside,
			MaxPercentError:  res.MaxPct,
			MeanPercentError: res.MeanPct,
			Limit:            res.Limit,
			PopulateMS:       millis(res.Populate),
			EvaluateMS:       millis(res.Evaluate),
			Pass:             res.pass(),
		})
	} else {
		printCheck(g, opts, res)
	}
	return res.pass()
}

// runPoint evaluates a single query and prints it.
func runPoint[F constraints.Float](g *bilinear.Grid[F], opts options) {
	v, ok := g.Evaluate(opts.x, opts.y)
	if !ok {
		min, max := g.Bounds()
		fatalf("(%g, %g) is outside the grid [%g, %g] x [%g, %g]",
			opts.x, opts.y, min.X, max.X, min.Y, max.Y)
	}
	val := float64(v)
	truth := opts.field.f(opts.x, opts.y)

	var pct *float64
	if truth != 0 {
		p := percentError(truth, val)
		pct = &p
	}

	if opts.asJSON {
		emitJSON(jsonPoint{
			Field:        opts.field.key,
			Grid:         describeGrid(g),
			X:            opts.x,
			Y:            opts.y,
			Value:        val,
			TrueValue:    truth,
			PercentError: pct,
		})
		return
	}

	fmt.Printf("\n")
	fmt.Printf("  Field    : %s (%s)\n", opts.field.key, opts.field.desc)
	fmt.Printf("  Grid     : %s\n", gridLabel(g))
	fmt.Printf("  Point    : (%g, %g)\n", opts.x, opts.y)
	fmt.Printf("\n")
	fmt.Printf("  Value    : %.10g\n", val)
	fmt.Printf("  True     : %.10g\n", truth)
	if pct != nil {
		fmt.Printf("  Error    : %.6f %%\n", *pct)
	}
	fmt.Printf("\n")
}

func printCheck[F constraints.Float](g *bilinear.Grid[F], opts options, res checkResult) {
	status := "PASS"
	if !res.pass() {
		status = "FAIL"
	}
	fmt.Printf("\n")
	fmt.Printf("  Field    : %s (%s)\n", opts.field.key, opts.field.desc)
	fmt.Printf("  Grid     : %s\n", gridLabel(g))
	fmt.Printf("  Points   : %d (seed %d), %d scored, %d outside\n",
		res.Points, opts.cfg.GetSeed(), res.Checked, res.Outside)
	fmt.Printf("  Error    : max %.4f %%  /  mean %.6f %%  (limit %.2f %%)\n",
		res.MaxPct, res.MeanPct, res.Limit)
	fmt.Printf("  Timing   : populate %v  /  evaluate %v (%.1f ns/point)\n",
		res.Populate.Round(time.Millisecond), res.Evaluate.Round(time.Millisecond),
		float64(res.Evaluate.Nanoseconds())/float64(max(res.Points, 1)))
	fmt.Printf("  Result   : %s (%d over limit)\n", status, res.Failed)
	fmt.Printf("\n")
}

func describeGrid[F constraints.Float](g *bilinear.Grid[F]) jsonGrid {
	o, s := g.Origin(), g.Step()
	nx, ny := g.Dims()
	return jsonGrid{
		Origin:    [2]float64{o.X, o.Y},
		Step:      [2]float64{s.X, s.Y},
		Nodes:     [2]int{nx, ny},
		Precision: precision[F](),
	}
}

func gridLabel[F constraints.Float](g *bilinear.Grid[F]) string {
	min, max := g.Bounds()
	s := g.Step()
	nx, ny := g.Dims()
	return fmt.Sprintf("%dx%d nodes over [%g, %g] x [%g, %g], step (%g, %g), %s",
		nx, ny, min.X, max.X, min.Y, max.Y, s.X, s.Y, precision[F]())
}

func precision[F constraints.Float]() string {
	var zero F
	switch any(zero).(type) {
	case float32:
		return "float32"
	default:
		return "float64"
	}
}

func millis(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())) / 1000
}

// emitJSON writes v to stdout as indented JSON.
func emitJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatalf("json encode: %v", err)
	}
}

func printFieldList() {
	fmt.Println("Sample fields for use with -field:")
	fmt.Println()
	maxKey := 0
	for _, f := range knownFields {
		maxKey = max(maxKey, len(f.key))
	}
	for _, f := range knownFields {
		fmt.Printf("  %-*s  %s\n", maxKey, f.key, f.desc)
	}
	fmt.Println()
}

func usage() {
	fmt.Fprintln(os.Stderr, `bilinear: tabulate a sample field and query it by bilinear interpolation

Usage:
  bilinear [flags] <x> <y>
  bilinear -check [flags]
  bilinear -list

The grid spans the config range (default [-4, 4] x [-4, 4]) with -steps
steps per axis, so it has steps+1 nodes per axis.

Flags:`)
	flag.PrintDefaults()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
