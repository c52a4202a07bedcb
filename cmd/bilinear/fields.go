package main

import (
	"math"
	"sort"
)

// sampleField is a closed-form function the tool tabulates on a grid and
// then compares the interpolated values against.
type sampleField struct {
	key  string
	desc string
	f    func(x, y float64) float64
}

// knownFields is the help text for -list and the lookup table for -field.
var knownFields = []sampleField{
	{"bumps", "four Gaussian bumps plus a 0.02x + 0.05y tilt (default)", bumps},
	{"ripple", "sin(2x)·cos(3y)", func(x, y float64) float64 { return math.Sin(2*x) * math.Cos(3*y) }},
	{"saddle", "x·y, reproduced exactly by bilinear interpolation", func(x, y float64) float64 { return x * y }},
	{"ramp", "1 + 0.5x − 0.25y, reproduced exactly", func(x, y float64) float64 { return 1 + 0.5*x - 0.25*y }},
}

func lookupField(key string) (sampleField, bool) {
	for _, f := range knownFields {
		if f.key == key {
			return f, true
		}
	}
	return sampleField{}, false
}

func fieldKeys() []string {
	keys := make([]string, len(knownFields))
	for i, f := range knownFields {
		keys[i] = f.key
	}
	sort.Strings(keys)
	return keys
}

// gaussian is exp(-k·|p − c|²).
func gaussian(x, y, cx, cy, k float64) float64 {
	dx, dy := x-cx, y-cy
	return math.Exp(-k * (dx*dx + dy*dy))
}

func bumps(x, y float64) float64 {
	return gaussian(x, y, 0, 2, 1) +
		gaussian(x, y, -1, -2, 0.25) -
		gaussian(x, y, 2, -2, 0.5) +
		0.5*gaussian(x, y, 4, 4, 0.5) +
		0.02*x + 0.05*y
}

// percentError is the relative error of approx against v, in percent.
func percentError(v, approx float64) float64 {
	return 100 * math.Abs(v-approx) / math.Abs(v)
}
