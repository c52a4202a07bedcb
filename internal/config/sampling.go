// Package config loads the sampling configuration for the bilinear tool:
// the domain a test field is tabulated over, the grid resolution, and the
// acceptance limits for an accuracy run.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Defaults reproduce the reference accuracy run: a 2000x2000-step grid over
// [-4, 4]^2 queried at five million seeded random points.
const (
	DefaultMin             = -4.0
	DefaultMax             = 4.0
	DefaultSteps           = 2000
	DefaultPoints          = 5_000_000
	DefaultSeed            = 0
	DefaultMinMagnitude    = 0.001
	DefaultMaxPercentError = 1.0
)

// maxFileSize caps config files at 1MB.
const maxFileSize = 1 * 1024 * 1024

// SamplingConfig describes a sampling run. Fields left out of a JSON file
// stay nil and the Get* methods fall back to the defaults above, so partial
// configs are safe.
type SamplingConfig struct {
	XMin *float64 `json:"x_min,omitempty"`
	XMax *float64 `json:"x_max,omitempty"`
	YMin *float64 `json:"y_min,omitempty"`
	YMax *float64 `json:"y_max,omitempty"`

	StepsX *int `json:"steps_x,omitempty"`
	StepsY *int `json:"steps_y,omitempty"`

	Points *int    `json:"points,omitempty"`
	Seed   *uint64 `json:"seed,omitempty"`

	// Points whose true value has magnitude at or below MinMagnitude are
	// not scored; relative error is meaningless near zero.
	MinMagnitude    *float64 `json:"min_magnitude,omitempty"`
	MaxPercentError *float64 `json:"max_percent_error,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrUint64(v uint64) *uint64    { return &v }

// EmptySamplingConfig returns a SamplingConfig with all fields nil.
func EmptySamplingConfig() *SamplingConfig {
	return &SamplingConfig{}
}

// DefaultSamplingConfig returns a SamplingConfig with every field set to its
// default.
func DefaultSamplingConfig() *SamplingConfig {
	return &SamplingConfig{
		XMin:            ptrFloat64(DefaultMin),
		XMax:            ptrFloat64(DefaultMax),
		YMin:            ptrFloat64(DefaultMin),
		YMax:            ptrFloat64(DefaultMax),
		StepsX:          ptrInt(DefaultSteps),
		StepsY:          ptrInt(DefaultSteps),
		Points:          ptrInt(DefaultPoints),
		Seed:            ptrUint64(DefaultSeed),
		MinMagnitude:    ptrFloat64(DefaultMinMagnitude),
		MaxPercentError: ptrFloat64(DefaultMaxPercentError),
	}
}

// LoadSamplingConfig loads a SamplingConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadSamplingConfig(path string) (*SamplingConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySamplingConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the resolved values, so unset fields are checked against
// their defaults.
func (c *SamplingConfig) Validate() error {
	xMin, xMax := c.GetXRange()
	yMin, yMax := c.GetYRange()
	for _, v := range []float64{xMin, xMax, yMin, yMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("range bounds must be finite, got %v", v)
		}
	}
	if !(xMin < xMax) {
		return fmt.Errorf("x_min must be less than x_max, got [%v, %v]", xMin, xMax)
	}
	if !(yMin < yMax) {
		return fmt.Errorf("y_min must be less than y_max, got [%v, %v]", yMin, yMax)
	}

	stepsX, stepsY := c.GetSteps()
	if stepsX < 1 || stepsY < 1 {
		return fmt.Errorf("steps must be positive, got %dx%d", stepsX, stepsY)
	}
	if c.GetPoints() < 1 {
		return fmt.Errorf("points must be positive, got %d", c.GetPoints())
	}
	if c.GetMinMagnitude() < 0 {
		return fmt.Errorf("min_magnitude must be non-negative, got %v", c.GetMinMagnitude())
	}
	if !(c.GetMaxPercentError() > 0) {
		return fmt.Errorf("max_percent_error must be positive, got %v", c.GetMaxPercentError())
	}
	return nil
}

// GetXRange returns the x span or the default.
func (c *SamplingConfig) GetXRange() (min, max float64) {
	return orFloat(c.XMin, DefaultMin), orFloat(c.XMax, DefaultMax)
}

// GetYRange returns the y span or the default.
func (c *SamplingConfig) GetYRange() (min, max float64) {
	return orFloat(c.YMin, DefaultMin), orFloat(c.YMax, DefaultMax)
}

// GetSteps returns the step counts per axis or the default.
func (c *SamplingConfig) GetSteps() (x, y int) {
	return orInt(c.StepsX, DefaultSteps), orInt(c.StepsY, DefaultSteps)
}

// GetPoints returns the number of random query points or the default.
func (c *SamplingConfig) GetPoints() int {
	return orInt(c.Points, DefaultPoints)
}

// GetSeed returns the random seed or the default.
func (c *SamplingConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return DefaultSeed
	}
	return *c.Seed
}

// GetMinMagnitude returns the scoring threshold or the default.
func (c *SamplingConfig) GetMinMagnitude() float64 {
	return orFloat(c.MinMagnitude, DefaultMinMagnitude)
}

// GetMaxPercentError returns the acceptance limit or the default.
func (c *SamplingConfig) GetMaxPercentError() float64 {
	return orFloat(c.MaxPercentError, DefaultMaxPercentError)
}

// SetSteps overrides both step counts.
func (c *SamplingConfig) SetSteps(n int) {
	c.StepsX, c.StepsY = ptrInt(n), ptrInt(n)
}

// SetPoints overrides the point count.
func (c *SamplingConfig) SetPoints(n int) {
	c.Points = ptrInt(n)
}

// SetSeed overrides the seed.
func (c *SamplingConfig) SetSeed(seed uint64) {
	c.Seed = ptrUint64(seed)
}

func orFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func orInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
