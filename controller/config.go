package controller

import (
	"math"

	"github.com/hashicorp/go-hclog"

	"github.com/tsawler/marginalia/correlate"
	"github.com/tsawler/marginalia/keywords"
	"github.com/tsawler/marginalia/resolver"
)

// Zoom defaults, matching the viewer's zoom buttons.
const (
	DefaultZoom = 0.9
	MinZoom     = 0.5
	MaxZoom     = 2.0
	ZoomStep    = 0.1
)

// Config holds the controller configuration.
type Config struct {
	// Epsilon is the pixel tolerance for colocated highlights.
	Epsilon float64

	// MinKeywordLength is the rune length a keyword must exceed to match.
	MinKeywordLength int

	// Keywords configures extraction for findings that carry no keywords.
	Keywords keywords.Config

	// Zoom bounds and step. Zoom is clamped to [MinZoom, MaxZoom] and
	// snapped to multiples of ZoomStep.
	DefaultZoom float64
	MinZoom     float64
	MaxZoom     float64
	ZoomStep    float64

	// Logger receives recomputation and staleness events. Nil disables
	// logging.
	Logger hclog.Logger
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{
		Epsilon:          resolver.DefaultEpsilon,
		MinKeywordLength: correlate.DefaultMinKeywordLength,
		Keywords:         keywords.DefaultConfig(),
		DefaultZoom:      DefaultZoom,
		MinZoom:          MinZoom,
		MaxZoom:          MaxZoom,
		ZoomStep:         ZoomStep,
	}
}

// normalize fills zero or non-finite values with defaults and repairs
// inverted bounds.
func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.Epsilon <= 0 {
		c.Epsilon = d.Epsilon
	}
	if c.MinKeywordLength <= 0 {
		c.MinKeywordLength = d.MinKeywordLength
	}
	if c.Keywords.MinTokenLength <= 0 {
		c.Keywords.MinTokenLength = d.Keywords.MinTokenLength
	}
	if !(c.MinZoom > 0) || math.IsInf(c.MinZoom, 0) {
		c.MinZoom = d.MinZoom
	}
	if !(c.MaxZoom > 0) || math.IsInf(c.MaxZoom, 0) {
		c.MaxZoom = d.MaxZoom
	}
	if c.MaxZoom < c.MinZoom {
		c.MinZoom, c.MaxZoom = c.MaxZoom, c.MinZoom
	}
	if !(c.ZoomStep > 0) || math.IsInf(c.ZoomStep, 0) {
		c.ZoomStep = d.ZoomStep
	}
	if !(c.DefaultZoom > 0) || math.IsInf(c.DefaultZoom, 0) {
		c.DefaultZoom = d.DefaultZoom
	}
	if c.Logger == nil {
		c.Logger = hclog.NewNullLogger()
	}
	return c
}
