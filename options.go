package marginalia

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/marginalia/controller"
	"github.com/tsawler/marginalia/correlate"
	"github.com/tsawler/marginalia/keywords"
	"github.com/tsawler/marginalia/resolver"
	"github.com/tsawler/marginalia/textlayer"
)

// Options holds configuration for a correlation run. The zero value of a
// field means "use the default"; LoadOptions and ParseOptions start from
// the defaults and overlay what the file sets.
type Options struct {
	// Conflict resolution
	Epsilon float64 `yaml:"epsilon"`

	// Keyword handling
	MinKeywordLength int      `yaml:"min_keyword_length"`
	MinTokenLength   int      `yaml:"min_token_length"`
	StopWords        []string `yaml:"stop_words"`

	// View
	DefaultZoom float64 `yaml:"default_zoom"`
	MinZoom     float64 `yaml:"min_zoom"`
	MaxZoom     float64 `yaml:"max_zoom"`
	ZoomStep    float64 `yaml:"zoom_step"`

	// Text layer intake. LayerScale is the number of source pixels per
	// text-layer pixel at zoom 1.0 for every input kind: HTML markup
	// captured at zoom 2 uses 2, a 300 DPI raster or its hOCR of a 72 DPI
	// page uses 300.0/72. Source coordinates are divided by it.
	HOCRLevel     string  `yaml:"hocr_level"`     // "line" or "word"
	LayerScale    float64 `yaml:"layer_scale"`    // source pixels per text-layer pixel
	MinConfidence float64 `yaml:"min_confidence"` // OCR word confidence floor, 0-100
	OCRLanguage   string  `yaml:"ocr_language"`   // e.g. "eng" or "eng+deu"

	// LogLevel is an hclog level name: trace, debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// defaultOptions returns the default options.
func defaultOptions() Options {
	return Options{
		Epsilon:          resolver.DefaultEpsilon,
		MinKeywordLength: correlate.DefaultMinKeywordLength,
		MinTokenLength:   keywords.DefaultMinTokenLength,
		StopWords:        nil,
		DefaultZoom:      controller.DefaultZoom,
		MinZoom:          controller.MinZoom,
		MaxZoom:          controller.MaxZoom,
		ZoomStep:         controller.ZoomStep,
		HOCRLevel:        textlayer.LevelLine.String(),
		LayerScale:       1,
		LogLevel:         "info",
	}
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return defaultOptions()
}

// clone creates a deep copy of Options.
func (o Options) clone() Options {
	newOpts := o
	if o.StopWords != nil {
		newOpts.StopWords = make([]string, len(o.StopWords))
		copy(newOpts.StopWords, o.StopWords)
	}
	return newOpts
}

// LoadOptions reads options from a YAML file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading options: %w", err)
	}
	return ParseOptions(data)
}

// ParseOptions decodes YAML options on top of the defaults and validates
// the result.
func ParseOptions(data []byte) (Options, error) {
	opts := defaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("decoding options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate reports the first option that cannot be used.
func (o Options) Validate() error {
	if o.Epsilon < 0 {
		return fmt.Errorf("epsilon must not be negative, got %v", o.Epsilon)
	}
	if o.MinKeywordLength < 0 {
		return fmt.Errorf("min_keyword_length must not be negative, got %d", o.MinKeywordLength)
	}
	if o.MinZoom < 0 || o.MaxZoom < 0 || o.DefaultZoom < 0 || o.ZoomStep < 0 {
		return fmt.Errorf("zoom settings must not be negative")
	}
	if o.MinZoom > 0 && o.MaxZoom > 0 && o.MinZoom > o.MaxZoom {
		return fmt.Errorf("min_zoom %v exceeds max_zoom %v", o.MinZoom, o.MaxZoom)
	}
	if o.LayerScale < 0 {
		return fmt.Errorf("layer_scale must not be negative, got %v", o.LayerScale)
	}
	if o.MinConfidence < 0 || o.MinConfidence > 100 {
		return fmt.Errorf("min_confidence must be within 0-100, got %v", o.MinConfidence)
	}
	if _, err := textlayer.ParseLevel(o.HOCRLevel); err != nil {
		return fmt.Errorf("hocr_level: %w", err)
	}
	if o.LogLevel != "" && hclog.LevelFromString(o.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("log_level: unknown level %q", o.LogLevel)
	}
	return nil
}

// level returns the configured hOCR/OCR granularity.
func (o Options) level() textlayer.Level {
	l, err := textlayer.ParseLevel(o.HOCRLevel)
	if err != nil {
		return textlayer.LevelLine
	}
	return l
}

// keywordConfig returns the extraction configuration.
func (o Options) keywordConfig() keywords.Config {
	minLen := o.MinTokenLength
	if minLen <= 0 {
		minLen = keywords.DefaultMinTokenLength
	}
	return keywords.Config{
		MinTokenLength: minLen,
		ExtraStopWords: append([]string(nil), o.StopWords...),
	}
}

// controllerConfig builds the controller configuration. logger may be nil.
func (o Options) controllerConfig(logger hclog.Logger) controller.Config {
	return controller.Config{
		Epsilon:          o.Epsilon,
		MinKeywordLength: o.MinKeywordLength,
		Keywords:         o.keywordConfig(),
		DefaultZoom:      o.DefaultZoom,
		MinZoom:          o.MinZoom,
		MaxZoom:          o.MaxZoom,
		ZoomStep:         o.ZoomStep,
		Logger:           logger,
	}
}
