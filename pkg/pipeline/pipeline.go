// Package pipeline provides the core layout pipeline for diskmosaic.
//
// This package implements the complete load → weigh → layout pipeline
// that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Load: Parse and sanitize a holdings document (JSON or TOML)
//  2. Layout: Compute either a Voronoi mosaic or a circle packing
//
// Weight resolution happens inside the layout engines; the pipeline
// only reports the resolved totals.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path: "holdings.json",
//	    Mode: "mosaic",
//	    Seed: 42,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, _ := mosaic.Marshal(result.Layout)
//
// Run individual stages:
//
//	// Load only
//	h, err := runner.Load(ctx, opts)
//
//	// Layout with existing holdings
//	layout, err := runner.GenerateLayout(ctx, h, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/diskmosaic/diskmosaic/pkg/cache"
	"github.com/diskmosaic/diskmosaic/pkg/mosaic"
	"github.com/diskmosaic/diskmosaic/pkg/pack"
	"github.com/diskmosaic/diskmosaic/pkg/partition"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMode is the default layout mode.
	DefaultMode = mosaic.ModeMosaic

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint32(42)

	// DefaultDiskRadius is the default layout disk radius.
	DefaultDiskRadius = partition.DefaultDiskRadius

	// DefaultSegments is the default vertex count of the disk polygon.
	DefaultSegments = partition.DefaultSegments
)

// Format constants for holdings input formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// ValidFormats is the set of supported holdings input formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatTOML: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Path names a holdings file; Input carries inline
	// holdings bytes (used by the API) together with Format.
	Path   string `json:"path,omitempty"`
	Input  []byte `json:"input,omitempty"`
	Format string `json:"format,omitempty"`

	// Layout options
	Mode       string  `json:"mode,omitempty"`
	Seed       uint32  `json:"seed,omitempty"`
	DiskRadius float64 `json:"disk_radius,omitempty"`
	Segments   int     `json:"segments,omitempty"`

	// Mosaic tuning
	Trials         int     `json:"trials,omitempty"`
	CoverageTarget float64 `json:"coverage_target,omitempty"`

	// Bubbles tuning
	Iterations int  `json:"iterations,omitempty"`
	NoJitter   bool `json:"no_jitter,omitempty"`

	// Colors maps group IDs to hex color overrides.
	Colors map[string]string `json:"colors,omitempty"`

	// Refresh bypasses the layout cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed layout.
	Layout mosaic.Layout

	// InputHash is the content hash of the raw holdings bytes.
	InputHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GroupCount int
	ItemCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateMode checks that a layout mode is valid.
func ValidateMode(mode string) error {
	if !mosaic.ValidModes[mode] {
		return fmt.Errorf("invalid mode: %q (must be one of: mosaic, bubbles)", mode)
	}
	return nil
}

// ValidateFormat checks that a holdings input format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, toml)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.Path == "" && len(o.Input) == 0 {
		return fmt.Errorf("path or input is required")
	}
	if len(o.Input) > 0 {
		if o.Format == "" {
			o.Format = FormatJSON
		}
		if err := ValidateFormat(o.Format); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.DiskRadius == 0 {
		o.DiskRadius = DefaultDiskRadius
	}
	if o.Segments == 0 {
		o.Segments = DefaultSegments
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateMode(o.Mode)
}

// PartitionOptions maps pipeline options onto the mosaic engine.
func (o *Options) PartitionOptions() partition.Options {
	return partition.Options{
		DiskRadius:     o.DiskRadius,
		Segments:       o.Segments,
		Trials:         o.Trials,
		CoverageTarget: o.CoverageTarget,
	}
}

// PackOptions maps pipeline options onto the packing engine.
func (o *Options) PackOptions() pack.Options {
	return pack.Options{
		DiskRadius: o.DiskRadius,
		Iterations: o.Iterations,
		NoJitter:   o.NoJitter,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Mode:           o.Mode,
		Seed:           o.Seed,
		DiskRadius:     o.DiskRadius,
		Segments:       o.Segments,
		Trials:         o.Trials,
		CoverageTarget: o.CoverageTarget,
		Iterations:     o.Iterations,
		NoJitter:       o.NoJitter,
		Colors:         o.Colors,
	}
}
