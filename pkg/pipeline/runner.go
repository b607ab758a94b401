package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/diskmosaic/diskmosaic/pkg/cache"
	"github.com/diskmosaic/diskmosaic/pkg/mosaic"
	"github.com/diskmosaic/diskmosaic/pkg/observability"
	"github.com/diskmosaic/diskmosaic/pkg/portfolio"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	h, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.GroupCount = len(h.Groups)
	result.Stats.ItemCount = h.ItemCount()

	r.Logger.Info("loaded holdings",
		"groups", result.Stats.GroupCount,
		"items", result.Stats.ItemCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, h, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit
	result.InputHash = holdingsHash(h)

	r.Logger.Info("computed layout",
		"mode", opts.Mode,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// Load reads and sanitizes holdings from the configured source.
func (r *Runner) Load(ctx context.Context, opts Options) (portfolio.Holdings, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return portfolio.Holdings{}, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Path)

	var h portfolio.Holdings
	var err error
	if len(opts.Input) > 0 {
		h, err = portfolio.Parse(opts.Input, opts.Format)
	} else {
		h, err = portfolio.Load(opts.Path)
	}

	observability.Pipeline().OnLoadComplete(ctx, opts.Path, h.ItemCount(), time.Since(start), err)
	return h, err
}

// GenerateLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, h portfolio.Holdings, opts Options) (mosaic.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return mosaic.Layout{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(holdingsHash(h), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := mosaic.Unmarshal(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Mode, len(h.Groups), h.ItemCount())

	layout, err := GenerateLayout(h, opts)

	observability.Pipeline().OnLayoutComplete(ctx, opts.Mode, time.Since(start), err)
	if err != nil {
		return mosaic.Layout{}, false, err
	}

	// Cache the result
	if data, err := mosaic.Marshal(layout); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout) == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return layout, false, nil
}

// GenerateLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, h portfolio.Holdings, opts Options) (mosaic.Layout, error) {
	layout, _, err := r.GenerateLayoutWithCacheInfo(ctx, h, opts)
	return layout, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// holdingsHash is the canonical content hash of sanitized holdings.
// Hashing the canonical form rather than the raw bytes lets JSON and
// TOML documents describing the same portfolio share cache entries.
func holdingsHash(h portfolio.Holdings) string {
	data, _ := json.Marshal(h)
	return cache.Hash(data)
}
