// Package partition computes the Voronoi mosaic layout: a first-level
// partition of the disk into group cells, and a second-level partition
// of each group cell into item cells sized by visual weight.
//
// The computation is a pure function of the holdings, the seed, and the
// options. Every retry loop is iteration-bounded and falls back to a
// deterministic estimate on exhaustion, so the engine terminates and
// never returns an error for finite input: degenerate geometry is
// dropped, not raised.
package partition

import (
	"github.com/diskmosaic/diskmosaic/pkg/geom"
	"github.com/diskmosaic/diskmosaic/pkg/portfolio"
	"github.com/diskmosaic/diskmosaic/pkg/weights"
)

// Defaults for Options.
const (
	DefaultDiskRadius     = 500.0
	DefaultSegments       = 64
	DefaultTrials         = 24
	DefaultCoverageTarget = 0.995
	DefaultSampleMargin   = 0.94
	DefaultItemAttempts   = 32
)

// sampleAttempts bounds the rejection-sampling loop for a single point.
const sampleAttempts = 64

// Options configures the partition computation.
type Options struct {
	// DiskRadius is the radius of the layout disk.
	DiskRadius float64

	// Segments is the vertex count of the disk's polygon approximation.
	Segments int

	// Trials is the number of group seed configurations tried; the one
	// with the best disk coverage wins.
	Trials int

	// CoverageTarget stops the seed search early once reached. Coverage
	// is never exactly 1 (the disk is an N-gon and Voronoi construction
	// can drop degenerate cells), so this is a near-total threshold, not
	// an equality check.
	CoverageTarget float64

	// SampleMargin keeps sampled seeds inside this fraction of the disk
	// radius, away from the boundary.
	SampleMargin float64

	// ItemAttempts bounds the per-item rejection sampling inside a group
	// cell before the jittered-centroid fallback applies.
	ItemAttempts int
}

// SetDefaults fills unset options with their default values.
func (o *Options) SetDefaults() {
	if o.DiskRadius == 0 {
		o.DiskRadius = DefaultDiskRadius
	}
	if o.Segments == 0 {
		o.Segments = DefaultSegments
	}
	if o.Trials == 0 {
		o.Trials = DefaultTrials
	}
	if o.CoverageTarget == 0 {
		o.CoverageTarget = DefaultCoverageTarget
	}
	if o.SampleMargin == 0 {
		o.SampleMargin = DefaultSampleMargin
	}
	if o.ItemAttempts == 0 {
		o.ItemAttempts = DefaultItemAttempts
	}
}

// GroupCell is one group's first-level region of the disk.
type GroupCell struct {
	GroupID  string
	Polygon  geom.Polygon
	Centroid geom.Point
}

// ItemCell is one item's second-level region inside its group cell.
type ItemCell struct {
	GroupID  string
	ItemID   string
	Polygon  geom.Polygon
	Centroid geom.Point
	Amount   float64
	Weight   float64
}

// Result is the full two-level partition.
type Result struct {
	Groups []GroupCell
	Items  []ItemCell
}

// Compute partitions the disk among the holding's groups and each group
// cell among its items. Zero groups yields an empty result. Items beyond
// the number of non-degenerate sub-cells in their group are omitted;
// every emitted cell maps to exactly one input item.
func Compute(h portfolio.Holdings, seed uint32, opts Options) Result {
	opts.SetDefaults()
	if len(h.Groups) == 0 {
		return Result{}
	}

	disk := geom.Circle(geom.Point{}, opts.DiskRadius, opts.Segments)
	groupIDs := make([]string, len(h.Groups))
	for i, g := range h.Groups {
		groupIDs[i] = g.ID
	}

	groups := groupCells(groupIDs, disk, seed, opts)

	cellByGroup := make(map[string]GroupCell, len(groups))
	for _, gc := range groups {
		cellByGroup[gc.GroupID] = gc
	}

	var items []ItemCell
	for gi, g := range h.Groups {
		gc, ok := cellByGroup[g.ID]
		if ok {
			resolved := weights.Resolve(g.Weighted())
			items = append(items, itemCells(gc, resolved, seed, uint64(gi), opts)...)
		}
	}

	return Result{Groups: groups, Items: items}
}
