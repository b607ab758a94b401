package partition

import (
	"math"
	"math/rand/v2"

	"github.com/diskmosaic/diskmosaic/pkg/geom"
	"github.com/diskmosaic/diskmosaic/pkg/rng"
	"github.com/diskmosaic/diskmosaic/pkg/voronoi"
)

// groupCells runs the trial seed search for the first-level partition.
// Each trial samples one seed per group inside the disk, builds their
// Voronoi cells, clips them to the disk, and scores the trial by
// coverage. The best trial wins; the search exits early once coverage
// reaches the configured target.
//
// The repeated-trial design compensates for Voronoi construction's
// sensitivity to near-collinear or too-close seeds, which can silently
// drop a cell to zero area.
func groupCells(groupIDs []string, disk geom.Polygon, seed uint32, opts Options) []GroupCell {
	bounds := disk.BoundingBox().Expand(opts.DiskRadius / 4)
	diskArea := disk.Area()

	var best []GroupCell
	bestCoverage := -1.0

	for trial := 0; trial < opts.Trials; trial++ {
		r := rng.New(seed, rng.OffsetGroupSeeds, uint64(trial))
		seeds := make([]geom.Point, len(groupIDs))
		for i := range groupIDs {
			seeds[i] = sampleInDisk(r, opts.DiskRadius*opts.SampleMargin)
		}

		cells := clipCells(voronoi.Compute(seeds, bounds), groupIDs, disk)

		coverage := 0.0
		for _, c := range cells {
			coverage += c.Polygon.Area()
		}
		coverage /= diskArea

		if coverage > bestCoverage {
			bestCoverage = coverage
			best = cells
		}
		if bestCoverage >= opts.CoverageTarget {
			break
		}
	}
	return best
}

// clipCells intersects raw Voronoi cells with the disk and maps them
// back to their group ids. Cells degenerating below 3 vertices are
// dropped.
func clipCells(cells []voronoi.Cell, groupIDs []string, disk geom.Polygon) []GroupCell {
	out := make([]GroupCell, 0, len(cells))
	for _, c := range cells {
		clipped := geom.ClipConvex(c.Polygon, disk)
		if clipped.IsEmpty() {
			continue
		}
		out = append(out, GroupCell{
			GroupID:  groupIDs[c.SeedIndex],
			Polygon:  clipped,
			Centroid: clipped.Centroid(),
		})
	}
	return out
}

// sampleInDisk rejection-samples a point inside the disk of the given
// radius. On exhaustion it falls back to a deterministic jittered point
// near the center, which is always inside.
func sampleInDisk(r *rand.Rand, radius float64) geom.Point {
	p, ok := rng.Attempt(sampleAttempts, func() (geom.Point, bool) {
		cand := geom.Point{
			X: (r.Float64()*2 - 1) * radius,
			Y: (r.Float64()*2 - 1) * radius,
		}
		return cand, cand.Norm() <= radius
	})
	if ok {
		return p
	}
	angle := r.Float64() * 2 * math.Pi
	return geom.Point{
		X: math.Cos(angle) * radius / 2,
		Y: math.Sin(angle) * radius / 2,
	}
}
