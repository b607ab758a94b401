package partition

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/diskmosaic/diskmosaic/pkg/geom"
	"github.com/diskmosaic/diskmosaic/pkg/rng"
	"github.com/diskmosaic/diskmosaic/pkg/voronoi"
	"github.com/diskmosaic/diskmosaic/pkg/weights"
)

// itemCells partitions one group cell among its items. Sub-cells are
// rank-matched to items: the i-th largest sub-cell goes to the i-th
// highest-weight item, which decouples the stochastic seed placement
// from the final size ordering. Items beyond the number of valid
// sub-cells are omitted.
func itemCells(gc GroupCell, items []weights.Item, seed uint32, groupIndex uint64, opts Options) []ItemCell {
	if len(items) == 0 {
		return nil
	}

	bbox := gc.Polygon.BoundingBox()
	seeds := make([]geom.Point, len(items))
	for i := range items {
		// One stream per item: (group, item) position is reproducible
		// regardless of how many siblings were laid out before it.
		r := rng.New(seed, rng.OffsetItemSeeds, groupIndex<<16|uint64(i))
		seeds[i] = sampleInCell(r, gc, bbox, opts.ItemAttempts)
	}

	margin := math.Max(bbox.Width(), bbox.Height()) / 4
	raw := voronoi.Compute(seeds, bbox.Expand(margin))

	// Collect non-degenerate sub-cells, largest first.
	subs := make([]geom.Polygon, 0, len(raw))
	for _, c := range raw {
		clipped := geom.ClipConvex(c.Polygon, gc.Polygon)
		if clipped.IsEmpty() {
			continue
		}
		subs = append(subs, clipped)
	}
	slices.SortStableFunc(subs, func(a, b geom.Polygon) int {
		switch da, db := a.Area(), b.Area(); {
		case da > db:
			return -1
		case da < db:
			return 1
		default:
			return 0
		}
	})

	// Items by descending weight, input order breaking ties.
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch wa, wb := items[a].Weight, items[b].Weight; {
		case wa > wb:
			return -1
		case wa < wb:
			return 1
		default:
			return 0
		}
	})

	n := min(len(subs), len(items))
	out := make([]ItemCell, 0, n)
	for k := 0; k < n; k++ {
		it := items[order[k]]
		out = append(out, ItemCell{
			GroupID:  it.GroupID,
			ItemID:   it.ItemID,
			Polygon:  subs[k],
			Centroid: subs[k].Centroid(),
			Amount:   it.Amount,
			Weight:   it.Weight,
		})
	}
	return out
}

// sampleInCell rejection-samples a point inside the convex group cell
// using its bounding box. On exhaustion it falls back to a jittered
// point at a random angle and distance from the cell centroid - never
// the exact centroid, since coincident seeds silently drop a Voronoi
// cell.
func sampleInCell(r *rand.Rand, gc GroupCell, bbox geom.Rect, attempts int) geom.Point {
	p, ok := rng.Attempt(attempts, func() (geom.Point, bool) {
		cand := geom.Point{
			X: bbox.Min.X + r.Float64()*bbox.Width(),
			Y: bbox.Min.Y + r.Float64()*bbox.Height(),
		}
		return cand, gc.Polygon.Contains(cand)
	})
	if ok {
		return p
	}

	angle := r.Float64() * 2 * math.Pi
	dist := (0.05 + r.Float64()*0.15) * math.Min(bbox.Width(), bbox.Height())
	return geom.Point{
		X: gc.Centroid.X + math.Cos(angle)*dist,
		Y: gc.Centroid.Y + math.Sin(angle)*dist,
	}
}
