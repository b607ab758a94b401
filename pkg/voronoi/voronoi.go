// Package voronoi computes bounded Voronoi cells for a set of seed
// points. It wraps the Fortune sweepline implementation from
// github.com/pzsz/voronoi and converts its halfedge cells into the owned
// convex polygons the rest of the engine consumes.
package voronoi

import (
	"github.com/pzsz/voronoi"

	"github.com/diskmosaic/diskmosaic/pkg/geom"
)

// Cell is one seed's bounded Voronoi region.
type Cell struct {
	SeedIndex int          // index into the seeds passed to Compute
	Seed      geom.Point   // the generating seed point
	Polygon   geom.Polygon // cell boundary, counter-clockwise
}

// Compute returns the Voronoi cells of the given seeds, closed against
// the bounding rectangle. The rectangle must contain every seed with
// margin. Cells that degenerate below 3 vertices (coincident or
// near-collinear seeds) are dropped rather than reported as errors; a
// missing cell is preferable to a failed layout.
func Compute(seeds []geom.Point, bounds geom.Rect) []Cell {
	if len(seeds) == 0 {
		return nil
	}
	if len(seeds) == 1 {
		return []Cell{{
			SeedIndex: 0,
			Seed:      seeds[0],
			Polygon: geom.NewPolygon(
				bounds.Min,
				geom.Point{X: bounds.Max.X, Y: bounds.Min.Y},
				bounds.Max,
				geom.Point{X: bounds.Min.X, Y: bounds.Max.Y},
			),
		}}
	}

	sites := make([]voronoi.Vertex, len(seeds))
	index := make(map[voronoi.Vertex]int, len(seeds))
	for i, s := range seeds {
		v := voronoi.Vertex{X: s.X, Y: s.Y}
		sites[i] = v
		if _, dup := index[v]; !dup {
			index[v] = i
		}
	}

	bbox := voronoi.NewBBox(bounds.Min.X, bounds.Max.X, bounds.Min.Y, bounds.Max.Y)
	diagram := voronoi.ComputeDiagram(sites, bbox, true)

	cells := make([]Cell, 0, len(diagram.Cells))
	for _, c := range diagram.Cells {
		i, ok := index[c.Site]
		if !ok {
			continue
		}
		poly := cellPolygon(c)
		if poly.IsEmpty() {
			continue
		}
		cells = append(cells, Cell{
			SeedIndex: i,
			Seed:      seeds[i],
			Polygon:   poly,
		})
	}
	return cells
}

// cellPolygon walks a cell's halfedges (sorted by angle around the site)
// and collects their start points, skipping consecutive duplicates.
func cellPolygon(c *voronoi.Cell) geom.Polygon {
	pts := make([]geom.Point, 0, len(c.Halfedges))
	for _, he := range c.Halfedges {
		v := he.GetStartpoint()
		p := geom.Point{X: v.X, Y: v.Y}
		if n := len(pts); n > 0 && pts[n-1].Distance(p) < 1e-9 {
			continue
		}
		pts = append(pts, p)
	}
	if n := len(pts); n > 1 && pts[0].Distance(pts[n-1]) < 1e-9 {
		pts = pts[:n-1]
	}
	if len(pts) < 3 {
		return geom.Polygon{}
	}
	return geom.Polygon{Vertices: pts}.EnsureCCW()
}
