package pack

import (
	"math"

	"github.com/diskmosaic/diskmosaic/pkg/geom"
)

// relax runs the damped relaxation for a fixed iteration count. Each
// iteration accumulates three displacement terms per node - pairwise
// repulsion proportional to overlap, a spring pull toward the group
// anchor, and a push-back when the node's rim escapes the disk - then
// applies them scaled by the damping factor. Pair order is fixed, so
// the pass is deterministic.
func relax(nodes []Node, iterations int, anchorSpring float64, opts Options) {
	disp := make([]geom.Point, len(nodes))

	for iter := 0; iter < iterations; iter++ {
		for i := range disp {
			disp[i] = geom.Point{}
		}

		// Pairwise repulsion when rims come closer than the padding.
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				target := nodes[i].Radius + nodes[j].Radius + opts.Padding
				delta := nodes[j].Pos.Sub(nodes[i].Pos)
				d := delta.Norm()
				if d >= target {
					continue
				}
				dir := separationAxis(delta, d, i, j)
				push := (target - d) * opts.Repulsion / 2
				disp[i] = disp[i].Sub(dir.Scale(push))
				disp[j] = disp[j].Add(dir.Scale(push))
			}
		}

		for i := range nodes {
			// Spring toward the group anchor.
			pull := nodes[i].Anchor.Sub(nodes[i].Pos).Scale(anchorSpring)
			disp[i] = disp[i].Add(pull)

			// Push back inside when the rim escapes the disk.
			if excess := nodes[i].reach() - opts.DiskRadius; excess > 0 {
				if norm := nodes[i].Pos.Norm(); norm > 1e-9 {
					inward := nodes[i].Pos.Scale(-excess * opts.BoundarySpring / norm)
					disp[i] = disp[i].Add(inward)
				}
			}

			nodes[i].Pos = nodes[i].Pos.Add(disp[i].Scale(opts.Damping))
		}
	}
}

// separationAxis returns the unit vector from node i toward node j.
// Coincident centers get a deterministic axis derived from the pair
// indices, so stacked circles always separate the same way.
func separationAxis(delta geom.Point, d float64, i, j int) geom.Point {
	if d > 1e-9 {
		return delta.Scale(1 / d)
	}
	angle := 2 * math.Pi * float64(i*31+j*17) / 360
	return geom.Point{X: math.Cos(angle), Y: math.Sin(angle)}
}
