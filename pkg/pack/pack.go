// Package pack computes the bubbles layout: weight-sized circles
// clustered around per-group anchors inside the disk by damped iterative
// relaxation.
//
// Non-overlap and containment are soft constraints resolved by repeated
// proportional corrections, not a hard constraint solver; results are
// tolerance-bounded approximations. The relaxation runs a fixed number
// of iterations, so the computation always terminates, and it is a pure
// function of the holdings, the seed, and the options.
package pack

import (
	"math"

	"github.com/diskmosaic/diskmosaic/pkg/geom"
	"github.com/diskmosaic/diskmosaic/pkg/portfolio"
	"github.com/diskmosaic/diskmosaic/pkg/rng"
	"github.com/diskmosaic/diskmosaic/pkg/weights"
)

// Defaults for Options.
const (
	DefaultDiskRadius          = 500.0
	DefaultMinRadius           = 12.0
	DefaultMaxRadius           = 90.0
	DefaultTargetFill          = 0.68
	DefaultIterations          = 240
	DefaultSecondaryIterations = 70
	DefaultRepulsion           = 0.55
	DefaultAnchorSpring        = 0.012
	DefaultWeakAnchorSpring    = 0.004
	DefaultBoundarySpring      = 0.3
	DefaultDamping             = 0.9
	DefaultPadding             = 2.5
	DefaultAnchorRing          = 0.55
	DefaultStartJitter         = 6.0
)

// boundaryGap is the clearance left when a circle is repositioned into
// exact boundary contact.
const boundaryGap = 0.5

// Options configures the packing computation.
type Options struct {
	// DiskRadius is the radius of the layout disk.
	DiskRadius float64

	// MinRadius and MaxRadius clamp circle radii after area scaling.
	MinRadius float64
	MaxRadius float64

	// TargetFill is the fraction of the disk area the circles' total
	// area is scaled to before clamping.
	TargetFill float64

	// Iterations is the length of the main relaxation pass;
	// SecondaryIterations the shorter pass after boundary contact.
	Iterations          int
	SecondaryIterations int

	// Spring coefficients: pairwise overlap repulsion, pull toward the
	// group anchor (weak variant for the secondary pass), and push-back
	// when a circle escapes the disk.
	Repulsion        float64
	AnchorSpring     float64
	WeakAnchorSpring float64
	BoundarySpring   float64

	// Damping scales every per-iteration displacement.
	Damping float64

	// Padding is the clearance maintained between circles.
	Padding float64

	// AnchorRing is the fraction of the disk radius at which group
	// anchors are placed.
	AnchorRing float64

	// StartJitter is the radius of the random offset applied to each
	// circle's starting position. NoJitter disables it entirely, which
	// makes symmetric inputs produce symmetric layouts.
	StartJitter float64
	NoJitter    bool
}

// SetDefaults fills unset options with their default values.
func (o *Options) SetDefaults() {
	if o.DiskRadius == 0 {
		o.DiskRadius = DefaultDiskRadius
	}
	if o.MinRadius == 0 {
		o.MinRadius = DefaultMinRadius
	}
	if o.MaxRadius == 0 {
		o.MaxRadius = DefaultMaxRadius
	}
	if o.TargetFill == 0 {
		o.TargetFill = DefaultTargetFill
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.SecondaryIterations == 0 {
		o.SecondaryIterations = DefaultSecondaryIterations
	}
	if o.Repulsion == 0 {
		o.Repulsion = DefaultRepulsion
	}
	if o.AnchorSpring == 0 {
		o.AnchorSpring = DefaultAnchorSpring
	}
	if o.WeakAnchorSpring == 0 {
		o.WeakAnchorSpring = DefaultWeakAnchorSpring
	}
	if o.BoundarySpring == 0 {
		o.BoundarySpring = DefaultBoundarySpring
	}
	if o.Damping == 0 {
		o.Damping = DefaultDamping
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.AnchorRing == 0 {
		o.AnchorRing = DefaultAnchorRing
	}
	if o.StartJitter == 0 {
		o.StartJitter = DefaultStartJitter
	}
}

// Node is one packed circle.
type Node struct {
	GroupID string
	ItemID  string
	Radius  float64
	Pos     geom.Point
	Anchor  geom.Point
	Amount  float64
	Weight  float64
}

// reach is the node's boundary-reach score: how far its rim extends
// from the disk center.
func (n *Node) reach() float64 { return n.Pos.Norm() + n.Radius }

// Pointer marks the member of a group reaching closest to the disk
// boundary, as the target for an external label connector.
type Pointer struct {
	GroupID string
	ItemID  string
	Target  geom.Point
}

// Result is the computed packing.
type Result struct {
	Nodes    []Node
	Pointers []Pointer
}

// Compute packs one circle per item into the disk. Zero groups yields
// an empty result.
func Compute(h portfolio.Holdings, seed uint32, opts Options) Result {
	opts.SetDefaults()

	nodes := buildNodes(h, seed, opts)
	if len(nodes) == 0 {
		return Result{}
	}

	relax(nodes, opts.Iterations, opts.AnchorSpring, opts)

	// Deterministic boundary contact: the circle reaching furthest is
	// placed exactly against the boundary, then a shorter, weaker-anchor
	// pass resolves the overlap the reposition introduced.
	if i := furthest(nodes); i >= 0 {
		touchBoundary(&nodes[i], opts)
		relax(nodes, opts.SecondaryIterations, opts.WeakAnchorSpring, opts)
	}

	return Result{Nodes: nodes, Pointers: pointers(nodes)}
}

// buildNodes resolves weights, solves the global area scale, and places
// every circle at its group anchor plus jitter.
func buildNodes(h portfolio.Holdings, seed uint32, opts Options) []Node {
	var nodes []Node
	totalWeight := 0.0
	for _, g := range h.Groups {
		for _, it := range weights.Resolve(g.Weighted()) {
			nodes = append(nodes, Node{
				GroupID: it.GroupID,
				ItemID:  it.ItemID,
				Amount:  it.Amount,
				Weight:  it.Weight,
			})
			totalWeight += it.Weight
		}
	}
	if len(nodes) == 0 || totalWeight <= 0 {
		return nil
	}

	// Area scale k so that sum(pi*r^2) = TargetFill * disk area before
	// clamping: r_i = sqrt(k*w_i/pi).
	k := opts.TargetFill * math.Pi * opts.DiskRadius * opts.DiskRadius / totalWeight
	for i := range nodes {
		r := math.Sqrt(k * nodes[i].Weight / math.Pi)
		nodes[i].Radius = math.Min(math.Max(r, opts.MinRadius), opts.MaxRadius)
	}

	anchors := ringAnchors(h, opts)
	idx := 0
	for gi, g := range h.Groups {
		for range g.Items {
			nodes[idx].Anchor = anchors[gi]
			nodes[idx].Pos = anchors[gi]
			if !opts.NoJitter {
				r := rng.New(seed, rng.OffsetPackJitter, uint64(idx))
				angle := r.Float64() * 2 * math.Pi
				dist := r.Float64() * opts.StartJitter
				nodes[idx].Pos = nodes[idx].Pos.Add(geom.Point{
					X: math.Cos(angle) * dist,
					Y: math.Sin(angle) * dist,
				})
			}
			idx++
		}
	}
	return nodes
}

// ringAnchors places group anchors evenly on a ring at the configured
// fractional radius. A single group anchors at the center.
func ringAnchors(h portfolio.Holdings, opts Options) []geom.Point {
	n := len(h.Groups)
	anchors := make([]geom.Point, n)
	if n == 1 {
		return anchors
	}
	ring := opts.DiskRadius * opts.AnchorRing
	for i := range anchors {
		angle := 2 * math.Pi * float64(i) / float64(n)
		anchors[i] = geom.Point{
			X: math.Cos(angle) * ring,
			Y: math.Sin(angle) * ring,
		}
	}
	return anchors
}

// furthest returns the index of the node with the largest boundary
// reach, or -1 for an empty slice.
func furthest(nodes []Node) int {
	best, bestReach := -1, -1.0
	for i := range nodes {
		if r := nodes[i].reach(); r > bestReach {
			best, bestReach = i, r
		}
	}
	return best
}

// touchBoundary repositions a node into exact boundary contact along
// its current direction from the center.
func touchBoundary(n *Node, opts Options) {
	dist := opts.DiskRadius - n.Radius - boundaryGap
	if dist < 0 {
		dist = 0
	}
	norm := n.Pos.Norm()
	if norm < 1e-9 {
		n.Pos = geom.Point{X: dist, Y: 0}
		return
	}
	n.Pos = n.Pos.Scale(dist / norm)
}

// pointers selects, per group in node order, the member with the
// highest boundary-reach score. The target is the rim point of that
// circle facing the boundary.
func pointers(nodes []Node) []Pointer {
	bestByGroup := map[string]int{}
	var order []string
	for i := range nodes {
		gid := nodes[i].GroupID
		j, seen := bestByGroup[gid]
		if !seen {
			bestByGroup[gid] = i
			order = append(order, gid)
			continue
		}
		if nodes[i].reach() > nodes[j].reach() {
			bestByGroup[gid] = i
		}
	}

	out := make([]Pointer, 0, len(order))
	for _, gid := range order {
		n := nodes[bestByGroup[gid]]
		target := n.Pos
		if norm := n.Pos.Norm(); norm > 1e-9 {
			target = n.Pos.Add(n.Pos.Scale(n.Radius / norm))
		}
		out = append(out, Pointer{GroupID: n.GroupID, ItemID: n.ItemID, Target: target})
	}
	return out
}
