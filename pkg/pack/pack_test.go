package pack

import (
	"math"
	"testing"

	"github.com/diskmosaic/diskmosaic/pkg/portfolio"
)

func price(v float64) *float64 { return &v }

func packHoldings() portfolio.Holdings {
	return portfolio.Holdings{Groups: []portfolio.Group{
		{
			ID: "wallet",
			Items: []portfolio.Item{
				{ID: "btc", Amount: 0.5, Price: price(30000)},
				{ID: "eth", Amount: 4, Price: price(2000)},
				{ID: "dust", Amount: 100},
			},
		},
		{
			ID: "exchange",
			Items: []portfolio.Item{
				{ID: "sol", Amount: 50, Price: price(900)},
				{ID: "ada", Amount: 1000, Price: price(450)},
				{ID: "dot", Amount: 20, Price: price(120)},
			},
		},
	}}
}

const overlapTolerance = 1.0

func TestComputeEmpty(t *testing.T) {
	got := Compute(portfolio.Holdings{}, 42, Options{})
	if len(got.Nodes) != 0 || len(got.Pointers) != 0 {
		t.Errorf("empty holdings produced %d nodes, %d pointers", len(got.Nodes), len(got.Pointers))
	}
}

func TestRadiiBounds(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()
	got := Compute(packHoldings(), 42, opts)

	if len(got.Nodes) != 6 {
		t.Fatalf("got %d nodes, want 6", len(got.Nodes))
	}
	for _, n := range got.Nodes {
		if n.Radius < opts.MinRadius || n.Radius > opts.MaxRadius {
			t.Errorf("node %s radius %v outside [%v, %v]", n.ItemID, n.Radius, opts.MinRadius, opts.MaxRadius)
		}
	}
}

func TestNearNonOverlap(t *testing.T) {
	got := Compute(packHoldings(), 42, Options{})

	for i := 0; i < len(got.Nodes); i++ {
		for j := i + 1; j < len(got.Nodes); j++ {
			a, b := got.Nodes[i], got.Nodes[j]
			d := a.Pos.Distance(b.Pos)
			if minDist := a.Radius + b.Radius - overlapTolerance; d < minDist {
				t.Errorf("nodes %s and %s overlap: distance %v < %v",
					a.ItemID, b.ItemID, d, minDist)
			}
		}
	}
}

func TestNearContainment(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()
	got := Compute(packHoldings(), 42, opts)

	for _, n := range got.Nodes {
		if reach := n.Pos.Norm() + n.Radius; reach > opts.DiskRadius+overlapTolerance {
			t.Errorf("node %s reaches %v beyond disk radius %v", n.ItemID, reach, opts.DiskRadius)
		}
	}
}

func TestBoundaryContact(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()
	got := Compute(packHoldings(), 42, opts)

	// After the deterministic boundary-contact pass some node's rim
	// sits near the boundary.
	best := 0.0
	for _, n := range got.Nodes {
		best = math.Max(best, n.Pos.Norm()+n.Radius)
	}
	if best < opts.DiskRadius*0.9 {
		t.Errorf("furthest reach %v, want near boundary %v", best, opts.DiskRadius)
	}
}

func TestDeterminism(t *testing.T) {
	first := Compute(packHoldings(), 7, Options{})
	second := Compute(packHoldings(), 7, Options{})

	if len(first.Nodes) != len(second.Nodes) {
		t.Fatalf("node counts differ")
	}
	for i := range first.Nodes {
		a, b := first.Nodes[i], second.Nodes[i]
		if a.ItemID != b.ItemID || a.Pos != b.Pos || a.Radius != b.Radius {
			t.Errorf("node %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestDominantWeightClamped(t *testing.T) {
	h := portfolio.Holdings{Groups: []portfolio.Group{
		{
			ID: "g",
			Items: []portfolio.Item{
				{ID: "whale", Amount: 1, Price: price(1000)},
				{ID: "small1", Amount: 1, Price: price(10)},
				{ID: "small2", Amount: 1, Price: price(10)},
			},
		},
	}}
	opts := Options{}
	opts.SetDefaults()
	got := Compute(h, 42, opts)

	if len(got.Nodes) != 3 {
		t.Fatalf("got %d nodes", len(got.Nodes))
	}
	whale := got.Nodes[0]
	if whale.ItemID != "whale" {
		t.Fatalf("node order changed: %+v", got.Nodes)
	}
	for _, n := range got.Nodes[1:] {
		if whale.Radius <= n.Radius {
			t.Errorf("dominant item radius %v not strictly largest (vs %v)", whale.Radius, n.Radius)
		}
	}
	// The unclamped radius exceeds MaxRadius, so the clamp applies.
	if whale.Radius != opts.MaxRadius {
		t.Errorf("dominant radius = %v, want clamped to %v", whale.Radius, opts.MaxRadius)
	}
}

func TestSymmetricGroupsBalanced(t *testing.T) {
	h := portfolio.Holdings{Groups: []portfolio.Group{
		{
			ID: "left",
			Items: []portfolio.Item{
				{ID: "a1", Amount: 1, Price: price(500)},
				{ID: "a2", Amount: 1, Price: price(500)},
			},
		},
		{
			ID: "right",
			Items: []portfolio.Item{
				{ID: "b1", Amount: 1, Price: price(500)},
				{ID: "b2", Amount: 1, Price: price(500)},
			},
		},
	}}
	got := Compute(h, 42, Options{NoJitter: true})

	areas := map[string]float64{}
	for _, n := range got.Nodes {
		areas[n.GroupID] += math.Pi * n.Radius * n.Radius
	}
	left, right := areas["left"], areas["right"]
	if diff := math.Abs(left-right) / math.Max(left, right); diff >= 0.05 {
		t.Errorf("symmetric groups got areas %v and %v (%.1f%% apart)", left, right, diff*100)
	}
}

func TestPointers(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()
	got := Compute(packHoldings(), 42, opts)

	if len(got.Pointers) != 2 {
		t.Fatalf("got %d pointers, want one per group", len(got.Pointers))
	}

	reachByGroup := map[string]float64{}
	for _, n := range got.Nodes {
		reachByGroup[n.GroupID] = math.Max(reachByGroup[n.GroupID], n.Pos.Norm()+n.Radius)
	}
	for _, p := range got.Pointers {
		var member *Node
		for i := range got.Nodes {
			if got.Nodes[i].GroupID == p.GroupID && got.Nodes[i].ItemID == p.ItemID {
				member = &got.Nodes[i]
			}
		}
		if member == nil {
			t.Fatalf("pointer %v does not reference a node", p)
		}
		if reach := member.Pos.Norm() + member.Radius; reach < reachByGroup[p.GroupID]-1e-9 {
			t.Errorf("pointer for %s picks reach %v, group max is %v", p.GroupID, reach, reachByGroup[p.GroupID])
		}
	}
}
