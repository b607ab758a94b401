package partition

import (
	"math"
	"testing"

	"github.com/diskmosaic/diskmosaic/pkg/geom"
	"github.com/diskmosaic/diskmosaic/pkg/portfolio"
)

func price(v float64) *float64 { return &v }

func testHoldings() portfolio.Holdings {
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
			},
		},
		{
			ID: "defi",
			Items: []portfolio.Item{
				{ID: "aave", Amount: 3, Price: price(250)},
			},
		},
	}}
}

// containsWithTolerance reports whether pt is inside the convex polygon
// or within tol of its boundary.
func containsWithTolerance(p geom.Polygon, pt geom.Point, tol float64) bool {
	n := p.Len()
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		cross := (b.X-a.X)*(pt.Y-a.Y) - (b.Y-a.Y)*(pt.X-a.X)
		if cross < -tol*a.Distance(b) {
			return false
		}
	}
	return true
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(portfolio.Holdings{}, 42, Options{})
	if len(got.Groups) != 0 || len(got.Items) != 0 {
		t.Errorf("empty holdings produced %d groups, %d items", len(got.Groups), len(got.Items))
	}
}

func TestGroupCoverage(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()
	got := Compute(testHoldings(), 42, opts)

	if len(got.Groups) != 3 {
		t.Fatalf("got %d group cells, want 3", len(got.Groups))
	}

	disk := geom.Circle(geom.Point{}, opts.DiskRadius, opts.Segments)
	total := 0.0
	for _, gc := range got.Groups {
		if gc.Polygon.IsEmpty() {
			t.Fatalf("group %s has a degenerate cell", gc.GroupID)
		}
		total += gc.Polygon.Area()
	}
	if coverage := total / disk.Area(); coverage < 0.99 {
		t.Errorf("group cells cover %.4f of the disk, want >= 0.99", coverage)
	}
}

func TestItemContainment(t *testing.T) {
	got := Compute(testHoldings(), 42, Options{})

	cellByGroup := map[string]GroupCell{}
	for _, gc := range got.Groups {
		cellByGroup[gc.GroupID] = gc
	}

	for _, ic := range got.Items {
		parent, ok := cellByGroup[ic.GroupID]
		if !ok {
			t.Fatalf("item %s references unknown group %s", ic.ItemID, ic.GroupID)
		}
		for _, v := range ic.Polygon.Vertices {
			if !containsWithTolerance(parent.Polygon, v, 1e-6) {
				t.Errorf("item %s vertex %v escapes group cell %s", ic.ItemID, v, ic.GroupID)
			}
		}
	}
}

func TestItemAreaMonotonicity(t *testing.T) {
	got := Compute(testHoldings(), 42, Options{})

	byGroup := map[string][]ItemCell{}
	for _, ic := range got.Items {
		byGroup[ic.GroupID] = append(byGroup[ic.GroupID], ic)
	}

	for gid, cells := range byGroup {
		for _, a := range cells {
			for _, b := range cells {
				if a.Weight > b.Weight && a.Polygon.Area() < b.Polygon.Area() {
					t.Errorf("group %s: item %s (weight %v, area %v) smaller than %s (weight %v, area %v)",
						gid, a.ItemID, a.Weight, a.Polygon.Area(), b.ItemID, b.Weight, b.Polygon.Area())
				}
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	first := Compute(testHoldings(), 7, Options{})
	second := Compute(testHoldings(), 7, Options{})

	if len(first.Items) != len(second.Items) {
		t.Fatalf("item counts differ: %d vs %d", len(first.Items), len(second.Items))
	}
	for i := range first.Items {
		a, b := first.Items[i], second.Items[i]
		if a.ItemID != b.ItemID || a.Centroid != b.Centroid {
			t.Errorf("item %d differs: %+v vs %+v", i, a, b)
		}
		for j, v := range a.Polygon.Vertices {
			if v != b.Polygon.Vertices[j] {
				t.Errorf("item %s vertex %d differs: %v vs %v", a.ItemID, j, v, b.Polygon.Vertices[j])
			}
		}
	}
}

func TestNoDuplicateItems(t *testing.T) {
	got := Compute(testHoldings(), 42, Options{})
	seen := map[string]bool{}
	for _, ic := range got.Items {
		key := ic.GroupID + "/" + ic.ItemID
		if seen[key] {
			t.Errorf("item %s emitted twice", key)
		}
		seen[key] = true
	}
}

func TestSingleGroupSingleItem(t *testing.T) {
	h := portfolio.Holdings{Groups: []portfolio.Group{
		{ID: "only", Items: []portfolio.Item{{ID: "it", Amount: 1, Price: price(100)}}},
	}}
	opts := Options{}
	opts.SetDefaults()
	got := Compute(h, 42, opts)

	if len(got.Groups) != 1 || len(got.Items) != 1 {
		t.Fatalf("got %d groups, %d items", len(got.Groups), len(got.Items))
	}

	disk := geom.Circle(geom.Point{}, opts.DiskRadius, opts.Segments)
	groupArea := got.Groups[0].Polygon.Area()
	if ratio := groupArea / disk.Area(); ratio < 0.999 {
		t.Errorf("single group cell covers %.4f of the disk", ratio)
	}
	if ratio := got.Items[0].Polygon.Area() / groupArea; ratio < 0.999 {
		t.Errorf("single item cell covers %.4f of its group cell", ratio)
	}
}

func TestSurplusItemsDropped(t *testing.T) {
	// Many items in a tiny disk: some cells may degenerate, but output
	// never exceeds input and never duplicates.
	items := make([]portfolio.Item, 40)
	for i := range items {
		items[i] = portfolio.Item{ID: string(rune('a' + i%26)), Amount: float64(i + 1)}
	}
	h := portfolio.Holdings{Groups: []portfolio.Group{{ID: "g", Items: items}}}
	got := Compute(h, 3, Options{DiskRadius: 10, Segments: 16})
	if len(got.Items) > len(items) {
		t.Errorf("emitted %d cells for %d items", len(got.Items), len(items))
	}
}

func TestSeedChangesLayout(t *testing.T) {
	a := Compute(testHoldings(), 1, Options{})
	b := Compute(testHoldings(), 2, Options{})

	if len(a.Groups) == 0 || len(b.Groups) == 0 {
		t.Fatal("expected group cells for both seeds")
	}
	if len(a.Groups) == len(b.Groups) {
		same := true
		for i := range a.Groups {
			if math.Abs(a.Groups[i].Polygon.Area()-b.Groups[i].Polygon.Area()) > 1e-9 {
				same = false
				break
			}
		}
		if same {
			t.Errorf("different seeds produced identical group areas")
		}
	}
}
