package weights_test

import (
	"fmt"

	"github.com/diskmosaic/diskmosaic/pkg/weights"
)

func ExampleResolve() {
	price := func(v float64) *float64 { return &v }

	items := []weights.Item{
		{GroupID: "wallet", ItemID: "btc", Amount: 0.5, Price: price(30000)},
		{GroupID: "wallet", ItemID: "eth", Amount: 4, Price: price(2000)},
		{GroupID: "wallet", ItemID: "dust", Amount: 100},
	}
	for _, it := range weights.Resolve(items) {
		fmt.Printf("%s %.0f\n", it.ItemID, it.Weight)
	}
	// Output:
	// btc 30000
	// eth 2000
	// dust 16000
}

func ExampleFallback_unpriced() {
	// A group with no valuations at all gets the fixed default.
	items := []weights.Item{
		{GroupID: "misc", ItemID: "a", Amount: 1},
		{GroupID: "misc", ItemID: "b", Amount: 2},
	}
	fmt.Println(weights.Fallback(items))
	// Output:
	// 100
}
