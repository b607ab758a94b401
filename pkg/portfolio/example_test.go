package portfolio_test

import (
	"fmt"

	"github.com/diskmosaic/diskmosaic/pkg/portfolio"
)

func ExampleParse() {
	doc := []byte(`{"groups": [
		{"id": "wallet", "items": [
			{"id": "btc", "amount": 0.5, "price": 30000},
			{"id": "bad", "amount": -1}
		]},
		{"id": "exchange", "items": [
			{"id": "sol", "amount": 20, "price": 150}
		]}
	]}`)

	h, err := portfolio.Parse(doc, "json")
	if err != nil {
		fmt.Println("parse:", err)
		return
	}

	// Items with non-positive amounts are filtered out.
	fmt.Println("groups:", len(h.Groups))
	fmt.Println("items:", h.ItemCount())
	// Output:
	// groups: 2
	// items: 2
}
