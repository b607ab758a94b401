// Package weights derives the visual sizing weight of each item in a
// group from its dollar valuation, or from a computed fallback when no
// valuation is known.
//
// The fallback keeps unpriced items visually comparable to their typical
// priced siblings: inside a group with any priced items it is the median
// priced value, and in a group with no priced items at all it is a fixed
// default. Without this, unpriced items would collapse to near-zero
// cells while a single expensive sibling dominates the disk.
package weights

import "sort"

const (
	// DefaultWeight is the visual weight assigned when a group has no
	// priced items to derive a fallback from.
	DefaultWeight = 100.0

	// MinFallback floors the median-derived fallback so groups priced in
	// fractions of a cent still produce visible cells.
	MinFallback = 0.01
)

// Item is one weighted entry of a group.
type Item struct {
	GroupID string
	ItemID  string
	Amount  float64  // raw magnitude, positive finite
	Price   *float64 // optional dollar valuation, positive finite when set
	Weight  float64  // derived visual weight
}

// Priced reports whether the item carries a usable valuation.
func (it Item) Priced() bool {
	return it.Price != nil && *it.Price > 0
}

// Resolve fills in the visual weight of every item in one group. Priced
// items keep their valuation as weight; unpriced items receive the
// group fallback. The input slice is not modified.
func Resolve(items []Item) []Item {
	fb := Fallback(items)
	out := make([]Item, len(items))
	for i, it := range items {
		if it.Priced() {
			it.Weight = *it.Price
		} else {
			it.Weight = fb
		}
		out[i] = it
	}
	return out
}

// Fallback returns the weight assigned to unpriced items of a group:
// the median priced value floored at MinFallback, or DefaultWeight when
// the group has no priced items.
func Fallback(items []Item) float64 {
	var priced []float64
	for _, it := range items {
		if it.Priced() {
			priced = append(priced, *it.Price)
		}
	}
	if len(priced) == 0 {
		return DefaultWeight
	}
	m := median(priced)
	if m < MinFallback {
		return MinFallback
	}
	return m
}

func median(vs []float64) float64 {
	sort.Float64s(vs)
	n := len(vs)
	if n%2 == 1 {
		return vs[n/2]
	}
	return (vs[n/2-1] + vs[n/2]) / 2
}
