// Package rng provides the deterministic randomness used by the layout
// engines.
//
// Every sub-computation (one group's seed search, one item's placement,
// one packing run) draws from its own stream derived from the caller's
// seed plus a named offset and index. Streams are independent: computing
// group 3 produces the same numbers whether or not groups 0-2 were
// computed first, so any single cell's layout is reproducible in
// isolation.
package rng

import "math/rand/v2"

// Stream offsets. Each engine stage derives its streams from one of
// these so stages never share a generator.
const (
	OffsetGroupSeeds uint64 = 0x10_0000
	OffsetItemSeeds  uint64 = 0x20_0000
	OffsetPackJitter uint64 = 0x30_0000
	OffsetPalette    uint64 = 0x40_0000
)

// Mixing constants. Offset and index are spread by different odd
// multipliers before combining, so a large index in one stage can never
// land on another stage's offset. pcgMix additionally separates the two
// PCG state words so adjacent stream IDs do not correlate.
const (
	pcgMix    = 0x9e3779b97f4a7c15
	offsetMix = 0xbf58476d1ce4e5b9
	indexMix  = 0x94d049bb133111eb
)

// New returns a generator for the stream identified by (seed, offset,
// index). The same triple always yields the same sequence.
func New(seed uint32, offset, index uint64) *rand.Rand {
	id := uint64(seed) ^ offset*offsetMix ^ index*indexMix
	return rand.New(rand.NewPCG(id, id^pcgMix))
}

// Attempt runs try up to attempts times and returns the first accepted
// value. The second result reports whether any attempt was accepted;
// callers apply their named fallback when it is false. This is the single
// bounded-retry policy used by all rejection-sampling loops.
func Attempt[T any](attempts int, try func() (T, bool)) (T, bool) {
	for i := 0; i < attempts; i++ {
		if v, ok := try(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
