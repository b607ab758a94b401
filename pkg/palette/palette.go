// Package palette assigns display colors to groups. Colors are
// deterministic for a given seed and group order: hues advance by the
// golden angle so neighboring groups stay distinguishable at any count,
// with per-group saturation and brightness jitter for texture.
package palette

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/diskmosaic/diskmosaic/pkg/rng"
)

// goldenAngle spaces hues so that any prefix of the sequence is roughly
// evenly distributed around the wheel.
const goldenAngle = 137.50776405003785

// Colors returns one hex color per group id, in order. An entry in
// overrides wins over the generated color for that id.
func Colors(groupIDs []string, overrides map[string]string, seed uint32) []string {
	base := rng.New(seed, rng.OffsetPalette, 0).Float64() * 360

	out := make([]string, len(groupIDs))
	for i, id := range groupIDs {
		if c, ok := overrides[id]; ok && c != "" {
			out[i] = c
			continue
		}
		hue := base + float64(i)*goldenAngle
		for hue >= 360 {
			hue -= 360
		}
		// Jitter comes from a per-group stream so inserting a group does
		// not recolor the ones after it beyond the hue shift.
		r := rng.New(seed, rng.OffsetPalette, 1+uint64(i))
		sat := 0.45 + r.Float64()*0.3
		val := 0.65 + r.Float64()*0.25
		out[i] = colorful.Hsv(hue, sat, val).Hex()
	}
	return out
}
