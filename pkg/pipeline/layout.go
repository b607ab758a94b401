package pipeline

import (
	"github.com/diskmosaic/diskmosaic/pkg/mosaic"
	"github.com/diskmosaic/diskmosaic/pkg/pack"
	"github.com/diskmosaic/diskmosaic/pkg/palette"
	"github.com/diskmosaic/diskmosaic/pkg/partition"
	"github.com/diskmosaic/diskmosaic/pkg/portfolio"
)

// GenerateLayout computes a layout for the given holdings.
func GenerateLayout(h portfolio.Holdings, opts Options) (mosaic.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return mosaic.Layout{}, err
	}

	colors := groupColors(h, opts)

	switch opts.Mode {
	case mosaic.ModeBubbles:
		return bubblesLayout(h, opts, colors), nil
	default:
		return mosaicLayout(h, opts, colors), nil
	}
}

// groupColors assigns one hex color per group. Explicit colors from
// the holdings file and from options win over the generated palette;
// option overrides take precedence.
func groupColors(h portfolio.Holdings, opts Options) map[string]string {
	ids := make([]string, len(h.Groups))
	overrides := make(map[string]string)
	for i, g := range h.Groups {
		ids[i] = g.ID
		if g.Color != "" {
			overrides[g.ID] = g.Color
		}
	}
	for id, c := range opts.Colors {
		overrides[id] = c
	}

	hex := palette.Colors(ids, overrides, opts.Seed)
	colors := make(map[string]string, len(ids))
	for i, id := range ids {
		colors[id] = hex[i]
	}
	return colors
}

// mosaicLayout assembles the partition result: one cell per item,
// one label anchor per group.
func mosaicLayout(h portfolio.Holdings, opts Options, colors map[string]string) mosaic.Layout {
	res := partition.Compute(h, opts.Seed, opts.PartitionOptions())

	layout := mosaic.Layout{
		Mode:       mosaic.ModeMosaic,
		DiskRadius: opts.DiskRadius,
		Seed:       opts.Seed,
		Segments:   opts.Segments,
	}
	for _, item := range res.Items {
		layout.Cells = append(layout.Cells, mosaic.Cell{
			GroupID:  item.GroupID,
			ItemID:   item.ItemID,
			Polygon:  item.Polygon.Vertices,
			Centroid: item.Centroid,
			Color:    colors[item.GroupID],
			Amount:   item.Amount,
		})
	}
	for _, g := range res.Groups {
		layout.Labels = append(layout.Labels, mosaic.Label{
			GroupID: g.GroupID,
			Anchor:  g.Centroid,
		})
	}
	return layout
}

// bubblesLayout assembles the packing result: one circle per item,
// one pointer per group.
func bubblesLayout(h portfolio.Holdings, opts Options, colors map[string]string) mosaic.Layout {
	res := pack.Compute(h, opts.Seed, opts.PackOptions())

	layout := mosaic.Layout{
		Mode:       mosaic.ModeBubbles,
		DiskRadius: opts.DiskRadius,
		Seed:       opts.Seed,
	}
	for _, n := range res.Nodes {
		layout.Circles = append(layout.Circles, mosaic.Circle{
			GroupID: n.GroupID,
			ItemID:  n.ItemID,
			Radius:  n.Radius,
			Center:  n.Pos,
			Anchor:  n.Anchor,
			Color:   colors[n.GroupID],
			Amount:  n.Amount,
		})
	}
	for _, p := range res.Pointers {
		layout.Pointers = append(layout.Pointers, mosaic.Pointer{
			GroupID: p.GroupID,
			ItemID:  p.ItemID,
			Target:  p.Target,
		})
	}
	return layout
}
