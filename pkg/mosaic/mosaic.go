// Package mosaic defines the serialization format for computed layouts.
// It is the boundary between the geometry engines and external renderers:
// layouts are written as JSON and carry everything a renderer needs
// (polygons or circles, anchors, colors, raw amounts) without any
// engine-internal state.
package mosaic

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/diskmosaic/diskmosaic/pkg/geom"
)

// Layout modes.
const (
	// ModeMosaic is the Voronoi partition layout: nested convex cells.
	ModeMosaic = "mosaic"

	// ModeBubbles is the force-directed circle packing layout.
	ModeBubbles = "bubbles"
)

// ValidModes is the set of supported layout modes.
var ValidModes = map[string]bool{
	ModeMosaic:  true,
	ModeBubbles: true,
}

// Layout is the serialization format for both layout modes.
//
// This is a discriminated union - check Mode to determine which fields
// are populated:
//
//	Mosaic ("mosaic"):
//	  - Cells: per-item convex polygons with centroids
//	  - Labels: one anchor point per group
//
//	Bubbles ("bubbles"):
//	  - Circles: per-item packed circles with group anchors
//	  - Pointers: one label connector target per group
//
// Shared fields: DiskRadius, Seed, Segments.
type Layout struct {
	// Discriminator
	Mode string `json:"mode"`

	// Disk geometry and reproducibility
	DiskRadius float64 `json:"disk_radius"`
	Seed       uint32  `json:"seed"`
	Segments   int     `json:"segments,omitempty"`

	// Mosaic-specific
	Cells  []Cell  `json:"cells,omitempty"`
	Labels []Label `json:"labels,omitempty"`

	// Bubbles-specific
	Circles  []Circle  `json:"circles,omitempty"`
	Pointers []Pointer `json:"pointers,omitempty"`
}

// IsMosaic returns true for partition layouts.
func (l *Layout) IsMosaic() bool { return l.Mode == ModeMosaic }

// IsBubbles returns true for packing layouts.
func (l *Layout) IsBubbles() bool { return l.Mode == ModeBubbles }

// Cell is one item's convex region of the disk.
type Cell struct {
	GroupID  string       `json:"group"`
	ItemID   string       `json:"item"`
	Polygon  []geom.Point `json:"polygon"`
	Centroid geom.Point   `json:"centroid"`
	Color    string       `json:"color,omitempty"`
	Amount   float64      `json:"amount,omitempty"`
}

// Label is a group's label anchor: the centroid of its first-level cell.
type Label struct {
	GroupID string     `json:"group"`
	Anchor  geom.Point `json:"anchor"`
}

// Circle is one item's packed circle.
type Circle struct {
	GroupID string     `json:"group"`
	ItemID  string     `json:"item"`
	Radius  float64    `json:"radius"`
	Center  geom.Point `json:"center"`
	Anchor  geom.Point `json:"anchor"`
	Color   string     `json:"color,omitempty"`
	Amount  float64    `json:"amount,omitempty"`
}

// Pointer marks the one circle per group chosen to host an external
// label connector: the member reaching closest to the disk boundary.
type Pointer struct {
	GroupID string     `json:"group"`
	ItemID  string     `json:"item"`
	Target  geom.Point `json:"target"`
}

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Layout and validates the mode.
// Empty layouts (no cells, no circles) are valid: zero groups in means an
// empty layout out.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Mode == "" {
		l.Mode = ModeMosaic
	}
	if !ValidModes[l.Mode] {
		return Layout{}, fmt.Errorf("unknown layout mode %q", l.Mode)
	}
	return l, nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
