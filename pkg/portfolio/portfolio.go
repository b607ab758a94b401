// Package portfolio defines the weighted input consumed by the layout
// engines and loads it from holdings documents.
//
// A holdings document is a list of groups, each carrying an ordered list
// of items with a positive amount and an optional dollar valuation.
// Per-item display metadata (name, icon URL) is carried through untouched
// for the external renderer; the geometry engines never read it.
//
// Documents are accepted as JSON or TOML, selected by file extension.
package portfolio

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/diskmosaic/diskmosaic/pkg/errors"
	"github.com/diskmosaic/diskmosaic/pkg/weights"
)

// Holdings is the root of a holdings document.
type Holdings struct {
	Groups []Group `json:"groups" toml:"groups"`
}

// Group is one first-level entry: an ordered list of items plus an
// optional display color override.
type Group struct {
	ID    string `json:"id" toml:"id"`
	Color string `json:"color,omitempty" toml:"color,omitempty"`
	Items []Item `json:"items" toml:"items"`
}

// Item is one holding inside a group.
type Item struct {
	ID     string   `json:"id" toml:"id"`
	Amount float64  `json:"amount" toml:"amount"`
	Price  *float64 `json:"price,omitempty" toml:"price,omitempty"`
	Name   string   `json:"name,omitempty" toml:"name,omitempty"`
	Icon   string   `json:"icon,omitempty" toml:"icon,omitempty"`
}

// Load reads a holdings document from path. The format is selected by
// file extension: .json, .toml. The returned holdings are sanitized.
func Load(path string) (Holdings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Holdings{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "holdings file %s", path)
	}
	if err != nil {
		return Holdings{}, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return Parse(data, FormatJSON)
	case ".toml":
		return Parse(data, FormatTOML)
	default:
		return Holdings{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported holdings format: %s", filepath.Ext(path))
	}
}

// Supported document formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Parse decodes a holdings document and sanitizes it.
func Parse(data []byte, format string) (Holdings, error) {
	var h Holdings
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &h); err != nil {
			return Holdings{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse holdings json")
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &h); err != nil {
			return Holdings{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse holdings toml")
		}
	default:
		return Holdings{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported holdings format: %s", format)
	}
	return h.Sanitize(), nil
}

// Sanitize filters out entries the geometry engines must never see:
// items with non-finite or non-positive amounts are dropped, invalid
// prices are cleared (the item stays, unpriced), and groups left with no
// items are removed. Empty holdings are valid and yield empty layouts.
func (h Holdings) Sanitize() Holdings {
	out := Holdings{}
	for _, g := range h.Groups {
		kept := Group{ID: g.ID, Color: g.Color}
		for _, it := range g.Items {
			if !positiveFinite(it.Amount) {
				continue
			}
			if it.Price != nil && !positiveFinite(*it.Price) {
				it.Price = nil
			}
			kept.Items = append(kept.Items, it)
		}
		if len(kept.Items) > 0 {
			out.Groups = append(out.Groups, kept)
		}
	}
	return out
}

// ItemCount returns the total number of items across all groups.
func (h Holdings) ItemCount() int {
	n := 0
	for _, g := range h.Groups {
		n += len(g.Items)
	}
	return n
}

// Weighted converts a group's items to the weight model's input,
// preserving input order.
func (g Group) Weighted() []weights.Item {
	out := make([]weights.Item, len(g.Items))
	for i, it := range g.Items {
		out[i] = weights.Item{
			GroupID: g.ID,
			ItemID:  it.ID,
			Amount:  it.Amount,
			Price:   it.Price,
		}
	}
	return out
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
