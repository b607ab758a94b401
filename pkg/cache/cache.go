// Package cache provides pluggable storage for computed layouts.
//
// Backends share the Cache interface: a file-based cache for CLI use,
// a Redis cache for the serve mode, and a null cache for disabling
// caching entirely. Keys are generated through a Keyer so that every
// input that affects the result is part of the key.
package cache

import (
	"context"
	"time"
)

// TTLs for each cached stage. Holdings expire daily since prices
// change; layouts are pure functions of their key and keep longer.
const (
	TTLHoldings = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
)

// Cache is the storage interface implemented by all backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A zero TTL means no
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts holds every parameter that changes the computed
// layout. Two runs with the same input hash and the same opts are
// guaranteed to produce the same layout, so they may share a cache
// entry.
type LayoutKeyOpts struct {
	Mode           string
	Seed           uint32
	DiskRadius     float64
	Segments       int
	Trials         int
	CoverageTarget float64
	Iterations     int
	NoJitter       bool
	Colors         map[string]string
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// HoldingsKey generates a key for a parsed holdings document,
	// identified by the hash of its raw bytes.
	HoldingsKey(contentHash string) string

	// LayoutKey generates a key for a computed layout.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer is the standard key generator. Keys embed a stage
// prefix and a SHA-256 hash of the identifying parts.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HoldingsKey generates a key for holdings caching.
func (k *DefaultKeyer) HoldingsKey(contentHash string) string {
	return "holdings:" + contentHash
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
