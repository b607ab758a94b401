// Package pkg provides the core libraries for diskmosaic disk layouts.
//
// # Overview
//
// Diskmosaic turns a weighted portfolio of grouped holdings into a
// deterministic 2-D layout inside a disk. The pkg directory is
// organized into four main areas:
//
//  1. Geometry (geom, voronoi, rng) - polygon kernel, diagram
//     construction, and deterministic random streams
//  2. Domain (portfolio, weights, palette) - holdings documents,
//     weight resolution, and group colors
//  3. Engines (partition, pack) - the Voronoi mosaic partitioner and
//     the force-directed circle packer
//  4. Infrastructure (pipeline, cache, observability, errors, mosaic,
//     buildinfo) - orchestration, storage, hooks, and the layout
//     serialization format
//
// # Architecture
//
// The typical data flow:
//
//	Holdings document (JSON/TOML)
//	         ↓
//	portfolio.Load → weights.Resolve
//	         ↓
//	partition.Compute or pack.Compute
//	         ↓
//	mosaic.Layout (JSON)
//
// The pipeline package ties the stages together and adds caching; the
// CLI and the HTTP API are thin layers over it.
package pkg
