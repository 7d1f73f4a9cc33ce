// Package sdf converts coverage bitmaps into signed distance fields.
//
// The generator thresholds the coverage into an inside/outside mask, seeds
// every texel that touches the opposite side, and grows distances outward
// with a Dijkstra expansion over the 8-connected grid (axis steps cost 1,
// diagonal steps √2). Equal distances are resolved by insertion order, so
// the output is byte-identical across runs.
//
// Distances are positive inside the shape, clamped to ±Radius and stored as
// bytes: 0 is -Radius, 255 is +Radius and 128 is the edge. A shader recovers
// the distance with (v - 0.5) * 2 * radius where v is the normalized sample.
package sdf
