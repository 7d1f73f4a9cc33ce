// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"cmp"
	"slices"
)

// Item is one glyph ready for batching.
type Item struct {
	Page     int
	Instance CharacterInstance
	UV       UVRect
}

// DrawCommand draws a contiguous run of instances that all sample the same
// atlas page.
type DrawCommand struct {
	Page          int
	FirstInstance uint32
	InstanceCount uint32
}

// Batch is the instance data for one text and the draws that render it.
type Batch struct {
	Instances []CharacterInstance
	UVs       []UVRect
	Commands  []DrawCommand
}

// Build groups items by atlas page in ascending page order. Items keep their
// relative order within a page. The result has exactly one command per
// distinct page.
func Build(items []Item) Batch {
	if len(items) == 0 {
		return Batch{}
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return cmp.Compare(a.Page, b.Page)
	})

	b := Batch{
		Instances: make([]CharacterInstance, len(sorted)),
		UVs:       make([]UVRect, len(sorted)),
	}
	for i, it := range sorted {
		b.Instances[i] = it.Instance
		b.UVs[i] = it.UV
		n := len(b.Commands)
		if n > 0 && b.Commands[n-1].Page == it.Page {
			b.Commands[n-1].InstanceCount++
			continue
		}
		b.Commands = append(b.Commands, DrawCommand{
			Page:          it.Page,
			FirstInstance: uint32(i), //nolint:gosec // bounded by len(items)
			InstanceCount: 1,
		})
	}
	return b
}

// Len returns the number of instances.
func (b *Batch) Len() int {
	return len(b.Instances)
}

// InstanceBytes encodes the character instances.
func (b *Batch) InstanceBytes() []byte {
	buf := make([]byte, 0, len(b.Instances)*InstanceSize)
	for _, c := range b.Instances {
		buf = c.AppendBytes(buf)
	}
	return buf
}

// UVBytes encodes the per-instance UV rects.
func (b *Batch) UVBytes() []byte {
	buf := make([]byte, 0, len(b.UVs)*UVRectSize)
	for _, u := range b.UVs {
		buf = u.AppendBytes(buf)
	}
	return buf
}
