// Package atlas packs glyph bitmaps into fixed-size texture pages.
//
// Each page keeps a list of free rectangles. A new glyph goes into the free
// rectangle that leaves the least area over; the remainder is split in two
// along the shorter leftover axis. When no page has room and the page limit
// is reached, glyphs that were not referenced in the current frame are
// evicted oldest first and their rectangles merged back into neighbouring
// free space.
//
// Glyph production (rasterizing and distance field generation) runs outside
// the atlas lock, so distinct glyphs can be produced concurrently. Requests
// for the same key share one production. Packing and uploads happen under a
// single lock, one insertion at a time.
//
// Frames:
//
//	a.BeginFrame()
//	for _, k := range visible {
//	    e, err := a.GetOrInsert(k, produce(k)) // referenced this frame
//	    ...
//	}
package atlas
