// Package parallel runs independent tasks on a fixed set of goroutines.
//
// Glyph production (rasterization plus distance field generation) is the
// only CPU-heavy step of text rendering and each glyph is independent, so a
// string with many unseen glyphs is produced by fanning tasks out to a
// WorkerPool. Workers own a queue each and steal from their neighbours
// when idle, which keeps one slow glyph from stalling a whole queue.
package parallel
