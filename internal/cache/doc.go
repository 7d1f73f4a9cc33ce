// Package cache provides the recency bookkeeping behind glyph eviction.
//
// [List] orders keys from most to least recently used. It holds no values;
// owners keep their own maps and consult the list when choosing victims.
//
//	l := cache.NewList[glyph.Key]()
//	l.Touch(k)
//	for k := range l.FromOldest() {
//	    // first unreferenced k is the victim
//	}
//
// List is not safe for concurrent use; callers synchronize.
package cache
