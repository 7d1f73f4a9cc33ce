package atlas

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/gogpu/sdftext/glyph"
	"github.com/gogpu/sdftext/internal/cache"
)

// Producer renders the bitmap for a missing glyph. It runs outside the
// atlas lock and may be called concurrently for different keys.
type Producer func() (*glyph.Bitmap, glyph.Metrics, error)

// Uploader mirrors page contents to the GPU. Calls are serialized by the
// atlas: at most one CreatePage or Upload is in flight per atlas.
type Uploader interface {
	// CreatePage allocates a size×size single-channel page.
	CreatePage(page, size int) error

	// Upload writes pix (r.Width*r.Height bytes, row-major) into the page.
	Upload(page int, r Region, pix []byte) error
}

// Stats reports atlas activity.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Productions uint64
	Evictions   uint64
	Uploads     uint64
	Pages       int
	Entries     int
}

type page struct {
	free *freeList
	pix  []byte
	live int
}

type entry struct {
	Entry
	alloc rect // region plus padding
	frame uint64
}

// Atlas is a glyph cache backed by texture pages.
//
// Atlas is safe for concurrent use.
type Atlas struct {
	config   Config
	uploader Uploader
	logger   *slog.Logger

	mu      sync.Mutex
	pages   []*page
	entries map[glyph.Key]*entry
	recency *cache.List[glyph.Key]
	frame   uint64

	flight singleflight.Group

	hits        atomic.Uint64
	misses      atomic.Uint64
	productions atomic.Uint64
	evictions   atomic.Uint64
	uploads     atomic.Uint64
}

// New creates an atlas. uploader may be nil for a CPU-only atlas.
func New(config Config, uploader Uploader) (*Atlas, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Atlas{
		config:   config,
		uploader: uploader,
		logger:   slog.New(discard{}),
		entries:  make(map[glyph.Key]*entry),
		recency:  cache.NewList[glyph.Key](),
		frame:    1,
	}, nil
}

// SetLogger sets the logger used for page and eviction diagnostics.
func (a *Atlas) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discard{})
	}
	a.mu.Lock()
	a.logger = l
	a.mu.Unlock()
}

// Config returns the atlas configuration.
func (a *Atlas) Config() Config {
	return a.config
}

// CheckFits returns a *GlyphTooLargeError if a w×h bitmap could never be
// placed, even in an empty page.
func (a *Atlas) CheckFits(w, h int) error {
	pad := a.config.Padding
	if w+pad > a.config.PageSize || h+pad > a.config.PageSize {
		return &GlyphTooLargeError{Width: w, Height: h, PageSize: a.config.PageSize}
	}
	return nil
}

// BeginFrame starts a new frame. Glyphs referenced before this call become
// eligible for eviction until they are referenced again.
func (a *Atlas) BeginFrame() {
	a.mu.Lock()
	a.frame++
	a.mu.Unlock()
}

// Lookup returns the entry for key without marking it referenced.
func (a *Atlas) Lookup(key glyph.Key) (Entry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entries[key]
	if !ok {
		return Entry{}, false
	}
	return e.Entry, true
}

// Touch marks key as referenced in the current frame. It reports whether
// the glyph is resident.
func (a *Atlas) Touch(key glyph.Key) bool {
	_, ok := a.Use(key)
	return ok
}

// Use marks key as referenced in the current frame and returns its entry.
// Unlike GetOrInsert it never produces a missing glyph.
func (a *Atlas) Use(key glyph.Key) (Entry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entries[key]
	if !ok {
		return Entry{}, false
	}
	a.touchLocked(e)
	return e.Entry, true
}

func (a *Atlas) touchLocked(e *entry) {
	e.frame = a.frame
	a.recency.Touch(e.Key)
}

// GetOrInsert returns the entry for key, producing and packing it on a miss.
// The entry is marked referenced in the current frame either way.
func (a *Atlas) GetOrInsert(key glyph.Key, produce Producer) (Entry, error) {
	a.mu.Lock()
	if e, ok := a.entries[key]; ok {
		a.touchLocked(e)
		a.mu.Unlock()
		a.hits.Add(1)
		return e.Entry, nil
	}
	a.mu.Unlock()

	v, err, _ := a.flight.Do(key.String(), func() (any, error) {
		// A flight for this key may have finished since the check above.
		a.mu.Lock()
		if e, ok := a.entries[key]; ok {
			a.touchLocked(e)
			a.mu.Unlock()
			return e.Entry, nil
		}
		a.mu.Unlock()

		a.misses.Add(1)
		bmp, m, err := produce()
		a.productions.Add(1)
		if err != nil {
			return Entry{}, err
		}

		a.mu.Lock()
		defer a.mu.Unlock()
		return a.insertLocked(key, bmp, m)
	})
	if err != nil {
		return Entry{}, err
	}
	e := v.(Entry)

	// Waiters that shared the flight still count as references.
	a.mu.Lock()
	if live, ok := a.entries[key]; ok {
		a.touchLocked(live)
		e = live.Entry
	}
	a.mu.Unlock()
	return e, nil
}

func (a *Atlas) insertLocked(key glyph.Key, bmp *glyph.Bitmap, m glyph.Metrics) (Entry, error) {
	if bmp.Empty() {
		m.Width, m.Height = 0, 0
		e := &entry{Entry: Entry{Key: key, Metrics: m}}
		a.entries[key] = e
		a.touchLocked(e)
		return e.Entry, nil
	}
	if err := a.CheckFits(bmp.Width, bmp.Height); err != nil {
		return Entry{}, err
	}

	pad := a.config.Padding
	w, h := bmp.Width+pad, bmp.Height+pad
	pageIdx, alloc, err := a.allocateLocked(w, h)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: no room for %s (%dx%d)", err, key, bmp.Width, bmp.Height)
	}

	region := Region{Page: pageIdx, X: alloc.x, Y: alloc.y, Width: bmp.Width, Height: bmp.Height}
	if err := a.writeLocked(pageIdx, alloc, bmp); err != nil {
		a.pages[pageIdx].free.release(alloc)
		return Entry{}, err
	}

	m.Width, m.Height = bmp.Width, bmp.Height
	e := &entry{Entry: Entry{Key: key, Region: region, Metrics: m}, alloc: alloc}
	a.entries[key] = e
	a.pages[pageIdx].live++
	a.touchLocked(e)
	return e.Entry, nil
}

// allocateLocked finds space for a w×h allocation: best fit across existing
// pages, then a new page, then eviction of unreferenced glyphs.
func (a *Atlas) allocateLocked(w, h int) (int, rect, error) {
	if p, r, ok := a.bestFitLocked(w, h); ok {
		return p, r, nil
	}
	if len(a.pages) < a.config.MaxPages {
		p, err := a.addPageLocked()
		if err != nil {
			return 0, rect{}, err
		}
		idx, _, _ := a.pages[p].free.fit(w, h)
		return p, a.pages[p].free.take(idx, w, h), nil
	}

	// Plan evictions on copies of the free lists so a failed insertion
	// leaves every resident glyph in place.
	planned := make([]*freeList, len(a.pages))
	live := make([]int, len(a.pages))
	for p, pg := range a.pages {
		planned[p] = pg.free
		live[p] = pg.live
	}
	copied := make([]bool, len(a.pages))
	var victims []*entry
	fits := false
	for key := range a.recency.FromOldest() {
		e := a.entries[key]
		if e.frame == a.frame || e.Region.Empty() {
			continue
		}
		p := e.Region.Page
		if !copied[p] {
			planned[p] = planned[p].clone()
			copied[p] = true
		}
		live[p]--
		if live[p] == 0 {
			planned[p].reset()
		} else {
			planned[p].release(e.alloc)
		}
		victims = append(victims, e)
		if _, _, ok := bestFit(planned, w, h); ok {
			fits = true
			break
		}
	}
	if !fits {
		return 0, rect{}, ErrAtlasOverflow
	}

	for _, e := range victims {
		a.evictLocked(e)
	}
	if p, r, ok := a.bestFitLocked(w, h); ok {
		return p, r, nil
	}
	return 0, rect{}, ErrAtlasOverflow
}

// bestFit picks the page and free rectangle leaving the least area over.
func bestFit(lists []*freeList, w, h int) (page, idx int, ok bool) {
	page, idx = -1, -1
	bestLeft := 0
	for p, f := range lists {
		i, left, fits := f.fit(w, h)
		if fits && (page < 0 || left < bestLeft) {
			page, idx, bestLeft = p, i, left
		}
	}
	return page, idx, page >= 0
}

func (a *Atlas) bestFitLocked(w, h int) (int, rect, bool) {
	lists := make([]*freeList, len(a.pages))
	for p, pg := range a.pages {
		lists[p] = pg.free
	}
	p, idx, ok := bestFit(lists, w, h)
	if !ok {
		return 0, rect{}, false
	}
	return p, a.pages[p].free.take(idx, w, h), true
}

func (a *Atlas) addPageLocked() (int, error) {
	idx := len(a.pages)
	size := a.config.PageSize
	if a.uploader != nil {
		if err := a.uploader.CreatePage(idx, size); err != nil {
			return 0, fmt.Errorf("atlas: create page %d: %w", idx, err)
		}
	}
	a.pages = append(a.pages, &page{
		free: newFreeList(size),
		pix:  make([]byte, size*size),
	})
	a.logger.Debug("atlas: page created", "page", idx, "size", size)
	return idx, nil
}

func (a *Atlas) evictLocked(e *entry) {
	pg := a.pages[e.Region.Page]
	pg.live--
	if pg.live == 0 {
		pg.free.reset()
	} else {
		pg.free.release(e.alloc)
	}
	delete(a.entries, e.Key)
	a.recency.Remove(e.Key)
	a.evictions.Add(1)
	a.logger.Debug("atlas: glyph evicted", "key", e.Key.String(), "page", e.Region.Page)
}

// writeLocked copies bmp into the page's CPU copy and uploads the whole
// allocation, padding included, so stale texels never border a glyph.
func (a *Atlas) writeLocked(pageIdx int, alloc rect, bmp *glyph.Bitmap) error {
	pg := a.pages[pageIdx]
	size := a.config.PageSize
	buf := make([]byte, alloc.w*alloc.h)
	for y := range alloc.h {
		row := buf[y*alloc.w : (y+1)*alloc.w]
		if y < bmp.Height {
			copy(row, bmp.Pix[y*bmp.Width:(y+1)*bmp.Width])
		}
		copy(pg.pix[(alloc.y+y)*size+alloc.x:], row)
	}
	if a.uploader == nil {
		return nil
	}
	r := Region{Page: pageIdx, X: alloc.x, Y: alloc.y, Width: alloc.w, Height: alloc.h}
	if err := a.uploader.Upload(pageIdx, r, buf); err != nil {
		return fmt.Errorf("atlas: upload to page %d: %w", pageIdx, err)
	}
	a.uploads.Add(1)
	return nil
}

// Evictions returns the number of glyphs evicted so far. Callers that keep
// regions across frames compare it to detect stale data.
func (a *Atlas) Evictions() uint64 {
	return a.evictions.Load()
}

// Len returns the number of resident glyphs.
func (a *Atlas) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// PageCount returns the number of pages created so far.
func (a *Atlas) PageCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pages)
}

// Regions returns the live non-empty regions on page p.
func (a *Atlas) Regions(p int) []Region {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Region
	for _, e := range a.entries {
		if e.Region.Page == p && !e.Region.Empty() {
			out = append(out, e.Region)
		}
	}
	return out
}

// PageImage returns a copy of page p as a grayscale image.
func (a *Atlas) PageImage(p int) (*image.Gray, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p < 0 || p >= len(a.pages) {
		return nil, fmt.Errorf("atlas: page %d out of range [0,%d)", p, len(a.pages))
	}
	size := a.config.PageSize
	img := image.NewGray(image.Rect(0, 0, size, size))
	copy(img.Pix, a.pages[p].pix)
	return img, nil
}

// Stats returns activity counters.
func (a *Atlas) Stats() Stats {
	a.mu.Lock()
	pages, entries := len(a.pages), len(a.entries)
	a.mu.Unlock()
	return Stats{
		Hits:        a.hits.Load(),
		Misses:      a.misses.Load(),
		Productions: a.productions.Load(),
		Evictions:   a.evictions.Load(),
		Uploads:     a.uploads.Load(),
		Pages:       pages,
		Entries:     entries,
	}
}
