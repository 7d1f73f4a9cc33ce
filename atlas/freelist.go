package atlas

// rect is an integer rectangle in page texels.
type rect struct {
	x, y, w, h int
}

func (r rect) area() int { return r.w * r.h }

// freeList tracks the unused space of one page as disjoint rectangles.
type freeList struct {
	size  int
	rects []rect
}

func newFreeList(size int) *freeList {
	return &freeList{size: size, rects: []rect{{0, 0, size, size}}}
}

// fit returns the index of the best-fit rectangle for a w×h allocation and
// the area it would leave over. Ties go to the lowest y, then lowest x.
func (f *freeList) fit(w, h int) (idx, leftover int, ok bool) {
	idx = -1
	for i, r := range f.rects {
		if r.w < w || r.h < h {
			continue
		}
		left := r.area() - w*h
		if idx < 0 || left < leftover ||
			(left == leftover && (r.y < f.rects[idx].y || (r.y == f.rects[idx].y && r.x < f.rects[idx].x))) {
			idx, leftover = i, left
		}
	}
	return idx, leftover, idx >= 0
}

// take allocates w×h from the top-left of rects[idx] and splits what remains
// along the shorter leftover axis.
func (f *freeList) take(idx, w, h int) rect {
	r := f.rects[idx]
	f.rects[idx] = f.rects[len(f.rects)-1]
	f.rects = f.rects[:len(f.rects)-1]

	restW, restH := r.w-w, r.h-h
	var right, below rect
	if restW < restH {
		// Horizontal cut: the strip below keeps the full width.
		right = rect{r.x + w, r.y, restW, h}
		below = rect{r.x, r.y + h, r.w, restH}
	} else {
		// Vertical cut: the strip to the right keeps the full height.
		right = rect{r.x + w, r.y, restW, r.h}
		below = rect{r.x, r.y + h, w, restH}
	}
	if right.w > 0 && right.h > 0 {
		f.rects = append(f.rects, right)
	}
	if below.w > 0 && below.h > 0 {
		f.rects = append(f.rects, below)
	}
	return rect{r.x, r.y, w, h}
}

// release returns r to the free space and merges free rectangles that share
// a full edge until no more merges are possible.
func (f *freeList) release(r rect) {
	f.rects = append(f.rects, r)
	for f.mergeOnce() {
	}
}

func (f *freeList) mergeOnce() bool {
	for i := 0; i < len(f.rects); i++ {
		for j := i + 1; j < len(f.rects); j++ {
			a, b := f.rects[i], f.rects[j]
			merged, ok := join(a, b)
			if !ok {
				continue
			}
			f.rects[i] = merged
			f.rects[j] = f.rects[len(f.rects)-1]
			f.rects = f.rects[:len(f.rects)-1]
			return true
		}
	}
	return false
}

// join merges two rectangles whose union is itself a rectangle.
func join(a, b rect) (rect, bool) {
	switch {
	case a.y == b.y && a.h == b.h && a.x+a.w == b.x:
		return rect{a.x, a.y, a.w + b.w, a.h}, true
	case a.y == b.y && a.h == b.h && b.x+b.w == a.x:
		return rect{b.x, a.y, a.w + b.w, a.h}, true
	case a.x == b.x && a.w == b.w && a.y+a.h == b.y:
		return rect{a.x, a.y, a.w, a.h + b.h}, true
	case a.x == b.x && a.w == b.w && b.y+b.h == a.y:
		return rect{a.x, b.y, a.w, a.h + b.h}, true
	}
	return rect{}, false
}

func (f *freeList) clone() *freeList {
	return &freeList{size: f.size, rects: append([]rect(nil), f.rects...)}
}

// reset marks the whole page free.
func (f *freeList) reset() {
	f.rects = append(f.rects[:0], rect{0, 0, f.size, f.size})
}

// freeArea returns the total free texels.
func (f *freeList) freeArea() int {
	n := 0
	for _, r := range f.rects {
		n += r.area()
	}
	return n
}
