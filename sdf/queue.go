package sdf

// item is a tentative distance for one texel.
type item struct {
	dist float32
	seq  uint32
	idx  int32
}

// minQueue is a binary min-heap ordered by distance, then insertion order.
// It implements container/heap.Interface.
type minQueue []item

func (q minQueue) Len() int { return len(q) }

func (q minQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}

func (q minQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *minQueue) Push(x any) { *q = append(*q, x.(item)) }

func (q *minQueue) Pop() any {
	old := *q
	n := len(old) - 1
	it := old[n]
	*q = old[:n]
	return it
}
