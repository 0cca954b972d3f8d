package transient

import (
	"container/heap"
	"sort"
)

// minHeap is a plain float64 min-heap backing movingMedian.
type minHeap []float64

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(float64)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// movingMedian tracks a fixed-size pool of the most recently seen values
// and reports the value at a configured percentile.
//
// Ported faithfully from the original source's MovingMedian, including its
// defining quirk: put replaces the current minimum of the pool rather than
// the oldest sample, so this is not a true sliding window. The numerics of
// the high-frequency transient detector depend on this exact behavior.
type movingMedian struct {
	size          int
	percentileIdx int
	h             minHeap
}

func newMovingMedian(size int, percentile float64) *movingMedian {
	if size < 1 {
		size = 1
	}
	idx := int(float64(size) * percentile / 100.0)
	if idx < 0 {
		idx = 0
	}
	if idx > size-1 {
		idx = size - 1
	}
	h := make(minHeap, size)
	return &movingMedian{size: size, percentileIdx: idx, h: h}
}

// put pushes a new value in, evicting the current minimum of the pool.
func (m *movingMedian) put(v float64) {
	heap.Pop(&m.h)
	heap.Push(&m.h, v)
}

// get returns the value at the configured percentile of the current pool.
func (m *movingMedian) get() float64 {
	sorted := make([]float64, len(m.h))
	copy(sorted, m.h)
	sort.Float64s(sorted)
	return sorted[m.percentileIdx]
}
