package transient

// avgQueue maintains a running sum over the last size pushed values and
// lazily recomputes the average on read, caching it until the next push.
//
// Ported from the original source's AvgQueue: a fixed-size ring buffer
// that tracks a running sum so the average is O(1) amortized rather than
// O(size) per read.
type avgQueue struct {
	size           int
	ring           []float64
	head           int
	sum            float64
	avg            float64
	recalcRequired bool
}

func newAvgQueue(size int) *avgQueue {
	if size < 1 {
		size = 1
	}
	return &avgQueue{
		size:           size,
		ring:           make([]float64, size),
		recalcRequired: true,
	}
}

// pushPop appends val and evicts the oldest value, keeping the window size
// constant.
func (q *avgQueue) pushPop(val float64) {
	oldest := q.ring[q.head]
	q.sum += val
	q.sum -= oldest
	q.ring[q.head] = val
	q.head = (q.head + 1) % q.size
	q.recalcRequired = true
}

// average returns the mean of the current window, recomputing only when
// the window has changed since the last call.
func (q *avgQueue) average() float64 {
	if q.recalcRequired {
		q.avg = q.sum / float64(q.size)
		q.recalcRequired = false
	}
	return q.avg
}
