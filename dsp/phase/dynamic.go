package phase

import (
	"container/heap"

	"github.com/cwbudde/algo-phasevocoder/dsp/track"
	"github.com/cwbudde/algo-phasevocoder/dsp/transient"
)

// DynamicHeap implements the "Phase Vocoder Done Right" heap-driven
// propagation: significant bins are spread outward from the loudest peak
// by a max-heap priority sweep, alternating horizontal (time-direction)
// integration with vertical (frequency-direction) propagation to
// neighboring bins; insignificant bins fall back to basic propagation.
type DynamicHeap struct {
	*base

	magnitudeMinFactor float64
	maxMagnitude       float64

	magnitudePrev  []float64
	phaseDeltaPrev []float64

	phaseDelta []float64
	pending    []bool
	queue      heapBinQueue
}

// DefaultMagnitudeMinFactor is the "Phase Vocoder Done Right" default
// significance floor (magnitude_min_factor = 10^-6).
const DefaultMagnitudeMinFactor = 1e-6

// NewDynamicHeap creates a DynamicHeap shifter. magnitudeMinFactor sets the
// fraction of the running max magnitude a bin must exceed to be treated as
// significant; pass DefaultMagnitudeMinFactor for the paper's default.
func NewDynamicHeap(info *track.Info, mode transient.Mode, resetPolicy ResetPolicy, magnitudeMinFactor float64) (*DynamicHeap, error) {
	b, err := newBase(info, mode, resetPolicy)
	if err != nil {
		return nil, err
	}
	if magnitudeMinFactor <= 0 {
		magnitudeMinFactor = DefaultMagnitudeMinFactor
	}
	return &DynamicHeap{
		base:               b,
		magnitudeMinFactor: magnitudeMinFactor,
		magnitudePrev:      make([]float64, b.nyq),
		phaseDeltaPrev:     make([]float64, b.nyq),
		phaseDelta:         make([]float64, b.nyq),
		pending:            make([]bool, b.nyq),
	}, nil
}

// Reset clears carried phase, detector, and running-max state.
func (s *DynamicHeap) Reset() {
	s.base.Reset()
	s.maxMagnitude = 0
	for i := range s.magnitudePrev {
		s.magnitudePrev[i] = 0
		s.phaseDeltaPrev[i] = 0
	}
}

// heapBin is one entry in the dynamic shifter's max-heap priority sweep.
//
// timeIndex < 0 marks a bin carried over from the previous frame, still
// awaiting its horizontal (trapezoidal) integration step; timeIndex == 0
// marks a bin already integrated this frame, ready to propagate
// vertically to its neighbors.
type heapBin struct {
	bin           int
	timeIndex     int
	magnitude     float64
	phaseRotation float64
	seq           int
}

// heapBinQueue is a container/heap max-heap ordered by magnitude,
// descending, with insertion order as a deterministic tie-break.
type heapBinQueue []heapBin

func (q heapBinQueue) Len() int { return len(q) }
func (q heapBinQueue) Less(i, j int) bool {
	if q[i].magnitude != q[j].magnitude {
		return q[i].magnitude > q[j].magnitude
	}
	return q[i].seq < q[j].seq
}
func (q heapBinQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *heapBinQueue) Push(x any)   { *q = append(*q, x.(heapBin)) }
func (q *heapBinQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Process implements Shifter.
func (s *DynamicHeap) Process(spectrum []complex128) ([]float64, error) {
	mag, phi, err := s.magPhase(spectrum)
	if err != nil {
		return nil, err
	}

	for k := 0; k < s.nyq; k++ {
		delta := princarg(phi[k] - s.phaseAnalysisPrev[k] - s.phaseDeltaTarget[k])
		s.phaseDelta[k] = (s.phaseDeltaTarget[k] + delta) * s.stretchRatio
	}

	lo, hi := 0, s.nyq
	transientDetected := false
	if s.detector != nil {
		_, transientDetected = s.detector.Detect(mag)
	}
	if transientDetected {
		lo, hi = s.phaseReset(phi)
	}

	if !transientDetected || s.resetPolicy == BandLimited {
		for k := range mag {
			if mag[k] > s.maxMagnitude {
				s.maxMagnitude = mag[k]
			}
		}
		minMagnitude := s.magnitudeMinFactor * s.maxMagnitude

		for i := range s.pending {
			s.pending[i] = false
		}
		s.queue = s.queue[:0]
		seq := 0
		anySignificant := false
		for k := lo; k < hi; k++ {
			if mag[k] > minMagnitude {
				s.pending[k] = true
				anySignificant = true
				s.queue = append(s.queue, heapBin{bin: k, timeIndex: -1, magnitude: s.magnitudePrev[k], seq: seq})
				seq++
			} else {
				s.phaseSynthesis[k] += s.phaseDelta[k]
			}
		}

		if anySignificant {
			heap.Init(&s.queue)
			for len(s.queue) > 0 {
				top := heap.Pop(&s.queue).(heapBin)
				if top.timeIndex < 0 {
					if !s.pending[top.bin] {
						continue
					}
					k := top.bin
					s.phaseSynthesis[k] += (s.phaseDeltaPrev[k] + s.phaseDelta[k]) / 2
					rotation := princarg(s.phaseSynthesis[k] - phi[k])
					s.pending[k] = false
					seq++
					heap.Push(&s.queue, heapBin{bin: k, timeIndex: 0, magnitude: mag[k], phaseRotation: rotation, seq: seq})
					continue
				}

				for _, nb := range [2]int{top.bin - 1, top.bin + 1} {
					if nb < lo || nb >= hi || !s.pending[nb] {
						continue
					}
					s.phaseSynthesis[nb] = phi[nb] + top.phaseRotation
					s.pending[nb] = false
					seq++
					heap.Push(&s.queue, heapBin{bin: nb, timeIndex: 0, magnitude: mag[nb], phaseRotation: top.phaseRotation, seq: seq})
				}
			}
		}
	}

	out := s.finishFrame(phi)
	copy(s.phaseDeltaPrev, s.phaseDelta)
	copy(s.magnitudePrev, mag)
	return out, nil
}
