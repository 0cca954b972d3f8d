package phase

import (
	"math"

	"github.com/cwbudde/algo-phasevocoder/dsp/track"
	"github.com/cwbudde/algo-phasevocoder/dsp/transient"
)

const (
	laminarInheritDistanceMax = 8
	laminarFreqLow            = 600.0
	laminarFreqMid            = 1200.0
	laminarFreqHigh           = 12000.0
)

// Laminar implements the Rubberband-style laminar phase propagation: each
// bin either advances independently or inherits a blend of its own
// deviation and its lower neighbor's rotation, with the inheritance budget
// growing by frequency band so low bins never lock and high bins lock
// readily.
type Laminar struct {
	*base

	limitLow, limitMid, limitHigh int

	phaseDeviationPrev []float64
}

// NewLaminar creates a Laminar shifter bound to info.
func NewLaminar(info *track.Info, mode transient.Mode, resetPolicy ResetPolicy) (*Laminar, error) {
	b, err := newBase(info, mode, resetPolicy)
	if err != nil {
		return nil, err
	}

	stretchDeviation := b.stretchRatio - 1
	rf0 := laminarFreqLow + laminarFreqLow*2*stretchDeviation*stretchDeviation*stretchDeviation
	freqMidRatio := laminarFreqMid / laminarFreqLow
	freqHighRatio := laminarFreqHigh / laminarFreqLow
	freqLow := math.Max(laminarFreqLow, rf0)
	freqMid := freqLow * freqMidRatio
	freqHigh := freqLow * freqHighRatio

	framePadded := float64(b.framePadded)
	sampleRate := float64(b.sampleRate)

	return &Laminar{
		base:               b,
		limitLow:           int(math.Floor(freqLow * framePadded / sampleRate)),
		limitMid:           int(math.Floor(freqMid * framePadded / sampleRate)),
		limitHigh:          int(math.Floor(freqHigh * framePadded / sampleRate)),
		phaseDeviationPrev: make([]float64, b.nyq),
	}, nil
}

// Reset clears carried phase, detector, and deviation-history state.
func (s *Laminar) Reset() {
	s.base.Reset()
	for i := range s.phaseDeviationPrev {
		s.phaseDeviationPrev[i] = 0
	}
}

func (s *Laminar) inheritCountMax(bin int) int {
	switch {
	case bin <= s.limitLow:
		return 0
	case bin <= s.limitMid:
		return 1
	case bin <= s.limitHigh:
		return 3
	default:
		return laminarInheritDistanceMax
	}
}

// Process implements Shifter.
func (s *Laminar) Process(spectrum []complex128) ([]float64, error) {
	mag, phi, err := s.magPhase(spectrum)
	if err != nil {
		return nil, err
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
		inheritCount := 0
		// phaseDeviationDeltaPrev/growingPrev compare consecutive bins
		// within this frame only; they are not carried across frames.
		phaseDeviationDeltaPrev := 0.0
		growingPrev := false

		for i := lo; i < hi; i++ {
			inheritMax := s.inheritCountMax(i)

			deviation := princarg(phi[i] - s.phaseAnalysisPrev[i] - s.phaseDeltaTarget[i])
			deviationDelta := math.Abs(deviation - s.phaseDeviationPrev[i])
			growing := deviation > s.phaseDeviationPrev[i]

			inherit := false
			switch {
			case inheritCount > inheritMax || i == 0:
				inherit = false
			case s.resetPolicy == BandLimited && (i == s.bandLow || i == s.bandHigh):
				inherit = false
			case deviationDelta > phaseDeviationDeltaPrev && growing == growingPrev:
				inherit = true
			}

			ownDelta := princarg(s.stretchRatio * (s.phaseDeltaTarget[i] + deviation))
			if inherit {
				inherited := princarg(s.phaseSynthesis[i-1] - phi[i-1])
				blended := (ownDelta*float64(inheritCount) + inherited*float64(laminarInheritDistanceMax-inheritCount)) / float64(laminarInheritDistanceMax)
				s.phaseSynthesis[i] = phi[i] + blended
				inheritCount++
			} else {
				s.phaseSynthesis[i] += ownDelta
				inheritCount = 0
			}

			phaseDeviationDeltaPrev = deviationDelta
			growingPrev = growing
			s.phaseDeviationPrev[i] = deviation
		}
	}

	return s.finishFrame(phi), nil
}
