package phase

import (
	"math"

	"github.com/cwbudde/algo-phasevocoder/dsp/track"
	"github.com/cwbudde/algo-phasevocoder/dsp/transient"
)

const scaledPeakShadow = 1

// ScaledFactorAuto uses the current time-stretch ratio as the scale factor.
var ScaledFactorAuto = math.Inf(1)

// ScaledLocked implements Laroche & Dolson's scaled phase locking: peaks
// are matched frame-to-frame, and surrounding bins are rotated by a
// configurable fraction (scaleFactor) of the deviation between their own
// unwrapped phase and the matched peak's.
type ScaledLocked struct {
	*base
	scaleFactor float64

	peaksPrev []int
}

// NewScaledLocked creates a ScaledLocked shifter. Pass ScaledFactorAuto to
// scale by the current time-stretch ratio instead of a fixed factor.
func NewScaledLocked(info *track.Info, mode transient.Mode, resetPolicy ResetPolicy, scaleFactor float64) (*ScaledLocked, error) {
	b, err := newBase(info, mode, resetPolicy)
	if err != nil {
		return nil, err
	}
	s := &ScaledLocked{base: b, scaleFactor: scaleFactor}
	if math.IsInf(s.scaleFactor, 1) {
		s.scaleFactor = b.stretchRatio
	}
	return s, nil
}

// Reset clears carried phase, detector, and peak-matching state.
func (s *ScaledLocked) Reset() {
	s.base.Reset()
	s.peaksPrev = nil
}

func relatedPeak(peaksPrev []int, ptr *int, cur int) int {
	for *ptr < len(peaksPrev)-1 && absInt(peaksPrev[*ptr+1]-cur) < absInt(peaksPrev[*ptr]-cur) {
		*ptr++
	}
	return peaksPrev[*ptr]
}

// Process implements Shifter.
func (s *ScaledLocked) Process(spectrum []complex128) ([]float64, error) {
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

	peaksCur := findPeaks(mag, scaledPeakShadow)
	propagateAllowed := !transientDetected || s.resetPolicy == BandLimited

	if propagateAllowed && len(peaksCur) > 0 && len(s.peaksPrev) > 0 {
		usable := peaksCur
		if transientDetected && s.resetPolicy == BandLimited {
			usable = make([]int, 0, len(peaksCur))
			for _, pk := range peaksCur {
				if pk >= s.bandLow && pk < s.bandHigh {
					usable = append(usable, pk)
				}
			}
		}
		if len(usable) > 0 {
			bounds := make([]int, len(usable)+1)
			bounds[0] = lo
			for idx := range usable {
				bounds[idx+1] = upperBound(mag, usable, idx, hi)
			}

			ptr := 0
			for idx, peakCur := range usable {
				peakPrev := relatedPeak(s.peaksPrev, &ptr, peakCur)

				avgIdx := (float64(peakCur) + float64(peakPrev)) / 2.0
				expected := 2 * math.Pi * float64(s.hopAnalysis) * avgIdx / float64(s.framePadded)
				peakDelta := expected + princarg(phi[peakCur]-s.phaseAnalysisPrev[peakPrev]-expected)
				peakAnalysisUnwrapped := s.phaseAnalysisPrev[peakPrev] + peakDelta
				peakSynthesis := s.phaseSynthesis[peakCur] + peakDelta*s.stretchRatio

				regionLo := bounds[idx]
				regionHi := bounds[idx+1]
				for k := regionLo; k < regionHi; k++ {
					delta := princarg(phi[k] - s.phaseAnalysisPrev[k] - s.phaseDeltaTarget[k])
					analysisUnwrapped := s.phaseAnalysisPrev[k] + s.phaseDeltaTarget[k] + delta
					s.scratch[k] = princarg(peakSynthesis + s.scaleFactor*(analysisUnwrapped-peakAnalysisUnwrapped))
				}
			}
			for idx := range usable {
				regionLo := bounds[idx]
				regionHi := bounds[idx+1]
				copy(s.phaseSynthesis[regionLo:regionHi], s.scratch[regionLo:regionHi])
			}
		} else if !transientDetected || s.resetPolicy == BandLimited {
			s.propagateBasic(phi, lo, hi)
		}
	} else if !transientDetected || s.resetPolicy == BandLimited {
		s.propagateBasic(phi, lo, hi)
	}

	s.peaksPrev = append(s.peaksPrev[:0], peaksCur...)
	return s.finishFrame(phi), nil
}
