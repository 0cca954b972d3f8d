package phase

import (
	"github.com/cwbudde/algo-phasevocoder/dsp/track"
	"github.com/cwbudde/algo-phasevocoder/dsp/transient"
)

const identityPeakShadow = 1

// IdentityLocked implements Laroche & Dolson's identity phase locking:
// every bin within a detected peak's region of influence is rotated by
// the same amount as the peak itself, eliminating cross-bin beating
// within one sinusoidal partial.
type IdentityLocked struct {
	*base
}

// NewIdentityLocked creates an IdentityLocked shifter.
func NewIdentityLocked(info *track.Info, mode transient.Mode, resetPolicy ResetPolicy) (*IdentityLocked, error) {
	b, err := newBase(info, mode, resetPolicy)
	if err != nil {
		return nil, err
	}
	return &IdentityLocked{base: b}, nil
}

// Process implements Shifter.
func (s *IdentityLocked) Process(spectrum []complex128) ([]float64, error) {
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
		sub := mag[lo:hi]
		localPeaks := findPeaks(sub, identityPeakShadow)
		if len(localPeaks) == 0 {
			s.propagateBasic(phi, lo, hi)
		} else {
			bounds := make([]int, len(localPeaks)+1)
			bounds[0] = lo
			for idx := range localPeaks {
				bounds[idx+1] = upperBound(sub, localPeaks, idx, hi-lo) + lo
			}
			for idx, localPeak := range localPeaks {
				peak := localPeak + lo
				// The original source's peak match is self-referential
				// (this bin's own carried phase_synthesis, not a
				// cross-frame peak match) but still horizontally
				// propagates that carried value by the peak's own phase
				// delta before rotating -- get_phase_rotation's
				// peak_phase_delta/peak_phase_target steps.
				peakPhaseDelta := s.phaseDeltaTarget[peak] + princarg(phi[peak]-s.phaseAnalysisPrev[peak]-s.phaseDeltaTarget[peak])
				peakPhaseTarget := princarg(s.phaseSynthesis[peak] + peakPhaseDelta*s.stretchRatio)
				rotation := princarg(peakPhaseTarget - phi[peak])
				regionLo := bounds[idx]
				regionHi := bounds[idx+1]
				for k := regionLo; k < regionHi; k++ {
					s.scratch[k] = princarg(phi[k] + rotation)
				}
			}
			for idx := range localPeaks {
				regionLo := bounds[idx]
				regionHi := bounds[idx+1]
				copy(s.phaseSynthesis[regionLo:regionHi], s.scratch[regionLo:regionHi])
			}
		}
	}

	return s.finishFrame(phi), nil
}
