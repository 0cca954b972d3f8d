package phase

import (
	"github.com/cwbudde/algo-phasevocoder/dsp/track"
	"github.com/cwbudde/algo-phasevocoder/dsp/transient"
)

// Basic implements the DAFX-style phase vocoder phase update: every bin is
// unwrapped and advanced independently, with no cross-bin locking.
type Basic struct {
	*base
}

// NewBasic creates a Basic shifter bound to info, with the given transient
// detection mode and phase-reset policy.
func NewBasic(info *track.Info, mode transient.Mode, resetPolicy ResetPolicy) (*Basic, error) {
	b, err := newBase(info, mode, resetPolicy)
	if err != nil {
		return nil, err
	}
	return &Basic{base: b}, nil
}

// Process implements Shifter.
func (s *Basic) Process(spectrum []complex128) ([]float64, error) {
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
		s.propagateBasic(phi, lo, hi)
	}

	return s.finishFrame(phi), nil
}
