// Package phase implements the phase-vocoder's per-bin phase propagation
// core: five interchangeable phase shifters (basic, identity-locked,
// scaled-locked, laminar, and heap-driven dynamic), built on top of a
// shared transient-aware phase-reset policy.
package phase

import (
	"errors"
	"fmt"
	"math"

	spec "github.com/cwbudde/algo-phasevocoder/dsp/spectrum"
	"github.com/cwbudde/algo-phasevocoder/dsp/track"
	"github.com/cwbudde/algo-phasevocoder/dsp/transient"
)

// ResetPolicy selects how a detected transient affects phase propagation.
type ResetPolicy int

const (
	// FullRange overwrites the entire synthesis-phase vector with the
	// analysis phase and skips propagation for the frame.
	FullRange ResetPolicy = iota
	// BandLimited resets only the bins outside [bandLow, bandHigh) and
	// runs normal propagation within that band.
	BandLimited
)

var (
	// ErrInvalidBand is returned when band_low >= band_high at
	// configuration time.
	ErrInvalidBand = errors.New("phase: band_low must be < band_high")
	// ErrSpectrumLength is returned when a spectrum does not have the
	// expected number of Nyquist bins.
	ErrSpectrumLength = errors.New("phase: spectrum length mismatch")
)

// princarg wraps x to the principal argument range (-pi, pi].
func princarg(x float64) float64 {
	return x - 2*math.Pi*math.Round(x/(2*math.Pi))
}

// Shifter produces a new per-bin synthesis phase vector from a complex
// spectrum and its own carried state. Implementations are bound to one
// TrackInfo and are not safe for concurrent use or reuse across tracks.
type Shifter interface {
	// Process consumes one frame's complex spectrum (frameSizeNyquist
	// bins) and returns the synthesis phase for the same bins. The
	// returned slice is owned by the caller and safe to retain.
	Process(spectrum []complex128) ([]float64, error)
	// Reset clears all carried phase and detector state.
	Reset()
}

// base holds the state and constants shared by every shifter variant.
type base struct {
	nyq          int
	hopAnalysis  int
	framePadded  int
	sampleRate   int
	stretchRatio float64

	phaseDeltaTarget  []float64
	phaseAnalysisPrev []float64
	phaseSynthesis    []float64

	detector    *transient.Detector
	resetPolicy ResetPolicy
	bandLow     int
	bandHigh    int

	frameIndex int

	mag     []float64
	phi     []float64
	scratch []float64
	re      []float64
	im      []float64
}

func newBase(info *track.Info, mode transient.Mode, resetPolicy ResetPolicy) (*base, error) {
	nyq := info.FrameSizeNyquist()
	framePadded := info.FrameSizePadded()
	sampleRate := info.SampleRate()

	bandLow := int(math.Floor(150.0 * float64(framePadded) / float64(sampleRate)))
	bandHigh := int(math.Floor(1000.0 * float64(framePadded) / float64(sampleRate)))
	if resetPolicy == BandLimited && bandLow >= bandHigh {
		return nil, fmt.Errorf("%w: band_low=%d band_high=%d", ErrInvalidBand, bandLow, bandHigh)
	}

	b := &base{
		nyq:          nyq,
		hopAnalysis:  info.HopSizeAnalysis(),
		framePadded:  framePadded,
		sampleRate:   sampleRate,
		stretchRatio: info.TimeStretchRatio(),
		resetPolicy:  resetPolicy,
		bandLow:      bandLow,
		bandHigh:     bandHigh,

		phaseDeltaTarget:  make([]float64, nyq),
		phaseAnalysisPrev: make([]float64, nyq),
		phaseSynthesis:    make([]float64, nyq),
		mag:               make([]float64, nyq),
		phi:               make([]float64, nyq),
		scratch:           make([]float64, nyq),
		re:                make([]float64, nyq),
		im:                make([]float64, nyq),
	}
	for k := 0; k < nyq; k++ {
		b.phaseDeltaTarget[k] = 2 * math.Pi * float64(b.hopAnalysis) * float64(k) / float64(framePadded)
	}
	if mode != transient.ModeNone {
		b.detector = transient.NewDetector(mode, nyq)
	}
	return b, nil
}

func (b *base) Reset() {
	for i := range b.phaseAnalysisPrev {
		b.phaseAnalysisPrev[i] = 0
		b.phaseSynthesis[i] = 0
	}
	b.frameIndex = 0
	if b.detector != nil {
		b.detector = transient.NewDetector(b.detector.Mode(), b.nyq)
	}
}

// magPhase extracts magnitude and phase from spectrum into the base's
// reusable scratch slices.
func (b *base) magPhase(spectrum []complex128) ([]float64, []float64, error) {
	if len(spectrum) < b.nyq {
		return nil, nil, fmt.Errorf("%w: got %d want >= %d", ErrSpectrumLength, len(spectrum), b.nyq)
	}
	for k := 0; k < b.nyq; k++ {
		b.re[k] = real(spectrum[k])
		b.im[k] = imag(spectrum[k])
	}
	spec.MagnitudeFromParts(b.mag, b.re, b.im)
	for k := 0; k < b.nyq; k++ {
		if math.IsNaN(b.mag[k]) {
			b.mag[k] = 0
		}
		b.phi[k] = math.Atan2(b.im[k], b.re[k])
	}
	return b.mag, b.phi, nil
}

// phaseReset applies the configured reset policy given the current
// analysis phase, and returns the [lo, hi) bin range that should still be
// propagated normally this frame.
func (b *base) phaseReset(phi []float64) (lo, hi int) {
	if b.resetPolicy == BandLimited {
		copy(b.phaseSynthesis[:b.bandLow], phi[:b.bandLow])
		copy(b.phaseSynthesis[b.bandHigh:b.nyq], phi[b.bandHigh:b.nyq])
		return b.bandLow, b.bandHigh
	}
	copy(b.phaseSynthesis, phi)
	return 0, b.nyq
}

// propagateBasic runs the DAFX basic phase-unwrapping update over [lo, hi).
func (b *base) propagateBasic(phi []float64, lo, hi int) {
	for k := lo; k < hi; k++ {
		delta := princarg(phi[k] - b.phaseAnalysisPrev[k] - b.phaseDeltaTarget[k])
		trueDelta := b.phaseDeltaTarget[k] + delta
		b.phaseSynthesis[k] = princarg(b.phaseSynthesis[k] + trueDelta*b.stretchRatio)
	}
}

// finishFrame wraps the carried synthesis phase back into (-pi, pi] (per
// spec invariant, even for variants like Laminar whose per-bin update
// doesn't re-wrap on every assignment), caches the analysis phase for the
// next frame, and returns a caller-owned copy.
func (b *base) finishFrame(phi []float64) []float64 {
	for k := range b.phaseSynthesis {
		b.phaseSynthesis[k] = princarg(b.phaseSynthesis[k])
	}
	copy(b.phaseAnalysisPrev, phi)
	b.frameIndex++
	out := make([]float64, b.nyq)
	copy(out, b.phaseSynthesis)
	return out
}

// findPeaks returns the indices within mag that are local magnitude peaks:
// strictly greater than every neighbor within [-shadow, +shadow]. The scan only considers i in [shadow, len(mag)-shadow), so a
// peak's full neighborhood is always in range and the boundary bins can
// never be flagged; zero-magnitude bins are skipped, and the scan advances
// by shadow+1 bins past every peak found.
func findPeaks(mag []float64, shadow int) []int {
	var peaks []int
	n := len(mag)
	for i := shadow; i < n-shadow; {
		if mag[i] == 0 {
			i++
			continue
		}
		isPeak := true
		for j := -shadow; j <= shadow; j++ {
			if j == 0 {
				continue
			}
			if mag[i] <= mag[i+j] {
				isPeak = false
				break
			}
		}
		if isPeak {
			peaks = append(peaks, i)
			i += shadow + 1
		} else {
			i++
		}
	}
	return peaks
}

// upperBound returns the exclusive end of peaks[idx]'s region of
// influence: the next local magnitude minimum after the peak, or hi if
// this is the last peak (or there is only one).
func upperBound(mag []float64, peaks []int, idx, hi int) int {
	if idx == len(peaks)-1 || len(peaks) <= 1 {
		return hi
	}
	i := peaks[idx]
	for i+1 < hi && mag[i+1] < mag[i] {
		i++
	}
	return i + 1
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
