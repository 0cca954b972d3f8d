// Package eval implements the phase-vocoder's time-aligned magnitude RMSD
// evaluator: it crops and aligns a reference rendering against a
// transformed one, then reports the root-mean-squared deviation between
// their per-frame, peak-normalized magnitude spectra.
package eval

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-phasevocoder/dsp/spectrum"
	"github.com/cwbudde/algo-phasevocoder/dsp/track"
	"github.com/cwbudde/algo-phasevocoder/dsp/window"
	algofft "github.com/MeKo-Christian/algo-fft"
)

// FramePair holds one frame's reference and transformed magnitude (or
// phase) vectors, produced by SquaredDeviation.
type FramePair struct {
	Reference   []float64
	Transformed []float64
}

// TimeAlignCrop skips skipFrameCount leading frames from both reference and
// transformed, then searches the first frameSize samples for the integer
// offset into transformed that minimizes the time-domain RMSD against
// reference, and crops both to a common frame-size-aligned length.
//
// The length formula subtracts skipFrameCount a second time, mirroring the
// reference evaluator exactly; this slightly undershoots the available
// samples but is load-bearing for matching its numerics.
func TimeAlignCrop(info *track.Info, reference, transformed []float64, skipFrameCount int) (croppedReference, croppedTransformed []float64) {
	frameSize := info.FrameSize()
	skipOffset := skipFrameCount * frameSize

	transformed = sliceFrom(transformed, skipOffset)
	reference = sliceFrom(reference, skipOffset)

	alignOffset := 0
	minRMSD := 1.0
	maxOffset := frameSize
	if maxOffset > len(reference)-frameSize {
		maxOffset = max0(len(reference) - frameSize)
	}
	if maxOffset > len(transformed)-frameSize+1 {
		// transformed must supply frameSize samples starting at every
		// candidate offset the inner loop reads.
		maxOffset = max0(len(transformed) - frameSize + 1)
	}
	for i := 0; i < maxOffset; i++ {
		sum := 0.0
		for j := 0; j < frameSize; j++ {
			d := transformed[i+j] - reference[j]
			sum += d * d
		}
		rmsd := math.Sqrt(sum / float64(info.SampleRate()))
		if rmsd < minRMSD {
			minRMSD = rmsd
			alignOffset = i
		}
	}

	length := (min(len(transformed), len(reference))/frameSize - skipFrameCount) * frameSize
	if length < 0 {
		length = 0
	}
	hi := alignOffset + length
	if hi > len(transformed) {
		hi = len(transformed)
	}
	if alignOffset > hi {
		alignOffset = hi
	}
	croppedTransformed = append([]float64(nil), transformed[alignOffset:hi]...)
	if length > len(reference) {
		length = len(reference)
	}
	croppedReference = append([]float64(nil), reference[:length]...)
	return croppedReference, croppedTransformed
}

// SquaredDeviation windows and FFTs matching hop-spaced frames of reference
// and transformed, normalizes each frame's magnitude spectrum by its own
// peak, and returns the per-frame magnitude and phase pairs.
func SquaredDeviation(info *track.Info, win []float64, reference, transformed []float64) (magnitude, phase []FramePair, err error) {
	frameSize := info.FrameSize()
	if len(win) != frameSize {
		return nil, nil, fmt.Errorf("eval: window length %d != frame size %d", len(win), frameSize)
	}
	hop := info.HopSizeSynthesis()
	if hop <= 0 {
		return nil, nil, fmt.Errorf("eval: hop_size_synthesis must be positive, got %d", hop)
	}

	plan, err := algofft.NewPlan64(frameSize)
	if err != nil {
		return nil, nil, fmt.Errorf("eval: failed to create FFT plan: %w", err)
	}

	limit := len(reference) - frameSize
	if limit > len(transformed)-frameSize {
		limit = len(transformed) - frameSize
	}
	for i := 0; i < limit; i += hop {
		refMag, refPhase, err := windowedSpectrum(plan, reference[i:i+frameSize], win)
		if err != nil {
			return nil, nil, err
		}
		transMag, transPhase, err := windowedSpectrum(plan, transformed[i:i+frameSize], win)
		if err != nil {
			return nil, nil, err
		}
		normalize(refMag)
		normalize(transMag)
		magnitude = append(magnitude, FramePair{Reference: refMag, Transformed: transMag})
		phase = append(phase, FramePair{Reference: refPhase, Transformed: transPhase})
	}
	return magnitude, phase, nil
}

// RMSD computes the root-mean-squared deviation across every bin of every
// frame pair, normalized by frameCount * frameSize.
func RMSD(info *track.Info, pairs []FramePair) float64 {
	if len(pairs) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range pairs {
		n := len(p.Reference)
		if len(p.Transformed) < n {
			n = len(p.Transformed)
		}
		for k := 0; k < n; k++ {
			d := p.Reference[k] - p.Transformed[k]
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(len(pairs)*info.FrameSize()))
}

// Evaluate is the end-to-end convenience entry point: skip the first five
// frames of both renderings, time-align and crop them, and report the
// magnitude RMSD between their windowed spectra.
func Evaluate(info *track.Info, reference, transformed []float64) (float64, error) {
	const skipFrames = 5
	ref, trans := TimeAlignCrop(info, reference, transformed, skipFrames)

	win := window.Generate(info.SpectralWindowType(), info.FrameSize(), window.WithPeriodic())
	magPairs, _, err := SquaredDeviation(info, win, ref, trans)
	if err != nil {
		return 0, err
	}
	return RMSD(info, magPairs), nil
}

func windowedSpectrum(plan *algofft.Plan[complex128], frame, win []float64) (magnitude, phase []float64, err error) {
	buf := make([]complex128, len(frame))
	for i, v := range frame {
		buf[i] = complex(v*win[i], 0)
	}
	if err := plan.Forward(buf, buf); err != nil {
		return nil, nil, fmt.Errorf("eval: forward FFT failed: %w", err)
	}
	magnitude = spectrum.Magnitude(buf)
	phase = spectrum.Phase(buf)
	return magnitude, phase, nil
}

// normalize divides every element of mag by its own maximum in place. A
// silent (all-zero) frame is left untouched rather than dividing by zero.
func normalize(mag []float64) {
	peak := 0.0
	for _, v := range mag {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return
	}
	for i, v := range mag {
		mag[i] = v / peak
	}
}

func sliceFrom(s []float64, offset int) []float64 {
	if offset >= len(s) {
		return nil
	}
	if offset < 0 {
		offset = 0
	}
	return s[offset:]
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
