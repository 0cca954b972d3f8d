// Package wrapper implements the overlap-add plumbing around a transform
// driver: edge padding, frame extraction, synthesis accumulation, and the
// final rescale back to a bounded amplitude.
package wrapper

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-phasevocoder/dsp/buffer"
	"github.com/cwbudde/algo-phasevocoder/dsp/core"
	"github.com/cwbudde/algo-phasevocoder/dsp/transform"
)

// pad extends both ends of samples by frameSize using a reversed, negated
// copy of the outer edge, suppressing boundary transients at the seams
// an overlap-add pass would otherwise introduce.
func pad(samples []float64, frameSize int) []float64 {
	n := len(samples)
	head := make([]float64, frameSize)
	tail := make([]float64, frameSize)
	for i := 0; i < frameSize && i < n; i++ {
		head[frameSize-1-i] = -samples[i]
		tail[i] = -samples[n-1-i]
	}
	out := make([]float64, 0, n+2*frameSize)
	out = append(out, head...)
	out = append(out, samples...)
	out = append(out, tail...)
	return out
}

// unpad trims the leading frameSize samples added by pad and truncates to
// targetLength.
func unpad(samples []float64, frameSize, targetLength int) []float64 {
	lo := frameSize
	hi := lo + targetLength
	if hi > len(samples) {
		hi = len(samples)
	}
	if lo > hi {
		lo = hi
	}
	out := make([]float64, hi-lo)
	copy(out, samples[lo:hi])
	return out
}

// olaRescale divides the summed synthesis output by the larger of the
// window's COLA normalization constant and the output's own peak,
// guaranteeing the result never exceeds unit amplitude.
func olaRescale(samples, windowSquared []float64, hopSizeSynthesis int) []float64 {
	sumWinSq := 0.0
	for _, w := range windowSquared {
		sumWinSq += w
	}
	rescale := sumWinSq / float64(hopSizeSynthesis)

	peak := 0.0
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	divisor := math.Max(rescale, peak)
	if divisor == 0 {
		return samples
	}

	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = v / divisor
	}
	return out
}

// PitchShiftWrapper drives a transform.Processor in pitch-shift mode: each
// transformed-and-resampled frame is written back at the analysis hop
// spacing, so total duration is preserved while pitch changes.
type PitchShiftWrapper struct {
	proc transform.Processor
	pool *buffer.Pool
}

// NewPitchShiftWrapper wraps proc for pitch-shift-mode overlap-add.
func NewPitchShiftWrapper(proc transform.Processor) (*PitchShiftWrapper, error) {
	if proc == nil {
		return nil, fmt.Errorf("wrapper: processor must not be nil")
	}
	return &PitchShiftWrapper{proc: proc, pool: buffer.NewPool()}, nil
}

// Process pitch-shifts base and returns a result the same length as base.
func (w *PitchShiftWrapper) Process(base []float64) ([]float64, error) {
	info := w.proc.Info()
	frameSize := info.FrameSize()
	hopAnalysis := info.HopSizeAnalysis()

	padded := pad(base, frameSize)

	synthesis := w.pool.Get(len(padded) * 2)
	defer w.pool.Put(synthesis)
	acc := synthesis.Samples()

	for a := 0; a+frameSize < len(padded); a += hopAnalysis {
		frame := padded[a : a+frameSize]
		result, err := w.proc.Transform(frame)
		if err != nil {
			return nil, fmt.Errorf("wrapper: pitch-shift transform failed at offset %d: %w", a, err)
		}
		end := a + len(result.Samples)
		if end > len(acc) {
			grown := make([]float64, end)
			core.CopyInto(grown, acc)
			acc = grown
		}
		for i, v := range result.Samples {
			acc[a+i] += v
		}
	}

	out := unpad(acc, frameSize, len(base))
	return olaRescale(out, w.proc.WindowSquared(), info.HopSizeSynthesis()), nil
}

// TimeStretchWrapper drives a transform.Processor in time-stretch mode:
// transformed frames are written at the synthesis hop spacing, changing
// total duration by the track's time-stretch ratio while advancing the
// analysis cursor at the analysis hop.
type TimeStretchWrapper struct {
	proc transform.Processor
	pool *buffer.Pool
}

// NewTimeStretchWrapper wraps proc for time-stretch-mode overlap-add.
func NewTimeStretchWrapper(proc transform.Processor) (*TimeStretchWrapper, error) {
	if proc == nil {
		return nil, fmt.Errorf("wrapper: processor must not be nil")
	}
	return &TimeStretchWrapper{proc: proc, pool: buffer.NewPool()}, nil
}

// Process time-stretches base and returns a result approximately
// len(base)*TimeStretchRatio samples long.
func (w *TimeStretchWrapper) Process(base []float64) ([]float64, error) {
	info := w.proc.Info()
	frameSize := info.FrameSize()
	hopAnalysis := info.HopSizeAnalysis()
	hopSynthesis := info.HopSizeSynthesis()

	padded := pad(base, frameSize)

	synthesis := w.pool.Get(len(padded) * 2)
	defer w.pool.Put(synthesis)
	acc := synthesis.Samples()

	s := 0
	for a := 0; a+frameSize < len(base); a += hopAnalysis {
		frame := padded[frameSize+a : frameSize+a+frameSize]
		result, err := w.proc.Transform(frame)
		if err != nil {
			return nil, fmt.Errorf("wrapper: time-stretch transform failed at offset %d: %w", a, err)
		}
		end := s + len(result.Samples)
		if end > len(acc) {
			grown := make([]float64, end)
			core.CopyInto(grown, acc)
			acc = grown
		}
		for i, v := range result.Samples {
			acc[s+i] += v
		}
		s += hopSynthesis
	}

	targetLength := int(float64(len(base)) * info.TimeStretchRatio())
	out := unpad(acc, frameSize, targetLength)
	return olaRescale(out, w.proc.WindowSquared(), hopSynthesis), nil
}
