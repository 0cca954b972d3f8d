package resample

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-phasevocoder/dsp/interp"
)

// ErrFrameSizeMismatch is returned by FrameResampler.Process when the input
// frame does not have the configured frame size.
var ErrFrameSizeMismatch = fmt.Errorf("resample: frame length mismatch")

// FrameResampler stretches or compresses a fixed-size time-domain frame to
// frameSizeOut samples using linear interpolation, reproducing the
// block-by-block resampling step of a phase-vocoder pitch shifter. Index and
// weight vectors are precomputed once at construction time since they only
// depend on the frame-size ratio, not on the frame content.
type FrameResampler struct {
	frameSizeIn  int
	frameSizeOut int

	indexLeft   []int
	weightRight []float64

	interpolator *interp.LagrangeInterpolator
	scratch      []float64
}

// NewFrameResampler creates a FrameResampler mapping a frame of frameSizeIn
// samples onto one of frameSizeOut samples.
func NewFrameResampler(frameSizeIn, frameSizeOut int) (*FrameResampler, error) {
	if frameSizeIn <= 0 || frameSizeOut <= 0 {
		return nil, fmt.Errorf("resample: frame sizes must be > 0: in=%d out=%d", frameSizeIn, frameSizeOut)
	}

	r := &FrameResampler{
		frameSizeIn:  frameSizeIn,
		frameSizeOut: frameSizeOut,
		indexLeft:    make([]int, frameSizeOut),
		weightRight:  make([]float64, frameSizeOut),
		interpolator: interp.NewLagrangeInterpolator(1),
		scratch:      make([]float64, frameSizeIn+1),
	}

	stretch := float64(frameSizeIn) / float64(frameSizeOut)
	for i := 0; i < frameSizeOut; i++ {
		pos := float64(i) * stretch
		left := int(math.Floor(pos))
		r.indexLeft[i] = left
		r.weightRight[i] = pos - float64(left)
	}
	return r, nil
}

// FrameSizeIn returns the expected input frame length.
func (r *FrameResampler) FrameSizeIn() int { return r.frameSizeIn }

// FrameSizeOut returns the produced output frame length.
func (r *FrameResampler) FrameSizeOut() int { return r.frameSizeOut }

// Process resamples frame (which must have length FrameSizeIn) into a new
// slice of length FrameSizeOut using precomputed linear-interpolation
// indices and weights.
func (r *FrameResampler) Process(frame []float64) ([]float64, error) {
	if len(frame) != r.frameSizeIn {
		return nil, fmt.Errorf("%w: got %d want %d", ErrFrameSizeMismatch, len(frame), r.frameSizeIn)
	}

	// pad a trailing zero so the rightmost index (left+1) never reads past
	// the frame, mirroring the reference block-by-block resampler.
	copy(r.scratch, frame)
	r.scratch[r.frameSizeIn] = 0

	out := make([]float64, r.frameSizeOut)
	pair := make([]float64, 2)
	for i := 0; i < r.frameSizeOut; i++ {
		left := r.indexLeft[i]
		pair[0], pair[1] = r.scratch[left], r.scratch[left+1]
		out[i] = r.interpolator.Interpolate(pair, r.weightRight[i])
	}
	return out, nil
}
