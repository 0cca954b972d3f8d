// Package transform drives the phase-vocoder's per-frame STFT core: window,
// FFT, phase shift, inverse FFT, and (for pitch shifting) frame resampling.
package transform

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-phasevocoder/dsp/phase"
	"github.com/cwbudde/algo-phasevocoder/dsp/resample"
	"github.com/cwbudde/algo-phasevocoder/dsp/spectrum"
	"github.com/cwbudde/algo-phasevocoder/dsp/track"
	"github.com/cwbudde/algo-phasevocoder/dsp/window"
	algofft "github.com/MeKo-Christian/algo-fft"
)

// Result carries one frame's transformed samples together with the
// magnitude and phase spectra that produced them, mirroring the three
// return values an evaluator needs to compare against a reference track.
type Result struct {
	Samples   []float64
	Magnitude []float64
	Phase     []float64
}

// Processor is implemented by PitchShifter and TimeStretcher.
type Processor interface {
	// Transform runs one time-domain frame (frameSize samples) through the
	// STFT core and returns the processed frame.
	Transform(frame []float64) (Result, error)
	// Info returns the track sizing this processor was built for.
	Info() *track.Info
	// WindowSquared returns the squared analysis/synthesis window, used by
	// wrappers to rescale overlap-added output; processors with Normalize
	// enabled also use it internally to RMS-normalize frames.
	WindowSquared() []float64
}

// core holds the STFT machinery shared by PitchShifter and TimeStretcher.
type core struct {
	info   *track.Info
	shift  phase.Shifter
	plan   *algofft.Plan[complex128]
	window []float64
	winSq  []float64

	padded    []complex128
	nyq       int
	magnitude []float64
	re, im    []float64
}

func newCore(info *track.Info, shifter phase.Shifter) (*core, error) {
	if info == nil {
		return nil, fmt.Errorf("transform: info must not be nil")
	}
	if shifter == nil {
		return nil, fmt.Errorf("transform: shifter must not be nil")
	}

	coeffs := window.Generate(info.SpectralWindowType(), info.FrameSize(), window.WithPeriodic())
	if len(coeffs) != info.FrameSize() {
		return nil, fmt.Errorf("transform: window generation failed for size %d", info.FrameSize())
	}
	winSq := make([]float64, len(coeffs))
	for i, c := range coeffs {
		winSq[i] = c * c
	}

	plan, err := algofft.NewPlan64(info.FrameSizePadded())
	if err != nil {
		return nil, fmt.Errorf("transform: failed to create FFT plan: %w", err)
	}

	return &core{
		info:      info,
		shift:     shifter,
		plan:      plan,
		window:    coeffs,
		winSq:     winSq,
		padded:    make([]complex128, info.FrameSizePadded()),
		nyq:       info.FrameSizeNyquist(),
		magnitude: make([]float64, info.FrameSizeNyquist()),
		re:        make([]float64, info.FrameSizeNyquist()),
		im:        make([]float64, info.FrameSizeNyquist()),
	}, nil
}

// Info implements Processor.
func (c *core) Info() *track.Info { return c.info }

// WindowSquared implements Processor.
func (c *core) WindowSquared() []float64 { return c.winSq }

// transform runs the shared window -> FFT -> phase shift -> inverse FFT
// pipeline and returns the reconstructed time-domain frame (still at
// frameSize length, before any resampling), its magnitude spectrum, and
// the phase-shifted phase spectrum.
func (c *core) transform(frame []float64) ([]float64, []float64, []float64, error) {
	frameSize := c.info.FrameSize()
	if len(frame) != frameSize {
		return nil, nil, nil, fmt.Errorf("transform: frame length mismatch: got %d want %d", len(frame), frameSize)
	}

	for i := 0; i < frameSize; i++ {
		c.padded[i] = complex(frame[i]*c.window[i], 0)
	}
	for i := frameSize; i < len(c.padded); i++ {
		c.padded[i] = 0
	}

	if err := c.plan.Forward(c.padded, c.padded); err != nil {
		return nil, nil, nil, fmt.Errorf("transform: forward FFT failed: %w", err)
	}

	analysisSpectrum := c.padded[:c.nyq]
	for k, v := range analysisSpectrum {
		c.re[k] = real(v)
		c.im[k] = imag(v)
	}
	spectrum.MagnitudeFromParts(c.magnitude, c.re, c.im)

	phaseTransformed, err := c.shift.Process(analysisSpectrum)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("transform: phase shift failed: %w", err)
	}

	framePadded := len(c.padded)
	half := framePadded / 2
	for k := 0; k < c.nyq; k++ {
		c.padded[k] = cmplx.Rect(c.magnitude[k], phaseTransformed[k])
	}
	c.padded[0] = complex(real(c.padded[0]), 0)
	if half < framePadded {
		c.padded[half] = complex(real(c.padded[half]), 0)
	}
	for k := 1; k < half; k++ {
		c.padded[framePadded-k] = cmplx.Conj(c.padded[k])
	}

	if err := c.plan.Inverse(c.padded, c.padded); err != nil {
		return nil, nil, nil, fmt.Errorf("transform: inverse FFT failed: %w", err)
	}

	out := make([]float64, frameSize)
	for i := 0; i < frameSize; i++ {
		out[i] = real(c.padded[i]) * c.window[i]
	}

	magnitude := make([]float64, c.nyq)
	copy(magnitude, c.magnitude)

	return out, magnitude, phaseTransformed, nil
}

// PitchShifter transforms a frame and resamples it back to
// frameSizeResampling, trading duration for pitch.
type PitchShifter struct {
	*core
	resampler *resample.FrameResampler
}

// NewPitchShifter builds a PitchShifter driven by the given phase shifter.
func NewPitchShifter(info *track.Info, shifter phase.Shifter) (*PitchShifter, error) {
	c, err := newCore(info, shifter)
	if err != nil {
		return nil, err
	}
	r, err := resample.NewFrameResampler(info.FrameSize(), info.FrameSizeResampling())
	if err != nil {
		return nil, fmt.Errorf("transform: failed to build frame resampler: %w", err)
	}
	return &PitchShifter{core: c, resampler: r}, nil
}

// Transform implements Processor.
func (p *PitchShifter) Transform(frame []float64) (Result, error) {
	transformed, magnitude, phaseOut, err := p.transform(frame)
	if err != nil {
		return Result{}, err
	}
	resampled, err := p.resampler.Process(transformed)
	if err != nil {
		return Result{}, fmt.Errorf("transform: resampling failed: %w", err)
	}
	if p.info.Normalize() {
		resampled = normalize(frame, p.winSq, resampled)
	}
	return Result{Samples: resampled, Magnitude: magnitude, Phase: phaseOut}, nil
}

// TimeStretcher transforms a frame without resampling, changing the
// output's duration relative to the input via the caller's hop spacing.
type TimeStretcher struct {
	*core
}

// NewTimeStretcher builds a TimeStretcher driven by the given phase shifter.
func NewTimeStretcher(info *track.Info, shifter phase.Shifter) (*TimeStretcher, error) {
	c, err := newCore(info, shifter)
	if err != nil {
		return nil, err
	}
	return &TimeStretcher{core: c}, nil
}

// Transform implements Processor.
func (t *TimeStretcher) Transform(frame []float64) (Result, error) {
	transformed, magnitude, phaseOut, err := t.transform(frame)
	if err != nil {
		return Result{}, err
	}
	if t.info.Normalize() {
		transformed = normalize(frame, t.winSq, transformed)
	}
	return Result{Samples: transformed, Magnitude: magnitude, Phase: phaseOut}, nil
}

// normalize rescales frameOut so its RMS matches that of frameIn multiplied
// by the squared window, compensating for energy lost or gained by the phase-vocoder
// reconstruction.
func normalize(frameIn, windowSquared, frameOut []float64) []float64 {
	sumIn := 0.0
	for i, v := range frameIn {
		w := v * windowSquared[i]
		sumIn += w * w
	}
	rmsIn := math.Sqrt(sumIn / float64(len(frameIn)))

	sumOut := 0.0
	for _, v := range frameOut {
		sumOut += v * v
	}
	rmsOut := math.Sqrt(sumOut / float64(len(frameOut)))
	if rmsOut == 0 {
		return frameOut
	}

	scale := rmsIn / rmsOut
	out := make([]float64, len(frameOut))
	for i, v := range frameOut {
		out[i] = v * scale
	}
	return out
}
