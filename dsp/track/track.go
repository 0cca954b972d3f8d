// Package track derives the frame-sizing parameters a phase-vocoder pass
// needs from a sample rate and a requested pitch shift.
package track

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-phasevocoder/dsp/window"
)

var (
	// ErrInvalidSampleRate is returned when the sample rate is not positive.
	ErrInvalidSampleRate = errors.New("track: sample rate must be positive")
	// ErrInvalidHopFactor is returned when the hop size factor is not positive.
	ErrInvalidHopFactor = errors.New("track: hop size factor must be positive")
	// ErrHopDoesNotDivide is returned when hop_size_factor does not evenly
	// divide the derived frame size.
	ErrHopDoesNotDivide = errors.New("track: hop size factor must divide frame size")
)

// WindowType selects the analysis/synthesis window shape.
//
// The original source only ever used Hann or Hamming; the core exposes
// only these two through Info, though dsp/window supports many more for
// callers who bypass Info and build their own window.Type directly.
type WindowType int

const (
	WindowHann WindowType = iota
	WindowHamming
)

func (w WindowType) windowType() window.Type {
	if w == WindowHamming {
		return window.TypeHamming
	}
	return window.TypeHann
}

// Info holds the derived, immutable-after-Setup sizing parameters for one
// track's phase-vocoder pass. It is bound to one pitch-shift/time-stretch
// configuration; build a fresh Info for a different shift amount.
type Info struct {
	sampleRate           int
	halfToneStepsToShift float64
	hopSizeFactor        int
	windowType           WindowType
	zeroPadding          bool
	normalize            bool

	frameSize           int
	pitchShiftFactor    float64
	hopSizeSynthesis    int
	hopSizeAnalysis     int
	timeStretchRatio    float64
	frameSizeResampling int
	frameSizePadded     int
	frameSizeNyquist    int
}

// Option configures a new Info.
type Option func(*Info)

// WithSampleRate sets the sample rate in Hz. Required.
func WithSampleRate(hz int) Option {
	return func(i *Info) { i.sampleRate = hz }
}

// WithSemitoneShift sets the signed pitch shift in semitones.
func WithSemitoneShift(semitones float64) Option {
	return func(i *Info) { i.halfToneStepsToShift = semitones }
}

// WithHopSizeFactor sets the overlap denominator (4 => 75% overlap).
func WithHopSizeFactor(factor int) Option {
	return func(i *Info) { i.hopSizeFactor = factor }
}

// WithWindowType sets the analysis/synthesis window shape.
func WithWindowType(t WindowType) Option {
	return func(i *Info) { i.windowType = t }
}

// WithZeroPadding doubles the frame size for the padded FFT length.
func WithZeroPadding(enabled bool) Option {
	return func(i *Info) { i.zeroPadding = enabled }
}

// WithNormalize enables per-frame RMS renormalization of the transformed
// frame against the input frame multiplied by the squared window.
func WithNormalize(enabled bool) Option {
	return func(i *Info) { i.normalize = enabled }
}

// New builds an Info from options and runs Setup.
func New(opts ...Option) (*Info, error) {
	i := &Info{
		sampleRate:    44100,
		hopSizeFactor: 4,
		windowType:    WindowHann,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	if err := i.Setup(); err != nil {
		return nil, err
	}
	return i, nil
}

// Setup (re)computes every derived quantity from the current inputs.
// Call it again after mutating sample rate, shift, hop factor or window
// type through the With* options via a fresh New call.
func (i *Info) Setup() error {
	if i.sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, i.sampleRate)
	}
	if i.hopSizeFactor <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidHopFactor, i.hopSizeFactor)
	}

	i.frameSize = 1 << int(math.Round(math.Log2(float64(i.sampleRate)/20.0)))
	i.pitchShiftFactor = math.Pow(2, i.halfToneStepsToShift/12.0)

	if i.frameSize%i.hopSizeFactor != 0 {
		return fmt.Errorf("%w: frame_size=%d hop_size_factor=%d", ErrHopDoesNotDivide, i.frameSize, i.hopSizeFactor)
	}
	i.hopSizeSynthesis = i.frameSize / i.hopSizeFactor

	hopAnalysis := int(float64(i.hopSizeSynthesis) / i.pitchShiftFactor)
	if hopAnalysis < 1 {
		hopAnalysis = 1
	}
	i.hopSizeAnalysis = hopAnalysis

	i.timeStretchRatio = float64(i.hopSizeSynthesis) / float64(i.hopSizeAnalysis)
	i.frameSizeResampling = int(math.Floor(float64(i.frameSize) * float64(i.hopSizeAnalysis) / float64(i.hopSizeSynthesis)))

	if i.zeroPadding {
		i.frameSizePadded = i.frameSize * 2
	} else {
		i.frameSizePadded = i.frameSize
	}
	i.frameSizeNyquist = i.frameSizePadded/2 + 1

	return nil
}

// SampleRate returns the sample rate in Hz.
func (i *Info) SampleRate() int { return i.sampleRate }

// FrameSize returns the unpadded analysis window length.
func (i *Info) FrameSize() int { return i.frameSize }

// FrameSizePadded returns the FFT length, possibly zero-padded.
func (i *Info) FrameSizePadded() int { return i.frameSizePadded }

// FrameSizeNyquist returns the number of non-redundant real-FFT bins.
func (i *Info) FrameSizeNyquist() int { return i.frameSizeNyquist }

// FrameSizeResampling returns the per-frame resample target length.
func (i *Info) FrameSizeResampling() int { return i.frameSizeResampling }

// HopSizeAnalysis returns the input frame stride in samples.
func (i *Info) HopSizeAnalysis() int { return i.hopSizeAnalysis }

// HopSizeSynthesis returns the output frame stride in samples.
func (i *Info) HopSizeSynthesis() int { return i.hopSizeSynthesis }

// HopSizeFactor returns the configured overlap denominator.
func (i *Info) HopSizeFactor() int { return i.hopSizeFactor }

// PitchShiftFactor returns 2^(semitones/12).
func (i *Info) PitchShiftFactor() float64 { return i.pitchShiftFactor }

// TimeStretchRatio returns hop_size_synthesis / hop_size_analysis.
func (i *Info) TimeStretchRatio() float64 { return i.timeStretchRatio }

// HalfToneStepsToShift returns the configured signed semitone shift.
func (i *Info) HalfToneStepsToShift() float64 { return i.halfToneStepsToShift }

// WindowType returns the configured window shape.
func (i *Info) WindowType() WindowType { return i.windowType }

// SpectralWindowType returns the dsp/window.Type equivalent for generation.
func (i *Info) SpectralWindowType() window.Type { return i.windowType.windowType() }

// ZeroPadding reports whether the FFT frame is zero-padded to 2x frame size.
func (i *Info) ZeroPadding() bool { return i.zeroPadding }

// Normalize reports whether transformed frames are RMS-renormalized
// against the input frame multiplied by the squared window before
// overlap-add.
func (i *Info) Normalize() bool { return i.normalize }

// FolderName returns the "<name>_<shift>" directory name used by the
// output layout contract, e.g. "piano_5" for a +5 semitone shift.
func (i *Info) FolderName(trackName string) string {
	return fmt.Sprintf("%s_%s", trackName, shiftSuffix(i.halfToneStepsToShift))
}

// FileName returns the "<name>_<shift>.<ext>" file name used by the
// output layout contract.
func (i *Info) FileName(name, ext string) string {
	return fmt.Sprintf("%s_%s.%s", name, shiftSuffix(i.halfToneStepsToShift), ext)
}

func shiftSuffix(semitones float64) string {
	if semitones == math.Trunc(semitones) {
		return fmt.Sprintf("%d", int64(semitones))
	}
	return fmt.Sprintf("%g", semitones)
}

// RealtimeRatio reports how many seconds of wall-clock processing time
// were spent per second of audio, e.g. 0.5 means the pass ran at 2x
// real time.
func RealtimeRatio(sampleCount, sampleRate int, elapsed time.Duration) float64 {
	if sampleRate <= 0 || sampleCount <= 0 {
		return 0
	}
	audioSeconds := float64(sampleCount) / float64(sampleRate)
	if audioSeconds <= 0 {
		return 0
	}
	return elapsed.Seconds() / audioSeconds
}

// DownmixToMono averages one or more channels of equal length into a
// single mono channel. channels must be non-empty and all of equal length.
func DownmixToMono(channels [][]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}
	if len(channels) == 1 {
		out := make([]float64, len(channels[0]))
		copy(out, channels[0])
		return out
	}
	n := len(channels[0])
	out := make([]float64, n)
	for _, ch := range channels {
		for i := 0; i < n && i < len(ch); i++ {
			out[i] += ch[i]
		}
	}
	inv := 1.0 / float64(len(channels))
	for i := range out {
		out[i] *= inv
	}
	return out
}
