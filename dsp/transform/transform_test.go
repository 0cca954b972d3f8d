package transform

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-phasevocoder/dsp/phase"
	"github.com/cwbudde/algo-phasevocoder/dsp/track"
	"github.com/cwbudde/algo-phasevocoder/dsp/transient"
	"github.com/cwbudde/algo-phasevocoder/internal/testutil"
)

func testInfo(t *testing.T, semitones float64) *track.Info {
	t.Helper()
	info, err := track.New(track.WithSampleRate(44100), track.WithSemitoneShift(semitones), track.WithHopSizeFactor(4))
	if err != nil {
		t.Fatalf("track.New: %v", err)
	}
	return info
}

func peakBin(mag []float64) int {
	peak := 0
	for i, v := range mag {
		if v > mag[peak] {
			peak = i
		}
	}
	return peak
}

func TestTimeStretcherUnityShiftPreservesPeakBin(t *testing.T) {
	info := testInfo(t, 0)
	shifter, err := phase.NewBasic(info, transient.ModeNone, phase.FullRange)
	if err != nil {
		t.Fatalf("NewBasic: %v", err)
	}
	ts, err := NewTimeStretcher(info, shifter)
	if err != nil {
		t.Fatalf("NewTimeStretcher: %v", err)
	}

	sine := testutil.DeterministicSine(440, 44100, 1.0, info.FrameSize())
	result, err := ts.Transform(sine)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(result.Samples) != info.FrameSize() {
		t.Fatalf("len(Samples) = %d, want %d", len(result.Samples), info.FrameSize())
	}

	wantBin := int(math.Round(440 * float64(info.FrameSizePadded()) / float64(info.SampleRate())))
	gotBin := peakBin(result.Magnitude)
	if diff := gotBin - wantBin; diff < -1 || diff > 1 {
		t.Fatalf("peak bin = %d, want within 1 of %d", gotBin, wantBin)
	}
}

func TestPitchShifterResamplesToTargetLength(t *testing.T) {
	info := testInfo(t, 5)
	shifter, err := phase.NewBasic(info, transient.ModeNone, phase.FullRange)
	if err != nil {
		t.Fatalf("NewBasic: %v", err)
	}
	ps, err := NewPitchShifter(info, shifter)
	if err != nil {
		t.Fatalf("NewPitchShifter: %v", err)
	}

	sine := testutil.DeterministicSine(440, 44100, 1.0, info.FrameSize())
	result, err := ps.Transform(sine)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(result.Samples) != info.FrameSizeResampling() {
		t.Fatalf("len(Samples) = %d, want %d", len(result.Samples), info.FrameSizeResampling())
	}
}

func TestTransformRejectsWrongFrameLength(t *testing.T) {
	info := testInfo(t, 0)
	shifter, err := phase.NewBasic(info, transient.ModeNone, phase.FullRange)
	if err != nil {
		t.Fatalf("NewBasic: %v", err)
	}
	ts, err := NewTimeStretcher(info, shifter)
	if err != nil {
		t.Fatalf("NewTimeStretcher: %v", err)
	}
	if _, err := ts.Transform(make([]float64, info.FrameSize()-1)); err == nil {
		t.Fatal("expected error for mismatched frame length")
	}
}

func TestNewTimeStretcherRejectsNilShifter(t *testing.T) {
	info := testInfo(t, 0)
	if _, err := NewTimeStretcher(info, nil); err == nil {
		t.Fatal("expected error for nil shifter")
	}
}

func TestNormalizeProducesNoNaN(t *testing.T) {
	info, err := track.New(track.WithSampleRate(44100), track.WithHopSizeFactor(4), track.WithNormalize(true))
	if err != nil {
		t.Fatalf("track.New: %v", err)
	}
	shifter, err := phase.NewBasic(info, transient.ModeNone, phase.FullRange)
	if err != nil {
		t.Fatalf("NewBasic: %v", err)
	}

	ts, err := NewTimeStretcher(info, shifter)
	if err != nil {
		t.Fatalf("NewTimeStretcher: %v", err)
	}
	sine := testutil.DeterministicSine(440, 44100, 1.0, info.FrameSize())
	result, err := ts.Transform(sine)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	for i, v := range result.Samples {
		if math.IsNaN(v) {
			t.Fatalf("Samples[%d] is NaN", i)
		}
	}
}

func TestSilentFrameProducesSilentOutput(t *testing.T) {
	info := testInfo(t, 0)
	shifter, err := phase.NewBasic(info, transient.ModeNone, phase.FullRange)
	if err != nil {
		t.Fatalf("NewBasic: %v", err)
	}
	ts, err := NewTimeStretcher(info, shifter)
	if err != nil {
		t.Fatalf("NewTimeStretcher: %v", err)
	}

	silence := make([]float64, info.FrameSize())
	result, err := ts.Transform(silence)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	for i, v := range result.Samples {
		if math.Abs(v) > 1e-9 {
			t.Fatalf("Samples[%d] = %v, want ~0 for silent frame", i, v)
		}
	}
}
