package wrapper

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-phasevocoder/dsp/phase"
	"github.com/cwbudde/algo-phasevocoder/dsp/track"
	"github.com/cwbudde/algo-phasevocoder/dsp/transform"
	"github.com/cwbudde/algo-phasevocoder/dsp/transient"
	"github.com/cwbudde/algo-phasevocoder/internal/testutil"
)

func buildTimeStretcher(t *testing.T, semitones float64) (*track.Info, *transform.TimeStretcher) {
	t.Helper()
	info, err := track.New(track.WithSampleRate(44100), track.WithSemitoneShift(semitones), track.WithHopSizeFactor(4))
	if err != nil {
		t.Fatalf("track.New: %v", err)
	}
	shifter, err := phase.NewLaminar(info, transient.ModeNone, phase.FullRange)
	if err != nil {
		t.Fatalf("NewLaminar: %v", err)
	}
	ts, err := transform.NewTimeStretcher(info, shifter)
	if err != nil {
		t.Fatalf("NewTimeStretcher: %v", err)
	}
	return info, ts
}

func buildPitchShifter(t *testing.T, semitones float64) (*track.Info, *transform.PitchShifter) {
	t.Helper()
	info, err := track.New(track.WithSampleRate(44100), track.WithSemitoneShift(semitones), track.WithHopSizeFactor(4))
	if err != nil {
		t.Fatalf("track.New: %v", err)
	}
	shifter, err := phase.NewBasic(info, transient.ModeNone, phase.FullRange)
	if err != nil {
		t.Fatalf("NewBasic: %v", err)
	}
	ps, err := transform.NewPitchShifter(info, shifter)
	if err != nil {
		t.Fatalf("NewPitchShifter: %v", err)
	}
	return info, ps
}

func TestPitchShiftWrapperPreservesLength(t *testing.T) {
	_, ps := buildPitchShifter(t, 5)
	w, err := NewPitchShiftWrapper(ps)
	if err != nil {
		t.Fatalf("NewPitchShiftWrapper: %v", err)
	}

	sine := testutil.DeterministicSine(440, 44100, 0.8, 44100)
	out, err := w.Process(sine)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != len(sine) {
		t.Fatalf("len(out) = %d, want %d (pitch-shift preserves duration)", len(out), len(sine))
	}
	for i, v := range out {
		if math.Abs(v) > 1.0+1e-9 {
			t.Fatalf("out[%d] = %v exceeds unit amplitude", i, v)
		}
	}
}

func TestPitchShiftUnityIsNearIdentity(t *testing.T) {
	_, ps := buildPitchShifter(t, 0)
	w, err := NewPitchShiftWrapper(ps)
	if err != nil {
		t.Fatalf("NewPitchShiftWrapper: %v", err)
	}

	n := 44100
	sine := testutil.DeterministicSine(440, 44100, 1.0, n)
	out, err := w.Process(sine)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != n {
		t.Fatalf("len(out) = %d, want %d", len(out), n)
	}

	sum := 0.0
	for i := range sine {
		d := sine[i] - out[i]
		sum += d * d
	}
	rmsd := math.Sqrt(sum / float64(n))
	if rmsd > 1e-3 {
		t.Fatalf("RMSD = %v, want <= 1e-3 for unity shift", rmsd)
	}
}

func TestTimeStretchWrapperDoublesLength(t *testing.T) {
	info, ts := buildTimeStretcher(t, 12) // +12 semitones => stretch_ratio 2
	w, err := NewTimeStretchWrapper(ts)
	if err != nil {
		t.Fatalf("NewTimeStretchWrapper: %v", err)
	}

	n := 44100
	sine := testutil.DeterministicSine(440, 44100, 0.8, n)
	out, err := w.Process(sine)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := int(float64(n) * info.TimeStretchRatio())
	lo := want - info.FrameSize()
	hi := want + info.FrameSize()
	if len(out) < lo || len(out) > hi {
		t.Fatalf("len(out) = %d, want within one frame of %d", len(out), want)
	}
	for i, v := range out {
		if math.Abs(v) > 1.0+1e-9 {
			t.Fatalf("out[%d] = %v exceeds unit amplitude", i, v)
		}
	}
}

func TestNewPitchShiftWrapperRejectsNilProcessor(t *testing.T) {
	if _, err := NewPitchShiftWrapper(nil); err == nil {
		t.Fatal("expected error for nil processor")
	}
}

func TestNewTimeStretchWrapperRejectsNilProcessor(t *testing.T) {
	if _, err := NewTimeStretchWrapper(nil); err == nil {
		t.Fatal("expected error for nil processor")
	}
}

func TestPadUnpadRoundTrip(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5}
	padded := pad(samples, 3)
	if len(padded) != len(samples)+6 {
		t.Fatalf("len(padded) = %d, want %d", len(padded), len(samples)+6)
	}
	unpadded := unpad(padded, 3, len(samples))
	for i := range samples {
		if unpadded[i] != samples[i] {
			t.Fatalf("unpadded[%d] = %v, want %v", i, unpadded[i], samples[i])
		}
	}
}

func TestOlaRescaleBoundsAmplitude(t *testing.T) {
	samples := []float64{0.1, 5.0, -3.0, 0.2}
	winSq := []float64{1, 1, 1, 1}
	out := olaRescale(samples, winSq, 4)
	for i, v := range out {
		if math.Abs(v) > 1.0+1e-9 {
			t.Fatalf("out[%d] = %v exceeds unit amplitude", i, v)
		}
	}
}
