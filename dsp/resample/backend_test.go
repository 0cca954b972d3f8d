package resample

import "testing"

func TestPolyphaseTrackResamplerImplementsInterface(t *testing.T) {
	var _ FullTrackResampler = NewPolyphaseTrackResampler()
}

func TestPolyphaseTrackResamplerResample(t *testing.T) {
	r := NewPolyphaseTrackResampler(WithQuality(QualityFast))
	in := make([]float64, 4410)
	for i := range in {
		in[i] = 1.0
	}
	out, err := r.ResampleTrack(in, 44100, 48000)
	if err != nil {
		t.Fatalf("ResampleTrack: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty output")
	}
}

func TestPolyphaseTrackResamplerInvalidRate(t *testing.T) {
	r := NewPolyphaseTrackResampler()
	if _, err := r.ResampleTrack([]float64{1, 2, 3}, 0, 48000); err == nil {
		t.Fatal("expected error for zero input rate")
	}
}
