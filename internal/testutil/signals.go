package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// ImpulseTrain generates unit impulses spaced period samples apart,
// starting at pos, useful for transient-detector onset scenarios.
func ImpulseTrain(length, pos, period int) []float64 {
	out := make([]float64, length)
	if period <= 0 {
		if pos >= 0 && pos < length {
			out[pos] = 1
		}
		return out
	}
	for i := pos; i >= 0 && i < length; i += period {
		out[i] = 1
	}
	return out
}

// SineMixture sums equal-amplitude sine waves at each of freqsHz, each
// scaled by amplitude/len(freqsHz), so the mixture's peak amplitude never
// exceeds amplitude regardless of partial count.
func SineMixture(freqsHz []float64, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	if len(freqsHz) == 0 {
		return out
	}
	scale := amplitude / float64(len(freqsHz))
	for _, f := range freqsHz {
		step := 2 * math.Pi * f / sampleRate
		for i := range out {
			out[i] += scale * math.Sin(step*float64(i))
		}
	}
	return out
}
