// Package transient implements the phase-vocoder's per-frame transient
// probability estimators: a percussive (magnitude-ratio) detector, a
// high-frequency (moving-median) detector, their compound maximum, and a
// disabled "none" mode.
package transient

import (
	"math"

	"github.com/cwbudde/algo-phasevocoder/dsp/core"
)

// Mode selects which transient estimator a Detector runs.
type Mode int

const (
	// ModeNone disables transient detection entirely; Detect always
	// reports no transient.
	ModeNone Mode = iota
	// ModePercussive uses the magnitude-ratio detector.
	ModePercussive
	// ModeHighFrequency uses the moving-median center-frequency detector.
	ModeHighFrequency
	// ModeCompound reports the maximum of percussive and high-frequency.
	ModeCompound
)

const (
	avgQueueWindow        = 19
	highFreqFilterWindow  = 19
	highFreqFilterPercent = 85.0
	highFreqDerivPercent  = 90.0

	transientProbThreshold      = 0.35
	magnitudeRatio3dB           = 1.4125375446227544 // 10^0.15
	transientMagnitudeMinFactor = 1e-5
)

// Detector tracks the per-bin and per-frame rolling state the percussive
// and high-frequency estimators need across frames. A Detector is bound to
// one phase shifter instance and must see every frame in order.
type Detector struct {
	mode Mode
	nyq  int

	// percussive state
	maxMagAvgQueue *avgQueue
	lastMagnitude  []float64

	// high-frequency state
	highFreqFilter         *movingMedian
	highFreqDerivFilter    *movingMedian
	highFreqMagSumLast     float64
	risingCount            int
	lastHighFreqDerivDelta float64

	transientProbPrev float64
}

// NewDetector creates a Detector for a spectrum with nyq non-redundant
// bins (track.Info.FrameSizeNyquist()).
func NewDetector(mode Mode, nyq int) *Detector {
	return &Detector{
		mode:                mode,
		nyq:                 nyq,
		maxMagAvgQueue:      newAvgQueue(avgQueueWindow),
		lastMagnitude:       make([]float64, nyq),
		highFreqFilter:      newMovingMedian(highFreqFilterWindow, highFreqFilterPercent),
		highFreqDerivFilter: newMovingMedian(highFreqFilterWindow, highFreqDerivPercent),
		// lastHighFreqDerivDelta is explicitly zero-initialized: the
		// original source references it before ever assigning it on the
		// first frame.
		lastHighFreqDerivDelta: 0,
	}
}

// Mode returns the configured detection mode.
func (d *Detector) Mode() Mode { return d.mode }

// Detect computes this frame's transient probability from the magnitude
// spectrum and reports whether a transient is signalled: the probability
// must both exceed the fixed threshold and strictly exceed the previous
// frame's probability. NaN magnitudes are treated as 0.
func (d *Detector) Detect(magnitude []float64) (prob float64, transient bool) {
	if d.mode == ModeNone {
		return 0, false
	}

	switch d.mode {
	case ModePercussive:
		prob = d.percussive(magnitude)
	case ModeHighFrequency:
		prob = d.highFrequency(magnitude)
	case ModeCompound:
		p := d.percussive(magnitude)
		h := d.highFrequency(magnitude)
		prob = math.Max(p, h)
	}

	prob = core.Clamp(prob, 0, 1)
	transient = prob > d.transientProbPrev && prob > transientProbThreshold
	d.transientProbPrev = prob
	return prob, transient
}

func sanitizeMag(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func (d *Detector) percussive(magnitude []float64) float64 {
	maxMag := 0.0
	for _, v := range magnitude {
		v = sanitizeMag(v)
		if v > maxMag {
			maxMag = v
		}
	}
	d.maxMagAvgQueue.pushPop(maxMag)
	zeroThresh := transientMagnitudeMinFactor * d.maxMagAvgQueue.average()

	count, nonzero := 0, 0
	n := len(magnitude)
	if n > len(d.lastMagnitude) {
		n = len(d.lastMagnitude)
	}
	for i := 0; i < n; i++ {
		cur := sanitizeMag(magnitude[i])
		prev := d.lastMagnitude[i]

		var ratio float64
		computed := false
		switch {
		case prev > zeroThresh:
			ratio = cur / prev
			computed = true
		case cur > zeroThresh:
			ratio = magnitudeRatio3dB
			computed = true
		}
		if !computed {
			continue
		}
		if cur > zeroThresh {
			nonzero++
		}
		if ratio >= magnitudeRatio3dB {
			count++
		}
	}
	for i := 0; i < n; i++ {
		d.lastMagnitude[i] = sanitizeMag(magnitude[i])
	}
	if nonzero == 0 {
		return 0
	}
	return float64(count) / float64(nonzero)
}

func (d *Detector) highFrequency(magnitude []float64) float64 {
	sum := 0.0
	for k, v := range magnitude {
		sum += float64(k) * sanitizeMag(v)
	}
	deriv := sum - d.highFreqMagSumLast
	d.highFreqMagSumLast = sum

	d.highFreqFilter.put(sum)
	d.highFreqDerivFilter.put(deriv)

	excess := sum - d.highFreqFilter.get()
	var delta float64
	if excess > 0 {
		delta = deriv - d.highFreqDerivFilter.get()
	}

	var prob float64
	if delta < d.lastHighFreqDerivDelta {
		prevRising := d.risingCount
		d.risingCount = 0
		if prevRising > 3 && d.lastHighFreqDerivDelta > 0 {
			prob = 0.5
		}
	} else {
		d.risingCount++
	}
	d.lastHighFreqDerivDelta = delta
	return prob
}
