package harmonic

import (
	"math"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/algorithms/spectral"
	"gonum.org/v1/gonum/stat"
)

// BassEstimationParams configures bass pitch-class detection
type BassEstimationParams struct {
	MinFreq          float64 `json:"min_freq"`          // Lowest accepted fundamental (Hz)
	MaxFreq          float64 `json:"max_freq"`          // Low-pass cutoff and highest accepted fundamental (Hz)
	EnergyPercentile float64 `json:"energy_percentile"` // Frames below this energy percentile lose their bass
	MinRunLength     int     `json:"min_run_length"`    // Shorter runs of one stabilised value are discarded
}

// BassEstimation estimates the bass pitch class of a frame.
//
// The magnitude spectrum is low-passed, turned back into an approximate
// time-domain signal by summing zero-phase cosines at the retained bin
// frequencies, and the lag with the highest normalised autocorrelation inside
// the bass range picks the fundamental.
type BassEstimation struct {
	params BassEstimationParams
}

// NewBassEstimation creates a bass estimator for the 40-250 Hz range
func NewBassEstimation() *BassEstimation {
	return NewBassEstimationWithParams(BassEstimationParams{
		MinFreq:          40.0,
		MaxFreq:          250.0,
		EnergyPercentile: 40.0,
		MinRunLength:     2,
	})
}

// NewBassEstimationWithParams creates a bass estimator with custom parameters
func NewBassEstimationWithParams(params BassEstimationParams) *BassEstimation {
	if params.MinFreq < 1 {
		params.MinFreq = 1
	}
	if params.MaxFreq <= params.MinFreq {
		params.MaxFreq = params.MinFreq + 1
	}
	if params.MinRunLength < 1 {
		params.MinRunLength = 1
	}
	return &BassEstimation{params: params}
}

// Params returns the estimator parameters
func (be *BassEstimation) Params() BassEstimationParams {
	return be.params
}

// DetectPitchClass returns the raw bass pitch class of one frame, or
// common.NoPitchClass when no fundamental inside the bass range is found.
// frameLength is the length of the analysed (un-padded) frame.
func (be *BassEstimation) DetectPitchClass(spectrum *spectral.Spectrum, frameLength int) int {
	if spectrum == nil || frameLength <= 0 || spectrum.SampleRate <= 0 {
		return common.NoPitchClass
	}

	lowPassed := be.reconstructLowBand(spectrum, frameLength)
	if lowPassed == nil {
		return common.NoPitchClass
	}

	sampleRate := float64(spectrum.SampleRate)
	minLag := int(math.Floor(sampleRate / be.params.MaxFreq))
	maxLag := int(math.Floor(sampleRate / be.params.MinFreq))

	bestLag := be.bestAutocorrelationLag(lowPassed, minLag, maxLag)
	if bestLag <= 0 {
		return common.NoPitchClass
	}

	f0 := sampleRate / float64(bestLag)
	if f0 < be.params.MinFreq || f0 > be.params.MaxFreq {
		return common.NoPitchClass
	}

	return common.FrequencyToPitchClass(f0)
}

// reconstructLowBand sums cosines at every bin frequency up to MaxFreq,
// weighted by the bin magnitude. Returns nil if the band holds no bins.
func (be *BassEstimation) reconstructLowBand(spectrum *spectral.Spectrum, frameLength int) []float64 {
	out := make([]float64, frameLength)
	used := false

	for k := 1; k < len(spectrum.Magnitudes); k++ {
		freq := spectrum.BinFrequency(k)
		if freq > be.params.MaxFreq {
			break
		}
		mag := spectrum.Magnitudes[k]
		if mag == 0 {
			continue
		}
		used = true

		// Chebyshev recurrence: cos((n+1)w) = 2cos(w)cos(nw) - cos((n-1)w)
		omega := 2 * math.Pi * freq / float64(spectrum.SampleRate)
		twoCos := 2 * math.Cos(omega)
		prev, cur := math.Cos(-omega), 1.0
		for n := range out {
			out[n] += mag * cur
			prev, cur = cur, twoCos*cur-prev
		}
	}

	if !used {
		return nil
	}
	return out
}

// bestAutocorrelationLag returns the lag in [minLag, maxLag] with the highest
// mean-removed autocorrelation normalised by the signal variance. The first
// lag wins ties. Returns -1 when the range is empty.
func (be *BassEstimation) bestAutocorrelationLag(signal []float64, minLag, maxLag int) int {
	mean := stat.Mean(signal, nil)

	centered := make([]float64, len(signal))
	denom := 0.0
	for i, v := range signal {
		centered[i] = v - mean
		denom += centered[i] * centered[i]
	}
	denom = math.Max(denom, 1e-9)

	bestLag := -1
	bestR := -1.0
	for lag := max(minLag, 1); lag <= maxLag; lag++ {
		r := 0.0
		for n := 0; n+lag < len(centered); n++ {
			r += centered[n] * centered[n+lag]
		}
		r /= denom
		if r > bestR {
			bestR = r
			bestLag = lag
		}
	}

	return bestLag
}

// Stabilize suppresses unreliable raw bass estimates. A raw value survives only
// if it matches one of its immediate neighbours and the frame energy is at
// least the configured energy percentile; afterwards runs of identical values
// shorter than MinRunLength are cleared. The first and last frames never keep
// a value since they lack a neighbour on one side.
func (be *BassEstimation) Stabilize(raw []int, energies []float64) []int {
	stable := make([]int, len(raw))
	for i := range stable {
		stable[i] = common.NoPitchClass
	}
	if len(raw) < 3 {
		return stable
	}

	threshold := common.Percentile(energies, be.params.EnergyPercentile)

	for i := 1; i < len(raw)-1; i++ {
		v := raw[i]
		if v < 0 {
			continue
		}
		if i < len(energies) && energies[i] < threshold {
			continue
		}
		if raw[i-1] == v || raw[i+1] == v {
			stable[i] = v
		}
	}

	be.clearShortRuns(stable)
	return stable
}

// clearShortRuns resets runs of one pitch class shorter than MinRunLength
func (be *BassEstimation) clearShortRuns(values []int) {
	runStart := 0
	for i := 1; i <= len(values); i++ {
		if i < len(values) && values[i] == values[runStart] {
			continue
		}
		if values[runStart] >= 0 && i-runStart < be.params.MinRunLength {
			for k := runStart; k < i; k++ {
				values[k] = common.NoPitchClass
			}
		}
		runStart = i
	}
}
