package temporal

import (
	"math"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
)

// TempoEstimationParams configures envelope-autocorrelation tempo estimation
type TempoEstimationParams struct {
	FrameSize  int     `json:"frame_size"`  // Samples per energy frame
	HopSeconds float64 `json:"hop_seconds"` // Frame advance in seconds
	MinPeriod  float64 `json:"min_period"`  // Shortest beat period searched (s)
	MaxPeriod  float64 `json:"max_period"`  // Longest beat period searched (s)
	MinBPM     float64 `json:"min_bpm"`
	MaxBPM     float64 `json:"max_bpm"`
	DefaultBPM float64 `json:"default_bpm"` // Returned when the envelope is too short to decide
}

// TempoEstimation estimates a global tempo from the autocorrelation of the
// short-time energy envelope
type TempoEstimation struct {
	params TempoEstimationParams
}

// NewTempoEstimation creates a tempo estimator with the default search range
func NewTempoEstimation() *TempoEstimation {
	return NewTempoEstimationWithParams(TempoEstimationParams{
		FrameSize:  4096,
		HopSeconds: 0.1,
		MinPeriod:  0.3,
		MaxPeriod:  2.0,
		MinBPM:     60,
		MaxBPM:     200,
		DefaultBPM: 120,
	})
}

// NewTempoEstimationWithParams creates a tempo estimator with custom parameters
func NewTempoEstimationWithParams(params TempoEstimationParams) *TempoEstimation {
	return &TempoEstimation{params: params}
}

// EstimateTempo returns the tempo in BPM, rounded to an integer and clamped
// to [MinBPM, MaxBPM].
//
// The envelope is the raw (not mean-removed) energy per frame. For every lag
// between MinPeriod and MaxPeriod the unnormalised autocorrelation is summed
// and the first lag with the strictly highest value wins.
func (te *TempoEstimation) EstimateTempo(signal []float64, sampleRate int) float64 {
	if sampleRate <= 0 {
		return te.params.DefaultBPM
	}

	hop := int(math.Floor(te.params.HopSeconds * float64(sampleRate)))
	if hop <= 0 {
		return te.params.DefaultBPM
	}
	hopSec := float64(hop) / float64(sampleRate)

	envelope := NewEnergy(te.params.FrameSize, hop).ComputeShortTimeEnergy(signal)

	minLag := max(int(math.Floor(te.params.MinPeriod/hopSec)), 1)
	maxLag := int(math.Floor(te.params.MaxPeriod / hopSec))
	if len(envelope) <= minLag || maxLag < minLag {
		return te.params.DefaultBPM
	}

	bestLag := minLag
	bestR := math.Inf(-1)
	for lag := minLag; lag <= maxLag; lag++ {
		r := 0.0
		for i := 0; i+lag < len(envelope); i++ {
			r += envelope[i] * envelope[i+lag]
		}
		if r > bestR {
			bestR = r
			bestLag = lag
		}
	}

	// silent input correlates to zero everywhere
	if bestR <= 0 {
		return te.params.DefaultBPM
	}

	bpm := math.Round(60.0 / (float64(bestLag) * hopSec))
	return common.Clamp(bpm, te.params.MinBPM, te.params.MaxBPM)
}

// SecondsPerBeat converts a tempo to a beat period after clamping it to
// [minBPM, maxBPM]. A non-positive bpm falls back to defaultBPM.
func SecondsPerBeat(bpm, defaultBPM, minBPM, maxBPM float64) float64 {
	if bpm <= 0 || math.IsNaN(bpm) {
		bpm = defaultBPM
	}
	return 60.0 / common.Clamp(bpm, minBPM, maxBPM)
}
