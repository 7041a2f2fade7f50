package chords

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-chords/algorithms/temporal"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/chords/config"
	"github.com/RyanBlaney/sonido-chords/chords/extractors"
	"github.com/RyanBlaney/sonido-chords/logging"
)

var (
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	ErrInvalidMode       = config.ErrInvalidMode
	ErrDurationMismatch  = errors.New("declared duration does not match sample count")
	ErrNonFiniteSample   = errors.New("non-finite sample")
)

// durationTolerance is the relative disagreement allowed between a declared
// duration and len(samples)/sampleRate
const durationTolerance = 0.01

// Waveform is a mono signal to analyse
type Waveform struct {
	Samples    []float64
	SampleRate int
	TempoHint  float64 // BPM; 0 estimates the tempo from the signal
	Duration   float64 // Seconds; 0 skips the consistency check
}

// ComputedDuration returns len(Samples)/SampleRate in seconds
func (w Waveform) ComputedDuration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Validate reports caller errors in the waveform metadata or samples.
// hopSeconds sets the minimum duration tolerance.
func (w Waveform) Validate(hopSeconds float64) error {
	if w.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, w.SampleRate)
	}

	if w.Duration > 0 {
		computed := w.ComputedDuration()
		tolerance := math.Max(durationTolerance*computed, hopSeconds)
		if math.Abs(w.Duration-computed) > tolerance {
			return fmt.Errorf("%w: declared %.3fs, samples cover %.3fs", ErrDurationMismatch, w.Duration, computed)
		}
	}

	if math.IsNaN(w.TempoHint) || math.IsInf(w.TempoHint, 0) {
		return fmt.Errorf("%w: tempo hint %v", ErrNonFiniteSample, w.TempoHint)
	}

	for i, v := range w.Samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w at index %d", ErrNonFiniteSample, i)
		}
	}
	return nil
}

// Result is the outcome of one analysis
type Result struct {
	Timeline Timeline  `json:"timeline"`
	Key      tonal.Key `json:"key"`
	BPM      float64   `json:"bpm"`
	Duration float64   `json:"duration"` // Seconds
}

// Analyzer runs the chord recognition pipeline: feature extraction, key
// estimation, chord tracking and finalisation, plus the refinement passes in
// accurate mode
type Analyzer struct {
	config    *config.AnalysisConfig
	extractor *extractors.FeatureExtractor
	keys      *tonal.KeyEstimator
	tempo     *temporal.TempoEstimation
	tracker   *ChordTracker
	finalizer *TimelineFinalizer
	refiners  []Refiner
	logger    logging.Logger
}

// NewAnalyzer creates an analyzer. A nil config uses DefaultConfig.
func NewAnalyzer(cfg *config.AnalysisConfig) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Analyzer{
		config:    cfg,
		extractor: extractors.NewFeatureExtractor(cfg.Features),
		keys:      tonal.NewKeyEstimator(),
		tempo: temporal.NewTempoEstimationWithParams(temporal.TempoEstimationParams{
			FrameSize:  cfg.Features.WindowSize,
			HopSeconds: cfg.Features.HopSeconds,
			MinPeriod:  cfg.Tempo.MinPeriod,
			MaxPeriod:  cfg.Tempo.MaxPeriod,
			MinBPM:     cfg.Tempo.MinBPM,
			MaxBPM:     cfg.Tempo.MaxBPM,
			DefaultBPM: cfg.Tempo.DefaultBPM,
		}),
		tracker:   NewChordTracker(cfg.Tracker),
		finalizer: NewTimelineFinalizer(cfg.Finalizer, cfg.Tempo),
		refiners:  DefaultRefiners(),
		logger: logging.WithFields(logging.Fields{
			"component": "chord_analyzer",
		}),
	}
}

// WithRefiners replaces the accurate-mode refinement passes
func (a *Analyzer) WithRefiners(refiners ...Refiner) *Analyzer {
	a.refiners = refiners
	return a
}

// Analyze runs the pipeline on a waveform. Only caller errors are returned;
// a waveform shorter than one window yields an empty timeline and the
// default key.
func (a *Analyzer) Analyze(w Waveform, mode config.Mode) (*Result, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if err := w.Validate(a.config.Features.HopSeconds); err != nil {
		return nil, err
	}

	cfg := *a.config
	cfg.ApplyMode(mode)

	logger := a.logger.WithFields(logging.Fields{
		"function":    "Analyze",
		"mode":        mode,
		"sample_rate": w.SampleRate,
	})

	bpm := w.TempoHint
	if bpm <= 0 {
		bpm = a.tempo.EstimateTempo(w.Samples, w.SampleRate)
		logger.Debug("Tempo estimated", logging.Fields{"bpm": bpm})
	}

	features, err := a.extractor.Extract(w.Samples, w.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("feature extraction failed: %w", err)
	}

	key := a.keys.EstimateKey(features.Chroma)
	logger.Debug("Key estimated", logging.Fields{
		"key":        key.Name(),
		"confidence": key.Confidence,
	})

	timeline := a.tracker.Track(features, key)
	timeline = a.finalizer.Finalize(timeline, key, bpm, features)

	if cfg.Refine.Enabled {
		rc := &RefineContext{
			Features: features,
			Key:      key,
			BPM:      bpm,
			Config:   cfg.Refine,
			Tempo:    cfg.Tempo,
		}
		timeline = RunRefiners(timeline, rc, a.refiners)
		logger.Debug("Refinement complete", logging.Fields{"passes": len(a.refiners)})
	}

	result := &Result{
		Timeline: timeline,
		Key:      key,
		BPM:      bpm,
		Duration: w.ComputedDuration(),
	}

	logger.Info("Chord analysis complete", logging.Fields{
		"key":      key.Name(),
		"bpm":      bpm,
		"events":   len(timeline),
		"frames":   features.Len(),
		"duration": result.Duration,
	})

	return result, nil
}

// Analyze runs the pipeline with the default configuration for mode
func Analyze(samples []float64, sampleRate int, tempoHint float64, mode config.Mode) (*Result, error) {
	return NewAnalyzer(config.ConfigForMode(mode)).Analyze(Waveform{
		Samples:    samples,
		SampleRate: sampleRate,
		TempoHint:  tempoHint,
	}, mode)
}
