package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode selects how much of the pipeline runs
type Mode string

const (
	ModeFast     Mode = "fast"
	ModeBalanced Mode = "balanced"
	ModeAccurate Mode = "accurate"
)

// ErrInvalidMode is returned for a mode outside fast/balanced/accurate
var ErrInvalidMode = errors.New("invalid analysis mode")

// ParseMode converts a mode name to a Mode. The empty string means balanced.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case ModeFast:
		return ModeFast, nil
	case ModeBalanced, "":
		return ModeBalanced, nil
	case ModeAccurate:
		return ModeAccurate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, name)
	}
}

// Valid reports whether m is one of the known modes
func (m Mode) Valid() bool {
	return m == ModeFast || m == ModeBalanced || m == ModeAccurate
}

// RunsRefinement reports whether the refinement passes run in this mode
func (m Mode) RunsRefinement() bool {
	return m == ModeAccurate
}

// AnalysisConfig holds every tunable of the chord analysis pipeline
type AnalysisConfig struct {
	Features  FeatureConfig   `json:"features" yaml:"features"`
	Tempo     TempoConfig     `json:"tempo" yaml:"tempo"`
	Tracker   TrackerConfig   `json:"tracker" yaml:"tracker"`
	Finalizer FinalizerConfig `json:"finalizer" yaml:"finalizer"`
	Refine    RefineConfig    `json:"refine" yaml:"refine"`

	LogLevel string `json:"log_level" yaml:"log_level"` // "debug", "info", "warn", "error"
}

// FeatureConfig controls framing and per-frame feature extraction
type FeatureConfig struct {
	WindowSize int     `json:"window_size" yaml:"window_size"` // Samples per analysis frame
	HopSeconds float64 `json:"hop_seconds" yaml:"hop_seconds"` // Frame advance, hop = floor(HopSeconds * sampleRate)

	ChromaMinFreq float64 `json:"chroma_min_freq" yaml:"chroma_min_freq"` // Hz
	ChromaMaxFreq float64 `json:"chroma_max_freq" yaml:"chroma_max_freq"` // Hz

	BassMinFreq          float64 `json:"bass_min_freq" yaml:"bass_min_freq"`                   // Hz
	BassMaxFreq          float64 `json:"bass_max_freq" yaml:"bass_max_freq"`                   // Hz, also the low-pass cutoff
	BassEnergyPercentile float64 `json:"bass_energy_percentile" yaml:"bass_energy_percentile"` // Quieter frames lose their bass
	BassMinRun           int     `json:"bass_min_run" yaml:"bass_min_run"`                     // Minimum run of stable bass frames

	Workers int `json:"workers" yaml:"workers"` // 0 picks one worker per CPU
}

// TempoConfig controls tempo estimation and beat-based durations
type TempoConfig struct {
	DefaultBPM float64 `json:"default_bpm" yaml:"default_bpm"`
	MinBPM     float64 `json:"min_bpm" yaml:"min_bpm"`
	MaxBPM     float64 `json:"max_bpm" yaml:"max_bpm"`
	MinPeriod  float64 `json:"min_period" yaml:"min_period"` // Shortest beat period searched (s)
	MaxPeriod  float64 `json:"max_period" yaml:"max_period"` // Longest beat period searched (s)
}

// TrackerConfig weights the Viterbi emission and transition scores
type TrackerConfig struct {
	LowEnergyPercentile   float64 `json:"low_energy_percentile" yaml:"low_energy_percentile"`
	BassBonus             float64 `json:"bass_bonus" yaml:"bass_bonus"`
	LowEnergyPenalty      float64 `json:"low_energy_penalty" yaml:"low_energy_penalty"`
	TransitionBase        float64 `json:"transition_base" yaml:"transition_base"`
	TransitionPerSemitone float64 `json:"transition_per_semitone" yaml:"transition_per_semitone"`
	QualityChangePenalty  float64 `json:"quality_change_penalty" yaml:"quality_change_penalty"`
}

// FinalizerConfig controls short-segment filtering and beat snapping
type FinalizerConfig struct {
	MinSegmentSeconds float64 `json:"min_segment_seconds" yaml:"min_segment_seconds"`
	MinSegmentBeats   float64 `json:"min_segment_beats" yaml:"min_segment_beats"`
	LastSegmentBeats  float64 `json:"last_segment_beats" yaml:"last_segment_beats"`
}

// RefineConfig controls the accurate-mode refinement passes
type RefineConfig struct {
	Enabled      bool `json:"enabled" yaml:"enabled"`
	WindowFrames int  `json:"window_frames" yaml:"window_frames"` // Chroma averaging radius around an event

	ModalRatio float64 `json:"modal_ratio" yaml:"modal_ratio"`
	ModalFloor float64 `json:"modal_floor" yaml:"modal_floor"`

	InversionBaseConfidence float64 `json:"inversion_base_confidence" yaml:"inversion_base_confidence"`
	BassWeight              float64 `json:"bass_weight" yaml:"bass_weight"`
	StabilityRadius         int     `json:"stability_radius" yaml:"stability_radius"`
	StabilityCount          int     `json:"stability_count" yaml:"stability_count"`

	PassingBeats  float64 `json:"passing_beats" yaml:"passing_beats"`
	NeighborBeats float64 `json:"neighbor_beats" yaml:"neighbor_beats"`
}

// DefaultConfig returns the reference configuration (balanced mode)
func DefaultConfig() *AnalysisConfig {
	return &AnalysisConfig{
		Features: FeatureConfig{
			WindowSize:           4096,
			HopSeconds:           0.10,
			ChromaMinFreq:        80,
			ChromaMaxFreq:        5000,
			BassMinFreq:          40,
			BassMaxFreq:          250,
			BassEnergyPercentile: 40,
			BassMinRun:           2,
			Workers:              0,
		},
		Tempo: TempoConfig{
			DefaultBPM: 120,
			MinBPM:     60,
			MaxBPM:     200,
			MinPeriod:  0.3,
			MaxPeriod:  2.0,
		},
		Tracker: TrackerConfig{
			LowEnergyPercentile:   30,
			BassBonus:             0.15,
			LowEnergyPenalty:      0.10,
			TransitionBase:        0.6,
			TransitionPerSemitone: 0.1,
			QualityChangePenalty:  0.05,
		},
		Finalizer: FinalizerConfig{
			MinSegmentSeconds: 0.5,
			MinSegmentBeats:   0.45,
			LastSegmentBeats:  4,
		},
		Refine: RefineConfig{
			Enabled:                 false,
			WindowFrames:            2,
			ModalRatio:              1.25,
			ModalFloor:              0.08,
			InversionBaseConfidence: 0.10,
			BassWeight:              1.2,
			StabilityRadius:         2,
			StabilityCount:          3,
			PassingBeats:            0.35,
			NeighborBeats:           0.4,
		},
		LogLevel: "info",
	}
}

// ConfigForMode returns the default configuration adjusted for a mode.
// Only accurate mode enables the refinement passes.
func ConfigForMode(mode Mode) *AnalysisConfig {
	cfg := DefaultConfig()
	cfg.ApplyMode(mode)
	return cfg
}

// ApplyMode switches the mode-dependent settings of an existing configuration
func (c *AnalysisConfig) ApplyMode(mode Mode) {
	c.Refine.Enabled = mode.RunsRefinement()
}

// Validate checks that the configuration can drive an analysis
func (c *AnalysisConfig) Validate() error {
	switch {
	case c.Features.WindowSize <= 0:
		return fmt.Errorf("features.window_size must be positive, got %d", c.Features.WindowSize)
	case c.Features.HopSeconds <= 0:
		return fmt.Errorf("features.hop_seconds must be positive, got %g", c.Features.HopSeconds)
	case c.Features.ChromaMinFreq >= c.Features.ChromaMaxFreq:
		return fmt.Errorf("features chroma band is empty (%g-%g Hz)", c.Features.ChromaMinFreq, c.Features.ChromaMaxFreq)
	case c.Features.BassMinFreq <= 0 || c.Features.BassMinFreq >= c.Features.BassMaxFreq:
		return fmt.Errorf("features bass band is invalid (%g-%g Hz)", c.Features.BassMinFreq, c.Features.BassMaxFreq)
	case c.Features.Workers < 0:
		return fmt.Errorf("features.workers must not be negative, got %d", c.Features.Workers)
	case c.Tempo.MinBPM <= 0 || c.Tempo.MinBPM > c.Tempo.MaxBPM:
		return fmt.Errorf("tempo range is invalid (%g-%g BPM)", c.Tempo.MinBPM, c.Tempo.MaxBPM)
	case c.Tempo.DefaultBPM <= 0:
		return fmt.Errorf("tempo.default_bpm must be positive, got %g", c.Tempo.DefaultBPM)
	case c.Refine.WindowFrames < 0 || c.Refine.StabilityRadius < 0:
		return fmt.Errorf("refine windows must not be negative")
	}
	return nil
}

// LoadFile reads a YAML file and overlays it onto the default configuration.
// Keys missing from the file keep their default values.
func LoadFile(path string) (*AnalysisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse overlays YAML data onto the default configuration
func Parse(data []byte) (*AnalysisConfig, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
