package chords

import (
	"github.com/RyanBlaney/sonido-chords/algorithms/temporal"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/chords/config"
	"github.com/RyanBlaney/sonido-chords/chords/extractors"
)

// RefineContext is the read-only analysis state shared by refinement passes
type RefineContext struct {
	Features *extractors.FeatureSet
	Key      tonal.Key
	BPM      float64
	Config   config.RefineConfig
	Tempo    config.TempoConfig
}

// SecondsPerBeat returns the clamped beat period of the analysis
func (rc *RefineContext) SecondsPerBeat() float64 {
	return temporal.SecondsPerBeat(rc.BPM, rc.Tempo.DefaultBPM, rc.Tempo.MinBPM, rc.Tempo.MaxBPM)
}

// Refiner transforms a timeline using the features and key of the analysis.
// Refiners return a new timeline and never fail; events they cannot
// interpret pass through unchanged.
type Refiner interface {
	Name() string
	Refine(tl Timeline, rc *RefineContext) Timeline
}

// DefaultRefiners returns the accurate-mode passes in the order they run
func DefaultRefiners() []Refiner {
	return []Refiner{
		NewQualityRefiner(tonal.ExtendedTemplates),
		&ModalCorrector{},
		&InversionDetector{},
		&OrnamentClassifier{},
	}
}

// RunRefiners applies refiners in order, merging adjacent events that end up
// with the same label after each pass
func RunRefiners(tl Timeline, rc *RefineContext, refiners []Refiner) Timeline {
	out := tl.Clone()
	for _, r := range refiners {
		out = r.Refine(out, rc).MergeRepeats()
	}
	return out
}
