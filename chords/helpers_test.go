package chords

import (
	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/chords/config"
	"github.com/RyanBlaney/sonido-chords/chords/extractors"
)

const testSampleRate = 22050

var (
	keyCMajor = tonal.Key{Root: 0, IsMinor: false}
	keyAMinor = tonal.Key{Root: 9, IsMinor: true}
)

// triad returns an L1-normalised triad chroma
func triad(root int, minor bool) []float64 {
	c := tonal.TriadMask(root, minor)
	common.L1Normalize(c)
	return c
}

// chromaOf spreads weight evenly over the given pitch classes
func chromaOf(pcs ...int) []float64 {
	c := make([]float64, common.PitchClasses)
	for _, pc := range pcs {
		c[pc] += 1
	}
	common.L1Normalize(c)
	return c
}

func repeatChroma(c []float64, n int) [][]float64 {
	frames := make([][]float64, n)
	for i := range frames {
		frames[i] = append([]float64(nil), c...)
	}
	return frames
}

func noBass(n int) []int {
	bass := make([]int, n)
	for i := range bass {
		bass[i] = common.NoPitchClass
	}
	return bass
}

// featureSet builds a FeatureSet with a 100 ms hop and equal frame energies
func featureSet(chroma [][]float64, bass []int) *extractors.FeatureSet {
	if bass == nil {
		bass = noBass(len(chroma))
	}
	energy := make([]float64, len(chroma))
	centroid := make([]float64, len(chroma))
	for i := range energy {
		energy[i] = 1
	}
	return &extractors.FeatureSet{
		Chroma:           chroma,
		BassPitchClass:   bass,
		FrameEnergy:      energy,
		SpectralCentroid: centroid,
		HopSize:          2205,
		SampleRate:       testSampleRate,
		WindowSize:       4096,
	}
}

func refineContext(fs *extractors.FeatureSet, key tonal.Key, bpm float64) *RefineContext {
	cfg := config.ConfigForMode(config.ModeAccurate)
	return &RefineContext{
		Features: fs,
		Key:      key,
		BPM:      bpm,
		Config:   cfg.Refine,
		Tempo:    cfg.Tempo,
	}
}

func event(t float64, label string, frame int) ChordEvent {
	return ChordEvent{Time: t, Label: label, FrameIndex: frame, Ornament: OrnamentStructural}
}
