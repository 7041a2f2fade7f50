package tonal

import (
	"math"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Krumhansl-Schmuckler probe-tone profiles, indexed by semitones above the tonic
var (
	KrumhanslMajor = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	KrumhanslMinor = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// Key is the global tonal centre of an analysis
type Key struct {
	Root       int     `json:"root"`       // Pitch class of the tonic (0=C ... 11=B)
	IsMinor    bool    `json:"is_minor"`   // Natural minor when true, major otherwise
	Score      float64 `json:"score"`      // Profile score of the winning key
	Confidence float64 `json:"confidence"` // Correlation with the winning profile, 0-1
}

// Name returns a human-readable key name such as "A minor"
func (k Key) Name() string {
	if k.IsMinor {
		return SharpName(k.Root) + " minor"
	}
	return SharpName(k.Root) + " major"
}

// Scale returns the diatonic scale of the key
func (k Key) Scale() []int {
	return ScaleFor(k.IsMinor)
}

// DiatonicRoots returns the seven pitch classes of the key in scale order
func (k Key) DiatonicRoots() []int {
	scale := k.Scale()
	roots := make([]int, len(scale))
	for i, degree := range scale {
		roots[i] = common.ToPitchClass(degree + k.Root)
	}
	return roots
}

// Contains reports whether a pitch class is diatonic to the key
func (k Key) Contains(pc int) bool {
	return InKey(pc, k.Root, k.IsMinor)
}

// KeyCandidate is one of the 24 (root, mode) hypotheses with its score
type KeyCandidate struct {
	Root    int     `json:"root"`
	IsMinor bool    `json:"is_minor"`
	Score   float64 `json:"score"`
}

// KeyEstimationParams contains the reference profiles used for key estimation
type KeyEstimationParams struct {
	MajorProfile []float64 `json:"major_profile"`
	MinorProfile []float64 `json:"minor_profile"`
}

// KeyEstimator picks the key whose rotated profile best matches the summed
// chroma of a clip
type KeyEstimator struct {
	params KeyEstimationParams
}

// NewKeyEstimator creates a key estimator using the Krumhansl-Schmuckler profiles
func NewKeyEstimator() *KeyEstimator {
	return NewKeyEstimatorWithParams(KeyEstimationParams{
		MajorProfile: KrumhanslMajor,
		MinorProfile: KrumhanslMinor,
	})
}

// NewKeyEstimatorWithParams creates a key estimator with custom profiles
func NewKeyEstimatorWithParams(params KeyEstimationParams) *KeyEstimator {
	return &KeyEstimator{params: params}
}

// AggregateChroma sums a chroma sequence and L1-normalises the result. An
// all-zero sum is left as zeros.
func AggregateChroma(chromaSequence [][]float64) []float64 {
	agg := make([]float64, common.PitchClasses)
	for _, frame := range chromaSequence {
		if len(frame) != common.PitchClasses {
			continue
		}
		floats.Add(agg, frame)
	}

	total := floats.Sum(agg)
	if total == 0 {
		total = 1
	}
	floats.Scale(1/total, agg)
	return agg
}

// Candidates scores all 24 keys in enumeration order: roots ascending, major
// before minor for each root
func (ke *KeyEstimator) Candidates(agg []float64) []KeyCandidate {
	candidates := make([]KeyCandidate, 0, 2*common.PitchClasses)
	for root := range common.PitchClasses {
		candidates = append(candidates,
			KeyCandidate{Root: root, IsMinor: false, Score: profileScore(agg, ke.params.MajorProfile, root)},
			KeyCandidate{Root: root, IsMinor: true, Score: profileScore(agg, ke.params.MinorProfile, root)},
		)
	}
	return candidates
}

// EstimateKey returns the key with the strictly greatest profile score. Ties
// go to the first candidate in enumeration order, so silence yields C major
// with zero score and confidence.
func (ke *KeyEstimator) EstimateKey(chromaSequence [][]float64) Key {
	agg := AggregateChroma(chromaSequence)

	best := KeyCandidate{Root: 0, IsMinor: false, Score: -1}
	for _, c := range ke.Candidates(agg) {
		if c.Score > best.Score {
			best = c
		}
	}

	profile := ke.params.MajorProfile
	if best.IsMinor {
		profile = ke.params.MinorProfile
	}

	return Key{
		Root:       best.Root,
		IsMinor:    best.IsMinor,
		Score:      math.Max(best.Score, 0),
		Confidence: profileCorrelation(agg, profile, best.Root),
	}
}

// profileScore is the dot product of the chroma with the profile rotated to root
func profileScore(chroma, profile []float64, root int) float64 {
	score := 0.0
	for i := range min(len(profile), common.PitchClasses) {
		score += chroma[common.ToPitchClass(i+root)] * profile[i]
	}
	return score
}

// profileCorrelation is the Pearson correlation of the chroma with the
// profile rotated to root, clamped to [0, 1]
func profileCorrelation(chroma, profile []float64, root int) float64 {
	if len(profile) != common.PitchClasses || floats.Sum(chroma) == 0 {
		return 0
	}

	rotated := make([]float64, common.PitchClasses)
	for i, w := range profile {
		rotated[common.ToPitchClass(i+root)] = w
	}

	r := stat.Correlation(chroma, rotated, nil)
	if math.IsNaN(r) {
		return 0
	}
	return common.Clamp(r, 0, 1)
}
