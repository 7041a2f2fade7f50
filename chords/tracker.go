package chords

import (
	"math"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/chords/config"
	"github.com/RyanBlaney/sonido-chords/chords/extractors"
	"github.com/RyanBlaney/sonido-chords/logging"
)

// ChordCandidate is one hidden state of the tracker
type ChordCandidate struct {
	Root  int    `json:"root"`
	Minor bool   `json:"minor"`
	Label string `json:"label"`
}

// ChordTracker decodes the most likely chord sequence with a Viterbi search
// over the major and minor triads built on the seven diatonic roots of the key
type ChordTracker struct {
	config config.TrackerConfig
	logger logging.Logger
}

// NewChordTracker creates a chord tracker
func NewChordTracker(cfg config.TrackerConfig) *ChordTracker {
	return &ChordTracker{
		config: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "chord_tracker",
		}),
	}
}

// Candidates returns the 14 states for a key: for each diatonic root in scale
// order, the major triad followed by the minor triad
func (ct *ChordTracker) Candidates(key tonal.Key) []ChordCandidate {
	roots := key.DiatonicRoots()
	candidates := make([]ChordCandidate, 0, 2*len(roots))
	for _, root := range roots {
		name := tonal.SharpName(root)
		candidates = append(candidates,
			ChordCandidate{Root: root, Minor: false, Label: name},
			ChordCandidate{Root: root, Minor: true, Label: name + "m"},
		)
	}
	return candidates
}

// TransitionPenalty is the cost of moving from candidate a to candidate b
func (ct *ChordTracker) TransitionPenalty(a, b ChordCandidate) float64 {
	if a.Label == b.Label {
		return 0
	}
	penalty := ct.config.TransitionBase + ct.config.TransitionPerSemitone*float64(common.PitchDistance(a.Root, b.Root))
	if a.Minor != b.Minor {
		penalty += ct.config.QualityChangePenalty
	}
	return penalty
}

// Track decodes a timeline from the features. Ties between equal scores go to
// the lower candidate index. Zero frames yield an empty timeline.
func (ct *ChordTracker) Track(fs *extractors.FeatureSet, key tonal.Key) Timeline {
	numFrames := fs.Len()
	if numFrames == 0 {
		return Timeline{}
	}

	candidates := ct.Candidates(key)
	n := len(candidates)

	emissions := ct.emissionScores(fs, candidates)

	transitions := make([]float64, n*n) // [from*n + to]
	for from := range candidates {
		for to := range candidates {
			transitions[from*n+to] = ct.TransitionPenalty(candidates[from], candidates[to])
		}
	}

	score := make([]float64, n)
	next := make([]float64, n)
	backpointers := make([]int, numFrames*n) // [frame*n + state]

	copy(score, emissions[:n])

	for i := 1; i < numFrames; i++ {
		for s := range n {
			bestVal := math.Inf(-1)
			bestFrom := -1
			for j := range n {
				val := score[j] - transitions[j*n+s]
				if val > bestVal {
					bestVal = val
					bestFrom = j
				}
			}
			next[s] = bestVal + emissions[i*n+s]
			backpointers[i*n+s] = bestFrom
		}
		score, next = next, score
	}

	bestState := 0
	bestVal := math.Inf(-1)
	for s, v := range score {
		if v > bestVal {
			bestVal = v
			bestState = s
		}
	}

	states := make([]int, numFrames)
	states[numFrames-1] = bestState
	for i := numFrames - 1; i > 0; i-- {
		states[i-1] = backpointers[i*n+states[i]]
	}

	timeline := ct.segments(states, candidates, fs.HopSeconds())

	ct.logger.Debug("Viterbi decode complete", logging.Fields{
		"function":   "Track",
		"frames":     numFrames,
		"candidates": n,
		"segments":   len(timeline),
	})

	return timeline
}

// emissionScores returns the frame-by-candidate emission matrix [frame*n + state]
func (ct *ChordTracker) emissionScores(fs *extractors.FeatureSet, candidates []ChordCandidate) []float64 {
	n := len(candidates)
	masks := make([][]float64, n)
	for s, c := range candidates {
		masks[s] = tonal.TriadMask(c.Root, c.Minor)
	}

	lowEnergy := common.Percentile(fs.FrameEnergy, ct.config.LowEnergyPercentile)

	emissions := make([]float64, fs.Len()*n)
	for i := range fs.Len() {
		chroma := fs.ChromaAt(i)
		bass := fs.BassAt(i)
		quiet := i < len(fs.FrameEnergy) && fs.FrameEnergy[i] < lowEnergy

		for s, c := range candidates {
			e := common.CosineSimilarity(chroma, masks[s])
			if bass >= 0 && bass == c.Root {
				e += ct.config.BassBonus
			}
			if quiet {
				e -= ct.config.LowEnergyPenalty
			}
			emissions[i*n+s] = e
		}
	}
	return emissions
}

// segments collapses runs of identical states into chord events
func (ct *ChordTracker) segments(states []int, candidates []ChordCandidate, hopSeconds float64) Timeline {
	timeline := Timeline{}
	start := 0
	for i := 1; i <= len(states); i++ {
		if i < len(states) && states[i] == states[start] {
			continue
		}
		timeline = append(timeline, ChordEvent{
			Time:       float64(start) * hopSeconds,
			Label:      candidates[states[start]].Label,
			FrameIndex: start,
			Ornament:   OrnamentStructural,
		})
		start = i
	}
	return timeline
}
