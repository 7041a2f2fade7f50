package tonal

import "github.com/RyanBlaney/sonido-chords/algorithms/common"

// ChordTemplate is a weighted interval pattern for one chord quality
type ChordTemplate struct {
	Quality   string    `json:"quality" yaml:"quality"`
	Intervals []int     `json:"intervals" yaml:"intervals"` // Semitones above the root
	Weights   []float64 `json:"weights" yaml:"weights"`     // One weight per interval
	Suffix    string    `json:"suffix" yaml:"suffix"`       // Appended to the root name
}

// ExtendedTemplates is the template bank in enumeration order. Earlier
// templates win score ties.
var ExtendedTemplates = []ChordTemplate{
	{Quality: "major", Intervals: []int{0, 4, 7}, Weights: []float64{1.0, 0.9, 0.8}, Suffix: ""},
	{Quality: "minor", Intervals: []int{0, 3, 7}, Weights: []float64{1.0, 0.9, 0.8}, Suffix: "m"},
	{Quality: "dim", Intervals: []int{0, 3, 6}, Weights: []float64{1.0, 0.9, 0.8}, Suffix: "dim"},
	{Quality: "aug", Intervals: []int{0, 4, 8}, Weights: []float64{1.0, 0.9, 0.8}, Suffix: "aug"},
	{Quality: "sus2", Intervals: []int{0, 2, 7}, Weights: []float64{1.0, 0.85, 0.8}, Suffix: "sus2"},
	{Quality: "sus4", Intervals: []int{0, 5, 7}, Weights: []float64{1.0, 0.85, 0.8}, Suffix: "sus4"},
	{Quality: "maj7", Intervals: []int{0, 4, 7, 11}, Weights: []float64{1.0, 0.9, 0.8, 0.75}, Suffix: "maj7"},
	{Quality: "dom7", Intervals: []int{0, 4, 7, 10}, Weights: []float64{1.0, 0.9, 0.8, 0.75}, Suffix: "7"},
	{Quality: "m7", Intervals: []int{0, 3, 7, 10}, Weights: []float64{1.0, 0.9, 0.8, 0.75}, Suffix: "m7"},
	{Quality: "dim7", Intervals: []int{0, 3, 6, 9}, Weights: []float64{1.0, 0.9, 0.8, 0.75}, Suffix: "dim7"},
	{Quality: "m7b5", Intervals: []int{0, 3, 6, 10}, Weights: []float64{1.0, 0.9, 0.8, 0.75}, Suffix: "m7b5"},
	{Quality: "dom9", Intervals: []int{0, 4, 7, 10, 14}, Weights: []float64{1.0, 0.9, 0.8, 0.7, 0.6}, Suffix: "9"},
	{Quality: "maj9", Intervals: []int{0, 4, 7, 11, 14}, Weights: []float64{1.0, 0.9, 0.8, 0.7, 0.6}, Suffix: "maj9"},
	{Quality: "m9", Intervals: []int{0, 3, 7, 10, 14}, Weights: []float64{1.0, 0.9, 0.8, 0.7, 0.6}, Suffix: "m9"},
}

// Score is the weighted chroma energy at the template's intervals above root
func (ct ChordTemplate) Score(chroma []float64, root int) float64 {
	score := 0.0
	for i, interval := range ct.Intervals {
		pc := common.ToPitchClass(root + interval)
		if pc < len(chroma) && i < len(ct.Weights) {
			score += chroma[pc] * ct.Weights[i]
		}
	}
	return score
}

// Label renders the chord name for a root with this template's quality
func (ct ChordTemplate) Label(root int) string {
	return SharpName(root) + ct.Suffix
}

// BestTemplate returns the highest-scoring template of the bank for a root.
// Ties go to the earlier template. An empty bank yields a zero template.
func BestTemplate(bank []ChordTemplate, chroma []float64, root int) (ChordTemplate, float64) {
	var best ChordTemplate
	found := false
	bestScore := 0.0

	for _, tpl := range bank {
		score := tpl.Score(chroma, root)
		if !found || score > bestScore {
			best = tpl
			bestScore = score
			found = true
		}
	}
	return best, bestScore
}

// TriadMask returns a binary 12-bin mask of the root, third and fifth
func TriadMask(root int, minor bool) []float64 {
	third := 4
	if minor {
		third = 3
	}
	mask := make([]float64, common.PitchClasses)
	mask[common.ToPitchClass(root)] = 1
	mask[common.ToPitchClass(root+third)] = 1
	mask[common.ToPitchClass(root+7)] = 1
	return mask
}
