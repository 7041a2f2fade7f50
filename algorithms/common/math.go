package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// PitchClasses is the number of equal-tempered pitch classes in an octave
const PitchClasses = 12

// NoPitchClass marks a frame or label without a usable pitch class
const NoPitchClass = -1

// ToPitchClass folds any integer (negative or large) into the range 0-11
func ToPitchClass(n int) int {
	return ((n % PitchClasses) + PitchClasses) % PitchClasses
}

// FrequencyToMIDI converts a frequency in Hz to a fractional MIDI note number
// (A4 = 440 Hz = 69)
func FrequencyToMIDI(frequency float64) float64 {
	if frequency <= 0 {
		return 0
	}
	return 69.0 + 12.0*math.Log2(frequency/440.0)
}

// FrequencyToPitchClass maps a frequency to the nearest equal-tempered pitch class
func FrequencyToPitchClass(frequency float64) int {
	return ToPitchClass(int(math.Round(FrequencyToMIDI(frequency))))
}

// PitchDistance returns the shortest distance in semitones between two pitch
// classes, going either way round the octave
func PitchDistance(a, b int) int {
	up := ToPitchClass(b - a)
	down := ToPitchClass(a - b)
	return min(up, down)
}

// Percentile returns the value at index floor(p/100 * (n-1)) of the sorted
// finite values in data. p is given in percent (0-100). An empty input yields 0.
func Percentile(data []float64, p float64) float64 {
	sorted := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return 0.0
	}

	sort.Float64s(sorted)

	p = Clamp(p, 0, 100)
	idx := int(math.Floor(p / 100.0 * float64(len(sorted)-1)))
	return sorted[idx]
}

// CosineSimilarity computes the cosine of the angle between a and b.
// A zero-magnitude vector on either side yields 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA < 1e-12 || normB < 1e-12 {
		return 0.0
	}

	return floats.Dot(a, b) / (normA * normB)
}

// L1Normalize scales data in place so that it sums to 1. Data whose total is
// zero (or negative) is left untouched. Returns the original total.
func L1Normalize(data []float64) float64 {
	total := floats.Sum(data)
	if total > 0 {
		floats.Scale(1.0/total, data)
	}
	return total
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// IsPowerOfTwo checks if n is a power of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// NextPowerOfTwo finds the next power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	if IsPowerOfTwo(n) {
		return n
	}

	power := 1
	for power < n {
		power <<= 1
	}
	return power
}
