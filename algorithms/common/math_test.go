package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPitchClassAlwaysInRange(t *testing.T) {
	for _, n := range []int{-1000, -25, -13, -12, -1, 0, 1, 11, 12, 13, 127, 1 << 20} {
		pc := ToPitchClass(n)
		assert.GreaterOrEqual(t, pc, 0, "n=%d", n)
		assert.Less(t, pc, 12, "n=%d", n)
	}

	assert.Equal(t, 11, ToPitchClass(-1))
	assert.Equal(t, 0, ToPitchClass(-12))
	assert.Equal(t, 1, ToPitchClass(13))
}

func TestFrequencyToPitchClass(t *testing.T) {
	assert.Equal(t, 9, FrequencyToPitchClass(440))
	assert.Equal(t, 0, FrequencyToPitchClass(261.63))
	assert.Equal(t, 7, FrequencyToPitchClass(98.0))
	assert.Equal(t, 0, FrequencyToPitchClass(0))
}

func TestPitchDistanceWrapsAroundOctave(t *testing.T) {
	assert.Equal(t, 1, PitchDistance(11, 0))
	assert.Equal(t, 1, PitchDistance(0, 11))
	assert.Equal(t, 5, PitchDistance(0, 7))
	assert.Equal(t, 6, PitchDistance(0, 6))
	assert.Equal(t, 0, PitchDistance(4, 4))
}

func TestPercentileUsesFloorIndex(t *testing.T) {
	data := []float64{5, 1, 4, 2, 3}

	assert.Equal(t, 1.0, Percentile(data, 0))
	assert.Equal(t, 2.0, Percentile(data, 30))
	assert.Equal(t, 2.0, Percentile(data, 40))
	assert.Equal(t, 3.0, Percentile(data, 50))
	assert.Equal(t, 5.0, Percentile(data, 100))

	// input must not be reordered
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, data)
}

func TestPercentileIgnoresNonFinite(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(nil, 40))
	assert.Equal(t, 0.0, Percentile([]float64{math.NaN(), math.Inf(1)}, 40))
	assert.Equal(t, 2.0, Percentile([]float64{math.NaN(), 2}, 90))
}

func TestCosineSimilarity(t *testing.T) {
	a := []float64{1, 0, 1}
	assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-12)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-12)
	assert.Equal(t, 0.0, CosineSimilarity([]float64{0, 0, 0}, a))
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1}, a))
}

func TestL1Normalize(t *testing.T) {
	v := []float64{1, 3}
	total := L1Normalize(v)
	assert.Equal(t, 4.0, total)
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, v, 1e-12)

	zero := []float64{0, 0}
	assert.Equal(t, 0.0, L1Normalize(zero))
	assert.Equal(t, []float64{0, 0}, zero)
}

func TestNextPowerOfTwo(t *testing.T) {
	assert.Equal(t, 1, NextPowerOfTwo(0))
	assert.Equal(t, 4096, NextPowerOfTwo(4096))
	assert.Equal(t, 8192, NextPowerOfTwo(4097))
	assert.True(t, IsPowerOfTwo(1024))
	assert.False(t, IsPowerOfTwo(1000))
}
