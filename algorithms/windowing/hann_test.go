package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHannSymmetricEndpoints(t *testing.T) {
	h := NewHann(5, true)
	c := h.Coefficients()

	require.Len(t, c, 5)
	assert.InDelta(t, 0.0, c[0], 1e-12)
	assert.InDelta(t, 0.5, c[1], 1e-12)
	assert.InDelta(t, 1.0, c[2], 1e-12)
	assert.InDelta(t, 0.0, c[4], 1e-12)
}

func TestHannApplyTo(t *testing.T) {
	h := NewHann(3, true)
	dst := make([]float64, 3)

	require.NoError(t, h.ApplyTo(dst, []float64{2, 2, 2}))
	assert.InDeltaSlice(t, []float64{0, 2, 0}, dst, 1e-12)

	assert.Error(t, h.ApplyTo(dst, []float64{1, 2}))
}

func TestHannDegenerateSizes(t *testing.T) {
	assert.Empty(t, NewHann(0, true).Coefficients())
	assert.Equal(t, []float64{1}, NewHann(1, true).Coefficients())
}
