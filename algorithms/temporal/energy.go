package temporal

import "gonum.org/v1/gonum/floats"

// Energy computes short-time energy over fixed, possibly overlapping frames
type Energy struct {
	frameSize int
	hopSize   int
}

// NewEnergy creates a new energy calculator
func NewEnergy(frameSize, hopSize int) *Energy {
	return &Energy{
		frameSize: frameSize,
		hopSize:   hopSize,
	}
}

// NumFrames returns how many complete frames fit into a signal of n samples.
// Trailing samples that do not fill a whole frame are dropped.
func (e *Energy) NumFrames(n int) int {
	if e.frameSize <= 0 || e.hopSize <= 0 || n < e.frameSize {
		return 0
	}
	return (n-e.frameSize)/e.hopSize + 1
}

// ComputeShortTimeEnergy returns the sum of squares of every complete frame
func (e *Energy) ComputeShortTimeEnergy(signal []float64) []float64 {
	numFrames := e.NumFrames(len(signal))
	energies := make([]float64, numFrames)

	for i := range numFrames {
		start := i * e.hopSize
		energies[i] = FrameEnergy(signal[start : start+e.frameSize])
	}

	return energies
}

// FrameEnergy is the sum of squared samples of a single frame
func FrameEnergy(frame []float64) float64 {
	return floats.Dot(frame, frame)
}
