package extractors

import (
	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"gonum.org/v1/gonum/floats"
)

// FeatureSet holds the per-frame features of one clip in frame order.
// Chroma, BassPitchClass, FrameEnergy and SpectralCentroid always have the
// same length.
type FeatureSet struct {
	Chroma           [][]float64 `json:"chroma"`            // 12 bins per frame, L1-normalised or all zero
	BassPitchClass   []int       `json:"bass_pitch_class"`  // Stabilised bass, -1 for none
	FrameEnergy      []float64   `json:"frame_energy"`      // Sum of squares of the windowed frame
	SpectralCentroid []float64   `json:"spectral_centroid"` // Hz, 0 for silent frames
	HopSize          int         `json:"hop_size"`          // Samples between frame starts
	SampleRate       int         `json:"sample_rate"`       // Hz
	WindowSize       int         `json:"window_size"`       // Samples per frame
}

// Len returns the number of frames
func (fs *FeatureSet) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.Chroma)
}

// HopSeconds returns the frame advance in seconds
func (fs *FeatureSet) HopSeconds() float64 {
	if fs == nil || fs.SampleRate <= 0 {
		return 0
	}
	return float64(fs.HopSize) / float64(fs.SampleRate)
}

// FrameTime returns the start time of frame i in seconds
func (fs *FeatureSet) FrameTime(i int) float64 {
	return float64(i) * fs.HopSeconds()
}

// BassAt returns the stabilised bass of frame i, or -1 when i is out of range
func (fs *FeatureSet) BassAt(i int) int {
	if fs == nil || i < 0 || i >= len(fs.BassPitchClass) {
		return common.NoPitchClass
	}
	return fs.BassPitchClass[i]
}

// ChromaAt returns the chroma of frame i, or zeros when i is out of range
func (fs *FeatureSet) ChromaAt(i int) []float64 {
	if fs == nil || i < 0 || i >= len(fs.Chroma) {
		return make([]float64, common.PitchClasses)
	}
	return fs.Chroma[i]
}

// LocalChroma averages the chroma over frames [center-radius, center+radius]
// clipped to the clip bounds
func (fs *FeatureSet) LocalChroma(center, radius int) []float64 {
	avg := make([]float64, common.PitchClasses)
	n := fs.Len()
	if n == 0 {
		return avg
	}

	lo := max(0, center-radius)
	hi := min(n-1, center+radius)
	if lo > hi {
		return avg
	}

	for i := lo; i <= hi; i++ {
		if len(fs.Chroma[i]) == common.PitchClasses {
			floats.Add(avg, fs.Chroma[i])
		}
	}
	floats.Scale(1/float64(hi-lo+1), avg)
	return avg
}

// BassCount counts frames in [center-radius, center+radius] whose stabilised
// bass equals pc
func (fs *FeatureSet) BassCount(center, radius, pc int) int {
	if fs == nil {
		return 0
	}
	count := 0
	for j := max(0, center-radius); j <= min(len(fs.BassPitchClass)-1, center+radius); j++ {
		if fs.BassPitchClass[j] == pc {
			count++
		}
	}
	return count
}
