package chroma

import (
	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/algorithms/spectral"
)

// ChromaSTFT folds a magnitude spectrum into a 12-bin pitch-class profile.
//
// Every bin whose centre frequency lies inside [minFreq, maxFreq] contributes
// its raw magnitude to the nearest equal-tempered pitch class
// (round(69 + 12*log2(f/440)) mod 12). The result is L1-normalised; a frame
// with no energy in the band stays all zero.
type ChromaSTFT struct {
	minFreq float64
	maxFreq float64

	// bin -> pitch class, cached per (fftSize, sampleRate)
	mapping    []int
	fftSize    int
	sampleRate int
}

// NewChromaSTFT creates a chroma mapper for the given band in Hz
func NewChromaSTFT(minFreq, maxFreq float64) *ChromaSTFT {
	return &ChromaSTFT{
		minFreq: minFreq,
		maxFreq: maxFreq,
	}
}

// NewChromaSTFTDefault creates a chroma mapper over the 80-5000 Hz band
func NewChromaSTFTDefault() *ChromaSTFT {
	return NewChromaSTFT(80.0, 5000.0)
}

// Compute returns the normalised chroma vector of a spectrum
func (cs *ChromaSTFT) Compute(spectrum *spectral.Spectrum) []float64 {
	chroma := make([]float64, common.PitchClasses)
	if spectrum == nil || len(spectrum.Magnitudes) == 0 {
		return chroma
	}

	mapping := cs.binMapping(spectrum)
	for k, pc := range mapping {
		if pc < 0 {
			continue
		}
		chroma[pc] += spectrum.Magnitudes[k]
	}

	common.L1Normalize(chroma)
	return chroma
}

// binMapping maps FFT bins to pitch classes (-1 for bins outside the band).
// The DC bin is never mapped.
func (cs *ChromaSTFT) binMapping(spectrum *spectral.Spectrum) []int {
	if cs.mapping != nil &&
		len(cs.mapping) == len(spectrum.Magnitudes) &&
		cs.fftSize == spectrum.FFTSize &&
		cs.sampleRate == spectrum.SampleRate {
		return cs.mapping
	}

	mapping := make([]int, len(spectrum.Magnitudes))
	mapping[0] = common.NoPitchClass
	for k := 1; k < len(mapping); k++ {
		freq := spectrum.BinFrequency(k)
		if freq < cs.minFreq || freq > cs.maxFreq {
			mapping[k] = common.NoPitchClass
			continue
		}
		mapping[k] = common.FrequencyToPitchClass(freq)
	}

	cs.mapping = mapping
	cs.fftSize = spectrum.FFTSize
	cs.sampleRate = spectrum.SampleRate
	return mapping
}
