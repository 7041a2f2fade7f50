package spectral

// SpectralCentroid computes the magnitude-weighted mean frequency of a
// spectrum restricted to a frequency band
type SpectralCentroid struct {
	minFreq float64
	maxFreq float64
}

// NewSpectralCentroid creates a centroid calculator over [minFreq, maxFreq] Hz
func NewSpectralCentroid(minFreq, maxFreq float64) *SpectralCentroid {
	return &SpectralCentroid{
		minFreq: minFreq,
		maxFreq: maxFreq,
	}
}

// Compute calculates the spectral centroid in Hz. The DC bin is skipped.
// A spectrum with no energy in the band yields 0.
func (sc *SpectralCentroid) Compute(spectrum *Spectrum) float64 {
	if spectrum == nil || len(spectrum.Magnitudes) == 0 {
		return 0.0
	}

	numerator := 0.0
	denominator := 0.0

	for k := 1; k < len(spectrum.Magnitudes); k++ {
		freq := spectrum.BinFrequency(k)
		if freq < sc.minFreq || freq > sc.maxFreq {
			continue
		}
		numerator += freq * spectrum.Magnitudes[k]
		denominator += spectrum.Magnitudes[k]
	}

	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}
