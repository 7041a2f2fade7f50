package spectral

import (
	"errors"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/mjibson/go-dsp/fft"
)

// ErrEmptyFrame is returned when a transform is requested for a frame with no samples
var ErrEmptyFrame = errors.New("empty frame")

// Spectrum holds the positive-frequency magnitudes of one frame
type Spectrum struct {
	Magnitudes []float64 `json:"magnitudes"` // |X[k]| for k in [0, N/2)
	FFTSize    int       `json:"fft_size"`   // N, the zero-padded transform length
	SampleRate int       `json:"sample_rate"`
}

// BinFrequency returns the centre frequency of bin k in Hz
func (s *Spectrum) BinFrequency(k int) float64 {
	return float64(k) * float64(s.SampleRate) / float64(s.FFTSize)
}

// FFT provides radix-2 Fourier transforms backed by mjibson/go-dsp
type FFT struct {
	buffer []float64
}

// NewFFT creates a new FFT calculator. An FFT keeps a reusable padding buffer
// and must not be shared between goroutines.
func NewFFT() *FFT {
	return &FFT{}
}

// MagnitudeSpectrum zero-pads frame up to the next power of two, transforms it
// and returns the magnitudes of the first N/2 bins
func (f *FFT) MagnitudeSpectrum(frame []float64, sampleRate int) (*Spectrum, error) {
	if len(frame) == 0 {
		return nil, ErrEmptyFrame
	}

	n := common.NextPowerOfTwo(len(frame))
	if cap(f.buffer) < n {
		f.buffer = make([]float64, n)
	}
	padded := f.buffer[:n]
	copy(padded, frame)
	clear(padded[len(frame):])

	// power-of-two input keeps go-dsp on its radix-2 path
	coeffs := fft.FFTReal(padded)

	mags := make([]float64, n/2)
	for k := range mags {
		mags[k] = cmplx.Abs(coeffs[k])
	}

	return &Spectrum{
		Magnitudes: mags,
		FFTSize:    n,
		SampleRate: sampleRate,
	}, nil
}
