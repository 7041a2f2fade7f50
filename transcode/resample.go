package transcode

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

const (
	ResampleFast = "fast"
	ResampleHigh = "high"
)

// Downmix averages interleaved channels into one. A single channel is
// returned as is.
func Downmix(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}

	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for c := range channels {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}

// Resample converts a mono signal between sample rates by linear
// interpolation. The output holds floor(len * to/from) samples.
func Resample(signal []float64, from, to int) []float64 {
	if from <= 0 || to <= 0 || from == to || len(signal) == 0 {
		return signal
	}

	ratio := float64(to) / float64(from)
	n := int(math.Floor(float64(len(signal)) * ratio))
	out := make([]float64, n)

	for i := range out {
		pos := float64(i) / ratio
		i0 := int(math.Floor(pos))
		if i0 >= len(signal) {
			i0 = len(signal) - 1
		}
		i1 := min(len(signal)-1, i0+1)
		frac := pos - float64(i0)
		out[i] = signal[i0]*(1-frac) + signal[i1]*frac
	}
	return out
}

// ResampleHighQuality converts a mono signal between sample rates with a
// band-limited polyphase filter instead of linear interpolation
func ResampleHighQuality(signal []float64, from, to int) ([]float64, error) {
	if from <= 0 || to <= 0 || from == to || len(signal) == 0 {
		return signal, nil
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}

	out, err := r.Process(signal)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}
	return out, nil
}
