package extractors

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-chords/algorithms/chroma"
	"github.com/RyanBlaney/sonido-chords/algorithms/harmonic"
	"github.com/RyanBlaney/sonido-chords/algorithms/spectral"
	"github.com/RyanBlaney/sonido-chords/algorithms/temporal"
	"github.com/RyanBlaney/sonido-chords/algorithms/windowing"
	"github.com/RyanBlaney/sonido-chords/chords/config"
	"github.com/RyanBlaney/sonido-chords/logging"
)

// FeatureExtractor frames a mono signal and computes chroma, bass, energy and
// spectral centroid for every frame
type FeatureExtractor struct {
	config config.FeatureConfig
	bass   *harmonic.BassEstimation
	logger logging.Logger
}

// NewFeatureExtractor creates a feature extractor
func NewFeatureExtractor(cfg config.FeatureConfig) *FeatureExtractor {
	return &FeatureExtractor{
		config: cfg,
		bass: harmonic.NewBassEstimationWithParams(harmonic.BassEstimationParams{
			MinFreq:          cfg.BassMinFreq,
			MaxFreq:          cfg.BassMaxFreq,
			EnergyPercentile: cfg.BassEnergyPercentile,
			MinRunLength:     cfg.BassMinRun,
		}),
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}
}

// HopSize returns the frame advance in samples for a sample rate
func (fe *FeatureExtractor) HopSize(sampleRate int) int {
	return max(1, int(math.Floor(fe.config.HopSeconds*float64(sampleRate))))
}

// frameResult carries the features of one frame back from a worker
type frameResult struct {
	chroma   []float64
	rawBass  int
	energy   float64
	centroid float64
}

// Extract computes the FeatureSet of a signal. A signal shorter than one
// window yields an empty FeatureSet.
func (fe *FeatureExtractor) Extract(samples []float64, sampleRate int) (*FeatureSet, error) {
	logger := fe.logger.WithFields(logging.Fields{
		"function":    "Extract",
		"samples":     len(samples),
		"sample_rate": sampleRate,
	})

	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	windowSize := fe.config.WindowSize
	hopSize := fe.HopSize(sampleRate)
	numFrames := temporal.NewEnergy(windowSize, hopSize).NumFrames(len(samples))

	fs := &FeatureSet{
		Chroma:           make([][]float64, numFrames),
		BassPitchClass:   make([]int, numFrames),
		FrameEnergy:      make([]float64, numFrames),
		SpectralCentroid: make([]float64, numFrames),
		HopSize:          hopSize,
		SampleRate:       sampleRate,
		WindowSize:       windowSize,
	}
	if numFrames == 0 {
		logger.Debug("Signal shorter than one window")
		return fs, nil
	}

	results, err := fe.extractFrames(samples, sampleRate, numFrames, hopSize)
	if err != nil {
		return nil, err
	}

	rawBass := make([]int, numFrames)
	for i, r := range results {
		fs.Chroma[i] = r.chroma
		fs.FrameEnergy[i] = r.energy
		fs.SpectralCentroid[i] = r.centroid
		rawBass[i] = r.rawBass
	}
	fs.BassPitchClass = fe.bass.Stabilize(rawBass, fs.FrameEnergy)

	logger.Debug("Features extracted", logging.Fields{
		"frames":   numFrames,
		"hop_size": hopSize,
	})

	return fs, nil
}

// extractFrames runs the per-frame analysis on a worker pool. Results are
// written by frame index so their order never depends on scheduling.
func (fe *FeatureExtractor) extractFrames(samples []float64, sampleRate, numFrames, hopSize int) ([]frameResult, error) {
	windowSize := fe.config.WindowSize
	window := windowing.NewHann(windowSize, true)

	results := make([]frameResult, numFrames)
	errs := make([]error, numFrames)

	jobs := make(chan int, numFrames)
	numWorkers := fe.workerCount(numFrames)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// per-worker state: the FFT buffer and chroma mapping cache are not shared
			fft := spectral.NewFFT()
			chromaMapper := chroma.NewChromaSTFT(fe.config.ChromaMinFreq, fe.config.ChromaMaxFreq)
			centroid := spectral.NewSpectralCentroid(fe.config.ChromaMinFreq, fe.config.ChromaMaxFreq)
			frame := make([]float64, windowSize)

			for idx := range jobs {
				start := idx * hopSize
				if err := window.ApplyTo(frame, samples[start:start+windowSize]); err != nil {
					errs[idx] = err
					continue
				}

				spectrum, err := fft.MagnitudeSpectrum(frame, sampleRate)
				if err != nil {
					errs[idx] = err
					continue
				}

				results[idx] = frameResult{
					chroma:   chromaMapper.Compute(spectrum),
					rawBass:  fe.bass.DetectPitchClass(spectrum, windowSize),
					energy:   temporal.FrameEnergy(frame),
					centroid: centroid.Compute(spectrum),
				}
			}
		}()
	}

	for idx := range numFrames {
		jobs <- idx
	}
	close(jobs)

	wg.Wait()

	for idx, err := range errs {
		if err != nil {
			fe.logger.Error(err, "Frame analysis failed", logging.Fields{"frame": idx})
			return nil, fmt.Errorf("frame %d: %w", idx, err)
		}
	}

	return results, nil
}

// workerCount sizes the pool from the configuration or the CPU count, never
// exceeding the number of frames and never dropping below one
func (fe *FeatureExtractor) workerCount(numFrames int) int {
	workers := fe.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if numFrames < 100 {
			workers = max(1, workers/2)
		}
	}
	return max(1, min(workers, numFrames))
}
