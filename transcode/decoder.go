package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/RyanBlaney/sonido-chords/algorithms/filters"
	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	ErrInvalidWAV        = errors.New("not a valid WAV file")
	ErrUnsupportedFormat = errors.New("unsupported WAV encoding")
)

// wavFormatPCM is the RIFF format tag of integer PCM data
const wavFormatPCM = 1

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64       `json:"-"` // Mono samples in [-1, 1]
	SampleRate int             `json:"sample_rate"`
	Channels   int             `json:"channels"`
	Duration   time.Duration   `json:"duration"`
	Metadata   *SourceMetadata `json:"metadata,omitempty"`
}

// Seconds returns the decoded duration in seconds
func (ad *AudioData) Seconds() float64 {
	if ad.SampleRate <= 0 {
		return 0
	}
	return float64(len(ad.PCM)) / float64(ad.SampleRate)
}

// SourceMetadata describes the file before downmixing and resampling
type SourceMetadata struct {
	Path       string `json:"path,omitempty"`
	Format     string `json:"format"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	BitDepth   int    `json:"bit_depth"`
	Frames     int    `json:"frames"` // Samples per channel
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate" yaml:"target_sample_rate"`
	MaxDuration      time.Duration `json:"max_duration" yaml:"max_duration"`         // 0 decodes the whole file
	ResampleQuality  string        `json:"resample_quality" yaml:"resample_quality"` // "fast" (linear) or "high" (windowed sinc)
	RemoveDC         bool          `json:"remove_dc" yaml:"remove_dc"`               // High-pass the input below DCCutoffHz
}

// DCCutoffHz is the cutoff of the optional DC blocking filter
const DCCutoffHz = 10.0

// DefaultDecoderConfig returns the configuration used for chord analysis:
// mono at 22050 Hz, no length limit
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 22050,
		MaxDuration:      0,
		ResampleQuality:  ResampleFast,
	}
}

// Decoder reads PCM WAV audio and converts it to mono at the target rate
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "audio_decoder",
		}),
	}
}

// DecodeFile decodes a WAV file
func (d *Decoder) DecodeFile(filename string) (*AudioData, error) {
	logger := d.logger.WithFields(logging.Fields{
		"function": "DecodeFile",
		"filename": filename,
	})

	logger.Debug("Starting audio file decode")

	f, err := os.Open(filename)
	if err != nil {
		logger.Error(err, "Failed to open audio file")
		return nil, err
	}
	defer f.Close()

	audioData, err := d.decode(f, logger)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	audioData.Metadata.Path = filename
	return audioData, nil
}

// DecodeBytes decodes an in-memory WAV file
func (d *Decoder) DecodeBytes(data []byte) (*AudioData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio data")
	}
	return d.DecodeReader(bytes.NewReader(data))
}

// DecodeReader decodes WAV data from a seekable reader
func (d *Decoder) DecodeReader(r io.ReadSeeker) (*AudioData, error) {
	return d.decode(r, d.logger.WithFields(logging.Fields{
		"function": "DecodeReader",
	}))
}

func (d *Decoder) decode(r io.ReadSeeker, logger logging.Logger) (*AudioData, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	source := &SourceMetadata{
		Format:     "wav",
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}

	logger.Debug("Audio metadata detected", logging.Fields{
		"input_sample_rate": source.SampleRate,
		"input_channels":    source.Channels,
		"input_bit_depth":   source.BitDepth,
	})

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		logger.Error(err, "Failed to read PCM data")
		return nil, err
	}

	interleaved, err := intBufferToFloat(buf, source.BitDepth)
	if err != nil {
		return nil, err
	}

	mono := Downmix(interleaved, source.Channels)
	source.Frames = len(mono)

	if d.config.MaxDuration > 0 {
		limit := int(d.config.MaxDuration.Seconds() * float64(source.SampleRate))
		if limit < len(mono) {
			mono = mono[:limit]
		}
	}

	if d.config.RemoveDC {
		mono = filters.NewDCRemovalWithCutoff(source.SampleRate, DCCutoffHz).ProcessBuffer(mono)
	}

	samples, err := d.resample(mono, source.SampleRate)
	if err != nil {
		logger.Error(err, "Failed to resample audio")
		return nil, err
	}
	duration := time.Duration(len(samples)) * time.Second / time.Duration(d.config.TargetSampleRate)

	logger.Debug("WAV decode completed successfully", logging.Fields{
		"output_samples":     len(samples),
		"output_sample_rate": d.config.TargetSampleRate,
		"output_duration":    duration.Seconds(),
	})

	return &AudioData{
		PCM:        samples,
		SampleRate: d.config.TargetSampleRate,
		Channels:   1,
		Duration:   duration,
		Metadata:   source,
	}, nil
}

func (d *Decoder) resample(mono []float64, from int) ([]float64, error) {
	if d.config.ResampleQuality == ResampleHigh {
		return ResampleHighQuality(mono, from, d.config.TargetSampleRate)
	}
	return Resample(mono, from, d.config.TargetSampleRate), nil
}

// intBufferToFloat scales integer PCM to [-1, 1]. 8-bit WAV data is unsigned.
func intBufferToFloat(buf *audio.IntBuffer, bitDepth int) ([]float64, error) {
	if buf == nil {
		return nil, nil
	}

	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}

	fullScale := float64(int64(1) << (bitDepth - 1))
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	out := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		out[i] = float64(v-offset) / fullScale
	}
	return out, nil
}

// ValidateConfig validates the decoder configuration
func (d *Decoder) ValidateConfig() error {
	if d.config.TargetSampleRate <= 0 {
		return fmt.Errorf("target sample rate must be positive: %d", d.config.TargetSampleRate)
	}
	if d.config.ResampleQuality != "" && d.config.ResampleQuality != ResampleFast && d.config.ResampleQuality != ResampleHigh {
		return fmt.Errorf("unknown resample quality %q", d.config.ResampleQuality)
	}
	if d.config.MaxDuration < 0 {
		return fmt.Errorf("max duration must not be negative: %v", d.config.MaxDuration)
	}
	return nil
}

// GetConfig returns decoder configuration information
func (d *Decoder) GetConfig() map[string]any {
	return map[string]any{
		"target_sample_rate": d.config.TargetSampleRate,
		"target_channels":    1,
		"max_duration":       d.config.MaxDuration,
		"resample_quality":   d.config.ResampleQuality,
		"remove_dc":          d.config.RemoveDC,
	}
}

// GetSupportedFormats returns a list of formats supported by this decoder
func (d *Decoder) GetSupportedFormats() []string {
	return []string{"wav"}
}
