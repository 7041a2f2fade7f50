package transcode

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV encodes interleaved integer samples as a 16-bit PCM WAV file
func writeWAV(t *testing.T, data []int, sampleRate, channels int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, wavFormatPCM)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	return path
}

func TestDecodeFileStereoDownmix(t *testing.T) {
	// left at half scale, right silent
	frames := 1000
	data := make([]int, 2*frames)
	for i := range frames {
		data[2*i] = 16384
	}

	d := NewDecoder(&DecoderConfig{TargetSampleRate: 8000})
	ad, err := d.DecodeFile(writeWAV(t, data, 8000, 2))
	require.NoError(t, err)

	require.Len(t, ad.PCM, frames)
	assert.InDelta(t, 0.25, ad.PCM[0], 1e-9)
	assert.InDelta(t, 0.25, ad.PCM[frames-1], 1e-9)
	assert.Equal(t, 1, ad.Channels)
	assert.Equal(t, 8000, ad.SampleRate)
	assert.Equal(t, 125*time.Millisecond, ad.Duration)

	require.NotNil(t, ad.Metadata)
	assert.Equal(t, 2, ad.Metadata.Channels)
	assert.Equal(t, 16, ad.Metadata.BitDepth)
	assert.Equal(t, frames, ad.Metadata.Frames)
}

func TestDecodeFileResamplesToTarget(t *testing.T) {
	data := make([]int, 44100)
	for i := range data {
		data[i] = int(8000 * math.Sin(2*math.Pi*440*float64(i)/44100))
	}

	ad, err := NewDecoder(nil).DecodeFile(writeWAV(t, data, 44100, 1))
	require.NoError(t, err)

	assert.Equal(t, 22050, ad.SampleRate)
	assert.Len(t, ad.PCM, 22050)
	assert.InDelta(t, 1.0, ad.Seconds(), 1e-9)
}

func TestDecodeFileMaxDuration(t *testing.T) {
	d := NewDecoder(&DecoderConfig{TargetSampleRate: 8000, MaxDuration: 50 * time.Millisecond})
	ad, err := d.DecodeFile(writeWAV(t, make([]int, 8000), 8000, 1))
	require.NoError(t, err)
	assert.Len(t, ad.PCM, 400)
}

func TestDecodeFileRemoveDC(t *testing.T) {
	data := make([]int, 8000)
	for i := range data {
		data[i] = 8192
	}
	path := writeWAV(t, data, 8000, 1)

	ad, err := NewDecoder(&DecoderConfig{TargetSampleRate: 8000}).DecodeFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, ad.PCM[len(ad.PCM)-1], 1e-9)

	ad, err = NewDecoder(&DecoderConfig{TargetSampleRate: 8000, RemoveDC: true}).DecodeFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, ad.PCM[len(ad.PCM)-1], 1e-6)
}

func TestDecodeRejectsNonWAV(t *testing.T) {
	_, err := NewDecoder(nil).DecodeBytes([]byte("definitely not a riff header, just text"))
	assert.ErrorIs(t, err, ErrInvalidWAV)

	_, err = NewDecoder(nil).DecodeBytes(nil)
	assert.Error(t, err)

	_, err = NewDecoder(nil).DecodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, NewDecoder(nil).ValidateConfig())
	assert.Error(t, NewDecoder(&DecoderConfig{TargetSampleRate: 0}).ValidateConfig())
	assert.Error(t, NewDecoder(&DecoderConfig{TargetSampleRate: 22050, ResampleQuality: "best"}).ValidateConfig())
	assert.Equal(t, []string{"wav"}, NewDecoder(nil).GetSupportedFormats())
}

func TestIntBufferToFloat(t *testing.T) {
	out, err := intBufferToFloat(&audio.IntBuffer{Data: []int{0, 128, 255}}, 8)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, out[0], 1e-12)
	assert.InDelta(t, 0.0, out[1], 1e-12)
	assert.InDelta(t, 127.0/128, out[2], 1e-12)

	_, err = intBufferToFloat(&audio.IntBuffer{Data: []int{1}}, 12)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
