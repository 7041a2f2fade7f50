package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/chords"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func sampleResult() *chords.Result {
	return &chords.Result{
		Timeline: chords.Timeline{
			{Time: 0, Label: "Am", FrameIndex: 0, Ornament: chords.OrnamentStructural},
			{Time: 2, Label: "E/G#", FrameIndex: 20, Ornament: chords.OrnamentPassing},
			{Time: 3, Label: "C", FrameIndex: 30},
		},
		Key:      tonal.Key{Root: 9, IsMinor: true, Score: 5.1, Confidence: 0.8},
		BPM:      120,
		Duration: 4.5,
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, "mid": FormatMIDI, "midi": FormatMIDI} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.True(t, FormatMIDI.Binary())
	assert.False(t, FormatJSON.Binary())
	assert.Equal(t, "mid", FormatMIDI.Extension())
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), FormatText))

	want := "# key: A minor  bpm: 120  duration: 4.50s\n" +
		"0.00s  Am  [structural]\n" +
		"2.00s  E/G#  [passing]\n" +
		"3.00s  C  [structural]\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), FormatJSON))

	var doc struct {
		KeyName  string          `json:"key_name"`
		Timeline chords.Timeline `json:"timeline"`
		Key      tonal.Key       `json:"key"`
		BPM      float64         `json:"bpm"`
		Duration float64         `json:"duration"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "A minor", doc.KeyName)
	assert.Equal(t, sampleResult().Timeline, doc.Timeline)
	assert.Equal(t, 9, doc.Key.Root)
	assert.Equal(t, 120.0, doc.BPM)
}

func TestWriteJSONEmptyTimeline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, &chords.Result{}))
	assert.Contains(t, buf.String(), `"timeline": []`)
}

func TestWriteRejectsNilAndUnknown(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, nil, FormatText))
	assert.ErrorIs(t, Write(&bytes.Buffer{}, sampleResult(), Format("pdf")), ErrUnknownFormat)
}

func TestVoicing(t *testing.T) {
	assert.Equal(t, []uint8{60, 64, 67}, Voicing("C"))
	assert.Equal(t, []uint8{69, 72, 76}, Voicing("Am"))
	assert.Equal(t, []uint8{67, 71, 74, 77}, Voicing("G7"))
	assert.Equal(t, []uint8{52, 60, 64, 67}, Voicing("C/E"))
	assert.Equal(t, []uint8{60, 64, 67, 74}, Voicing("Cadd9"))
	assert.Equal(t, []uint8{71, 74, 78}, Voicing("Bm"))
	assert.Nil(t, Voicing("N"))
}

func TestWriteMIDI(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), FormatMIDI))

	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, s.Tracks, 1)
	assert.Equal(t, smf.MetricTicks(ticksPerBeat), s.TimeFormat)

	var (
		markers    []string
		markerTick []int64
		noteOns    []uint8
		tempo      float64
		abs        int64
	)
	for _, ev := range s.Tracks[0] {
		abs += int64(ev.Delta)

		var text string
		var ch, key, vel uint8
		var bpm float64
		switch {
		case ev.Message.GetMetaMarker(&text):
			markers = append(markers, text)
			markerTick = append(markerTick, abs)
		case ev.Message.GetNoteOn(&ch, &key, &vel):
			noteOns = append(noteOns, key)
		case ev.Message.GetMetaTempo(&bpm):
			tempo = bpm
		}
	}

	assert.InDelta(t, 120.0, tempo, 1e-6)
	assert.Equal(t, []string{"Am", "E/G#", "C"}, markers)
	// 2s and 3s at 120 BPM are beats 4 and 6
	assert.Equal(t, []int64{0, 4 * ticksPerBeat, 6 * ticksPerBeat}, markerTick)
	assert.Equal(t, []uint8{69, 72, 76, 56, 64, 68, 71, 60, 64, 67}, noteOns)
}
