package chords

import (
	"testing"

	"github.com/RyanBlaney/sonido-chords/chords/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker() *ChordTracker {
	return NewChordTracker(config.DefaultConfig().Tracker)
}

func TestCandidates(t *testing.T) {
	ct := newTracker()

	labels := func(cands []ChordCandidate) []string {
		var out []string
		for _, c := range cands {
			out = append(out, c.Label)
		}
		return out
	}

	assert.Equal(t,
		[]string{"C", "Cm", "D", "Dm", "E", "Em", "F", "Fm", "G", "Gm", "A", "Am", "B", "Bm"},
		labels(ct.Candidates(keyCMajor)))
	assert.Equal(t,
		[]string{"A", "Am", "B", "Bm", "C", "Cm", "D", "Dm", "E", "Em", "F", "Fm", "G", "Gm"},
		labels(ct.Candidates(keyAMinor)))
}

func TestTransitionPenalty(t *testing.T) {
	ct := newTracker()
	c := ChordCandidate{Root: 0, Label: "C"}
	g := ChordCandidate{Root: 7, Label: "G"}
	am := ChordCandidate{Root: 9, Minor: true, Label: "Am"}

	assert.Equal(t, 0.0, ct.TransitionPenalty(c, c))
	assert.InDelta(t, 1.1, ct.TransitionPenalty(c, g), 1e-12)
	assert.InDelta(t, 0.95, ct.TransitionPenalty(c, am), 1e-12)
	assert.InDelta(t, ct.TransitionPenalty(g, c), ct.TransitionPenalty(c, g), 1e-12)
}

func TestTrackSingleChord(t *testing.T) {
	fs := featureSet(repeatChroma(triad(0, false), 30), nil)

	tl := newTracker().Track(fs, keyCMajor)
	require.Len(t, tl, 1)
	assert.Equal(t, "C", tl[0].Label)
	assert.Equal(t, 0.0, tl[0].Time)
	assert.Equal(t, 0, tl[0].FrameIndex)
	assert.Equal(t, OrnamentStructural, tl[0].Ornament)
}

func TestTrackChordChange(t *testing.T) {
	chroma := append(repeatChroma(triad(0, false), 10), repeatChroma(triad(7, false), 10)...)
	fs := featureSet(chroma, nil)

	tl := newTracker().Track(fs, keyCMajor)
	require.Len(t, tl, 2)
	assert.Equal(t, []string{"C", "G"}, tl.Labels())
	assert.Equal(t, 10, tl[1].FrameIndex)
	assert.InDelta(t, 1.0, tl[1].Time, 1e-12)
	assert.NoError(t, tl.Validate())
}

func TestTrackTieGoesToFirstCandidate(t *testing.T) {
	// C E G A matches C and Am equally well
	fs := featureSet(repeatChroma(chromaOf(0, 4, 7, 9), 8), nil)

	tl := newTracker().Track(fs, keyCMajor)
	require.Len(t, tl, 1)
	assert.Equal(t, "C", tl[0].Label)
}

func TestTrackBassBreaksTie(t *testing.T) {
	bass := make([]int, 8)
	for i := range bass {
		bass[i] = 9
	}
	fs := featureSet(repeatChroma(chromaOf(0, 4, 7, 9), 8), bass)

	tl := newTracker().Track(fs, keyCMajor)
	require.Len(t, tl, 1)
	assert.Equal(t, "Am", tl[0].Label)
}

func TestTrackEdgeCases(t *testing.T) {
	ct := newTracker()

	assert.Empty(t, ct.Track(featureSet(nil, nil), keyCMajor))
	assert.Empty(t, ct.Track(nil, keyCMajor))

	single := ct.Track(featureSet(repeatChroma(triad(2, true), 1), nil), keyCMajor)
	require.Len(t, single, 1)
	assert.Equal(t, "Dm", single[0].Label)
	assert.Equal(t, 0.0, single[0].Time)
}

func TestTrackSilentFramesStayDeterministic(t *testing.T) {
	fs := featureSet(repeatChroma(make([]float64, 12), 5), nil)

	tl := newTracker().Track(fs, keyCMajor)
	require.Len(t, tl, 1)
	assert.Equal(t, "C", tl[0].Label)
}
