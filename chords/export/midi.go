package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/chords"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerBeat = 480
	chordOctave  = 60 // C4
	bassOctave   = 48 // C3
	velocity     = 80
	channel      = 0
)

// Voicing returns the MIDI notes of a block chord for label: the chord tones
// stacked above the root in the fourth octave plus, for slash chords, the
// bass note one octave below. Returns nil for labels without a root.
func Voicing(label string) []uint8 {
	chordPart, bassPart, slash := strings.Cut(label, "/")

	shape := tonal.ParseShape(chordPart)
	if shape.Root < 0 {
		return nil
	}

	var notes []uint8
	if slash {
		if bass := tonal.RootOf(bassPart); bass >= 0 {
			notes = append(notes, uint8(bassOctave+bass))
		}
	}

	prev := -1
	for _, interval := range shape.Intervals() {
		for interval <= prev {
			interval += common.PitchClasses
		}
		prev = interval
		notes = append(notes, uint8(chordOctave+shape.Root+interval))
	}
	return notes
}

// WriteMIDI renders the timeline as a single-track Standard MIDI File. Each
// event becomes a block chord held until the next event, with a marker meta
// event carrying its label. The last chord lasts four beats.
func WriteMIDI(w io.Writer, res *chords.Result) error {
	bpm := res.BPM
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		bpm = 120
	}
	secondsPerBeat := 60 / bpm

	toTicks := func(seconds float64) int64 {
		return int64(math.Round(seconds / secondsPerBeat * ticksPerBeat))
	}

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("chords"))
	tr.Add(0, smf.MetaTempo(bpm))
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaText(res.Key.Name()))

	var cursor int64
	for i, ev := range res.Timeline {
		start := toTicks(ev.Time)
		end := start + 4*ticksPerBeat
		if i+1 < len(res.Timeline) {
			end = toTicks(res.Timeline[i+1].Time)
		}
		if start < cursor || end <= start {
			continue
		}

		notes := Voicing(ev.Label)

		tr.Add(uint32(start-cursor), smf.MetaMarker(ev.Label))
		for _, n := range notes {
			tr.Add(0, midi.NoteOn(channel, n, velocity))
		}

		delta := uint32(end - start)
		for _, n := range notes {
			tr.Add(delta, midi.NoteOff(channel, n))
			delta = 0
		}
		if len(notes) == 0 {
			// keep the marker spacing for labels that have no voicing
			end = start
		}
		cursor = end
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerBeat)
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("failed to add MIDI track: %w", err)
	}

	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write MIDI file: %w", err)
	}
	return nil
}
