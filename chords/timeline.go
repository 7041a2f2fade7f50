package chords

import (
	"fmt"
	"slices"
)

// OrnamentType classifies the harmonic role of a chord event
type OrnamentType string

const (
	OrnamentStructural OrnamentType = "structural"
	OrnamentPassing    OrnamentType = "passing"
	OrnamentNeighbor   OrnamentType = "neighbor"
	OrnamentPedal      OrnamentType = "pedal"
)

// ChordEvent is a chord change at a point in time
type ChordEvent struct {
	Time       float64      `json:"time"`          // Onset in seconds
	Label      string       `json:"label"`         // Chord name, e.g. "Am7" or "C/E"
	FrameIndex int          `json:"frame_index"`   // First analysis frame of the segment
	Ornament   OrnamentType `json:"ornament_type"` // Harmonic role, structural unless classified otherwise
}

// Timeline is an ordered sequence of chord events
type Timeline []ChordEvent

// Clone returns an independent copy of the timeline
func (tl Timeline) Clone() Timeline {
	if tl == nil {
		return Timeline{}
	}
	return slices.Clone(tl)
}

// Labels returns the chord labels in order
func (tl Timeline) Labels() []string {
	labels := make([]string, len(tl))
	for i, ev := range tl {
		labels[i] = ev.Label
	}
	return labels
}

// EventDuration returns the time until the next event, or fallback for the
// last event
func (tl Timeline) EventDuration(i int, fallback float64) float64 {
	if i+1 < len(tl) {
		return tl[i+1].Time - tl[i].Time
	}
	return fallback
}

// MergeRepeats collapses runs of adjacent events sharing a label into the
// first event of each run
func (tl Timeline) MergeRepeats() Timeline {
	out := make(Timeline, 0, len(tl))
	for _, ev := range tl {
		if len(out) > 0 && out[len(out)-1].Label == ev.Label {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Validate checks that times are non-negative and strictly increasing and
// that no two adjacent events share a label
func (tl Timeline) Validate() error {
	for i, ev := range tl {
		if ev.Time < 0 {
			return fmt.Errorf("event %d has negative time %g", i, ev.Time)
		}
		if i == 0 {
			continue
		}
		if ev.Time <= tl[i-1].Time {
			return fmt.Errorf("event %d at %gs does not follow %gs", i, ev.Time, tl[i-1].Time)
		}
		if ev.Label == tl[i-1].Label {
			return fmt.Errorf("events %d and %d repeat label %q", i-1, i, ev.Label)
		}
	}
	return nil
}
