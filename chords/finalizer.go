package chords

import (
	"math"
	"slices"

	"github.com/RyanBlaney/sonido-chords/algorithms/temporal"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/chords/config"
	"github.com/RyanBlaney/sonido-chords/chords/extractors"
	"github.com/RyanBlaney/sonido-chords/logging"
)

// TimelineFinalizer drops segments too short to be real chord changes and
// snaps the survivors to the beat grid
type TimelineFinalizer struct {
	config config.FinalizerConfig
	tempo  config.TempoConfig
	logger logging.Logger
}

// NewTimelineFinalizer creates a timeline finalizer
func NewTimelineFinalizer(cfg config.FinalizerConfig, tempo config.TempoConfig) *TimelineFinalizer {
	return &TimelineFinalizer{
		config: cfg,
		tempo:  tempo,
		logger: logging.WithFields(logging.Fields{
			"component": "timeline_finalizer",
		}),
	}
}

// SecondsPerBeat returns the beat period for bpm after clamping it to the
// configured tempo range
func (tf *TimelineFinalizer) SecondsPerBeat(bpm float64) float64 {
	return temporal.SecondsPerBeat(bpm, tf.tempo.DefaultBPM, tf.tempo.MinBPM, tf.tempo.MaxBPM)
}

// MinDuration returns the shortest segment kept without further evidence
func (tf *TimelineFinalizer) MinDuration(bpm float64) float64 {
	return math.Max(tf.config.MinSegmentSeconds, tf.config.MinSegmentBeats*tf.SecondsPerBeat(bpm))
}

// Finalize filters and snaps a timeline. The filter and snap passes repeat
// until the timeline stops changing, so finalizing a finalized timeline is a
// no-op. A later pass drops segments that snapping shortened below the
// minimum duration.
func (tf *TimelineFinalizer) Finalize(tl Timeline, key tonal.Key, bpm float64, fs *extractors.FeatureSet) Timeline {
	spb := tf.SecondsPerBeat(bpm)
	minDur := tf.MinDuration(bpm)

	out := tl.Clone()
	for range len(tl) + 2 {
		next := tf.snap(tf.dropShort(out, key, spb, minDur, fs), spb)
		if slices.Equal(next, out) {
			break
		}
		out = next
	}

	tf.logger.Debug("Timeline finalized", logging.Fields{
		"function":         "Finalize",
		"events_in":        len(tl),
		"events_out":       len(out),
		"seconds_per_beat": spb,
	})

	return out
}

// dropShort removes segments shorter than minDur unless the bass changes
// across the boundary or the segment is in key while the previous kept one
// is not. The first event is always kept.
func (tf *TimelineFinalizer) dropShort(tl Timeline, key tonal.Key, spb, minDur float64, fs *extractors.FeatureSet) Timeline {
	out := make(Timeline, 0, len(tl))
	lastBeats := tf.config.LastSegmentBeats * spb

	for i, ev := range tl {
		dur := tl.EventDuration(i, lastBeats)
		if dur < minDur && len(out) > 0 {
			nextFrame := ev.FrameIndex + 1
			if i+1 < len(tl) {
				nextFrame = tl[i+1].FrameIndex
			}

			if !tf.bassChanged(fs, ev.FrameIndex, nextFrame) {
				prev := out[len(out)-1]
				if !inKey(ev.Label, key) || inKey(prev.Label, key) {
					continue
				}
			}
		}
		out = append(out, ev)
	}

	return out
}

// bassChanged reports whether both frames carry a bass and the two differ
func (tf *TimelineFinalizer) bassChanged(fs *extractors.FeatureSet, frameA, frameB int) bool {
	if fs == nil {
		return false
	}
	if last := len(fs.BassPitchClass) - 1; frameB > last {
		frameB = last
	}
	a := fs.BassAt(frameA)
	b := fs.BassAt(frameB)
	return a >= 0 && b >= 0 && a != b
}

// snap quantises onsets to the nearest beat and merges repeated labels.
// When an onset lands on the previous one, the previous event is left with
// no duration and the later event takes its place.
func (tf *TimelineFinalizer) snap(tl Timeline, spb float64) Timeline {
	out := make(Timeline, 0, len(tl))
	for _, ev := range tl {
		ev.Time = snapToBeat(ev.Time, spb)
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.Label == ev.Label {
				continue
			}
			if ev.Time <= last.Time {
				ev.Time = last.Time
				out = out[:len(out)-1]
				if len(out) > 0 && out[len(out)-1].Label == ev.Label {
					continue
				}
			}
		}
		out = append(out, ev)
	}
	return out
}

func snapToBeat(t, spb float64) float64 {
	return math.Max(0, math.Round(t/spb)*spb)
}

// inKey reports whether the root of a label is diatonic to the key.
// Labels without a root are never in key.
func inKey(label string, key tonal.Key) bool {
	root := tonal.RootOf(label)
	return root >= 0 && key.Contains(root)
}
