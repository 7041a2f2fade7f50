package chords

import "github.com/RyanBlaney/sonido-chords/algorithms/tonal"

// OrnamentClassifier marks short passing and neighbour chords and chords over
// a held bass. Labels are never changed.
type OrnamentClassifier struct{}

func (oc *OrnamentClassifier) Name() string { return "ornament" }

func (oc *OrnamentClassifier) Refine(tl Timeline, rc *RefineContext) Timeline {
	out := tl.Clone()
	spb := rc.SecondsPerBeat()

	for i := range out {
		out[i].Ornament = oc.classify(tl, i, spb, rc)
	}
	return out
}

// classify evaluates passing, then neighbour, then pedal; a later match wins
func (oc *OrnamentClassifier) classify(tl Timeline, i int, spb float64, rc *RefineContext) OrnamentType {
	ev := tl[i]
	dur := tl.EventDuration(i, spb)
	hasPrev := i > 0
	hasNext := i+1 < len(tl)

	ornament := OrnamentStructural

	if dur < rc.Config.PassingBeats*spb && hasPrev && hasNext {
		rPrev := tonal.RootOf(tl[i-1].Label)
		r := tonal.RootOf(ev.Label)
		rNext := tonal.RootOf(tl[i+1].Label)
		if rPrev >= 0 && r >= 0 && rNext >= 0 && isStep(r-rPrev) && isStep(rNext-r) {
			ornament = OrnamentPassing
		}
	}

	if dur < rc.Config.NeighborBeats*spb && hasPrev && hasNext && tl[i-1].Label == tl[i+1].Label {
		ornament = OrnamentNeighbor
	}

	if hasPrev {
		prev := tl[i-1]
		bassCur := rc.Features.BassAt(ev.FrameIndex)
		bassPrev := rc.Features.BassAt(prev.FrameIndex)
		if bassCur >= 0 && bassCur == bassPrev {
			rCur := tonal.RootOf(ev.Label)
			rPrev := tonal.RootOf(prev.Label)
			if rCur >= 0 && rPrev >= 0 && rCur != rPrev {
				ornament = OrnamentPedal
			}
		}
	}

	return ornament
}

// isStep reports whether a root difference in 0-11 pitch-class numbers is at
// most two semitones, counting the wrap across B-C
func isStep(diff int) bool {
	if diff < 0 {
		diff = -diff
	}
	return diff <= 2 || diff >= 10
}
