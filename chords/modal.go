package chords

import (
	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
)

// ModalCorrector turns plain minor chords on degrees III, V and VII of a minor
// key into major chords when the major third clearly outweighs the minor
// third. It does nothing in major keys.
type ModalCorrector struct{}

func (mc *ModalCorrector) Name() string { return "modal" }

func (mc *ModalCorrector) Refine(tl Timeline, rc *RefineContext) Timeline {
	out := tl.Clone()
	if !rc.Key.IsMinor {
		return out
	}

	for i, ev := range out {
		root := tonal.RootOf(ev.Label)
		if root < 0 || tonal.IsDecorated(ev.Label) || !tonal.IsMinorTriadLabel(ev.Label) {
			continue
		}
		if !isRaisableDegree(common.ToPitchClass(root - rc.Key.Root)) {
			continue
		}

		avg := rc.Features.LocalChroma(ev.FrameIndex, rc.Config.WindowFrames)
		major := avg[common.ToPitchClass(root+4)]
		minor := avg[common.ToPitchClass(root+3)]
		if major > minor*rc.Config.ModalRatio && major > rc.Config.ModalFloor {
			out[i].Label = tonal.StripMinorMarker(ev.Label)
		}
	}
	return out
}

// isRaisableDegree reports whether rel is the III, V or VII degree of the
// natural minor scale
func isRaisableDegree(rel int) bool {
	return rel == tonal.MinorScale[2] || rel == tonal.MinorScale[4] || rel == tonal.MinorScale[6]
}
