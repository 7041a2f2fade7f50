package chords

import (
	"strings"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
)

// inversionWeightScale scales the bass weight when deriving the confidence floor
const inversionWeightScale = 0.9

// InversionDetector appends a slash bass to events whose stable bass is a
// chord tone other than the root
type InversionDetector struct{}

func (id *InversionDetector) Name() string { return "inversion" }

// ConfidenceFloor is the chroma energy the bass pitch class must exceed
func (id *InversionDetector) ConfidenceFloor(rc *RefineContext) float64 {
	return rc.Config.InversionBaseConfidence / max(1, rc.Config.BassWeight*inversionWeightScale)
}

func (id *InversionDetector) Refine(tl Timeline, rc *RefineContext) Timeline {
	out := tl.Clone()
	floor := id.ConfidenceFloor(rc)

	for i, ev := range out {
		if strings.Contains(ev.Label, "/") {
			continue
		}
		shape := tonal.ParseShape(ev.Label)
		if shape.Root < 0 {
			continue
		}

		bass := rc.Features.BassAt(ev.FrameIndex)
		if bass < 0 || bass == shape.Root {
			continue
		}
		if !shape.Contains(common.ToPitchClass(bass - shape.Root)) {
			continue
		}

		confidence := rc.Features.ChromaAt(ev.FrameIndex)[bass]
		stable := rc.Features.BassCount(ev.FrameIndex, rc.Config.StabilityRadius, bass) >= rc.Config.StabilityCount
		if confidence > floor && stable {
			out[i].Label = tonal.WithBass(ev.Label, bass)
		}
	}
	return out
}
