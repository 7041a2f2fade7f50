package chords

import "github.com/RyanBlaney/sonido-chords/algorithms/tonal"

// QualityRefiner relabels each event with the best-matching template of a
// chord bank, scored against the chroma averaged around the event
type QualityRefiner struct {
	templates []tonal.ChordTemplate
}

// NewQualityRefiner creates a quality refiner over a template bank
func NewQualityRefiner(templates []tonal.ChordTemplate) *QualityRefiner {
	return &QualityRefiner{templates: templates}
}

func (qr *QualityRefiner) Name() string { return "quality" }

func (qr *QualityRefiner) Refine(tl Timeline, rc *RefineContext) Timeline {
	out := tl.Clone()
	if len(qr.templates) == 0 {
		return out
	}

	for i, ev := range out {
		root := tonal.RootOf(ev.Label)
		if root < 0 {
			continue
		}
		avg := rc.Features.LocalChroma(ev.FrameIndex, rc.Config.WindowFrames)
		best, _ := tonal.BestTemplate(qr.templates, avg, root)
		out[i].Label = best.Label(root)
	}
	return out
}
