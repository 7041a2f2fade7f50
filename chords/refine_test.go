package chords

import (
	"testing"

	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRefinersOrder(t *testing.T) {
	var names []string
	for _, r := range DefaultRefiners() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"quality", "modal", "inversion", "ornament"}, names)
}

func TestQualityRefiner(t *testing.T) {
	g7 := chromaOf(7, 11, 2, 5)
	fs := featureSet(repeatChroma(g7, 10), nil)
	rc := refineContext(fs, keyCMajor, 120)

	out := NewQualityRefiner(nil).Refine(Timeline{event(0, "G", 2)}, rc)
	assert.Equal(t, "G", out[0].Label, "empty bank changes nothing")

	qr := DefaultRefiners()[0]
	out = qr.Refine(Timeline{event(0, "G", 2), event(0.5, "N", 5)}, rc)
	assert.Equal(t, []string{"G7", "N"}, out.Labels())
}

func TestQualityRefinerKeepsPlainTriad(t *testing.T) {
	fs := featureSet(repeatChroma(chromaOf(0, 4, 7), 10), nil)
	rc := refineContext(fs, keyCMajor, 120)

	out := NewQualityRefiner(tonal.ExtendedTemplates).Refine(Timeline{event(0, "Cm", 3)}, rc)
	assert.Equal(t, "C", out[0].Label)
}

func weightedChroma(weights map[int]float64) []float64 {
	c := make([]float64, 12)
	for pc, w := range weights {
		c[pc] = w
	}
	return c
}

func TestModalCorrector(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		chroma []float64
		want   string
	}{
		{"raised third on v", "Em", chromaOf(4, 8, 11), "E"},
		{"natural third on v", "Em", chromaOf(4, 7, 11), "Em"},
		{"raised third on VII", "Gm", chromaOf(7, 11, 2), "G"},
		{"decorated label", "Em7", chromaOf(4, 8, 11), "Em7"},
		{"iv is not raised", "Dm", chromaOf(2, 6, 9), "Dm"},
		{"unparseable", "N", chromaOf(4, 8, 11), "N"},
		{"raised third below floor", "Em", weightedChroma(map[int]float64{4: 0.8, 7: 0.05, 8: 0.07, 11: 0.08}), "Em"},
		{"raised third above floor", "Em", weightedChroma(map[int]float64{4: 0.75, 7: 0.07, 8: 0.09, 11: 0.09}), "E"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := refineContext(featureSet(repeatChroma(tt.chroma, 5), nil), keyAMinor, 120)
			out := (&ModalCorrector{}).Refine(Timeline{event(0, tt.label, 2)}, rc)
			assert.Equal(t, tt.want, out[0].Label)
		})
	}
}

func TestModalCorrectorIgnoresMajorKeys(t *testing.T) {
	rc := refineContext(featureSet(repeatChroma(chromaOf(4, 8, 11), 5), nil), keyCMajor, 120)
	out := (&ModalCorrector{}).Refine(Timeline{event(0, "Em", 2)}, rc)
	assert.Equal(t, "Em", out[0].Label)
}

func inversionFeatures(bass []int, third float64) *RefineContext {
	c := make([]float64, 12)
	c[0] = 1 - 2*third
	c[4] = third
	c[7] = third
	fs := featureSet(repeatChroma(c, len(bass)), bass)
	return refineContext(fs, keyCMajor, 120)
}

func TestInversionDetector(t *testing.T) {
	id := &InversionDetector{}
	assert.InDelta(t, 0.10/1.08, id.ConfidenceFloor(inversionFeatures(noBass(1), 0.3)), 1e-12)

	tests := []struct {
		name  string
		label string
		bass  []int
		third float64
		want  string
	}{
		{"stable third in bass", "C", []int{4, 4, 4, 4, 4, -1}, 0.3, "C/E"},
		{"stable fifth in bass", "C", []int{7, 7, 7, 7, 7, -1}, 0.3, "C/G"},
		{"no bass", "C", noBass(6), 0.3, "C"},
		{"bass is the root", "C", []int{0, 0, 0, 0, 0, -1}, 0.3, "C"},
		{"bass outside the chord", "C", []int{2, 2, 2, 2, 2, -1}, 0.3, "C"},
		{"unstable bass", "C", []int{-1, 4, 4, -1, -1, -1}, 0.3, "C"},
		{"weak bass chroma", "C", []int{4, 4, 4, 4, 4, -1}, 0.05, "C"},
		{"already inverted", "C/G", []int{4, 4, 4, 4, 4, -1}, 0.3, "C/G"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := inversionFeatures(tt.bass, tt.third)
			out := id.Refine(Timeline{event(0, tt.label, 2)}, rc)
			assert.Equal(t, tt.want, out[0].Label)
		})
	}
}

func ornaments(tl Timeline) []OrnamentType {
	out := make([]OrnamentType, len(tl))
	for i, ev := range tl {
		out[i] = ev.Ornament
	}
	return out
}

func TestOrnamentClassifier(t *testing.T) {
	oc := &OrnamentClassifier{}
	rc := refineContext(featureSet(repeatChroma(make([]float64, 12), 40), nil), keyCMajor, 120)

	tests := []struct {
		name string
		tl   Timeline
		want []OrnamentType
	}{
		{
			name: "neighbor",
			tl:   Timeline{event(0, "C", 0), event(1.0, "D", 10), event(1.1, "C", 11)},
			want: []OrnamentType{OrnamentStructural, OrnamentNeighbor, OrnamentStructural},
		},
		{
			name: "passing",
			tl:   Timeline{event(0, "C", 0), event(1.0, "D", 10), event(1.1, "E", 11)},
			want: []OrnamentType{OrnamentStructural, OrnamentPassing, OrnamentStructural},
		},
		{
			name: "passing across the octave",
			tl:   Timeline{event(0, "A", 0), event(1.0, "B", 10), event(1.1, "C", 11)},
			want: []OrnamentType{OrnamentStructural, OrnamentPassing, OrnamentStructural},
		},
		{
			name: "leap is structural",
			tl:   Timeline{event(0, "C", 0), event(1.0, "F", 10), event(1.1, "A", 11)},
			want: []OrnamentType{OrnamentStructural, OrnamentStructural, OrnamentStructural},
		},
		{
			name: "long chord is structural",
			tl:   Timeline{event(0, "C", 0), event(1.0, "D", 10), event(2.0, "C", 20)},
			want: []OrnamentType{OrnamentStructural, OrnamentStructural, OrnamentStructural},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := oc.Refine(tt.tl, rc)
			assert.Equal(t, tt.want, ornaments(out))
			assert.Equal(t, tt.tl.Labels(), out.Labels())
		})
	}
}

func TestOrnamentClassifierPedal(t *testing.T) {
	bass := make([]int, 40)
	fs := featureSet(repeatChroma(make([]float64, 12), 40), bass)
	rc := refineContext(fs, keyCMajor, 120)

	tl := Timeline{event(0, "C", 0), event(1.0, "F", 10), event(1.1, "C", 11)}
	out := (&OrnamentClassifier{}).Refine(tl, rc)

	// a held bass outranks the neighbour reading
	assert.Equal(t, []OrnamentType{OrnamentStructural, OrnamentPedal, OrnamentPedal}, ornaments(out))
}

type relabel struct{ label string }

func (r relabel) Name() string { return "relabel" }

func (r relabel) Refine(tl Timeline, _ *RefineContext) Timeline {
	out := tl.Clone()
	for i := range out {
		out[i].Label = r.label
	}
	return out
}

func TestRunRefinersMergesRepeats(t *testing.T) {
	rc := refineContext(featureSet(repeatChroma(make([]float64, 12), 30), nil), keyCMajor, 120)
	tl := Timeline{event(0, "C", 0), event(1.0, "G", 10), event(2.0, "Am", 20)}

	out := RunRefiners(tl, rc, []Refiner{relabel{"F"}})
	require.Len(t, out, 1)
	assert.Equal(t, event(0, "F", 0), out[0])

	// input is left untouched
	assert.Equal(t, []string{"C", "G", "Am"}, tl.Labels())
}

func TestRunRefinersAccurateChain(t *testing.T) {
	chroma := append(repeatChroma(chromaOf(9, 0, 4), 10), repeatChroma(chromaOf(4, 8, 11, 2), 10)...)
	fs := featureSet(chroma, nil)
	rc := refineContext(fs, keyAMinor, 120)

	tl := Timeline{event(0, "Am", 0), event(1.0, "Em", 10)}
	out := RunRefiners(tl, rc, DefaultRefiners())

	assert.Equal(t, []string{"Am", "E7"}, out.Labels())
	assert.NoError(t, out.Validate())
}
