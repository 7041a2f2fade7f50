package tonal

import (
	"strings"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
)

// decorations mark a label as carrying more than a plain major/minor triad
var decorations = []string{"sus", "dim", "aug", "maj7", "7", "9", "add9", "m7b5", "11", "13", "6", "alt"}

// ChordShape describes the chord tones implied by a label
type ChordShape struct {
	Root    int
	Minor   bool
	Sus2    bool
	Sus4    bool
	Has7    bool
	HasMaj7 bool
	Has9    bool
}

// ParseShape reads the quality flags of a chord label. The returned shape has
// Root == common.NoPitchClass when the label has no note name.
//
// Any 'm' not starting "maj" counts as a minor marker, so "dim" labels are
// treated as carrying a minor third.
func ParseShape(label string) ChordShape {
	return ChordShape{
		Root:    RootOf(label),
		Minor:   minorMarkerIndex(label) >= 0,
		Sus2:    strings.Contains(label, "sus2"),
		Sus4:    strings.Contains(label, "sus4"),
		Has7:    strings.Contains(label, "7"),
		HasMaj7: strings.Contains(label, "maj7"),
		Has9:    strings.Contains(label, "9"),
	}
}

// Intervals returns the semitone offsets from the root of the implied chord tones
func (cs ChordShape) Intervals() []int {
	var tones []int
	switch {
	case cs.Sus2:
		tones = []int{0, 2, 7}
	case cs.Sus4:
		tones = []int{0, 5, 7}
	case cs.Minor:
		tones = []int{0, 3, 7}
	default:
		tones = []int{0, 4, 7}
	}

	if cs.Has7 && !cs.HasMaj7 {
		tones = append(tones, 10)
	}
	if cs.HasMaj7 {
		tones = append(tones, 11)
	}
	if cs.Has9 {
		tones = append(tones, 2)
	}
	return tones
}

// Contains reports whether interval is one of the chord tones
func (cs ChordShape) Contains(interval int) bool {
	interval = common.ToPitchClass(interval)
	for _, tone := range cs.Intervals() {
		if tone == interval {
			return true
		}
	}
	return false
}

// IsDecorated reports whether a label carries an extension, alteration or
// non-triadic quality
func IsDecorated(label string) bool {
	for _, d := range decorations {
		if strings.Contains(label, d) {
			return true
		}
	}
	return false
}

// IsMinorTriadLabel reports whether the quality right after the root is a
// minor marker ("Am", "C#m7") rather than "maj"
func IsMinorTriadLabel(label string) bool {
	root, n := ParseRoot(label)
	if root < 0 {
		return false
	}
	return minorMarkerIndex(label[n:]) == 0
}

// StripMinorMarker removes the first minor marker from a label ("Am" -> "A")
func StripMinorMarker(label string) string {
	idx := minorMarkerIndex(label)
	if idx < 0 {
		return label
	}
	return label[:idx] + label[idx+1:]
}

// WithBass appends a slash bass note to a label
func WithBass(label string, bassPC int) string {
	return label + "/" + SharpName(bassPC)
}

// minorMarkerIndex finds the first 'm' that does not start "maj"
func minorMarkerIndex(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != 'm' {
			continue
		}
		if strings.HasPrefix(s[i+1:], "aj") {
			continue
		}
		return i
	}
	return -1
}
