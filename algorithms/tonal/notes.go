package tonal

import "github.com/RyanBlaney/sonido-chords/algorithms/common"

// NotesSharp names the twelve pitch classes with sharps (0=C ... 11=B)
var NotesSharp = [common.PitchClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NotesFlat names the twelve pitch classes with flats
var NotesFlat = [common.PitchClasses]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// Scale degrees as semitone offsets from the tonic
var (
	MajorScale = []int{0, 2, 4, 5, 7, 9, 11}
	MinorScale = []int{0, 2, 3, 5, 7, 8, 10} // natural minor
)

// naturals maps note letters to pitch classes
var naturals = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// SharpName returns the sharp spelling of any integer pitch class
func SharpName(pc int) string {
	return NotesSharp[common.ToPitchClass(pc)]
}

// FlatName returns the flat spelling of any integer pitch class
func FlatName(pc int) string {
	return NotesFlat[common.ToPitchClass(pc)]
}

// ParseRoot reads the root note at the start of a chord label. It accepts a
// letter A-G optionally followed by '#' or 'b' and returns the pitch class
// together with the number of bytes consumed. Labels that do not start with a
// note name yield (common.NoPitchClass, 0).
func ParseRoot(label string) (int, int) {
	if label == "" {
		return common.NoPitchClass, 0
	}

	pc, ok := naturals[label[0]]
	if !ok {
		return common.NoPitchClass, 0
	}
	if len(label) > 1 {
		switch label[1] {
		case '#':
			return common.ToPitchClass(pc + 1), 2
		case 'b':
			return common.ToPitchClass(pc - 1), 2
		}
	}
	return pc, 1
}

// RootOf returns the root pitch class of a label or common.NoPitchClass
func RootOf(label string) int {
	pc, _ := ParseRoot(label)
	return pc
}

// ScaleFor returns the scale used for a key mode
func ScaleFor(minor bool) []int {
	if minor {
		return MinorScale
	}
	return MajorScale
}

// InKey reports whether pitch class pc is diatonic to the key rooted at
// keyRoot in the given mode
func InKey(pc, keyRoot int, minor bool) bool {
	rel := common.ToPitchClass(pc - keyRoot)
	for _, degree := range ScaleFor(minor) {
		if degree == rel {
			return true
		}
	}
	return false
}
