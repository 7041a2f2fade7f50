package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/RyanBlaney/sonido-chords/chords"
)

// WriteText writes a header line followed by one line per chord event, e.g.
//
//	# key: A minor  bpm: 96  duration: 12.40s
//	0.00s  Am  [structural]
//	1.88s  E/G#  [passing]
func WriteText(w io.Writer, res *chords.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# key: %s  bpm: %g  duration: %.2fs\n", res.Key.Name(), res.BPM, res.Duration)
	for _, ev := range res.Timeline {
		ornament := ev.Ornament
		if ornament == "" {
			ornament = chords.OrnamentStructural
		}
		fmt.Fprintf(bw, "%.2fs  %s  [%s]\n", ev.Time, ev.Label, ornament)
	}

	return bw.Flush()
}
