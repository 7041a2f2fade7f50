// Command chordscan detects the chord progression, key and tempo of a WAV
// recording.
//
// Usage:
//
//	chordscan analyze <file.wav> [--mode fast|balanced|accurate] [--bpm 120]
//	                             [--format text|json|midi] [--out path]
//	                             [--config analysis.yaml] [--verbose]
//	chordscan version
package main

import (
	"fmt"
	"os"

	"github.com/RyanBlaney/sonido-chords/cmd/chordscan/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
