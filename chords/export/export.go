// Package export renders chord analysis results as text, JSON or Standard
// MIDI Files.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/RyanBlaney/sonido-chords/chords"
)

// Format selects an output encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatMIDI Format = "midi"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat parses a format name, case-insensitively. "mid" and "smf" are
// accepted for MIDI.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "midi", "mid", "smf":
		return FormatMIDI, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Binary reports whether the format should not be written to a terminal
func (f Format) Binary() bool {
	return f == FormatMIDI
}

// Extension returns the conventional file extension, without the dot
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMIDI:
		return "mid"
	default:
		return "txt"
	}
}

// Write renders res to w in the given format
func Write(w io.Writer, res *chords.Result, format Format) error {
	if res == nil {
		return errors.New("nil analysis result")
	}

	switch format {
	case FormatText:
		return WriteText(w, res)
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatMIDI:
		return WriteMIDI(w, res)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
