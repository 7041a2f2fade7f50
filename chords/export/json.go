package export

import (
	"encoding/json"
	"io"

	"github.com/RyanBlaney/sonido-chords/chords"
)

type jsonDocument struct {
	KeyName string `json:"key_name"`
	*chords.Result
}

// WriteJSON writes the result as indented JSON with an extra key_name field
func WriteJSON(w io.Writer, res *chords.Result) error {
	doc := jsonDocument{
		KeyName: res.Key.Name(),
		Result:  res,
	}
	if doc.Timeline == nil {
		clone := *res
		clone.Timeline = chords.Timeline{}
		doc.Result = &clone
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
