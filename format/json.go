package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/hhfacts/hack/facts"
)

// JSONEncoder writes one facts record per line.
type JSONEncoder struct {
	w      io.Writer
	indent bool
	facts  *facts.Facts
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

// Indent switches to multi-line output.
func (e *JSONEncoder) Indent() *JSONEncoder {
	e.indent = true
	return e
}

func (e *JSONEncoder) Encode(f *facts.Facts) error {
	e.facts = f
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	if e.facts == nil {
		return []byte("{}"), nil
	}
	if e.indent {
		return json.MarshalIndent(e.facts, "", "  ")
	}
	return json.Marshal(e.facts)
}
