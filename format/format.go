package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/hhfacts/hack/facts"
)

// Encoder writes the facts of one file.
type Encoder interface {
	Encode(f *facts.Facts) error
}

// Names lists the encoders NewEncoder accepts.
var Names = []string{"json", "line"}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "", "json":
		return NewJSONEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}
