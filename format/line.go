package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/hhfacts/hack/facts"
)

// LineEncoder writes tab separated records, one declaration or relation
// per line, suitable for grep and cut.
type LineEncoder struct {
	w     io.Writer
	facts *facts.Facts
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(f *facts.Facts) error {
	e.facts = f
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	f := e.facts
	if f == nil {
		return nil, nil
	}

	fmt.Fprintf(&sb, "file\t%s\t%t\n", f.ContentHash, f.HadErrors)
	if err := writeAttributes(&sb, "file_attribute", "-", f.FileAttributes); err != nil {
		return nil, err
	}

	for pair := f.Types.Oldest(); pair != nil; pair = pair.Next() {
		name, t := pair.Key, pair.Value
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", t.Kind, name, flagsStr(t.Flags))
		relations := []struct {
			label string
			names []string
		}{
			{"extends", t.BaseTypes},
			{"implements", t.Interfaces},
			{"uses", t.Traits},
			{"require_extends", t.RequireExtends},
			{"require_implements", t.RequireImplements},
			{"type_parameter", t.TypeParameters},
		}
		for _, r := range relations {
			for _, n := range r.names {
				fmt.Fprintf(&sb, "%s\t%s\t%s\n", r.label, name, n)
			}
		}
		if err := writeAttributes(&sb, "attribute", name, t.Attributes); err != nil {
			return nil, err
		}
	}

	symbols := []struct {
		label   string
		symbols []facts.Symbol
	}{
		{"function", f.Functions},
		{"constant", f.Constants},
		{"type_alias", f.TypeAliases},
	}
	for _, group := range symbols {
		for _, s := range group.symbols {
			fmt.Fprintf(&sb, "%s\t%s\n", group.label, s.Name)
			if err := writeAttributes(&sb, "attribute", s.Name, s.Attributes); err != nil {
				return nil, err
			}
		}
	}

	return []byte(sb.String()), nil
}

func flagsStr(flags []facts.Flag) string {
	if len(flags) == 0 {
		return "-"
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}

func writeAttributes(sb *strings.Builder, label, owner string, attrs facts.Attributes) error {
	if attrs == nil {
		return nil
	}
	for pair := attrs.Oldest(); pair != nil; pair = pair.Next() {
		args := pair.Value
		if args == nil {
			args = []any{}
		}
		data, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", pair.Key, err)
		}
		fmt.Fprintf(sb, "%s\t%s\t%s\t%s\n", label, owner, pair.Key, data)
	}
	return nil
}
