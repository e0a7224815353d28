package lsp

import (
	"sort"
	"strings"
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/hhfacts/hack/facts"
)

const diagnosticSource = "hhfacts"

func diagnostics(doc *document) []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityWarning
	source := diagnosticSource
	result := []protocol.Diagnostic{}

	if doc.analysis.err != nil {
		fatal := protocol.DiagnosticSeverityError
		return append(result, protocol.Diagnostic{
			Range:    doc.rangeOf(0, 0),
			Severity: &fatal,
			Source:   &source,
			Message:  "file cannot be tokenized",
		})
	}

	for _, e := range doc.analysis.errs {
		result = append(result, protocol.Diagnostic{
			Range:    doc.rangeOf(e.Offset, e.Offset),
			Severity: &severity,
			Source:   &source,
			Message:  e.Message,
		})
	}
	return result
}

type outlineEntry struct {
	offset int
	symbol protocol.DocumentSymbol
}

// documentSymbols lists the file's declarations in source order.
func documentSymbols(doc *document) []protocol.DocumentSymbol {
	f := doc.analysis.facts
	if f == nil {
		return []protocol.DocumentSymbol{}
	}

	var entries []outlineEntry
	add := func(name string, kind protocol.SymbolKind, detail string, start, end int) {
		r := doc.rangeOf(start, end)
		sym := protocol.DocumentSymbol{
			Name:           name,
			Kind:           kind,
			Range:          r,
			SelectionRange: r,
		}
		if detail != "" {
			sym.Detail = &detail
		}
		entries = append(entries, outlineEntry{offset: start, symbol: sym})
	}

	for pair := f.Types.Oldest(); pair != nil; pair = pair.Next() {
		t := pair.Value
		add(pair.Key, typeSymbolKind(t.Kind), typeDetail(t), t.Offset, t.End)
	}
	for _, s := range f.Functions {
		add(s.Name, protocol.SymbolKindFunction, "function", s.Offset, s.End)
	}
	for _, s := range f.Constants {
		add(s.Name, protocol.SymbolKindConstant, "const", s.Offset, s.End)
	}
	for _, s := range f.TypeAliases {
		add(s.Name, protocol.SymbolKindTypeParameter, "type", s.Offset, s.End)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].offset < entries[j].offset })
	symbols := make([]protocol.DocumentSymbol, len(entries))
	for i, e := range entries {
		symbols[i] = e.symbol
	}
	return symbols
}

func typeSymbolKind(kind facts.TypeKind) protocol.SymbolKind {
	switch kind {
	case facts.TypeKindInterface:
		return protocol.SymbolKindInterface
	case facts.TypeKindEnum:
		return protocol.SymbolKindEnum
	case facts.TypeKindTrait:
		return protocol.SymbolKindStruct
	default:
		return protocol.SymbolKindClass
	}
}

func typeDetail(t *facts.TypeFacts) string {
	parts := make([]string, 0, len(t.Flags)+1)
	for _, f := range t.Flags {
		parts = append(parts, string(f))
	}
	parts = append(parts, string(t.Kind))
	return strings.Join(parts, " ")
}

func (d *document) rangeOf(start, end int) protocol.Range {
	return protocol.Range{Start: d.position(start), End: d.position(end)}
}

// position converts a byte offset to a line and UTF-16 column.
func (d *document) position(offset int) protocol.Position {
	offset = max(0, min(offset, len(d.text)))
	p := d.lines.Position(offset)
	lineStart := offset - p.Column
	units := len(utf16.Encode([]rune(d.text[lineStart:offset])))
	return protocol.Position{Line: protocol.UInteger(p.Line), Character: protocol.UInteger(units)}
}
