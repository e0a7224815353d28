// Package facts extracts a flat summary of the declarations in a Hack or
// PHP file: its types, functions, constants and type aliases with their
// attributes and direct relationships.
//
// Extraction drives the grammar engine with a folding strategy instead of
// building a tree. Each production is reduced to a small value as soon as
// it completes, so memory grows with the number of declarations rather
// than with the size of the file.
//
//	f, err := facts.FromText(src, parser.Env{Filename: "a.hack"})
//	js, ok := facts.ExtractAsJSON(src, parser.Env{})
//
// Names are qualified with the namespace and use declarations that precede
// them. Only declarations reachable from the top level of the file or of a
// namespace body are recorded.
package facts
