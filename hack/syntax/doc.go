// Package syntax builds lossless syntax trees for Hack and PHP files.
//
// Builder is a parser.Constructors strategy that keeps every production
// and every token, trivia included. Concatenating the leaves of a tree
// gives back the parsed bytes, even when the input had syntax errors:
//
//	root, diags, err := syntax.Parse(src)
//	root.Text() == string(src)
//
// Children of inner nodes follow the field order of their kind, so
// Node.Field can address them by name.
package syntax
