// Package parser is an error-tolerant parser for Hack and PHP source files.
//
// # Overview
//
// The lexer segments a file into tokens that carry their surrounding
// whitespace and comments as trivia, so the token stream reproduces the
// input byte for byte. The grammar engine walks that stream and reports
// every production it recognizes to a construction strategy:
//
//	┌─────────────┐     ┌─────────────┐     ┌──────────────────┐
//	│   Input     │────▶│   Lexer     │────▶│  Grammar engine  │
//	│  (bytes)    │     │  (tokens)   │     │                  │
//	└─────────────┘     └─────────────┘     └────────┬─────────┘
//	                                                 │ Missing/Token/List/Make
//	                                                 ▼
//	                                        ┌──────────────────┐
//	                                        │ Constructors[R]  │
//	                                        └──────────────────┘
//
// The engine owns no tree of its own. A strategy decides what a production
// turns into: the syntax package builds a lossless tree, the facts package
// folds declarations into a summary, and Recognizer builds nothing.
//
// # Call Protocol
//
//	type Constructors[R any] interface {
//	    Missing(offset int) R
//	    Token(tok Token) R
//	    List(items []R, offset int) R
//	    Make(kind SyntaxKind, offset int, children []R) R
//	}
//
// Make always receives kind.Arity() children in the order given by
// kind.Fields(). Every consumed token reaches Token exactly once and in
// source order, ending with the end-of-file token.
//
// # Error Recovery
//
// Syntax errors never stop a parse. A required token that is absent is
// reported as an error production wrapping a missing child; unexpected
// tokens are skipped up to the next statement or member boundary and
// wrapped in an error production. Parse only fails when the input cannot
// be tokenized at all.
//
// # Dialects
//
// Files opened with <?hh, or without any open tag, are parsed as Hack.
// Files opened with <?php accept Hack-only declarations when the HHVM
// compatibility switch is set. The PHP5 switch matches keywords of <?php
// files without regard to case and accepts `var` properties.
package parser
