package parser

import (
	"testing"
)

func TestTokenKindString(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenEOF, "EndOfFile"},
		{TokenError, "Error"},
		{TokenName, "Name"},
		{TokenVariable, "Variable"},
		{TokenDecimalLiteral, "DecimalLiteral"},
		{TokenSingleQuotedString, "SingleQuotedStringLiteral"},
		{TokenBooleanLiteral, "BooleanLiteral"},
		{TokenClass, "class"},
		{TokenNamespace, "namespace"},
		{TokenHaltCompiler, "__halt_compiler"},
		{TokenLParen, "("},
		{TokenEqualEqualGreaterThan, "==>"},
		{TokenQuestionAs, "?as"},
		{TokenLessThanLessThan, "<<"},
		{TokenKind(9999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("TokenKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		ident           string
		caseInsensitive bool
		want            TokenKind
	}{
		{"class", false, TokenClass},
		{"Class", false, TokenName},
		{"Class", true, TokenClass},
		{"FUNCTION", true, TokenFunction},
		{"true", false, TokenBooleanLiteral},
		{"TRUE", false, TokenBooleanLiteral},
		{"Null", false, TokenNullLiteral},
		{"Foo", true, TokenName},
		{"__halt_compiler", false, TokenHaltCompiler},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			if got := LookupKeyword(tt.ident, tt.caseInsensitive); got != tt.want {
				t.Errorf("LookupKeyword(%q, %v) = %v, want %v", tt.ident, tt.caseInsensitive, got, tt.want)
			}
		})
	}
}

func TestTokenKindClasses(t *testing.T) {
	if !TokenAbstract.IsKeyword() || !TokenYield.IsKeyword() {
		t.Error("keyword range does not include its bounds")
	}
	if TokenName.IsKeyword() || TokenLParen.IsKeyword() {
		t.Error("non-keywords reported as keywords")
	}
	if !TokenHexadecimalLiteral.IsLiteral() || TokenVariable.IsLiteral() {
		t.Error("IsLiteral misclassifies tokens")
	}
}

func TestTokenWidths(t *testing.T) {
	tok := Token{
		Kind:     TokenName,
		Offset:   3,
		Text:     "foo",
		Leading:  []Trivia{{Kind: TriviaWhitespace, Text: "   "}},
		Trailing: []Trivia{{Kind: TriviaEndOfLine, Text: "\n"}},
	}
	if got := tok.FullOffset(); got != 0 {
		t.Errorf("FullOffset() = %d, want 0", got)
	}
	if got := tok.End(); got != 6 {
		t.Errorf("End() = %d, want 6", got)
	}
	if got := tok.FullWidth(); got != 7 {
		t.Errorf("FullWidth() = %d, want 7", got)
	}
	if got := tok.FullText(); got != "   foo\n" {
		t.Errorf("FullText() = %q, want %q", got, "   foo\n")
	}
}
