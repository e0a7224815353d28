package parser

import (
	"errors"
	"strings"
	"testing"
)

func tokenKinds(t *testing.T, input string, env Env) []TokenKind {
	t.Helper()
	tokens, err := NewLexer([]byte(input), env).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", input, err)
	}
	var kinds []TokenKind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"class", []TokenKind{TokenClass, TokenEOF}},
		{"<?hh\nclass C {}", []TokenKind{TokenLessThanQuestion, TokenName, TokenClass, TokenName, TokenLBrace, TokenRBrace, TokenEOF}},
		{"$x $$ $", []TokenKind{TokenVariable, TokenDollarDollar, TokenDollar, TokenEOF}},
		{"123 0x1F 0b101 0o17 017 1_000", []TokenKind{TokenDecimalLiteral, TokenHexadecimalLiteral, TokenBinaryLiteral, TokenOctalLiteral, TokenOctalLiteral, TokenDecimalLiteral, TokenEOF}},
		{"3.14 1e10 .5", []TokenKind{TokenFloatingLiteral, TokenFloatingLiteral, TokenFloatingLiteral, TokenEOF}},
		{`'a' "b\"c"`, []TokenKind{TokenSingleQuotedString, TokenDoubleQuotedString, TokenEOF}},
		{"true null FALSE", []TokenKind{TokenBooleanLiteral, TokenNullLiteral, TokenBooleanLiteral, TokenEOF}},
		{"// comment\nclass", []TokenKind{TokenClass, TokenEOF}},
		{"# comment\nclass", []TokenKind{TokenClass, TokenEOF}},
		{"/* block */ class", []TokenKind{TokenClass, TokenEOF}},
		{"==> => -> ?-> ::", []TokenKind{TokenEqualEqualGreaterThan, TokenEqualGreaterThan, TokenMinusGreaterThan, TokenQuestionMinusGreaterThan, TokenColonColon, TokenEOF}},
		{"<< >> <<= >>= <=>", []TokenKind{TokenLessThanLessThan, TokenGreaterThanGreaterThan, TokenLessThanLessThanEqual, TokenGreaterThanGreaterThanEqual, TokenLessThanEqualGreaterThan, TokenEOF}},
		{"?? ??= |> ...", []TokenKind{TokenQuestionQuestion, TokenQuestionQuestionEqual, TokenBarGreaterThan, TokenEllipsis, TokenEOF}},
		{"$x ?as Foo", []TokenKind{TokenVariable, TokenQuestionAs, TokenName, TokenEOF}},
		{"$x ? asFoo : 1", []TokenKind{TokenVariable, TokenQuestion, TokenName, TokenColon, TokenDecimalLiteral, TokenEOF}},
		{"\\Foo\\Bar", []TokenKind{TokenBackslash, TokenName, TokenBackslash, TokenName, TokenEOF}},
		{"<<<EOT\nhello\nEOT;\n", []TokenKind{TokenHeredocString, TokenSemicolon, TokenEOF}},
		{"<<<'EOT'\nhello $x\nEOT;\n", []TokenKind{TokenNowdocString, TokenSemicolon, TokenEOF}},
		{"`", []TokenKind{TokenError, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := tokenKinds(t, tt.input, Env{})
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(tt.expected), tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerMarkup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenKind
	}{
		{"leading text", "<html><?php echo 1;", []TokenKind{TokenMarkup, TokenLessThanQuestion, TokenName, TokenEcho, TokenDecimalLiteral, TokenSemicolon, TokenEOF}},
		{"close tag", "<?php 1 ?>tail", []TokenKind{TokenLessThanQuestion, TokenName, TokenDecimalLiteral, TokenQuestionGreaterThan, TokenMarkup, TokenEOF}},
		{"hashbang", "#!/usr/bin/env hhvm\n<?hh\nf();", []TokenKind{TokenMarkup, TokenLessThanQuestion, TokenName, TokenName, TokenLParen, TokenRParen, TokenSemicolon, TokenEOF}},
		{"hashbang only", "#!/usr/bin/env hhvm\nf();", []TokenKind{TokenMarkup, TokenName, TokenLParen, TokenRParen, TokenSemicolon, TokenEOF}},
		{"echo tag", "<?= $x ?>", []TokenKind{TokenLessThanQuestion, TokenVariable, TokenQuestionGreaterThan, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenKinds(t, tt.input, Env{})
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerCaseInsensitiveKeywords(t *testing.T) {
	got := tokenKinds(t, "CLASS Function", Env{})
	if got[0] != TokenName || got[1] != TokenName {
		t.Errorf("keywords matched case-insensitively without PHP5 mode: %v", got)
	}
	got = tokenKinds(t, "<?php CLASS Function", Env{PHP5CompatMode: true})
	if got[2] != TokenClass || got[3] != TokenFunction {
		t.Errorf("PHP5 mode did not match keywords case-insensitively: %v", got)
	}
	got = tokenKinds(t, "<?= CLASS", Env{PHP5CompatMode: true})
	if got[1] != TokenClass {
		t.Errorf("PHP5 mode after <?= did not match keywords case-insensitively: %v", got)
	}
	for _, input := range []string{"<?hh Dict Vec", "Dict Vec"} {
		got = tokenKinds(t, input, Env{PHP5CompatMode: true})
		if got[len(got)-3] != TokenName || got[len(got)-2] != TokenName {
			t.Errorf("%q: Hack keywords matched case-insensitively: %v", input, got)
		}
	}
}

func TestLexerTrivia(t *testing.T) {
	tokens, err := NewLexer([]byte("<?hh\n  /* HH_FIXME[4110] */ f(); // done\nx"), Env{}).Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	var f Token
	for _, tok := range tokens {
		if tok.Text == "f" {
			f = tok
		}
	}
	var kinds []TriviaKind
	for _, tr := range f.Leading {
		kinds = append(kinds, tr.Kind)
	}
	want := []TriviaKind{TriviaWhitespace, TriviaFixMe, TriviaWhitespace}
	if len(kinds) != len(want) {
		t.Fatalf("leading trivia of f = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("trivia %d = %v, want %v", i, kinds[i], want[i])
		}
	}

	semi := tokens[len(tokens)-3]
	if semi.Kind != TokenSemicolon {
		t.Fatalf("expected semicolon, got %v", semi.Kind)
	}
	if len(semi.Trailing) != 3 || semi.Trailing[1].Kind != TriviaSingleLineComment || semi.Trailing[2].Kind != TriviaEndOfLine {
		t.Errorf("trailing trivia of ; = %+v", semi.Trailing)
	}
}

func TestLexerRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"<?hh\n",
		"<?hh // strict\nnamespace Foo;\n\nclass A extends B {}\n",
		"<html>\n<?php\n  echo 'hi'; ?>\n</html>\n",
		"#!/usr/bin/env hhvm\n<?hh\n<<__EntryPoint>>\nfunction main(): void {}\n",
		"<?hh\n$x = <<<EOT\nline $y\n  EOT;\n",
		"<?hh\n/* unterminated",
		"<?hh\n'unterminated",
		"<?hh\r\nfunction f() {\r\n}\r\n",
		"<?hh\nfunction ünïcode() {}",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tokens, err := NewLexer([]byte(input), Env{}).Tokenize()
			if err != nil {
				t.Fatal(err)
			}
			var sb strings.Builder
			offset := 0
			for _, tok := range tokens {
				if tok.FullOffset() != offset {
					t.Errorf("token %v %q starts at %d, want %d", tok.Kind, tok.Text, tok.FullOffset(), offset)
				}
				offset += tok.FullWidth()
				sb.WriteString(tok.FullText())
			}
			if sb.String() != input {
				t.Errorf("round trip = %q, want %q", sb.String(), input)
			}
			if last := tokens[len(tokens)-1]; last.Kind != TokenEOF {
				t.Errorf("last token = %v, want EndOfFile", last.Kind)
			}
		})
	}
}

func TestLexerRejectsBinary(t *testing.T) {
	inputs := []string{
		"<?hh\x00",
		"\x00\x01",
		"<?php\nclass A {}\n\x00",
		"<?php\n__halt_compiler\x00();",
	}
	for _, input := range inputs {
		_, err := NewLexer([]byte(input), Env{}).Tokenize()
		if !errors.Is(err, ErrUntokenizable) {
			t.Errorf("Tokenize(%q): err = %v, want ErrUntokenizable", input, err)
		}
	}
}

func TestLexerAcceptsEmbeddedNUL(t *testing.T) {
	inputs := []string{
		"<?php\n$s = \"a\x00b\";\n",
		"<?php\n$s = 'a\x00b';\n",
		"<?php\n// note \x00\n",
		"<?php\n/* \x00 */\n",
		"<p>\x00</p><?php\n",
		"<?php\n$s = <<<EOT\n\x00\nEOT;\n",
	}
	for _, input := range inputs {
		tokens, err := NewLexer([]byte(input), Env{}).Tokenize()
		if err != nil {
			t.Errorf("Tokenize(%q) failed: %v", input, err)
			continue
		}
		var sb strings.Builder
		for _, tok := range tokens {
			sb.WriteString(tok.FullText())
		}
		if sb.String() != input {
			t.Errorf("round trip = %q, want %q", sb.String(), input)
		}
	}
}

func TestLexerHaltCompiler(t *testing.T) {
	tests := []struct {
		input   string
		payload string
	}{
		{"<?php\nclass A {}\n__halt_compiler();\x00\x01\x02payload", "\x00\x01\x02payload"},
		{"<?php\n__HALT_COMPILER ( ) ; }}{{ \xff", " }}{{ \xff"},
		{"<?php\n__halt_compiler() /* c */ ;\n", "\n"},
		{"<?php\n__halt_compiler();", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := NewLexer([]byte(tt.input), Env{}).Tokenize()
			if err != nil {
				t.Fatalf("Tokenize failed: %v", err)
			}
			eof := tokens[len(tokens)-1]
			if eof.Kind != TokenEOF || eof.Offset != len(tt.input) {
				t.Fatalf("last token = %v at %d, want EndOfFile at %d", eof.Kind, eof.Offset, len(tt.input))
			}
			if semi := tokens[len(tokens)-2]; semi.Kind != TokenSemicolon || len(semi.Trailing) != 0 {
				t.Errorf("token before end = %v with trailing %+v, want bare ;", semi.Kind, semi.Trailing)
			}
			var got string
			for _, tr := range eof.Leading {
				if tr.Kind != TriviaAfterHaltCompiler {
					t.Errorf("trivia kind = %v, want after_halt_compiler", tr.Kind)
				}
				got += tr.Text
			}
			if got != tt.payload {
				t.Errorf("payload = %q, want %q", got, tt.payload)
			}
		})
	}
}

func TestLexerHaltCompilerNeedsCall(t *testing.T) {
	kinds := tokenKinds(t, "<?php\n__halt_compiler; class A {}", Env{})
	want := []TokenKind{TokenLessThanQuestion, TokenName, TokenHaltCompiler, TokenSemicolon, TokenClass, TokenName, TokenLBrace, TokenRBrace, TokenEOF}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}
