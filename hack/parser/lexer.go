package parser

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrUntokenizable is returned when the input cannot be segmented into
// tokens at all: a NUL byte where a token must start. NUL bytes inside
// literals, comments, inline markup or after __halt_compiler are fine.
var ErrUntokenizable = errors.New("input cannot be tokenized")

type Lexer struct {
	input    []byte
	env      Env
	pos      int
	inMarkup bool
	opened   bool
	// php is set when the first open tag is <?php or <?=. Keywords are
	// matched without regard to case only there.
	php bool
}

func NewLexer(input []byte, env Env) *Lexer {
	l := &Lexer{
		input: input,
		env:   env,
	}
	l.inMarkup = startsInMarkup(input)
	return l
}

// startsInMarkup decides whether the file opens with inline text. Files
// that never mention an open tag are treated as pure code.
func startsInMarkup(input []byte) bool {
	if bytes.HasPrefix(input, []byte("<?")) || bytes.HasPrefix(input, []byte("#!")) {
		return true
	}
	return bytes.Contains(input, []byte("<?php")) || bytes.Contains(input, []byte("<?hh"))
}

// Tokenize segments the whole input. The concatenation of every token's
// FullText equals the input.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	halt := haltNone
	for {
		if l.inMarkup {
			tokens = l.scanMarkup(tokens)
			continue
		}

		leading := l.scanTrivia(false)
		if l.pos >= len(l.input) {
			tokens = append(tokens, Token{Kind: TokenEOF, Offset: l.pos, Leading: leading})
			return tokens, nil
		}
		if l.input[l.pos] == 0 {
			return nil, ErrUntokenizable
		}

		tok := l.scanToken()
		tok.Leading = leading
		halt = halt.next(tok.Kind)
		if halt == haltDone {
			tokens = append(tokens, tok)
			return append(tokens, l.afterHalt()), nil
		}
		if tok.Kind == TokenQuestionGreaterThan {
			l.inMarkup = true
		} else {
			tok.Trailing = l.scanTrivia(true)
		}
		tokens = append(tokens, tok)
	}
}

// haltState tracks progress through `__halt_compiler ( ) ;`.
type haltState int

const (
	haltNone haltState = iota
	haltKeyword
	haltOpen
	haltClose
	haltDone
)

func (s haltState) next(kind TokenKind) haltState {
	switch {
	case kind == TokenHaltCompiler:
		return haltKeyword
	case s == haltKeyword && kind == TokenLParen:
		return haltOpen
	case s == haltOpen && kind == TokenRParen:
		return haltClose
	case s == haltClose && (kind == TokenSemicolon || kind == TokenQuestionGreaterThan):
		return haltDone
	}
	return haltNone
}

// afterHalt ends the stream: whatever follows the halt call is data, kept
// verbatim as trivia of the end-of-file token.
func (l *Lexer) afterHalt() Token {
	eof := Token{Kind: TokenEOF, Offset: len(l.input)}
	if l.pos < len(l.input) {
		eof.Leading = []Trivia{{Kind: TriviaAfterHaltCompiler, Text: string(l.input[l.pos:])}}
	}
	l.pos = len(l.input)
	return eof
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) hasPrefix(s string) bool {
	return bytes.HasPrefix(l.input[l.pos:], []byte(s))
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	return Token{
		Kind:   kind,
		Offset: start,
		Text:   string(l.input[start:l.pos]),
	}
}

// scanMarkup consumes inline text up to the next open tag, then the tag
// itself and the language name that follows it.
func (l *Lexer) scanMarkup(tokens []Token) []Token {
	start := l.pos
	hashbang := false
	if start == 0 && l.hasPrefix("#!") {
		hashbang = true
		for l.pos < len(l.input) && l.input[l.pos] != '\n' {
			l.pos++
		}
		if l.pos < len(l.input) {
			l.pos++
		}
	}
	idx := bytes.Index(l.input[l.pos:], []byte("<?"))
	switch {
	case idx >= 0:
		l.pos += idx
	case hashbang:
		// A script with only a hashbang line continues as code.
		l.inMarkup = false
		return append(tokens, l.token(TokenMarkup, start))
	default:
		l.pos = len(l.input)
	}
	if l.pos > start {
		tokens = append(tokens, l.token(TokenMarkup, start))
	}
	l.inMarkup = false
	if l.pos >= len(l.input) {
		return tokens
	}

	start = l.pos
	l.pos += 2
	if l.peek() == '=' {
		l.pos++
		l.open(true)
		tok := l.token(TokenLessThanQuestion, start)
		tok.Trailing = l.scanTrivia(true)
		return append(tokens, tok)
	}
	tokens = append(tokens, l.token(TokenLessThanQuestion, start))

	if isIdentStart(l.peek()) {
		start = l.pos
		for isIdentPart(l.peek()) {
			l.pos++
		}
		tok := l.token(TokenName, start)
		l.open(strings.EqualFold(tok.Text, "php"))
		tok.Trailing = l.scanTrivia(true)
		tokens = append(tokens, tok)
	} else if len(tokens) > 0 {
		tokens[len(tokens)-1].Trailing = l.scanTrivia(true)
	}
	return tokens
}

func (l *Lexer) open(php bool) {
	if !l.opened {
		l.opened = true
		l.php = php
	}
}

// scanTrivia collects whitespace and comments. Trailing trivia stops after
// the first end of line; leading trivia runs up to the next token.
func (l *Lexer) scanTrivia(trailing bool) []Trivia {
	var trivia []Trivia
	for l.pos < len(l.input) {
		start := l.pos
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v':
			for c := l.peek(); c == ' ' || c == '\t' || c == '\f' || c == '\v'; c = l.peek() {
				l.pos++
			}
			trivia = append(trivia, l.trivia(TriviaWhitespace, start))
		case ch == '\n' || ch == '\r':
			if ch == '\r' && l.peekN(1) == '\n' {
				l.pos++
			}
			l.pos++
			trivia = append(trivia, l.trivia(TriviaEndOfLine, start))
			if trailing {
				return trivia
			}
		case ch == '#' || (ch == '/' && l.peekN(1) == '/'):
			l.scanLineComment()
			trivia = append(trivia, l.trivia(TriviaSingleLineComment, start))
		case ch == '/' && l.peekN(1) == '*':
			if trailing && l.commentSpansLines() {
				return trivia
			}
			l.scanBlockComment()
			kind := TriviaDelimitedComment
			text := l.input[start:l.pos]
			if bytes.HasPrefix(text, []byte("/* HH_FIXME")) || bytes.HasPrefix(text, []byte("/* HH_IGNORE_ERROR")) {
				kind = TriviaFixMe
			}
			trivia = append(trivia, l.trivia(kind, start))
		default:
			return trivia
		}
	}
	return trivia
}

func (l *Lexer) trivia(kind TriviaKind, start int) Trivia {
	return Trivia{Kind: kind, Text: string(l.input[start:l.pos])}
}

// scanLineComment stops before the newline or a closing tag.
func (l *Lexer) scanLineComment() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '\n' || ch == '\r' {
			return
		}
		if ch == '?' && l.peekN(1) == '>' {
			return
		}
		l.pos++
	}
}

func (l *Lexer) scanBlockComment() {
	l.pos += 2
	idx := bytes.Index(l.input[l.pos:], []byte("*/"))
	if idx < 0 {
		l.pos = len(l.input)
		return
	}
	l.pos += idx + 2
}

func (l *Lexer) commentSpansLines() bool {
	idx := bytes.Index(l.input[l.pos:], []byte("*/"))
	if idx < 0 {
		return true
	}
	return bytes.IndexByte(l.input[l.pos:l.pos+idx], '\n') >= 0
}

func (l *Lexer) scanToken() Token {
	start := l.pos
	ch := l.peek()

	switch {
	case ch == '$':
		return l.scanDollar(start)
	case isIdentStart(ch):
		return l.scanIdentOrKeyword(start)
	case isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))):
		return l.scanNumber(start)
	case ch == '\'':
		return l.scanSingleQuoted(start)
	case ch == '"':
		return l.scanDoubleQuoted(start)
	case ch == '<' && l.hasPrefix("<<<"):
		if tok, ok := l.scanHeredoc(start); ok {
			return tok
		}
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanDollar(start int) Token {
	l.pos++
	if isIdentStart(l.peek()) {
		for isIdentPart(l.peek()) {
			l.pos++
		}
		return l.token(TokenVariable, start)
	}
	if l.peek() == '$' && !isIdentStart(l.peekN(1)) && l.peekN(1) != '$' {
		l.pos++
		return l.token(TokenDollarDollar, start)
	}
	return l.token(TokenDollar, start)
}

func (l *Lexer) scanIdentOrKeyword(start int) Token {
	for isIdentPart(l.peek()) {
		l.pos++
	}
	tok := l.token(TokenName, start)
	tok.Kind = LookupKeyword(tok.Text, l.env.PHP5CompatMode && l.php)
	return tok
}

func (l *Lexer) scanNumber(start int) Token {
	if l.peek() == '0' {
		switch l.peekN(1) {
		case 'x', 'X':
			l.pos += 2
			for isHexDigit(l.peek()) || l.peek() == '_' {
				l.pos++
			}
			return l.token(TokenHexadecimalLiteral, start)
		case 'b', 'B':
			l.pos += 2
			for c := l.peek(); c == '0' || c == '1' || c == '_'; c = l.peek() {
				l.pos++
			}
			return l.token(TokenBinaryLiteral, start)
		case 'o', 'O':
			l.pos += 2
			for c := l.peek(); (c >= '0' && c <= '7') || c == '_'; c = l.peek() {
				l.pos++
			}
			return l.token(TokenOctalLiteral, start)
		}
	}

	kind := TokenDecimalLiteral
	for isDigit(l.peek()) || (l.peek() == '_' && isDigit(l.peekN(1))) {
		l.pos++
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		kind = TokenFloatingLiteral
		l.pos++
		for isDigit(l.peek()) || (l.peek() == '_' && isDigit(l.peekN(1))) {
			l.pos++
		}
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			kind = TokenFloatingLiteral
			l.pos += 2
			for isDigit(l.peek()) {
				l.pos++
			}
		}
	}

	tok := l.token(kind, start)
	if kind == TokenDecimalLiteral && len(tok.Text) > 1 && tok.Text[0] == '0' {
		tok.Kind = TokenOctalLiteral
	}
	return tok
}

func (l *Lexer) scanSingleQuoted(start int) Token {
	l.pos++
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		l.pos++
		if ch == '\'' {
			break
		}
	}
	return l.token(TokenSingleQuotedString, start)
}

func (l *Lexer) scanDoubleQuoted(start int) Token {
	l.pos++
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		l.pos++
		if ch == '"' {
			break
		}
	}
	return l.token(TokenDoubleQuotedString, start)
}

// scanHeredoc handles <<<ID, <<<"ID" and <<<'ID' strings. It reports false
// when the opener is malformed so the caller can fall back to operators.
func (l *Lexer) scanHeredoc(start int) (Token, bool) {
	p := l.pos + 3
	for p < len(l.input) && (l.input[p] == ' ' || l.input[p] == '\t') {
		p++
	}
	kind := TokenHeredocString
	quote := byte(0)
	if p < len(l.input) && (l.input[p] == '\'' || l.input[p] == '"') {
		quote = l.input[p]
		if quote == '\'' {
			kind = TokenNowdocString
		}
		p++
	}
	idStart := p
	if p >= len(l.input) || !isIdentStart(l.input[p]) {
		return Token{}, false
	}
	for p < len(l.input) && isIdentPart(l.input[p]) {
		p++
	}
	id := l.input[idStart:p]
	if quote != 0 {
		if p >= len(l.input) || l.input[p] != quote {
			return Token{}, false
		}
		p++
	}
	if p < len(l.input) && l.input[p] == '\r' {
		p++
	}
	if p >= len(l.input) || l.input[p] != '\n' {
		return Token{}, false
	}
	p++

	for p < len(l.input) {
		lineEnd := bytes.IndexByte(l.input[p:], '\n')
		line := l.input[p:]
		if lineEnd >= 0 {
			line = l.input[p : p+lineEnd]
		}
		trimmed := bytes.TrimLeft(line, " \t")
		if bytes.HasPrefix(trimmed, id) {
			rest := trimmed[len(id):]
			if len(rest) == 0 || !isIdentPart(rest[0]) {
				l.pos = p + (len(line) - len(trimmed)) + len(id)
				return l.token(kind, start), true
			}
		}
		if lineEnd < 0 {
			break
		}
		p += lineEnd + 1
	}
	l.pos = len(l.input)
	return l.token(kind, start), true
}

// operators is ordered longest first so that the first match is the
// maximal munch.
var operators = []struct {
	text string
	kind TokenKind
}{
	{"<=>", TokenLessThanEqualGreaterThan},
	{"===", TokenEqualEqualEqual},
	{"!==", TokenExclamationEqualEqual},
	{"**=", TokenStarStarEqual},
	{"...", TokenEllipsis},
	{"<<=", TokenLessThanLessThanEqual},
	{">>=", TokenGreaterThanGreaterThanEqual},
	{"??=", TokenQuestionQuestionEqual},
	{"?->", TokenQuestionMinusGreaterThan},
	{"==>", TokenEqualEqualGreaterThan},
	{"?>", TokenQuestionGreaterThan},
	{"::", TokenColonColon},
	{"->", TokenMinusGreaterThan},
	{"=>", TokenEqualGreaterThan},
	{"|>", TokenBarGreaterThan},
	{"??", TokenQuestionQuestion},
	{"!=", TokenExclamationEqual},
	{"<>", TokenLessThanGreaterThan},
	{"<=", TokenLessThanEqual},
	{"<<", TokenLessThanLessThan},
	{">=", TokenGreaterThanEqual},
	{">>", TokenGreaterThanGreaterThan},
	{"==", TokenEqualEqual},
	{"+=", TokenPlusEqual},
	{"++", TokenPlusPlus},
	{"-=", TokenMinusEqual},
	{"--", TokenMinusMinus},
	{"*=", TokenStarEqual},
	{"**", TokenStarStar},
	{"/=", TokenSlashEqual},
	{"%=", TokenPercentEqual},
	{"&=", TokenAmpersandEqual},
	{"&&", TokenAmpersandAmpersand},
	{"|=", TokenBarEqual},
	{"||", TokenBarBar},
	{"^=", TokenCaretEqual},
	{".=", TokenDotEqual},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{",", TokenComma},
	{";", TokenSemicolon},
	{":", TokenColon},
	{"\\", TokenBackslash},
	{".", TokenDot},
	{"?", TokenQuestion},
	{"@", TokenAt},
	{"~", TokenTilde},
	{"!", TokenExclamation},
	{"<", TokenLessThan},
	{">", TokenGreaterThan},
	{"=", TokenEqual},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"%", TokenPercent},
	{"&", TokenAmpersand},
	{"|", TokenBar},
	{"^", TokenCaret},
}

func (l *Lexer) scanOperator(start int) Token {
	if l.hasPrefix("?as") && !isIdentPart(l.peekN(3)) {
		l.pos += 3
		return l.token(TokenQuestionAs, start)
	}
	for _, op := range operators {
		if l.hasPrefix(op.text) {
			l.pos += len(op.text)
			return l.token(op.kind, start)
		}
	}
	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.pos += size
	return l.token(TokenError, start)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
