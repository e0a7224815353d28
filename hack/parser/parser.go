package parser

import (
	"fmt"
	"strings"
)

// Error is a syntax diagnostic. The engine keeps parsing after reporting one.
type Error struct {
	Message string
	Offset  int
	File    string
}

func (e *Error) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%d: %s", e.Offset, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Offset, e.Message)
}

// Parser drives a Constructors strategy over one source file.
type Parser[R any] struct {
	src    []byte
	env    Env
	c      Constructors[R]
	tokens []Token
	pos    int
	errors []*Error
	// parens maps the index of each `(` to the index of its `)`, or -1.
	// Built on first use so lookahead stays linear.
	parens []int

	// hack enables Hack-only syntax: attributes, enums, type aliases.
	hack bool
	// noAs stops `as` from being read as a binary operator while parsing
	// a foreach collection.
	noAs bool
}

func New[R any](src []byte, c Constructors[R], opts ...Option) *Parser[R] {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return &Parser[R]{src: src, env: s.env, c: c}
}

// Parse runs the grammar over src and returns whatever the strategy built
// for the whole script. Syntax errors never fail a parse; only input that
// cannot be tokenized does.
func Parse[R any](src []byte, c Constructors[R], opts ...Option) (R, error) {
	return New(src, c, opts...).ParseScript()
}

func (p *Parser[R]) ParseScript() (R, error) {
	var zero R
	tokens, err := NewLexer(p.src, p.env).Tokenize()
	if err != nil {
		return zero, err
	}
	p.tokens = tokens
	p.pos = 0
	p.errors = nil
	p.parens = nil
	p.hack = p.detectHack()
	return p.parseScript(), nil
}

// Errors returns the diagnostics of the last parse in source order.
func (p *Parser[R]) Errors() []*Error {
	return p.errors
}

// detectHack looks at the open tag. <?hh files and files without any open
// tag are Hack; <?php files are Hack only in HHVM compatibility mode.
func (p *Parser[R]) detectHack() bool {
	i := 0
	if p.tokens[i].Kind == TokenMarkup {
		i++
	}
	if p.tokens[i].Kind != TokenLessThanQuestion {
		return true
	}
	if name := p.tokenAt(i + 1); name.Kind == TokenName && strings.EqualFold(name.Text, "hh") {
		return true
	}
	return p.env.HHVMCompatMode
}

func (p *Parser[R]) tokenAt(i int) Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser[R]) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser[R]) peekN(n int) Token {
	return p.tokenAt(p.pos + n)
}

func (p *Parser[R]) at(kind TokenKind) bool {
	return p.tokens[p.pos].Kind == kind
}

func (p *Parser[R]) atAny(kinds ...TokenKind) bool {
	k := p.tokens[p.pos].Kind
	for _, kind := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (p *Parser[R]) atEOF() bool {
	return p.at(TokenEOF)
}

// offset is where the next token's leading trivia begins.
func (p *Parser[R]) offset() int {
	return p.tokens[p.pos].FullOffset()
}

// advance hands the current token to the strategy. The end-of-file token
// is never consumed here; parseScript passes it exactly once.
func (p *Parser[R]) advance() R {
	tok := p.tokens[p.pos]
	if tok.Kind == TokenEOF {
		return p.c.Missing(tok.FullOffset())
	}
	p.pos++
	return p.c.Token(tok)
}

// advanceAsName consumes a keyword used in a name position and reports it
// to the strategy as a plain name.
func (p *Parser[R]) advanceAsName() R {
	tok := p.tokens[p.pos]
	if tok.Kind == TokenEOF {
		return p.c.Missing(tok.FullOffset())
	}
	if tok.Kind.IsKeyword() {
		tok.Kind = TokenName
	}
	p.pos++
	return p.c.Token(tok)
}

func (p *Parser[R]) missing() R {
	return p.c.Missing(p.offset())
}

func (p *Parser[R]) list(items []R, offset int) R {
	return p.c.List(items, offset)
}

func (p *Parser[R]) emptyList() R {
	return p.c.List(nil, p.offset())
}

func (p *Parser[R]) make(kind SyntaxKind, offset int, children ...R) R {
	if len(children) != kind.Arity() {
		panic(fmt.Sprintf("parser: %s built with %d children, want %d", kind, len(children), kind.Arity()))
	}
	return p.c.Make(kind, offset, children)
}

func (p *Parser[R]) optional(kind TokenKind) R {
	if p.at(kind) {
		return p.advance()
	}
	return p.missing()
}

func (p *Parser[R]) expect(kind TokenKind) R {
	if p.at(kind) {
		return p.advance()
	}
	return p.missingError("expected " + kind.String())
}

// expectSemicolon accepts a closing tag in place of the semicolon.
func (p *Parser[R]) expectSemicolon() R {
	if p.at(TokenSemicolon) {
		return p.advance()
	}
	if p.at(TokenQuestionGreaterThan) {
		return p.missing()
	}
	return p.missingError("expected ;")
}

// expectGreaterThan closes an angle-bracketed list. A `>>`, `>=` or `>>=`
// token is split so that its first `>` closes the list and the remainder
// stays in the stream.
func (p *Parser[R]) expectGreaterThan() R {
	tok := p.peek()
	var rest TokenKind
	switch tok.Kind {
	case TokenGreaterThan:
		return p.advance()
	case TokenGreaterThanGreaterThan:
		rest = TokenGreaterThan
	case TokenGreaterThanEqual:
		rest = TokenEqual
	case TokenGreaterThanGreaterThanEqual:
		rest = TokenGreaterThanEqual
	default:
		return p.missingError("expected >")
	}
	first := Token{Kind: TokenGreaterThan, Offset: tok.Offset, Text: ">", Leading: tok.Leading}
	p.tokens[p.pos] = Token{Kind: rest, Offset: tok.Offset + 1, Text: tok.Text[1:], Trailing: tok.Trailing}
	return p.c.Token(first)
}

func (p *Parser[R]) atGreaterThan() bool {
	return p.atAny(TokenGreaterThan, TokenGreaterThanGreaterThan, TokenGreaterThanEqual, TokenGreaterThanGreaterThanEqual)
}

func (p *Parser[R]) report(msg string) {
	tok := p.peek()
	if n := len(p.errors); n > 0 && p.errors[n-1].Offset == tok.Offset {
		return
	}
	p.errors = append(p.errors, &Error{Message: msg, Offset: tok.Offset, File: p.env.Filename})
}

// missingError stands in for a required element that is absent.
func (p *Parser[R]) missingError(msg string) R {
	off := p.offset()
	p.report(msg)
	return p.make(KindErrorSyntax, off, p.c.Missing(off))
}

// skipError wraps unexpected tokens into an error node. It consumes at
// least one token, keeps braces balanced, includes a terminating semicolon
// and otherwise stops before a token accepted by stop.
func (p *Parser[R]) skipError(msg string, stop func(Token) bool) R {
	start := p.offset()
	p.report(msg)
	var skipped []R
	depth := 0
loop:
	for !p.atEOF() {
		tok := p.peek()
		if len(skipped) > 0 && depth == 0 && stop(tok) {
			break
		}
		skipped = append(skipped, p.advance())
		switch tok.Kind {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			if depth > 0 {
				depth--
			}
			if depth == 0 && len(skipped) > 1 {
				break loop
			}
		case TokenSemicolon:
			if depth == 0 {
				break loop
			}
		}
	}
	return p.make(KindErrorSyntax, start, p.list(skipped, start))
}

func stopAtStatement(tok Token) bool {
	switch tok.Kind {
	case TokenRBrace, TokenIf, TokenWhile, TokenFor, TokenForeach, TokenDo, TokenSwitch,
		TokenTry, TokenReturn, TokenThrow, TokenBreak, TokenContinue, TokenEcho, TokenUnset,
		TokenFunction, TokenClass, TokenInterface, TokenTrait, TokenAbstract, TokenFinal,
		TokenNamespace, TokenUse, TokenConst, TokenEnum, TokenLessThanLessThan, TokenQuestionGreaterThan:
		return true
	}
	return false
}

func stopAtMember(tok Token) bool {
	switch tok.Kind {
	case TokenRBrace, TokenPublic, TokenPrivate, TokenProtected, TokenStatic, TokenAbstract,
		TokenFinal, TokenAsync, TokenVar, TokenFunction, TokenConst, TokenUse, TokenRequire,
		TokenLessThanLessThan:
		return true
	}
	return false
}

// softKeywords may name declarations and be called as functions.
var softKeywords = map[TokenKind]bool{
	TokenType:       true,
	TokenNewtype:    true,
	TokenEnum:       true,
	TokenWhere:      true,
	TokenSuper:      true,
	TokenVec:        true,
	TokenDict:       true,
	TokenKeyset:     true,
	TokenVarray:     true,
	TokenDarray:     true,
	TokenClassname:  true,
	TokenReify:      true,
	TokenConcurrent: true,
	TokenDefine:     true,
	TokenInout:      true,
	TokenTuple:      true,
	TokenShape:      true,
}

func (p *Parser[R]) isDeclName(tok Token) bool {
	return tok.Kind == TokenName || softKeywords[tok.Kind]
}

// isMemberName accepts any keyword: members and qualified name segments
// may be spelled like reserved words.
func isMemberName(tok Token) bool {
	return tok.Kind == TokenName || tok.Kind.IsKeyword()
}

func (p *Parser[R]) declName(what string) R {
	if p.isDeclName(p.peek()) {
		return p.advanceAsName()
	}
	return p.missingError("expected " + what + " name")
}

func (p *Parser[R]) memberName(what string) R {
	if isMemberName(p.peek()) {
		return p.advanceAsName()
	}
	return p.missingError("expected " + what + " name")
}

// parseCommaList reads items separated by commas until end reports true.
// A trailing comma is allowed. The list ends at the first item without a
// separator.
func (p *Parser[R]) parseCommaList(end func() bool, item func() R) R {
	start := p.offset()
	var items []R
	for !p.atEOF() && !end() {
		itemStart := p.offset()
		it := item()
		if p.at(TokenComma) {
			items = append(items, p.make(KindListItem, itemStart, it, p.advance()))
			continue
		}
		items = append(items, p.make(KindListItem, itemStart, it, p.missing()))
		break
	}
	return p.list(items, start)
}

func (p *Parser[R]) until(kinds ...TokenKind) func() bool {
	return func() bool { return p.atAny(kinds...) }
}

// parseQualifiedName reads a name that may contain namespace separators.
// A single segment comes back as a bare name token.
func (p *Parser[R]) parseQualifiedName() R {
	start := p.offset()
	var parts []R
	switch {
	case p.at(TokenBackslash):
		itemStart := p.offset()
		parts = append(parts, p.make(KindListItem, itemStart, p.missing(), p.advance()))
	case p.at(TokenNamespace) && p.peekN(1).Kind == TokenBackslash:
		itemStart := p.offset()
		ns := p.advanceAsName()
		parts = append(parts, p.make(KindListItem, itemStart, ns, p.advance()))
	}
	for isMemberName(p.peek()) {
		itemStart := p.offset()
		name := p.advanceAsName()
		if p.at(TokenBackslash) {
			parts = append(parts, p.make(KindListItem, itemStart, name, p.advance()))
			continue
		}
		if len(parts) == 0 {
			return name
		}
		parts = append(parts, p.make(KindListItem, itemStart, name, p.missing()))
		break
	}
	if len(parts) == 0 {
		return p.missingError("expected name")
	}
	return p.make(KindQualifiedName, start, p.list(parts, start))
}

func (p *Parser[R]) atQualifiedName() bool {
	tok := p.peek()
	return tok.Kind == TokenName || tok.Kind == TokenBackslash ||
		(tok.Kind == TokenNamespace && p.peekN(1).Kind == TokenBackslash)
}

func (p *Parser[R]) parseScript() R {
	start := p.offset()
	var items []R
	if p.atAny(TokenMarkup, TokenLessThanQuestion) {
		items = append(items, p.parseMarkupSection(start, p.missing()))
	}
	for !p.atEOF() {
		items = append(items, p.parseDeclarationGuarded())
	}
	eof := p.peek()
	items = append(items, p.make(KindEndOfFile, eof.FullOffset(), p.c.Token(eof)))
	return p.make(KindScript, start, p.list(items, start))
}

func (p *Parser[R]) parseDeclarationList(end func() bool) R {
	start := p.offset()
	var items []R
	for !p.atEOF() && !end() {
		items = append(items, p.parseDeclarationGuarded())
	}
	return p.list(items, start)
}

// parseDeclarationGuarded guarantees progress: a declaration that consumed
// nothing is followed by an error node that does.
func (p *Parser[R]) parseDeclarationGuarded() R {
	start := p.offset()
	before := p.pos
	decl := p.parseDeclaration()
	if p.pos == before && !p.atEOF() {
		skipped := p.skipError("unexpected token", stopAtStatement)
		return p.make(KindErrorSyntax, start, p.list([]R{decl, skipped}, start))
	}
	return decl
}

// parseMarkupSection reads inline text and the open tag that ends it.
func (p *Parser[R]) parseMarkupSection(start int, prefix R) R {
	text := p.optional(TokenMarkup)
	if !p.at(TokenLessThanQuestion) {
		return p.make(KindMarkupSection, start, prefix, text, p.missing())
	}
	suffixStart := p.offset()
	tag := p.peek()
	open := p.advance()
	name := p.missing()
	if next := p.peek(); next.Kind == TokenName && next.Offset == tag.End() {
		name = p.advance()
	}
	suffix := p.make(KindMarkupSuffix, suffixStart, open, name)
	return p.make(KindMarkupSection, start, prefix, text, suffix)
}

func (p *Parser[R]) parseDeclaration() R {
	switch p.peek().Kind {
	case TokenNamespace:
		if p.peekN(1).Kind != TokenBackslash {
			return p.parseNamespaceDeclaration()
		}
	case TokenUse:
		return p.parseNamespaceUseDeclaration()
	case TokenConst:
		start := p.offset()
		return p.parseConstDeclaration(start, p.emptyList())
	case TokenLessThanLessThan:
		if p.hack && p.atFileAttributeSpecification() {
			return p.parseFileAttributeSpecification()
		}
	}
	return p.parseStatement()
}

func (p *Parser[R]) parseNamespaceDeclaration() R {
	start := p.offset()
	keyword := p.advance()
	name := p.missing()
	if p.atQualifiedName() || isMemberName(p.peek()) {
		name = p.parseQualifiedName()
	}
	header := p.make(KindNamespaceDeclarationHeader, start, keyword, name)

	bodyStart := p.offset()
	var body R
	if p.at(TokenLBrace) {
		lbrace := p.advance()
		decls := p.parseDeclarationList(p.until(TokenRBrace))
		rbrace := p.expect(TokenRBrace)
		body = p.make(KindNamespaceBody, bodyStart, lbrace, decls, rbrace)
	} else {
		body = p.make(KindNamespaceEmptyBody, bodyStart, p.expectSemicolon())
	}
	return p.make(KindNamespaceDeclaration, start, header, body)
}

// atUseKind reports whether the current token selects the kind of a use
// clause rather than starting its name.
func (p *Parser[R]) atUseKind() bool {
	return p.atAny(TokenFunction, TokenConst, TokenType, TokenNamespace) && p.peekN(1).Kind != TokenBackslash
}

func (p *Parser[R]) parseNamespaceUseDeclaration() R {
	start := p.offset()
	keyword := p.advance()
	kind := p.missing()
	if p.atUseKind() {
		kind = p.advance()
	}

	prefixStart := p.offset()
	name := p.parseQualifiedName()
	if p.at(TokenLBrace) {
		lbrace := p.advance()
		clauses := p.parseCommaList(p.until(TokenRBrace), p.parseUseClause)
		rbrace := p.expect(TokenRBrace)
		semi := p.expectSemicolon()
		return p.make(KindNamespaceGroupUseDeclaration, start, keyword, kind, name, lbrace, clauses, rbrace, semi)
	}

	var items []R
	itemStart := prefixStart
	clause := p.finishUseClause(prefixStart, p.c.Missing(prefixStart), name)
	for {
		if p.at(TokenComma) {
			items = append(items, p.make(KindListItem, itemStart, clause, p.advance()))
			if p.atAny(TokenSemicolon, TokenEOF) {
				break
			}
			itemStart = p.offset()
			clause = p.parseUseClause()
			continue
		}
		items = append(items, p.make(KindListItem, itemStart, clause, p.missing()))
		break
	}
	clauses := p.list(items, prefixStart)
	semi := p.expectSemicolon()
	return p.make(KindNamespaceUseDeclaration, start, keyword, kind, clauses, semi)
}

func (p *Parser[R]) parseUseClause() R {
	start := p.offset()
	kind := p.missing()
	if p.atAny(TokenFunction, TokenConst, TokenType) && p.peekN(1).Kind != TokenBackslash {
		kind = p.advance()
	}
	return p.finishUseClause(start, kind, p.parseQualifiedName())
}

func (p *Parser[R]) finishUseClause(start int, kind, name R) R {
	if !p.at(TokenAs) {
		return p.make(KindNamespaceUseClause, start, kind, name, p.missing(), p.missing())
	}
	as := p.advance()
	alias := p.memberName("alias")
	return p.make(KindNamespaceUseClause, start, kind, name, as, alias)
}

func (p *Parser[R]) atFileAttributeSpecification() bool {
	name := p.peekN(1)
	return p.at(TokenLessThanLessThan) && name.Kind == TokenName && strings.EqualFold(name.Text, "file") &&
		p.peekN(2).Kind == TokenColon
}

func (p *Parser[R]) parseFileAttributeSpecification() R {
	start := p.offset()
	open := p.advance()
	keyword := p.advance()
	colon := p.advance()
	attrs := p.parseCommaList(p.atGreaterThan, p.parseAttributeCall)
	closing := p.expectDoubleAngle()
	return p.make(KindFileAttributeSpecification, start, open, keyword, colon, attrs, closing)
}

func (p *Parser[R]) expectDoubleAngle() R {
	if p.at(TokenGreaterThanGreaterThan) {
		return p.advance()
	}
	return p.missingError("expected >>")
}

// atAttributeSpec reports whether an attribute specification starts here.
func (p *Parser[R]) atAttributeSpec() bool {
	if !p.hack {
		return false
	}
	if p.at(TokenLessThanLessThan) {
		return !p.atFileAttributeSpecification()
	}
	return p.at(TokenAt) && p.atAttributeDeclarationAhead()
}

func (p *Parser[R]) parseAttributeSpec() R {
	if p.at(TokenLessThanLessThan) {
		return p.parseOldAttributeSpecification()
	}
	start := p.offset()
	var attrs []R
	for p.at(TokenAt) {
		attrStart := p.offset()
		at := p.advance()
		attrs = append(attrs, p.make(KindAttribute, attrStart, at, p.parseAttributeCall()))
	}
	return p.make(KindAttributeSpecification, start, p.list(attrs, start))
}

func (p *Parser[R]) parseOldAttributeSpecification() R {
	start := p.offset()
	open := p.advance()
	attrs := p.parseCommaList(func() bool { return p.at(TokenGreaterThanGreaterThan) }, p.parseAttributeCall)
	closing := p.expectDoubleAngle()
	return p.make(KindOldAttributeSpecification, start, open, attrs, closing)
}

// parseAttributeCall reads `Name` or `Name(args)` inside an attribute.
func (p *Parser[R]) parseAttributeCall() R {
	start := p.offset()
	name := p.parseQualifiedName()
	if !p.at(TokenLParen) {
		return p.make(KindConstructorCall, start, name, p.missing(), p.missing(), p.missing())
	}
	lparen := p.advance()
	args := p.parseArgumentList()
	rparen := p.expect(TokenRParen)
	return p.make(KindConstructorCall, start, name, lparen, args, rparen)
}

// atAttributeDeclarationAhead scans `@Name(...)` groups without building
// anything and reports whether a declaration follows them.
func (p *Parser[R]) atAttributeDeclarationAhead() bool {
	i := p.pos
	for p.tokenAt(i).Kind == TokenAt {
		i++
		if p.tokenAt(i).Kind == TokenBackslash {
			i++
		}
		if !isMemberName(p.tokenAt(i)) {
			return false
		}
		i++
		for p.tokenAt(i).Kind == TokenBackslash && isMemberName(p.tokenAt(i+1)) {
			i += 2
		}
		if p.tokenAt(i).Kind == TokenLParen {
			end, ok := p.closingParen(i)
			if !ok {
				return false
			}
			i = end
		}
	}
	switch p.tokenAt(i).Kind {
	case TokenFunction, TokenAsync, TokenAbstract, TokenFinal, TokenClass, TokenInterface,
		TokenTrait, TokenEnum, TokenType, TokenNewtype, TokenPublic, TokenPrivate,
		TokenProtected, TokenStatic, TokenConst, TokenVar:
		return true
	}
	return false
}

// closingParen returns the index just past the `)` closing the `(` at i.
func (p *Parser[R]) closingParen(i int) (int, bool) {
	if p.parens == nil {
		p.parens = matchParens(p.tokens)
	}
	if i >= len(p.parens) || p.parens[i] < 0 {
		return i, false
	}
	return p.parens[i] + 1, true
}

func matchParens(tokens []Token) []int {
	match := make([]int, len(tokens))
	var open []int
	for i, tok := range tokens {
		match[i] = -1
		switch tok.Kind {
		case TokenLParen:
			open = append(open, i)
		case TokenRParen:
			if n := len(open); n > 0 {
				match[open[n-1]] = i
				open = open[:n-1]
			}
		}
	}
	return match
}
