package parser

import "strings"

// Binary operator precedence, lowest first. Ternary, is/as and ** are
// parsed outside the table.
const (
	precLogicalOr = iota + 1
	precLogicalXor
	precLogicalAnd
	precAssignment
	precPipe
	precConditional
	precCoalesce
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precInstanceof
	precIsAs
)

type binaryOp struct {
	prec  int
	right bool
}

var binaryOps = map[TokenKind]binaryOp{
	TokenOr:  {precLogicalOr, false},
	TokenXor: {precLogicalXor, false},
	TokenAnd: {precLogicalAnd, false},

	TokenEqual:                       {precAssignment, true},
	TokenPlusEqual:                   {precAssignment, true},
	TokenMinusEqual:                  {precAssignment, true},
	TokenStarEqual:                   {precAssignment, true},
	TokenSlashEqual:                  {precAssignment, true},
	TokenDotEqual:                    {precAssignment, true},
	TokenPercentEqual:                {precAssignment, true},
	TokenStarStarEqual:               {precAssignment, true},
	TokenAmpersandEqual:              {precAssignment, true},
	TokenBarEqual:                    {precAssignment, true},
	TokenCaretEqual:                  {precAssignment, true},
	TokenLessThanLessThanEqual:       {precAssignment, true},
	TokenGreaterThanGreaterThanEqual: {precAssignment, true},
	TokenQuestionQuestionEqual:       {precAssignment, true},

	TokenBarGreaterThan:     {precPipe, false},
	TokenQuestionQuestion:   {precCoalesce, true},
	TokenBarBar:             {precOr, false},
	TokenAmpersandAmpersand: {precAnd, false},
	TokenBar:                {precBitOr, false},
	TokenCaret:              {precBitXor, false},
	TokenAmpersand:          {precBitAnd, false},

	TokenEqualEqual:               {precEquality, false},
	TokenExclamationEqual:         {precEquality, false},
	TokenEqualEqualEqual:          {precEquality, false},
	TokenExclamationEqualEqual:    {precEquality, false},
	TokenLessThanGreaterThan:      {precEquality, false},
	TokenLessThanEqualGreaterThan: {precEquality, false},

	TokenLessThan:         {precRelational, false},
	TokenLessThanEqual:    {precRelational, false},
	TokenGreaterThan:      {precRelational, false},
	TokenGreaterThanEqual: {precRelational, false},

	TokenLessThanLessThan:       {precShift, false},
	TokenGreaterThanGreaterThan: {precShift, false},

	TokenPlus:  {precAdditive, false},
	TokenMinus: {precAdditive, false},
	TokenDot:   {precAdditive, false},

	TokenStar:    {precMultiplicative, false},
	TokenSlash:   {precMultiplicative, false},
	TokenPercent: {precMultiplicative, false},

	TokenInstanceof: {precInstanceof, false},
	TokenIs:         {precIsAs, false},
	TokenAs:         {precIsAs, false},
	TokenQuestionAs: {precIsAs, false},
}

func (p *Parser[R]) parseExpression() R {
	return p.parseExpressionPrec(0)
}

// parseExpressionPrec handles the forms that extend as far right as
// possible (lambdas and yield) before falling back to operator parsing.
func (p *Parser[R]) parseExpressionPrec(minPrec int) R {
	start := p.offset()
	switch {
	case p.at(TokenVariable) && p.peekN(1).Kind == TokenEqualEqualGreaterThan:
		sig := p.advance()
		return p.finishLambda(start, p.missing(), p.missing(), sig)
	case p.at(TokenLParen) && p.lambdaAhead(p.pos):
		return p.finishLambda(start, p.missing(), p.missing(), p.parseLambdaSignature())
	case p.at(TokenAsync) && p.peekN(1).Kind == TokenVariable && p.peekN(2).Kind == TokenEqualEqualGreaterThan:
		async := p.advance()
		return p.finishLambda(start, p.missing(), async, p.advance())
	case p.at(TokenAsync) && p.peekN(1).Kind == TokenLParen && p.lambdaAhead(p.pos+1):
		async := p.advance()
		return p.finishLambda(start, p.missing(), async, p.parseLambdaSignature())
	case p.at(TokenYield):
		return p.parseYield()
	}
	return p.parseBinary(minPrec)
}

func (p *Parser[R]) parseLambdaSignature() R {
	start := p.offset()
	lparen := p.advance()
	params := p.parseCommaList(p.until(TokenRParen), p.parseParameter)
	rparen := p.expect(TokenRParen)
	colon, typ := p.parseReturnType()
	return p.make(KindLambdaSignature, start, lparen, params, rparen, colon, typ)
}

func (p *Parser[R]) finishLambda(start int, attr, async, sig R) R {
	arrow := p.expect(TokenEqualEqualGreaterThan)
	var body R
	if p.at(TokenLBrace) {
		body = p.parseCompoundStatement()
	} else {
		body = p.parseExpressionPrec(precAssignment)
	}
	return p.make(KindLambdaExpression, start, attr, async, sig, arrow, body)
}

// lambdaAhead scans a parenthesized parameter list at i and reports
// whether a lambda arrow follows it, possibly after a return type.
func (p *Parser[R]) lambdaAhead(i int) bool {
	end, ok := p.closingParen(i)
	if !ok {
		return false
	}
	switch p.tokenAt(end).Kind {
	case TokenEqualEqualGreaterThan:
		return true
	case TokenColon:
	default:
		return false
	}
	depth := 0
	for j := end + 1; j < len(p.tokens) && j < end+256; j++ {
		switch p.tokens[j].Kind {
		case TokenEqualEqualGreaterThan:
			return depth == 0
		case TokenLParen, TokenLessThan:
			depth++
		case TokenRParen, TokenGreaterThan:
			depth--
		case TokenGreaterThanGreaterThan:
			depth -= 2
		case TokenSemicolon, TokenLBrace, TokenRBrace, TokenEqual, TokenVariable, TokenEOF:
			return false
		}
		if depth < 0 {
			return false
		}
	}
	return false
}

func (p *Parser[R]) parseYield() R {
	start := p.offset()
	keyword := p.advance()
	if tok := p.peek(); tok.Kind == TokenName && strings.EqualFold(tok.Text, "from") {
		from := p.advance()
		return p.make(KindYieldFromExpression, start, keyword, from, p.parseExpression())
	}
	if p.atAny(TokenSemicolon, TokenRParen, TokenComma, TokenRBracket, TokenEOF) {
		return p.make(KindYieldExpression, start, keyword, p.missing())
	}
	return p.make(KindYieldExpression, start, keyword, p.parseElement())
}

func (p *Parser[R]) parseBinary(minPrec int) R {
	start := p.offset()
	left := p.parseUnary()
	for {
		tok := p.peek()
		if tok.Kind == TokenQuestion {
			if precConditional < minPrec {
				return left
			}
			question := p.advance()
			consequence := p.missing()
			if !p.at(TokenColon) {
				consequence = p.parseExpression()
			}
			colon := p.expect(TokenColon)
			alternative := p.parseExpressionPrec(precConditional + 1)
			left = p.make(KindConditionalExpression, start, left, question, consequence, colon, alternative)
			continue
		}

		op, ok := binaryOps[tok.Kind]
		if !ok || op.prec < minPrec || (tok.Kind == TokenAs && p.noAs) {
			return left
		}
		operator := p.advance()
		switch tok.Kind {
		case TokenIs:
			left = p.make(KindIsExpression, start, left, operator, p.parseType())
			continue
		case TokenAs:
			left = p.make(KindAsExpression, start, left, operator, p.parseType())
			continue
		case TokenQuestionAs:
			left = p.make(KindNullableAsExpression, start, left, operator, p.parseType())
			continue
		}

		var right R
		switch {
		case op.prec == precAssignment:
			right = p.parseExpressionPrec(precAssignment)
		case op.right:
			right = p.parseExpressionPrec(op.prec)
		default:
			right = p.parseExpressionPrec(op.prec + 1)
		}
		left = p.make(KindBinaryExpression, start, left, operator, right)
	}
}

func (p *Parser[R]) parseUnary() R {
	start := p.offset()
	switch p.peek().Kind {
	case TokenExclamation, TokenTilde, TokenMinus, TokenPlus, TokenPlusPlus, TokenMinusMinus,
		TokenAt, TokenAmpersand, TokenAwait, TokenClone, TokenPrint:
		op := p.advance()
		return p.make(KindPrefixUnaryExpression, start, op, p.parseUnaryOperand())
	case TokenDollar:
		op := p.advance()
		if p.at(TokenLBrace) {
			return p.make(KindPrefixUnaryExpression, start, op, p.parseBracedExpression())
		}
		return p.make(KindPrefixUnaryExpression, start, op, p.parseUnary())
	case TokenLParen:
		if p.castAhead() {
			lparen := p.advance()
			typ := p.advanceAsName()
			rparen := p.advance()
			return p.make(KindCastExpression, start, lparen, typ, rparen, p.parseUnary())
		}
	}
	return p.parseExponent()
}

// parseUnaryOperand lets lambdas and yield follow prefix operators such as
// `await` and `print`.
func (p *Parser[R]) parseUnaryOperand() R {
	switch {
	case p.at(TokenYield),
		p.at(TokenVariable) && p.peekN(1).Kind == TokenEqualEqualGreaterThan,
		p.at(TokenAsync) && p.peekN(1).Kind != TokenFunction && p.peekN(1).Kind != TokenLBrace:
		return p.parseExpressionPrec(precAssignment)
	}
	return p.parseUnary()
}

var castTypes = map[string]bool{
	"int": true, "integer": true, "bool": true, "boolean": true, "float": true,
	"double": true, "real": true, "string": true, "binary": true, "array": true,
	"object": true, "unset": true, "vec": true, "dict": true, "keyset": true,
	"varray": true, "darray": true,
}

func (p *Parser[R]) castAhead() bool {
	typ := p.peekN(1)
	if !isMemberName(typ) || !castTypes[strings.ToLower(typ.Text)] || p.peekN(2).Kind != TokenRParen {
		return false
	}
	if p.peekN(3).Kind == TokenLParen && typ.Kind == TokenName {
		return true
	}
	switch p.peekN(3).Kind {
	case TokenMinus, TokenPlus, TokenAmpersand, TokenLParen:
		return false
	}
	return p.canStartExpression(p.pos + 3)
}

func (p *Parser[R]) parseExponent() R {
	start := p.offset()
	base := p.parsePostfix()
	if !p.at(TokenStarStar) {
		return base
	}
	op := p.advance()
	return p.make(KindBinaryExpression, start, base, op, p.parseUnary())
}

func (p *Parser[R]) parsePostfix() R {
	start := p.offset()
	first := p.pos
	expr := p.parsePrimary()
	named := p.pos > first && p.isNameRun(first, p.pos)
	for {
		switch p.peek().Kind {
		case TokenMinusGreaterThan, TokenQuestionMinusGreaterThan:
			kind := KindMemberSelectionExpression
			if p.at(TokenQuestionMinusGreaterThan) {
				kind = KindSafeMemberSelectionExpression
			}
			op := p.advance()
			expr = p.make(kind, start, expr, op, p.parseMemberSelector())
		case TokenColonColon:
			op := p.advance()
			expr = p.make(KindScopeResolutionExpression, start, expr, op, p.parseScopeMember())
		case TokenLBracket:
			lbracket := p.advance()
			index := p.missing()
			if !p.at(TokenRBracket) {
				index = p.parseExpression()
			}
			expr = p.make(KindSubscriptExpression, start, expr, lbracket, index, p.expect(TokenRBracket))
		case TokenLParen:
			typeArgs := p.missing()
			lparen := p.advance()
			args := p.parseArgumentList()
			rparen := p.expect(TokenRParen)
			expr = p.make(KindFunctionCallExpression, start, expr, typeArgs, lparen, args, rparen)
		case TokenLessThan:
			if !named || !p.typeArgumentsCallAhead() {
				return expr
			}
			typeArgs := p.parseTypeArguments()
			lparen := p.expect(TokenLParen)
			args := p.parseArgumentList()
			rparen := p.expect(TokenRParen)
			expr = p.make(KindFunctionCallExpression, start, expr, typeArgs, lparen, args, rparen)
		case TokenPlusPlus, TokenMinusMinus:
			op := p.advance()
			expr = p.make(KindPostfixUnaryExpression, start, expr, op)
		default:
			return expr
		}
		named = false
	}
}

// isNameRun reports whether tokens[from:to] spell a possibly qualified name.
func (p *Parser[R]) isNameRun(from, to int) bool {
	for i := from; i < to; i++ {
		k := p.tokens[i].Kind
		if k != TokenName && k != TokenBackslash && !k.IsKeyword() {
			return false
		}
	}
	return true
}

// typeArgumentsCallAhead decides whether `<` after a name opens explicit
// type arguments of a call, as in `f<int>()`.
func (p *Parser[R]) typeArgumentsCallAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens) && i < p.pos+256; i++ {
		switch p.tokens[i].Kind {
		case TokenLessThan:
			depth++
		case TokenGreaterThan:
			depth--
		case TokenGreaterThanGreaterThan:
			depth -= 2
		case TokenName, TokenBackslash, TokenComma, TokenQuestion, TokenColonColon, TokenColon,
			TokenTilde, TokenAt, TokenLParen, TokenRParen, TokenEllipsis, TokenEqualGreaterThan,
			TokenSingleQuotedString, TokenDoubleQuotedString:
		default:
			if !p.tokens[i].Kind.IsKeyword() {
				return false
			}
		}
		if depth < 0 {
			return false
		}
		if depth == 0 {
			return p.tokenAt(i+1).Kind == TokenLParen
		}
	}
	return false
}

func (p *Parser[R]) parseMemberSelector() R {
	switch {
	case isMemberName(p.peek()):
		return p.advanceAsName()
	case p.at(TokenVariable):
		return p.advance()
	case p.at(TokenLBrace):
		return p.parseBracedExpression()
	}
	return p.missingError("expected member name")
}

func (p *Parser[R]) parseScopeMember() R {
	switch {
	case p.at(TokenClass):
		return p.advance()
	case isMemberName(p.peek()):
		return p.advanceAsName()
	case p.at(TokenVariable):
		return p.advance()
	case p.at(TokenLBrace):
		return p.parseBracedExpression()
	}
	return p.missingError("expected member name")
}

func (p *Parser[R]) parseBracedExpression() R {
	start := p.offset()
	lbrace := p.advance()
	expr := p.parseExpression()
	return p.make(KindBracedExpression, start, lbrace, expr, p.expect(TokenRBrace))
}

func (p *Parser[R]) parseArgumentList() R {
	return p.parseCommaList(p.until(TokenRParen), p.parseArgument)
}

func (p *Parser[R]) parseArgument() R {
	start := p.offset()
	if p.atAny(TokenInout, TokenEllipsis) {
		decorator := p.advance()
		return p.make(KindDecoratedExpression, start, decorator, p.parseExpression())
	}
	return p.parseExpression()
}

// parseElement reads an array member: `value`, `key => value` or a spread.
func (p *Parser[R]) parseElement() R {
	start := p.offset()
	if p.at(TokenEllipsis) {
		decorator := p.advance()
		return p.make(KindDecoratedExpression, start, decorator, p.parseExpression())
	}
	key := p.parseExpression()
	if !p.at(TokenEqualGreaterThan) {
		return key
	}
	arrow := p.advance()
	return p.make(KindElementInitializer, start, key, arrow, p.parseExpression())
}

func (p *Parser[R]) parseListMember() R {
	if p.atAny(TokenComma, TokenRParen) {
		return p.missing()
	}
	return p.parseElement()
}

func (p *Parser[R]) parseFieldInitializer() R {
	start := p.offset()
	name := p.parseExpression()
	arrow := p.expect(TokenEqualGreaterThan)
	return p.make(KindFieldInitializer, start, name, arrow, p.parseExpression())
}

// parseKeywordCall reads `keyword ( arguments )` forms such as isset.
func (p *Parser[R]) parseKeywordCall(kind SyntaxKind, item func() R) R {
	start := p.offset()
	keyword := p.advance()
	lparen := p.expect(TokenLParen)
	args := p.parseCommaList(p.until(TokenRParen), item)
	rparen := p.expect(TokenRParen)
	return p.make(kind, start, keyword, lparen, args, rparen)
}

var collectionNames = map[string]bool{
	"Vector": true, "ImmVector": true, "Map": true, "ImmMap": true,
	"Set": true, "ImmSet": true, "Pair": true,
}

var intrinsicKinds = map[TokenKind]SyntaxKind{
	TokenVec:    KindVectorIntrinsicExpression,
	TokenDict:   KindDictionaryIntrinsicExpression,
	TokenKeyset: KindKeysetIntrinsicExpression,
	TokenVarray: KindVarrayIntrinsicExpression,
	TokenDarray: KindDarrayIntrinsicExpression,
}

func (p *Parser[R]) parsePrimary() R {
	start := p.offset()
	tok := p.peek()
	next := p.peekN(1).Kind

	switch tok.Kind {
	case TokenVariable:
		return p.make(KindVariableExpression, start, p.advance())
	case TokenDollarDollar:
		return p.make(KindPipeVariableExpression, start, p.advance())
	case TokenLParen:
		lparen := p.advance()
		expr := p.parseExpression()
		return p.make(KindParenthesizedExpression, start, lparen, expr, p.expect(TokenRParen))
	case TokenLBracket:
		lbracket := p.advance()
		members := p.parseCommaList(p.until(TokenRBracket), p.parseElement)
		return p.make(KindArrayCreationExpression, start, lbracket, members, p.expect(TokenRBracket))
	case TokenArray:
		if next == TokenLParen {
			return p.parseKeywordCall(KindArrayIntrinsicExpression, p.parseElement)
		}
	case TokenVec, TokenDict, TokenKeyset, TokenVarray, TokenDarray:
		if next == TokenLBracket || (next == TokenLessThan && p.intrinsicTypeAhead()) {
			keyword := p.advance()
			explicit := p.missing()
			if p.at(TokenLessThan) {
				explicit = p.parseTypeArguments()
			}
			lbracket := p.expect(TokenLBracket)
			members := p.parseCommaList(p.until(TokenRBracket), p.parseElement)
			rbracket := p.expect(TokenRBracket)
			return p.make(intrinsicKinds[tok.Kind], start, keyword, explicit, lbracket, members, rbracket)
		}
	case TokenShape:
		if next == TokenLParen {
			return p.parseKeywordCall(KindShapeExpression, p.parseFieldInitializer)
		}
	case TokenTuple:
		if next == TokenLParen {
			return p.parseKeywordCall(KindTupleExpression, p.parseExpression)
		}
	case TokenList:
		if next == TokenLParen {
			return p.parseKeywordCall(KindListExpression, p.parseListMember)
		}
	case TokenIsset:
		return p.parseKeywordCall(KindIssetExpression, p.parseExpression)
	case TokenDefine:
		if next == TokenLParen {
			return p.parseKeywordCall(KindDefineExpression, p.parseExpression)
		}
	case TokenHaltCompiler:
		return p.parseKeywordCall(KindHaltCompilerExpression, p.parseExpression)
	case TokenEval:
		keyword := p.advance()
		lparen, arg, rparen := p.parseCondition()
		return p.make(KindEvalExpression, start, keyword, lparen, arg, rparen)
	case TokenNew:
		return p.parseObjectCreation()
	case TokenFunction:
		if next == TokenLParen {
			return p.parseAnonymousFunction(start, p.missing(), p.missing())
		}
	case TokenStatic:
		if next == TokenFunction || (next == TokenAsync && p.peekN(2).Kind == TokenFunction) {
			static := p.advance()
			return p.parseAnonymousFunction(start, static, p.optional(TokenAsync))
		}
		return p.advance()
	case TokenAsync:
		switch next {
		case TokenLBrace:
			async := p.advance()
			return p.make(KindAwaitableCreationExpression, start, p.missing(), async, p.parseCompoundStatement())
		case TokenFunction:
			return p.parseAnonymousFunction(start, p.missing(), p.advance())
		}
	case TokenInclude, TokenIncludeOnce, TokenRequire, TokenRequireOnce:
		keyword := p.advance()
		return p.make(KindInclusionExpression, start, keyword, p.parseExpression())
	case TokenSelf, TokenParent:
		return p.advance()
	}

	if tok.Kind.IsLiteral() {
		return p.make(KindLiteralExpression, start, p.advance())
	}
	if p.atQualifiedName() {
		before := p.pos
		name := p.parseQualifiedName()
		if p.at(TokenLBrace) && p.pos == before+1 && collectionNames[tok.Text] {
			lbrace := p.advance()
			items := p.parseCommaList(p.until(TokenRBrace), p.parseElement)
			return p.make(KindCollectionLiteralExpression, start, name, lbrace, items, p.expect(TokenRBrace))
		}
		return name
	}
	if softKeywords[tok.Kind] || tok.Kind == TokenArray || tok.Kind == TokenList {
		return p.advanceAsName()
	}
	return p.missingError("expected expression")
}

// intrinsicTypeAhead recognizes `vec<T>[` style literals.
func (p *Parser[R]) intrinsicTypeAhead() bool {
	depth := 0
	for i := p.pos + 1; i < len(p.tokens) && i < p.pos+128; i++ {
		switch p.tokens[i].Kind {
		case TokenLessThan:
			depth++
		case TokenGreaterThan:
			depth--
		case TokenGreaterThanGreaterThan:
			depth -= 2
		case TokenSemicolon, TokenLBrace, TokenRBrace, TokenEOF, TokenVariable:
			return false
		}
		if depth <= 0 {
			return depth == 0 && p.tokenAt(i+1).Kind == TokenLBracket
		}
	}
	return false
}

func (p *Parser[R]) parseObjectCreation() R {
	start := p.offset()
	keyword := p.advance()
	callStart := p.offset()

	if p.at(TokenClass) {
		classKeyword := p.advance()
		lparen, args, rparen := p.missing(), p.missing(), p.missing()
		if p.at(TokenLParen) {
			lparen = p.advance()
			args = p.parseArgumentList()
			rparen = p.expect(TokenRParen)
		}
		extendsKeyword, extendsList := p.missing(), p.missing()
		if p.at(TokenExtends) {
			extendsKeyword = p.advance()
			extendsList = p.parseCommaList(p.until(TokenLBrace, TokenImplements), p.parseType)
		}
		implementsKeyword, implementsList := p.missing(), p.missing()
		if p.at(TokenImplements) {
			implementsKeyword = p.advance()
			implementsList = p.parseCommaList(p.until(TokenLBrace), p.parseType)
		}
		body := p.parseClassishBody()
		anon := p.make(KindAnonymousClass, callStart,
			classKeyword, lparen, args, rparen, extendsKeyword, extendsList, implementsKeyword, implementsList, body)
		return p.make(KindObjectCreationExpression, start, keyword, anon)
	}

	var typ R
	switch {
	case p.at(TokenVariable):
		typ = p.make(KindVariableExpression, callStart, p.advance())
		for p.atAny(TokenMinusGreaterThan, TokenColonColon) {
			kind := KindMemberSelectionExpression
			if p.at(TokenColonColon) {
				kind = KindScopeResolutionExpression
			}
			op := p.advance()
			typ = p.make(kind, callStart, typ, op, p.parseMemberSelector())
		}
	case p.atAny(TokenStatic, TokenSelf, TokenParent):
		typ = p.advance()
	default:
		name := p.parseQualifiedName()
		typ = name
		if p.at(TokenLessThan) {
			typ = p.make(KindGenericTypeSpecifier, callStart, name, p.parseTypeArguments())
		}
	}
	lparen, args, rparen := p.missing(), p.missing(), p.missing()
	if p.at(TokenLParen) {
		lparen = p.advance()
		args = p.parseArgumentList()
		rparen = p.expect(TokenRParen)
	}
	call := p.make(KindConstructorCall, callStart, typ, lparen, args, rparen)
	return p.make(KindObjectCreationExpression, start, keyword, call)
}

func (p *Parser[R]) parseAnonymousFunction(start int, static, async R) R {
	attr := p.missing()
	keyword := p.expect(TokenFunction)
	lparen := p.expect(TokenLParen)
	params := p.parseCommaList(p.until(TokenRParen), p.parseParameter)
	rparen := p.expect(TokenRParen)
	colon, typ := p.parseReturnType()
	use := p.missing()
	if p.at(TokenUse) {
		useStart := p.offset()
		useKeyword := p.advance()
		useLParen := p.expect(TokenLParen)
		vars := p.parseCommaList(p.until(TokenRParen), p.parseUseVariable)
		useRParen := p.expect(TokenRParen)
		use = p.make(KindAnonymousFunctionUseClause, useStart, useKeyword, useLParen, vars, useRParen)
	}
	body := p.parseCompoundStatement()
	return p.make(KindAnonymousFunction, start, attr, static, async, keyword, lparen, params, rparen, colon, typ, use, body)
}

func (p *Parser[R]) parseUseVariable() R {
	start := p.offset()
	if p.at(TokenAmpersand) {
		amp := p.advance()
		return p.make(KindDecoratedExpression, start, amp, p.expect(TokenVariable))
	}
	return p.expect(TokenVariable)
}

// canStartExpression reports whether the token at i may begin an
// expression.
func (p *Parser[R]) canStartExpression(i int) bool {
	tok := p.tokenAt(i)
	switch tok.Kind {
	case TokenVariable, TokenDollarDollar, TokenDollar, TokenLParen, TokenLBracket,
		TokenExclamation, TokenTilde, TokenMinus, TokenPlus, TokenPlusPlus, TokenMinusMinus,
		TokenAt, TokenAmpersand, TokenName, TokenBackslash,
		TokenNew, TokenClone, TokenPrint, TokenAwait, TokenYield, TokenFunction, TokenStatic,
		TokenSelf, TokenParent, TokenAsync, TokenArray, TokenList, TokenIsset, TokenEval,
		TokenHaltCompiler, TokenInclude, TokenIncludeOnce, TokenRequire, TokenRequireOnce:
		return true
	case TokenNamespace:
		return p.tokenAt(i+1).Kind == TokenBackslash
	}
	return tok.Kind.IsLiteral() || softKeywords[tok.Kind]
}
