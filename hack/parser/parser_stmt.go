package parser

func (p *Parser[R]) parseStatement() R {
	start := p.offset()
	tok := p.peek()

	switch {
	case p.atAttributeSpec():
		return p.parseAttributedDeclaration()
	case p.atFunctionDeclaration():
		return p.parseFunctionDeclaration(start, p.missing())
	case p.atClassishDeclaration():
		return p.parseClassishDeclaration(start, p.missing())
	case p.atEnumDeclaration():
		return p.parseEnumDeclaration(start, p.missing())
	case p.atAliasDeclaration():
		return p.parseAliasDeclaration(start, p.missing())
	}

	switch tok.Kind {
	case TokenLBrace:
		return p.parseCompoundStatement()
	case TokenIf:
		return p.parseIfStatement()
	case TokenWhile:
		return p.parseWhileStatement()
	case TokenDo:
		return p.parseDoStatement()
	case TokenFor:
		return p.parseForStatement()
	case TokenForeach:
		return p.parseForeachStatement()
	case TokenSwitch:
		return p.parseSwitchStatement()
	case TokenTry:
		return p.parseTryStatement()
	case TokenReturn:
		keyword := p.advance()
		expr := p.missing()
		if !p.atAny(TokenSemicolon, TokenQuestionGreaterThan, TokenRBrace, TokenEOF) {
			expr = p.parseExpression()
		}
		return p.make(KindReturnStatement, start, keyword, expr, p.expectSemicolon())
	case TokenThrow:
		keyword := p.advance()
		expr := p.parseExpression()
		return p.make(KindThrowStatement, start, keyword, expr, p.expectSemicolon())
	case TokenBreak, TokenContinue:
		kind := KindBreakStatement
		if tok.Kind == TokenContinue {
			kind = KindContinueStatement
		}
		keyword := p.advance()
		level := p.optional(TokenDecimalLiteral)
		return p.make(kind, start, keyword, level, p.expectSemicolon())
	case TokenEcho:
		keyword := p.advance()
		exprs := p.parseCommaList(p.until(TokenSemicolon, TokenQuestionGreaterThan), p.parseExpression)
		return p.make(KindEchoStatement, start, keyword, exprs, p.expectSemicolon())
	case TokenUnset:
		keyword := p.advance()
		lparen := p.expect(TokenLParen)
		vars := p.parseCommaList(p.until(TokenRParen), p.parseExpression)
		rparen := p.expect(TokenRParen)
		return p.make(KindUnsetStatement, start, keyword, lparen, vars, rparen, p.expectSemicolon())
	case TokenUsing:
		return p.parseUsingStatement(start, p.missing())
	case TokenAwait:
		if p.peekN(1).Kind == TokenUsing {
			await := p.advance()
			return p.parseUsingStatement(start, await)
		}
	case TokenConcurrent:
		if p.peekN(1).Kind == TokenLBrace {
			keyword := p.advance()
			return p.make(KindConcurrentStatement, start, keyword, p.parseCompoundStatement())
		}
	case TokenGoto:
		keyword := p.advance()
		label := p.memberName("label")
		return p.make(KindGotoStatement, start, keyword, label, p.expectSemicolon())
	case TokenName:
		if p.peekN(1).Kind == TokenColon {
			name := p.advance()
			return p.make(KindGotoLabel, start, name, p.advance())
		}
	case TokenSemicolon:
		return p.make(KindExpressionStatement, start, p.missing(), p.advance())
	case TokenQuestionGreaterThan:
		return p.parseMarkupSection(start, p.advance())
	case TokenInclude, TokenIncludeOnce, TokenRequire, TokenRequireOnce:
		expr := p.parseExpression()
		return p.make(KindInclusionDirective, start, expr, p.expectSemicolon())
	}

	if !p.canStartExpression(p.pos) {
		if p.atEOF() {
			return p.missingError("unexpected end of file")
		}
		return p.skipError("unexpected token", stopAtStatement)
	}
	expr := p.parseExpression()
	return p.make(KindExpressionStatement, start, expr, p.expectSemicolon())
}

func (p *Parser[R]) parseCompoundStatement() R {
	start := p.offset()
	if !p.at(TokenLBrace) {
		lbrace := p.missingError("expected {")
		return p.make(KindCompoundStatement, start, lbrace, p.emptyList(), p.missing())
	}
	lbrace := p.advance()
	stmts := p.parseStatementList(p.until(TokenRBrace))
	rbrace := p.expect(TokenRBrace)
	return p.make(KindCompoundStatement, start, lbrace, stmts, rbrace)
}

func (p *Parser[R]) parseStatementList(end func() bool) R {
	start := p.offset()
	var stmts []R
	for !p.atEOF() && !end() {
		before := p.pos
		stmts = append(stmts, p.parseStatement())
		if p.pos == before {
			stmts = append(stmts, p.skipError("unexpected token", stopAtStatement))
		}
	}
	return p.list(stmts, start)
}

// parseCondition reads `( expression )`.
func (p *Parser[R]) parseCondition() (R, R, R) {
	lparen := p.expect(TokenLParen)
	cond := p.parseExpression()
	rparen := p.expect(TokenRParen)
	return lparen, cond, rparen
}

func (p *Parser[R]) parseIfStatement() R {
	start := p.offset()
	keyword := p.advance()
	lparen, cond, rparen := p.parseCondition()
	stmt := p.parseStatement()

	elseifStart := p.offset()
	var elseifs []R
	for p.at(TokenElseif) {
		clauseStart := p.offset()
		kw := p.advance()
		lp, c, rp := p.parseCondition()
		elseifs = append(elseifs, p.make(KindElseifClause, clauseStart, kw, lp, c, rp, p.parseStatement()))
	}
	elseClause := p.missing()
	if p.at(TokenElse) {
		clauseStart := p.offset()
		kw := p.advance()
		elseClause = p.make(KindElseClause, clauseStart, kw, p.parseStatement())
	}
	return p.make(KindIfStatement, start, keyword, lparen, cond, rparen, stmt, p.list(elseifs, elseifStart), elseClause)
}

func (p *Parser[R]) parseWhileStatement() R {
	start := p.offset()
	keyword := p.advance()
	lparen, cond, rparen := p.parseCondition()
	return p.make(KindWhileStatement, start, keyword, lparen, cond, rparen, p.parseStatement())
}

func (p *Parser[R]) parseDoStatement() R {
	start := p.offset()
	keyword := p.advance()
	body := p.parseStatement()
	whileKeyword := p.expect(TokenWhile)
	lparen, cond, rparen := p.parseCondition()
	return p.make(KindDoStatement, start, keyword, body, whileKeyword, lparen, cond, rparen, p.expectSemicolon())
}

func (p *Parser[R]) parseForStatement() R {
	start := p.offset()
	keyword := p.advance()
	lparen := p.expect(TokenLParen)
	init := p.parseCommaList(p.until(TokenSemicolon), p.parseExpression)
	semi1 := p.expect(TokenSemicolon)
	control := p.parseCommaList(p.until(TokenSemicolon), p.parseExpression)
	semi2 := p.expect(TokenSemicolon)
	end := p.parseCommaList(p.until(TokenRParen), p.parseExpression)
	rparen := p.expect(TokenRParen)
	return p.make(KindForStatement, start, keyword, lparen, init, semi1, control, semi2, end, rparen, p.parseStatement())
}

func (p *Parser[R]) parseForeachStatement() R {
	start := p.offset()
	keyword := p.advance()
	lparen := p.expect(TokenLParen)

	saved := p.noAs
	p.noAs = true
	collection := p.parseExpression()
	p.noAs = saved

	await := p.optional(TokenAwait)
	as := p.expect(TokenAs)
	first := p.parseExpression()
	key, arrow, value := p.missing(), p.missing(), first
	if p.at(TokenEqualGreaterThan) {
		key = first
		arrow = p.advance()
		value = p.parseExpression()
	}
	rparen := p.expect(TokenRParen)
	body := p.parseStatement()
	return p.make(KindForeachStatement, start, keyword, lparen, collection, await, as, key, arrow, value, rparen, body)
}

func (p *Parser[R]) parseSwitchStatement() R {
	start := p.offset()
	keyword := p.advance()
	lparen, expr, rparen := p.parseCondition()
	lbrace := p.expect(TokenLBrace)
	sectionsStart := p.offset()
	var sections []R
	for !p.atEOF() && !p.at(TokenRBrace) {
		if p.atAny(TokenCase, TokenDefault) {
			sections = append(sections, p.parseSwitchSection())
			continue
		}
		sections = append(sections, p.skipError("expected case or default", func(t Token) bool {
			return t.Kind == TokenCase || t.Kind == TokenDefault || t.Kind == TokenRBrace
		}))
	}
	rbrace := p.expect(TokenRBrace)
	return p.make(KindSwitchStatement, start, keyword, lparen, expr, rparen, lbrace, p.list(sections, sectionsStart), rbrace)
}

func (p *Parser[R]) parseSwitchSection() R {
	start := p.offset()
	var labels []R
	for p.atAny(TokenCase, TokenDefault) {
		labelStart := p.offset()
		if p.at(TokenDefault) {
			keyword := p.advance()
			labels = append(labels, p.make(KindDefaultLabel, labelStart, keyword, p.expectLabelColon()))
			continue
		}
		keyword := p.advance()
		expr := p.parseExpression()
		labels = append(labels, p.make(KindCaseLabel, labelStart, keyword, expr, p.expectLabelColon()))
	}
	labelList := p.list(labels, start)
	stmts := p.parseStatementList(p.until(TokenCase, TokenDefault, TokenRBrace))
	return p.make(KindSwitchSection, start, labelList, stmts)
}

func (p *Parser[R]) expectLabelColon() R {
	if p.atAny(TokenColon, TokenSemicolon) {
		return p.advance()
	}
	return p.missingError("expected :")
}

func (p *Parser[R]) parseTryStatement() R {
	start := p.offset()
	keyword := p.advance()
	body := p.parseCompoundStatement()

	catchStart := p.offset()
	var catches []R
	for p.at(TokenCatch) {
		clauseStart := p.offset()
		kw := p.advance()
		lparen := p.expect(TokenLParen)
		typ := p.parseType()
		variable := p.expect(TokenVariable)
		rparen := p.expect(TokenRParen)
		catches = append(catches, p.make(KindCatchClause, clauseStart, kw, lparen, typ, variable, rparen, p.parseCompoundStatement()))
	}
	finally := p.missing()
	if p.at(TokenFinally) {
		clauseStart := p.offset()
		kw := p.advance()
		finally = p.make(KindFinallyClause, clauseStart, kw, p.parseCompoundStatement())
	}
	return p.make(KindTryStatement, start, keyword, body, p.list(catches, catchStart), finally)
}

// parseUsingStatement distinguishes `using (a, b) { ... }` from the
// function scoped `using expr;` by looking past the parentheses.
func (p *Parser[R]) parseUsingStatement(start int, await R) R {
	keyword := p.advance()
	if p.at(TokenLParen) {
		if end, ok := p.closingParen(p.pos); ok && p.tokenAt(end).Kind == TokenLBrace {
			lparen := p.advance()
			exprs := p.parseCommaList(p.until(TokenRParen), p.parseExpression)
			rparen := p.expect(TokenRParen)
			body := p.parseCompoundStatement()
			return p.make(KindUsingStatementBlockScoped, start, await, keyword, lparen, exprs, rparen, body)
		}
	}
	expr := p.parseExpression()
	return p.make(KindUsingStatementFunctionScoped, start, await, keyword, expr, p.expectSemicolon())
}
