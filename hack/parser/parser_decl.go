package parser

// Declarations that may appear at the top level of a file or nested in
// statements: functions, classish types, enums and type aliases.

func (p *Parser[R]) atFunctionDeclaration() bool {
	switch p.peek().Kind {
	case TokenFunction:
		return p.peekN(1).Kind != TokenLParen
	case TokenAsync:
		return p.peekN(1).Kind == TokenFunction && p.peekN(2).Kind != TokenLParen
	}
	return false
}

func (p *Parser[R]) atClassishDeclaration() bool {
	switch p.peek().Kind {
	case TokenAbstract, TokenFinal:
		return true
	case TokenClass, TokenInterface, TokenTrait:
		return p.isDeclName(p.peekN(1))
	}
	return false
}

func (p *Parser[R]) atEnumDeclaration() bool {
	return p.hack && p.at(TokenEnum) && p.isDeclName(p.peekN(1))
}

func (p *Parser[R]) atAliasDeclaration() bool {
	if !p.hack || !p.atAny(TokenType, TokenNewtype) || !p.isDeclName(p.peekN(1)) {
		return false
	}
	switch p.peekN(2).Kind {
	case TokenEqual, TokenLessThan, TokenAs:
		return true
	}
	return false
}

// parseAttributedDeclaration reads attributes and the declaration they
// decorate.
func (p *Parser[R]) parseAttributedDeclaration() R {
	start := p.offset()
	attr := p.parseAttributeSpec()
	switch {
	case p.atFunctionDeclaration():
		return p.parseFunctionDeclaration(start, attr)
	case p.atClassishDeclaration():
		return p.parseClassishDeclaration(start, attr)
	case p.atEnumDeclaration():
		return p.parseEnumDeclaration(start, attr)
	case p.atAliasDeclaration():
		return p.parseAliasDeclaration(start, attr)
	}
	p.report("expected a declaration after attributes")
	return p.make(KindErrorSyntax, start, attr)
}

func (p *Parser[R]) parseFunctionDeclaration(start int, attr R) R {
	headerStart := p.offset()
	modifiers, _ := p.parseModifiers(isFunctionModifier)
	header := p.parseFunctionHeader(headerStart, modifiers)
	var body R
	if p.at(TokenSemicolon) {
		body = p.advance()
	} else {
		body = p.parseCompoundStatement()
	}
	return p.make(KindFunctionDeclaration, start, attr, header, body)
}

func (p *Parser[R]) parseFunctionHeader(start int, modifiers R) R {
	keyword := p.expect(TokenFunction)
	name := p.memberName("function")
	typeParams := p.missing()
	if p.at(TokenLessThan) {
		typeParams = p.parseTypeParameters()
	}
	lparen := p.expect(TokenLParen)
	params := p.parseCommaList(p.until(TokenRParen), p.parseParameter)
	rparen := p.expect(TokenRParen)
	colon, typ := p.parseReturnType()
	where := p.missing()
	if p.at(TokenWhere) {
		where = p.parseWhereClause()
	}
	return p.make(KindFunctionDeclarationHeader, start,
		modifiers, keyword, name, typeParams, lparen, params, rparen, colon, typ, where)
}

func (p *Parser[R]) parseReturnType() (R, R) {
	if !p.at(TokenColon) {
		return p.missing(), p.missing()
	}
	colon := p.advance()
	return colon, p.parseType()
}

func isFunctionModifier(k TokenKind) bool {
	return k == TokenAsync
}

func isClassModifier(k TokenKind) bool {
	return k == TokenAbstract || k == TokenFinal
}

func (p *Parser[R]) isMemberModifier(k TokenKind) bool {
	switch k {
	case TokenPublic, TokenPrivate, TokenProtected, TokenStatic, TokenAbstract, TokenFinal, TokenAsync:
		return true
	case TokenVar:
		return p.env.PHP5CompatMode
	}
	return false
}

// parseModifiers collects a run of modifier keywords into a list.
func (p *Parser[R]) parseModifiers(ok func(TokenKind) bool) (R, int) {
	start := p.offset()
	var mods []R
	for ok(p.peek().Kind) {
		mods = append(mods, p.advance())
	}
	return p.list(mods, start), len(mods)
}

func (p *Parser[R]) parseParameter() R {
	start := p.offset()
	if p.at(TokenEllipsis) && p.peekN(1).Kind != TokenVariable {
		return p.make(KindVariadicParameter, start, p.missing(), p.missing(), p.advance())
	}
	attr := p.missing()
	if p.hack && p.at(TokenLessThanLessThan) {
		attr = p.parseOldAttributeSpecification()
	}
	visibility := p.missing()
	if p.atAny(TokenPublic, TokenPrivate, TokenProtected) {
		visibility = p.advance()
	}
	inout := p.optional(TokenInout)
	typ := p.missing()
	if !p.atAny(TokenVariable, TokenAmpersand, TokenEllipsis) {
		typ = p.parseType()
	}

	var name R
	switch {
	case p.atAny(TokenEllipsis, TokenAmpersand):
		decoStart := p.offset()
		decorator := p.advance()
		name = p.make(KindDecoratedExpression, decoStart, decorator, p.optional(TokenVariable))
	default:
		name = p.expect(TokenVariable)
	}

	def := p.missing()
	if p.at(TokenEqual) {
		def = p.parseSimpleInitializer()
	}
	return p.make(KindParameterDeclaration, start, attr, visibility, inout, typ, name, def)
}

func (p *Parser[R]) parseSimpleInitializer() R {
	start := p.offset()
	equal := p.advance()
	return p.make(KindSimpleInitializer, start, equal, p.parseExpression())
}

func (p *Parser[R]) parseTypeParameters() R {
	start := p.offset()
	langle := p.advance()
	params := p.parseCommaList(p.atGreaterThan, p.parseTypeParameter)
	rangle := p.expectGreaterThan()
	return p.make(KindTypeParameters, start, langle, params, rangle)
}

func (p *Parser[R]) parseTypeParameter() R {
	start := p.offset()
	attr := p.missing()
	if p.hack && p.at(TokenLessThanLessThan) {
		attr = p.parseOldAttributeSpecification()
	}
	reified := p.optional(TokenReify)
	variance := p.missing()
	if p.atAny(TokenPlus, TokenMinus) {
		variance = p.advance()
	}
	name := p.declName("type parameter")
	constraintsStart := p.offset()
	var constraints []R
	for p.atAny(TokenAs, TokenSuper) {
		constraints = append(constraints, p.parseTypeConstraint())
	}
	return p.make(KindTypeParameter, start, attr, reified, variance, name, p.list(constraints, constraintsStart))
}

func (p *Parser[R]) parseTypeConstraint() R {
	start := p.offset()
	keyword := p.advance()
	return p.make(KindTypeConstraint, start, keyword, p.parseType())
}

func (p *Parser[R]) parseWhereClause() R {
	start := p.offset()
	keyword := p.advance()
	constraints := p.parseCommaList(p.until(TokenLBrace, TokenSemicolon, TokenEqualEqualGreaterThan), p.parseWhereConstraint)
	return p.make(KindWhereClause, start, keyword, constraints)
}

func (p *Parser[R]) parseWhereConstraint() R {
	start := p.offset()
	left := p.parseType()
	var op R
	if p.atAny(TokenAs, TokenSuper, TokenEqual) {
		op = p.advance()
	} else {
		op = p.missingError("expected as, super or =")
	}
	return p.make(KindWhereConstraint, start, left, op, p.parseType())
}

func (p *Parser[R]) parseClassishDeclaration(start int, attr R) R {
	modifiers, _ := p.parseModifiers(isClassModifier)
	var keyword R
	if p.atAny(TokenClass, TokenInterface, TokenTrait) {
		keyword = p.advance()
	} else {
		keyword = p.missingError("expected class, interface or trait")
	}
	name := p.declName("class")
	typeParams := p.missing()
	if p.at(TokenLessThan) {
		typeParams = p.parseTypeParameters()
	}

	extendsKeyword, extendsList := p.missing(), p.missing()
	if p.at(TokenExtends) {
		extendsKeyword = p.advance()
		extendsList = p.parseCommaList(p.until(TokenLBrace, TokenImplements, TokenWhere), p.parseType)
	}
	implementsKeyword, implementsList := p.missing(), p.missing()
	if p.at(TokenImplements) {
		implementsKeyword = p.advance()
		implementsList = p.parseCommaList(p.until(TokenLBrace, TokenWhere), p.parseType)
	}
	where := p.missing()
	if p.at(TokenWhere) {
		where = p.parseWhereClause()
	}
	body := p.parseClassishBody()
	return p.make(KindClassishDeclaration, start,
		attr, modifiers, keyword, name, typeParams, extendsKeyword, extendsList, implementsKeyword, implementsList, where, body)
}

func (p *Parser[R]) parseClassishBody() R {
	start := p.offset()
	if !p.at(TokenLBrace) {
		lbrace := p.missingError("expected {")
		return p.make(KindClassishBody, start, lbrace, p.emptyList(), p.missing())
	}
	lbrace := p.advance()
	elemStart := p.offset()
	var elems []R
	for !p.atEOF() && !p.at(TokenRBrace) {
		before := p.pos
		elems = append(elems, p.parseClassElement())
		if p.pos == before {
			elems = append(elems, p.skipError("unexpected token in class body", stopAtMember))
		}
	}
	rbrace := p.expect(TokenRBrace)
	return p.make(KindClassishBody, start, lbrace, p.list(elems, elemStart), rbrace)
}

func (p *Parser[R]) atTypeConstDeclaration() bool {
	i := 0
	if p.at(TokenAbstract) {
		i = 1
	}
	return p.peekN(i).Kind == TokenConst && p.peekN(i+1).Kind == TokenType &&
		p.isDeclName(p.peekN(i+2)) && p.peekN(i+2).Kind != TokenEqual
}

func (p *Parser[R]) parseClassElement() R {
	start := p.offset()
	switch {
	case p.at(TokenUse):
		return p.parseTraitUse()
	case p.at(TokenRequire) && (p.peekN(1).Kind == TokenExtends || p.peekN(1).Kind == TokenImplements):
		return p.parseRequireClause()
	}

	attr := p.missing()
	hasAttr := false
	if p.atAttributeSpec() {
		attr = p.parseAttributeSpec()
		hasAttr = true
	}
	if p.atTypeConstDeclaration() {
		return p.parseTypeConstDeclaration(start, attr)
	}

	headerStart := p.offset()
	modifiers, count := p.parseModifiers(p.isMemberModifier)
	switch {
	case p.at(TokenFunction):
		header := p.parseFunctionHeader(headerStart, modifiers)
		return p.parseMethod(start, attr, header)
	case p.at(TokenConst):
		decl := p.parseConstDeclaration(headerStart, modifiers)
		if hasAttr {
			return p.make(KindErrorSyntax, start, p.list([]R{attr, decl}, start))
		}
		return decl
	case count == 0 && !hasAttr:
		return p.skipError("unexpected token in class body", stopAtMember)
	}
	return p.parsePropertyDeclaration(start, attr, modifiers)
}

func (p *Parser[R]) parseMethod(start int, attr, header R) R {
	if p.at(TokenLBrace) {
		body := p.parseCompoundStatement()
		return p.make(KindMethodishDeclaration, start, attr, header, body, p.missing())
	}
	body := p.missing()
	return p.make(KindMethodishDeclaration, start, attr, header, body, p.expectSemicolon())
}

func (p *Parser[R]) parsePropertyDeclaration(start int, attr, modifiers R) R {
	typ := p.missing()
	if !p.at(TokenVariable) {
		typ = p.parseType()
	}
	declarators := p.parseCommaList(p.until(TokenSemicolon), p.parsePropertyDeclarator)
	semi := p.expectSemicolon()
	return p.make(KindPropertyDeclaration, start, attr, modifiers, typ, declarators, semi)
}

func (p *Parser[R]) parsePropertyDeclarator() R {
	start := p.offset()
	name := p.expect(TokenVariable)
	init := p.missing()
	if p.at(TokenEqual) {
		init = p.parseSimpleInitializer()
	}
	return p.make(KindPropertyDeclarator, start, name, init)
}

// parseConstDeclaration reads `const [type] NAME = value, ...;`. The type
// is present when the token after the next name is not `=`.
func (p *Parser[R]) parseConstDeclaration(start int, modifiers R) R {
	keyword := p.advance()
	typ := p.missing()
	if !(isMemberName(p.peek()) && p.peekN(1).Kind == TokenEqual) &&
		!(isMemberName(p.peek()) && p.peekN(1).Kind == TokenSemicolon) {
		typ = p.parseType()
	}
	declarators := p.parseCommaList(p.until(TokenSemicolon), p.parseConstantDeclarator)
	semi := p.expectSemicolon()
	return p.make(KindConstDeclaration, start, modifiers, keyword, typ, declarators, semi)
}

func (p *Parser[R]) parseConstantDeclarator() R {
	start := p.offset()
	name := p.memberName("constant")
	init := p.missing()
	if p.at(TokenEqual) {
		init = p.parseSimpleInitializer()
	}
	return p.make(KindConstantDeclarator, start, name, init)
}

func (p *Parser[R]) parseTypeConstDeclaration(start int, attr R) R {
	abstract := p.optional(TokenAbstract)
	keyword := p.advance()
	typeKeyword := p.advance()
	name := p.advanceAsName()
	typeParams := p.missing()
	if p.at(TokenLessThan) {
		typeParams = p.parseTypeParameters()
	}
	constraint := p.missing()
	if p.atAny(TokenAs, TokenSuper) {
		constraint = p.parseTypeConstraint()
	}
	equal, typ := p.missing(), p.missing()
	if p.at(TokenEqual) {
		equal = p.advance()
		typ = p.parseType()
	}
	semi := p.expectSemicolon()
	return p.make(KindTypeConstDeclaration, start,
		attr, abstract, keyword, typeKeyword, name, typeParams, constraint, equal, typ, semi)
}

func (p *Parser[R]) parseTraitUse() R {
	start := p.offset()
	keyword := p.advance()
	names := p.parseCommaList(p.until(TokenSemicolon, TokenLBrace), p.parseType)
	if !p.at(TokenLBrace) {
		return p.make(KindTraitUse, start, keyword, names, p.expectSemicolon())
	}
	lbrace := p.advance()
	clausesStart := p.offset()
	var clauses []R
	for !p.atEOF() && !p.at(TokenRBrace) {
		before := p.pos
		itemStart := p.offset()
		item := p.parseTraitUseItem()
		clauses = append(clauses, p.make(KindListItem, itemStart, item, p.expectSemicolon()))
		if p.pos == before {
			clauses = append(clauses, p.skipError("unexpected token in trait use", stopAtMember))
		}
	}
	rbrace := p.expect(TokenRBrace)
	return p.make(KindTraitUseConflictResolution, start, keyword, names, lbrace, p.list(clauses, clausesStart), rbrace)
}

func (p *Parser[R]) parseTraitUseItem() R {
	start := p.offset()
	name := p.parseTraitMemberRef()
	switch {
	case p.at(TokenInsteadof):
		keyword := p.advance()
		removed := p.parseCommaList(p.until(TokenSemicolon), p.parseQualifiedName)
		return p.make(KindTraitUsePrecedenceItem, start, name, keyword, removed)
	case p.at(TokenAs):
		keyword := p.advance()
		modifiers, _ := p.parseModifiers(func(k TokenKind) bool {
			return k == TokenPublic || k == TokenPrivate || k == TokenProtected || k == TokenFinal || k == TokenAbstract
		})
		aliased := p.missing()
		if isMemberName(p.peek()) {
			aliased = p.advanceAsName()
		}
		return p.make(KindTraitUseAliasItem, start, name, keyword, modifiers, aliased)
	}
	p.report("expected insteadof or as")
	return p.make(KindErrorSyntax, start, name)
}

func (p *Parser[R]) parseTraitMemberRef() R {
	start := p.offset()
	name := p.parseQualifiedName()
	if !p.at(TokenColonColon) {
		return name
	}
	op := p.advance()
	return p.make(KindScopeResolutionExpression, start, name, op, p.memberName("method"))
}

func (p *Parser[R]) parseRequireClause() R {
	start := p.offset()
	keyword := p.advance()
	kind := p.advance()
	name := p.parseType()
	return p.make(KindRequireClause, start, keyword, kind, name, p.expectSemicolon())
}

func (p *Parser[R]) parseEnumDeclaration(start int, attr R) R {
	keyword := p.advance()
	name := p.declName("enum")
	colon := p.expect(TokenColon)
	base := p.parseType()
	constraint := p.missing()
	if p.at(TokenAs) {
		constraint = p.parseTypeConstraint()
	}
	lbrace := p.expect(TokenLBrace)
	enumStart := p.offset()
	var enumerators []R
	for !p.atEOF() && !p.at(TokenRBrace) {
		if !isMemberName(p.peek()) {
			enumerators = append(enumerators, p.skipError("expected enumerator", stopAtMember))
			continue
		}
		itemStart := p.offset()
		itemName := p.advanceAsName()
		equal := p.expect(TokenEqual)
		value := p.parseExpression()
		semi := p.expectSemicolon()
		enumerators = append(enumerators, p.make(KindEnumerator, itemStart, itemName, equal, value, semi))
	}
	rbrace := p.expect(TokenRBrace)
	return p.make(KindEnumDeclaration, start,
		attr, keyword, name, colon, base, constraint, lbrace, p.list(enumerators, enumStart), rbrace)
}

func (p *Parser[R]) parseAliasDeclaration(start int, attr R) R {
	keyword := p.advance()
	name := p.declName("type")
	typeParams := p.missing()
	if p.at(TokenLessThan) {
		typeParams = p.parseTypeParameters()
	}
	constraint := p.missing()
	if p.at(TokenAs) {
		constraint = p.parseTypeConstraint()
	}
	equal := p.expect(TokenEqual)
	typ := p.parseType()
	semi := p.expectSemicolon()
	return p.make(KindAliasDeclaration, start, attr, keyword, name, typeParams, constraint, equal, typ, semi)
}
