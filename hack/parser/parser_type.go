package parser

func (p *Parser[R]) parseType() R {
	start := p.offset()
	next := p.peekN(1).Kind

	switch p.peek().Kind {
	case TokenQuestion:
		question := p.advance()
		return p.make(KindNullableTypeSpecifier, start, question, p.parseType())
	case TokenTilde:
		tilde := p.advance()
		return p.make(KindLikeTypeSpecifier, start, tilde, p.parseType())
	case TokenAt:
		at := p.advance()
		return p.make(KindSoftTypeSpecifier, start, at, p.parseType())
	case TokenLessThanLessThan:
		attr := p.parseOldAttributeSpecification()
		return p.make(KindAttributizedSpecifier, start, attr, p.parseType())
	case TokenLParen:
		if next == TokenFunction {
			return p.parseClosureType()
		}
		lparen := p.advance()
		types := p.parseCommaList(p.until(TokenRParen), p.parseType)
		return p.make(KindTupleTypeSpecifier, start, lparen, types, p.expect(TokenRParen))
	case TokenShape:
		if next == TokenLParen {
			return p.parseShapeType()
		}
	case TokenVec:
		if next == TokenLessThan {
			return p.parseSingleArgType(KindVectorTypeSpecifier)
		}
	case TokenKeyset:
		if next == TokenLessThan {
			return p.parseSingleArgType(KindKeysetTypeSpecifier)
		}
	case TokenVarray:
		if next == TokenLessThan {
			return p.parseSingleArgType(KindVarrayTypeSpecifier)
		}
	case TokenClassname:
		if next == TokenLessThan {
			return p.parseSingleArgType(KindClassnameTypeSpecifier)
		}
	case TokenDict:
		if next == TokenLessThan {
			keyword := p.advance()
			langle := p.advance()
			members := p.parseCommaList(p.atGreaterThan, p.parseType)
			return p.make(KindDictionaryTypeSpecifier, start, keyword, langle, members, p.expectGreaterThan())
		}
	case TokenTuple:
		if next == TokenLessThan {
			keyword := p.advance()
			langle := p.advance()
			types := p.parseCommaList(p.atGreaterThan, p.parseType)
			return p.make(KindTupleTypeExplicitSpecifier, start, keyword, langle, types, p.expectGreaterThan())
		}
	case TokenDarray:
		if next == TokenLessThan {
			keyword := p.advance()
			langle := p.advance()
			key := p.parseType()
			comma := p.expect(TokenComma)
			value := p.parseType()
			trailing := p.optional(TokenComma)
			return p.make(KindDarrayTypeSpecifier, start, keyword, langle, key, comma, value, trailing, p.expectGreaterThan())
		}
	case TokenArray:
		if next == TokenLessThan {
			keyword := p.advance()
			langle := p.advance()
			first := p.parseType()
			if !p.at(TokenComma) {
				return p.make(KindVectorArrayTypeSpecifier, start, keyword, langle, first, p.expectGreaterThan())
			}
			comma := p.advance()
			value := p.parseType()
			return p.make(KindMapArrayTypeSpecifier, start, keyword, langle, first, comma, value, p.expectGreaterThan())
		}
	}

	if !p.atTypeName() {
		return p.missingError("expected type")
	}
	var name R
	switch {
	case p.atQualifiedName():
		name = p.parseQualifiedName()
	case p.atAny(TokenSelf, TokenParent, TokenStatic):
		name = p.advance()
	default:
		name = p.advanceAsName()
	}
	var typ R
	if p.at(TokenLessThan) {
		typ = p.make(KindGenericTypeSpecifier, start, name, p.parseTypeArguments())
	} else {
		typ = p.make(KindSimpleTypeSpecifier, start, name)
	}
	for p.at(TokenColonColon) && isMemberName(p.peekN(1)) {
		sep := p.advance()
		typ = p.make(KindTypeConstant, start, typ, sep, p.advanceAsName())
	}
	return typ
}

func (p *Parser[R]) atTypeName() bool {
	if p.atQualifiedName() {
		return true
	}
	switch k := p.peek().Kind; k {
	case TokenSelf, TokenParent, TokenStatic, TokenArray, TokenClassname, TokenShape,
		TokenTuple, TokenVec, TokenDict, TokenKeyset, TokenVarray, TokenDarray:
		return true
	default:
		return softKeywords[k]
	}
}

// parseSingleArgType reads `keyword<T>` with an optional trailing comma.
func (p *Parser[R]) parseSingleArgType(kind SyntaxKind) R {
	start := p.offset()
	keyword := p.advance()
	langle := p.advance()
	typ := p.parseType()
	trailing := p.optional(TokenComma)
	return p.make(kind, start, keyword, langle, typ, trailing, p.expectGreaterThan())
}

func (p *Parser[R]) parseTypeArguments() R {
	start := p.offset()
	langle := p.advance()
	types := p.parseCommaList(p.atGreaterThan, p.parseTypeArgument)
	return p.make(KindTypeArguments, start, langle, types, p.expectGreaterThan())
}

func (p *Parser[R]) parseTypeArgument() R {
	if !p.at(TokenReify) {
		return p.parseType()
	}
	start := p.offset()
	reify := p.advance()
	return p.make(KindReifiedTypeArgument, start, reify, p.parseType())
}

func (p *Parser[R]) parseClosureType() R {
	start := p.offset()
	outerLParen := p.advance()
	keyword := p.advance()
	innerLParen := p.expect(TokenLParen)
	params := p.parseCommaList(p.until(TokenRParen), p.parseClosureParameterType)
	innerRParen := p.expect(TokenRParen)
	colon := p.expect(TokenColon)
	ret := p.parseType()
	outerRParen := p.expect(TokenRParen)
	return p.make(KindClosureTypeSpecifier, start,
		outerLParen, keyword, innerLParen, params, innerRParen, colon, ret, outerRParen)
}

func (p *Parser[R]) parseClosureParameterType() R {
	start := p.offset()
	if p.at(TokenEllipsis) {
		return p.make(KindVariadicParameter, start, p.missing(), p.missing(), p.advance())
	}
	inout := p.optional(TokenInout)
	typ := p.parseType()
	if p.at(TokenEllipsis) {
		return p.make(KindVariadicParameter, start, inout, typ, p.advance())
	}
	return p.make(KindClosureParameterTypeSpecifier, start, inout, typ)
}

func (p *Parser[R]) parseShapeType() R {
	start := p.offset()
	keyword := p.advance()
	lparen := p.advance()
	fieldsStart := p.offset()
	var fields []R
	var ellipsis R
	hasEllipsis := false
	for !p.atEOF() && !p.at(TokenRParen) {
		if p.at(TokenEllipsis) {
			ellipsis = p.advance()
			hasEllipsis = true
			break
		}
		itemStart := p.offset()
		field := p.parseFieldSpecifier()
		if p.at(TokenComma) {
			fields = append(fields, p.make(KindListItem, itemStart, field, p.advance()))
			continue
		}
		fields = append(fields, p.make(KindListItem, itemStart, field, p.missing()))
		break
	}
	list := p.list(fields, fieldsStart)
	if !hasEllipsis {
		ellipsis = p.missing()
	}
	return p.make(KindShapeTypeSpecifier, start, keyword, lparen, list, ellipsis, p.expect(TokenRParen))
}

func (p *Parser[R]) parseFieldSpecifier() R {
	start := p.offset()
	question := p.optional(TokenQuestion)
	name := p.parseExpression()
	arrow := p.expect(TokenEqualGreaterThan)
	return p.make(KindFieldSpecifier, start, question, name, arrow, p.parseType())
}
