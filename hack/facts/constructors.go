package facts

import (
	"strings"

	"github.com/dhamidi/hhfacts/hack/parser"
)

type tag uint8

const (
	tagNone tag = iota
	tagToken
	tagName
	tagListItem
	tagList
	tagLiteral
	tagAttribute
	tagAttributes
	tagUseClause
	tagTraitUse
	tagRequire
	tagClassBody
	tagTypeParameters
	tagNamespaceBody
)

type declKind uint8

const (
	declType declKind = iota
	declFunction
	declConstant
	declTypeAlias
)

// decl is a qualified declaration waiting to reach the top level of the
// file. Declarations that end up nested in anything else are dropped.
type decl struct {
	kind  declKind
	name  string
	typ   *TypeFacts
	attrs Attributes
	start int
	end   int
}

// result is what the facts strategy builds for every production. Most
// productions only keep their span; the few that matter to declarations
// carry a small payload.
type result struct {
	tag   tag
	start int // -1 when the result covers no token
	end   int
	kind  parser.TokenKind
	text  string
	aux   string
	value any
	items []result
	attrs Attributes
	decls []decl
}

// strategy folds productions into a Facts summary. It owns all state of
// one extraction.
type strategy struct {
	src   string
	ns    namespaceContext
	facts *Facts
}

var _ parser.Constructors[result] = (*strategy)(nil)

func newStrategy(src string) *strategy {
	return &strategy{src: src, facts: New()}
}

func (s *strategy) Missing(int) result {
	return result{start: -1}
}

func (s *strategy) Token(tok parser.Token) result {
	if tok.Kind == parser.TokenError {
		s.facts.HadErrors = true
	}
	return result{tag: tagToken, start: tok.Offset, end: tok.End(), kind: tok.Kind, text: tok.Text}
}

func (s *strategy) List(items []result, _ int) result {
	r := result{tag: tagList}
	r.start, r.end = cover(items)
	for _, it := range items {
		if it.tag != tagNone {
			r.items = append(r.items, it)
		}
		r.decls = append(r.decls, it.decls...)
	}
	return r
}

func (s *strategy) Make(kind parser.SyntaxKind, _ int, c []result) result {
	r := result{}
	r.start, r.end = cover(c)

	switch kind {
	case parser.KindListItem:
		r.tag = tagListItem
		r.items = []result{c[0], c[1]}

	case parser.KindQualifiedName:
		var sb strings.Builder
		for _, part := range c[0].items {
			if part.tag != tagListItem {
				continue
			}
			sb.WriteString(nameOf(part.items[0]))
			if part.items[1].tag == tagToken && part.items[1].kind == parser.TokenBackslash {
				sb.WriteByte('\\')
			}
		}
		r.tag, r.text = tagName, sb.String()

	case parser.KindSimpleTypeSpecifier, parser.KindGenericTypeSpecifier:
		r.tag, r.text = tagName, nameOf(c[0])

	case parser.KindTypeParameter:
		r.tag, r.text = tagName, nameOf(c[3])

	case parser.KindTypeParameters:
		r.tag = tagTypeParameters
		for _, name := range listNames(c[1]) {
			r.items = append(r.items, result{tag: tagName, text: name})
		}

	case parser.KindLiteralExpression:
		if c[0].tag == tagToken {
			if v, ok := decodeLiteral(parser.Token{Kind: c[0].kind, Text: c[0].text}); ok {
				r.tag, r.value = tagLiteral, v
			}
		}

	case parser.KindConstructorCall:
		r.tag, r.text = tagAttribute, nameOf(c[0])
		values := []any{}
		for _, it := range c[2].items {
			values = append(values, s.argumentValue(unwrapItem(it)))
		}
		r.value = values

	case parser.KindAttribute:
		if c[1].tag == tagAttribute {
			r.tag, r.text, r.value = tagAttribute, c[1].text, c[1].value
		}

	case parser.KindOldAttributeSpecification:
		r.tag, r.attrs = tagAttributes, collectAttributes(c[1])

	case parser.KindAttributeSpecification:
		r.tag, r.attrs = tagAttributes, collectAttributes(c[0])

	case parser.KindFileAttributeSpecification:
		attrs := collectAttributes(c[3])
		for pair := attrs.Oldest(); pair != nil; pair = pair.Next() {
			s.facts.FileAttributes.Set(pair.Key, pair.Value)
		}

	case parser.KindNamespaceDeclarationHeader:
		s.ns.enter(nameOf(c[1]))

	case parser.KindNamespaceBody:
		r.tag, r.decls = tagNamespaceBody, c[1].decls

	case parser.KindNamespaceDeclaration:
		r.decls = c[1].decls
		if c[1].tag == tagNamespaceBody {
			s.ns.enter("")
		}

	case parser.KindNamespaceUseClause:
		r.tag, r.text, r.aux = tagUseClause, nameOf(c[1]), nameOf(c[3])
		if c[0].tag == tagToken {
			r.kind = c[0].kind
		}

	case parser.KindNamespaceUseDeclaration:
		s.addUses(c[1], "", c[2])

	case parser.KindNamespaceGroupUseDeclaration:
		prefix := nameOf(c[2])
		if prefix != "" && !strings.HasSuffix(prefix, `\`) {
			prefix += `\`
		}
		s.addUses(c[1], prefix, c[4])

	case parser.KindTraitUse, parser.KindTraitUseConflictResolution:
		r.tag = tagTraitUse
		for _, name := range listNames(c[1]) {
			r.items = append(r.items, result{tag: tagName, text: name})
		}

	case parser.KindRequireClause:
		r.tag, r.text, r.aux = tagRequire, strings.ToLower(c[1].text), nameOf(c[2])

	case parser.KindClassishBody:
		r.tag = tagClassBody
		for _, it := range c[1].items {
			if it.tag == tagTraitUse || it.tag == tagRequire {
				r.items = append(r.items, it)
			}
		}

	case parser.KindClassishDeclaration:
		if d, ok := s.classish(r, c); ok {
			r.decls = []decl{d}
		}

	case parser.KindEnumDeclaration:
		if name := nameOf(c[2]); name != "" {
			typ := NewTypeFacts(TypeKindEnum, attributesOf(c[0]))
			typ.Flags = []Flag{FlagFinal}
			typ.Offset, typ.End = r.start, r.end
			r.decls = []decl{{kind: declType, name: s.ns.declare(name), typ: typ, start: r.start, end: r.end}}
		}

	case parser.KindAliasDeclaration:
		if name := nameOf(c[2]); name != "" {
			r.decls = []decl{{kind: declTypeAlias, name: s.ns.declare(name), attrs: attributesOf(c[0]), start: r.start, end: r.end}}
		}

	case parser.KindFunctionDeclarationHeader:
		r.tag, r.text = tagName, nameOf(c[2])

	case parser.KindFunctionDeclaration:
		if c[1].tag == tagName && c[1].text != "" {
			r.decls = []decl{{kind: declFunction, name: s.ns.declare(c[1].text), attrs: attributesOf(c[0]), start: r.start, end: r.end}}
		}

	case parser.KindConstantDeclarator:
		r.tag, r.text = tagName, nameOf(c[0])

	case parser.KindConstDeclaration:
		for _, it := range c[3].items {
			d := unwrapItem(it)
			if d.tag == tagName && d.text != "" {
				r.decls = append(r.decls, decl{kind: declConstant, name: s.ns.declare(d.text), attrs: NewAttributes(), start: d.start, end: d.end})
			}
		}

	case parser.KindDefineExpression:
		if len(c[2].items) > 0 {
			first := unwrapItem(c[2].items[0])
			if name, ok := first.value.(string); ok && first.tag == tagLiteral && name != "" {
				r.decls = []decl{{kind: declConstant, name: name, attrs: NewAttributes(), start: r.start, end: r.end}}
			}
		}

	case parser.KindExpressionStatement:
		r.decls = c[0].decls

	case parser.KindErrorSyntax:
		s.facts.HadErrors = true

	case parser.KindScript:
		s.commit(c[0].decls)
	}
	return r
}

func (s *strategy) classish(r result, c []result) (decl, bool) {
	var kind TypeKind
	switch c[2].kind {
	case parser.TokenClass:
		kind = TypeKindClass
	case parser.TokenInterface:
		kind = TypeKindInterface
	case parser.TokenTrait:
		kind = TypeKindTrait
	}
	name := nameOf(c[3])
	if c[2].tag != tagToken || kind == "" || name == "" {
		return decl{}, false
	}

	typ := NewTypeFacts(kind, attributesOf(c[0]))
	abstract := kind != TypeKindClass
	final := false
	for _, mod := range c[1].items {
		switch mod.kind {
		case parser.TokenAbstract:
			abstract = true
		case parser.TokenFinal:
			final = true
		}
	}
	if abstract {
		typ.Flags = append(typ.Flags, FlagAbstract)
	}
	if final {
		typ.Flags = append(typ.Flags, FlagFinal)
	}

	if kind != TypeKindTrait {
		typ.BaseTypes = s.resolveAll(listNames(c[6]))
	}
	typ.Interfaces = s.resolveAll(listNames(c[8]))
	for _, p := range c[4].items {
		typ.TypeParameters = append(typ.TypeParameters, p.text)
	}
	for _, el := range c[10].items {
		switch {
		case el.tag == tagTraitUse:
			for _, t := range el.items {
				typ.Traits = appendResolved(typ.Traits, s.ns.resolveType(t.text))
			}
		case el.tag == tagRequire && el.text == "extends":
			typ.RequireExtends = appendResolved(typ.RequireExtends, s.ns.resolveType(el.aux))
		case el.tag == tagRequire && el.text == "implements":
			typ.RequireImplements = appendResolved(typ.RequireImplements, s.ns.resolveType(el.aux))
		}
	}
	typ.Offset, typ.End = r.start, r.end
	return decl{kind: declType, name: s.ns.declare(name), typ: typ, start: r.start, end: r.end}, true
}

func (s *strategy) resolveAll(names []string) []string {
	out := []string{}
	for _, name := range names {
		out = appendResolved(out, s.ns.resolveType(name))
	}
	return out
}

func appendResolved(list []string, name string) []string {
	if name == "" {
		return list
	}
	return append(list, name)
}

// addUses registers the clauses of a use declaration. A kind written on a
// clause overrides the kind of the declaration.
func (s *strategy) addUses(keyword result, prefix string, clauses result) {
	for _, it := range clauses.items {
		clause := unwrapItem(it)
		if clause.tag != tagUseClause {
			continue
		}
		kind := useKindOf(keyword.kind)
		if clause.kind != 0 {
			kind = useKindOf(clause.kind)
		}
		s.ns.addUse(kind, prefix+strings.TrimPrefix(clause.text, `\`), clause.aux)
	}
}

func useKindOf(k parser.TokenKind) useKind {
	switch k {
	case parser.TokenFunction:
		return useFunction
	case parser.TokenConst:
		return useConst
	}
	return useClass
}

func (s *strategy) argumentValue(arg result) any {
	if arg.tag == tagLiteral {
		return arg.value
	}
	if arg.start < 0 {
		return ""
	}
	return s.src[arg.start:arg.end]
}

// commit records the top-level declarations in source order. A repeated
// name keeps its first position and takes the later declaration's facts.
func (s *strategy) commit(decls []decl) {
	index := [4]map[string]int{{}, {}, {}, {}}
	lists := [4]*[]Symbol{nil, &s.facts.Functions, &s.facts.Constants, &s.facts.TypeAliases}
	for _, d := range decls {
		if d.kind == declType {
			s.facts.Types.Set(d.name, d.typ)
			continue
		}
		list := lists[d.kind]
		sym := Symbol{Name: d.name, Attributes: d.attrs, Offset: d.start, End: d.end}
		if i, ok := index[d.kind][d.name]; ok {
			(*list)[i] = sym
			continue
		}
		index[d.kind][d.name] = len(*list)
		*list = append(*list, sym)
	}
}

// nameOf reads the name carried by a token or a name production. Keywords
// count as names: soft keywords may name declarations.
func nameOf(r result) string {
	switch r.tag {
	case tagToken:
		if r.kind == parser.TokenName || r.kind.IsKeyword() {
			return r.text
		}
	case tagName:
		return r.text
	}
	return ""
}

func unwrapItem(r result) result {
	if r.tag == tagListItem {
		return r.items[0]
	}
	return r
}

// listNames returns the names of a comma separated list, skipping entries
// that are not names.
func listNames(list result) []string {
	var names []string
	for _, it := range list.items {
		if name := nameOf(unwrapItem(it)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func collectAttributes(list result) Attributes {
	attrs := NewAttributes()
	for _, it := range list.items {
		a := unwrapItem(it)
		if a.tag != tagAttribute || a.text == "" {
			continue
		}
		values, _ := a.value.([]any)
		if values == nil {
			values = []any{}
		}
		attrs.Set(a.text, values)
	}
	return attrs
}

func attributesOf(r result) Attributes {
	if r.tag == tagAttributes && r.attrs != nil {
		return r.attrs
	}
	return NewAttributes()
}

// cover is the byte span from the first to the last token under children.
func cover(children []result) (int, int) {
	start, end := -1, -1
	for _, c := range children {
		if c.start < 0 {
			continue
		}
		if start < 0 {
			start = c.start
		}
		end = c.end
	}
	return start, end
}
