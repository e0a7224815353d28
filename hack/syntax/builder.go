package syntax

import "github.com/dhamidi/hhfacts/hack/parser"

// Builder keeps every result the grammar engine reports, producing a tree
// whose leaves are exactly the tokens of the input.
type Builder struct{}

var _ parser.Constructors[*Node] = Builder{}

func (Builder) Missing(offset int) *Node {
	return &Node{Kind: parser.KindMissing, Offset: offset}
}

func (Builder) Token(tok parser.Token) *Node {
	return &Node{
		Kind:   parser.KindToken,
		Offset: tok.FullOffset(),
		Width:  tok.FullWidth(),
		Token:  &tok,
	}
}

func (Builder) List(items []*Node, offset int) *Node {
	return inner(parser.KindSyntaxList, offset, items)
}

func (Builder) Make(kind parser.SyntaxKind, offset int, children []*Node) *Node {
	return inner(kind, offset, children)
}

func inner(kind parser.SyntaxKind, offset int, children []*Node) *Node {
	n := &Node{Kind: kind, Offset: offset, Children: children}
	for _, child := range children {
		n.Width += child.Width
	}
	return n
}

// Parse builds the full-fidelity tree of src. Diagnostics are returned
// alongside the tree; the error is only set when src cannot be tokenized.
func Parse(src []byte, opts ...parser.Option) (*Node, []*parser.Error, error) {
	p := parser.New[*Node](src, Builder{}, opts...)
	root, err := p.ParseScript()
	if err != nil {
		return nil, nil, err
	}
	return root, p.Errors(), nil
}
