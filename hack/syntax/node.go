package syntax

import (
	"strings"

	"github.com/dhamidi/hhfacts/hack/parser"
)

// Node is one element of a full-fidelity syntax tree. Leaves carry the
// token they were built from; missing nodes have zero width.
type Node struct {
	Kind parser.SyntaxKind
	// Offset is where the node's first leading trivia begins.
	Offset   int
	Width    int
	Children []*Node
	Token    *parser.Token
}

func (n *Node) IsMissing() bool {
	return n == nil || n.Kind == parser.KindMissing
}

func (n *Node) IsToken() bool {
	return n != nil && n.Kind == parser.KindToken
}

func (n *Node) IsList() bool {
	return n != nil && n.Kind == parser.KindSyntaxList
}

func (n *Node) IsError() bool {
	return n != nil && n.Kind == parser.KindErrorSyntax
}

func (n *Node) End() int {
	return n.Offset + n.Width
}

// Field returns the child stored under the named field of the node's kind,
// or nil when the kind has no such field.
func (n *Node) Field(name string) *Node {
	for i, f := range n.Kind.Fields() {
		if f == name && i < len(n.Children) {
			return n.Children[i]
		}
	}
	return nil
}

func (n *Node) FirstChildOfKind(kind parser.SyntaxKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind parser.SyntaxKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the node just visited.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Text reproduces the source the node was built from, trivia included.
func (n *Node) Text() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.Token != nil {
		sb.WriteString(n.Token.FullText())
		return
	}
	for _, child := range n.Children {
		child.writeText(sb)
	}
}

// TokenText is the token's text without trivia, or "" for inner nodes.
func (n *Node) TokenText() string {
	if n != nil && n.Token != nil {
		return n.Token.Text
	}
	return ""
}

// Tokens returns the leaves of n in source order.
func (n *Node) Tokens() []parser.Token {
	var tokens []parser.Token
	n.Walk(func(c *Node) bool {
		if c.Token != nil {
			tokens = append(tokens, *c.Token)
		}
		return true
	})
	return tokens
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, "")
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, field string) {
	sb.WriteString(strings.Repeat("  ", indent))
	if field != "" {
		sb.WriteString(field)
		sb.WriteString(": ")
	}
	switch {
	case n.Token != nil:
		sb.WriteString(n.Token.Kind.String())
		sb.WriteString(" ")
		sb.WriteString(n.Token.Text)
	default:
		sb.WriteString(n.Kind.String())
	}
	sb.WriteString("\n")

	fields := n.Kind.Fields()
	for i, child := range n.Children {
		name := ""
		if i < len(fields) {
			name = fields[i]
		}
		child.writeIndent(sb, indent+1, name)
	}
}
