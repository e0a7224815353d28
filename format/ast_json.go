package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/hhfacts/hack/parser"
	"github.com/dhamidi/hhfacts/hack/syntax"
)

// SyntaxJSONEncoder dumps a full-fidelity tree. Spans cover the node's
// text including trivia; token text excludes it.
type SyntaxJSONEncoder struct {
	w     io.Writer
	lines *syntax.LineIndex
}

func NewSyntaxJSONEncoder(w io.Writer, src string) *SyntaxJSONEncoder {
	return &SyntaxJSONEncoder{w: w, lines: syntax.NewLineIndex(src)}
}

func (e *SyntaxJSONEncoder) Encode(node *syntax.Node, errs []*parser.Error) error {
	text, err := e.MarshalText(node, errs)
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *SyntaxJSONEncoder) MarshalText(node *syntax.Node, errs []*parser.Error) ([]byte, error) {
	doc := syntaxJSONDocument{Root: e.nodeToJSON(node, "")}
	for _, err := range errs {
		doc.Errors = append(doc.Errors, syntaxJSONError{
			Message:  err.Message,
			Position: e.position(err.Offset),
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

type syntaxJSONDocument struct {
	Root   *syntaxJSONNode   `json:"root"`
	Errors []syntaxJSONError `json:"errors,omitempty"`
}

type syntaxJSONNode struct {
	Kind     string            `json:"kind"`
	Field    string            `json:"field,omitempty"`
	Span     *syntaxJSONSpan   `json:"span,omitempty"`
	Token    string            `json:"token,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []*syntaxJSONNode `json:"children,omitempty"`
}

type syntaxJSONSpan struct {
	Start syntaxJSONPosition `json:"start"`
	End   syntaxJSONPosition `json:"end"`
}

type syntaxJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type syntaxJSONError struct {
	Message  string             `json:"message"`
	Position syntaxJSONPosition `json:"position"`
}

func (e *SyntaxJSONEncoder) position(offset int) syntaxJSONPosition {
	p := e.lines.Position(offset)
	return syntaxJSONPosition{Line: p.Line + 1, Column: p.Column + 1}
}

func (e *SyntaxJSONEncoder) nodeToJSON(n *syntax.Node, field string) *syntaxJSONNode {
	jn := &syntaxJSONNode{
		Kind:  n.Kind.String(),
		Field: field,
	}

	if n.Width > 0 {
		jn.Span = &syntaxJSONSpan{
			Start: e.position(n.Offset),
			End:   e.position(n.End()),
		}
	}

	if n.Token != nil {
		jn.Token = n.Token.Kind.String()
		jn.Text = n.Token.Text
	}

	if len(n.Children) > 0 {
		fields := n.Kind.Fields()
		jn.Children = make([]*syntaxJSONNode, len(n.Children))
		for i, child := range n.Children {
			name := ""
			if i < len(fields) {
				name = fields[i]
			}
			jn.Children[i] = e.nodeToJSON(child, name)
		}
	}

	return jn
}
