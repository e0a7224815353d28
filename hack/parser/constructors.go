package parser

// Constructors is the construction strategy the grammar engine drives. For
// every production it recognizes the engine calls Make with the production's
// kind, its start offset and exactly kind.Arity() children in grammar order.
// Elided optional children arrive as Missing results and sequences as List
// results, so a strategy always sees the same call shape for a production.
//
// Every token the engine consumes is passed to Token exactly once, in source
// order. Implementations must return a value for every kind.
type Constructors[R any] interface {
	Missing(offset int) R
	Token(tok Token) R
	List(items []R, offset int) R
	Make(kind SyntaxKind, offset int, children []R) R
}

// Recognizer builds nothing. Parsing with it only answers whether a result
// could be produced at all.
type Recognizer struct{}

func (Recognizer) Missing(int) struct{} { return struct{}{} }

func (Recognizer) Token(Token) struct{} { return struct{}{} }

func (Recognizer) List([]struct{}, int) struct{} { return struct{}{} }

func (Recognizer) Make(SyntaxKind, int, []struct{}) struct{} { return struct{}{} }

// Recognize reports whether src can be parsed into some result.
func Recognize(src []byte, opts ...Option) bool {
	_, err := Parse[struct{}](src, Recognizer{}, opts...)
	return err == nil
}
