package facts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dhamidi/hhfacts/hack/parser"
)

// decode reads src permissively: invalid UTF-8 sequences become U+FFFD.
// Offsets reported by the parser refer to the decoded text.
func decode(src []byte) string {
	return strings.ToValidUTF8(string(src), "\uFFFD")
}

// Extract parses src and returns its facts together with the parser's
// diagnostics. It fails only when src cannot be tokenized.
func Extract(src []byte, env parser.Env) (*Facts, []*parser.Error, error) {
	text := decode(src)
	s := newStrategy(text)
	p := parser.New[result]([]byte(text), s, env.Options()...)
	if _, err := p.ParseScript(); err != nil {
		return nil, nil, fmt.Errorf("extract facts: %w", err)
	}
	errs := p.Errors()
	s.facts.HadErrors = s.facts.HadErrors || len(errs) > 0
	s.facts.ContentHash = ContentHash(src)
	return s.facts, errs, nil
}

// FromText returns the facts of src, or an error when src cannot be
// tokenized.
func FromText(src []byte, env parser.Env) (*Facts, error) {
	f, _, err := Extract(src, env)
	return f, err
}

// ExtractAsJSON returns the facts of src as JSON. It reports false when
// no facts could be produced.
func ExtractAsJSON(src []byte, env parser.Env) (string, bool) {
	f, err := FromText(src, env)
	if err != nil {
		return "", false
	}
	data, err := json.Marshal(f)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ParseOnly reports whether src can be parsed at all, building nothing.
func ParseOnly(src []byte, env parser.Env) bool {
	return parser.Recognize([]byte(decode(src)), env.Options()...)
}
