package facts

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/hhfacts/hack/parser"
)

// decodeLiteral turns a scalar literal token into its value. Strings with
// interpolation, null and anything unparsable report false and are kept as
// source text by the caller.
func decodeLiteral(tok parser.Token) (any, bool) {
	text := tok.Text
	switch tok.Kind {
	case parser.TokenDecimalLiteral, parser.TokenOctalLiteral, parser.TokenHexadecimalLiteral, parser.TokenBinaryLiteral:
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case parser.TokenFloatingLiteral:
		f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case parser.TokenBooleanLiteral:
		return strings.EqualFold(text, "true"), true
	case parser.TokenSingleQuotedString:
		if len(text) < 2 || text[len(text)-1] != '\'' {
			return nil, false
		}
		return unescapeSingle(text[1 : len(text)-1]), true
	case parser.TokenDoubleQuotedString:
		if len(text) < 2 || text[len(text)-1] != '"' {
			return nil, false
		}
		return unescapeDouble(text[1:len(text)-1], true)
	case parser.TokenHeredocString:
		body, ok := heredocBody(text)
		if !ok {
			return nil, false
		}
		return unescapeDouble(body, false)
	case parser.TokenNowdocString:
		return heredocBody(text)
	}
	return nil, false
}

func unescapeSingle(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '\'') {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// unescapeDouble decodes the escapes of a double quoted or heredoc string
// body. It fails on interpolated variables.
func unescapeDouble(s string, quoted bool) (string, bool) {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '$' && i+1 < len(s) && (isNameStart(s[i+1]) || s[i+1] == '{') {
			return "", false
		}
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		next := s[i+1]
		switch next {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'v':
			sb.WriteByte('\v')
		case 'e':
			sb.WriteByte(0x1b)
		case 'f':
			sb.WriteByte('\f')
		case '\\', '$':
			sb.WriteByte(next)
		case '"':
			if !quoted {
				sb.WriteByte('\\')
			}
			sb.WriteByte('"')
		case 'x':
			j := i + 2
			for j < len(s) && j < i+4 && isHex(s[j]) {
				j++
			}
			if j == i+2 {
				sb.WriteString(`\x`)
				break
			}
			n, _ := strconv.ParseUint(s[i+2:j], 16, 8)
			sb.WriteByte(byte(n))
			i = j - 2
		case 'u':
			end := strings.IndexByte(s[i:], '}')
			if i+2 >= len(s) || s[i+2] != '{' || end < 0 {
				sb.WriteString(`\u`)
				break
			}
			n, err := strconv.ParseUint(s[i+3:i+end], 16, 32)
			if err != nil || !utf8.ValidRune(rune(n)) {
				return "", false
			}
			sb.WriteRune(rune(n))
			i += end - 1
		default:
			if next >= '0' && next <= '7' {
				j := i + 1
				for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' {
					j++
				}
				n, _ := strconv.ParseUint(s[i+1:j], 8, 16)
				sb.WriteByte(byte(n))
				i = j - 2
				break
			}
			sb.WriteByte('\\')
			sb.WriteByte(next)
		}
		i++
	}
	return sb.String(), true
}

// heredocBody strips the opening line and the closing marker of a heredoc
// or nowdoc, removing the closing marker's indentation from every line.
func heredocBody(text string) (string, bool) {
	nl := strings.IndexByte(text, '\n')
	if nl < 0 {
		return "", false
	}
	rest := text[nl+1:]
	closing := rest
	body := ""
	if i := strings.LastIndexByte(rest, '\n'); i >= 0 {
		body, closing = rest[:i], rest[i+1:]
	}
	body = strings.TrimSuffix(body, "\r")
	indent := closing[:len(closing)-len(strings.TrimLeft(closing, " \t"))]
	if indent == "" {
		return body, true
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}
	return strings.Join(lines, "\n"), true
}

func isNameStart(c byte) bool {
	return c == '_' || c >= 0x80 || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
