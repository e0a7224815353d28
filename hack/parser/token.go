package parser

import "strings"

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenMarkup

	// Names and variables
	TokenName
	TokenVariable
	TokenDollarDollar
	TokenDollar

	// Literals
	TokenDecimalLiteral
	TokenOctalLiteral
	TokenHexadecimalLiteral
	TokenBinaryLiteral
	TokenFloatingLiteral
	TokenSingleQuotedString
	TokenDoubleQuotedString
	TokenHeredocString
	TokenNowdocString
	TokenBooleanLiteral
	TokenNullLiteral

	// Keywords
	TokenAbstract
	TokenAnd
	TokenArray
	TokenAs
	TokenAsync
	TokenAwait
	TokenBreak
	TokenCase
	TokenCatch
	TokenClass
	TokenClassname
	TokenClone
	TokenConcurrent
	TokenConst
	TokenContinue
	TokenDarray
	TokenDefault
	TokenDefine
	TokenDict
	TokenDo
	TokenEcho
	TokenElse
	TokenElseif
	TokenEnum
	TokenEval
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFor
	TokenForeach
	TokenFunction
	TokenGoto
	TokenHaltCompiler
	TokenIf
	TokenImplements
	TokenInclude
	TokenIncludeOnce
	TokenInout
	TokenInstanceof
	TokenInsteadof
	TokenInterface
	TokenIs
	TokenIsset
	TokenKeyset
	TokenList
	TokenNamespace
	TokenNew
	TokenNewtype
	TokenOr
	TokenParent
	TokenPrint
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReify
	TokenRequire
	TokenRequireOnce
	TokenReturn
	TokenSelf
	TokenShape
	TokenStatic
	TokenSuper
	TokenSwitch
	TokenThrow
	TokenTrait
	TokenTry
	TokenTuple
	TokenType
	TokenUnset
	TokenUse
	TokenUsing
	TokenVar
	TokenVarray
	TokenVec
	TokenWhere
	TokenWhile
	TokenXor
	TokenYield

	// Punctuation and operators
	TokenLessThanQuestion
	TokenQuestionGreaterThan
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenSemicolon
	TokenColon
	TokenColonColon
	TokenBackslash
	TokenDot
	TokenDotEqual
	TokenEllipsis
	TokenMinusGreaterThan
	TokenQuestionMinusGreaterThan
	TokenEqualGreaterThan
	TokenEqualEqualGreaterThan
	TokenBarGreaterThan
	TokenQuestion
	TokenQuestionQuestion
	TokenQuestionQuestionEqual
	TokenQuestionAs
	TokenAt
	TokenTilde
	TokenExclamation
	TokenExclamationEqual
	TokenExclamationEqualEqual
	TokenLessThan
	TokenLessThanEqual
	TokenLessThanEqualGreaterThan
	TokenLessThanGreaterThan
	TokenLessThanLessThan
	TokenLessThanLessThanEqual
	TokenGreaterThan
	TokenGreaterThanEqual
	TokenGreaterThanGreaterThan
	TokenGreaterThanGreaterThanEqual
	TokenEqual
	TokenEqualEqual
	TokenEqualEqualEqual
	TokenPlus
	TokenPlusEqual
	TokenPlusPlus
	TokenMinus
	TokenMinusEqual
	TokenMinusMinus
	TokenStar
	TokenStarEqual
	TokenStarStar
	TokenStarStarEqual
	TokenSlash
	TokenSlashEqual
	TokenPercent
	TokenPercentEqual
	TokenAmpersand
	TokenAmpersandEqual
	TokenAmpersandAmpersand
	TokenBar
	TokenBarEqual
	TokenBarBar
	TokenCaret
	TokenCaretEqual
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:                "EndOfFile",
	TokenError:              "Error",
	TokenMarkup:             "Markup",
	TokenName:               "Name",
	TokenVariable:           "Variable",
	TokenDollarDollar:       "$$",
	TokenDollar:             "$",
	TokenDecimalLiteral:     "DecimalLiteral",
	TokenOctalLiteral:       "OctalLiteral",
	TokenHexadecimalLiteral: "HexadecimalLiteral",
	TokenBinaryLiteral:      "BinaryLiteral",
	TokenFloatingLiteral:    "FloatingLiteral",
	TokenSingleQuotedString: "SingleQuotedStringLiteral",
	TokenDoubleQuotedString: "DoubleQuotedStringLiteral",
	TokenHeredocString:      "HeredocStringLiteral",
	TokenNowdocString:       "NowdocStringLiteral",
	TokenBooleanLiteral:     "BooleanLiteral",
	TokenNullLiteral:        "NullLiteral",

	TokenLessThanQuestion:            "<?",
	TokenQuestionGreaterThan:         "?>",
	TokenLParen:                      "(",
	TokenRParen:                      ")",
	TokenLBracket:                    "[",
	TokenRBracket:                    "]",
	TokenLBrace:                      "{",
	TokenRBrace:                      "}",
	TokenComma:                       ",",
	TokenSemicolon:                   ";",
	TokenColon:                       ":",
	TokenColonColon:                  "::",
	TokenBackslash:                   "\\",
	TokenDot:                         ".",
	TokenDotEqual:                    ".=",
	TokenEllipsis:                    "...",
	TokenMinusGreaterThan:            "->",
	TokenQuestionMinusGreaterThan:    "?->",
	TokenEqualGreaterThan:            "=>",
	TokenEqualEqualGreaterThan:       "==>",
	TokenBarGreaterThan:              "|>",
	TokenQuestion:                    "?",
	TokenQuestionQuestion:            "??",
	TokenQuestionQuestionEqual:       "??=",
	TokenQuestionAs:                  "?as",
	TokenAt:                          "@",
	TokenTilde:                       "~",
	TokenExclamation:                 "!",
	TokenExclamationEqual:            "!=",
	TokenExclamationEqualEqual:       "!==",
	TokenLessThan:                    "<",
	TokenLessThanEqual:               "<=",
	TokenLessThanEqualGreaterThan:    "<=>",
	TokenLessThanGreaterThan:         "<>",
	TokenLessThanLessThan:            "<<",
	TokenLessThanLessThanEqual:       "<<=",
	TokenGreaterThan:                 ">",
	TokenGreaterThanEqual:            ">=",
	TokenGreaterThanGreaterThan:      ">>",
	TokenGreaterThanGreaterThanEqual: ">>=",
	TokenEqual:                       "=",
	TokenEqualEqual:                  "==",
	TokenEqualEqualEqual:             "===",
	TokenPlus:                        "+",
	TokenPlusEqual:                   "+=",
	TokenPlusPlus:                    "++",
	TokenMinus:                       "-",
	TokenMinusEqual:                  "-=",
	TokenMinusMinus:                  "--",
	TokenStar:                        "*",
	TokenStarEqual:                   "*=",
	TokenStarStar:                    "**",
	TokenStarStarEqual:               "**=",
	TokenSlash:                       "/",
	TokenSlashEqual:                  "/=",
	TokenPercent:                     "%",
	TokenPercentEqual:                "%=",
	TokenAmpersand:                   "&",
	TokenAmpersandEqual:              "&=",
	TokenAmpersandAmpersand:          "&&",
	TokenBar:                         "|",
	TokenBarEqual:                    "|=",
	TokenBarBar:                      "||",
	TokenCaret:                       "^",
	TokenCaretEqual:                  "^=",
}

func init() {
	for text, kind := range keywords {
		tokenKindNames[kind] = text
	}
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsKeyword reports whether k is a reserved or contextual keyword.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenAbstract && k <= TokenYield
}

// IsLiteral reports whether k is a scalar literal token.
func (k TokenKind) IsLiteral() bool {
	return k >= TokenDecimalLiteral && k <= TokenNullLiteral
}

type TriviaKind int

const (
	TriviaWhitespace TriviaKind = iota
	TriviaEndOfLine
	TriviaSingleLineComment
	TriviaDelimitedComment
	TriviaFixMe
	TriviaAfterHaltCompiler
)

var triviaKindNames = map[TriviaKind]string{
	TriviaWhitespace:        "whitespace",
	TriviaEndOfLine:         "end_of_line",
	TriviaSingleLineComment: "single_line_comment",
	TriviaDelimitedComment:  "delimited_comment",
	TriviaFixMe:             "fix_me",
	TriviaAfterHaltCompiler: "after_halt_compiler",
}

func (k TriviaKind) String() string {
	if name, ok := triviaKindNames[k]; ok {
		return name
	}
	return "unknown"
}

type Trivia struct {
	Kind TriviaKind
	Text string
}

// Token is a lexeme together with the trivia attached to it. Offset is the
// byte offset of Text; leading trivia sits immediately before it and
// trailing trivia immediately after.
type Token struct {
	Kind     TokenKind
	Offset   int
	Text     string
	Leading  []Trivia
	Trailing []Trivia
}

func (t Token) Width() int { return len(t.Text) }

func (t Token) End() int { return t.Offset + len(t.Text) }

func (t Token) LeadingWidth() int { return triviaWidth(t.Leading) }

func (t Token) TrailingWidth() int { return triviaWidth(t.Trailing) }

func (t Token) FullOffset() int { return t.Offset - t.LeadingWidth() }

func (t Token) FullWidth() int { return t.LeadingWidth() + len(t.Text) + t.TrailingWidth() }

// FullText returns the token text with its trivia.
func (t Token) FullText() string {
	var sb strings.Builder
	for _, tr := range t.Leading {
		sb.WriteString(tr.Text)
	}
	sb.WriteString(t.Text)
	for _, tr := range t.Trailing {
		sb.WriteString(tr.Text)
	}
	return sb.String()
}

func triviaWidth(ts []Trivia) int {
	n := 0
	for _, tr := range ts {
		n += len(tr.Text)
	}
	return n
}

var keywords = map[string]TokenKind{
	"abstract":        TokenAbstract,
	"and":             TokenAnd,
	"array":           TokenArray,
	"as":              TokenAs,
	"async":           TokenAsync,
	"await":           TokenAwait,
	"break":           TokenBreak,
	"case":            TokenCase,
	"catch":           TokenCatch,
	"class":           TokenClass,
	"classname":       TokenClassname,
	"clone":           TokenClone,
	"concurrent":      TokenConcurrent,
	"const":           TokenConst,
	"continue":        TokenContinue,
	"darray":          TokenDarray,
	"default":         TokenDefault,
	"define":          TokenDefine,
	"dict":            TokenDict,
	"do":              TokenDo,
	"echo":            TokenEcho,
	"else":            TokenElse,
	"elseif":          TokenElseif,
	"enum":            TokenEnum,
	"eval":            TokenEval,
	"extends":         TokenExtends,
	"final":           TokenFinal,
	"finally":         TokenFinally,
	"for":             TokenFor,
	"foreach":         TokenForeach,
	"function":        TokenFunction,
	"goto":            TokenGoto,
	"__halt_compiler": TokenHaltCompiler,
	"if":              TokenIf,
	"implements":      TokenImplements,
	"include":         TokenInclude,
	"include_once":    TokenIncludeOnce,
	"inout":           TokenInout,
	"instanceof":      TokenInstanceof,
	"insteadof":       TokenInsteadof,
	"interface":       TokenInterface,
	"is":              TokenIs,
	"isset":           TokenIsset,
	"keyset":          TokenKeyset,
	"list":            TokenList,
	"namespace":       TokenNamespace,
	"new":             TokenNew,
	"newtype":         TokenNewtype,
	"or":              TokenOr,
	"parent":          TokenParent,
	"print":           TokenPrint,
	"private":         TokenPrivate,
	"protected":       TokenProtected,
	"public":          TokenPublic,
	"reify":           TokenReify,
	"require":         TokenRequire,
	"require_once":    TokenRequireOnce,
	"return":          TokenReturn,
	"self":            TokenSelf,
	"shape":           TokenShape,
	"static":          TokenStatic,
	"super":           TokenSuper,
	"switch":          TokenSwitch,
	"throw":           TokenThrow,
	"trait":           TokenTrait,
	"try":             TokenTry,
	"tuple":           TokenTuple,
	"type":            TokenType,
	"unset":           TokenUnset,
	"use":             TokenUse,
	"using":           TokenUsing,
	"var":             TokenVar,
	"varray":          TokenVarray,
	"vec":             TokenVec,
	"where":           TokenWhere,
	"while":           TokenWhile,
	"xor":             TokenXor,
	"yield":           TokenYield,
}

// LookupKeyword maps an identifier to its keyword kind. When caseInsensitive
// is set the match ignores case, as older dialects of the language do.
// true, false and null are reported as literal kinds.
func LookupKeyword(ident string, caseInsensitive bool) TokenKind {
	key := ident
	if caseInsensitive {
		key = strings.ToLower(ident)
	}
	switch strings.ToLower(key) {
	case "true", "false":
		return TokenBooleanLiteral
	case "null":
		return TokenNullLiteral
	case "__halt_compiler":
		// Phar stubs spell it in upper case.
		return TokenHaltCompiler
	}
	if kind, ok := keywords[key]; ok {
		return kind
	}
	return TokenName
}
