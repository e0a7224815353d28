package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// node is what the recording strategy builds: a bare tree that keeps
// every call it received.
type node struct {
	kind SyntaxKind
	tok  *Token
	kids []*node
}

type recorder struct {
	tokens []Token
}

func (r *recorder) Missing(int) *node { return &node{kind: KindMissing} }

func (r *recorder) Token(tok Token) *node {
	r.tokens = append(r.tokens, tok)
	return &node{kind: KindToken, tok: &tok}
}

func (r *recorder) List(items []*node, _ int) *node {
	return &node{kind: KindSyntaxList, kids: items}
}

func (r *recorder) Make(kind SyntaxKind, _ int, children []*node) *node {
	if len(children) != kind.Arity() {
		panic(fmt.Sprintf("%s made with %d children", kind, len(children)))
	}
	return &node{kind: kind, kids: children}
}

func (n *node) findAll(kind SyntaxKind) []*node {
	var out []*node
	var walk func(*node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		if n.kind == kind {
			out = append(out, n)
		}
		for _, k := range n.kids {
			walk(k)
		}
	}
	walk(n)
	return out
}

func parse(t *testing.T, src string, opts ...Option) (*node, *recorder, []*Error) {
	t.Helper()
	r := &recorder{}
	p := New[*node]([]byte(src), r, opts...)
	root, err := p.ParseScript()
	if err != nil {
		t.Fatalf("ParseScript failed: %v", err)
	}
	var sb strings.Builder
	for _, tok := range r.tokens {
		sb.WriteString(tok.FullText())
	}
	if sb.String() != src {
		t.Errorf("tokens passed to the strategy spell %q, want %q", sb.String(), src)
	}
	if n := len(r.tokens); n == 0 || r.tokens[n-1].Kind != TokenEOF {
		t.Errorf("last token passed to the strategy is not end of file")
	}
	return root, r, p.Errors()
}

// topLevel returns the declarations of a script without the leading markup
// and the end-of-file marker.
func topLevel(root *node) []SyntaxKind {
	var kinds []SyntaxKind
	for _, item := range root.kids[0].kids {
		if item.kind == KindMarkupSection || item.kind == KindEndOfFile {
			continue
		}
		kinds = append(kinds, item.kind)
	}
	return kinds
}

const sampleFile = `<?hh // strict

namespace App\Models;

use namespace HH\Lib\{C, Vec};
use type App\Contracts\Repository as Repo;
use function App\Util\helper;

<<file: __EnableUnstableFeatures('enum_atom')>>

const int MAX = 10;

<<__Sealed(Admin::class)>>
abstract class User<T as arraykey> extends Base implements Repo<T>, \Countable {
  use Greets, Walks {
    Greets::hello insteadof Walks;
    Walks::hello as protected walkHello;
  }
  require extends Base;

  const string TABLE = 'users';
  abstract const type TKey as arraykey;
  private ?vec<int> $ids = null;
  public static dict<string, shape('a' => int, ?'b' => string, ...)> $cache = dict[];

  <<__Memoize>>
  public async function load(int $id, string ...$rest): Awaitable<?this> {
    $f = ($x, $y): int ==> $x + $y;
    $g = async $z ==> await $z;
    $list = Vec\map($this->ids ?? vec[], $i ==> $i * 2);
    foreach ($list as $k => $v) {
      if ($v is int && $k > 0) {
        continue;
      } else if ($v === null) {
        break;
      } elseif (true) {
        echo "x", 'y';
      }
    }
    try {
      $obj = new Foo<int>(1, 2);
      $h = helper<int>($obj);
    } catch (\Exception $e) {
      throw $e;
    } finally {
      return null;
    }
  }

  abstract protected function name(): string;
}

enum Status: int as int {
  ACTIVE = 1;
  INACTIVE = 2;
}

type Point = shape('x' => int, 'y' => int);
newtype Id<T> as int = int;

interface Countable2 {}
trait Greets {}

function main(): void {
  $x = (int)'5';
  $y = $x |> $$ + 1;
  switch ($y) {
    case 1:
    case 2:
      echo 'low';
      break;
    default:
      echo 'high';
  }
  $m = Map {'a' => 1};
  list($a, $b) = tuple(1, 2);
  $s = $x as int;
  $t = $x ?as int;
  while ($x-- > 0) {}
  do { $x++; } while ($x < 3);
  for ($i = 0; $i < 3; $i++) {}
}
`

func TestParseValidFile(t *testing.T) {
	root, _, errs := parse(t, sampleFile)
	for _, err := range errs {
		t.Errorf("unexpected error: %v", err)
	}

	counts := []struct {
		kind SyntaxKind
		want int
	}{
		{KindClassishDeclaration, 3},
		{KindEnumDeclaration, 1},
		{KindEnumerator, 2},
		{KindAliasDeclaration, 2},
		{KindFunctionDeclaration, 1},
		{KindMethodishDeclaration, 2},
		{KindLambdaExpression, 3},
		{KindFileAttributeSpecification, 1},
		{KindTraitUseConflictResolution, 1},
		{KindTypeConstDeclaration, 1},
		{KindPropertyDeclaration, 2},
		{KindErrorSyntax, 0},
	}
	for _, c := range counts {
		if got := len(root.findAll(c.kind)); got != c.want {
			t.Errorf("found %d %s nodes, want %d", got, c.kind, c.want)
		}
	}
}

func TestParseTopLevel(t *testing.T) {
	tests := []struct {
		input string
		want  []SyntaxKind
	}{
		{"<?hh\nclass A {}", []SyntaxKind{KindClassishDeclaration}},
		{"<?hh\nfinal class A {}", []SyntaxKind{KindClassishDeclaration}},
		{"<?hh\nfunction f(): void {}", []SyntaxKind{KindFunctionDeclaration}},
		{"<?hh\nasync function f(): Awaitable<void> {}", []SyntaxKind{KindFunctionDeclaration}},
		{"<?hh\nnamespace N;", []SyntaxKind{KindNamespaceDeclaration}},
		{"<?hh\nnamespace N { class A {} }", []SyntaxKind{KindNamespaceDeclaration}},
		{"<?hh\nnamespace { }", []SyntaxKind{KindNamespaceDeclaration}},
		{"<?hh\nuse A\\B;", []SyntaxKind{KindNamespaceUseDeclaration}},
		{"<?hh\nuse A\\{B, C as D};", []SyntaxKind{KindNamespaceGroupUseDeclaration}},
		{"<?hh\nconst X = 1;", []SyntaxKind{KindConstDeclaration}},
		{"<?hh\ntype T = int;", []SyntaxKind{KindAliasDeclaration}},
		{"<?hh\nenum E: int {}", []SyntaxKind{KindEnumDeclaration}},
		{"<?hh\n<<file: A>>", []SyntaxKind{KindFileAttributeSpecification}},
		{"<?hh\ndefine('X', 1);", []SyntaxKind{KindExpressionStatement}},
		{"<?hh\n@Foo class A {}", []SyntaxKind{KindClassishDeclaration}},
		{"<?hh\n@Foo(1) @Bar function f() {}", []SyntaxKind{KindFunctionDeclaration}},
		{"<?hh\nrequire_once 'a.php';", []SyntaxKind{KindInclusionDirective}},
		{"class A {}", []SyntaxKind{KindClassishDeclaration}},
		{"<?hh\n", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, _, errs := parse(t, tt.input)
			if len(errs) > 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
			got := topLevel(root)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("top level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input string
		kind  SyntaxKind
	}{
		{"$x", KindVariableExpression},
		{"$$", KindPipeVariableExpression},
		{"42", KindLiteralExpression},
		{`"str"`, KindLiteralExpression},
		{"$x + 1", KindBinaryExpression},
		{"$x = $y = 1", KindBinaryExpression},
		{"$a ? $b : $c", KindConditionalExpression},
		{"$a ?: $c", KindConditionalExpression},
		{"$x is int", KindIsExpression},
		{"$x as int", KindAsExpression},
		{"$x ?as int", KindNullableAsExpression},
		{"f<int>(1)", KindFunctionCallExpression},
		{"f(1, inout $x, ...$rest)", KindFunctionCallExpression},
		{"$a < $b", KindBinaryExpression},
		{"new Foo()", KindObjectCreationExpression},
		{"new class {}", KindObjectCreationExpression},
		{"$x ==> $x", KindLambdaExpression},
		{"($x) ==> $x", KindLambdaExpression},
		{"async { }", KindAwaitableCreationExpression},
		{"(int)$x", KindCastExpression},
		{"$x->y", KindMemberSelectionExpression},
		{"$x?->y", KindSafeMemberSelectionExpression},
		{"A::B", KindScopeResolutionExpression},
		{"A::class", KindScopeResolutionExpression},
		{"$x[0]", KindSubscriptExpression},
		{"vec[1, 2]", KindVectorIntrinsicExpression},
		{"dict['a' => 1]", KindDictionaryIntrinsicExpression},
		{"keyset<string>[]", KindKeysetIntrinsicExpression},
		{"shape('a' => 1)", KindShapeExpression},
		{"Vector {1}", KindCollectionLiteralExpression},
		{"$x++", KindPostfixUnaryExpression},
		{"!$x", KindPrefixUnaryExpression},
		{"2 ** 3", KindBinaryExpression},
		{"function() use ($y) { return $y; }", KindAnonymousFunction},
		{"isset($x)", KindIssetExpression},
		{"list($a, , $c) = $b", KindBinaryExpression},
		{"$x |> $$", KindBinaryExpression},
		{"yield 1", KindYieldExpression},
		{"yield $k => $v", KindYieldExpression},
		{"yield from gen()", KindYieldFromExpression},
		{"await f()", KindPrefixUnaryExpression},
		{"clone $x", KindPrefixUnaryExpression},
		{"(1)", KindParenthesizedExpression},
		{"[1, 2]", KindArrayCreationExpression},
		{"array(1, 2)", KindArrayIntrinsicExpression},
		{"tuple(1, 2)", KindTupleExpression},
		{"\\Foo\\bar()", KindFunctionCallExpression},
		{"namespace\\bar()", KindFunctionCallExpression},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, _, errs := parse(t, "<?hh\n"+tt.input+";")
			if len(errs) > 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
			stmts := root.findAll(KindExpressionStatement)
			if len(stmts) != 1 {
				t.Fatalf("got %d expression statements, want 1", len(stmts))
			}
			if got := stmts[0].kids[0].kind; got != tt.kind {
				t.Errorf("expression kind = %s, want %s", got, tt.kind)
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input string
		// side names the operand of the outer binary expression that must
		// itself be a binary expression: 0 for left, 2 for right.
		side int
	}{
		{"$a + $b * $c", 2},
		{"$a * $b + $c", 0},
		{"$a - $b - $c", 0},
		{"$a = $b = $c", 2},
		{"$a ?? $b ?? $c", 2},
		{"2 ** 3 ** 4", 2},
		{"$a && $b || $c", 0},
		{"$a . $b . $c", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, _, _ := parse(t, "<?hh\n"+tt.input+";")
			expr := root.findAll(KindExpressionStatement)[0].kids[0]
			if expr.kind != KindBinaryExpression {
				t.Fatalf("outer kind = %s", expr.kind)
			}
			if got := expr.kids[tt.side].kind; got != KindBinaryExpression {
				t.Errorf("operand %d kind = %s, want binary_expression", tt.side, got)
			}
		})
	}
}

func TestParseRecovery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []SyntaxKind
	}{
		{"broken parameter list", "<?hh\nclass A { public function f( { } }\nclass B {}", []SyntaxKind{KindClassishDeclaration, KindClassishDeclaration}},
		{"missing operand", "<?hh\nfunction f() { $x = ; }\nfunction g() {}", []SyntaxKind{KindFunctionDeclaration, KindFunctionDeclaration}},
		{"stray tokens", "<?hh\n)) class C {}", []SyntaxKind{KindErrorSyntax, KindClassishDeclaration}},
		{"stray brace", "<?hh\n}\nfunction f() {}", []SyntaxKind{KindErrorSyntax, KindFunctionDeclaration}},
		{"unterminated class", "<?hh\nclass A {", []SyntaxKind{KindClassishDeclaration}},
		{"missing semicolon", "<?hh\nconst X = 1\nclass A {}", []SyntaxKind{KindConstDeclaration, KindClassishDeclaration}},
		{"dangling attribute", "<?hh\n<<Foo>>", []SyntaxKind{KindErrorSyntax}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _, errs := parse(t, tt.input)
			if len(errs) == 0 {
				t.Error("expected syntax errors")
			}
			got := topLevel(root)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("top level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTerminates(t *testing.T) {
	inputs := []string{
		")))", "}}}", "<<<<", "class", "function", "namespace", "?>", "@@", "(((",
		"$x ==>", "f<", "<?hh\nclass A { use }", "<?hh\nswitch ($x) { foo; }",
		"<?hh\nenum E: int { 1 }", "<?hh\nfunction f(): vec<", "<?hh\n<<", "<?hh\nuse",
		"<?hh\nclass A { public }", "<?hh\ntry {} catch", "<?hh\nnew", "<?hh\n$x = [1, 2",
		"<?hh\nshape(", "<?hh\nforeach", "<?hh\nclass A { <<Foo>> }", "<?hh\n@",
		"<?hh\ntype T = shape('a' => int, ...", "<?hh\nfunction f(...) {}",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			parse(t, input)
		})
	}
}

func TestMatchParens(t *testing.T) {
	tokens, err := NewLexer([]byte("(a(b)) ) ((c)"), Env{}).Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	got := matchParens(tokens)
	want := []int{5, -1, 4, -1, -1, -1, -1, -1, 10, -1, -1, -1}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("matchParens = %v, want %v", got, want)
	}
}

func TestParseDeepParentheses(t *testing.T) {
	const depth = 100000
	inputs := map[string]string{
		"unmatched": "<?hh\n$x = " + strings.Repeat("(", depth),
		"lambdas":   "<?hh\n$x = " + strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + ";",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			r := &recorder{}
			if _, err := New[*node]([]byte(input), r).ParseScript(); err != nil {
				t.Fatalf("ParseScript failed: %v", err)
			}
			if n := len(r.tokens); r.tokens[n-1].Kind != TokenEOF {
				t.Errorf("last token = %v, want EndOfFile", r.tokens[n-1].Kind)
			}
		})
	}
}

func TestParseModes(t *testing.T) {
	const enumSrc = "<?php\nenum E: int { A = 1; }"

	root, _, _ := parse(t, enumSrc)
	if n := len(root.findAll(KindEnumDeclaration)); n != 0 {
		t.Errorf("<?php file without HHVM compatibility produced %d enums", n)
	}
	root, _, errs := parse(t, enumSrc, WithHHVMCompat())
	if n := len(root.findAll(KindEnumDeclaration)); n != 1 || len(errs) > 0 {
		t.Errorf("HHVM compatibility: %d enums, errors %v", n, errs)
	}

	const varSrc = "<?php\nclass A { var $x; }"
	_, _, errs = parse(t, varSrc)
	if len(errs) == 0 {
		t.Error("var property accepted without PHP5 compatibility")
	}
	root, _, errs = parse(t, varSrc, WithPHP5Compat())
	if len(errs) > 0 || len(root.findAll(KindPropertyDeclaration)) != 1 {
		t.Errorf("PHP5 compatibility: errors %v", errs)
	}

	root, _, errs = parse(t, "<?php\nCLASS A {}", WithPHP5Compat())
	if len(errs) > 0 || len(root.findAll(KindClassishDeclaration)) != 1 {
		t.Errorf("PHP5 compatibility did not accept upper-case keywords: %v", errs)
	}
}

func TestParseSplitsShiftTokens(t *testing.T) {
	src := "<?hh\nfunction f(): vec<vec<int>> {}"
	_, r, errs := parse(t, src)
	if len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	n := 0
	for _, tok := range r.tokens {
		if tok.Kind == TokenGreaterThan {
			n++
		}
	}
	if n != 2 {
		t.Errorf("got %d > tokens, want 2", n)
	}
}

func TestParseErrors(t *testing.T) {
	_, _, errs := parse(t, "<?hh\nfunction f( {}", WithFile("a.hack"))
	if len(errs) == 0 {
		t.Fatal("expected errors")
	}
	if errs[0].File != "a.hack" {
		t.Errorf("error file = %q, want a.hack", errs[0].File)
	}
	if !strings.HasPrefix(errs[0].Error(), "a.hack:") {
		t.Errorf("Error() = %q, want a.hack: prefix", errs[0].Error())
	}
	for i := 1; i < len(errs); i++ {
		if errs[i].Offset < errs[i-1].Offset {
			t.Errorf("errors out of order: %d before %d", errs[i-1].Offset, errs[i].Offset)
		}
	}
}

func TestParseUntokenizable(t *testing.T) {
	_, err := Parse[*node]([]byte("<?hh\x00"), &recorder{})
	if !errors.Is(err, ErrUntokenizable) {
		t.Errorf("err = %v, want ErrUntokenizable", err)
	}
}

func TestRecognize(t *testing.T) {
	if !Recognize([]byte("<?hh\nclass A {}")) {
		t.Error("Recognize rejected a valid file")
	}
	if !Recognize([]byte("<?hh\nclass {")) {
		t.Error("Recognize rejected a file with syntax errors")
	}
	if Recognize([]byte("\x00\x01")) {
		t.Error("Recognize accepted binary input")
	}
}
