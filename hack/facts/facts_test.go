package facts

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/hhfacts/hack/parser"
)

var ignoreSpans = cmpopts.IgnoreFields(TypeFacts{}, "Attributes", "Offset", "End")

func extract(t *testing.T, src string) *Facts {
	t.Helper()
	f, err := FromText([]byte(src), parser.Env{})
	require.NoError(t, err)
	require.NotNil(t, f)
	return f
}

func typeFacts(t *testing.T, f *Facts, name string) *TypeFacts {
	t.Helper()
	typ, ok := f.Types.Get(name)
	require.Truef(t, ok, "type %q not found in %v", name, f.TypeNames())
	return typ
}

func symbolNames(syms []Symbol) []string {
	names := []string{}
	for _, s := range syms {
		names = append(names, s.Name)
	}
	return names
}

func attributeValues(t *testing.T, attrs Attributes, name string) []any {
	t.Helper()
	values, ok := attrs.Get(name)
	require.Truef(t, ok, "attribute %q not found", name)
	return values
}

func TestClassWithBaseAndInterface(t *testing.T) {
	f := extract(t, "<?hh\nclass Foo extends Bar implements Baz {}\n")

	want := &TypeFacts{
		Kind:              TypeKindClass,
		Flags:             []Flag{},
		BaseTypes:         []string{"Bar"},
		Interfaces:        []string{"Baz"},
		Traits:            []string{},
		RequireExtends:    []string{},
		RequireImplements: []string{},
		TypeParameters:    []string{},
	}
	got := typeFacts(t, f, "Foo")
	if diff := cmp.Diff(want, got, ignoreSpans); diff != "" {
		t.Errorf("facts of Foo mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, got.Attributes.Len())
	assert.False(t, f.HadErrors)
}

func TestNamespaceOnly(t *testing.T) {
	f := extract(t, "<?hh\nnamespace N;\n")

	assert.Equal(t, 0, f.Types.Len())
	assert.Empty(t, f.Functions)
	assert.Empty(t, f.Constants)
	assert.Empty(t, f.TypeAliases)
	assert.Equal(t, 0, f.FileAttributes.Len())
	assert.False(t, f.HadErrors)
	assert.Len(t, f.ContentHash, 40)
}

func TestHashIgnoresFilename(t *testing.T) {
	src := []byte("<?hh\nfunction f(): void {}\n")
	a, err := FromText(src, parser.Env{Filename: "a.hack"})
	require.NoError(t, err)
	b, err := FromText(src, parser.Env{Filename: "dir/b.php"})
	require.NoError(t, err)

	assert.Equal(t, a.ContentHash, b.ContentHash)
	assert.Equal(t, ContentHash(src), a.ContentHash)
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", ContentHash(nil))
}

func TestFunctionAttribute(t *testing.T) {
	f := extract(t, "<?hh\n<<Attr(\"value\")>> function f() {}\n")

	require.Len(t, f.Functions, 1)
	assert.Equal(t, "f", f.Functions[0].Name)
	assert.Equal(t, []any{"value"}, attributeValues(t, f.Functions[0].Attributes, "Attr"))
}

func TestNamespaceQualification(t *testing.T) {
	src := `<?hh
namespace App\Models;

use App\Contracts\Repository as Repo;
use namespace HH\Lib\{C, Vec};
use type Foo\Bar;
use function App\Util\helper;

class User extends Base implements Repo, \Countable, Bar\Baz {
  use Greets, C\Trait;
  require extends \Root\Model;
  require implements namespace\Thing;
}

function run(): void {}
const int MAX = 10;
type Alias = int;
newtype Opaque = string;
`
	f := extract(t, src)
	assert.False(t, f.HadErrors)

	user := typeFacts(t, f, `App\Models\User`)
	assert.Equal(t, []string{`App\Models\Base`}, user.BaseTypes)
	assert.Equal(t, []string{`App\Contracts\Repository`, `Countable`, `Foo\Bar\Baz`}, user.Interfaces)
	assert.Equal(t, []string{`App\Models\Greets`, `HH\Lib\C\Trait`}, user.Traits)
	assert.Equal(t, []string{`Root\Model`}, user.RequireExtends)
	assert.Equal(t, []string{`App\Models\Thing`}, user.RequireImplements)

	assert.Equal(t, []string{`App\Models\run`}, symbolNames(f.Functions))
	assert.Equal(t, []string{`App\Models\MAX`}, symbolNames(f.Constants))
	assert.Equal(t, []string{`App\Models\Alias`, `App\Models\Opaque`}, symbolNames(f.TypeAliases))
}

func TestBracedNamespaces(t *testing.T) {
	src := `<?hh
namespace A { class X {} }
namespace { class Y extends X {} }
namespace B {
  use A\X;
  class Z extends X {}
}
`
	f := extract(t, src)
	assert.Equal(t, []string{`A\X`, `Y`, `B\Z`}, f.TypeNames())
	assert.Equal(t, []string{`X`}, typeFacts(t, f, `Y`).BaseTypes)
	assert.Equal(t, []string{`A\X`}, typeFacts(t, f, `B\Z`).BaseTypes)
}

func TestNamespaceClearsAliases(t *testing.T) {
	src := `<?hh
namespace A;
use Lib\Thing;
namespace B;
class C extends Thing {}
`
	f := extract(t, src)
	assert.Equal(t, []string{`B\Thing`}, typeFacts(t, f, `B\C`).BaseTypes)
}

func TestBuiltinTypesAreNotQualified(t *testing.T) {
	f := extract(t, "<?hh\nnamespace N;\nclass C<T> implements Traversable, string {}\n")
	c := typeFacts(t, f, `N\C`)
	assert.Equal(t, []string{`N\Traversable`, `string`}, c.Interfaces)
	assert.Equal(t, []string{"T"}, c.TypeParameters)
}

func TestTypeFlags(t *testing.T) {
	src := `<?hh
abstract class A {}
final class B {}
interface I extends J, K {}
trait T {}
enum E: int { X = 1; }
abstract final class C {}
class D {}
`
	f := extract(t, src)

	tests := []struct {
		name  string
		kind  TypeKind
		flags []Flag
	}{
		{"A", TypeKindClass, []Flag{FlagAbstract}},
		{"B", TypeKindClass, []Flag{FlagFinal}},
		{"I", TypeKindInterface, []Flag{FlagAbstract}},
		{"T", TypeKindTrait, []Flag{FlagAbstract}},
		{"E", TypeKindEnum, []Flag{FlagFinal}},
		{"C", TypeKindClass, []Flag{FlagAbstract, FlagFinal}},
		{"D", TypeKindClass, []Flag{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := typeFacts(t, f, tt.name)
			assert.Equal(t, tt.kind, typ.Kind)
			assert.Equal(t, tt.flags, typ.Flags)
		})
	}
	assert.Equal(t, []string{"J", "K"}, typeFacts(t, f, "I").BaseTypes)
}

func TestNestedDeclarationsAreDropped(t *testing.T) {
	src := `<?hh
function outer() {
  function inner() {}
  class Local {}
}
if (true) {
  class Conditional {}
}
$x = function() { class InClosure {} };
class Outer {
  const X = 1;
  public function m() { class InMethod {} }
}
`
	f := extract(t, src)
	assert.Equal(t, []string{"Outer"}, f.TypeNames())
	assert.Equal(t, []string{"outer"}, symbolNames(f.Functions))
	assert.Empty(t, f.Constants)
}

func TestDefine(t *testing.T) {
	src := `<?hh
namespace N;
define('GLOBAL_X', 1);
define("OTHER", 2);
function f() { define('INNER', 3); }
$y = define('ASSIGNED', 4);
`
	f := extract(t, src)
	assert.Equal(t, []string{"GLOBAL_X", "OTHER"}, symbolNames(f.Constants))
}

func TestLastDeclarationWins(t *testing.T) {
	src := `<?hh
class A {}
interface B {}
trait A {}
function f() {}
function g() {}
<<Again>> function f() {}
`
	f := extract(t, src)
	assert.Equal(t, []string{"A", "B"}, f.TypeNames())
	assert.Equal(t, TypeKindTrait, typeFacts(t, f, "A").Kind)

	assert.Equal(t, []string{"f", "g"}, symbolNames(f.Functions))
	_, ok := f.Functions[0].Attributes.Get("Again")
	assert.True(t, ok, "the later f should replace the earlier one")
}

func TestFileAttributes(t *testing.T) {
	f := extract(t, "<?hh\n<<file: Foo(1, 'two'), Bar>>\nclass C {}\n")
	assert.Equal(t, []any{int64(1), "two"}, attributeValues(t, f.FileAttributes, "Foo"))
	assert.Equal(t, []any{}, attributeValues(t, f.FileAttributes, "Bar"))
	assert.Equal(t, 0, typeFacts(t, f, "C").Attributes.Len())
}

func TestAttributeValues(t *testing.T) {
	src := `<?hh
<<A(1, 0x10, 0b11, 1.5, true, "a\tb", 'c\'d', "$x", Foo::class, -1, null)>>
function f() {}
`
	f := extract(t, src)
	require.Len(t, f.Functions, 1)
	want := []any{int64(1), int64(16), int64(3), 1.5, true, "a\tb", "c'd", `"$x"`, "Foo::class", "-1", "null"}
	assert.Equal(t, want, attributeValues(t, f.Functions[0].Attributes, "A"))
}

func TestAtAttributes(t *testing.T) {
	f := extract(t, "<?hh\n@Foo(1) @Bar\nfunction f() {}\n")
	require.Len(t, f.Functions, 1)
	attrs := f.Functions[0].Attributes
	assert.Equal(t, []any{int64(1)}, attributeValues(t, attrs, "Foo"))
	assert.Equal(t, []any{}, attributeValues(t, attrs, "Bar"))
}

func TestClassAttributes(t *testing.T) {
	f := extract(t, "<?hh\n<<__Sealed(Admin::class), __ConsistentConstruct>>\nabstract class User {}\n")
	user := typeFacts(t, f, "User")
	assert.Equal(t, []any{"Admin::class"}, attributeValues(t, user.Attributes, "__Sealed"))
	assert.Equal(t, []any{}, attributeValues(t, user.Attributes, "__ConsistentConstruct"))
}

func TestMalformedInput(t *testing.T) {
	f := extract(t, "<?hh\nclass A { public function f( { } }\nclass B extends A {}\n")
	assert.True(t, f.HadErrors)
	assert.Equal(t, []string{"A"}, typeFacts(t, f, "B").BaseTypes)
}

func TestDeterministic(t *testing.T) {
	src := []byte(`<?hh
namespace N;
<<file: X>>
class A extends B {}
function f() {}
const C = 1;
`)
	first, ok := ExtractAsJSON(src, parser.Env{})
	require.True(t, ok)
	for i := 0; i < 3; i++ {
		again, ok := ExtractAsJSON(src, parser.Env{})
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestUntokenizable(t *testing.T) {
	src := []byte("<?hh\x00class A {}")

	f, err := FromText(src, parser.Env{})
	assert.Nil(t, f)
	assert.True(t, errors.Is(err, parser.ErrUntokenizable))

	_, ok := ExtractAsJSON(src, parser.Env{})
	assert.False(t, ok)
	assert.False(t, ParseOnly(src, parser.Env{}))
}

func TestHaltCompilerPayload(t *testing.T) {
	for _, payload := range []string{"\x00\x01\x02payload", "\xff}}{{ garbage"} {
		src := []byte("<?php\nclass A {}\n__HALT_COMPILER();" + payload)

		f, err := FromText(src, parser.Env{})
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, f.TypeNames())
		assert.False(t, f.HadErrors)
		assert.Equal(t, ContentHash(src), f.ContentHash)
		assert.True(t, ParseOnly(src, parser.Env{}))
	}
}

func TestNULInsideLiterals(t *testing.T) {
	f := extract(t, "<?hh\n<<Attr(\"a\x00b\")>>\nfunction f() {}\nconst string S = 'x\x00y';\n")
	assert.False(t, f.HadErrors)
	require.Len(t, f.Functions, 1)
	assert.Equal(t, []any{"a\x00b"}, attributeValues(t, f.Functions[0].Attributes, "Attr"))
	assert.Equal(t, []string{"S"}, symbolNames(f.Constants))
}

func TestParseOnly(t *testing.T) {
	assert.True(t, ParseOnly([]byte("<?hh\nclass A {}"), parser.Env{}))
	assert.True(t, ParseOnly([]byte("<?hh\nclass {"), parser.Env{}))
}

func TestInvalidUTF8(t *testing.T) {
	src := []byte("<?hh\nfunction f\xff() {}\n")
	f := extract(t, string(src))
	require.Len(t, f.Functions, 1)
	assert.Equal(t, "f\uFFFD", f.Functions[0].Name)
	assert.Equal(t, ContentHash(src), f.ContentHash)
}

func TestHHVMCompat(t *testing.T) {
	src := []byte("<?php\nenum E: int { A = 1; }\n")

	f, err := FromText(src, parser.Env{})
	require.NoError(t, err)
	_, ok := f.Types.Get("E")
	assert.False(t, ok)

	f, err = FromText(src, parser.Env{HHVMCompatMode: true})
	require.NoError(t, err)
	assert.Equal(t, TypeKindEnum, typeFacts(t, f, "E").Kind)
}

func TestJSONShape(t *testing.T) {
	src := []byte("<?hh\nnamespace N;\n")
	got, ok := ExtractAsJSON(src, parser.Env{})
	require.True(t, ok)
	want := `{"types":{},"functions":[],"constants":[],"type_aliases":[],"file_attributes":{},"content_hash":"` +
		ContentHash(src) + `","had_errors":false}`
	assert.Equal(t, want, got)
}

func TestJSONTypeRecord(t *testing.T) {
	got, ok := ExtractAsJSON([]byte("<?hh\n<<A(1)>> final class C extends B {}\n"), parser.Env{})
	require.True(t, ok)

	var decoded struct {
		Types map[string]map[string]any `json:"types"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	c := decoded.Types["C"]
	require.NotNil(t, c)
	assert.Equal(t, "class", c["kind"])
	assert.Equal(t, []any{"final"}, c["flags"])
	assert.Equal(t, []any{"B"}, c["base_types"])
	assert.Equal(t, []any{}, c["traits"])
	assert.Equal(t, map[string]any{"A": []any{float64(1)}}, c["attributes"])
	assert.NotContains(t, c, "Offset")
}

func TestZeroFactsMarshal(t *testing.T) {
	data, err := json.Marshal(&Facts{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"types":{},"functions":[],"constants":[],"type_aliases":[],"file_attributes":{},"content_hash":"","had_errors":false}`, string(data))
}

func TestStrategyAcceptsEveryKind(t *testing.T) {
	s := newStrategy("")
	for _, kind := range parser.Kinds() {
		children := make([]result, kind.Arity())
		for i := range children {
			children[i] = s.Missing(0)
		}
		assert.NotPanics(t, func() { s.Make(kind, 0, children) }, kind.String())
	}
}

func TestOffsets(t *testing.T) {
	src := "<?hh\n\nclass A {}\nfunction f() {}\n"
	f := extract(t, src)
	a := typeFacts(t, f, "A")
	assert.Equal(t, "class A {}", src[a.Offset:a.End])
	fn := f.Functions[0]
	assert.Equal(t, "function f() {}", src[fn.Offset:fn.End])
}
