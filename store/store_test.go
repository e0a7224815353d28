package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/hhfacts/hack/facts"
	"github.com/dhamidi/hhfacts/hack/parser"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var mode = parser.Env{}.Mode()

func extract(t *testing.T, src string) *facts.Facts {
	t.Helper()
	f, err := facts.FromText([]byte(src), parser.Env{})
	require.NoError(t, err)
	return f
}

const shapes = `<?hh
<<file: Owner("geometry")>>
namespace Shapes;

interface Shape {}

<<Sealed(1, 2.5, true), Deprecated>>
abstract class Base implements Shape {
  use Describable;
}

final class Circle extends Base {}

trait Describable {
  require extends Base;
  require implements Shape;
}

<<Memoize>>
function area(Shape $s): float { return 0.0; }

const int SIDES = 4;
type Point = (int, int);
`

func TestPutFileAndFileFacts(t *testing.T) {
	s := newTestStore(t)
	want := extract(t, shapes)
	require.NoError(t, s.PutFile("src/shapes.hack", want, mode))

	got, err := s.FileFacts("src/shapes.hack")
	require.NoError(t, err)

	opts := []cmp.Option{
		cmpopts.IgnoreFields(facts.TypeFacts{}, "Offset", "End"),
		cmpopts.IgnoreFields(facts.Symbol{}, "Offset", "End"),
	}
	wantJSON, err := want.MarshalJSON()
	require.NoError(t, err)
	gotJSON, err := got.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
	assert.Equal(t, want.TypeNames(), got.TypeNames())
	if diff := cmp.Diff(want.Functions, got.Functions, append(opts, cmp.Comparer(attributesEqual))...); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}
}

func attributesEqual(a, b facts.Attributes) bool {
	x, _ := a.MarshalJSON()
	y, _ := b.MarshalJSON()
	return string(x) == string(y)
}

func TestPutFileReplaces(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutFile("a.php", extract(t, "<?php\nclass Old extends Base {}\n"), mode))
	require.NoError(t, s.PutFile("a.php", extract(t, "<?php\nclass New {}\n"), mode))

	f, err := s.FileFacts("a.php")
	require.NoError(t, err)
	assert.Equal(t, []string{"New"}, f.TypeNames())

	_, err = s.FindType("Old")
	assert.ErrorIs(t, err, ErrNotFound)
	subtypes, err := s.Subtypes("Base")
	require.NoError(t, err)
	assert.Empty(t, subtypes)
}

func TestRemoveFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutFile("a.php", extract(t, shapes), mode))
	require.NoError(t, s.RemoveFile("a.php"))
	require.NoError(t, s.RemoveFile("never-stored.php"))

	_, err := s.FileFacts("a.php")
	assert.ErrorIs(t, err, ErrNotFound)
	uses, err := s.WithAttribute("Memoize")
	require.NoError(t, err)
	assert.Empty(t, uses)

	files, err := s.Files()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileHash(t *testing.T) {
	s := newTestStore(t)
	f := extract(t, "<?php\nclass A {}\n")
	require.NoError(t, s.PutFile("a.php", f, "php5+hhvm"))

	hash, storedMode, err := s.FileHash("a.php")
	require.NoError(t, err)
	assert.Equal(t, f.ContentHash, hash)
	assert.Equal(t, "php5+hhvm", storedMode)

	_, _, err = s.FileHash("b.php")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindType(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutFile("b.hack", extract(t, shapes), mode))
	require.NoError(t, s.PutFile("a.hack", extract(t, "<?hh\nnamespace Shapes;\nfinal class Circle {}\n"), mode))

	locations, err := s.FindType(`shapes\circle`)
	require.NoError(t, err)
	want := []TypeLocation{
		{Path: "a.hack", Name: `Shapes\Circle`, Kind: facts.TypeKindClass, Flags: []facts.Flag{facts.FlagFinal}},
		{Path: "b.hack", Name: `Shapes\Circle`, Kind: facts.TypeKindClass, Flags: []facts.Flag{facts.FlagFinal}},
	}
	assert.Equal(t, want, locations)

	_, err = s.FindType("Missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubtypes(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutFile("shapes.hack", extract(t, shapes), mode))

	relations, err := s.Subtypes(`Shapes\Shape`)
	require.NoError(t, err)
	assert.Equal(t, []Relation{
		{Path: "shapes.hack", Type: `Shapes\Base`, Base: `Shapes\Shape`, Relation: RelationImplements},
		{Path: "shapes.hack", Type: `Shapes\Describable`, Base: `Shapes\Shape`, Relation: RelationRequireImplements},
	}, relations)

	relations, err = s.Subtypes(`Shapes\Describable`)
	require.NoError(t, err)
	assert.Equal(t, []Relation{
		{Path: "shapes.hack", Type: `Shapes\Base`, Base: `Shapes\Describable`, Relation: RelationUses},
	}, relations)
}

func TestWithAttribute(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutFile("shapes.hack", extract(t, shapes), mode))

	uses, err := s.WithAttribute("Sealed")
	require.NoError(t, err)
	require.Len(t, uses, 1)
	assert.Equal(t, `Shapes\Base`, uses[0].Owner)
	assert.Equal(t, OwnerType, uses[0].OwnerKind)
	assert.Equal(t, []any{int64(1), 2.5, true}, uses[0].Args)

	uses, err = s.WithAttribute("Owner")
	require.NoError(t, err)
	require.Len(t, uses, 1)
	assert.Equal(t, OwnerFile, uses[0].OwnerKind)
	assert.Equal(t, []any{"geometry"}, uses[0].Args)

	uses, err = s.WithAttribute("memoize")
	require.NoError(t, err)
	require.Len(t, uses, 1)
	assert.Equal(t, `Shapes\area`, uses[0].Owner)
	assert.Equal(t, OwnerFunction, uses[0].OwnerKind)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "facts.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.PutFile("a.php", extract(t, "<?php\nclass A {}\n"), mode))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	files, err := s.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.php"}, files)
}
