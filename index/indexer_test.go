package index

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/hhfacts/hack/facts"
	"github.com/dhamidi/hhfacts/hack/parser"
)

type memorySink struct {
	mu      sync.Mutex
	files   map[string]*facts.Facts
	modes   map[string]string
	removed []string
	failOn  string
}

func newMemorySink() *memorySink {
	return &memorySink{files: make(map[string]*facts.Facts), modes: make(map[string]string)}
}

func (s *memorySink) PutFile(path string, f *facts.Facts, mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if path == s.failOn {
		return errors.New("disk full")
	}
	s.files[path] = f
	s.modes[path] = mode
	return nil
}

func (s *memorySink) RemoveFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	delete(s.modes, path)
	s.removed = append(s.removed, path)
	return nil
}

func (s *memorySink) get(path string) (*facts.Facts, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[path]
	return f, ok
}

// hashingSink also remembers content hashes.
type hashingSink struct {
	*memorySink
}

func (s hashingSink) FileHash(path string) (string, string, error) {
	f, ok := s.get(path)
	if !ok {
		return "", "", errors.New("not found")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return f.ContentHash, s.modes[path], nil
}

type recordingProgress struct {
	total int
	done  []string
	final *Stats
}

func (p *recordingProgress) Start(total int)      { p.total = total }
func (p *recordingProgress) FileDone(path string) { p.done = append(p.done, path) }
func (p *recordingProgress) Finish(stats Stats)   { p.final = &stats }

func newIndexer(t *testing.T, root string, sink Sink, opts Options) *Indexer {
	t.Helper()
	d, err := NewDiscovery(root, defaultInclude, defaultExclude)
	require.NoError(t, err)
	ix, err := New(d, sink, opts)
	require.NoError(t, err)
	t.Cleanup(ix.Close)
	return ix
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.hack":   "<?hh\nnamespace A;\nclass Foo {}\nfunction f() {}\n",
		"b.hack":   "<?hh\nclass Bar extends {\n",
		"c.php":    "<?php\ninterface I {}\n",
		"copy.php": "<?php\ninterface I {}\n",
	})

	sink := newMemorySink()
	progress := &recordingProgress{}
	ix := newIndexer(t, root, sink, Options{Workers: 2, CacheSize: 100, Progress: progress})

	files := []string{"a.hack", "b.hack", "c.php", "copy.php", "missing.php"}
	stats, err := ix.Run(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Files)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.SyntaxErrors)
	declarations := 0
	for _, f := range sink.files {
		declarations += f.DeclarationCount()
	}
	assert.Equal(t, declarations, stats.Declarations)
	assert.LessOrEqual(t, stats.CacheHits, 1)

	a, ok := sink.get("a.hack")
	require.True(t, ok)
	assert.Equal(t, []string{`A\Foo`}, a.TypeNames())

	b, ok := sink.get("b.hack")
	require.True(t, ok)
	assert.True(t, b.HadErrors)

	_, ok = sink.get("missing.php")
	assert.False(t, ok)

	assert.Equal(t, len(files), progress.total)
	assert.ElementsMatch(t, files, progress.done)
	require.NotNil(t, progress.final)
	assert.Equal(t, stats, *progress.final)
}

func TestRunUsesCacheForIdenticalContent(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.php": "<?php\nclass A {}\n"})

	ix := newIndexer(t, root, newMemorySink(), Options{Workers: 1, CacheSize: 10})

	_, err := ix.Run(context.Background(), []string{"a.php"})
	require.NoError(t, err)
	stats, err := ix.Run(context.Background(), []string{"a.php"})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CacheHits)
}

func TestRunSkipsUnchangedFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.php": "<?php\nclass A {}\n", "b.php": "<?php\nclass B {}\n"})

	sink := hashingSink{newMemorySink()}
	ix := newIndexer(t, root, sink, Options{})

	_, err := ix.Run(context.Background(), []string{"a.php", "b.php"})
	require.NoError(t, err)

	writeFiles(t, root, map[string]string{"b.php": "<?php\nclass B2 {}\n"})
	stats, err := ix.Run(context.Background(), []string{"a.php", "b.php"})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Unchanged)
	assert.Equal(t, 1, stats.Files)

	b, _ := sink.get("b.php")
	assert.Equal(t, []string{"B2"}, b.TypeNames())
}

func TestRunReextractsWhenParserModeChanges(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"e.php": "<?php\nenum E : int {\n  A = 1;\n}\n"})
	sink := hashingSink{newMemorySink()}

	plain := newIndexer(t, root, sink, Options{})
	_, err := plain.Run(context.Background(), []string{"e.php"})
	require.NoError(t, err)
	e, _ := sink.get("e.php")
	assert.Empty(t, e.TypeNames())

	compat := newIndexer(t, root, sink, Options{Env: parser.Env{HHVMCompatMode: true}})
	stats, err := compat.Run(context.Background(), []string{"e.php"})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Unchanged)
	assert.Equal(t, 1, stats.Files)
	e, _ = sink.get("e.php")
	assert.Equal(t, []string{"E"}, e.TypeNames())

	stats, err = compat.Run(context.Background(), []string{"e.php"})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Unchanged)
}

func TestRunSinkFailure(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.php": "<?php", "b.php": "<?php"})

	sink := newMemorySink()
	sink.failOn = "a.php"
	ix := newIndexer(t, root, sink, Options{Workers: 1})

	_, err := ix.Run(context.Background(), []string{"a.php", "b.php"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRunCancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.php": "<?php"})
	ix := newIndexer(t, root, newMemorySink(), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ix.Run(ctx, []string{"a.php"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemove(t *testing.T) {
	sink := newMemorySink()
	sink.files["gone.php"] = &facts.Facts{}
	ix := newIndexer(t, t.TempDir(), sink, Options{})

	require.NoError(t, ix.Remove([]string{"gone.php"}))
	assert.Equal(t, []string{"gone.php"}, sink.removed)
	_, ok := sink.get("gone.php")
	assert.False(t, ok)
}

func TestStatsString(t *testing.T) {
	s := Stats{Files: 3, Unchanged: 1, SyntaxErrors: 1, Declarations: 7}
	assert.Contains(t, s.String(), "indexed 3 files")
	assert.Contains(t, s.String(), "7 declarations")
}
