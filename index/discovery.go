package index

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery selects source files by include and exclude patterns. Paths
// are matched relative to the root with forward slashes, so "**/x" also
// matches x at the top level.
type Discovery struct {
	root    string
	include []compiledPattern
	exclude []compiledPattern
}

func NewDiscovery(root string, include, exclude []string) (*Discovery, error) {
	d := &Discovery{root: root}
	var err error
	if d.include, err = compile(include); err != nil {
		return nil, err
	}
	if d.exclude, err = compile(exclude); err != nil {
		return nil, err
	}
	return d, nil
}

func compile(patterns []string) ([]compiledPattern, error) {
	var compiled []compiledPattern
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		compiled = append(compiled, compiledPattern{pattern: p, glob: g})
	}
	return compiled, nil
}

func (d *Discovery) Root() string {
	return d.root
}

// Discover walks the root and returns the relative paths of all matching
// files in lexical order. Excluded directories are not descended into.
func (d *Discovery) Discover(ctx context.Context) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := d.Rel(path)
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if rel != "." && d.excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Matches(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover files in %s: %w", d.root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Rel converts a path below the root into its slash separated relative
// form.
func (d *Discovery) Rel(path string) (string, error) {
	rel, err := filepath.Rel(d.root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Abs is the inverse of Rel.
func (d *Discovery) Abs(rel string) string {
	return filepath.Join(d.root, filepath.FromSlash(rel))
}

// Matches reports whether the relative path is included and not excluded.
func (d *Discovery) Matches(rel string) bool {
	return matchAny(rel, d.include) && !d.excluded(rel)
}

func (d *Discovery) excluded(rel string) bool {
	return matchAny(rel, d.exclude)
}

func matchAny(rel string, patterns []compiledPattern) bool {
	for _, p := range patterns {
		if p.glob.Match(rel) || p.glob.Match("/"+rel) {
			return true
		}
	}
	return false
}
