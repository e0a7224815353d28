// Package store keeps the facts of indexed files in SQLite and answers
// cross-file questions about them.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dhamidi/hhfacts/hack/facts"
)

var ErrNotFound = errors.New("not found")

// Relations recorded in type_bases.
const (
	RelationExtends           = "extends"
	RelationImplements        = "implements"
	RelationUses              = "uses"
	RelationRequireExtends    = "require_extends"
	RelationRequireImplements = "require_implements"
)

// Owner kinds recorded in symbols and attributes.
const (
	OwnerType      = "type"
	OwnerFunction  = "function"
	OwnerConstant  = "constant"
	OwnerTypeAlias = "type_alias"
	OwnerFile      = "file"
)

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	// One connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PutFile replaces everything known about path with f, extracted in the
// given parser mode.
func (s *Store) PutFile(path string, f *facts.Facts, mode string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := sq.Delete("files").Where(sq.Eq{"path": path}).RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", path, err)
	}

	_, err = sq.Insert("files").
		Columns("path", "content_hash", "parser_mode", "had_errors", "indexed_at").
		Values(path, f.ContentHash, mode, f.HadErrors, time.Now().UTC().Format(time.RFC3339)).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	w := &factsWriter{tx: tx, path: path}
	w.attributes(OwnerFile, "", f.FileAttributes)

	position := 0
	for pair := f.Types.Oldest(); pair != nil; pair = pair.Next() {
		w.typ(pair.Key, pair.Value, position)
		position++
	}
	symbols := []struct {
		kind    string
		symbols []facts.Symbol
	}{
		{OwnerFunction, f.Functions},
		{OwnerConstant, f.Constants},
		{OwnerTypeAlias, f.TypeAliases},
	}
	for _, group := range symbols {
		for i, sym := range group.symbols {
			w.symbol(group.kind, sym, i)
		}
	}
	if w.err != nil {
		return fmt.Errorf("failed to write facts of %s: %w", path, w.err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", path, err)
	}
	return nil
}

// factsWriter inserts rows until the first error.
type factsWriter struct {
	tx   *sql.Tx
	path string
	err  error
}

func (w *factsWriter) exec(b sq.InsertBuilder) {
	if w.err != nil {
		return
	}
	_, w.err = b.RunWith(w.tx).Exec()
}

func (w *factsWriter) typ(name string, t *facts.TypeFacts, position int) {
	flags := make([]string, len(t.Flags))
	for i, f := range t.Flags {
		flags[i] = string(f)
	}
	w.exec(sq.Insert("types").
		Columns("path", "name", "kind", "flags", "position").
		Values(w.path, name, string(t.Kind), strings.Join(flags, ","), position))

	relations := []struct {
		relation string
		names    []string
	}{
		{RelationExtends, t.BaseTypes},
		{RelationImplements, t.Interfaces},
		{RelationUses, t.Traits},
		{RelationRequireExtends, t.RequireExtends},
		{RelationRequireImplements, t.RequireImplements},
	}
	for _, r := range relations {
		for i, base := range r.names {
			w.exec(sq.Insert("type_bases").
				Columns("path", "type_name", "base_name", "relation", "ordinal").
				Values(w.path, name, base, r.relation, i))
		}
	}
	w.attributes(OwnerType, name, t.Attributes)
}

func (w *factsWriter) symbol(kind string, sym facts.Symbol, position int) {
	w.exec(sq.Insert("symbols").
		Columns("path", "name", "kind", "position").
		Values(w.path, sym.Name, kind, position))
	w.attributes(kind, sym.Name, sym.Attributes)
}

func (w *factsWriter) attributes(ownerKind, owner string, attrs facts.Attributes) {
	if attrs == nil || w.err != nil {
		return
	}
	position := 0
	for pair := attrs.Oldest(); pair != nil; pair = pair.Next() {
		args := pair.Value
		if args == nil {
			args = []any{}
		}
		data, err := json.Marshal(args)
		if err != nil {
			w.err = fmt.Errorf("attribute %s: %w", pair.Key, err)
			return
		}
		w.exec(sq.Insert("attributes").
			Columns("path", "owner", "owner_kind", "name", "args_json", "position").
			Values(w.path, owner, ownerKind, pair.Key, string(data), position))
		position++
	}
}

// RemoveFile forgets path. Removing an unknown path is not an error.
func (s *Store) RemoveFile(path string) error {
	if _, err := sq.Delete("files").Where(sq.Eq{"path": path}).RunWith(s.db).Exec(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// FileHash returns the content hash and parser mode stored for path.
func (s *Store) FileHash(path string) (hash, mode string, err error) {
	err = sq.Select("content_hash", "parser_mode").
		From("files").
		Where(sq.Eq{"path": path}).
		RunWith(s.db).
		QueryRow().
		Scan(&hash, &mode)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("file %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to get hash of %s: %w", path, err)
	}
	return hash, mode, nil
}

// Files lists the stored paths in order.
func (s *Store) Files() ([]string, error) {
	rows, err := sq.Select("path").From("files").OrderBy("path").RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}
