package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/dhamidi/hhfacts/hack/facts"
)

// TypeLocation is one declaration of a type.
type TypeLocation struct {
	Path  string
	Name  string
	Kind  facts.TypeKind
	Flags []facts.Flag
}

// Relation is a direct edge from a type to one of its bases.
type Relation struct {
	Path     string
	Type     string
	Base     string
	Relation string
}

// AttributeUse is one declaration carrying an attribute.
type AttributeUse struct {
	Path      string
	Owner     string
	OwnerKind string
	Name      string
	Args      []any
}

// FindType returns every file declaring name.
func (s *Store) FindType(name string) ([]TypeLocation, error) {
	rows, err := sq.Select("path", "name", "kind", "flags").
		From("types").
		Where(sq.Eq{"name": name}).
		OrderBy("path", "position").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to find type %s: %w", name, err)
	}
	defer rows.Close()

	var locations []TypeLocation
	for rows.Next() {
		var loc TypeLocation
		var kind, flags string
		if err := rows.Scan(&loc.Path, &loc.Name, &kind, &flags); err != nil {
			return nil, fmt.Errorf("failed to scan type: %w", err)
		}
		loc.Kind = facts.TypeKind(kind)
		loc.Flags = splitFlags(flags)
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("type %s: %w", name, ErrNotFound)
	}
	return locations, nil
}

// Subtypes returns the types that name directly as a base, interface,
// trait or requirement.
func (s *Store) Subtypes(name string) ([]Relation, error) {
	rows, err := sq.Select("path", "type_name", "base_name", "relation").
		From("type_bases").
		Where(sq.Eq{"base_name": name}).
		OrderBy("type_name", "path", "relation").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to find subtypes of %s: %w", name, err)
	}
	defer rows.Close()

	relations := []Relation{}
	for rows.Next() {
		var r Relation
		if err := rows.Scan(&r.Path, &r.Type, &r.Base, &r.Relation); err != nil {
			return nil, fmt.Errorf("failed to scan relation: %w", err)
		}
		relations = append(relations, r)
	}
	return relations, rows.Err()
}

// WithAttribute returns the declarations, files included, that carry the
// named attribute.
func (s *Store) WithAttribute(name string) ([]AttributeUse, error) {
	rows, err := sq.Select("path", "owner", "owner_kind", "name", "args_json").
		From("attributes").
		Where(sq.Eq{"name": name}).
		OrderBy("path", "owner", "position").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to find attribute %s: %w", name, err)
	}
	defer rows.Close()

	uses := []AttributeUse{}
	for rows.Next() {
		var u AttributeUse
		var args string
		if err := rows.Scan(&u.Path, &u.Owner, &u.OwnerKind, &u.Name, &args); err != nil {
			return nil, fmt.Errorf("failed to scan attribute: %w", err)
		}
		if u.Args, err = decodeArgs(args); err != nil {
			return nil, err
		}
		uses = append(uses, u)
	}
	return uses, rows.Err()
}

// FileFacts rebuilds the facts stored for path. Declaration offsets are
// not stored and come back as zero.
func (s *Store) FileFacts(path string) (*facts.Facts, error) {
	f := facts.New()
	err := sq.Select("content_hash", "had_errors").
		From("files").
		Where(sq.Eq{"path": path}).
		RunWith(s.db).
		QueryRow().
		Scan(&f.ContentHash, &f.HadErrors)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if err := s.loadTypes(path, f); err != nil {
		return nil, err
	}
	if err := s.loadBases(path, f); err != nil {
		return nil, err
	}
	if err := s.loadSymbols(path, f); err != nil {
		return nil, err
	}
	if err := s.loadAttributes(path, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Store) loadTypes(path string, f *facts.Facts) error {
	rows, err := sq.Select("name", "kind", "flags").
		From("types").
		Where(sq.Eq{"path": path}).
		OrderBy("position").
		RunWith(s.db).
		Query()
	if err != nil {
		return fmt.Errorf("failed to read types of %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, kind, flags string
		if err := rows.Scan(&name, &kind, &flags); err != nil {
			return fmt.Errorf("failed to scan type: %w", err)
		}
		t := facts.NewTypeFacts(facts.TypeKind(kind), facts.NewAttributes())
		t.Flags = append(t.Flags, splitFlags(flags)...)
		f.Types.Set(name, t)
	}
	return rows.Err()
}

func (s *Store) loadBases(path string, f *facts.Facts) error {
	rows, err := sq.Select("type_name", "base_name", "relation").
		From("type_bases").
		Where(sq.Eq{"path": path}).
		OrderBy("relation", "ordinal").
		RunWith(s.db).
		Query()
	if err != nil {
		return fmt.Errorf("failed to read bases of %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var typeName, base, relation string
		if err := rows.Scan(&typeName, &base, &relation); err != nil {
			return fmt.Errorf("failed to scan base: %w", err)
		}
		t, ok := f.Types.Get(typeName)
		if !ok {
			continue
		}
		switch relation {
		case RelationExtends:
			t.BaseTypes = append(t.BaseTypes, base)
		case RelationImplements:
			t.Interfaces = append(t.Interfaces, base)
		case RelationUses:
			t.Traits = append(t.Traits, base)
		case RelationRequireExtends:
			t.RequireExtends = append(t.RequireExtends, base)
		case RelationRequireImplements:
			t.RequireImplements = append(t.RequireImplements, base)
		}
	}
	return rows.Err()
}

func (s *Store) loadSymbols(path string, f *facts.Facts) error {
	rows, err := sq.Select("name", "kind").
		From("symbols").
		Where(sq.Eq{"path": path}).
		OrderBy("kind", "position").
		RunWith(s.db).
		Query()
	if err != nil {
		return fmt.Errorf("failed to read symbols of %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sym facts.Symbol
		var kind string
		if err := rows.Scan(&sym.Name, &kind); err != nil {
			return fmt.Errorf("failed to scan symbol: %w", err)
		}
		sym.Attributes = facts.NewAttributes()
		switch kind {
		case OwnerFunction:
			f.Functions = append(f.Functions, sym)
		case OwnerConstant:
			f.Constants = append(f.Constants, sym)
		case OwnerTypeAlias:
			f.TypeAliases = append(f.TypeAliases, sym)
		}
	}
	return rows.Err()
}

func (s *Store) loadAttributes(path string, f *facts.Facts) error {
	rows, err := sq.Select("owner", "owner_kind", "name", "args_json").
		From("attributes").
		Where(sq.Eq{"path": path}).
		OrderBy("owner_kind", "owner", "position").
		RunWith(s.db).
		Query()
	if err != nil {
		return fmt.Errorf("failed to read attributes of %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner, ownerKind, name, argsJSON string
		if err := rows.Scan(&owner, &ownerKind, &name, &argsJSON); err != nil {
			return fmt.Errorf("failed to scan attribute: %w", err)
		}
		args, err := decodeArgs(argsJSON)
		if err != nil {
			return err
		}
		if attrs := ownerAttributes(f, ownerKind, owner); attrs != nil {
			attrs.Set(name, args)
		}
	}
	return rows.Err()
}

func ownerAttributes(f *facts.Facts, kind, owner string) facts.Attributes {
	find := func(symbols []facts.Symbol) facts.Attributes {
		for _, s := range symbols {
			if s.Name == owner {
				return s.Attributes
			}
		}
		return nil
	}
	switch kind {
	case OwnerFile:
		return f.FileAttributes
	case OwnerType:
		if t, ok := f.Types.Get(owner); ok {
			return t.Attributes
		}
	case OwnerFunction:
		return find(f.Functions)
	case OwnerConstant:
		return find(f.Constants)
	case OwnerTypeAlias:
		return find(f.TypeAliases)
	}
	return nil
}

func splitFlags(s string) []facts.Flag {
	flags := []facts.Flag{}
	if s == "" {
		return flags
	}
	for _, part := range strings.Split(s, ",") {
		flags = append(flags, facts.Flag(part))
	}
	return flags
}

// decodeArgs restores attribute arguments, keeping integers as int64 the
// way extraction produces them.
func decodeArgs(data string) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode attribute arguments %q: %w", data, err)
	}
	args := make([]any, len(raw))
	for i, v := range raw {
		n, ok := v.(json.Number)
		if !ok {
			args[i] = v
			continue
		}
		if i64, err := n.Int64(); err == nil && !strings.ContainsAny(n.String(), ".eE") {
			args[i] = i64
		} else if f64, err := n.Float64(); err == nil {
			args[i] = f64
		} else {
			args[i] = n.String()
		}
	}
	return args, nil
}
