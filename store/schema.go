package store

import (
	"database/sql"
	"fmt"
)

// Names are compared case-insensitively, as Hack resolves them.
const (
	createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
	path         TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	parser_mode  TEXT NOT NULL,
	had_errors   INTEGER NOT NULL,
	indexed_at   TEXT NOT NULL
)`

	createTypesTable = `
CREATE TABLE IF NOT EXISTS types (
	path     TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
	name     TEXT NOT NULL COLLATE NOCASE,
	kind     TEXT NOT NULL,
	flags    TEXT NOT NULL,
	position INTEGER NOT NULL
)`

	createTypeBasesTable = `
CREATE TABLE IF NOT EXISTS type_bases (
	path      TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
	type_name TEXT NOT NULL COLLATE NOCASE,
	base_name TEXT NOT NULL COLLATE NOCASE,
	relation  TEXT NOT NULL,
	ordinal   INTEGER NOT NULL
)`

	createSymbolsTable = `
CREATE TABLE IF NOT EXISTS symbols (
	path     TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
	name     TEXT NOT NULL COLLATE NOCASE,
	kind     TEXT NOT NULL,
	position INTEGER NOT NULL
)`

	createAttributesTable = `
CREATE TABLE IF NOT EXISTS attributes (
	path       TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
	owner      TEXT NOT NULL COLLATE NOCASE,
	owner_kind TEXT NOT NULL,
	name       TEXT NOT NULL COLLATE NOCASE,
	args_json  TEXT NOT NULL,
	position   INTEGER NOT NULL
)`
)

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_types_path ON types(path)`,
	`CREATE INDEX IF NOT EXISTS idx_types_name ON types(name)`,
	`CREATE INDEX IF NOT EXISTS idx_type_bases_base ON type_bases(base_name)`,
	`CREATE INDEX IF NOT EXISTS idx_type_bases_path ON type_bases(path)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_path ON symbols(path)`,
	`CREATE INDEX IF NOT EXISTS idx_attributes_name ON attributes(name)`,
	`CREATE INDEX IF NOT EXISTS idx_attributes_path ON attributes(path)`,
}

// CreateSchema creates every table and index in one transaction. It is
// safe to call on an existing database.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []struct {
		name string
		ddl  string
	}{
		{"files", createFilesTable},
		{"types", createTypesTable},
		{"type_bases", createTypeBasesTable},
		{"symbols", createSymbolsTable},
		{"attributes", createAttributesTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}
	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}
