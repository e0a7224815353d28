// Package index extracts facts from every matching file under a project
// root and hands them to a Sink, usually the SQLite store.
package index
