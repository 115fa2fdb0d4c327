package main

import (
	"context"
	"database/sql"
	"fmt"
)

// TableDDL is one table's CREATE TABLE text as obtained from a live
// server. It feeds the same text-in pipeline as a .sql file would.
type TableDDL struct {
	Name string
	SQL  string
}

// SourceDB abstracts a live database the snapshot command can pull DDL
// text from. Each engine yields CREATE TABLE statements its own way:
// MySQL has SHOW CREATE TABLE, SQLite stores the literal text in
// sqlite_master, PostgreSQL reconstructs it from the catalogs.
type SourceDB interface {
	// Name returns a human-readable engine name.
	Name() string

	// OpenDB opens a connection with engine-specific DSN options.
	OpenDB(dsn string) (*sql.DB, error)

	// DefaultSchema is the schema snapshotted when the config names none.
	DefaultSchema() string

	// Hint is the dialect the produced DDL text is written in.
	Hint() Dialect

	// SnapshotDDL returns CREATE TABLE text for every base table in
	// the schema, ordered by table name for reproducible output.
	SnapshotDDL(ctx context.Context, db *sql.DB, schema string) ([]TableDDL, error)
}

// newSourceDB returns a SourceDB implementation for the given type.
func newSourceDB(sourceType string) (SourceDB, error) {
	switch sourceType {
	case "mysql":
		return &mysqlSourceDB{}, nil
	case "postgres":
		return &postgresSourceDB{}, nil
	case "sqlite":
		return &sqliteSourceDB{}, nil
	default:
		return nil, fmt.Errorf("unsupported source type %q (must be mysql, postgres or sqlite)", sourceType)
	}
}
