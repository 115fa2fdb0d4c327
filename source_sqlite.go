package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

type sqliteSourceDB struct{}

func (s *sqliteSourceDB) Name() string { return "SQLite" }

func (s *sqliteSourceDB) OpenDB(dsn string) (*sql.DB, error) {
	uri, err := sqliteReadOnlyURI(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// DefaultSchema is "main"; a SQLite file has exactly one schema of
// interest and sqlite_master does not take a schema filter anyway.
func (s *sqliteSourceDB) DefaultSchema() string { return "main" }

// Hint is MySQL: sqlite_master text is MySQL-shaped for everything the
// parser looks at (backtick and double-quote identifiers both tokenize,
// and the column parser accepts the AUTOINCREMENT spelling).
func (s *sqliteSourceDB) Hint() Dialect { return DialectMySQL }

// SnapshotDDL reads the literal CREATE TABLE text SQLite keeps in
// sqlite_master.
func (s *sqliteSourceDB) SnapshotDDL(ctx context.Context, db *sql.DB, _ string) ([]TableDDL, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name, sql FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND sql IS NOT NULL
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("read sqlite_master: %w", err)
	}
	defer rows.Close()

	var out []TableDDL
	for rows.Next() {
		var name, ddl string
		if err := rows.Scan(&name, &ddl); err != nil {
			return nil, err
		}
		if !strings.HasSuffix(strings.TrimSpace(ddl), ";") {
			ddl += ";"
		}
		out = append(out, TableDDL{Name: name, SQL: ddl})
	}
	return out, rows.Err()
}

// sqliteReadOnlyURI forces mode=ro so a snapshot can never write to the
// database file.
func sqliteReadOnlyURI(dsn string) (string, error) {
	if dsn == ":memory:" || dsn == "file::memory:" || strings.Contains(dsn, "mode=memory") {
		return "", fmt.Errorf("in-memory SQLite databases are not supported")
	}

	if !strings.HasPrefix(dsn, "file:") {
		return "file:" + dsn + "?mode=ro", nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse sqlite URI: %w", err)
	}
	q := u.Query()
	q.Set("mode", "ro")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
