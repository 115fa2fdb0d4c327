package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

type mysqlSourceDB struct{}

func (m *mysqlSourceDB) Name() string { return "MySQL" }

func (m *mysqlSourceDB) OpenDB(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// DefaultSchema extracts the database name from the DSN; MySQL DDL is
// snapshotted per database.
func (m *mysqlSourceDB) DefaultSchema() string { return "" }

func (m *mysqlSourceDB) Hint() Dialect { return DialectMySQL }

// SnapshotDDL pulls SHOW CREATE TABLE output for every base table.
// The server hands back exactly the DDL text the file-based pipeline
// expects, backticks and all.
func (m *mysqlSourceDB) SnapshotDDL(ctx context.Context, db *sql.DB, schema string) ([]TableDDL, error) {
	if schema == "" {
		var err error
		if schema, err = currentMySQLDatabase(ctx, db); err != nil {
			return nil, err
		}
	}

	rows, err := db.QueryContext(ctx,
		`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		 WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		 ORDER BY TABLE_NAME`,
		schema,
	)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []TableDDL
	for _, name := range names {
		var gotName, ddl string
		query := fmt.Sprintf("SHOW CREATE TABLE %s.%s", mysqlQuoteIdent(schema), mysqlQuoteIdent(name))
		if err := db.QueryRowContext(ctx, query).Scan(&gotName, &ddl); err != nil {
			return nil, fmt.Errorf("show create table %s: %w", name, err)
		}
		out = append(out, TableDDL{Name: name, SQL: ddl + ";"})
	}
	return out, nil
}

func currentMySQLDatabase(ctx context.Context, db *sql.DB) (string, error) {
	var name sql.NullString
	if err := db.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&name); err != nil {
		return "", fmt.Errorf("current database: %w", err)
	}
	if !name.Valid || name.String == "" {
		return "", fmt.Errorf("no database selected; put the database name in the DSN or in snapshot.schemas")
	}
	return name.String, nil
}

func mysqlQuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
