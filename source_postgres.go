package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx"
)

type postgresSourceDB struct{}

func (p *postgresSourceDB) Name() string { return "PostgreSQL" }

func (p *postgresSourceDB) OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (p *postgresSourceDB) DefaultSchema() string { return "public" }

func (p *postgresSourceDB) Hint() Dialect { return DialectPostgreSQL }

// SnapshotDDL reconstructs CREATE TABLE text from the catalogs.
// PostgreSQL has no SHOW CREATE TABLE, so the text is rebuilt from
// information_schema in the same shape pg_dump writes: one column per
// line, table-level PRIMARY KEY and FOREIGN KEY constraints.
func (p *postgresSourceDB) SnapshotDDL(ctx context.Context, db *sql.DB, schema string) ([]TableDDL, error) {
	if schema == "" {
		schema = p.DefaultSchema()
	}

	rows, err := db.QueryContext(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		 ORDER BY table_name`,
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
		ddl, err := reconstructPostgresTable(ctx, db, schema, name)
		if err != nil {
			return nil, fmt.Errorf("reconstruct %s.%s: %w", schema, name, err)
		}
		out = append(out, TableDDL{Name: name, SQL: ddl})
	}
	return out, nil
}

func reconstructPostgresTable(ctx context.Context, db *sql.DB, schema, table string) (string, error) {
	type pgCol struct {
		name, dataType string
		charLen        sql.NullInt64
		precision      sql.NullInt64
		scale          sql.NullInt64
		nullable       string
		dflt           sql.NullString
	}

	rows, err := db.QueryContext(ctx,
		`SELECT column_name, data_type, character_maximum_length,
		        numeric_precision, numeric_scale, is_nullable, column_default
		 FROM information_schema.columns
		 WHERE table_schema = $1 AND table_name = $2
		 ORDER BY ordinal_position`,
		schema, table,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var cols []pgCol
	for rows.Next() {
		var c pgCol
		if err := rows.Scan(&c.name, &c.dataType, &c.charLen, &c.precision, &c.scale, &c.nullable, &c.dflt); err != nil {
			return "", err
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	var clauses []string
	for _, c := range cols {
		typ := c.dataType
		switch c.dataType {
		case "character varying", "character":
			if c.charLen.Valid {
				typ = fmt.Sprintf("%s(%d)", c.dataType, c.charLen.Int64)
			}
		case "numeric":
			if c.precision.Valid && c.scale.Valid {
				typ = fmt.Sprintf("numeric(%d,%d)", c.precision.Int64, c.scale.Int64)
			}
		}
		line := fmt.Sprintf("    %s %s", pgQuoteIdent(c.name), typ)
		if c.nullable == "NO" {
			line += " NOT NULL"
		}
		if c.dflt.Valid {
			line += " DEFAULT " + c.dflt.String
		}
		clauses = append(clauses, line)
	}

	pkCols, err := postgresPrimaryKey(ctx, db, schema, table)
	if err != nil {
		return "", err
	}
	if len(pkCols) > 0 {
		clauses = append(clauses, fmt.Sprintf("    PRIMARY KEY (%s)", strings.Join(pkCols, ", ")))
	}

	fkClauses, err := postgresForeignKeys(ctx, db, schema, table)
	if err != nil {
		return "", err
	}
	clauses = append(clauses, fkClauses...)

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s.%s (\n", schema, pgQuoteIdent(table))
	b.WriteString(strings.Join(clauses, ",\n"))
	b.WriteString("\n);")
	return b.String(), nil
}

func postgresPrimaryKey(ctx context.Context, db *sql.DB, schema, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT kcu.column_name
		 FROM information_schema.table_constraints tc
		 JOIN information_schema.key_column_usage kcu
		   ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		 WHERE tc.constraint_type = 'PRIMARY KEY'
		   AND tc.table_schema = $1 AND tc.table_name = $2
		 ORDER BY kcu.ordinal_position`,
		schema, table,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cols = append(cols, pgQuoteIdent(c))
	}
	return cols, rows.Err()
}

func postgresForeignKeys(ctx context.Context, db *sql.DB, schema, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT tc.constraint_name, kcu.column_name,
		        ccu.table_name, ccu.column_name,
		        rc.delete_rule, rc.update_rule
		 FROM information_schema.table_constraints tc
		 JOIN information_schema.key_column_usage kcu
		   ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		 JOIN information_schema.referential_constraints rc
		   ON tc.constraint_name = rc.constraint_name AND tc.table_schema = rc.constraint_schema
		 JOIN information_schema.constraint_column_usage ccu
		   ON rc.unique_constraint_name = ccu.constraint_name
		  AND rc.unique_constraint_schema = ccu.table_schema
		 WHERE tc.constraint_type = 'FOREIGN KEY'
		   AND tc.table_schema = $1 AND tc.table_name = $2
		 ORDER BY tc.constraint_name, kcu.ordinal_position`,
		schema, table,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type fkAgg struct {
		name, refTable, onDelete, onUpdate string
		cols, refCols                      []string
	}
	var order []string
	agg := make(map[string]*fkAgg)
	for rows.Next() {
		var name, col, refTable, refCol, del, upd string
		if err := rows.Scan(&name, &col, &refTable, &refCol, &del, &upd); err != nil {
			return nil, err
		}
		f, ok := agg[name]
		if !ok {
			f = &fkAgg{name: name, refTable: refTable, onDelete: del, onUpdate: upd}
			agg[name] = f
			order = append(order, name)
		}
		f.cols = append(f.cols, pgQuoteIdent(col))
		f.refCols = append(f.refCols, pgQuoteIdent(refCol))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var clauses []string
	for _, name := range order {
		f := agg[name]
		clause := fmt.Sprintf("    CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			pgQuoteIdent(f.name), strings.Join(f.cols, ", "), pgQuoteIdent(f.refTable), strings.Join(f.refCols, ", "))
		if f.onDelete != "" && f.onDelete != "NO ACTION" {
			clause += " ON DELETE " + f.onDelete
		}
		if f.onUpdate != "" && f.onUpdate != "NO ACTION" {
			clause += " ON UPDATE " + f.onUpdate
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

// pgQuoteIdent quotes an identifier only when it needs it; unquoted
// lower-case identifiers round-trip through the parser unchanged.
func pgQuoteIdent(name string) string {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' || c == '_' || i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return name
}
