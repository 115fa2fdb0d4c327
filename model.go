package main

import "strings"

// Dialect identifies the SQL grammar variant a DDL file was written in.
// It is assigned once per source file at detection time and governs
// identifier quoting and type vocabulary.
type Dialect int

const (
	DialectMySQL Dialect = iota
	DialectMariaDB
	DialectPostgreSQL
)

func (d Dialect) String() string {
	switch d {
	case DialectMariaDB:
		return "MariaDB"
	case DialectPostgreSQL:
		return "PostgreSQL"
	default:
		return "MySQL"
	}
}

// IsPostgres reports whether the dialect belongs to the PostgreSQL family.
// MySQL and MariaDB share a family; everything about quoting and type
// vocabulary is decided at family granularity.
func (d Dialect) IsPostgres() bool { return d == DialectPostgreSQL }

// QualifiedName identifies a table as an optional schema plus a name.
// PostgreSQL DDL routinely writes public."Admin"; MySQL files almost
// never carry a schema qualifier.
type QualifiedName struct {
	Schema string
	Name   string
}

func (q QualifiedName) String() string {
	if q.Schema != "" {
		return q.Schema + "." + q.Name
	}
	return q.Name
}

// key returns the case-insensitive lookup key used by Schema.tables.
func (q QualifiedName) key() string {
	return strings.ToLower(q.Name)
}

// Column is a single parsed column definition.
type Column struct {
	Name           string
	RawType        string // as written, e.g. "bigint(20) unsigned", "character varying(255)"
	NormalizedType string // canonical token, e.g. "bigint", "varchar(255)"
	Nullable       bool
	DeclaredNull   bool    // clause carried an explicit bare NULL
	Default        *string // literal or expression text, nil if absent
	DefaultIsExpr  bool    // true for function-valued defaults (now(), CURRENT_TIMESTAMP)
	PrimaryKey     bool
	AutoIncrement  bool
	Unique         bool
	EnumValues     []string // retained for enum/set even though DBML output drops them
}

// Index is a non-primary index on one or more columns.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// ForeignKey is one referential edge between two tables. Source and
// target columns are paired positionally.
type ForeignKey struct {
	ConstraintName string
	SourceTable    QualifiedName
	SourceColumns  []string
	TargetTable    QualifiedName
	TargetColumns  []string
	OnDelete       string // NO ACTION when absent in source
	OnUpdate       string
	Unresolved     bool // edge could not be safely resolved; omitted from emission
}

// Table holds one parsed CREATE TABLE result. Column order is
// declaration order and is significant for emission.
type Table struct {
	Name       QualifiedName
	Columns    []Column
	PrimaryKey []string // column names, empty when the table has no PK
	Indexes    []Index
	Dialect    Dialect
	File       string // source file identity, for reporting
}

// Column returns the table's column with the given name
// (case-insensitive), or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return &t.Columns[i]
		}
	}
	return nil
}

// Schema owns all tables of one logical schema and the foreign-key
// edges collected across them, in file-processing order.
type Schema struct {
	Name         string
	DatabaseType Dialect
	tables       map[string]*Table
	order        []string // table keys in insertion order
	ForeignKeys  []ForeignKey
}

// Tables returns the schema's tables in insertion order.
func (s *Schema) Tables() []*Table {
	out := make([]*Table, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.tables[k])
	}
	return out
}

// Table looks a table up by qualified name, case-insensitively.
func (s *Schema) Table(q QualifiedName) *Table {
	return s.tables[q.key()]
}

// FixAction classifies a repair the resolver performed.
type FixAction int

const (
	FixAdded FixAction = iota
	FixTypeCorrected
)

func (a FixAction) String() string {
	if a == FixTypeCorrected {
		return "TYPE_CORRECTED"
	}
	return "ADDED"
}

// FixRecord describes one auto-correction made by the resolver.
// Records are append-only; callers consume them for reporting.
type FixRecord struct {
	Table    QualifiedName
	Column   string
	Action   FixAction
	FromType string // empty for ADDED
	ToType   string
}
