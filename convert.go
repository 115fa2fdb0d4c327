package main

import "strings"

// FileInput is the core input contract: DDL source text tagged with a
// file identity, plus an optional dialect hint from the caller (the
// directory scanner knows mysql-*/postgresql-* prefixes; live snapshot
// sources know their own engine).
type FileInput struct {
	Identity string
	Text     string
	Hint     *Dialect
}

// ConvertOptions carries the config knobs that reach the core.
type ConvertOptions struct {
	TypeOverrides map[string]string
	Emit          EmitOptions
}

func defaultConvertOptions() ConvertOptions {
	return ConvertOptions{Emit: defaultEmitOptions()}
}

// convertSchema runs one logical schema through the whole pipeline:
// detect, tokenize, parse, assemble, resolve, emit. Per-file problems
// degrade to warnings; a duplicate table identity is fatal for this
// schema (and only this schema).
func convertSchema(name string, databaseType *Dialect, inputs []FileInput, opts ConvertOptions) (*Schema, string, *Report, error) {
	report := &Report{}

	dbType := DialectMySQL
	if databaseType != nil {
		dbType = *databaseType
	} else if len(inputs) > 0 {
		dbType = dialectFor(inputs[0])
	}

	asm := NewAssembler(name, dbType)
	for _, in := range inputs {
		d := dialectFor(in)

		stmts, err := extractStatements(in.Text, d)
		if err != nil {
			report.warnf(in.Identity, "", "file skipped: %v", err)
			report.FilesSkipped++
			continue
		}
		if len(stmts) == 0 {
			report.warnf(in.Identity, "", "no CREATE TABLE statement found")
			report.FilesSkipped++
			continue
		}
		report.FilesParsed++

		for _, st := range stmts {
			table, fks := buildTable(st, d, in.Identity, opts, report)
			if err := asm.AddTable(table); err != nil {
				return nil, "", report, err
			}
			for _, fk := range fks {
				asm.AddForeignKey(fk)
			}
			report.TablesParsed++
		}
	}

	schema := asm.Finalize()
	resolveSchema(schema, report)
	text := emitSchema(schema, opts.Emit)
	return schema, text, report, nil
}

func dialectFor(in FileInput) Dialect {
	if in.Hint != nil {
		return *in.Hint
	}
	return detectDialect(in.Text)
}

// buildTable turns one tokenized CREATE TABLE statement into a Table
// plus the foreign keys discovered on it.
func buildTable(st rawStatement, dialect Dialect, file string, opts ConvertOptions, report *Report) (*Table, []ForeignKey) {
	t := &Table{Name: st.Name, Dialect: dialect, File: file}
	var fks []ForeignKey

	for _, clause := range splitClauses(st.Body) {
		col, con, err := parseClause(clause, dialect)
		switch {
		case err != nil:
			report.warnf(file, st.Name.String(), "clause skipped: %v", err)

		case col != nil:
			if t.Column(col.Name) != nil {
				report.warnf(file, st.Name.String(), "duplicate column %s ignored", col.Name)
				continue
			}
			col.NormalizedType = normalizeType(col.RawType, dialect, opts.TypeOverrides)
			t.Columns = append(t.Columns, *col)

		case con != nil:
			applyConstraint(t, con, &fks, file, report)
		}
	}

	// Primary-key membership is authoritative: a PK column is always
	// non-nullable regardless of what the clause declared.
	markPrimaryKey(t, file, report)
	return t, fks
}

func applyConstraint(t *Table, con *constraintSpec, fks *[]ForeignKey, file string, report *Report) {
	switch con.Kind {
	case conPrimaryKey:
		if len(t.PrimaryKey) > 0 {
			report.warnf(file, t.Name.String(), "multiple PRIMARY KEY constraints; keeping the first")
			return
		}
		t.PrimaryKey = con.Columns

	case conUnique:
		t.Indexes = append(t.Indexes, Index{Name: con.Name, Columns: con.Columns, Unique: true})

	case conIndex:
		t.Indexes = append(t.Indexes, Index{Name: con.Name, Columns: con.Columns})

	case conForeignKey:
		*fks = append(*fks, ForeignKey{
			ConstraintName: con.Name,
			SourceTable:    t.Name,
			SourceColumns:  con.Columns,
			TargetTable:    con.RefTable,
			TargetColumns:  con.RefColumns,
			OnDelete:       con.OnDelete,
			OnUpdate:       con.OnUpdate,
		})
	}
}

func markPrimaryKey(t *Table, file string, report *Report) {
	// Inline PRIMARY KEY column attributes feed the table-level list.
	for i := range t.Columns {
		if t.Columns[i].PrimaryKey && !nameInList(t.PrimaryKey, t.Columns[i].Name) {
			t.PrimaryKey = append(t.PrimaryKey, t.Columns[i].Name)
		}
	}

	for _, pkCol := range t.PrimaryKey {
		c := t.Column(pkCol)
		if c == nil {
			report.warnf(file, t.Name.String(), "PRIMARY KEY references unknown column %s", pkCol)
			continue
		}
		if c.DeclaredNull {
			report.warnf(file, t.Name.String(),
				"column %s is declared NULL but is part of the primary key; treated as NOT NULL", c.Name)
		}
		c.PrimaryKey = true
		c.Nullable = false
	}
}

func nameInList(list []string, name string) bool {
	for _, n := range list {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
