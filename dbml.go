package main

import (
	"fmt"
	"regexp"
	"strings"
)

// EmitOptions controls optional parts of the DBML output. All options
// default to on; they exist for diff-pipeline callers that want a
// narrower artifact.
type EmitOptions struct {
	IncludeProject     bool
	IncludeIndexes     bool
	SplitCompositeRefs bool
}

func defaultEmitOptions() EmitOptions {
	return EmitOptions{IncludeProject: true, IncludeIndexes: true, SplitCompositeRefs: true}
}

// emitSchema renders the finished schema as DBML. Emission is pure:
// identical schema state always yields byte-identical text, which the
// diff-based pipelines downstream rely on.
func emitSchema(s *Schema, opts EmitOptions) string {
	var b strings.Builder

	if opts.IncludeProject {
		fmt.Fprintf(&b, "Project %s {\n", dbmlIdent(s.Name))
		fmt.Fprintf(&b, "  database_type: '%s'\n", s.DatabaseType)
		b.WriteString("}\n\n")
	}

	for _, t := range s.Tables() {
		emitTable(&b, t, opts)
		b.WriteByte('\n')
	}

	refs := buildRefLines(s, opts)
	if len(refs) > 0 {
		b.WriteString("// Relationships\n")
		for _, r := range refs {
			b.WriteString(r)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func emitTable(b *strings.Builder, t *Table, opts EmitOptions) {
	pk := make(map[string]bool, len(t.PrimaryKey))
	for _, c := range t.PrimaryKey {
		pk[strings.ToLower(c)] = true
	}

	fmt.Fprintf(b, "Table %s {\n", dbmlIdent(t.Name.Name))
	for i := range t.Columns {
		col := &t.Columns[i]
		isPK := col.PrimaryKey || pk[strings.ToLower(col.Name)]
		fmt.Fprintf(b, "  %s\n", columnLine(col, isPK))
	}

	if opts.IncludeIndexes && len(t.Indexes) > 0 {
		b.WriteString("\n  Indexes {\n")
		for _, idx := range t.Indexes {
			cols := make([]string, len(idx.Columns))
			for i, c := range idx.Columns {
				cols[i] = actualColumnName(t, c)
			}
			if idx.Unique {
				fmt.Fprintf(b, "    (%s) [unique]\n", strings.Join(cols, ", "))
			} else {
				fmt.Fprintf(b, "    (%s)\n", strings.Join(cols, ", "))
			}
		}
		b.WriteString("  }\n")
	}
	b.WriteString("}\n")
}

// columnLine renders one column with its inline attribute flags in the
// fixed order pk, increment, not null, unique, default.
func columnLine(col *Column, isPK bool) string {
	typ := col.NormalizedType
	if typ == "" {
		typ = strings.ToLower(col.RawType)
	}

	var attrs []string
	if isPK {
		attrs = append(attrs, "pk")
	}
	if col.AutoIncrement {
		attrs = append(attrs, "increment")
	}
	// Primary-key membership is authoritative for nullability.
	if !col.Nullable || isPK {
		attrs = append(attrs, "not null")
	}
	if col.Unique && !isPK {
		attrs = append(attrs, "unique")
	}
	if col.Default != nil {
		attrs = append(attrs, "default: "+defaultLiteral(*col.Default, col.DefaultIsExpr))
	}

	line := dbmlIdent(col.Name) + " " + typ
	if len(attrs) > 0 {
		line += " [" + strings.Join(attrs, ", ") + "]"
	}
	return line
}

var (
	dateLikeRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}( \d{2}:\d{2}:\d{2})?$|^\d{2}:\d{2}:\d{2}$`)
	ipLikeRe    = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){1,3}$`)
	numericRe   = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	plainNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// defaultLiteral renders a DEFAULT value the way dbdiagram.io accepts
// it: function expressions in backticks, numerics and booleans bare,
// everything else as a quoted string. Date-shaped and IP-shaped values
// look numeric-ish but must stay strings.
func defaultLiteral(v string, isExpr bool) string {
	if isExpr {
		if strings.EqualFold(v, "CURRENT_TIMESTAMP") {
			return "`now()`"
		}
		return "`" + v + "`"
	}
	switch {
	case strings.EqualFold(v, "NULL"):
		return "null"
	case strings.EqualFold(v, "true"), strings.EqualFold(v, "false"):
		return strings.ToLower(v)
	case dateLikeRe.MatchString(v), ipLikeRe.MatchString(v):
		return "'" + v + "'"
	case numericRe.MatchString(v):
		return v
	default:
		return "'" + escapeDBMLString(v) + "'"
	}
}

func escapeDBMLString(v string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
		"'", `\'`,
	)
	return r.Replace(v)
}

// dbmlIdent quotes a table or column name when it contains characters
// DBML cannot take bare.
func dbmlIdent(name string) string {
	if plainNameRe.MatchString(name) {
		return name
	}
	return `"` + name + `"`
}

// buildRefLines renders resolved foreign keys as Ref lines in
// discovery order. Composite keys split into per-column refs because
// dbdiagram.io handles composite relationship syntax unreliably;
// duplicate lines (common with hand-copied constraints) collapse.
func buildRefLines(s *Schema, opts EmitOptions) []string {
	var lines []string
	seen := make(map[string]bool)

	emit := func(srcTable *Table, srcCol string, dstTable *Table, dstCol string) {
		line := fmt.Sprintf("Ref: %s.%s > %s.%s",
			dbmlIdent(srcTable.Name.Name), dbmlIdent(actualColumnName(srcTable, srcCol)),
			dbmlIdent(dstTable.Name.Name), dbmlIdent(actualColumnName(dstTable, dstCol)))
		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}

	for i := range s.ForeignKeys {
		fk := &s.ForeignKeys[i]
		if fk.Unresolved {
			continue
		}
		src := s.Table(fk.SourceTable)
		dst := s.Table(fk.TargetTable)
		if src == nil || dst == nil {
			continue
		}
		if len(fk.SourceColumns) == 1 {
			emit(src, fk.SourceColumns[0], dst, fk.TargetColumns[0])
			continue
		}
		if opts.SplitCompositeRefs {
			for j := range fk.SourceColumns {
				emit(src, fk.SourceColumns[j], dst, fk.TargetColumns[j])
			}
			continue
		}
		srcCols := make([]string, len(fk.SourceColumns))
		dstCols := make([]string, len(fk.TargetColumns))
		for j := range fk.SourceColumns {
			srcCols[j] = dbmlIdent(actualColumnName(src, fk.SourceColumns[j]))
			dstCols[j] = dbmlIdent(actualColumnName(dst, fk.TargetColumns[j]))
		}
		line := fmt.Sprintf("Ref: %s.(%s) > %s.(%s)",
			dbmlIdent(src.Name.Name), strings.Join(srcCols, ", "),
			dbmlIdent(dst.Name.Name), strings.Join(dstCols, ", "))
		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}
	return lines
}

// actualColumnName maps a possibly wrongly-cased reference to the
// declared column spelling, so Ref and Indexes lines always match the
// Table block.
func actualColumnName(t *Table, name string) string {
	if c := t.Column(name); c != nil {
		return c.Name
	}
	return name
}
