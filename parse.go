package main

import (
	"fmt"
	"regexp"
	"strings"
)

type constraintKind int

const (
	conPrimaryKey constraintKind = iota
	conUnique
	conIndex
	conForeignKey
)

// constraintSpec is one parsed table-level constraint clause. The FK
// fields are populated only for conForeignKey.
type constraintSpec struct {
	Kind       constraintKind
	Name       string
	Columns    []string
	RefTable   QualifiedName
	RefColumns []string
	OnDelete   string
	OnUpdate   string
}

// clauseParser is the per-dialect column parsing strategy. Constraint
// grammar is close enough across dialects to share one implementation;
// column grammar is not.
type clauseParser interface {
	ParseColumn(clause string) (*Column, error)
}

func parserFor(d Dialect) clauseParser {
	if d.IsPostgres() {
		return postgresParser{}
	}
	return mysqlParser{}
}

// parseClause turns one body clause into a column or a constraint.
// Exactly one of the two results is non-nil on success. A clause that
// fits neither grammar returns an error; the caller records it as a
// warning and keeps going, since hand-edited DDL is expected to carry
// occasional non-standard syntax.
func parseClause(clause string, dialect Dialect) (*Column, *constraintSpec, error) {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return nil, nil, fmt.Errorf("empty clause")
	}

	if spec, ok, err := parseConstraintClause(clause, dialect); ok {
		return nil, spec, err
	}

	col, err := parserFor(dialect).ParseColumn(clause)
	if err != nil {
		return nil, nil, err
	}
	return col, nil, nil
}

var (
	fkRe       = regexp.MustCompile(`(?is)FOREIGN\s+KEY\s*\(([^)]*)\)\s*REFERENCES\s+([^\s(]+)\s*\(([^)]*)\)`)
	onDeleteRe = regexp.MustCompile(`(?is)ON\s+DELETE\s+(CASCADE|SET\s+NULL|SET\s+DEFAULT|RESTRICT|NO\s+ACTION)`)
	onUpdateRe = regexp.MustCompile(`(?is)ON\s+UPDATE\s+(CASCADE|SET\s+NULL|SET\s+DEFAULT|RESTRICT|NO\s+ACTION)`)
	lenSpecRe  = regexp.MustCompile(`\(\d+\)$`)
)

// parseConstraintClause recognizes PRIMARY KEY, UNIQUE [KEY|INDEX],
// KEY/INDEX and CONSTRAINT ... FOREIGN KEY clauses. ok reports whether
// the clause is constraint-shaped at all; err reports a constraint that
// was recognized but could not be extracted.
func parseConstraintClause(clause string, dialect Dialect) (*constraintSpec, bool, error) {
	rest := clause
	upper := strings.ToUpper(rest)
	var name string

	if strings.HasPrefix(upper, "CONSTRAINT") {
		after := strings.TrimSpace(rest[len("CONSTRAINT"):])
		if after == "" {
			return nil, true, fmt.Errorf("bare CONSTRAINT clause")
		}
		part, _, next, err := readIdentifierPart(after, 0)
		if err != nil {
			return nil, true, err
		}
		name = cleanIdentifier(part)
		rest = strings.TrimSpace(after[next:])
		upper = strings.ToUpper(rest)
	}

	switch {
	case strings.HasPrefix(upper, "PRIMARY KEY"):
		cols, err := columnsInParens(rest)
		if err != nil {
			return nil, true, fmt.Errorf("primary key: %w", err)
		}
		return &constraintSpec{Kind: conPrimaryKey, Name: name, Columns: cols}, true, nil

	case strings.HasPrefix(upper, "UNIQUE"):
		cols, err := columnsInParens(rest)
		if err != nil {
			return nil, true, fmt.Errorf("unique constraint: %w", err)
		}
		if name == "" {
			name = indexNameBeforeParens(rest, "UNIQUE")
		}
		return &constraintSpec{Kind: conUnique, Name: name, Columns: cols}, true, nil

	case strings.HasPrefix(upper, "FOREIGN KEY"):
		spec, err := parseForeignKeyClause(rest, dialect)
		if err != nil {
			return nil, true, err
		}
		spec.Name = name
		return spec, true, nil

	case strings.HasPrefix(upper, "KEY"), strings.HasPrefix(upper, "INDEX"),
		strings.HasPrefix(upper, "FULLTEXT"), strings.HasPrefix(upper, "SPATIAL"):
		cols, err := columnsInParens(rest)
		if err != nil {
			return nil, true, fmt.Errorf("index: %w", err)
		}
		if name == "" {
			name = indexNameBeforeParens(rest, "")
		}
		return &constraintSpec{Kind: conIndex, Name: name, Columns: cols}, true, nil

	case strings.HasPrefix(upper, "CHECK"):
		// CHECK constraints beyond column-level NOT NULL are out of
		// scope; recognized and dropped without a warning.
		return nil, true, nil
	}

	return nil, false, nil
}

func parseForeignKeyClause(clause string, dialect Dialect) (*constraintSpec, error) {
	m := fkRe.FindStringSubmatch(clause)
	if m == nil {
		return nil, fmt.Errorf("unparseable FOREIGN KEY clause")
	}
	srcCols := splitColumnList(m[1])
	refCols := splitColumnList(m[3])
	if len(srcCols) == 0 || len(refCols) == 0 {
		return nil, fmt.Errorf("FOREIGN KEY with empty column list")
	}
	if len(srcCols) != len(refCols) {
		return nil, fmt.Errorf("FOREIGN KEY column count mismatch: %d vs %d", len(srcCols), len(refCols))
	}

	ref, _, err := readQualifiedName(m[2], 0, dialect)
	if err != nil {
		return nil, fmt.Errorf("FOREIGN KEY referenced table: %w", err)
	}

	spec := &constraintSpec{
		Kind:       conForeignKey,
		Columns:    srcCols,
		RefTable:   ref,
		RefColumns: refCols,
		OnDelete:   "NO ACTION",
		OnUpdate:   "NO ACTION",
	}
	if m := onDeleteRe.FindStringSubmatch(clause); m != nil {
		spec.OnDelete = normalizeAction(m[1])
	}
	if m := onUpdateRe.FindStringSubmatch(clause); m != nil {
		spec.OnUpdate = normalizeAction(m[1])
	}
	return spec, nil
}

func normalizeAction(a string) string {
	return strings.ToUpper(strings.Join(strings.Fields(a), " "))
}

// columnsInParens extracts the column list from the first top-level
// paren group of a constraint clause, dropping MySQL prefix lengths
// like reference_no(767).
func columnsInParens(clause string) ([]string, error) {
	open := strings.IndexByte(clause, '(')
	if open < 0 {
		return nil, fmt.Errorf("missing column list")
	}
	inner, _, err := scanParenBody(clause, open)
	if err != nil {
		return nil, err
	}
	cols := splitColumnList(inner)
	if len(cols) == 0 {
		return nil, fmt.Errorf("empty column list")
	}
	return cols, nil
}

func splitColumnList(list string) []string {
	var cols []string
	for _, part := range splitClauses(list) {
		part = lenSpecRe.ReplaceAllString(strings.TrimSpace(part), "")
		// Drop ASC/DESC ordering suffixes.
		if i := strings.IndexAny(part, " \t"); i >= 0 {
			part = part[:i]
		}
		if c := cleanIdentifier(part); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// indexNameBeforeParens pulls the optional index name out of
// "UNIQUE KEY `uniq_email` (`email`)" style clauses.
func indexNameBeforeParens(clause, lead string) string {
	open := strings.IndexByte(clause, '(')
	if open < 0 {
		return ""
	}
	head := strings.TrimSpace(clause[:open])
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	switch strings.ToUpper(last) {
	case "KEY", "INDEX", "UNIQUE", "FULLTEXT", "SPATIAL", lead:
		return ""
	}
	return cleanIdentifier(last)
}

// stripInlineComment removes a trailing COMMENT '...' from a column
// clause so literal commas and keywords inside the comment cannot leak
// into attribute parsing.
var commentRe = regexp.MustCompile(`(?is)\sCOMMENT\s+('(?:[^']|'')*'|"(?:[^"]|"")*")`)

func stripInlineComment(clause string) string {
	return commentRe.ReplaceAllString(clause, " ")
}

// maskQuoted blanks the interior of quoted string regions so keyword
// scans over column attributes cannot match words inside a DEFAULT
// literal like 'unique' or 'not null'. extractDefault still reads the
// original text.
func maskQuoted(s string) string {
	b := []byte(s)
	var quote byte
	for i := 0; i < len(b); i++ {
		c := b[i]
		if quote == 0 {
			if c == '\'' || c == '"' {
				quote = c
			}
			continue
		}
		if c == '\\' && quote == '\'' && i+1 < len(b) {
			b[i], b[i+1] = ' ', ' '
			i++
			continue
		}
		if c == quote {
			if quote == '\'' && i+1 < len(b) && b[i+1] == '\'' {
				b[i], b[i+1] = ' ', ' '
				i++
				continue
			}
			quote = 0
			continue
		}
		b[i] = ' '
	}
	return string(b)
}

// extractDefault pulls the DEFAULT expression out of the attribute text
// following a column's type. Returns nil when no DEFAULT is present.
// isExpr reports a function-valued default (rendered in backticks by
// the emitter) as opposed to a literal.
func extractDefault(attrs string) (value *string, isExpr bool) {
	upper := strings.ToUpper(attrs)
	idx := indexWord(upper, "DEFAULT")
	if idx < 0 {
		return nil, false
	}
	rest := strings.TrimSpace(attrs[idx+len("DEFAULT"):])
	if rest == "" {
		return nil, false
	}

	var raw string
	if rest[0] == '\'' || rest[0] == '"' {
		q := rest[0]
		i := 1
		for i < len(rest) {
			if rest[i] == '\\' && q == '\'' {
				i += 2
				continue
			}
			if rest[i] == q {
				if q == '\'' && i+1 < len(rest) && rest[i+1] == '\'' {
					i += 2
					continue
				}
				break
			}
			i++
		}
		if i >= len(rest) {
			return nil, false
		}
		lit := rest[1:i]
		lit = strings.ReplaceAll(lit, string(q)+string(q), string(q))
		lit = strings.ReplaceAll(lit, `\`+string(q), string(q))
		return &lit, false
	}

	// Bare token, optionally a function call: now(), nextval('...'::regclass)
	end := 0
	depth := 0
	for end < len(rest) {
		c := rest[end]
		if depth == 0 && (c == ' ' || c == '\t' || c == '\n' || c == ',') {
			break
		}
		if c == '(' {
			depth++
		}
		if c == ')' {
			depth--
			if depth == 0 {
				end++
				break
			}
		}
		end++
	}
	raw = rest[:end]
	// Strip a PostgreSQL ::type cast suffix from typed literals.
	if i := strings.Index(raw, "::"); i >= 0 && !strings.Contains(raw[:i], "(") {
		raw = raw[:i]
		raw = strings.Trim(raw, "'")
	}
	if raw == "" {
		return nil, false
	}
	isExpr = strings.Contains(raw, "(") || isDefaultExprKeyword(raw)
	return &raw, isExpr
}

func isDefaultExprKeyword(s string) bool {
	switch strings.ToUpper(s) {
	case "CURRENT_TIMESTAMP", "CURRENT_DATE", "CURRENT_TIME", "LOCALTIME", "LOCALTIMESTAMP", "NOW":
		return true
	}
	return false
}

// indexWord finds a whole-word, case-sensitive occurrence of word in s
// (callers pass pre-uppercased text).
func indexWord(s, word string) int {
	for from := 0; ; {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return -1
		}
		i += from
		beforeOK := i == 0 || !isWordChar(s[i-1])
		after := i + len(word)
		afterOK := after >= len(s) || !isWordChar(s[after])
		if beforeOK && afterOK {
			return i
		}
		from = i + len(word)
	}
}

func isWordChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

func containsWord(s, word string) bool { return indexWord(s, word) >= 0 }

var defaultNullRe = regexp.MustCompile(`(?i)\bDEFAULT\s+NULL\b`)

// hasExplicitNull reports a standalone NULL nullability marker, as
// opposed to NOT NULL or DEFAULT NULL. Needed to flag the
// contradiction of a declared-nullable primary-key column.
func hasExplicitNull(attrs string) bool {
	cleaned := notNullRe.ReplaceAllString(attrs, " ")
	cleaned = defaultNullRe.ReplaceAllString(cleaned, " ")
	return containsWord(strings.ToUpper(cleaned), "NULL")
}
