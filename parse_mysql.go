package main

import (
	"fmt"
	"regexp"
	"strings"
)

// mysqlParser handles MySQL and MariaDB column clauses. The two share
// one grammar; the Dialect tag only matters for reporting.
type mysqlParser struct{}

var (
	notNullRe  = regexp.MustCompile(`(?i)\bNOT\s+NULL\b`)
	inlinePKRe = regexp.MustCompile(`(?i)\bPRIMARY\s+KEY\b`)
)

func (mysqlParser) ParseColumn(clause string) (*Column, error) {
	clause = stripInlineComment(clause)

	pos := skipSpace(clause, 0)
	if pos >= len(clause) {
		return nil, fmt.Errorf("empty column clause")
	}
	rawName, _, next, err := readIdentifierPart(clause, pos)
	if err != nil {
		return nil, err
	}
	name := cleanIdentifier(rawName)
	if !isPlausibleColumnName(name) {
		return nil, fmt.Errorf("not a column clause: %q", clause)
	}

	rawType, afterType, err := readMySQLType(clause, skipSpace(clause, next))
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}

	attrs := clause[afterType:]
	masked := maskQuoted(attrs)
	upper := strings.ToUpper(masked)

	col := &Column{
		Name:         name,
		RawType:      rawType,
		Nullable:     !notNullRe.MatchString(masked),
		DeclaredNull: hasExplicitNull(masked),
		// AUTOINCREMENT is the SQLite spelling seen in snapshot text.
		AutoIncrement: containsWord(upper, "AUTO_INCREMENT") || containsWord(upper, "AUTOINCREMENT"),
		PrimaryKey:    inlinePKRe.MatchString(masked),
		Unique:        containsWord(upper, "UNIQUE"),
	}
	col.Default, col.DefaultIsExpr = extractDefault(attrs)

	base, _, _ := splitTypeArgs(rawType)
	switch strings.ToLower(base) {
	case "enum", "set":
		values, err := parseEnumValues(rawType)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		col.EnumValues = values
	}
	return col, nil
}

// readMySQLType reads the type token starting at pos: a base word, an
// optional parenthesized argument list, and trailing UNSIGNED/ZEROFILL
// modifiers which stay part of the raw type.
func readMySQLType(clause string, pos int) (string, int, error) {
	if pos >= len(clause) || !isLetter(clause[pos]) {
		return "", pos, fmt.Errorf("missing type")
	}
	start := pos
	for pos < len(clause) && isWordChar(clause[pos]) {
		pos++
	}
	end := pos

	if p := skipSpace(clause, pos); p < len(clause) && clause[p] == '(' {
		_, after, err := scanParenBody(clause, p)
		if err != nil {
			return "", pos, err
		}
		pos, end = after, after
	}

	for {
		p := skipSpace(clause, pos)
		wEnd := p
		for wEnd < len(clause) && isWordChar(clause[wEnd]) {
			wEnd++
		}
		switch strings.ToUpper(clause[p:wEnd]) {
		case "UNSIGNED", "ZEROFILL":
			pos, end = wEnd, wEnd
			continue
		}
		break
	}
	return strings.Join(strings.Fields(clause[start:end]), " "), end, nil
}

func isLetter(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

// isPlausibleColumnName filters out clause fragments that survived
// comma splitting but cannot be identifiers.
func isPlausibleColumnName(name string) bool {
	if name == "" {
		return false
	}
	hasAlpha := false
	for i := 0; i < len(name); i++ {
		if isLetter(name[i]) {
			hasAlpha = true
		}
	}
	return hasAlpha
}

// parseEnumValues extracts the quoted value list from an enum(...) or
// set(...) column type, honoring backslash and doubled-quote escapes.
func parseEnumValues(columnType string) ([]string, error) {
	open := strings.IndexByte(columnType, '(')
	close := strings.LastIndexByte(columnType, ')')
	if open < 0 || close <= open {
		return nil, fmt.Errorf("invalid enum/set type %q", columnType)
	}

	inside := columnType[open+1 : close]
	var values []string
	i := 0
	for i < len(inside) {
		for i < len(inside) && (inside[i] == ' ' || inside[i] == ',') {
			i++
		}
		if i >= len(inside) {
			break
		}
		if inside[i] != '\'' {
			return nil, fmt.Errorf("invalid enum/set value list in %q", columnType)
		}
		i++

		var b strings.Builder
		for i < len(inside) {
			c := inside[i]
			if c == '\\' {
				if i+1 >= len(inside) {
					return nil, fmt.Errorf("invalid escape in %q", columnType)
				}
				b.WriteByte(inside[i+1])
				i += 2
				continue
			}
			if c == '\'' {
				if i+1 < len(inside) && inside[i+1] == '\'' {
					b.WriteByte('\'')
					i += 2
					continue
				}
				i++
				break
			}
			b.WriteByte(c)
			i++
		}

		values = append(values, b.String())
	}

	return values, nil
}
