package main

import (
	"fmt"
	"strings"
)

// postgresParser handles PostgreSQL column clauses, including the
// multi-tenant Postgres variant (same grammar, schema-qualified names).
type postgresParser struct{}

// pgTypeStop are the keywords that terminate a (possibly multi-word)
// PostgreSQL type such as "timestamp without time zone".
var pgTypeStop = map[string]bool{
	"NOT": true, "NULL": true, "DEFAULT": true, "PRIMARY": true,
	"UNIQUE": true, "REFERENCES": true, "CHECK": true,
	"CONSTRAINT": true, "COLLATE": true, "GENERATED": true,
}

func (postgresParser) ParseColumn(clause string) (*Column, error) {
	clause = stripInlineComment(clause)

	pos := skipSpace(clause, 0)
	if pos >= len(clause) {
		return nil, fmt.Errorf("empty column clause")
	}
	rawName, quoted, next, err := readIdentifierPart(clause, pos)
	if err != nil {
		return nil, err
	}
	name := cleanIdentifier(rawName)
	if !isPlausibleColumnName(name) {
		return nil, fmt.Errorf("not a column clause: %q", clause)
	}
	// Unquoted identifiers fold to lower case; quoted ones are
	// case-sensitive and keep their exact spelling.
	if !quoted {
		name = strings.ToLower(name)
	}

	rawType, afterType, err := readPostgresType(clause, skipSpace(clause, next))
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
		PrimaryKey:   inlinePKRe.MatchString(masked),
		Unique:       containsWord(upper, "UNIQUE"),
	}
	col.Default, col.DefaultIsExpr = extractDefault(attrs)

	// SERIAL pseudo-types rewrite to their underlying integer type;
	// the sequence machinery shows up as the increment flag instead.
	base, _, _ := splitTypeArgs(rawType)
	switch strings.ToLower(base) {
	case "serial", "serial4":
		col.RawType = "int"
		col.AutoIncrement = true
	case "bigserial", "serial8":
		col.RawType = "bigint"
		col.AutoIncrement = true
	case "smallserial", "serial2":
		col.RawType = "smallint"
		col.AutoIncrement = true
	}

	// A nextval('...') default is the dump form of the same thing.
	if col.Default != nil && strings.HasPrefix(strings.ToLower(*col.Default), "nextval(") {
		col.AutoIncrement = true
		col.Default = nil
		col.DefaultIsExpr = false
	}
	return col, nil
}

// readPostgresType reads a type starting at pos, consuming words until
// an attribute keyword and folding any parenthesized argument list
// into the raw type.
func readPostgresType(clause string, pos int) (string, int, error) {
	if pos >= len(clause) || !isLetter(clause[pos]) {
		return "", pos, fmt.Errorf("missing type")
	}
	start := pos
	end := pos
	first := true
	for {
		p := skipSpace(clause, pos)
		wEnd := p
		for wEnd < len(clause) && isWordChar(clause[wEnd]) {
			wEnd++
		}
		if wEnd == p {
			break
		}
		word := strings.ToUpper(clause[p:wEnd])
		if !first && pgTypeStop[word] {
			break
		}
		first = false
		pos, end = wEnd, wEnd

		if q := skipSpace(clause, pos); q < len(clause) && clause[q] == '(' {
			_, after, err := scanParenBody(clause, q)
			if err != nil {
				return "", pos, err
			}
			pos, end = after, after
		}
	}
	if end == start {
		return "", pos, fmt.Errorf("missing type")
	}
	return strings.Join(strings.Fields(clause[start:end]), " "), end, nil
}
