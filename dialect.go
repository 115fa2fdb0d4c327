package main

import (
	"regexp"
	"strings"
)

// Marker weights for dialect detection. Substring markers are matched
// against the lowercased text; every occurrence scores once.
var pgMarkers = []struct {
	token  string
	weight int
}{
	{"character varying", 3},
	{"timestamp without time zone", 3},
	{"timestamp with time zone", 3},
	{"jsonb", 3},
	{"bigserial", 3},
	{"regclass", 3},
	{"nextval(", 2},
	{"public.", 1},
}

var mysqlMarkers = []struct {
	token  string
	weight int
}{
	{"auto_increment", 3},
	{"engine=", 3},
	{"charset=", 3},
	{"mediumint", 2},
	{"longtext", 2},
	{"mediumtext", 2},
	{"tinyint", 2},
	{"collate=", 1},
}

var (
	serialWordRe    = regexp.MustCompile(`\bserial\b`)
	doubleQuoteRe   = regexp.MustCompile(`"[A-Za-z_][A-Za-z0-9_ ]*"`)
	backtickIdentRe = regexp.MustCompile("`[^`]+`")
)

// detectDialect classifies DDL text as MySQL-family or PostgreSQL-family
// by additive marker scoring. It never fails: no evidence (or a tie)
// yields MySQL, the majority historical format, so a misdetection
// degrades to a parse attempt instead of aborting the pipeline.
func detectDialect(text string) Dialect {
	lower := strings.ToLower(text)

	var pg, my int
	for _, m := range pgMarkers {
		pg += strings.Count(lower, m.token) * m.weight
	}
	for _, m := range mysqlMarkers {
		my += strings.Count(lower, m.token) * m.weight
	}

	// "serial" only as a standalone word; "bigserial" already scored above.
	pg += len(serialWordRe.FindAllString(lower, -1)) * 2

	// Quoting style is itself a marker: double-quoted identifiers lean
	// PostgreSQL, backticks lean MySQL.
	pg += len(doubleQuoteRe.FindAllString(text, -1))
	my += len(backtickIdentRe.FindAllString(text, -1))

	if pg > my {
		return DialectPostgreSQL
	}
	return DialectMySQL
}
