package main

import (
	"reflect"
	"testing"
)

func TestExtractStatements(t *testing.T) {
	text := "-- per-table dump\n" +
		"CREATE TABLE `orders` (\n" +
		"  `id` int(11) NOT NULL,\n" +
		"  `memo` varchar(50) DEFAULT 'a,b)c'\n" +
		") ENGINE=InnoDB;\n"

	stmts, err := extractStatements(text, DialectMySQL)
	if err != nil {
		t.Fatalf("extractStatements: %v", err)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	st := stmts[0]
	if st.Name.Name != "orders" {
		t.Errorf("name = %q, want %q", st.Name.Name, "orders")
	}
	if st.Trailing != "ENGINE=InnoDB" {
		t.Errorf("trailing = %q, want %q", st.Trailing, "ENGINE=InnoDB")
	}
	if got := splitClauses(st.Body); len(got) != 2 {
		t.Errorf("split body into %d clauses, want 2 (%q)", len(got), got)
	}
}

func TestExtractStatementsQualifiedName(t *testing.T) {
	tests := []struct {
		text    string
		dialect Dialect
		want    QualifiedName
	}{
		{`CREATE TABLE public.users (id int);`, DialectPostgreSQL, QualifiedName{Schema: "public", Name: "users"}},
		{`CREATE TABLE public."Admin" (id int);`, DialectPostgreSQL, QualifiedName{Schema: "public", Name: "Admin"}},
		{`CREATE TABLE IF NOT EXISTS Users (id int);`, DialectPostgreSQL, QualifiedName{Name: "users"}},
		{"CREATE TABLE `shop`.`Orders` (id int);", DialectMySQL, QualifiedName{Schema: "shop", Name: "Orders"}},
	}
	for _, tt := range tests {
		stmts, err := extractStatements(tt.text, tt.dialect)
		if err != nil {
			t.Errorf("%q: %v", tt.text, err)
			continue
		}
		if len(stmts) != 1 {
			t.Errorf("%q: got %d statements, want 1", tt.text, len(stmts))
			continue
		}
		if stmts[0].Name != tt.want {
			t.Errorf("%q: name = %+v, want %+v", tt.text, stmts[0].Name, tt.want)
		}
	}
}

func TestExtractStatementsTruncated(t *testing.T) {
	if _, err := extractStatements("CREATE TABLE broken (id int,", DialectMySQL); err == nil {
		t.Error("truncated statement should fail the file")
	}
	if _, err := extractStatements("CREATE TABLE broken", DialectMySQL); err == nil {
		t.Error("statement without a body should fail the file")
	}
}

func TestExtractStatementsMultiple(t *testing.T) {
	text := "CREATE TABLE a (id int);\nCREATE TABLE b (id int);"
	stmts, err := extractStatements(text, DialectMySQL)
	if err != nil {
		t.Fatalf("extractStatements: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
}

func TestSplitClauses(t *testing.T) {
	body := "`id` int(11) NOT NULL, `amount` decimal(15,2), `status` enum('a,b','c''d'), PRIMARY KEY (`id`)"
	want := []string{
		"`id` int(11) NOT NULL",
		"`amount` decimal(15,2)",
		"`status` enum('a,b','c''d')",
		"PRIMARY KEY (`id`)",
	}
	if got := splitClauses(body); !reflect.DeepEqual(got, want) {
		t.Errorf("splitClauses = %q, want %q", got, want)
	}
}

func TestStripSQLComments(t *testing.T) {
	text := "CREATE TABLE t (\n  a int, -- trailing, with comma)\n  b int /* block, (comment */\n);"
	stripped := stripSQLComments(text)
	stmts, err := extractStatements(stripped, DialectMySQL)
	if err != nil {
		t.Fatalf("extractStatements: %v", err)
	}
	if got := splitClauses(stmts[0].Body); len(got) != 2 {
		t.Errorf("split into %d clauses, want 2 (%q)", len(got), got)
	}
}

func TestCleanIdentifier(t *testing.T) {
	tests := []struct{ in, want string }{
		{"`reference_no`", "reference_no"},
		{`"Email"`, "Email"},
		{"  users@prod  ", "users"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := cleanIdentifier(tt.in); got != tt.want {
			t.Errorf("cleanIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
