package main

import (
	"strings"
	"testing"
)

func TestAssemblerDuplicateTable(t *testing.T) {
	asm := NewAssembler("shop", DialectMySQL)

	if err := asm.AddTable(&Table{Name: QualifiedName{Name: "users"}, File: "users.sql"}); err != nil {
		t.Fatalf("first AddTable: %v", err)
	}
	err := asm.AddTable(&Table{Name: QualifiedName{Name: "USERS"}, File: "users2.sql"})
	if err == nil {
		t.Fatal("duplicate table (case-insensitive) should be fatal")
	}
	if !strings.Contains(err.Error(), "users.sql") || !strings.Contains(err.Error(), "users2.sql") {
		t.Errorf("error should name both files, got %q", err)
	}
}

func TestAssemblerOrder(t *testing.T) {
	asm := NewAssembler("shop", DialectMySQL)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := asm.AddTable(&Table{Name: QualifiedName{Name: name}}); err != nil {
			t.Fatal(err)
		}
	}
	s := asm.Finalize()

	var got []string
	for _, tbl := range s.Tables() {
		got = append(got, tbl.Name.Name)
	}
	want := []string{"zeta", "alpha", "mid"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("table order = %v, want insertion order %v", got, want)
		}
	}
}

func TestSchemaTableLookup(t *testing.T) {
	asm := NewAssembler("shop", DialectMySQL)
	if err := asm.AddTable(&Table{Name: QualifiedName{Name: "Orders"}}); err != nil {
		t.Fatal(err)
	}
	s := asm.Finalize()

	if s.Table(QualifiedName{Name: "orders"}) == nil {
		t.Error("lookup should be case-insensitive")
	}
	if s.Table(QualifiedName{Schema: "other", Name: "ORDERS"}) == nil {
		t.Error("lookup should ignore the schema qualifier")
	}
	if s.Table(QualifiedName{Name: "missing"}) != nil {
		t.Error("lookup of unknown table should be nil")
	}
}
