package main

import "testing"

func TestPostgresParseColumn(t *testing.T) {
	p := postgresParser{}

	col, err := p.ParseColumn("email character varying(255) NOT NULL")
	if err != nil {
		t.Fatalf("ParseColumn: %v", err)
	}
	if col.Name != "email" {
		t.Errorf("name = %q, want %q", col.Name, "email")
	}
	if col.RawType != "character varying(255)" {
		t.Errorf("raw type = %q, want %q", col.RawType, "character varying(255)")
	}
	if col.Nullable {
		t.Error("NOT NULL column parsed as nullable")
	}
}

func TestPostgresParseColumnMultiWordType(t *testing.T) {
	p := postgresParser{}

	col, err := p.ParseColumn("created_at timestamp without time zone DEFAULT now()")
	if err != nil {
		t.Fatalf("ParseColumn: %v", err)
	}
	if col.RawType != "timestamp without time zone" {
		t.Errorf("raw type = %q, want %q", col.RawType, "timestamp without time zone")
	}
	if col.Default == nil || *col.Default != "now()" || !col.DefaultIsExpr {
		t.Errorf("got default=%v isExpr=%v, want now() expression", col.Default, col.DefaultIsExpr)
	}
}

func TestPostgresParseColumnSerial(t *testing.T) {
	p := postgresParser{}
	tests := []struct {
		clause   string
		wantType string
	}{
		{"id serial", "int"},
		{"id bigserial NOT NULL", "bigint"},
		{"id smallserial", "smallint"},
	}
	for _, tt := range tests {
		col, err := p.ParseColumn(tt.clause)
		if err != nil {
			t.Errorf("%q: %v", tt.clause, err)
			continue
		}
		if col.RawType != tt.wantType {
			t.Errorf("%q: raw type = %q, want %q", tt.clause, col.RawType, tt.wantType)
		}
		if !col.AutoIncrement {
			t.Errorf("%q: serial column should be increment", tt.clause)
		}
	}
}

func TestPostgresParseColumnNextval(t *testing.T) {
	p := postgresParser{}

	col, err := p.ParseColumn("id integer NOT NULL DEFAULT nextval('users_id_seq'::regclass)")
	if err != nil {
		t.Fatalf("ParseColumn: %v", err)
	}
	if !col.AutoIncrement {
		t.Error("nextval default should set increment")
	}
	if col.Default != nil {
		t.Errorf("nextval default should be cleared, got %q", *col.Default)
	}
}

func TestPostgresParseColumnKeywordsInsideDefault(t *testing.T) {
	p := postgresParser{}

	col, err := p.ParseColumn("role character varying(20) DEFAULT 'unique'::character varying")
	if err != nil {
		t.Fatalf("ParseColumn: %v", err)
	}
	if col.Unique {
		t.Error("literal 'unique' flagged the column unique")
	}

	col, err = p.ParseColumn("label text DEFAULT 'primary key'")
	if err != nil {
		t.Fatalf("ParseColumn: %v", err)
	}
	if col.PrimaryKey {
		t.Error("literal 'primary key' flagged the column pk")
	}
	if col.Default == nil || *col.Default != "primary key" {
		t.Errorf("default = %v, want %q", col.Default, "primary key")
	}
}

func TestPostgresParseColumnCaseFolding(t *testing.T) {
	p := postgresParser{}

	col, err := p.ParseColumn("UserName text")
	if err != nil {
		t.Fatalf("ParseColumn: %v", err)
	}
	if col.Name != "username" {
		t.Errorf("unquoted name = %q, want folded %q", col.Name, "username")
	}

	col, err = p.ParseColumn(`"UserName" text`)
	if err != nil {
		t.Fatalf("ParseColumn: %v", err)
	}
	if col.Name != "UserName" {
		t.Errorf("quoted name = %q, want exact %q", col.Name, "UserName")
	}
}
