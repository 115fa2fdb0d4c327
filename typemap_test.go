package main

import "testing"

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw     string
		dialect Dialect
		want    string
	}{
		{"int(11)", DialectMySQL, "int"},
		{"INT", DialectMySQL, "int"},
		{"bigint(20) unsigned", DialectMySQL, "bigint"},
		{"tinyint(1)", DialectMySQL, "tinyint"},
		{"varchar(255)", DialectMySQL, "varchar(255)"},
		{"decimal(15, 2)", DialectMySQL, "decimal(15,2)"},
		{"longtext", DialectMySQL, "text"},
		{"mediumblob", DialectMySQL, "blob"},
		{"datetime", DialectMySQL, "datetime"},
		{"enum('a','b')", DialectMySQL, "enum"},
		{"json", DialectMySQL, "json"},
		{"geometry", DialectMySQL, "geometry"},

		{"character varying(100)", DialectPostgreSQL, "varchar(100)"},
		{"timestamp without time zone", DialectPostgreSQL, "timestamp"},
		{"timestamp with time zone", DialectPostgreSQL, "timestamptz"},
		{"timestamp(6) with time zone", DialectPostgreSQL, "timestamptz"},
		{"double precision", DialectPostgreSQL, "double"},
		{"int8", DialectPostgreSQL, "bigint"},
		{"json", DialectPostgreSQL, "jsonb"},
		{"uuid", DialectPostgreSQL, "uuid"},
		{"tsvector", DialectPostgreSQL, "tsvector"},
	}
	for _, tt := range tests {
		if got := normalizeType(tt.raw, tt.dialect, nil); got != tt.want {
			t.Errorf("normalizeType(%q, %v) = %q, want %q", tt.raw, tt.dialect, got, tt.want)
		}
	}
}

func TestNormalizeTypeOverrides(t *testing.T) {
	overrides := map[string]string{"citext": "varchar"}
	if got := normalizeType("citext", DialectPostgreSQL, overrides); got != "varchar" {
		t.Errorf("normalizeType with override = %q, want %q", got, "varchar")
	}
}

func TestSplitTypeArgs(t *testing.T) {
	tests := []struct {
		raw                   string
		base, args, remainder string
	}{
		{"decimal(15,2) unsigned", "decimal", "15,2", "unsigned"},
		{"int", "int", "", ""},
		{"varchar(50)", "varchar", "50", ""},
	}
	for _, tt := range tests {
		base, args, rest := splitTypeArgs(tt.raw)
		if base != tt.base || args != tt.args || rest != tt.remainder {
			t.Errorf("splitTypeArgs(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tt.raw, base, args, rest, tt.base, tt.args, tt.remainder)
		}
	}
}
