package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanDatabases(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "mysql-champ-3306", "shop", "users.sql"), "CREATE TABLE users (id int);")
	writeFile(t, filepath.Join(root, "mysql-champ-3306", "shop", "orders.sql"), "CREATE TABLE orders (id int);")
	writeFile(t, filepath.Join(root, "mysql-champ-3306", "shop", "notes.txt"), "not ddl")
	writeFile(t, filepath.Join(root, "postgresql-app-db-5432", "public", "members.sql"), "CREATE TABLE members (id int);")
	writeFile(t, filepath.Join(root, "mysql-empty-3306", "void", "readme.md"), "no sql here")
	writeFile(t, filepath.Join(root, "unrelated", "x.sql"), "CREATE TABLE x (id int);")

	dbs, err := scanDatabases(root)
	if err != nil {
		t.Fatalf("scanDatabases: %v", err)
	}
	if len(dbs) != 2 {
		t.Fatalf("got %d databases, want 2: %+v", len(dbs), dbs)
	}

	my := dbs[0]
	if my.Name != "mysql-champ-3306" || my.Type != "mysql" || my.Server != "champ" || my.Port != "3306" {
		t.Errorf("parsed dir = %+v", my)
	}
	if len(my.Schemas) != 1 || my.Schemas[0].Name != "shop" {
		t.Fatalf("schemas = %+v", my.Schemas)
	}
	if files := my.Schemas[0].Files; len(files) != 2 || filepath.Base(files[0]) != "orders.sql" {
		t.Errorf("files = %v, want sorted .sql only", files)
	}

	pg := dbs[1]
	if pg.Type != "postgresql" || pg.Server != "app-db" || pg.Port != "5432" {
		t.Errorf("parsed dir = %+v", pg)
	}
	if pg.DialectHint() != DialectPostgreSQL {
		t.Errorf("hint = %v, want PostgreSQL", pg.DialectHint())
	}
}

func TestScanDatabasesRootIsDatabaseDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "maria-legacy-3307")
	writeFile(t, filepath.Join(dir, "erp", "items.sql"), "CREATE TABLE items (id int);")

	dbs, err := scanDatabases(dir)
	if err != nil {
		t.Fatalf("scanDatabases: %v", err)
	}
	if len(dbs) != 1 {
		t.Fatalf("got %d databases, want 1", len(dbs))
	}
	if dbs[0].Type != "mariadb" {
		t.Errorf("type = %q, want maria normalized to mariadb", dbs[0].Type)
	}
	if dbs[0].DialectHint() != DialectMariaDB {
		t.Errorf("hint = %v, want MariaDB", dbs[0].DialectHint())
	}
}

func TestParseDatabaseDirName(t *testing.T) {
	tests := []struct {
		name                 string
		dbType, server, port string
	}{
		{"mysql-champstudy-3306", "mysql", "champstudy", "3306"},
		{"postgresql-app-db-prod-5432", "postgresql", "app-db-prod", "5432"},
		{"maria-legacy-3307", "mariadb", "legacy", "3307"},
		{"supabase-proj-6543", "supabase", "proj", "6543"},
		{"mysql-local", "mysql", "local", "unknown"},
		{"mysql", "mysql", "unknown", "unknown"},
	}
	for _, tt := range tests {
		dbType, server, port := parseDatabaseDirName(tt.name)
		if dbType != tt.dbType || server != tt.server || port != tt.port {
			t.Errorf("parseDatabaseDirName(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tt.name, dbType, server, port, tt.dbType, tt.server, tt.port)
		}
	}
}

func TestOutputPath(t *testing.T) {
	d := &DatabaseDir{Path: filepath.Join("dumps", "mysql-champ-3306")}
	want := filepath.Join("dumps", "mysql-champ-3306", "shop.dbml")
	if got := d.OutputPath("shop"); got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}
