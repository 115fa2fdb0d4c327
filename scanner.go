package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DatabaseDir is one database directory found under the scan root,
// following the <dbtype>-<server>-<port> naming convention.
type DatabaseDir struct {
	Path   string
	Name   string // directory name, e.g. mysql-champstudy-3306
	Type   string // mysql, mariadb, postgresql, supabase
	Server string
	Port   string

	Schemas []SchemaDir
}

// SchemaDir is one schema subdirectory with its DDL files in sorted
// order. Sorted order keeps table-addition order reproducible across
// runs, which the emitter's output stability depends on.
type SchemaDir struct {
	Name  string
	Files []string
}

var databaseDirPrefixes = []string{"mysql-", "maria-", "mariadb-", "postgresql-", "supabase-"}

// scanDatabases walks root for database directories. When root itself
// is a database directory it is returned directly; otherwise every
// matching child directory is scanned.
func scanDatabases(root string) ([]DatabaseDir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	if isDatabaseDirName(filepath.Base(root)) {
		db, err := scanDatabaseDir(root)
		if err != nil {
			return nil, err
		}
		if db != nil {
			return []DatabaseDir{*db}, nil
		}
		return nil, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read scan root: %w", err)
	}

	var dbs []DatabaseDir
	for _, e := range entries {
		if !e.IsDir() || !isDatabaseDirName(e.Name()) {
			continue
		}
		db, err := scanDatabaseDir(filepath.Join(root, e.Name()))
		if err != nil {
			return nil, err
		}
		if db != nil {
			dbs = append(dbs, *db)
		}
	}
	sort.Slice(dbs, func(i, j int) bool { return dbs[i].Name < dbs[j].Name })
	return dbs, nil
}

func isDatabaseDirName(name string) bool {
	for _, p := range databaseDirPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// scanDatabaseDir collects the schema subdirectories of one database
// directory. Directories with no .sql files are skipped; a database
// directory with no usable schemas returns nil.
func scanDatabaseDir(path string) (*DatabaseDir, error) {
	name := filepath.Base(path)
	dbType, server, port := parseDatabaseDirName(name)

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read database dir %s: %w", name, err)
	}

	db := &DatabaseDir{Path: path, Name: name, Type: dbType, Server: server, Port: port}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		schemaPath := filepath.Join(path, e.Name())
		files, err := findDDLFiles(schemaPath)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			continue
		}
		db.Schemas = append(db.Schemas, SchemaDir{Name: e.Name(), Files: files})
	}
	sort.Slice(db.Schemas, func(i, j int) bool { return db.Schemas[i].Name < db.Schemas[j].Name })

	if len(db.Schemas) == 0 {
		return nil, nil
	}
	return db, nil
}

func findDDLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".sql") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// parseDatabaseDirName splits <dbtype>-<server>-<port>. Server names
// may themselves contain hyphens, so the type is the first segment and
// the port the last. "maria" normalizes to "mariadb".
func parseDatabaseDirName(name string) (dbType, server, port string) {
	parts := strings.Split(name, "-")
	switch {
	case len(parts) >= 3:
		dbType = parts[0]
		server = strings.Join(parts[1:len(parts)-1], "-")
		port = parts[len(parts)-1]
	case len(parts) == 2:
		dbType = parts[0]
		server = parts[1]
		port = "unknown"
	default:
		dbType = name
		server = "unknown"
		port = "unknown"
	}
	if dbType == "maria" {
		dbType = "mariadb"
	}
	return dbType, server, port
}

// DialectHint maps the directory's database type to the dialect used
// for parsing and for the emitted database_type attribute.
func (d *DatabaseDir) DialectHint() Dialect {
	switch d.Type {
	case "mariadb":
		return DialectMariaDB
	case "postgresql", "supabase":
		return DialectPostgreSQL
	default:
		return DialectMySQL
	}
}

// OutputPath is where the schema's DBML artifact is written.
func (d *DatabaseDir) OutputPath(schema string) string {
	return filepath.Join(d.Path, schema+".dbml")
}
