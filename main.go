package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	dryRun     bool

	snapType    string
	snapDSN     string
	snapSchemas []string
	snapOut     string
)

var rootCmd = &cobra.Command{
	Use:   "ddl2dbml [root-dir]",
	Short: "Convert SQL DDL dumps to DBML schema files",
	Long: `ddl2dbml scans a directory tree of per-table CREATE TABLE dumps
(<dbtype>-<server>-<port>/<schema>/<table>.sql) and writes one DBML
file per schema next to its source directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Pull CREATE TABLE text from a live database and convert it",
	RunE:  runSnapshot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log per-file progress")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "convert without writing .dbml files")

	snapshotCmd.Flags().StringVar(&snapType, "type", "", "source type: mysql, postgres or sqlite")
	snapshotCmd.Flags().StringVar(&snapDSN, "dsn", "", "source database DSN")
	snapshotCmd.Flags().StringSliceVar(&snapSchemas, "schema", nil, "schema to snapshot (repeatable)")
	snapshotCmd.Flags().StringVar(&snapOut, "out", ".", "directory the .dbml files are written to")
	rootCmd.AddCommand(snapshotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfig() (*Config, error) {
	if configPath == "" {
		return defaultConfig(), nil
	}
	return loadConfig(configPath)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	opts := cfg.convertOptions()

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	start := time.Now()
	dbs, err := scanDatabases(root)
	if err != nil {
		return err
	}
	if len(dbs) == 0 {
		return fmt.Errorf("no database directories found under %s", root)
	}

	var total Report
	var schemas, failed int
	for i := range dbs {
		db := &dbs[i]
		hint := db.DialectHint()
		log.Printf("%s: %s on %s:%s, %d schema(s)", db.Name, hint, db.Server, db.Port, len(db.Schemas))

		for _, sd := range db.Schemas {
			schemas++
			inputs, err := readSchemaFiles(sd)
			if err != nil {
				log.Printf("  %s: FAILED: %v", sd.Name, err)
				failed++
				continue
			}

			_, text, report, err := convertSchema(sd.Name, &hint, inputs, opts)
			logReport(sd.Name, report, &total)
			if err != nil {
				log.Printf("  %s: FAILED: %v", sd.Name, err)
				failed++
				continue
			}

			out := db.OutputPath(sd.Name)
			if dryRun {
				log.Printf("  %s: %d table(s), would write %s", sd.Name, report.TablesParsed, out)
				continue
			}
			if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
				log.Printf("  %s: FAILED: %v", sd.Name, err)
				failed++
				continue
			}
			log.Printf("  %s: %d table(s) -> %s", sd.Name, report.TablesParsed, out)
		}
	}

	log.Printf("done: %d database(s), %d schema(s), %d file(s) parsed, %d skipped, %d table(s), %d warning(s), %d fix(es) in %s",
		len(dbs), schemas, total.FilesParsed, total.FilesSkipped, total.TablesParsed,
		len(total.Warnings), len(total.Fixes), time.Since(start).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d schema(s) failed", failed, schemas)
	}
	return nil
}

// readSchemaFiles loads a schema directory's DDL files, decoding each
// through the encoding ladder. Identities are root-relative paths so
// warnings point at the file the operator has to open.
func readSchemaFiles(sd SchemaDir) ([]FileInput, error) {
	var inputs []FileInput
	for _, path := range sd.Files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if verbose {
			log.Printf("    reading %s (%d bytes)", path, len(raw))
		}
		inputs = append(inputs, FileInput{Identity: path, Text: decodeDDLText(raw)})
	}
	return inputs, nil
}

func logReport(schema string, report *Report, total *Report) {
	for _, w := range report.Warnings {
		log.Printf("  %s: WARN: %s", schema, w)
	}
	for _, f := range report.Fixes {
		switch f.Action {
		case FixAdded:
			log.Printf("  %s: FIX: %s.%s %s (%s)", schema, f.Table, f.Column, f.Action, f.ToType)
		case FixTypeCorrected:
			log.Printf("  %s: FIX: %s.%s %s (%s -> %s)", schema, f.Table, f.Column, f.Action, f.FromType, f.ToType)
		}
	}
	total.Warnings = append(total.Warnings, report.Warnings...)
	total.Fixes = append(total.Fixes, report.Fixes...)
	total.FilesParsed += report.FilesParsed
	total.FilesSkipped += report.FilesSkipped
	total.TablesParsed += report.TablesParsed
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	opts := cfg.convertOptions()

	sourceType := cfg.Snapshot.Type
	if snapType != "" {
		sourceType = snapType
	}
	dsn := cfg.Snapshot.DSN
	if snapDSN != "" {
		dsn = snapDSN
	}
	schemas := cfg.Snapshot.Schemas
	if len(snapSchemas) > 0 {
		schemas = snapSchemas
	}
	if sourceType == "" || dsn == "" {
		return fmt.Errorf("snapshot needs --type and --dsn (or a [snapshot] config section)")
	}

	src, err := newSourceDB(sourceType)
	if err != nil {
		return err
	}
	db, err := src.OpenDB(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", src.Name(), err)
	}

	if len(schemas) == 0 {
		schemas = []string{src.DefaultSchema()}
	}

	hint := src.Hint()
	for _, schema := range schemas {
		ddls, err := src.SnapshotDDL(ctx, db, schema)
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", schema, err)
		}

		name := schema
		if name == "" && len(ddls) > 0 {
			name = "snapshot"
		}
		inputs := make([]FileInput, 0, len(ddls))
		for _, t := range ddls {
			if verbose {
				log.Printf("  %s: table %s", name, t.Name)
			}
			inputs = append(inputs, FileInput{
				Identity: fmt.Sprintf("%s:%s/%s", sourceType, name, t.Name),
				Text:     t.SQL,
				Hint:     &hint,
			})
		}

		var total Report
		_, text, report, err := convertSchema(name, &hint, inputs, opts)
		logReport(name, report, &total)
		if err != nil {
			return err
		}

		out := filepath.Join(snapOut, name+".dbml")
		if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		log.Printf("%s: %d table(s) -> %s", name, len(ddls), out)
	}
	return nil
}
