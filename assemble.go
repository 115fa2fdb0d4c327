package main

import "fmt"

// Assembler accumulates per-file parse results into one Schema. Table
// and foreign-key order is file-processing order, which later fixes
// the emission order; callers that parse files in parallel must still
// feed results in a stable order.
type Assembler struct {
	schema *Schema
}

func NewAssembler(name string, databaseType Dialect) *Assembler {
	return &Assembler{
		schema: &Schema{
			Name:         name,
			DatabaseType: databaseType,
			tables:       make(map[string]*Table),
		},
	}
}

// AddTable registers a parsed table. A duplicate qualified name within
// one schema signals a genuine naming collision and is fatal for the
// schema, not silently merged.
func (a *Assembler) AddTable(t *Table) error {
	k := t.Name.key()
	if prev, ok := a.schema.tables[k]; ok {
		return fmt.Errorf("duplicate table %s (first defined in %s, again in %s)",
			t.Name, prev.File, t.File)
	}
	a.schema.tables[k] = t
	a.schema.order = append(a.schema.order, k)
	return nil
}

// AddForeignKey appends one referential edge in discovery order.
func (a *Assembler) AddForeignKey(fk ForeignKey) {
	a.schema.ForeignKeys = append(a.schema.ForeignKeys, fk)
}

// Finalize hands the accumulated schema over. The assembler must not
// be reused afterwards.
func (a *Assembler) Finalize() *Schema {
	s := a.schema
	a.schema = nil
	return s
}
