package main

import "strings"

// canonicalBase maps lowercased dialect base types to the canonical
// token set used by the emitter. Types absent from the map pass through
// verbatim; DBML accepts free-form type names, so an unrecognized type
// is not an error.
var canonicalBase = map[string]string{
	"int":       "int",
	"integer":   "int",
	"int4":      "int",
	"mediumint": "int",
	"bigint":    "bigint",
	"int8":      "bigint",
	"smallint":  "smallint",
	"int2":      "smallint",
	"tinyint":   "tinyint",

	"decimal": "decimal",
	"numeric": "decimal",
	"float":   "float",
	"float4":  "float",
	"real":    "float",
	"double":  "double",
	"float8":  "double",

	"varchar":           "varchar",
	"character varying": "varchar",
	"char":              "char",
	"character":         "char",

	"text":       "text",
	"tinytext":   "text",
	"mediumtext": "text",
	"longtext":   "text",

	"timestamp":                   "timestamp",
	"timestamp without time zone": "timestamp",
	"timestamp with time zone":    "timestamptz",
	"datetime":                    "datetime",
	"date":                        "date",
	"time":                        "time",
	"time without time zone":      "time",
	"time with time zone":         "timetz",
	"year":                        "year",

	"boolean": "boolean",
	"bool":    "boolean",

	"jsonb": "jsonb",

	"uuid":             "uuid",
	"bytea":            "bytea",
	"double precision": "double",

	"blob":       "blob",
	"tinyblob":   "blob",
	"mediumblob": "blob",
	"longblob":   "blob",
	"binary":     "binary",
	"varbinary":  "varbinary",

	"enum": "enum",
	"set":  "set",
}

// Size arguments survive normalization only for these canonical types.
// Integer display widths like int(11) are MySQL presentation noise and
// are dropped along with text/blob length hints.
var keepsArgs = map[string]bool{
	"varchar":   true,
	"char":      true,
	"decimal":   true,
	"binary":    true,
	"varbinary": true,
	"bit":       true,
}

// splitTypeArgs splits "decimal(15,2) unsigned" into base "decimal",
// args "15,2" and the trailing modifier text.
func splitTypeArgs(raw string) (base, args, rest string) {
	raw = strings.TrimSpace(raw)
	open := strings.IndexByte(raw, '(')
	if open < 0 {
		return raw, "", ""
	}
	close := strings.IndexByte(raw[open:], ')')
	if close < 0 {
		return raw, "", ""
	}
	close += open
	return strings.TrimSpace(raw[:open]), raw[open+1 : close], strings.TrimSpace(raw[close+1:])
}

// normalizeType maps a raw dialect type to its canonical token.
// json is the one dialect-split case: Postgres output standardizes on
// jsonb, MySQL keeps json.
func normalizeType(raw string, dialect Dialect, overrides map[string]string) string {
	base, args, rest := splitTypeArgs(raw)
	baseLower := strings.ToLower(strings.Join(strings.Fields(base), " "))

	// Trailing words after the argument list either modify the type in
	// a way canonicalization drops (unsigned, zerofill) or complete a
	// multi-word type split by its precision, e.g.
	// "timestamp(6) with time zone".
	if rest != "" {
		var tail []string
		for _, w := range strings.Fields(strings.ToLower(rest)) {
			if w == "unsigned" || w == "zerofill" {
				continue
			}
			tail = append(tail, w)
		}
		if len(tail) > 0 {
			baseLower = baseLower + " " + strings.Join(tail, " ")
		}
	}

	if overrides != nil {
		if mapped, ok := overrides[baseLower]; ok {
			baseLower = mapped
		}
	}

	if baseLower == "json" {
		if dialect.IsPostgres() {
			return "jsonb"
		}
		return "json"
	}

	canon, ok := canonicalBase[baseLower]
	if !ok {
		// Unrecognized: pass through lowercased, keeping any args.
		if args != "" {
			return baseLower + "(" + args + ")"
		}
		return baseLower
	}
	if args != "" && keepsArgs[canon] {
		return canon + "(" + compactArgs(args) + ")"
	}
	return canon
}

// compactArgs normalizes "15, 2" to "15,2" so equal types compare equal
// regardless of source whitespace.
func compactArgs(args string) string {
	parts := strings.Split(args, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}
