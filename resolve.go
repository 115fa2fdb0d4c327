package main

// resolveSchema walks every foreign key after assembly and repairs the
// referenced side so each resolved edge points at existing,
// type-compatible columns. It runs exactly once per schema: it needs
// full cross-table visibility and cannot run per file.
//
// Three outcomes per edge:
//   - target table missing: the edge is flagged unresolved and
//     reported; synthesizing a whole table is out of scope.
//   - target column missing: the column is synthesized at the end of
//     the target table, typed after the source column (referential
//     columns must be type-compatible, so the source side is the best
//     available hint), nullable, no default, no key membership. With no
//     source column to take a type from, the edge is flagged unresolved
//     instead.
//   - target column type differs: the target type is overwritten to
//     match the source.
//
// Every mutation is returned as a FixRecord; unresolved edges land in
// the report as warnings.
func resolveSchema(s *Schema, report *Report) []FixRecord {
	var fixes []FixRecord

	for i := range s.ForeignKeys {
		fk := &s.ForeignKeys[i]

		target := s.Table(fk.TargetTable)
		if target == nil {
			fk.Unresolved = true
			report.warnf("", fk.SourceTable.String(),
				"foreign key %s references missing table %s; reference left unresolved",
				fkLabel(fk), fk.TargetTable)
			continue
		}

		source := s.Table(fk.SourceTable)
		if len(fk.SourceColumns) != len(fk.TargetColumns) {
			fk.Unresolved = true
			report.warnf("", fk.SourceTable.String(),
				"foreign key %s has mismatched column counts (%d vs %d)",
				fkLabel(fk), len(fk.SourceColumns), len(fk.TargetColumns))
			continue
		}

		for j, targetCol := range fk.TargetColumns {
			wantType := ""
			if source != nil {
				if sc := source.Column(fk.SourceColumns[j]); sc != nil {
					wantType = sc.NormalizedType
				}
			}

			tc := target.Column(targetCol)
			if tc == nil {
				// No source column means no type hint; a typeless
				// synthesized column would emit broken DBML.
				if wantType == "" {
					fk.Unresolved = true
					report.warnf("", fk.SourceTable.String(),
						"foreign key %s: cannot synthesize %s.%s, source column %s is unknown; reference left unresolved",
						fkLabel(fk), target.Name, targetCol, fk.SourceColumns[j])
					break
				}
				target.Columns = append(target.Columns, Column{
					Name:           targetCol,
					RawType:        wantType,
					NormalizedType: wantType,
					Nullable:       true,
				})
				fixes = append(fixes, FixRecord{
					Table:  target.Name,
					Column: targetCol,
					Action: FixAdded,
					ToType: wantType,
				})
				continue
			}

			if wantType != "" && tc.NormalizedType != wantType {
				fixes = append(fixes, FixRecord{
					Table:    target.Name,
					Column:   tc.Name,
					Action:   FixTypeCorrected,
					FromType: tc.NormalizedType,
					ToType:   wantType,
				})
				tc.NormalizedType = wantType
			}
		}
	}

	report.Fixes = append(report.Fixes, fixes...)
	return fixes
}

func fkLabel(fk *ForeignKey) string {
	if fk.ConstraintName != "" {
		return fk.ConstraintName
	}
	return "(unnamed)"
}
