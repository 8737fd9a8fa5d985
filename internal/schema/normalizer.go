package schema

// Normalize maps raw column-catalog rows into canonical ColumnRecords
// grouped by table. Within a group the input order is preserved — the
// catalog query already orders by ordinal, and the normalizer never
// re-sorts or deduplicates beyond what the query guarantees.
//
// Nullability is the logical negation of the catalog's not-null flag.
// Unknown raw types resolve to the opaque fallback type instead of
// failing.
func Normalize(rows []ColumnRow, types *TypeMap) map[TableKey][]ColumnRecord {
	if types == nil {
		types = DefaultTypeMap()
	}

	grouped := make(map[TableKey][]ColumnRecord)
	for _, row := range rows {
		key := TableKey{Schema: row.Schema, Table: row.Table}
		grouped[key] = append(grouped[key], ColumnRecord{
			Name:     row.Name,
			RawType:  row.RawType,
			Type:     types.Resolve(row.RawType),
			Nullable: !row.NotNull,
			Default:  row.Default,
			Comment:  row.Comment,
			Ordinal:  row.Ordinal,
		})
	}
	return grouped
}

// Schemas returns the distinct schema names present in rows, in first-seen
// order. Used to detect ambiguous unscoped requests.
func Schemas(rows []ColumnRow) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		if _, ok := seen[row.Schema]; !ok {
			seen[row.Schema] = struct{}{}
			names = append(names, row.Schema)
		}
	}
	return names
}

// ConstraintSchemas is Schemas for constraint rows.
func ConstraintSchemas(rows []ConstraintRow) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		if _, ok := seen[row.Schema]; !ok {
			seen[row.Schema] = struct{}{}
			names = append(names, row.Schema)
		}
	}
	return names
}
