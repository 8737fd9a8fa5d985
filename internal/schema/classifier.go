package schema

// ConstraintSet is the classified view of one constraint-catalog scan,
// partitioned by kind and keyed by table.
type ConstraintSet struct {
	PrimaryKeys map[TableKey][]PrimaryKey
	ForeignKeys map[TableKey][]ForeignKey
	Unique      map[TableKey][]UniqueConstraint
	Checks      map[TableKey][]CheckConstraint
}

// Classify partitions the unified constraint rows into the four modeled
// kinds. Rows carrying any other kind label are ignored, which keeps the
// classifier forward-compatible with catalog kinds not yet modeled.
//
// Every key in seed is present in all four buckets before any row is
// scanned, with an empty (non-nil) entry — callers that supplied an
// explicit table filter can tell "no constraints" apart from "filter was
// ignored". A primary-key, unique, or foreign-key row with an empty column
// list is reported as "no constraint of this kind", not as an empty
// constraint.
//
// Column lists keep the catalog-reported order: it encodes the declared
// column order of composite keys and must not be re-sorted.
func Classify(rows []ConstraintRow, seed []TableKey) *ConstraintSet {
	set := &ConstraintSet{
		PrimaryKeys: make(map[TableKey][]PrimaryKey),
		ForeignKeys: make(map[TableKey][]ForeignKey),
		Unique:      make(map[TableKey][]UniqueConstraint),
		Checks:      make(map[TableKey][]CheckConstraint),
	}

	for _, key := range seed {
		set.PrimaryKeys[key] = []PrimaryKey{}
		set.ForeignKeys[key] = []ForeignKey{}
		set.Unique[key] = []UniqueConstraint{}
		set.Checks[key] = []CheckConstraint{}
	}

	for _, row := range rows {
		key := TableKey{Schema: row.Schema, Table: row.Table}

		switch row.Kind {
		case KindPrimaryKey:
			if len(row.Columns) == 0 {
				continue
			}
			set.PrimaryKeys[key] = append(set.PrimaryKeys[key], PrimaryKey{
				Name:    row.Name,
				Table:   key,
				Columns: row.Columns,
			})
		case KindForeignKey:
			if len(row.Columns) == 0 {
				continue
			}
			set.ForeignKeys[key] = append(set.ForeignKeys[key], ForeignKey{
				Name:       row.Name,
				Table:      key,
				Columns:    row.Columns,
				RefTable:   row.RefTable,
				RefColumns: row.RefColumns,
			})
		case KindUnique:
			if len(row.Columns) == 0 {
				continue
			}
			set.Unique[key] = append(set.Unique[key], UniqueConstraint{
				Name:    row.Name,
				Table:   key,
				Columns: row.Columns,
			})
		case KindCheck:
			set.Checks[key] = append(set.Checks[key], CheckConstraint{
				Name:       row.Name,
				Table:      key,
				Expression: row.Expression,
			})
		}
	}

	return set
}
