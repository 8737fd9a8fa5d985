package schema

// QualifiedName is a parsed object name. Database is only meaningful when
// Schema is present; a bare name has both Database and Schema empty.
type QualifiedName struct {
	Database string
	Schema   string
	Name     string
}

// CatalogFilter narrows a catalog query. Empty fields mean "all values" and
// never appear in the generated predicate. Built once per reflection call
// and never mutated afterwards.
type CatalogFilter struct {
	Table    string
	Schema   string
	Database string
}

// TableKey identifies a table within the two-level naming model the
// reflection API exposes. Multi-table results are keyed by it.
type TableKey struct {
	Schema string
	Table  string
}

// ColumnRecord is the canonical description of one column. Records are
// ordered by Ordinal ascending within a table and never mutated after
// construction.
type ColumnRecord struct {
	Name     string
	RawType  string
	Type     Type
	Nullable bool
	Default  *string
	Comment  *string
	Ordinal  int
}

// PrimaryKey describes a primary-key constraint. Columns preserve the
// declared key order and are never empty once classified.
type PrimaryKey struct {
	Name    *string
	Table   TableKey
	Columns []string
}

// UniqueConstraint describes a unique constraint. Columns preserve the
// declared order and are never empty once classified.
type UniqueConstraint struct {
	Name    *string
	Table   TableKey
	Columns []string
}

// ForeignKey describes a foreign-key constraint.
type ForeignKey struct {
	Name       *string
	Table      TableKey
	Columns    []string
	RefTable   string
	RefColumns []string
}

// CheckConstraint describes a check constraint as the engine reports it.
type CheckConstraint struct {
	Name       *string
	Table      TableKey
	Expression string
}

// IndexRecord exists for API completeness; index reflection is not
// supported and every lookup reports an empty result.
type IndexRecord struct {
	Name    string
	Columns []string
	Unique  bool
}

// ColumnRow is one raw row from the column catalog, before normalization.
type ColumnRow struct {
	Database string
	Schema   string
	Table    string
	Name     string
	RawType  string
	NotNull  bool
	Default  *string
	Comment  *string
	Ordinal  int
}

// ConstraintRow is one raw row from the unified constraint catalog. Kind
// carries the catalog's discriminator label ("PRIMARY KEY", "FOREIGN KEY",
// "UNIQUE", "CHECK"); rows with any other label are ignored by the
// classifier.
type ConstraintRow struct {
	Database   string
	Schema     string
	Table      string
	Kind       string
	Name       *string
	Expression string
	Columns    []string
	RefTable   string
	RefColumns []string
}

// Constraint kind labels as the catalog spells them.
const (
	KindPrimaryKey = "PRIMARY KEY"
	KindForeignKey = "FOREIGN KEY"
	KindUnique     = "UNIQUE"
	KindCheck      = "CHECK"
)
