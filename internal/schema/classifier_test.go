package schema

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	rows := []ConstraintRow{
		{Schema: "main", Table: "users", Kind: KindPrimaryKey, Columns: []string{"id"}},
		{Schema: "main", Table: "users", Kind: KindUnique, Columns: []string{"email"}},
		{Schema: "main", Table: "orders", Kind: KindForeignKey,
			Columns: []string{"user_id"}, RefTable: "users", RefColumns: []string{"id"}},
		{Schema: "main", Table: "orders", Kind: KindCheck, Expression: "CHECK((total >= 0))"},
	}

	set := Classify(rows, nil)

	users := TableKey{Schema: "main", Table: "users"}
	orders := TableKey{Schema: "main", Table: "orders"}

	if got := set.PrimaryKeys[users]; len(got) != 1 || !reflect.DeepEqual(got[0].Columns, []string{"id"}) {
		t.Errorf("primary keys = %+v", got)
	}
	if got := set.Unique[users]; len(got) != 1 || !reflect.DeepEqual(got[0].Columns, []string{"email"}) {
		t.Errorf("unique constraints = %+v", got)
	}
	fks := set.ForeignKeys[orders]
	if len(fks) != 1 {
		t.Fatalf("foreign keys = %+v", fks)
	}
	if fks[0].RefTable != "users" || !reflect.DeepEqual(fks[0].RefColumns, []string{"id"}) {
		t.Errorf("foreign key target = %+v", fks[0])
	}
	checks := set.Checks[orders]
	if len(checks) != 1 || checks[0].Expression != "CHECK((total >= 0))" {
		t.Errorf("check constraints = %+v", checks)
	}
}

func TestClassifySeedsEmptyBuckets(t *testing.T) {
	key := TableKey{Schema: "main", Table: "bare"}
	set := Classify(nil, []TableKey{key})

	if got, ok := set.PrimaryKeys[key]; !ok || got == nil || len(got) != 0 {
		t.Errorf("primary-key bucket not pre-seeded: %v %v", got, ok)
	}
	if got, ok := set.ForeignKeys[key]; !ok || got == nil || len(got) != 0 {
		t.Errorf("foreign-key bucket not pre-seeded: %v %v", got, ok)
	}
	if got, ok := set.Unique[key]; !ok || got == nil || len(got) != 0 {
		t.Errorf("unique bucket not pre-seeded: %v %v", got, ok)
	}
	if got, ok := set.Checks[key]; !ok || got == nil || len(got) != 0 {
		t.Errorf("check bucket not pre-seeded: %v %v", got, ok)
	}
}

func TestClassifySkipsEmptyColumnLists(t *testing.T) {
	key := TableKey{Schema: "main", Table: "users"}
	rows := []ConstraintRow{
		{Schema: "main", Table: "users", Kind: KindPrimaryKey},
		{Schema: "main", Table: "users", Kind: KindUnique},
		{Schema: "main", Table: "users", Kind: KindForeignKey, RefTable: "other"},
	}

	set := Classify(rows, []TableKey{key})
	if len(set.PrimaryKeys[key]) != 0 || len(set.Unique[key]) != 0 || len(set.ForeignKeys[key]) != 0 {
		t.Errorf("rows without columns should be skipped: %+v", set)
	}
}

func TestClassifyIgnoresUnknownKinds(t *testing.T) {
	rows := []ConstraintRow{
		{Schema: "main", Table: "users", Kind: "NOT NULL", Columns: []string{"id"}},
	}
	set := Classify(rows, nil)
	if len(set.PrimaryKeys) != 0 || len(set.Unique) != 0 || len(set.ForeignKeys) != 0 || len(set.Checks) != 0 {
		t.Errorf("unknown kind classified: %+v", set)
	}
}

func TestClassifyPreservesColumnOrder(t *testing.T) {
	rows := []ConstraintRow{
		{Schema: "main", Table: "events", Kind: KindPrimaryKey, Columns: []string{"tenant_id", "event_id", "at"}},
	}
	set := Classify(rows, nil)
	got := set.PrimaryKeys[TableKey{Schema: "main", Table: "events"}]
	if len(got) != 1 || !reflect.DeepEqual(got[0].Columns, []string{"tenant_id", "event_id", "at"}) {
		t.Errorf("composite key order changed: %+v", got)
	}
}
