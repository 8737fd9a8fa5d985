package schema

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	def := "nextval('seq')"
	rows := []ColumnRow{
		{Schema: "main", Table: "users", Name: "id", RawType: "BIGINT", NotNull: true, Default: &def, Ordinal: 0},
		{Schema: "main", Table: "users", Name: "email", RawType: "VARCHAR", NotNull: false, Ordinal: 1},
		{Schema: "aux", Table: "users", Name: "id", RawType: "INTEGER", NotNull: true, Ordinal: 0},
	}

	grouped := Normalize(rows, DefaultTypeMap())

	mainUsers := grouped[TableKey{Schema: "main", Table: "users"}]
	if len(mainUsers) != 2 {
		t.Fatalf("main.users has %d columns, want 2", len(mainUsers))
	}
	if mainUsers[0].Nullable {
		t.Error("not-null column reported nullable")
	}
	if !mainUsers[1].Nullable {
		t.Error("nullable column reported not-null")
	}
	if mainUsers[0].Default == nil || *mainUsers[0].Default != def {
		t.Errorf("default lost: %v", mainUsers[0].Default)
	}
	if mainUsers[0].Type.Kind != KindBigInt {
		t.Errorf("type = %v, want BIGINT", mainUsers[0].Type.Kind)
	}

	auxUsers := grouped[TableKey{Schema: "aux", Table: "users"}]
	if len(auxUsers) != 1 {
		t.Fatalf("aux.users has %d columns, want 1", len(auxUsers))
	}
}

func TestNormalizePreservesOrdinalOrder(t *testing.T) {
	rows := []ColumnRow{
		{Schema: "main", Table: "t", Name: "a", RawType: "INTEGER", Ordinal: 0},
		{Schema: "main", Table: "t", Name: "b", RawType: "INTEGER", Ordinal: 1},
		{Schema: "main", Table: "t", Name: "c", RawType: "INTEGER", Ordinal: 2},
	}
	records := Normalize(rows, nil)[TableKey{Schema: "main", Table: "t"}]

	for i := 1; i < len(records); i++ {
		if records[i].Ordinal <= records[i-1].Ordinal {
			t.Fatalf("ordinals not strictly increasing: %+v", records)
		}
	}
}

func TestSchemas(t *testing.T) {
	rows := []ColumnRow{
		{Schema: "aux"},
		{Schema: "main"},
		{Schema: "aux"},
		{Schema: "staging"},
	}
	got := Schemas(rows)
	want := []string{"aux", "main", "staging"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Schemas = %v, want %v", got, want)
	}
}

func TestConstraintSchemas(t *testing.T) {
	rows := []ConstraintRow{
		{Schema: "main"},
		{Schema: "main"},
		{Schema: "aux"},
	}
	got := ConstraintSchemas(rows)
	want := []string{"main", "aux"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ConstraintSchemas = %v, want %v", got, want)
	}
}
