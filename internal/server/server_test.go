package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
	"github.com/leonardovida/duckdb-reflect/internal/schema"
)

// fakeReflector serves a fixed two-table catalog.
type fakeReflector struct {
	constraintsUnsupported bool
}

func (f *fakeReflector) GetSchemaNames(ctx context.Context) ([]string, error) {
	return []string{"memory.main", "warehouse.analytics"}, nil
}

func (f *fakeReflector) GetTableNames(ctx context.Context, schemaName string) ([]string, error) {
	if schemaName != "" && schemaName != "main" {
		return nil, errs.Newf(errs.ErrKindParse, "bad schema %q", schemaName)
	}
	return []string{"users"}, nil
}

func (f *fakeReflector) GetViewNames(ctx context.Context, schemaName string) ([]string, error) {
	return []string{"v_users"}, nil
}

func (f *fakeReflector) GetColumns(ctx context.Context, table, schemaName string) ([]schema.ColumnRecord, error) {
	if table != "users" {
		return nil, errs.Newf(errs.ErrKindNotFound, "table %q does not exist", table)
	}
	return []schema.ColumnRecord{
		{Name: "id", RawType: "BIGINT", Type: schema.Type{Kind: schema.KindBigInt, Raw: "BIGINT"}},
		{Name: "email", RawType: "VARCHAR", Type: schema.Type{Kind: schema.KindVarchar, Raw: "VARCHAR"}, Nullable: true, Ordinal: 1},
	}, nil
}

func (f *fakeReflector) GetPrimaryKeys(ctx context.Context, table, schemaName string) ([]schema.PrimaryKey, error) {
	if f.constraintsUnsupported {
		return nil, errs.New(errs.ErrKindUnsupported, "engine too old")
	}
	return []schema.PrimaryKey{{Columns: []string{"id"}}}, nil
}

func (f *fakeReflector) GetForeignKeys(ctx context.Context, table, schemaName string) ([]schema.ForeignKey, error) {
	return nil, nil
}

func (f *fakeReflector) GetUniqueConstraints(ctx context.Context, table, schemaName string) ([]schema.UniqueConstraint, error) {
	return []schema.UniqueConstraint{{Columns: []string{"email"}}}, nil
}

func (f *fakeReflector) GetCheckConstraints(ctx context.Context, table, schemaName string) ([]schema.CheckConstraint, error) {
	return nil, nil
}

func (f *fakeReflector) GetIndexes(ctx context.Context, table, schemaName string) ([]schema.IndexRecord, error) {
	return []schema.IndexRecord{}, nil
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleSchemas(t *testing.T) {
	srv := New(&fakeReflector{}, nil)
	rec := get(t, srv, "/v1/schemas")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp schemasResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Schemas) != 2 || resp.Schemas[0] != "memory.main" {
		t.Errorf("schemas = %v", resp.Schemas)
	}
}

func TestHandleTables(t *testing.T) {
	srv := New(&fakeReflector{}, nil)
	rec := get(t, srv, "/v1/tables?schema=main")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp tablesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Tables) != 1 || resp.Tables[0] != "users" {
		t.Errorf("tables = %v", resp.Tables)
	}
	if len(resp.Views) != 1 || resp.Views[0] != "v_users" {
		t.Errorf("views = %v", resp.Views)
	}
}

func TestHandleTablesParseErrorIs400(t *testing.T) {
	srv := New(&fakeReflector{}, nil)
	rec := get(t, srv, "/v1/tables?schema=a.b.c")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != "parse" {
		t.Errorf("kind = %q", resp.Kind)
	}
}

func TestHandleTableDetail(t *testing.T) {
	srv := New(&fakeReflector{}, nil)
	rec := get(t, srv, "/v1/tables/users")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp tableDetailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Columns) != 2 || resp.Columns[0].Type != "BIGINT" {
		t.Errorf("columns = %+v", resp.Columns)
	}
	if !resp.ConstraintsSupported {
		t.Error("constraints should be supported")
	}
	if len(resp.PrimaryKeys) != 1 || resp.PrimaryKeys[0].Columns[0] != "id" {
		t.Errorf("primary keys = %+v", resp.PrimaryKeys)
	}
	if len(resp.Unique) != 1 {
		t.Errorf("unique = %+v", resp.Unique)
	}
}

func TestHandleTableDetailMissingTableIs404(t *testing.T) {
	srv := New(&fakeReflector{}, nil)
	rec := get(t, srv, "/v1/tables/ghost")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleTableDetailUnsupportedConstraints(t *testing.T) {
	srv := New(&fakeReflector{constraintsUnsupported: true}, nil)
	rec := get(t, srv, "/v1/tables/users")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp tableDetailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ConstraintsSupported {
		t.Error("constraints reported as supported on an old engine")
	}
	if len(resp.Columns) != 2 {
		t.Errorf("columns should still be served: %+v", resp.Columns)
	}
}

func TestHealthz(t *testing.T) {
	srv := New(&fakeReflector{}, nil)
	rec := get(t, srv, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
