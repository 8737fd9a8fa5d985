package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
	"github.com/leonardovida/duckdb-reflect/internal/schema"
)

type schemasResponse struct {
	Schemas []string `json:"schemas"`
}

type tablesResponse struct {
	Schema string   `json:"schema,omitempty"`
	Tables []string `json:"tables"`
	Views  []string `json:"views"`
}

type columnResponse struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	RawType  string  `json:"raw_type"`
	Nullable bool    `json:"nullable"`
	Default  *string `json:"default,omitempty"`
	Comment  *string `json:"comment,omitempty"`
}

type constraintResponse struct {
	Name       *string  `json:"name,omitempty"`
	Columns    []string `json:"columns,omitempty"`
	RefTable   string   `json:"referenced_table,omitempty"`
	RefColumns []string `json:"referenced_columns,omitempty"`
	Expression string   `json:"expression,omitempty"`
}

type tableDetailResponse struct {
	Table   string           `json:"table"`
	Schema  string           `json:"schema,omitempty"`
	Columns []columnResponse `json:"columns"`

	// Constraint fields are null when the connected engine version cannot
	// report them; ConstraintsSupported tells the two cases apart.
	ConstraintsSupported bool                 `json:"constraints_supported"`
	PrimaryKeys          []constraintResponse `json:"primary_keys,omitempty"`
	ForeignKeys          []constraintResponse `json:"foreign_keys,omitempty"`
	Unique               []constraintResponse `json:"unique_constraints,omitempty"`
	Checks               []constraintResponse `json:"check_constraints,omitempty"`
}

func (s *Server) handleSchemas(w http.ResponseWriter, r *http.Request) {
	names, err := s.reflector.GetSchemaNames(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schemasResponse{Schemas: names})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	schemaName := r.URL.Query().Get("schema")

	tables, err := s.reflector.GetTableNames(r.Context(), schemaName)
	if err != nil {
		writeError(w, err)
		return
	}
	views, err := s.reflector.GetViewNames(r.Context(), schemaName)
	if err != nil {
		writeError(w, err)
		return
	}

	if tables == nil {
		tables = []string{}
	}
	if views == nil {
		views = []string{}
	}
	writeJSON(w, http.StatusOK, tablesResponse{Schema: schemaName, Tables: tables, Views: views})
}

func (s *Server) handleTableDetail(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	schemaName := r.URL.Query().Get("schema")
	ctx := r.Context()

	columns, err := s.reflector.GetColumns(ctx, table, schemaName)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := tableDetailResponse{
		Table:   table,
		Schema:  schemaName,
		Columns: make([]columnResponse, len(columns)),
	}
	for i, c := range columns {
		resp.Columns[i] = columnResponse{
			Name:     c.Name,
			Type:     c.Type.Kind.String(),
			RawType:  c.RawType,
			Nullable: c.Nullable,
			Default:  c.Default,
			Comment:  c.Comment,
		}
	}

	pks, err := s.reflector.GetPrimaryKeys(ctx, table, schemaName)
	if err != nil {
		if errs.IsUnsupported(err) {
			writeJSON(w, http.StatusOK, resp)
			return
		}
		writeError(w, err)
		return
	}
	resp.ConstraintsSupported = true
	resp.PrimaryKeys = keyConstraints(pks)

	fks, err := s.reflector.GetForeignKeys(ctx, table, schemaName)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, fk := range fks {
		resp.ForeignKeys = append(resp.ForeignKeys, constraintResponse{
			Name:       fk.Name,
			Columns:    fk.Columns,
			RefTable:   fk.RefTable,
			RefColumns: fk.RefColumns,
		})
	}

	uniques, err := s.reflector.GetUniqueConstraints(ctx, table, schemaName)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, u := range uniques {
		resp.Unique = append(resp.Unique, constraintResponse{Name: u.Name, Columns: u.Columns})
	}

	checks, err := s.reflector.GetCheckConstraints(ctx, table, schemaName)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, c := range checks {
		resp.Checks = append(resp.Checks, constraintResponse{Name: c.Name, Expression: c.Expression})
	}

	writeJSON(w, http.StatusOK, resp)
}

func keyConstraints(pks []schema.PrimaryKey) []constraintResponse {
	out := make([]constraintResponse, 0, len(pks))
	for _, pk := range pks {
		out = append(out, constraintResponse{Name: pk.Name, Columns: pk.Columns})
	}
	return out
}
