package schema

import (
	"strings"

	"github.com/leonardovida/duckdb-reflect/internal/ident"
)

// systemSchemaFilter excludes the engine's internal schemas from every
// catalog query, before any user filter applies.
const systemSchemaFilter = `schema_name NOT LIKE 'pg\_%' ESCAPE '\'`

// Builder turns a CatalogFilter into a parameterized predicate fragment
// against the catalog functions. Clauses are emitted in the fixed order
// table, schema, database, so identical filters always generate identical
// SQL.
type Builder struct {
	preparer *ident.Preparer
}

// NewBuilder returns a Builder using preparer to split database-qualified
// schema names.
func NewBuilder(preparer *ident.Preparer) *Builder {
	return &Builder{preparer: preparer}
}

// Where renders the filter into "AND column = ?" clauses plus the matching
// positional arguments. Absent fields contribute nothing — an empty filter
// field means "all values", never "match null".
//
// When no database is given but the schema is, the schema is split first:
// a <database>.<schema> spelling supplies the database component.
func (b *Builder) Where(f CatalogFilter) (string, []any, error) {
	table, schemaName, database := f.Table, f.Schema, f.Database

	if database == "" && schemaName != "" {
		db, sc, err := b.preparer.Separate(schemaName)
		if err != nil {
			return "", nil, err
		}
		schemaName = sc
		if db != "" {
			database = db
		}
	}

	var sb strings.Builder
	var args []any

	if table != "" {
		sb.WriteString("AND table_name = ?\n")
		args = append(args, table)
	}
	if schemaName != "" {
		sb.WriteString("AND schema_name = ?\n")
		args = append(args, schemaName)
	}
	if database != "" {
		sb.WriteString("AND database_name = ?\n")
		args = append(args, database)
	}
	return sb.String(), args, nil
}

// WhereTables extends Where with an optional table-name set, used by the
// multi-table batch operations. The set is rendered as an IN list with one
// placeholder per name, preserving the caller's order.
func (b *Builder) WhereTables(f CatalogFilter, filterNames []string) (string, []any, error) {
	sql, args, err := b.Where(f)
	if err != nil {
		return "", nil, err
	}
	if len(filterNames) > 0 {
		placeholders := strings.Repeat("?, ", len(filterNames))
		sql += "AND table_name IN (" + strings.TrimSuffix(placeholders, ", ") + ")\n"
		for _, name := range filterNames {
			args = append(args, name)
		}
	}
	return sql, args, nil
}

// CanonicalFilter returns the filter after database derivation, used as
// the cache-key representation so logically identical requests share an
// entry.
func (b *Builder) CanonicalFilter(f CatalogFilter) (CatalogFilter, error) {
	if f.Database == "" && f.Schema != "" {
		db, sc, err := b.preparer.Separate(f.Schema)
		if err != nil {
			return CatalogFilter{}, err
		}
		f.Schema = sc
		if db != "" {
			f.Database = db
		}
	}
	return f, nil
}
