// Package schema reconstructs a generic schema description from DuckDB's
// catalog functions: qualified-name handling, scoped catalog queries,
// normalization of column and constraint rows into canonical records, and
// per-connection memoization of the results.
package schema

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/leonardovida/duckdb-reflect/internal/engine"
	"github.com/leonardovida/duckdb-reflect/internal/errs"
	"github.com/leonardovida/duckdb-reflect/internal/ident"
	"github.com/leonardovida/duckdb-reflect/internal/logger"
)

// Inspector implements the reflection API over one engine session. It is
// built by composition: the session, capability set, and identifier
// preparer are injected collaborators, and the catalog queries live here
// rather than in any engine-generic base.
//
// The cache is scoped to the Inspector instance; a second connection gets
// a fresh one. Concurrent use from multiple goroutines is safe as long as
// the underlying session is.
type Inspector struct {
	session       engine.Querier
	caps          *engine.Capabilities
	preparer      *ident.Preparer
	builder       *Builder
	types         *TypeMap
	cache         *Cache
	defaultSchema string
	log           *logger.Logger
}

// Option customises an Inspector.
type Option func(*Inspector)

// WithDefaultSchema overrides the schema preferred under ambiguity.
func WithDefaultSchema(name string) Option {
	return func(i *Inspector) { i.defaultSchema = name }
}

// WithTypeMap overrides the raw-type resolution table.
func WithTypeMap(m *TypeMap) Option {
	return func(i *Inspector) { i.types = m }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(i *Inspector) { i.log = log }
}

// NewInspector builds an Inspector over session.
func NewInspector(session engine.Querier, caps *engine.Capabilities, preparer *ident.Preparer, opts ...Option) *Inspector {
	insp := &Inspector{
		session:       session,
		caps:          caps,
		preparer:      preparer,
		builder:       NewBuilder(preparer),
		types:         DefaultTypeMap(),
		cache:         NewCache(),
		defaultSchema: DefaultSchema,
		log:           logger.New(nil),
	}
	for _, opt := range opts {
		opt(insp)
	}
	insp.log = insp.log.With().Str("component", "inspector").Logger()
	return insp
}

// InvalidateCache drops all memoized reflection results.
func (i *Inspector) InvalidateCache() { i.cache.Invalidate() }

// GetSchemaNames returns every schema as its quoted database.schema
// display form, ordered by database then schema. Engines without attach
// support report bare schema names.
func (i *Inspector) GetSchemaNames(ctx context.Context) ([]string, error) {
	v, err := i.cache.Do(CacheKey{Op: "schema_names"}, func() (any, error) {
		if !i.caps.Supports(engine.FeatureAttach) {
			return i.legacySchemaNames(ctx)
		}

		rows, err := i.session.Query(ctx, `
			SELECT database_name, schema_name
			FROM duckdb_schemas()
			WHERE `+systemSchemaFilter+`
			ORDER BY database_name, schema_name`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var names []string
		for rows.Next() {
			var database, schemaName string
			if err := rows.Scan(&database, &schemaName); err != nil {
				return nil, errs.Wrap(errs.ErrKindQueryFailed, "scanning schema row", err)
			}
			names = append(names, i.preparer.Quote(database)+"."+i.preparer.Quote(schemaName))
		}
		return names, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (i *Inspector) legacySchemaNames(ctx context.Context) ([]string, error) {
	rows, err := i.session.Query(ctx, `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE `+systemSchemaFilter+`
		ORDER BY schema_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var schemaName string
		if err := rows.Scan(&schemaName); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scanning schema row", err)
		}
		names = append(names, i.preparer.Quote(schemaName))
	}
	return names, rows.Err()
}

// GetTableNames returns the table names visible under the given schema
// scope. An empty schema means all non-system schemas.
func (i *Inspector) GetTableNames(ctx context.Context, schemaName string) ([]string, error) {
	filter, err := i.builder.CanonicalFilter(CatalogFilter{Schema: schemaName})
	if err != nil {
		return nil, err
	}

	key := CacheKey{Op: "table_names", Database: filter.Database, Schema: filter.Schema}
	v, err := i.cache.Do(key, func() (any, error) {
		where, args, err := i.builder.Where(filter)
		if err != nil {
			return nil, err
		}

		rows, err := i.session.Query(ctx, `
			SELECT table_name
			FROM duckdb_tables()
			WHERE `+systemSchemaFilter+`
			`+where+`
			ORDER BY database_name, schema_name, table_name`, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var names []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return nil, errs.Wrap(errs.ErrKindQueryFailed, "scanning table name", err)
			}
			names = append(names, name)
		}
		return names, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// GetViewNames returns view names in the given schema, defaulting to the
// default schema when none is given.
func (i *Inspector) GetViewNames(ctx context.Context, schemaName string) ([]string, error) {
	database := ""
	if schemaName == "" {
		schemaName = i.defaultSchema
	} else {
		db, sc, err := i.preparer.Separate(schemaName)
		if err != nil {
			return nil, err
		}
		database, schemaName = db, sc
	}

	sql := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_type = 'VIEW'
		AND table_schema = ?
	`
	args := []any{schemaName}
	if database != "" {
		sql += "AND table_catalog = ?\n"
		args = append(args, database)
	}
	sql += "ORDER BY table_name"

	rows, err := i.session.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scanning view name", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetTableOID fetches the object id for (database.)schema.table, matching
// both tables and views. A missing object is a NotFound error.
func (i *Inspector) GetTableOID(ctx context.Context, table, schemaName string) (int64, error) {
	filter, err := i.builder.CanonicalFilter(CatalogFilter{Table: table, Schema: schemaName})
	if err != nil {
		return 0, err
	}

	key := CacheKey{Op: "table_oid", Database: filter.Database, Schema: filter.Schema, Table: filter.Table}
	v, err := i.cache.Do(key, func() (any, error) {
		where, args, err := i.builder.Where(filter)
		if err != nil {
			return nil, err
		}

		var oid int64
		err = i.session.QueryRow(ctx, `
			SELECT oid FROM (
				SELECT table_oid AS oid, table_name, database_name, schema_name FROM duckdb_tables()
				UNION ALL
				SELECT view_oid AS oid, view_name AS table_name, database_name, schema_name FROM duckdb_views()
			)
			WHERE `+systemSchemaFilter+`
			`+where, args...).Scan(&oid)
		if err != nil {
			if errs.IsNotFound(err) {
				return nil, errs.Newf(errs.ErrKindNotFound, "table %q does not exist", table)
			}
			return nil, err
		}
		return oid, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// HasTable reports whether the table or view exists under the given scope.
func (i *Inspector) HasTable(ctx context.Context, table, schemaName string) (bool, error) {
	_, err := i.GetTableOID(ctx, table, schemaName)
	if err != nil {
		if errs.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// tableExists memoizes the existence scan under its own key so repeated
// constraint lookups on the same filter hit the catalog once.
func (i *Inspector) tableExists(ctx context.Context, filter CatalogFilter) (bool, error) {
	key := CacheKey{Op: "table_exists", Database: filter.Database, Schema: filter.Schema, Table: filter.Table}
	v, err := i.cache.Do(key, func() (any, error) {
		return i.scanTableExists(ctx, filter)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// scanTableExists checks the table catalog only (no views), used by the
// constraint lookups to rank NotFound above Unsupported.
func (i *Inspector) scanTableExists(ctx context.Context, filter CatalogFilter) (bool, error) {
	where, args, err := i.builder.Where(filter)
	if err != nil {
		return false, err
	}

	var one int
	err = i.session.QueryRow(ctx, `
		SELECT 1
		FROM duckdb_tables()
		WHERE `+systemSchemaFilter+`
		`+where, args...).Scan(&one)
	if err != nil {
		if errs.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetColumns returns the canonical column records of one table, ordered by
// ordinal. A missing table is a NotFound error — never an empty list.
func (i *Inspector) GetColumns(ctx context.Context, table, schemaName string) ([]ColumnRecord, error) {
	filter, err := i.builder.CanonicalFilter(CatalogFilter{Table: table, Schema: schemaName})
	if err != nil {
		return nil, err
	}

	key := CacheKey{Op: "columns", Database: filter.Database, Schema: filter.Schema, Table: filter.Table}
	v, err := i.cache.Do(key, func() (any, error) {
		rows, err := i.queryColumns(ctx, filter, nil)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, errs.Newf(errs.ErrKindNotFound, "table %q does not exist", table)
		}

		grouped := Normalize(rows, i.types)
		chosen := ResolveSchema(Schemas(rows), filter.Schema, i.defaultSchema)
		records := grouped[TableKey{Schema: chosen, Table: table}]
		if len(records) == 0 {
			return nil, errs.Newf(errs.ErrKindNotFound, "table %q does not exist in schema %q", table, chosen)
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ColumnRecord), nil
}

// GetMultiColumns reflects columns for many tables in one catalog scan,
// keyed by (schema, table). Every name in filterNames is present in the
// result, with an empty entry when the catalog has no such table.
func (i *Inspector) GetMultiColumns(ctx context.Context, schemaName string, filterNames []string) (map[TableKey][]ColumnRecord, error) {
	filter, err := i.builder.CanonicalFilter(CatalogFilter{Schema: schemaName})
	if err != nil {
		return nil, err
	}

	key := CacheKey{Op: "multi_columns", Database: filter.Database, Schema: filter.Schema, Extra: filterSetKey(filterNames)}
	v, err := i.cache.Do(key, func() (any, error) {
		rows, err := i.queryColumns(ctx, filter, filterNames)
		if err != nil {
			return nil, err
		}

		grouped := Normalize(rows, i.types)
		seedSchema := ResolveSchema(Schemas(rows), filter.Schema, i.defaultSchema)
		for _, name := range filterNames {
			seed := TableKey{Schema: seedSchema, Table: name}
			if _, ok := grouped[seed]; !ok {
				grouped[seed] = []ColumnRecord{}
			}
		}
		return grouped, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[TableKey][]ColumnRecord), nil
}

// filterSetKey canonicalizes a table-name set for cache keying: the same
// names in any order share one entry.
func filterSetKey(names []string) string {
	if len(names) == 0 {
		return ""
	}
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}

// queryColumns runs the column-catalog scan for the filter, optionally
// restricted to a set of table names.
func (i *Inspector) queryColumns(ctx context.Context, filter CatalogFilter, filterNames []string) ([]ColumnRow, error) {
	where, args, err := i.builder.WhereTables(filter, filterNames)
	if err != nil {
		return nil, err
	}

	commentCol := "comment"
	if !i.caps.Supports(engine.FeatureComments) {
		commentCol = "NULL AS comment"
	}

	rows, err := i.session.Query(ctx, `
		SELECT database_name, schema_name, table_name, column_name, data_type,
		       NOT is_nullable AS not_null, column_default, `+commentCol+`, column_index
		FROM duckdb_columns()
		WHERE `+systemSchemaFilter+`
		`+where+`
		ORDER BY database_name, schema_name, table_name, column_index`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ColumnRow
	for rows.Next() {
		var row ColumnRow
		if err := rows.Scan(
			&row.Database,
			&row.Schema,
			&row.Table,
			&row.Name,
			&row.RawType,
			&row.NotNull,
			&row.Default,
			&row.Comment,
			&row.Ordinal,
		); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scanning column row", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetPrimaryKeys returns the primary-key constraints of one table.
func (i *Inspector) GetPrimaryKeys(ctx context.Context, table, schemaName string) ([]PrimaryKey, error) {
	set, key, err := i.tableConstraints(ctx, table, schemaName, engine.FeatureConstraints)
	if err != nil {
		return nil, err
	}
	return set.PrimaryKeys[key], nil
}

// GetForeignKeys returns the foreign-key constraints of one table.
func (i *Inspector) GetForeignKeys(ctx context.Context, table, schemaName string) ([]ForeignKey, error) {
	set, key, err := i.tableConstraints(ctx, table, schemaName, engine.FeatureConstraints)
	if err != nil {
		return nil, err
	}
	return set.ForeignKeys[key], nil
}

// GetUniqueConstraints returns the unique constraints of one table.
func (i *Inspector) GetUniqueConstraints(ctx context.Context, table, schemaName string) ([]UniqueConstraint, error) {
	set, key, err := i.tableConstraints(ctx, table, schemaName, engine.FeatureConstraints)
	if err != nil {
		return nil, err
	}
	return set.Unique[key], nil
}

// GetCheckConstraints returns the check constraints of one table.
func (i *Inspector) GetCheckConstraints(ctx context.Context, table, schemaName string) ([]CheckConstraint, error) {
	set, key, err := i.tableConstraints(ctx, table, schemaName, engine.FeatureCheckConstraints)
	if err != nil {
		return nil, err
	}
	return set.Checks[key], nil
}

// tableConstraints runs the shared constraint scan for one table.
//
// Existence is checked first so a missing table is always NotFound, even
// when the requested constraint kind is unsupported; only then does the
// capability gate turn a supported=false feature into a typed Unsupported
// error. A table that exists with no matching rows yields the pre-seeded
// empty bucket.
func (i *Inspector) tableConstraints(ctx context.Context, table, schemaName string, feature engine.Feature) (*ConstraintSet, TableKey, error) {
	filter, err := i.builder.CanonicalFilter(CatalogFilter{Table: table, Schema: schemaName})
	if err != nil {
		return nil, TableKey{}, err
	}

	exists, err := i.tableExists(ctx, filter)
	if err != nil {
		return nil, TableKey{}, err
	}
	if !exists {
		return nil, TableKey{}, errs.Newf(errs.ErrKindNotFound, "table %q does not exist", table)
	}

	if !i.caps.Supports(feature) {
		return nil, TableKey{}, errs.Newf(errs.ErrKindUnsupported,
			"engine version %s does not support %s introspection", i.caps.Version(), feature)
	}

	key := CacheKey{Op: "constraints", Database: filter.Database, Schema: filter.Schema, Table: filter.Table}
	v, err := i.cache.Do(key, func() (any, error) {
		rows, err := i.queryConstraints(ctx, filter, nil)
		if err != nil {
			return nil, err
		}
		chosen := ResolveSchema(ConstraintSchemas(rows), filter.Schema, i.defaultSchema)
		seed := TableKey{Schema: chosen, Table: table}
		return constraintResult{set: Classify(rows, []TableKey{seed}), key: seed}, nil
	})
	if err != nil {
		return nil, TableKey{}, err
	}
	res := v.(constraintResult)
	return res.set, res.key, nil
}

// constraintResult pairs a classified set with the resolved table key it
// was seeded for, so cached lookups keep returning the same bucket.
type constraintResult struct {
	set *ConstraintSet
	key TableKey
}

// GetMultiConstraints reflects constraints for many tables in one scan.
// Every name in filterNames appears in all four buckets of the result,
// empty when no row of that kind matched.
func (i *Inspector) GetMultiConstraints(ctx context.Context, schemaName string, filterNames []string) (*ConstraintSet, error) {
	if !i.caps.Supports(engine.FeatureConstraints) {
		return nil, errs.Newf(errs.ErrKindUnsupported,
			"engine version %s does not support constraints introspection", i.caps.Version())
	}

	filter, err := i.builder.CanonicalFilter(CatalogFilter{Schema: schemaName})
	if err != nil {
		return nil, err
	}

	key := CacheKey{Op: "multi_constraints", Database: filter.Database, Schema: filter.Schema, Extra: filterSetKey(filterNames)}
	v, err := i.cache.Do(key, func() (any, error) {
		rows, err := i.queryConstraints(ctx, filter, filterNames)
		if err != nil {
			return nil, err
		}

		seedSchema := ResolveSchema(ConstraintSchemas(rows), filter.Schema, i.defaultSchema)
		seed := make([]TableKey, 0, len(filterNames))
		for _, name := range filterNames {
			seed = append(seed, TableKey{Schema: seedSchema, Table: name})
		}
		return Classify(rows, seed), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ConstraintSet), nil
}

// GetMultiPrimaryKeys is the batch variant of GetPrimaryKeys.
func (i *Inspector) GetMultiPrimaryKeys(ctx context.Context, schemaName string, filterNames []string) (map[TableKey][]PrimaryKey, error) {
	set, err := i.GetMultiConstraints(ctx, schemaName, filterNames)
	if err != nil {
		return nil, err
	}
	return set.PrimaryKeys, nil
}

// GetMultiForeignKeys is the batch variant of GetForeignKeys.
func (i *Inspector) GetMultiForeignKeys(ctx context.Context, schemaName string, filterNames []string) (map[TableKey][]ForeignKey, error) {
	set, err := i.GetMultiConstraints(ctx, schemaName, filterNames)
	if err != nil {
		return nil, err
	}
	return set.ForeignKeys, nil
}

// GetMultiUniqueConstraints is the batch variant of GetUniqueConstraints.
func (i *Inspector) GetMultiUniqueConstraints(ctx context.Context, schemaName string, filterNames []string) (map[TableKey][]UniqueConstraint, error) {
	set, err := i.GetMultiConstraints(ctx, schemaName, filterNames)
	if err != nil {
		return nil, err
	}
	return set.Unique, nil
}

// GetMultiCheckConstraints is the batch variant of GetCheckConstraints.
func (i *Inspector) GetMultiCheckConstraints(ctx context.Context, schemaName string, filterNames []string) (map[TableKey][]CheckConstraint, error) {
	if !i.caps.Supports(engine.FeatureCheckConstraints) {
		return nil, errs.Newf(errs.ErrKindUnsupported,
			"engine version %s does not support check_constraints introspection", i.caps.Version())
	}
	set, err := i.GetMultiConstraints(ctx, schemaName, filterNames)
	if err != nil {
		return nil, err
	}
	return set.Checks, nil
}

// queryConstraints scans the unified constraint catalog. Column-name lists
// travel as JSON so the driver returns them in one scan regardless of the
// engine's list representation.
func (i *Inspector) queryConstraints(ctx context.Context, filter CatalogFilter, filterNames []string) ([]ConstraintRow, error) {
	where, args, err := i.builder.WhereTables(filter, filterNames)
	if err != nil {
		return nil, err
	}

	rows, err := i.session.Query(ctx, `
		SELECT database_name, schema_name, table_name, constraint_type, constraint_text,
		       to_json(constraint_column_names) AS column_names,
		       referenced_table,
		       to_json(referenced_column_names) AS referenced_column_names
		FROM duckdb_constraints()
		WHERE `+systemSchemaFilter+`
		`+where+`
		ORDER BY database_name, schema_name, table_name, constraint_type`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ConstraintRow
	for rows.Next() {
		var (
			row        ConstraintRow
			columns    *string
			refTable   *string
			refColumns *string
		)
		if err := rows.Scan(
			&row.Database,
			&row.Schema,
			&row.Table,
			&row.Kind,
			&row.Expression,
			&columns,
			&refTable,
			&refColumns,
		); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scanning constraint row", err)
		}

		if row.Columns, err = decodeNameList(columns); err != nil {
			return nil, err
		}
		if row.RefColumns, err = decodeNameList(refColumns); err != nil {
			return nil, err
		}
		if refTable != nil {
			row.RefTable = *refTable
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// decodeNameList decodes a JSON-encoded list of column names.
func decodeNameList(encoded *string) ([]string, error) {
	if encoded == nil || *encoded == "" {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(*encoded), &names); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "decoding column-name list", err)
	}
	return names, nil
}

// GetIndexes reports no indexes: the engine's catalog is not reflected for
// indexes, and an honest empty answer beats a guessed one.
func (i *Inspector) GetIndexes(ctx context.Context, table, schemaName string) ([]IndexRecord, error) {
	i.log.Warn("index reflection is not supported, returning no indexes")
	return []IndexRecord{}, nil
}

// GetMultiIndexes is the batch variant of GetIndexes; every requested name
// maps to an empty slice.
func (i *Inspector) GetMultiIndexes(ctx context.Context, schemaName string, filterNames []string) (map[TableKey][]IndexRecord, error) {
	i.log.Warn("index reflection is not supported, returning no indexes")
	out := make(map[TableKey][]IndexRecord, len(filterNames))
	seedSchema := schemaName
	if seedSchema == "" {
		seedSchema = i.defaultSchema
	} else {
		_, sc, err := i.preparer.Separate(seedSchema)
		if err != nil {
			return nil, err
		}
		seedSchema = sc
	}
	for _, name := range filterNames {
		out[TableKey{Schema: seedSchema, Table: name}] = []IndexRecord{}
	}
	return out, nil
}
