// Package duckdb opens and bootstraps DuckDB sessions over the official
// database/sql driver. It owns everything that must happen once per
// connection: DSN construction, MotherDuck defaults, extension preloading,
// SET-based configuration, and loading the reserved-keyword set and engine
// capabilities that the reflection layer consumes.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/leonardovida/duckdb-reflect/internal/engine"
	"github.com/leonardovida/duckdb-reflect/internal/errs"
	"github.com/leonardovida/duckdb-reflect/internal/ident"
	"github.com/leonardovida/duckdb-reflect/internal/logger"
)

// Version is the library version reported in the engine user agent.
const Version = "0.1.0"

// DB is an open DuckDB database with its bootstrap products: the session,
// the capability set for the connected engine version, and the identifier
// preparer seeded with the engine's reserved words.
type DB struct {
	sqldb    *sql.DB
	session  *engine.Session
	caps     *engine.Capabilities
	preparer *ident.Preparer
}

// Open connects to DuckDB using the provided Settings and runs the
// connection bootstrap. It validates the connection before returning.
func Open(ctx context.Context, settings *engine.Settings, log *logger.Logger) (*DB, error) {
	if settings == nil {
		settings = engine.DefaultSettings()
	}
	if log == nil {
		log = logger.New(nil)
	}
	log = log.With().Str("component", "duckdb").Logger()

	config := make(map[string]any, len(settings.Config))
	for k, v := range settings.Config {
		config[k] = v
	}
	if err := engine.ApplyMotherDuckDefaults(config, settings.Database); err != nil {
		return nil, err
	}
	engine.NormalizeMotherDuckConfig(config)

	core, err := probeCoreConfigKeys(ctx)
	if err != nil {
		return nil, err
	}
	coreOpts, ext := engine.SplitOptions(config, core)

	boot := *settings
	boot.CustomUserAgent = userAgent(settings.CustomUserAgent)

	dsn := engine.BuildDSN(&boot, coreOpts)
	sqldb, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "opening database", err)
	}
	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "pinging database", err)
	}

	session := engine.NewSession(&sqlConn{db: sqldb}, log)

	for _, extension := range settings.PreloadExtensions {
		if err := engine.ValidateExtensionName(extension); err != nil {
			sqldb.Close()
			return nil, err
		}
		if err := session.Exec(ctx, fmt.Sprintf("LOAD %s", extension)); err != nil {
			sqldb.Close()
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "loading extension "+extension, err)
		}
	}

	if err := engine.ApplyConfig(ctx, session, ext); err != nil {
		sqldb.Close()
		return nil, err
	}

	rawVersion, err := engine.QueryVersion(ctx, session)
	if err != nil {
		sqldb.Close()
		return nil, err
	}
	caps, err := engine.NewCapabilities(rawVersion)
	if err != nil {
		sqldb.Close()
		return nil, err
	}

	keywords, err := engine.LoadReservedKeywords(ctx, session)
	if err != nil {
		sqldb.Close()
		return nil, err
	}

	log.With().Str("version", caps.Version()).Int("reserved_keywords", len(keywords)).
		Logger().Debug("engine bootstrap complete")

	return &DB{
		sqldb:    sqldb,
		session:  session,
		caps:     caps,
		preparer: ident.NewPreparer(keywords),
	}, nil
}

// Session returns the bootstrapped session.
func (d *DB) Session() *engine.Session { return d.session }

// Capabilities returns the capability set of the connected engine.
func (d *DB) Capabilities() *engine.Capabilities { return d.caps }

// Preparer returns the identifier preparer seeded with the engine's
// reserved words.
func (d *DB) Preparer() *ident.Preparer { return d.preparer }

// Close releases the database.
func (d *DB) Close() error { return d.session.Close() }

// userAgent composes the engine user-agent string, appending any
// caller-supplied suffix.
func userAgent(custom string) string {
	ua := "duckdb-reflect/" + Version
	if custom != "" {
		ua += " " + custom
	}
	return ua
}

// probeCoreConfigKeys learns which option names the engine treats as core
// configuration by asking a throwaway in-memory database. Options outside
// the returned set belong to extensions and are applied with SET after the
// real connection is up.
func probeCoreConfigKeys(ctx context.Context) (map[string]struct{}, error) {
	probe, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "opening config probe", err)
	}
	defer probe.Close()

	return engine.CoreConfigKeys(ctx, &sqlConn{db: probe})
}

// --- database/sql wrappers ---

// sqlConn adapts *sql.DB to engine.Conn.
type sqlConn struct {
	db *sql.DB
}

func (c *sqlConn) Query(ctx context.Context, query string, args ...any) (engine.Rows, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return &sqlRows{rows: rows}, nil
}

func (c *sqlConn) QueryRow(ctx context.Context, query string, args ...any) engine.Row {
	return &sqlRow{row: c.db.QueryRowContext(ctx, query, args...)}
}

func (c *sqlConn) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "exec failed")
	}
	return nil
}

func (c *sqlConn) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errs.Wrap(errs.ErrKindConnectionFailed, "ping failed", err)
	}
	return nil
}

func (c *sqlConn) Close() error {
	return c.db.Close()
}

// sqlRows wraps *sql.Rows to satisfy engine.Rows.
type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool             { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *sqlRows) Close()                 { r.rows.Close() }
func (r *sqlRows) Err() error             { return r.rows.Err() }

// sqlRow wraps *sql.Row to satisfy engine.Row.
type sqlRow struct {
	row *sql.Row
}

func (r *sqlRow) Scan(dest ...any) error {
	return mapError(r.row.Scan(dest...), "scan failed")
}
