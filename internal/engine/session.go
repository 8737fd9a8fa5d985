package engine

import (
	"context"
	"strings"

	"github.com/leonardovida/duckdb-reflect/internal/logger"
)

// isolationProbe is issued by clients that expect a server-style engine;
// DuckDB has a single isolation level, so the probe is answered statically.
const (
	isolationProbe  = "show transaction isolation level"
	isolationAnswer = "select 'read committed' as transaction_isolation"
)

// Session wraps a driver connection with the engine's implicit-transaction
// semantics: COMMIT/ROLLBACK against an idle session are treated as no-ops
// instead of errors, and a few client compatibility statements are
// rewritten before execution.
//
// A Session is safe for concurrent use as long as the underlying Conn is;
// it holds no mutable state of its own.
type Session struct {
	conn Conn
	log  *logger.Logger
}

// NewSession wraps conn. A nil log falls back to the default logger.
func NewSession(conn Conn, log *logger.Logger) *Session {
	if log == nil {
		log = logger.New(nil)
	}
	return &Session{
		conn: conn,
		log:  log.With().Str("component", "session").Logger(),
	}
}

// Query executes a statement returning rows, rewriting known client
// compatibility probes first.
func (s *Session) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return s.conn.Query(ctx, rewriteCompat(sql), args...)
}

// QueryRow executes a statement expected to return at most one row. The
// same compatibility rewrites apply as in Query.
func (s *Session) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return s.conn.QueryRow(ctx, rewriteCompat(sql), args...)
}

// rewriteCompat substitutes statements DuckDB does not speak with ones it
// does.
func rewriteCompat(sql string) string {
	if strings.EqualFold(strings.TrimSpace(sql), isolationProbe) {
		return isolationAnswer
	}
	return sql
}

// Exec executes a statement that returns no rows. Bare "commit" and
// "rollback" statements are routed through Commit/Rollback so their
// no-transaction variants are absorbed.
func (s *Session) Exec(ctx context.Context, sql string, args ...any) error {
	switch strings.ToLower(strings.TrimSpace(sql)) {
	case "commit":
		return s.Commit(ctx)
	case "rollback":
		return s.Rollback(ctx)
	}
	return s.conn.Exec(ctx, sql, args...)
}

// Commit commits the current transaction. Committing with no transaction
// active reflects the engine's implicit-transaction model and is treated
// as success.
func (s *Session) Commit(ctx context.Context) error {
	if err := s.conn.Exec(ctx, "COMMIT"); err != nil {
		if isTransientTxn(err) {
			s.log.Debug("commit with no active transaction, ignoring")
			return nil
		}
		return err
	}
	return nil
}

// Rollback rolls back the current transaction, absorbing the
// no-transaction condition like Commit does.
func (s *Session) Rollback(ctx context.Context) error {
	if err := s.conn.Exec(ctx, "ROLLBACK"); err != nil {
		if isTransientTxn(err) {
			s.log.Debug("rollback with no active transaction, ignoring")
			return nil
		}
		return err
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *Session) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close releases the underlying connection.
func (s *Session) Close() error {
	return s.conn.Close()
}

// isTransientTxn recognises the engine's "no transaction is active"
// conditions. These have no structured error code, so message matching is
// the only available signal.
func isTransientTxn(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "cannot commit - no transaction is active") ||
		strings.Contains(msg, "cannot rollback - no transaction is active")
}
