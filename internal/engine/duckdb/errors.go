package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
)

// mapError translates native driver errors into *errs.Error.
//
// DuckDB reports most conditions as plain error strings; the "Not
// implemented" prefix is the only stable signal for features the engine
// refuses at runtime, so it is matched here. The transient
// "no transaction is active" conditions are handled one level up in
// engine.Session, which absorbs rather than classifies them.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	if strings.Contains(err.Error(), "Not implemented Error") {
		return errs.Wrap(errs.ErrKindUnsupported, msg, err)
	}

	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}
