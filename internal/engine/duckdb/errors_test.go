package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name  string
		in    error
		check func(error) bool
		kind  string
	}{
		{"nil passes through", nil, func(err error) bool { return err == nil }, "nil"},
		{"deadline", context.DeadlineExceeded, errs.IsTimeout, "timeout"},
		{"cancel", context.Canceled, errs.IsTimeout, "timeout"},
		{"wrapped cancel", fmt.Errorf("query: %w", context.Canceled), errs.IsTimeout, "timeout"},
		{"no rows", sql.ErrNoRows, errs.IsNotFound, "not_found"},
		{"not implemented", errors.New("Not implemented Error: Scanning ART indexes"), errs.IsUnsupported, "unsupported"},
		{"anything else", errors.New("Binder Error: column x not found"), errs.IsQueryFailed, "query_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.in, "op failed")
			if !tt.check(got) {
				t.Errorf("mapError(%v) classified wrong, got %v, want %s", tt.in, got, tt.kind)
			}
		})
	}
}

func TestUserAgent(t *testing.T) {
	if got := userAgent(""); got != "duckdb-reflect/"+Version {
		t.Errorf("userAgent() = %q", got)
	}
	if got := userAgent("myapp/2.0"); got != "duckdb-reflect/"+Version+" myapp/2.0" {
		t.Errorf("userAgent with suffix = %q", got)
	}
}
