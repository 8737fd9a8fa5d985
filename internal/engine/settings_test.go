package engine

import (
	"context"
	"reflect"
	"testing"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
)

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"threads", "memory_limit", "_internal", "s3Region"}
	for _, v := range valid {
		if err := ValidateIdentifier(v, "config key"); err != nil {
			t.Errorf("ValidateIdentifier(%q) = %v", v, err)
		}
	}

	invalid := []string{"", "1threads", "bad-key", "key with space", "x;DROP TABLE t"}
	for _, v := range invalid {
		err := ValidateIdentifier(v, "config key")
		if err == nil {
			t.Errorf("ValidateIdentifier(%q) accepted", v)
			continue
		}
		if !errs.IsInvalidInput(err) {
			t.Errorf("ValidateIdentifier(%q) kind = %v", v, err)
		}
	}
}

func TestValidateExtensionName(t *testing.T) {
	if err := ValidateExtensionName("httpfs"); err != nil {
		t.Errorf("httpfs rejected: %v", err)
	}
	if err := ValidateExtensionName("h3ext_2"); err != nil {
		t.Errorf("h3ext_2 rejected: %v", err)
	}
	for _, v := range []string{"", "bad.ext", "ext name", "ext;"} {
		if err := ValidateExtensionName(v); err == nil {
			t.Errorf("ValidateExtensionName(%q) accepted", v)
		}
	}
}

func TestRenderLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"plain string", "4GB", "'4GB'"},
		{"string with quote", "it's", "'it''s'"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 8, "8"},
		{"int64", int64(-3), "-3"},
		{"float", 0.5, "0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderLiteral(tt.in)
			if err != nil {
				t.Fatalf("RenderLiteral: %v", err)
			}
			if got != tt.want {
				t.Errorf("RenderLiteral(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if _, err := RenderLiteral([]string{"x"}); !errs.IsInvalidInput(err) {
		t.Errorf("slice value should be invalid input, got %v", err)
	}
}

type recordingExecer struct {
	stmts []string
}

func (r *recordingExecer) Exec(ctx context.Context, sql string, args ...any) error {
	r.stmts = append(r.stmts, sql)
	return nil
}

func TestApplyConfigOrderAndRendering(t *testing.T) {
	ex := &recordingExecer{}
	err := ApplyConfig(context.Background(), ex, map[string]any{
		"threads":      4,
		"memory_limit": "4GB",
		"enable_fsst":  true,
	})
	if err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}

	want := []string{
		"SET enable_fsst = true",
		"SET memory_limit = '4GB'",
		"SET threads = 4",
	}
	if !reflect.DeepEqual(ex.stmts, want) {
		t.Errorf("statements = %v, want %v", ex.stmts, want)
	}
}

func TestApplyConfigRejectsBadKey(t *testing.T) {
	ex := &recordingExecer{}
	err := ApplyConfig(context.Background(), ex, map[string]any{
		"bad key; DROP": "x",
	})
	if !errs.IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(ex.stmts) != 0 {
		t.Errorf("statements issued despite bad key: %v", ex.stmts)
	}
}

func TestSplitOptions(t *testing.T) {
	core := map[string]struct{}{"memory_limit": {}, "threads": {}}
	coreOpts, ext := SplitOptions(map[string]any{
		"memory_limit": "4GB",
		"s3_region":    "eu-west-1",
	}, core)

	if len(coreOpts) != 1 || coreOpts["memory_limit"] != "4GB" {
		t.Errorf("core = %v", coreOpts)
	}
	if len(ext) != 1 || ext["s3_region"] != "eu-west-1" {
		t.Errorf("ext = %v", ext)
	}
}
