package engine

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
)

var (
	identifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	extensionRE  = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// ValidateIdentifier rejects option keys that could smuggle SQL text into a
// SET statement, where the key position cannot be parameterized.
func ValidateIdentifier(value, kind string) error {
	if !identifierRE.MatchString(value) {
		return errs.Newf(errs.ErrKindInvalidInput, "invalid %s: %q", kind, value)
	}
	return nil
}

// ValidateExtensionName rejects extension names that are not plain words.
func ValidateExtensionName(value string) error {
	if !extensionRE.MatchString(value) {
		return errs.Newf(errs.ErrKindInvalidInput, "invalid extension name: %q", value)
	}
	return nil
}

// RenderLiteral renders an option value as a SQL literal for a SET
// statement. Strings are single-quoted with '' doubling; bools and numbers
// render bare.
func RenderLiteral(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'", nil
	case bool:
		if val {
			return "true", nil
		}
		return "false", nil
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%d", val), nil
	case float32, float64:
		return fmt.Sprintf("%v", val), nil
	default:
		return "", errs.Newf(errs.ErrKindInvalidInput,
			"unsupported config value type %T for SET", v)
	}
}

// ApplyConfig issues one SET statement per option, in sorted key order so
// the generated statement sequence is deterministic.
func ApplyConfig(ctx context.Context, ex Execer, options map[string]any) error {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := ValidateIdentifier(k, "config key"); err != nil {
			return err
		}
		lit, err := RenderLiteral(options[k])
		if err != nil {
			return err
		}
		if err := ex.Exec(ctx, fmt.Sprintf("SET %s = %s", k, lit)); err != nil {
			return errs.Wrap(errs.ErrKindQueryFailed, "applying config option "+k, err)
		}
	}
	return nil
}

// CoreConfigKeys returns the option names the running engine recognises as
// core configuration, plus the MotherDuck keys the engine only learns about
// once its extension loads. Options outside this set are applied with SET
// statements after connecting.
func CoreConfigKeys(ctx context.Context, q Querier) (map[string]struct{}, error) {
	rows, err := q.Query(ctx, "SELECT name FROM duckdb_settings()")
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "listing engine settings", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scanning setting name", err)
		}
		keys[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "iterating engine settings", err)
	}

	for _, k := range motherDuckKeys {
		keys[k] = struct{}{}
	}
	return keys, nil
}

// SplitOptions partitions config into core options (handled at connect
// time) and extension options (applied via SET).
func SplitOptions(config map[string]any, core map[string]struct{}) (coreOpts, ext map[string]any) {
	coreOpts = make(map[string]any)
	ext = make(map[string]any)
	for k, v := range config {
		if _, ok := core[k]; ok {
			coreOpts[k] = v
		} else {
			ext[k] = v
		}
	}
	return coreOpts, ext
}

// LoadReservedKeywords fetches the engine's reserved-word list, used to
// seed the identifier preparer once per session factory.
func LoadReservedKeywords(ctx context.Context, q Querier) ([]string, error) {
	rows, err := q.Query(ctx,
		"SELECT keyword_name FROM duckdb_keywords() WHERE keyword_category = 'reserved'")
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "loading reserved keywords", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scanning keyword", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "iterating keywords", err)
	}
	return words, nil
}

// QueryVersion returns the engine's version string with the leading "v"
// stripped (the engine reports "v1.2.1").
func QueryVersion(ctx context.Context, q Querier) (string, error) {
	var raw string
	if err := q.QueryRow(ctx, "SELECT version()").Scan(&raw); err != nil {
		return "", errs.Wrap(errs.ErrKindQueryFailed, "querying engine version", err)
	}
	return strings.TrimPrefix(strings.TrimSpace(raw), "v"), nil
}
