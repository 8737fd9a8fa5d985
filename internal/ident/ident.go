// Package ident parses and renders possibly-quoted, possibly two-part
// DuckDB object names.
//
// DuckDB attaches multiple databases, so a "schema" handed to the
// reflection API may really be <database>.<schema>, with either part
// double-quoted when it contains dots, spaces, or quote characters:
//
//	main            -> (no database, "main")
//	db.main         -> ("db", "main")
//	"my db"."s.1"   -> ("my db", "s.1")
package ident

import (
	"regexp"
	"strings"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
)

// simpleIdent matches names that never need quoting.
var simpleIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Preparer splits and quotes identifiers. The reserved-word set is loaded
// once from the engine's keyword catalog and injected here; Preparer itself
// never touches the database.
type Preparer struct {
	reserved map[string]struct{}
}

// NewPreparer builds a Preparer with the given reserved keywords.
// Matching is case-insensitive.
func NewPreparer(reserved []string) *Preparer {
	set := make(map[string]struct{}, len(reserved))
	for _, w := range reserved {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Preparer{reserved: set}
}

// Separate splits name into its database and schema components.
//
// A name without an unquoted dot is returned verbatim with an empty
// database component. A name with a separating dot must partition into
// exactly two top-level segments; each segment may be double-quoted to
// protect embedded dots, spaces, or quotes, with "" decoding to a single
// quote character. Anything else is a parse error — names with three or
// more segments are rejected rather than guessed at.
func (p *Preparer) Separate(name string) (database, schema string, err error) {
	hasDot, terminated := scanQuoting(name)
	if !terminated {
		return "", "", errs.Newf(errs.ErrKindParse, "unterminated quote in qualified name %q", name)
	}
	if !hasDot {
		return "", name, nil
	}

	segments, err := splitSegments(name)
	if err != nil {
		return "", "", err
	}
	if len(segments) != 2 {
		return "", "", errs.Newf(errs.ErrKindParse,
			"qualified name %q must have exactly two parts, got %d", name, len(segments))
	}
	return segments[0], segments[1], nil
}

// Quote renders name for safe inclusion in SQL text. Simple identifiers
// that are not reserved words pass through unquoted; everything else is
// wrapped in double quotes with internal quotes doubled.
func (p *Preparer) Quote(name string) string {
	if simpleIdent.MatchString(name) && !p.isReserved(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// FormatSchema renders a possibly database-qualified schema name back into
// SQL text, quoting each component independently.
func (p *Preparer) FormatSchema(name string) (string, error) {
	database, schema, err := p.Separate(name)
	if err != nil {
		return "", err
	}
	if database == "" {
		return p.Quote(name), nil
	}
	return p.Quote(database) + "." + p.Quote(schema), nil
}

// QuoteSchema conditionally quotes a schema name; alias of FormatSchema.
func (p *Preparer) QuoteSchema(name string) (string, error) {
	return p.FormatSchema(name)
}

func (p *Preparer) isReserved(name string) bool {
	_, ok := p.reserved[strings.ToLower(name)]
	return ok
}

// scanQuoting reports whether name has a dot outside double quotes and
// whether its quoting is balanced. A dot hidden behind an unterminated
// quote must not make the name pass as a bare identifier.
func scanQuoting(name string) (hasDot, terminated bool) {
	inQuote := false
	for _, r := range name {
		switch r {
		case '"':
			inQuote = !inQuote
		case '.':
			if !inQuote {
				hasDot = true
			}
		}
	}
	return hasDot, !inQuote
}

// splitSegments partitions name at unquoted dots, decoding quoted segments.
// An unterminated quote or an empty segment is a parse error.
func splitSegments(name string) ([]string, error) {
	var (
		segments []string
		cur      strings.Builder
		quoted   bool // current segment had any quoting
		inQuote  bool
	)
	runes := []rune(name)

	flush := func() error {
		if cur.Len() == 0 && !quoted {
			return errs.Newf(errs.ErrKindParse, "empty segment in qualified name %q", name)
		}
		segments = append(segments, cur.String())
		cur.Reset()
		quoted = false
		return nil
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuote && i+1 < len(runes) && runes[i+1] == '"' {
				// doubled quote inside a quoted segment decodes to one quote
				cur.WriteRune('"')
				i++
				continue
			}
			inQuote = !inQuote
			quoted = true
		case r == '.' && !inQuote:
			if err := flush(); err != nil {
				return nil, err
			}
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, errs.Newf(errs.ErrKindParse, "unterminated quote in qualified name %q", name)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return segments, nil
}
