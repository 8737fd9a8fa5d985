package ident

import (
	"testing"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
)

var reserved = []string{"select", "table", "from", "order", "group"}

func TestSeparate(t *testing.T) {
	p := NewPreparer(reserved)

	tests := []struct {
		name     string
		input    string
		database string
		schema   string
	}{
		{name: "bare schema", input: "schema", database: "", schema: "schema"},
		{name: "db and schema", input: "db.schema", database: "db", schema: "schema"},
		{name: "quoted both", input: `"my db"."my schema"`, database: "my db", schema: "my schema"},
		{name: "quoted db only", input: `"my db".main`, database: "my db", schema: "main"},
		{name: "quoted schema only", input: `db."my schema"`, database: "db", schema: "my schema"},
		{name: "embedded dot in quotes", input: `"a.b".c`, database: "a.b", schema: "c"},
		{name: "doubled quotes decode", input: `"my""db".s`, database: `my"db`, schema: "s"},
		{name: "quoted name without dot stays verbatim", input: `"my name"`, database: "", schema: `"my name"`},
		{name: "dot fully inside quotes is not a separator", input: `"a.b"`, database: "", schema: `"a.b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, schema, err := p.Separate(tt.input)
			if err != nil {
				t.Fatalf("Separate(%q) returned error: %v", tt.input, err)
			}
			if db != tt.database || schema != tt.schema {
				t.Errorf("Separate(%q) = (%q, %q), want (%q, %q)",
					tt.input, db, schema, tt.database, tt.schema)
			}
		})
	}
}

func TestSeparate_ParseFaults(t *testing.T) {
	p := NewPreparer(reserved)

	tests := []struct {
		name  string
		input string
	}{
		{name: "three segments", input: "a.b.c"},
		{name: "three segments quoted", input: `"a".b.c`},
		{name: "leading dot", input: ".schema"},
		{name: "trailing dot", input: "db."},
		{name: "unterminated quote", input: `"db.schema`},
		{name: "unterminated quote hiding the dot", input: `"db.schema"extra"`},
		{name: "unterminated quote without dot", input: `"db`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.Separate(tt.input)
			if err == nil {
				t.Fatalf("Separate(%q) succeeded, want parse error", tt.input)
			}
			if !errs.IsParse(err) {
				t.Errorf("Separate(%q) error kind = %v, want parse", tt.input, err)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	p := NewPreparer(reserved)

	tests := []struct {
		input string
		want  string
	}{
		{input: "simple_name", want: "simple_name"},
		{input: "CamelCase", want: "CamelCase"},
		{input: "_leading", want: "_leading"},
		{input: "with space", want: `"with space"`},
		{input: "with.dot", want: `"with.dot"`},
		{input: `with"quote`, want: `"with""quote"`},
		{input: "select", want: `"select"`},  // reserved
		{input: "SELECT", want: `"SELECT"`},  // reserved, case-insensitive
		{input: "1starts_digit", want: `"1starts_digit"`},
		{input: "", want: `""`},
	}

	for _, tt := range tests {
		if got := p.Quote(tt.input); got != tt.want {
			t.Errorf("Quote(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatSchema(t *testing.T) {
	p := NewPreparer(reserved)

	tests := []struct {
		input string
		want  string
	}{
		{input: "main", want: "main"},
		{input: "db.main", want: "db.main"},
		{input: `"my db".main`, want: `"my db".main`},
		{input: `"my db"."my schema"`, want: `"my db"."my schema"`},
		{input: "my schema", want: `"my schema"`},
	}

	for _, tt := range tests {
		got, err := p.FormatSchema(tt.input)
		if err != nil {
			t.Fatalf("FormatSchema(%q) returned error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("FormatSchema(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// Round trip: quoting a database and schema, joining them, and separating
// again must recover the original names even when they contain spaces,
// dots, or quote characters.
func TestSeparate_QuoteRoundTrip(t *testing.T) {
	p := NewPreparer(reserved)

	pairs := [][2]string{
		{"my db", "my schema"},
		{`quo"ted`, "s"},
		{"a.b", "c.d"},
		{"plain", "with space"},
	}

	for _, pair := range pairs {
		joined := p.Quote(pair[0]) + "." + p.Quote(pair[1])
		db, schema, err := p.Separate(joined)
		if err != nil {
			t.Fatalf("Separate(%q) returned error: %v", joined, err)
		}
		if db != pair[0] || schema != pair[1] {
			t.Errorf("round trip of (%q, %q) via %q = (%q, %q)",
				pair[0], pair[1], joined, db, schema)
		}
	}
}
