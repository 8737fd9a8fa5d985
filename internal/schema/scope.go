package schema

import "sort"

// DefaultSchema is the engine's default schema name, preferred when an
// unscoped request matches rows in several schemas.
const DefaultSchema = "main"

// ResolveSchema decides which schema to use when catalog rows for one
// request span several schemas.
//
// An explicit schema always wins. Otherwise: a single candidate is used
// as-is; among several, the default schema is preferred when present, else
// the lexicographically smallest name. The tie-break is a documented
// policy for deterministic behavior under ambiguity, not an emulation of
// search-path semantics.
func ResolveSchema(candidates []string, explicit, defaultSchema string) string {
	if explicit != "" {
		return explicit
	}
	if defaultSchema == "" {
		defaultSchema = DefaultSchema
	}

	switch len(candidates) {
	case 0:
		return defaultSchema
	case 1:
		return candidates[0]
	}

	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

	for _, c := range sorted {
		if c == defaultSchema {
			return c
		}
	}
	return sorted[0]
}
