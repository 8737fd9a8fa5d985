package engine

import (
	goversion "github.com/hashicorp/go-version"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
)

// Feature names a catalog capability that appeared in a specific engine
// version. Capabilities are consulted before issuing a catalog query so
// unsupported features surface as a typed signal instead of an engine error
// recognised by message pattern.
type Feature string

const (
	// FeatureAttach marks support for attached databases and the
	// duckdb_schemas()/duckdb_tables() catalog functions with database
	// qualifiers.
	FeatureAttach Feature = "attach"

	// FeatureUserAgent marks support for the custom_user_agent option.
	FeatureUserAgent Feature = "user_agent"

	// FeatureComments marks support for COMMENT ON and the comment columns
	// in the catalog functions.
	FeatureComments Feature = "comments"

	// FeatureConstraints marks support for duckdb_constraints() with
	// referenced-table detail for foreign keys.
	FeatureConstraints Feature = "constraints"

	// FeatureCheckConstraints marks support for check-constraint
	// introspection through the unified constraint catalog.
	FeatureCheckConstraints Feature = "check_constraints"
)

// featureMinVersion is the capability table: the minimum engine version
// providing each feature.
var featureMinVersion = map[Feature]*goversion.Version{
	FeatureAttach:           goversion.Must(goversion.NewVersion("0.7.0")),
	FeatureUserAgent:        goversion.Must(goversion.NewVersion("0.9.2")),
	FeatureComments:         goversion.Must(goversion.NewVersion("0.10.0")),
	FeatureConstraints:      goversion.Must(goversion.NewVersion("1.1.0")),
	FeatureCheckConstraints: goversion.Must(goversion.NewVersion("1.1.0")),
}

// Capabilities answers feature queries for one connected engine version.
type Capabilities struct {
	version *goversion.Version
}

// NewCapabilities parses an engine version string ("1.2.1", dev suffixes
// allowed) into a capability set.
func NewCapabilities(raw string) (*Capabilities, error) {
	v, err := goversion.NewVersion(raw)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "unparseable engine version "+raw, err)
	}
	return &Capabilities{version: v}, nil
}

// Supports reports whether the connected engine provides the feature.
// Unknown features are unsupported.
func (c *Capabilities) Supports(f Feature) bool {
	min, ok := featureMinVersion[f]
	if !ok {
		return false
	}
	return c.version.Core().GreaterThanOrEqual(min)
}

// Version returns the engine version string.
func (c *Capabilities) Version() string {
	return c.version.String()
}
