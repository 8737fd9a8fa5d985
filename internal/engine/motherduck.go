package engine

import (
	"os"
	"strings"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
)

// motherDuckKeys are configuration keys that only make sense when talking
// to MotherDuck. Their presence marks a connection as MotherDuck-bound even
// without the md: database prefix.
var motherDuckKeys = []string{
	"motherduck_token",
	"attach_mode",
	"saas_mode",
	"session_hint",
	"access_mode",
	"dbinstance_inactivity_ttl",
	"motherduck_dbinstance_inactivity_ttl",
}

// LooksLikeMotherDuck reports whether the database name or config indicate
// a MotherDuck connection.
func LooksLikeMotherDuck(database string, config map[string]any) bool {
	if strings.HasPrefix(database, "md:") || strings.HasPrefix(database, "motherduck:") {
		return true
	}
	for _, k := range motherDuckKeys {
		if _, ok := config[k]; ok {
			return true
		}
	}
	return false
}

// ApplyMotherDuckDefaults fills in the MotherDuck token from the
// environment when the connection looks MotherDuck-bound and no token was
// given explicitly. A non-string token is rejected.
func ApplyMotherDuckDefaults(config map[string]any, database string) error {
	if _, ok := config["motherduck_token"]; !ok {
		token := os.Getenv("motherduck_token")
		if token == "" {
			token = os.Getenv("MOTHERDUCK_TOKEN")
		}
		if token != "" && LooksLikeMotherDuck(database, config) {
			config["motherduck_token"] = token
		}
	}

	if v, ok := config["motherduck_token"]; ok {
		if _, isStr := v.(string); !isStr {
			return errs.New(errs.ErrKindInvalidInput, "motherduck_token must be a string")
		}
	}
	return nil
}

// NormalizeMotherDuckConfig maps the short TTL alias onto the canonical
// key, keeping an explicit canonical value if both are present.
func NormalizeMotherDuckConfig(config map[string]any) {
	if v, ok := config["dbinstance_inactivity_ttl"]; ok {
		if _, has := config["motherduck_dbinstance_inactivity_ttl"]; !has {
			config["motherduck_dbinstance_inactivity_ttl"] = v
		}
	}
}
