package engine

import (
	"fmt"
	"net/url"
)

// BuildDSN renders Settings and resolved core options into the driver's
// DSN form: <database>?key=value&… Keys are emitted in sorted order so the
// same settings always produce the same DSN.
func BuildDSN(s *Settings, coreOpts map[string]any) string {
	database := s.Database
	if database == "" {
		database = ":memory:"
	}

	params := url.Values{}
	if s.User != "" {
		params.Set("user", s.User)
	}
	if s.ReadOnly {
		params.Set("access_mode", "read_only")
	}
	if s.CustomUserAgent != "" {
		params.Set("custom_user_agent", s.CustomUserAgent)
	}
	for k, v := range coreOpts {
		params.Set(k, fmt.Sprintf("%v", v))
	}

	if len(params) == 0 {
		return database
	}
	return database + "?" + params.Encode()
}
