package engine

// Settings holds everything needed to open and configure a DuckDB session.
type Settings struct {
	// Database is a file path, ":memory:", or a MotherDuck name
	// ("md:mydb" / "motherduck:mydb").
	Database string

	// ReadOnly opens the database in read-only access mode.
	ReadOnly bool

	// User is folded into the database path as a ?user= query parameter,
	// mirroring how connection URLs carry it.
	User string

	// Config holds engine options. Keys the engine recognises as core
	// configuration travel in the DSN; everything else (typically options
	// registered by extensions) is applied with SET statements after
	// connecting.
	Config map[string]any

	// PreloadExtensions are extension names to LOAD right after connecting.
	PreloadExtensions []string

	// CustomUserAgent is appended to the driver's user-agent suffix when
	// the engine supports it.
	CustomUserAgent string
}

// DefaultSettings returns settings for an in-memory database.
func DefaultSettings() *Settings {
	return &Settings{
		Database: ":memory:",
		Config:   map[string]any{},
	}
}
