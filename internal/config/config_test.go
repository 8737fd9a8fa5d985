package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
	"github.com/leonardovida/duckdb-reflect/internal/logger"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("database default = %+v", cfg.Database)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
database:
  path: warehouse.db
  read_only: true
  options:
    threads: 4
  extensions: [httpfs]
server:
  addr: ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q", cfg.Log.Level)
	}
	// Untouched fields keep their defaults.
	if cfg.Log.Format != "json" {
		t.Errorf("format = %q, want default json", cfg.Log.Format)
	}
	if cfg.Database.Path != "warehouse.db" || !cfg.Database.ReadOnly {
		t.Errorf("database = %+v", cfg.Database)
	}
	if len(cfg.Database.Extensions) != 1 || cfg.Database.Extensions[0] != "httpfs" {
		t.Errorf("extensions = %v", cfg.Database.Extensions)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"empty database path", "database:\n  path: \"\"\n"},
		{"endpoint without credentials", "storage:\n  endpoint: localhost:9000\n"},
		{"not yaml", "{{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errs.IsInvalidInput(err) {
				t.Errorf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errs.IsInvalidInput(err) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")

	reloaded := make(chan *Config, 1)
	w, err := Watch(path, logger.New(nil), func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Log.Level != "debug" {
			t.Errorf("reloaded level = %q", cfg.Log.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestWatchSurvivesTruncateBeforeWrite(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")

	reloaded := make(chan *Config, 4)
	w, err := Watch(path, logger.New(nil), func(cfg *Config) {
		reloaded <- cfg
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	// Truncate first, write after a pause: a reload between the two steps
	// would observe an empty file and report bare defaults.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := f.WriteString("log:\n  level: debug\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Log.Level != "debug" {
			t.Errorf("level = %q, want the settled file content", cfg.Log.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestWatchKeepsLastGoodConfigOnError(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")

	reloaded := make(chan *Config, 4)
	w, err := Watch(path, logger.New(nil), func(cfg *Config) {
		reloaded <- cfg
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	// A broken write must not invoke the callback.
	if err := os.WriteFile(path, []byte("{{{{"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	// A subsequent good write must.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Log.Level != "warn" {
			t.Errorf("level = %q, want the last good config", cfg.Log.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}
}
