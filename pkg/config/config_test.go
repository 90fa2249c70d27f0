package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gtww/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[solve]
max_steps = 500
verify = true

[cache]
backend = "badger"
ttl = "24h"
namespace = "pace-2023"

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel = %v", cfg.LogLevel())
	}
	if cfg.Solve.MaxSteps != 500 || !cfg.Solve.Verify {
		t.Errorf("Solve = %+v", cfg.Solve)
	}
	if cfg.Cache.Backend != "badger" || cfg.Cache.TTL.Duration != 24*time.Hour || cfg.Cache.Namespace != "pace-2023" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	// untouched keys keep defaults
	if cfg.Store.Database != "gtww" || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("defaults lost: %+v %+v", cfg.Store, cfg.Cache)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"bad toml", "[log\nlevel=", errors.ErrCodeInvalidConfig},
		{"unknown key", "[solve]\nmax_step = 3\n", errors.ErrCodeInvalidConfig},
		{"bad level", "[log]\nlevel = \"loud\"\n", errors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidConfig},
		{"negative steps", "[solve]\nmax_steps = -1\n", errors.ErrCodeInvalidConfig},
		{"redis without addr", "[cache]\nbackend = \"redis\"\nredis_addr = \"\"\n", errors.ErrCodeInvalidConfig},
		{"namespace traversal", "[cache]\nnamespace = \"../prod\"\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if cfg != Default() {
		t.Error("missing default file should yield defaults")
	}

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file: %v", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", FileName)
	cfg := Default()
	cfg.Solve.MaxSteps = 42
	cfg.Cache.TTL = Duration{90 * time.Minute}

	if err := Write(path, cfg); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "gtww", FileName) {
		t.Errorf("DefaultPath = %s", path)
	}
}
