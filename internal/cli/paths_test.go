package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/gtww/pkg/cache"
	"github.com/matzehuels/gtww/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(home, ".cache", "gtww"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	if dir, _ := cacheDir(); dir != filepath.Join(xdg, "gtww") {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q", dir)
	}
}

func TestCacheLocation(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	tests := []struct {
		name    string
		cfg     config.CacheConfig
		want    string
		wantErr bool
	}{
		{"file default", config.CacheConfig{Backend: cache.BackendFile}, filepath.Join(xdg, "gtww"), false},
		{"badger default", config.CacheConfig{Backend: cache.BackendBadger}, filepath.Join(xdg, "gtww", "badger"), false},
		{"explicit dir", config.CacheConfig{Backend: cache.BackendBadger, Dir: "/srv/gtww"}, "/srv/gtww", false},
		{"redis", config.CacheConfig{Backend: cache.BackendRedis, RedisAddr: "cache:6379"}, "redis://cache:6379", false},
		{"disabled", config.CacheConfig{Backend: cache.BackendNone}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CLI{Config: config.Default()}
			c.Config.Cache = tt.cfg
			got, err := c.cacheLocation()
			if (err != nil) != tt.wantErr {
				t.Fatalf("cacheLocation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	c := &CLI{}
	path, err := c.configFile()
	if err != nil {
		t.Fatalf("configFile() error: %v", err)
	}
	if want := filepath.Join(xdg, "gtww", "config.toml"); path != want {
		t.Errorf("configFile() = %q, want %q", path, want)
	}

	c.configPath = "/etc/gtww.toml"
	if path, _ := c.configFile(); path != "/etc/gtww.toml" {
		t.Errorf("--config should override the default, got %q", path)
	}
}
