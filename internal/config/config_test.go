package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/wallfeed/internal/feed"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != feed.DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, feed.DefaultBaseURL)
	}
	if cfg.PageSize != 20 || cfg.Total != 1000 {
		t.Fatalf("PageSize/Total = %d/%d, want 20/1000", cfg.PageSize, cfg.Total)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}

	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.Storage.Driver != "file" || !strings.HasPrefix(cfg.Storage.Path, home) {
		t.Fatalf("Storage = %#v, want file driver under HOME", cfg.Storage)
	}
}

func TestLoad_ParsesAndTrimsTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, "config.toml", `
base_url = "  https://cdn.example.com/walls  "
page_size = 30
total = 45
request_timeout = "3s"
download_dir = "  ~/Downloads/walls  "
log_level = " DEBUG "
listen = ":9000"

[storage]
driver = "SQLite"

[wallpaper]
command = "feh --bg-fill {file}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "https://cdn.example.com/walls" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.PageSize != 30 || cfg.Total != 45 {
		t.Fatalf("PageSize/Total = %d/%d, want 30/45", cfg.PageSize, cfg.Total)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
	if cfg.DownloadDir != filepath.Join(home, "Downloads/walls") {
		t.Fatalf("DownloadDir = %q, want it under HOME", cfg.DownloadDir)
	}
	if cfg.LogLevel != "debug" || cfg.Listen != ":9000" {
		t.Fatalf("LogLevel/Listen = %q/%q", cfg.LogLevel, cfg.Listen)
	}
	if cfg.Storage.Driver != "sqlite" || !strings.HasSuffix(cfg.Storage.Path, "wallfeed.db") {
		t.Fatalf("Storage = %#v, want sqlite with default db path", cfg.Storage)
	}
	if cfg.WallpaperCommand != "feh --bg-fill {file}" {
		t.Fatalf("WallpaperCommand = %q", cfg.WallpaperCommand)
	}
}

func TestLoad_ParsesYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, "config.yaml", `
base_url: http://localhost:8080/images
page_size: 10
storage:
  driver: postgres
  dsn: postgres://walls@localhost/walls?sslmode=disable
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080/images" || cfg.PageSize != 10 {
		t.Fatalf("cfg = %#v", cfg)
	}
	if cfg.Storage.Driver != "postgres" || cfg.Storage.DSN == "" || cfg.Storage.Path != "" {
		t.Fatalf("Storage = %#v, want postgres with dsn", cfg.Storage)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, "config.toml", `
base_url = "   "
log_dir = ""
page_size = 0
total = 0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != feed.DefaultBaseURL || cfg.PageSize != feed.DefaultPageSize || cfg.Total != feed.DefaultTotal {
		t.Fatalf("cfg = %#v, want defaults", cfg)
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", `base_url = [`, "parse config"},
		{"negative page size", `page_size = -1`, "page_size"},
		{"negative total", `total = -5`, "total"},
		{"bad timeout", `request_timeout = "soon"`, "request_timeout"},
		{"unknown driver", "[storage]\ndriver = \"redis\"", "storage.driver"},
		{"postgres without dsn", "[storage]\ndriver = \"postgres\"", "storage.dsn"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.toml", tc.body))
			if err == nil {
				t.Fatalf("Load returned nil error, want error mentioning %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/wallfeed.log")) {
		t.Fatalf("LogPath = %q, want it to end with /wallfeed.log", got)
	}
}
