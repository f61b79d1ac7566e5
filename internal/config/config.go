package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/five82/wallfeed/internal/feed"
)

// Config captures everything wallfeed reads from its config file.
type Config struct {
	BaseURL          string
	PageSize         int
	Total            int
	RequestTimeout   time.Duration
	DownloadDir      string
	CacheDir         string
	LogDir           string
	LogLevel         string
	Listen           string
	Storage          Storage
	WallpaperCommand string
}

// Storage selects the key-value backend for favorites and downloads.
type Storage struct {
	Driver string // file, sqlite, postgres
	Path   string
	DSN    string
}

const (
	defaultConfigPath     = "~/.config/wallfeed/config.toml"
	defaultDownloadDir    = "~/Pictures/wallfeed"
	defaultCacheDir       = "~/.cache/wallfeed"
	defaultLogDir         = "~/.local/share/wallfeed/logs"
	defaultDataDir        = "~/.local/share/wallfeed"
	defaultListen         = "127.0.0.1:7490"
	defaultLogLevel       = "info"
	defaultStorageDriver  = "file"
	defaultRequestTimeout = 10 * time.Second
)

type rawConfig struct {
	BaseURL        string `toml:"base_url" yaml:"base_url"`
	PageSize       int    `toml:"page_size" yaml:"page_size"`
	Total          int    `toml:"total" yaml:"total"`
	RequestTimeout string `toml:"request_timeout" yaml:"request_timeout"`
	DownloadDir    string `toml:"download_dir" yaml:"download_dir"`
	CacheDir       string `toml:"cache_dir" yaml:"cache_dir"`
	LogDir         string `toml:"log_dir" yaml:"log_dir"`
	LogLevel       string `toml:"log_level" yaml:"log_level"`
	Listen         string `toml:"listen" yaml:"listen"`
	Storage        struct {
		Driver string `toml:"driver" yaml:"driver"`
		Path   string `toml:"path" yaml:"path"`
		DSN    string `toml:"dsn" yaml:"dsn"`
	} `toml:"storage" yaml:"storage"`
	Wallpaper struct {
		Command string `toml:"command" yaml:"command"`
	} `toml:"wallpaper" yaml:"wallpaper"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg := Config{
		BaseURL:        feed.DefaultBaseURL,
		PageSize:       feed.DefaultPageSize,
		Total:          feed.DefaultTotal,
		RequestTimeout: defaultRequestTimeout,
		DownloadDir:    mustExpand(defaultDownloadDir),
		CacheDir:       mustExpand(defaultCacheDir),
		LogDir:         mustExpand(defaultLogDir),
		LogLevel:       defaultLogLevel,
		Listen:         defaultListen,
		Storage:        Storage{Driver: defaultStorageDriver},
	}
	cfg.Storage.Path = defaultStoragePath(cfg.Storage.Driver)
	return cfg
}

// Load locates and parses the config, falling back to defaults when missing.
// Files ending in .yaml or .yml are parsed as YAML, everything else as TOML.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &raw)
	default:
		err = toml.Unmarshal(bytes, &raw)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := fromRaw(raw)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func fromRaw(raw rawConfig) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	// Zero page_size and total cannot be told apart from an absent key, so
	// both mean "use the default".
	if raw.PageSize < 0 {
		return Config{}, fmt.Errorf("page_size %d must be positive (0 uses the default %d)", raw.PageSize, feed.DefaultPageSize)
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.Total < 0 {
		return Config{}, fmt.Errorf("total %d must be positive (0 uses the default %d)", raw.Total, feed.DefaultTotal)
	}
	if raw.Total > 0 {
		cfg.Total = raw.Total
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("request_timeout: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("request_timeout %s must be positive", d)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.DownloadDir); v != "" {
		cfg.DownloadDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.CacheDir); v != "" {
		cfg.CacheDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Listen); v != "" {
		cfg.Listen = v
	}

	driver := strings.ToLower(strings.TrimSpace(raw.Storage.Driver))
	switch driver {
	case "":
		driver = defaultStorageDriver
	case "file", "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("storage.driver %q is not one of file, sqlite, postgres", raw.Storage.Driver)
	}
	cfg.Storage.Driver = driver
	cfg.Storage.Path = defaultStoragePath(driver)
	if v := strings.TrimSpace(raw.Storage.Path); v != "" {
		cfg.Storage.Path = mustExpand(v)
	}
	cfg.Storage.DSN = strings.TrimSpace(raw.Storage.DSN)
	if driver == "postgres" && cfg.Storage.DSN == "" {
		return Config{}, fmt.Errorf("storage.dsn is required for postgres")
	}

	cfg.WallpaperCommand = strings.TrimSpace(raw.Wallpaper.Command)
	return cfg, nil
}

// LogPath returns the path of the wallfeed log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/wallfeed.log")
	}
	return filepath.Join(c.LogDir, "wallfeed.log")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

func defaultStoragePath(driver string) string {
	switch driver {
	case "sqlite":
		return mustExpand(defaultDataDir + "/wallfeed.db")
	case "postgres":
		return ""
	default:
		return mustExpand(defaultDataDir)
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
