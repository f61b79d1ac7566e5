// Package prefs remembers the terminal UI's theme and category between runs.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs is what the UI restores on startup.
type Prefs struct {
	Theme    string `toml:"theme"`
	Category string `toml:"category"`
}

const (
	defaultTheme    = "Nightfox"
	defaultCategory = "All"
	fileName        = "prefs.toml"
)

// Defaults returns the preferences used when nothing is saved.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, Category: defaultCategory}
}

// DefaultPath returns ~/.config/wallfeed/prefs.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".wallfeed", fileName)
	}
	return filepath.Join(home, ".config", "wallfeed", fileName)
}

// Load returns the saved preferences layered over Defaults. A missing file
// yields the defaults with no error; a file that cannot be read or decoded
// yields the defaults and the error, so callers can warn and carry on.
func Load(path string) (Prefs, error) {
	data, err := os.ReadFile(resolve(path))
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("read prefs: %w", err)
	}

	var saved Prefs
	if err := toml.Unmarshal(data, &saved); err != nil {
		return Defaults(), fmt.Errorf("parse prefs: %w", err)
	}
	return saved.over(Defaults()), nil
}

// Save replaces the prefs file with p. Blank fields are stored as their
// defaults. The file is written beside its final name and renamed into
// place, so a crash never leaves half a file behind.
func Save(path string, p Prefs) error {
	resolved := resolve(path)
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p.over(Defaults()))
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(resolved), "."+fileName+".*")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// over fills the blank fields of p from base.
func (p Prefs) over(base Prefs) Prefs {
	if v := strings.TrimSpace(p.Theme); v != "" {
		base.Theme = v
	}
	if v := strings.TrimSpace(p.Category); v != "" {
		base.Category = v
	}
	return base
}

func resolve(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return DefaultPath()
	}
	if rest, ok := strings.CutPrefix(trimmed, "~"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			trimmed = filepath.Join(home, rest)
		}
	}
	return trimmed
}
