// Package wallpaper applies an image file as the desktop or lock-screen
// wallpaper by running an external command.
//
// A configured command template wins; otherwise a platform default is used
// (gsettings on Linux, osascript on macOS). Templates are split on
// whitespace and the placeholders {file} and {target} are substituted per
// argument, so paths containing spaces survive intact.
package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Target selects which surface receives the wallpaper.
type Target int

const (
	TargetHome Target = iota
	TargetLock
	TargetBoth
)

// ErrUnsupported reports that no command is known for this platform.
var ErrUnsupported = errors.New("no wallpaper command for this platform; set [wallpaper] command in config")

func (t Target) String() string {
	switch t {
	case TargetHome:
		return "home"
	case TargetLock:
		return "lock"
	case TargetBoth:
		return "both"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// ParseTarget accepts home, lock or both (case-insensitive). Empty means home.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "home":
		return TargetHome, nil
	case "lock":
		return TargetLock, nil
	case "both":
		return TargetBoth, nil
	}
	return TargetHome, fmt.Errorf("unknown wallpaper target %q (want home, lock or both)", s)
}

// Setter applies an image file as wallpaper.
type Setter interface {
	Set(ctx context.Context, path string, target Target) error
}

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// CommandSetter runs one or more command templates per target.
type CommandSetter struct {
	template string
	run      Runner
}

var _ Setter = (*CommandSetter)(nil)

// NewCommandSetter returns a setter for template. An empty template selects
// the platform default.
func NewCommandSetter(template string) *CommandSetter {
	return &CommandSetter{template: strings.TrimSpace(template), run: execRunner}
}

// WithRunner swaps the command runner; tests use it to capture invocations.
func (s *CommandSetter) WithRunner(run Runner) *CommandSetter {
	s.run = run
	return s
}

// Set applies path to target.
func (s *CommandSetter) Set(ctx context.Context, path string, target Target) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("wallpaper path is empty")
	}
	commands, err := s.commands(target)
	if err != nil {
		return err
	}
	for _, argv := range commands {
		args := expand(argv, path, target)
		out, err := s.run(ctx, args[0], args[1:]...)
		if err != nil {
			if msg := strings.TrimSpace(string(out)); msg != "" {
				return fmt.Errorf("%s: %w: %s", args[0], err, msg)
			}
			return fmt.Errorf("%s: %w", args[0], err)
		}
	}
	return nil
}

func (s *CommandSetter) commands(target Target) ([][]string, error) {
	if s.template != "" {
		argv := strings.Fields(s.template)
		return [][]string{argv}, nil
	}
	var commands [][]string
	switch target {
	case TargetHome:
		commands = platformHome
	case TargetLock:
		commands = platformLock
	case TargetBoth:
		commands = append(append([][]string{}, platformHome...), platformLock...)
	default:
		return nil, fmt.Errorf("unknown wallpaper target %d", int(target))
	}
	if len(commands) == 0 {
		return nil, ErrUnsupported
	}
	return commands, nil
}

func expand(argv []string, path string, target Target) []string {
	out := make([]string, len(argv))
	for i, arg := range argv {
		arg = strings.ReplaceAll(arg, "{file}", path)
		arg = strings.ReplaceAll(arg, "{target}", target.String())
		out[i] = arg
	}
	return out
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
