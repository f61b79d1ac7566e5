package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file. A missing file yields no
// lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Line is a parsed log line.
type Line struct {
	Time      string
	Level     string // lower case: debug, info, warn, error, fatal, panic
	Component string
	Message   string
}

var linePattern = regexp.MustCompile(`^(?:(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) )?\[([A-Z]+)\](?: \[([^\]]+)\])? ?(.*)$`)

// Parse splits a line written by the wallfeed text formatter. It reports
// false for lines in any other shape.
func Parse(line string) (Line, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Line{}, false
	}
	return Line{Time: m[1], Level: strings.ToLower(m[2]), Component: m[3], Message: m[4]}, true
}

var levelRank = map[string]int{
	"trace": 0, "debug": 1, "info": 2, "warn": 3, "warning": 3, "error": 4, "fatal": 5, "panic": 6,
}

// FilterLevel keeps lines at or above min. Lines that do not parse are kept
// only when the line before them was kept, so multi-line messages stay whole.
// An empty or unknown min keeps everything.
func FilterLevel(lines []string, min string) []string {
	threshold, ok := levelRank[strings.ToLower(strings.TrimSpace(min))]
	if !ok {
		return lines
	}
	out := make([]string, 0, len(lines))
	keep := true
	for _, line := range lines {
		if parsed, ok := Parse(line); ok {
			keep = levelRank[parsed.Level] >= threshold
		}
		if keep {
			out = append(out, line)
		}
	}
	return out
}

var (
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	componentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFFF"))
	levelStyles    = map[string]lipgloss.Style{
		"debug": lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true),
		"info":  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
		"warn":  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		"error": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}
)

// ColorizeLine styles the time, level and component of a formatted log line
// for terminal output. Lines that do not parse are returned unchanged.
func ColorizeLine(line string) string {
	parsed, ok := Parse(line)
	if !ok {
		return line
	}
	var b strings.Builder
	if parsed.Time != "" {
		b.WriteString(timeStyle.Render(parsed.Time))
		b.WriteString(" ")
	}
	label := "[" + strings.ToUpper(parsed.Level) + "]"
	if style, ok := levelStyles[parsed.Level]; ok {
		label = style.Render(label)
	}
	b.WriteString(label)
	if parsed.Component != "" {
		b.WriteString(" ")
		b.WriteString(componentStyle.Render("[" + parsed.Component + "]"))
	}
	if parsed.Message != "" {
		b.WriteString(" ")
		b.WriteString(parsed.Message)
	}
	return b.String()
}

// ColorizeLines applies ColorizeLine to every line.
func ColorizeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ColorizeLine(line)
	}
	return out
}
