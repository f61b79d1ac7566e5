package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if lines != nil {
		t.Fatalf("Read() = %v, want nil", lines)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Line
		ok    bool
	}{
		{
			name:  "full line",
			input: "2025-10-08 21:01:05 [WARN] [state] feed fetch failed page=2",
			want:  Line{Time: "2025-10-08 21:01:05", Level: "warn", Component: "state", Message: "feed fetch failed page=2"},
			ok:    true,
		},
		{
			name:  "no timestamp or component",
			input: "[INFO] starting",
			want:  Line{Level: "info", Message: "starting"},
			ok:    true,
		},
		{
			name:  "free text",
			input: "    at some continuation",
			ok:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if ok != tt.ok {
				t.Fatalf("Parse() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFilterLevel(t *testing.T) {
	input := []string{
		"2025-10-08 21:01:05 [DEBUG] [feed] probe ok",
		"2025-10-08 21:01:06 [WARN] [state] feed fetch failed",
		"    continuation of warn",
		"2025-10-08 21:01:07 [INFO] [app] first page loaded",
		"2025-10-08 21:01:08 [DEBUG] [web] request",
		"    continuation of debug",
	}

	got := FilterLevel(input, "info")
	want := []string{input[1], input[2], input[3]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterLevel(info) = %v, want %v", got, want)
	}

	if got := FilterLevel(input, ""); !reflect.DeepEqual(got, input) {
		t.Errorf("FilterLevel(\"\") = %v, want input unchanged", got)
	}
}

func TestColorizeLine(t *testing.T) {
	if got := ColorizeLine(""); got != "" {
		t.Errorf("ColorizeLine(\"\") = %q, want empty", got)
	}
	if got := ColorizeLine("    plain"); got != "    plain" {
		t.Errorf("ColorizeLine(plain) = %q, want unchanged", got)
	}

	line := "2025-10-08 21:01:05 [ERROR] [feed] image host unavailable"
	got := ColorizeLine(line)
	for _, part := range []string{"2025-10-08 21:01:05", "ERROR", "[feed]", "image host unavailable"} {
		if !strings.Contains(got, part) {
			t.Errorf("ColorizeLine() = %q, missing %q", got, part)
		}
	}
}

func TestColorizeLines(t *testing.T) {
	input := []string{"[INFO] a", "plain", "[WARN] b"}
	got := ColorizeLines(input)
	if len(got) != len(input) {
		t.Fatalf("ColorizeLines() returned %d lines, want %d", len(got), len(input))
	}
	if got[1] != "plain" {
		t.Errorf("ColorizeLines()[1] = %q, want %q", got[1], "plain")
	}
}
