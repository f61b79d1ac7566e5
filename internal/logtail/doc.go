// Package logtail reads and formats the wallfeed log file for the
// `wallfeed logs` command.
//
// The terminal UI owns the screen while it runs, so browse sessions log to
// <log_dir>/wallfeed.log instead of stderr. This package gets those lines
// back out:
//
//   - Read returns the last N lines using a ring buffer of N entries, so
//     memory stays O(N) however large the file grows. A missing file is
//     not an error.
//   - Parse splits a line written by logging.TextFormatter:
//
//	2025-10-08 21:01:05 [WARN] [state] feed fetch failed page=2
//
//   - FilterLevel drops lines below a minimum level, keeping continuation
//     lines with the entry they belong to.
//   - ColorizeLine styles time, level and component with lipgloss. On a
//     terminal without color support lipgloss renders plain text.
package logtail
