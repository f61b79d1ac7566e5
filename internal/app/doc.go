// Package app provides the orchestration layer for wallfeed.
//
// # Overview
//
// Setup is the composition root shared by every command. It loads the
// config, configures logging, builds the feed client, opens the key-value
// store, restores favorites and downloads into a state.Store and wires the
// download and wallpaper actions. The returned Env must be closed so pending
// favorite writes reach storage.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Setup()    │
//	└──────┬───────┘
//	       ├─────> config.Load()        TOML or YAML config
//	       ├─────> logging.Configure()  stderr, or the log file for the TUI
//	       ├─────> feed.NewClient()     image host client
//	       ├─────> kv.Open()            file, sqlite or postgres
//	       ├─────> state.New().Load()   restore favorites and downloads
//	       └─────> actions.New()        download and set wallpaper
//
//	Run():   Setup ─> StartLoader ─> ui.Run (blocks)
//	Serve(): Setup ─> StartLoader ─> web.Serve (blocks)
//
// # First Page Retry
//
// StartLoader fetches page 1 in the background so the UI can show its
// loading state at once. Failures are retried with exponential backoff
// starting at 2s and capped at 30s, up to five attempts:
//
//	attempt 1 fails -> wait 2s
//	attempt 2 fails -> wait 4s
//	attempt 3 fails -> wait 8s
//	...
//
// After the last attempt the store keeps the error and its failure count,
// which the UI renders as offline; the user retries with refresh.
//
// # Id Resolution
//
// Env.Resolve maps an id to a record for the CLI and web API: loaded items
// and favorites first, then the synthetic record for numeric ids within the
// configured total.
package app
