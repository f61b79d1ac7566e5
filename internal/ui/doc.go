// Package ui implements the wallfeed terminal browser on Bubble Tea.
//
// # Overview
//
// The UI is a single Model that renders the wallpaper feed as a two-column
// grid of cards. Items are split between the columns by index parity
// (SplitColumns), so the flat selection index maps to a grid position as
// row = i/2, column = i%2.
//
// # Layout
//
//	┌─────────────────────────────────────────────┐
//	│ wallfeed  40 wallpapers · page 2 · ♥ 3      │ header
//	│ All  Trending  Favorites  Abstract  Nature  │ categories
//	│ / search                                    │ only while searching
//	│ ╭──────────────────╮ ╭──────────────────╮   │
//	│ │ img (1)        ♥ │ │ img (2)        ✓ │   │ grid
//	│ │ Abstract · #1    │ │ Abstract · #2    │   │
//	│ ╰──────────────────╯ ╰──────────────────╯   │
//	│ f Toggle favorite  d Download  ...          │ footer / notice
//	└─────────────────────────────────────────────┘
//
// # Data Flow
//
// The model never mutates the feed directly. Fetches run as tea.Cmds that
// call state.Store.FetchFirstPage or FetchNextPage; the store's loading
// guard rejects overlapping requests. A ticker re-reads Store.Snapshot so
// the first page loaded by the app package shows up without a key press.
//
// The visible list is derived with Store.FilteredItems and rebuilt only when
// the store gains or loses records or the search or category changes, so
// the Trending shuffle stays stable while browsing.
//
// # Paging
//
// When the selection comes within loadMoreThreshold items of the end of the
// list, the next page is requested. Favorites never trigger paging, and a
// failed fetch waits for an explicit r (refresh) or m (load more).
//
// # Preferences
//
// Theme (T) and category (tab/c) changes are saved to the prefs file so the
// next session opens where the last one ended.
package ui
