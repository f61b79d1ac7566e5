// Package state holds the client-side wallpaper state for wallfeed.
//
// # Overview
//
// A single Store is created by the app package at startup and handed by
// pointer to the terminal UI and the web API. It owns:
//
//   - the cumulative feed (Items) and the pagination cursor (Page, HasMore)
//   - the Loading flag that guards fetches
//   - the favorites set, keyed by record id, kept in insertion order
//   - the downloaded-id set, append-only
//
// Every mutation goes through a Store method; callers only ever see copies
// returned by Snapshot and the read helpers.
//
// # Fetch Guard
//
// FetchFirstPage and FetchNextPage check and set Loading under the write lock
// and release the lock before calling the feed source:
//
//	FetchNextPage()
//	  lock ── loading || !hasMore ? ──yes──> unlock, return false
//	   │ no
//	   ├─ loading = true
//	  unlock
//	   ├─ source.FetchPage(page+1)      (no lock held)
//	  lock
//	   ├─ loading = false
//	   ├─ error? record it, keep items
//	   └─ append new ids, page++, hasMore = len == PageSize
//	  unlock
//
// A second call made while the first is in flight is rejected, not queued, so
// two overlapping "load more" requests append exactly one page. Loading is
// cleared on every path, so a failed fetch never locks the feed.
//
// # Persistence
//
// ToggleFavorite and MarkDownloaded update memory synchronously, then hand a
// JSON copy of the set to a detached goroutine that writes it to the kv.Store
// under the "favorites" or "downloaded" key. Writes carry a per-key sequence
// number so an older goroutine finishing late cannot overwrite a newer value.
// Write failures are logged and never reach the caller; the in-memory state
// stays correct for the session. Close waits for pending writes.
//
// # Derived Views
//
//   - FilteredItems(search, category): All, Trending (fresh shuffle per call),
//     Favorites (the favorites set, independent of the feed) or an exact
//     category, then a case-insensitive substring search on name and category.
//   - Categories(): sentinels followed by labels of loaded items.
//   - Shuffle(items, r): pure reordering used by Trending.
//
// # Usage Example
//
//	store := state.New(state.Options{Source: client, KV: storage})
//	if err := store.Load(ctx); err != nil {
//		log.WithError(err).Warn("starting without saved favorites")
//	}
//	if _, err := store.FetchFirstPage(ctx); err != nil {
//		// show retry notice
//	}
//	store.ToggleFavorite(rec)
//	defer store.Close()
package state
