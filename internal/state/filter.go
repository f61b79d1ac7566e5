package state

import (
	"math/rand/v2"
	"strings"

	"github.com/five82/wallfeed/internal/feed"
)

// Sentinel categories understood by FilteredItems.
const (
	CategoryAll       = "All"
	CategoryTrending  = "Trending"
	CategoryFavorites = "Favorites"
)

// FilteredItems derives the visible list for a search term and category.
// Favorites substitutes the favorites for the feed, Trending returns the feed
// in a fresh random order on every call, All (or empty) applies no category
// filter and any other value must equal a record's category. The search term
// then keeps records whose name or category contains it, ignoring case.
func (s *Store) FilteredItems(search, category string) []feed.Record {
	s.mu.RLock()
	var base []feed.Record
	switch {
	case category == CategoryFavorites:
		base = cloneRecords(s.favorites)
	case category == CategoryTrending:
		base = cloneRecords(s.items)
	case category == "" || category == CategoryAll:
		base = cloneRecords(s.items)
	default:
		for _, rec := range s.items {
			if strings.EqualFold(rec.Category, category) {
				base = append(base, rec)
			}
		}
	}
	s.mu.RUnlock()

	if category == CategoryTrending {
		base = s.shuffle(base)
	}
	return MatchSearch(base, search)
}

// MatchSearch keeps records whose name or category contains term,
// case-insensitively. A blank term keeps everything.
func MatchSearch(items []feed.Record, term string) []feed.Record {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return items
	}
	var out []feed.Record
	for _, rec := range items {
		if strings.Contains(strings.ToLower(rec.Name), needle) ||
			strings.Contains(strings.ToLower(rec.Category), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// Categories lists the sentinel categories followed by the distinct labels of
// the loaded items in first-seen order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []string{CategoryAll, CategoryTrending, CategoryFavorites}
	seen := make(map[string]struct{})
	for _, rec := range s.items {
		if rec.Category == "" {
			continue
		}
		if _, ok := seen[rec.Category]; ok {
			continue
		}
		seen[rec.Category] = struct{}{}
		out = append(out, rec.Category)
	}
	return out
}

// Shuffle returns a new slice holding items in random order. A nil r uses the
// global source. The input is not modified.
func Shuffle(items []feed.Record, r *rand.Rand) []feed.Record {
	out := make([]feed.Record, len(items))
	copy(out, items)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if r == nil {
		rand.Shuffle(len(out), swap)
	} else {
		r.Shuffle(len(out), swap)
	}
	return out
}
