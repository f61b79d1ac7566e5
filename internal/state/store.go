package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/wallfeed/internal/feed"
	"github.com/five82/wallfeed/internal/kv"
	"github.com/five82/wallfeed/internal/logging"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Items               []feed.Record
	Page                int
	HasMore             bool
	Loading             bool
	Favorites           []feed.Record
	DownloadedIDs       []string
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed fetches
}

// IsOffline returns true when the image host has failed several fetches in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Options configure a Store.
type Options struct {
	Source feed.Source
	KV     kv.Store // nil disables persistence
	Logger *logrus.Entry
	// Shuffler orders the Trending category. Nil uses Shuffle with the
	// global random source.
	Shuffler func([]feed.Record) []feed.Record
}

// Store holds the wallpaper feed, pagination cursor and the user's
// favorites and downloads. All methods are safe for concurrent use.
type Store struct {
	source  feed.Source
	log     *logrus.Entry
	shuffle func([]feed.Record) []feed.Record
	saver   *persister

	mu         sync.RWMutex
	items      []feed.Record
	seen       map[string]struct{}
	page       int
	hasMore    bool
	loading    bool
	favorites  []feed.Record
	favSet     map[string]struct{}
	downloaded []string
	dlSet      map[string]struct{}

	lastUpdated time.Time
	lastErr     error
	failures    int
}

// New returns an empty Store. Call Load to restore persisted state.
func New(opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = logging.NewLogger("state")
	}
	shuffle := opts.Shuffler
	if shuffle == nil {
		shuffle = func(items []feed.Record) []feed.Record { return Shuffle(items, nil) }
	}
	return &Store{
		source:  opts.Source,
		log:     log,
		shuffle: shuffle,
		saver:   newPersister(opts.KV, log),
		seen:    make(map[string]struct{}),
		hasMore: true,
		favSet:  make(map[string]struct{}),
		dlSet:   make(map[string]struct{}),
	}
}

// Load restores favorites and downloaded ids from storage. Missing keys are
// not an error. Corrupt values are logged and ignored so the session starts
// with an empty set.
func (s *Store) Load(ctx context.Context) error {
	favorites, err := s.saver.loadFavorites(ctx)
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	downloaded, err := s.saver.loadDownloaded(ctx)
	if err != nil {
		return fmt.Errorf("load downloaded ids: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites = s.favorites[:0]
	s.favSet = make(map[string]struct{}, len(favorites))
	for _, rec := range favorites {
		if _, dup := s.favSet[rec.ID]; dup || rec.ID == "" {
			continue
		}
		s.favSet[rec.ID] = struct{}{}
		s.favorites = append(s.favorites, rec)
	}

	s.downloaded = s.downloaded[:0]
	s.dlSet = make(map[string]struct{}, len(downloaded))
	for _, id := range downloaded {
		if _, dup := s.dlSet[id]; dup || id == "" {
			continue
		}
		s.dlSet[id] = struct{}{}
		s.downloaded = append(s.downloaded, id)
	}

	s.log.WithFields(logrus.Fields{
		"favorites":  len(s.favorites),
		"downloaded": len(s.downloaded),
	}).Debug("restored persisted state")
	return nil
}

// FetchFirstPage restarts the feed from page 1. It reports false without
// fetching when another fetch is already in flight.
func (s *Store) FetchFirstPage(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return false, nil
	}
	s.loading = true
	s.items = nil
	s.seen = make(map[string]struct{})
	s.page = 0
	s.hasMore = true
	s.mu.Unlock()

	page, err := s.fetch(ctx, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.recordFailureLocked(err)
		return true, err
	}
	s.appendLocked(page.Records)
	s.page = 1
	s.hasMore = page.Len() == s.source.PageSize()
	s.recordSuccessLocked()
	return true, nil
}

// FetchNextPage appends the page after the cursor. It is a no-op reporting
// false while another fetch is in flight or once the feed is exhausted.
// A failed fetch leaves the current items untouched.
func (s *Store) FetchNextPage(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.loading || !s.hasMore {
		s.mu.Unlock()
		return false, nil
	}
	s.loading = true
	next := s.page + 1
	s.mu.Unlock()

	page, err := s.fetch(ctx, next)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.recordFailureLocked(err)
		return true, err
	}
	s.appendLocked(page.Records)
	s.page = next
	s.hasMore = page.Len() == s.source.PageSize()
	s.recordSuccessLocked()
	return true, nil
}

func (s *Store) fetch(ctx context.Context, page int) (feed.Page, error) {
	if s.source == nil {
		return feed.Page{}, fmt.Errorf("feed source is nil")
	}
	result, err := s.source.FetchPage(ctx, page)
	if err != nil {
		s.log.WithError(err).WithField("page", page).Warn("feed fetch failed")
		return feed.Page{}, fmt.Errorf("fetch page %d: %w", page, err)
	}
	s.log.WithFields(logrus.Fields{"page": page, "records": result.Len()}).Debug("feed page fetched")
	return result, nil
}

// appendLocked adds records not already present. Callers hold s.mu.
func (s *Store) appendLocked(records []feed.Record) {
	for _, rec := range records {
		if _, dup := s.seen[rec.ID]; dup {
			continue
		}
		s.seen[rec.ID] = struct{}{}
		s.items = append(s.items, rec)
	}
}

func (s *Store) recordFailureLocked(err error) {
	s.lastErr = err
	s.lastUpdated = time.Now()
	s.failures++
}

func (s *Store) recordSuccessLocked() {
	s.lastErr = nil
	s.lastUpdated = time.Now()
	s.failures = 0
}

// ToggleFavorite adds rec to the favorites when absent and removes it
// otherwise. It returns the new favorite state. The change is visible at
// once; the write to storage happens in the background.
func (s *Store) ToggleFavorite(rec feed.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, present := s.favSet[rec.ID]
	if present {
		delete(s.favSet, rec.ID)
		for i, fav := range s.favorites {
			if fav.ID == rec.ID {
				s.favorites = append(s.favorites[:i:i], s.favorites[i+1:]...)
				break
			}
		}
	} else {
		s.favSet[rec.ID] = struct{}{}
		s.favorites = append(s.favorites, rec)
	}
	s.saver.saveFavorites(cloneRecords(s.favorites))
	return !present
}

// MarkDownloaded records id as downloaded. It reports false when id was
// already recorded.
func (s *Store) MarkDownloaded(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dlSet[id]; ok || id == "" {
		return false
	}
	s.dlSet[id] = struct{}{}
	s.downloaded = append(s.downloaded, id)
	s.saver.saveDownloaded(cloneStrings(s.downloaded))
	return true
}

// IsFavorite reports whether id is in the favorites.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.favSet[id]
	return ok
}

// IsDownloaded reports whether id has completed a download.
func (s *Store) IsDownloaded(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.dlSet[id]
	return ok
}

// Lookup finds a record by id among the loaded items, then the favorites.
func (s *Store) Lookup(id string) (feed.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.items {
		if rec.ID == id {
			return rec, true
		}
	}
	for _, rec := range s.favorites {
		if rec.ID == id {
			return rec, true
		}
	}
	return feed.Record{}, false
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Items:               cloneRecords(s.items),
		Page:                s.page,
		HasMore:             s.hasMore,
		Loading:             s.loading,
		Favorites:           cloneRecords(s.favorites),
		DownloadedIDs:       cloneStrings(s.downloaded),
		LastUpdated:         s.lastUpdated,
		ConsecutiveFailures: s.failures,
	}
	if s.lastErr != nil {
		snap.LastError = fmt.Errorf("%w", s.lastErr)
	}
	return snap
}

// Close waits for pending writes to storage.
func (s *Store) Close() {
	s.saver.wait()
}

func cloneRecords(items []feed.Record) []feed.Record {
	if len(items) == 0 {
		return nil
	}
	dup := make([]feed.Record, len(items))
	copy(dup, items)
	return dup
}

func cloneStrings(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	dup := make([]string, len(items))
	copy(dup, items)
	return dup
}
