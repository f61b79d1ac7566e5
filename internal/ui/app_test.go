package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/wallfeed/internal/actions"
	"github.com/five82/wallfeed/internal/feed"
	"github.com/five82/wallfeed/internal/prefs"
	"github.com/five82/wallfeed/internal/state"
)

const testPageSize = 6

type pagedSource struct {
	mu    sync.Mutex
	pages int
	calls []int
}

func (p *pagedSource) FetchPage(_ context.Context, page int) (feed.Page, error) {
	p.mu.Lock()
	p.calls = append(p.calls, page)
	p.mu.Unlock()
	out := feed.Page{Index: page}
	if page > p.pages {
		return out, nil
	}
	for i := 1; i <= testPageSize; i++ {
		n := (page-1)*testPageSize + i
		out.Records = append(out.Records, feed.Record{
			ID:       strconv.Itoa(n),
			Name:     "img (" + strconv.Itoa(n) + ")",
			URL:      "https://walls.test/img%20(" + strconv.Itoa(n) + ").jpg",
			Category: feed.CategoryFor(n * 100),
		})
	}
	return out, nil
}

func (p *pagedSource) PageSize() int { return testPageSize }

func newModel(t *testing.T, src *pagedSource) (Model, *state.Store) {
	t.Helper()
	store := state.New(state.Options{Source: src})
	if _, err := store.FetchFirstPage(context.Background()); err != nil {
		t.Fatalf("FetchFirstPage: %v", err)
	}
	m := New(Options{
		Store:     store,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = update(t, m, snapshotMsg(store.Snapshot()))
	return m, store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_ShowsFirstPage(t *testing.T) {
	m, _ := newModel(t, &pagedSource{pages: 3})
	if len(m.visible) != testPageSize {
		t.Fatalf("visible = %d, want %d", len(m.visible), testPageSize)
	}
	view := m.View()
	if !strings.Contains(view, "img (1)") || !strings.Contains(view, "wallfeed") {
		t.Fatalf("view missing expected content:\n%s", view)
	}
}

func TestModel_FavoriteToggle(t *testing.T) {
	m, store := newModel(t, &pagedSource{pages: 1})
	m = update(t, m, keyMsg("l")) // select img (2)
	m = update(t, m, keyMsg("f"))
	if !store.IsFavorite("2") {
		t.Fatalf("img (2) should be a favorite")
	}
	if !strings.Contains(m.notice.text, "added") {
		t.Fatalf("notice = %q", m.notice.text)
	}
	m = update(t, m, keyMsg("f"))
	if store.IsFavorite("2") {
		t.Fatalf("second toggle should remove the favorite")
	}
}

func TestModel_SearchFiltersAsYouType(t *testing.T) {
	m, _ := newModel(t, &pagedSource{pages: 1})
	m = update(t, m, keyMsg("/"))
	if !m.input.Focused() {
		t.Fatalf("search input should be focused")
	}
	for _, r := range "img (4" {
		m = update(t, m, keyMsg(string(r)))
	}
	if m.search != "img (4" || len(m.visible) != 1 || m.visible[0].ID != "4" {
		t.Fatalf("search = %q visible = %v", m.search, ids(m.visible))
	}
	m = update(t, m, keyMsg("enter"))
	if m.input.Focused() {
		t.Fatalf("enter should blur the search input")
	}
	m = update(t, m, keyMsg("esc"))
	if m.search != "" || len(m.visible) != testPageSize {
		t.Fatalf("esc should clear the search, got %q with %d items", m.search, len(m.visible))
	}
}

func TestModel_CategoryCycleSavesPrefs(t *testing.T) {
	m, _ := newModel(t, &pagedSource{pages: 1})
	m = update(t, m, keyMsg("tab"))
	if m.category != state.CategoryTrending {
		t.Fatalf("category = %q, want Trending", m.category)
	}
	m = update(t, m, keyMsg("tab"))
	if m.category != state.CategoryFavorites || len(m.visible) != 0 {
		t.Fatalf("category = %q visible = %d, want empty Favorites", m.category, len(m.visible))
	}
	if !strings.Contains(m.View(), "No favorites yet") {
		t.Fatalf("favorites view should show the empty state")
	}

	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Category != state.CategoryFavorites {
		t.Fatalf("saved category = %q, want Favorites", saved.Category)
	}
}

func TestModel_LoadsMoreNearEnd(t *testing.T) {
	src := &pagedSource{pages: 3}
	m, store := newModel(t, src)

	next, cmd := m.Update(keyMsg("G"))
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("moving to the last item should request the next page")
	}
	msg := cmd()
	done, ok := msg.(fetchDoneMsg)
	if !ok || !done.started || done.err != nil {
		t.Fatalf("cmd() = %#v, want started fetchDoneMsg", msg)
	}
	m = update(t, m, snapshotMsg(store.Snapshot()))
	if len(m.visible) != 2*testPageSize {
		t.Fatalf("visible = %d, want %d", len(m.visible), 2*testPageSize)
	}
}

func TestModel_NoLoadMoreInFavorites(t *testing.T) {
	m, _ := newModel(t, &pagedSource{pages: 3})
	m.category = state.CategoryFavorites
	if cmd := m.maybeLoadMore(); cmd != nil {
		t.Fatalf("favorites should never page the feed")
	}
}

func TestModel_ThemeCycleSavesPrefs(t *testing.T) {
	m, _ := newModel(t, &pagedSource{pages: 1})
	before := m.theme.Name
	m = update(t, m, keyMsg("T"))
	if m.theme.Name == before {
		t.Fatalf("theme did not change from %q", before)
	}
	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Theme != m.theme.Name {
		t.Fatalf("saved theme = %q, want %q", saved.Theme, m.theme.Name)
	}
}

func TestModel_DownloadWithoutActions(t *testing.T) {
	m, _ := newModel(t, &pagedSource{pages: 1})
	next, cmd := m.Update(keyMsg("d"))
	m = next.(Model)
	if cmd != nil || !m.notice.isErr {
		t.Fatalf("download without actions should only show an error notice")
	}
}

func TestModel_ShareCopiesSelectedLink(t *testing.T) {
	m, _ := newModel(t, &pagedSource{pages: 1})
	var copied string
	m.actions = actions.New(actions.Options{Clipboard: func(text string) error {
		copied = text
		return nil
	}})
	m = update(t, m, keyMsg("l")) // select img (2)

	next, cmd := m.Update(keyMsg("y"))
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("share should return a command")
	}
	m = update(t, m, cmd())
	if copied != "https://walls.test/img%20(2).jpg" {
		t.Fatalf("copied = %q", copied)
	}
	if m.notice.isErr || !strings.Contains(m.notice.text, "img (2)") {
		t.Fatalf("notice = %+v", m.notice)
	}
}

func TestModel_ShareFailureShowsNotice(t *testing.T) {
	m, store := newModel(t, &pagedSource{pages: 1})
	m.actions = actions.New(actions.Options{Marker: store, Clipboard: func(string) error {
		return errors.New("no clipboard utility")
	}})

	_, cmd := m.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatalf("share should return a command")
	}
	m = update(t, m, cmd())
	if !m.notice.isErr || !strings.Contains(m.notice.text, "no clipboard utility") {
		t.Fatalf("notice = %+v", m.notice)
	}
	if store.IsFavorite("1") || store.IsDownloaded("1") {
		t.Fatalf("share failure must not touch favorites or downloads")
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m, _ := newModel(t, &pagedSource{pages: 1})
	m = update(t, m, keyMsg("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not rendered")
	}
	m = update(t, m, keyMsg("x"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}
