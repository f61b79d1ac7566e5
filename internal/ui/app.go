package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/wallfeed/internal/actions"
	"github.com/five82/wallfeed/internal/feed"
	"github.com/five82/wallfeed/internal/prefs"
	"github.com/five82/wallfeed/internal/state"
	"github.com/five82/wallfeed/internal/wallpaper"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Actions   *actions.Actions // nil disables the wallpaper actions
	Prefs     prefs.Prefs
	PrefsPath string
	PollTick  time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	actions   *actions.Actions
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	spinner  spinner.Model
	input    textinput.Model
	notice   notice

	// Data state
	snapshot   state.Snapshot
	visible    []feed.Record
	visibleSig feedSignature
	selected   int
	category   string
	search     string
}

type notice struct {
	text  string
	isErr bool
}

// feedSignature changes whenever the store gains or loses records, so the
// visible list (and the Trending shuffle) is only rebuilt when it must be.
type feedSignature struct {
	items     int
	favorites int
	page      int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	p := opts.Prefs
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = prefs.Defaults().Theme
	}
	if strings.TrimSpace(p.Category) == "" {
		p.Category = state.CategoryAll
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.Placeholder = "search name or category"
	input.Prompt = "/ "
	input.CharLimit = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		ctx:        ctx,
		store:      opts.Store,
		actions:    opts.Actions,
		prefsPath:  prefsPath,
		pollTick:   pollTick,
		keys:       DefaultKeyMap(),
		theme:      GetTheme(p.Theme),
		spinner:    spin,
		input:      input,
		category:   p.Category,
		visibleSig: feedSignature{items: -1},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width/2)
		m.ready = true
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		cmds = append(cmds, tickCmd(m.pollTick))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, m.maybeLoadMore()

	case fetchDoneMsg:
		if msg.err != nil {
			m.notice = notice{text: "Could not load wallpapers: " + rootCause(msg.err), isErr: true}
		} else if msg.started && msg.first {
			m.notice = notice{text: "Feed refreshed"}
		}
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
		return m, nil

	case actionDoneMsg:
		m.notice = notice{text: msg.text, isErr: msg.err != nil}
		if msg.err != nil {
			m.notice.text = msg.text + ": " + rootCause(msg.err)
		}
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.input.Focused() {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.search != "" {
			m.search = ""
			m.input.SetValue("")
			m.rebuildVisible()
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.input.SetValue(m.search)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.NextCategory):
		m.cycleCategory(1)
		return m, m.maybeLoadMore()

	case key.Matches(msg, m.keys.PrevCategory):
		m.cycleCategory(-1)
		return m, m.maybeLoadMore()

	case key.Matches(msg, m.keys.Refresh):
		if m.store == nil {
			return m, nil
		}
		m.selected = 0
		return m, fetchFirstCmd(m.ctx, m.store)

	case key.Matches(msg, m.keys.LoadMore):
		if m.store == nil {
			return m, nil
		}
		return m, fetchNextCmd(m.ctx, m.store)

	case key.Matches(msg, m.keys.Favorite):
		rec, ok := m.selectedRecord()
		if !ok || m.store == nil {
			return m, nil
		}
		if m.store.ToggleFavorite(rec) {
			m.notice = notice{text: rec.Name + " added to favorites"}
		} else {
			m.notice = notice{text: rec.Name + " removed from favorites"}
		}
		return m, fetchSnapshotCmd(m.store)

	case key.Matches(msg, m.keys.Download):
		return m, m.downloadSelected()

	case key.Matches(msg, m.keys.Share):
		return m, m.shareSelected()

	case key.Matches(msg, m.keys.SetHome):
		return m, m.setSelected(wallpaper.TargetHome)

	case key.Matches(msg, m.keys.SetLock):
		return m, m.setSelected(wallpaper.TargetLock)

	case key.Matches(msg, m.keys.SetBoth):
		return m, m.setSelected(wallpaper.TargetBoth)

	case key.Matches(msg, m.keys.Up):
		m.selected = moveSelection(m.selected, len(m.visible), moveUp)
	case key.Matches(msg, m.keys.Down):
		m.selected = moveSelection(m.selected, len(m.visible), moveDown)
	case key.Matches(msg, m.keys.Left):
		m.selected = moveSelection(m.selected, len(m.visible), moveLeft)
	case key.Matches(msg, m.keys.Right):
		m.selected = moveSelection(m.selected, len(m.visible), moveRight)
	case key.Matches(msg, m.keys.Top):
		m.selected = moveSelection(m.selected, len(m.visible), moveTop)
	case key.Matches(msg, m.keys.Bottom):
		m.selected = moveSelection(m.selected, len(m.visible), moveBottom)
	default:
		return m, nil
	}
	return m, m.maybeLoadMore()
}

// handleSearchKey routes keys to the search input while it has focus. The
// visible list follows every keystroke.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.input.Blur()
		return m, nil
	case "esc":
		m.input.Blur()
		m.input.SetValue("")
		m.search = ""
		m.rebuildVisible()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := strings.TrimSpace(m.input.Value()); v != m.search {
		m.search = v
		m.selected = 0
		m.rebuildVisible()
	}
	return m, cmd
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	sig := feedSignature{items: len(snap.Items), favorites: len(snap.Favorites), page: snap.Page}
	if sig != m.visibleSig {
		m.visibleSig = sig
		m.rebuildVisible()
	}
}

func (m *Model) rebuildVisible() {
	if m.store == nil {
		m.visible = nil
		return
	}
	m.visible = m.store.FilteredItems(m.search, m.category)
	if m.selected >= len(m.visible) {
		m.selected = max(0, len(m.visible)-1)
	}
}

func (m *Model) cycleCategory(step int) {
	if m.store == nil {
		return
	}
	cats := m.store.Categories()
	idx := 0
	for i, c := range cats {
		if strings.EqualFold(c, m.category) {
			idx = i
			break
		}
	}
	idx = (idx + step + len(cats)) % len(cats)
	m.category = cats[idx]
	m.selected = 0
	m.rebuildVisible()
	m.savePrefs()
}

// maybeLoadMore requests the next page when the selection nears the end of
// a feed-backed list.
func (m Model) maybeLoadMore() tea.Cmd {
	if m.store == nil || m.category == state.CategoryFavorites {
		return nil
	}
	if m.snapshot.Loading || !m.snapshot.HasMore || m.snapshot.Page == 0 {
		return nil
	}
	if m.snapshot.LastError != nil {
		// Wait for an explicit refresh or load more after a failure.
		return nil
	}
	if !nearEnd(m.selected, len(m.visible)) {
		return nil
	}
	return fetchNextCmd(m.ctx, m.store)
}

func (m Model) selectedRecord() (feed.Record, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return feed.Record{}, false
	}
	return m.visible[m.selected], true
}

func (m *Model) downloadSelected() tea.Cmd {
	rec, ok := m.selectedRecord()
	if !ok {
		return nil
	}
	if m.actions == nil {
		m.notice = notice{text: "Downloads are disabled", isErr: true}
		return nil
	}
	m.notice = notice{text: "Downloading " + rec.Name + "..."}
	return downloadCmd(m.ctx, m.actions, rec)
}

func (m *Model) shareSelected() tea.Cmd {
	rec, ok := m.selectedRecord()
	if !ok {
		return nil
	}
	if m.actions == nil {
		m.notice = notice{text: "Sharing is disabled", isErr: true}
		return nil
	}
	return shareCmd(m.ctx, m.actions, rec)
}

func (m *Model) setSelected(target wallpaper.Target) tea.Cmd {
	rec, ok := m.selectedRecord()
	if !ok {
		return nil
	}
	if m.actions == nil {
		m.notice = notice{text: "Setting wallpapers is disabled", isErr: true}
		return nil
	}
	m.notice = notice{text: fmt.Sprintf("Applying %s (%s)...", rec.Name, target)}
	return setWallpaperCmd(m.ctx, m.actions, rec, target)
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Category: m.category})
}

// rootCause returns the innermost error message, which is the one a user can
// act on.
func rootCause(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type fetchDoneMsg struct {
	first   bool
	started bool
	err     error
}

type actionDoneMsg struct {
	text string
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func fetchFirstCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		started, err := store.FetchFirstPage(ctx)
		return fetchDoneMsg{first: true, started: started, err: err}
	}
}

func fetchNextCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		started, err := store.FetchNextPage(ctx)
		return fetchDoneMsg{started: started, err: err}
	}
}

func downloadCmd(ctx context.Context, acts *actions.Actions, rec feed.Record) tea.Cmd {
	return func() tea.Msg {
		path, err := acts.Download(ctx, rec)
		if err != nil {
			return actionDoneMsg{text: "Download failed", err: err}
		}
		return actionDoneMsg{text: "Saved " + path}
	}
}

func shareCmd(ctx context.Context, acts *actions.Actions, rec feed.Record) tea.Cmd {
	return func() tea.Msg {
		if _, err := acts.Share(ctx, rec); err != nil {
			return actionDoneMsg{text: "Share failed", err: err}
		}
		return actionDoneMsg{text: "Copied link to " + rec.Name}
	}
}

func setWallpaperCmd(ctx context.Context, acts *actions.Actions, rec feed.Record, target wallpaper.Target) tea.Cmd {
	return func() tea.Msg {
		if err := acts.SetWallpaper(ctx, rec, target); err != nil {
			return actionDoneMsg{text: "Set wallpaper failed", err: err}
		}
		return actionDoneMsg{text: fmt.Sprintf("%s set as %s wallpaper", rec.Name, target)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
