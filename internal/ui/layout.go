package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DefaultUIInterval is how often the UI re-reads the store.
const DefaultUIInterval = 500 * time.Millisecond

// Terminal width below which the category bar collapses to the active tab.
const layoutCompactWidth = 70

// renderMain renders the header, category bar, optional search line, the
// grid and the footer.
func (m Model) renderMain() string {
	header := m.renderHeader()
	tabs := m.renderCategories()
	footer := m.renderFooter()

	parts := []string{header, tabs}
	if m.input.Focused() || m.search != "" {
		parts = append(parts, m.renderSearch())
	}

	used := 0
	for _, p := range parts {
		used += lipgloss.Height(p)
	}
	used += lipgloss.Height(footer)
	gridHeight := m.height - used
	if gridHeight < cardHeight {
		gridHeight = cardHeight
	}

	parts = append(parts, m.renderGrid(gridHeight), footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	logo := styles.Logo.Render("wallfeed")

	snap := m.snapshot
	var status []string
	status = append(status, fmt.Sprintf("%d wallpapers", len(snap.Items)))
	if snap.Page > 0 {
		status = append(status, fmt.Sprintf("page %d", snap.Page))
	}
	if len(snap.Favorites) > 0 {
		status = append(status, styles.FavoriteBadge.Render(fmt.Sprintf("♥ %d", len(snap.Favorites))))
	}
	switch {
	case snap.Loading:
		status = append(status, styles.InfoText.Render(m.spinner.View()+" loading"))
	case snap.IsOffline():
		status = append(status, styles.DangerText.Render("offline"))
	case snap.LastError != nil:
		status = append(status, styles.WarningText.Render("fetch failed"))
	case !snap.HasMore && snap.Page > 0:
		status = append(status, styles.MutedText.Render("end of feed"))
	}

	line := logo + "  " + strings.Join(status, styles.FaintText.Render(" · "))
	return styles.Header.Width(m.width).Render(line)
}

func (m Model) renderCategories() string {
	styles := m.theme.Styles()
	if m.store == nil {
		return ""
	}
	cats := m.store.Categories()
	if m.width < layoutCompactWidth {
		return styles.ActiveTab.Render(m.category)
	}
	tabs := make([]string, 0, len(cats))
	for _, c := range cats {
		if strings.EqualFold(c, m.category) {
			tabs = append(tabs, styles.ActiveTab.Render(c))
		} else {
			tabs = append(tabs, styles.Tab.Render(c))
		}
	}
	return truncateStyled(lipgloss.JoinHorizontal(lipgloss.Top, tabs...), m.width)
}

func (m Model) renderSearch() string {
	if m.input.Focused() {
		return m.input.View()
	}
	styles := m.theme.Styles()
	return styles.MutedText.Render("/ ") + styles.Text.Render(m.search) +
		styles.FaintText.Render("  (esc to clear)")
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.notice.text != "" {
		text := truncate(m.notice.text, m.width-2)
		if m.notice.isErr {
			return styles.Footer.Width(m.width).Render(styles.DangerText.Render(text))
		}
		return styles.Footer.Width(m.width).Render(styles.SuccessText.Render(text))
	}
	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, styles.AccentText.Render(h.Key)+" "+h.Desc)
	}
	return styles.Footer.Width(m.width).Render(truncateStyled(strings.Join(hints, "  "), m.width-2))
}

// truncateStyled cuts an already styled string to width cells.
// truncate fits plain text into width terminal cells, ending in an ellipsis
// when something was cut. Wide runes count as two cells.
func truncate(value string, width int) string {
	value = strings.TrimSpace(value)
	if width <= 0 || ansi.StringWidth(value) <= width {
		return value
	}
	if width == 1 {
		return ansi.Truncate(value, width, "")
	}
	return ansi.Truncate(value, width, "…")
}

func truncateStyled(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
