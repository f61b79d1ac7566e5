package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wallfeed/internal/feed"
	"github.com/five82/wallfeed/internal/state"
)

// loadMoreThreshold is how close to the end of the list the selection may
// get before the next page is requested.
const loadMoreThreshold = 4

// cardHeight is the rendered height of one card, borders included.
const cardHeight = 4

// SplitColumns distributes items into two columns by index parity: even
// indices go left, odd indices go right. Order within a column is kept.
func SplitColumns(items []feed.Record) (left, right []feed.Record) {
	left = make([]feed.Record, 0, (len(items)+1)/2)
	right = make([]feed.Record, 0, len(items)/2)
	for i, rec := range items {
		if i%2 == 0 {
			left = append(left, rec)
		} else {
			right = append(right, rec)
		}
	}
	return left, right
}

// nearEnd reports whether selected is within loadMoreThreshold of the last
// of count items.
func nearEnd(selected, count int) bool {
	if count == 0 {
		return true
	}
	return selected >= count-loadMoreThreshold
}

// moveSelection applies a grid move to a flat index. Rows hold two items, so
// vertical moves step by two and horizontal moves flip parity.
func moveSelection(selected, count int, move gridMove) int {
	if count == 0 {
		return 0
	}
	next := selected
	switch move {
	case moveUp:
		next -= 2
	case moveDown:
		next += 2
	case moveLeft:
		if selected%2 == 1 {
			next--
		}
	case moveRight:
		if selected%2 == 0 {
			next++
		}
	case moveTop:
		next = 0
	case moveBottom:
		next = count - 1
	}
	if next < 0 || next >= count {
		// Moving down from the left column of an incomplete last row lands
		// on the final item instead of staying put.
		if move == moveDown && selected < count-1 {
			return count - 1
		}
		return selected
	}
	return next
}

type gridMove int

const (
	moveUp gridMove = iota
	moveDown
	moveLeft
	moveRight
	moveTop
	moveBottom
)

// visibleRows returns the first row and the number of rows to render so that
// the selected row stays on screen.
func visibleRows(selected, count, height int) (first, rows int) {
	total := (count + 1) / 2
	rows = height / cardHeight
	if rows < 1 {
		rows = 1
	}
	if rows >= total {
		return 0, total
	}
	row := selected / 2
	first = row - rows/2
	if first < 0 {
		first = 0
	}
	if first+rows > total {
		first = total - rows
	}
	return first, rows
}

// renderGrid draws the two-column card grid.
func (m Model) renderGrid(height int) string {
	items := m.visible
	if len(items) == 0 {
		return m.renderEmpty(height)
	}
	styles := m.theme.Styles()
	colWidth := (m.width - 1) / 2
	if colWidth < 16 {
		colWidth = 16
	}

	left, right := SplitColumns(items)
	first, rows := visibleRows(m.selected, len(items), height)

	lines := make([]string, 0, rows)
	for row := first; row < first+rows; row++ {
		cells := make([]string, 0, 2)
		if row < len(left) {
			cells = append(cells, m.renderCard(left[row], row*2 == m.selected, colWidth, styles))
		}
		if row < len(right) {
			cells = append(cells, m.renderCard(right[row], row*2+1 == m.selected, colWidth, styles))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCard(rec feed.Record, selected bool, width int, styles Styles) string {
	style := styles.Card
	if selected {
		style = styles.SelectedCard
	}
	inner := width - style.GetHorizontalFrameSize()
	if inner < 8 {
		inner = 8
	}

	badges := ""
	if m.store != nil && m.store.IsFavorite(rec.ID) {
		badges += styles.FavoriteBadge.Render("♥")
	}
	if m.store != nil && m.store.IsDownloaded(rec.ID) {
		if badges != "" {
			badges += " "
		}
		badges += styles.DownloadedBadge.Render("✓")
	}

	nameWidth := inner - lipgloss.Width(badges) - 1
	title := truncate(rec.Name, nameWidth)
	gap := inner - lipgloss.Width(title) - lipgloss.Width(badges)
	if gap < 1 {
		gap = 1
	}
	line1 := title + strings.Repeat(" ", gap) + badges
	line2 := styles.MutedText.Render(truncate(rec.Category+" · #"+rec.ID, inner))
	return style.Width(width - style.GetHorizontalBorderSize()).Render(line1 + "\n" + line2)
}

func (m Model) renderEmpty(height int) string {
	styles := m.theme.Styles()
	var msg string
	switch {
	case m.snapshot.Loading:
		msg = m.spinner.View() + " Loading wallpapers..."
	case m.snapshot.LastError != nil && len(m.snapshot.Items) == 0:
		msg = styles.DangerText.Render("Could not load wallpapers.") + " " +
			styles.MutedText.Render("Press r to retry.")
	case m.category == state.CategoryFavorites:
		msg = styles.MutedText.Render("No favorites yet. Press f on a wallpaper to add it.")
	case m.search != "":
		msg = styles.MutedText.Render("No wallpapers match \"" + m.search + "\".")
	default:
		msg = styles.MutedText.Render("No wallpapers.")
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
}
