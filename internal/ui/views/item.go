package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"itemlist/internal/domain"
)

// ItemRenderer handles rendering of a single list row
type ItemRenderer struct {
	styles         *Styles
	activeMarker   string
	inactiveMarker string
}

// NewItemRenderer creates a new item renderer. Empty markers fall back to "[x]" and "[ ]".
func NewItemRenderer(styles *Styles, activeMarker, inactiveMarker string) *ItemRenderer {
	if activeMarker == "" {
		activeMarker = "[x]"
	}
	if inactiveMarker == "" {
		inactiveMarker = "[ ]"
	}
	return &ItemRenderer{
		styles:         styles,
		activeMarker:   activeMarker,
		inactiveMarker: inactiveMarker,
	}
}

// RenderItem renders one item. Selected items get the active marker and style.
func (r *ItemRenderer) RenderItem(item domain.Item, isCursor, isSelected bool, width int) string {
	marker := r.inactiveMarker
	labelStyle := r.styles.Inactive
	if isSelected {
		marker = r.activeMarker
		labelStyle = r.styles.Active
	}

	// Keep labels aligned when markers differ in width
	markerWidth := max(lipgloss.Width(r.activeMarker), lipgloss.Width(r.inactiveMarker))
	if pad := markerWidth - lipgloss.Width(marker); pad > 0 {
		marker += strings.Repeat(" ", pad)
	}

	label := item.Label
	if label == "" {
		label = item.ID
	}

	line := labelStyle.Render(marker + " " + label)
	if !isCursor {
		return line
	}

	if width > 0 {
		if w := lipgloss.Width(line); w < width {
			line += strings.Repeat(" ", width-w)
		}
	}
	return r.styles.Cursor.Render(line)
}
