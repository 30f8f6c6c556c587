package views

import (
	"fmt"
	"strings"

	"itemlist/internal/itemslist"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Title          string
	Rows           []itemslist.Row
	Cursor         int
	ViewportOffset int
	ViewportHeight int
	Visible        bool
	StatusMessage  string
	StatusIsError  bool
	InputActive    bool
	TextInput      string // rendered text input
	HelpView       string // rendered help footer, empty to hide
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	itemRender  *ItemRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(activeMarker, inactiveMarker string) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		itemRender:  NewItemRenderer(styles, activeMarker, inactiveMarker),
		popupRender: NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.InputActive {
		prompt := "New item (id=label or label)\n\n" + state.TextInput + "\n\n" +
			r.styles.Dim.Render("enter add • esc cancel")
		return r.popupRender.RenderPopup(prompt, state.Width, state.Height)
	}

	content := &strings.Builder{}

	title := state.Title
	if title == "" {
		title = "itemlist"
	}
	content.WriteString(r.styles.Title.Render(title))
	content.WriteString("\n")

	if !state.Visible {
		content.WriteString(r.styles.Dim.Render("List hidden. Press h to show it again."))
	} else if len(state.Rows) == 0 {
		content.WriteString(r.styles.Dim.Render("No items. Press n to add one."))
	} else {
		content.WriteString(r.renderRows(state))
	}
	content.WriteString("\n")

	content.WriteString(r.renderStatus(state))

	if state.HelpView != "" {
		content.WriteString("\n\n")
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

// renderRows renders the rows inside the viewport
func (r *Renderer) renderRows(state ViewState) string {
	start := state.ViewportOffset
	if start < 0 || start >= len(state.Rows) {
		start = 0
	}
	end := len(state.Rows)
	if state.ViewportHeight > 0 && start+state.ViewportHeight < end {
		end = start + state.ViewportHeight
	}

	// Account for main container padding
	width := state.Width - 4

	lines := make([]string, 0, end-start+2)
	if start > 0 {
		lines = append(lines, r.styles.Dim.Render(fmt.Sprintf("↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		row := state.Rows[i]
		lines = append(lines, r.itemRender.RenderItem(row.Item, i == state.Cursor, row.Selected, width))
	}
	if end < len(state.Rows) {
		lines = append(lines, r.styles.Dim.Render(fmt.Sprintf("↓ %d more", len(state.Rows)-end)))
	}
	return strings.Join(lines, "\n")
}

// renderStatus renders the selection counter and the last status message
func (r *Renderer) renderStatus(state ViewState) string {
	selected := itemslist.RenderView{Rows: state.Rows}.SelectedCount()
	counter := r.styles.Counter.Render(fmt.Sprintf("%d/%d selected", selected, len(state.Rows)))

	if state.StatusMessage == "" {
		return r.styles.Status.Render(counter)
	}
	msgStyle := r.styles.StatusSuccess
	if state.StatusIsError {
		msgStyle = r.styles.StatusError
	}
	return r.styles.Status.Render(counter + "  " + msgStyle.Render(state.StatusMessage))
}
