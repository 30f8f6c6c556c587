package itemslist

import "itemlist/internal/domain"

// Row is one item as the renderer should draw it
type Row struct {
	Item     domain.Item
	Selected bool
}

// RenderView is everything a renderer needs to rebuild the list
type RenderView struct {
	Rows []Row
	// Activate must be bound to each drawn element; it toggles the item's selection.
	Activate func(item domain.Item)
}

// SelectedCount returns the number of selected rows
func (v RenderView) SelectedCount() int {
	n := 0
	for _, r := range v.Rows {
		if r.Selected {
			n++
		}
	}
	return n
}

// Renderer materializes the list's items, one element per row
type Renderer interface {
	Render(view RenderView)
}

// Overlay is the surface that holds the list and can be shown or hidden
type Overlay interface {
	Show()
	Hide()
}

// ConfirmControl is the control that confirms the selection
type ConfirmControl interface {
	OnConfirm(fn func())
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(view RenderView)

func (f RendererFunc) Render(view RenderView) { f(view) }
