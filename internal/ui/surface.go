package ui

import (
	"itemlist/internal/itemslist"
)

// surface is the terminal side of a list: it keeps the last render view,
// whether the list is shown, and the action bound to the confirm key.
type surface struct {
	view      itemslist.RenderView
	visible   bool
	onConfirm func()
}

var (
	_ itemslist.Renderer       = (*surface)(nil)
	_ itemslist.Overlay        = (*surface)(nil)
	_ itemslist.ConfirmControl = (*surface)(nil)
)

func newSurface() *surface {
	return &surface{visible: true}
}

func (s *surface) Render(view itemslist.RenderView) {
	s.view = view
}

func (s *surface) Show() { s.visible = true }
func (s *surface) Hide() { s.visible = false }

func (s *surface) OnConfirm(fn func()) { s.onConfirm = fn }

// confirm is what the confirm key triggers
func (s *surface) confirm() {
	if s.onConfirm != nil {
		s.onConfirm()
	}
}

// activate runs the element callback of the row at index
func (s *surface) activate(index int) bool {
	if index < 0 || index >= len(s.view.Rows) || s.view.Activate == nil {
		return false
	}
	s.view.Activate(s.view.Rows[index].Item)
	return true
}
