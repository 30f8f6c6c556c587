// Package itemslist holds a collection of selectable items and the subset the
// user has selected, and reports every change through an event bus.
//
// Each mutation runs in two phases before it returns: the state is changed and
// reconciled (no selection may outlive its item), then the renderer is asked to
// redraw and the matching events are published. A List is meant to be driven
// from a single goroutine; event handlers may call back into it.
package itemslist

import (
	"io"
	"log/slog"

	"itemlist/internal/domain"
	"itemlist/internal/eventbus"
)

// List is a selectable item list
type List struct {
	bus      eventbus.EventBus
	items    []domain.Item
	selected []domain.Item

	renderer Renderer
	overlay  Overlay
	confirm  ConfirmControl
	visible  bool

	logger *slog.Logger
}

var _ domain.ListState = (*List)(nil)

// Option configures a List
type Option func(*List)

// WithRenderer sets the renderer that draws the items
func WithRenderer(r Renderer) Option {
	return func(l *List) { l.renderer = r }
}

// WithOverlay sets the surface shown and hidden by Show and Hide
func WithOverlay(o Overlay) Option {
	return func(l *List) { l.overlay = o }
}

// WithConfirmControl binds Confirm to the given control
func WithConfirmControl(c ConfirmControl) Option {
	return func(l *List) { l.confirm = c }
}

// WithLogger sets the logger errors and warnings are reported to
func WithLogger(logger *slog.Logger) Option {
	return func(l *List) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates an empty list publishing on bus. A nil bus gives the list a private one.
func New(bus eventbus.EventBus, opts ...Option) *List {
	if bus == nil {
		bus = eventbus.New()
	}

	l := &List{
		bus:      bus,
		items:    make([]domain.Item, 0),
		selected: make([]domain.Item, 0),
		visible:  true,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}

	bus.RegisterEventNames(domain.ListEventTypes...)

	if l.confirm != nil {
		l.confirm.OnConfirm(l.Confirm)
	}

	return l
}

// On subscribes handler to one of the list events on the list's bus
func (l *List) On(eventType domain.EventType, handler eventbus.EventHandler) (func(), error) {
	return l.bus.Subscribe(eventType, handler)
}

// AddItem appends item to the collection
func (l *List) AddItem(item domain.Item) error {
	if domain.ContainsID(l.items, item.ID) {
		err := &DuplicateIDError{ID: item.ID}
		l.logger.Warn("add item rejected", "id", item.ID, "error", err)
		return err
	}

	l.items = append(l.items, item)
	l.itemsChanged()
	return nil
}

// SetItems replaces the whole collection. The batch is rejected if any id repeats.
func (l *List) SetItems(items []domain.Item) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it.ID] {
			err := &DuplicateIDError{ID: it.ID}
			l.logger.Warn("set items rejected", "id", it.ID, "error", err)
			return err
		}
		seen[it.ID] = true
	}

	l.items = append(make([]domain.Item, 0, len(items)), items...)
	l.itemsChanged()
	return nil
}

// RemoveItem removes the item with the given id, dropping it from the selection too
func (l *List) RemoveItem(id string) error {
	index := domain.IndexOf(l.items, id)
	if index == -1 {
		err := &NotFoundError{ID: id, Where: InItems}
		l.logger.Warn("remove item rejected", "id", id, "error", err)
		return err
	}

	l.items = append(l.items[:index], l.items[index+1:]...)
	l.itemsChanged()
	return nil
}

// SetItemActive adds item to the selection. Selecting it twice is a logged no-op.
func (l *List) SetItemActive(item domain.Item) error {
	index := domain.IndexOf(l.items, item.ID)
	if index == -1 {
		err := &NotFoundError{ID: item.ID, Where: InItems}
		l.logger.Warn("set item active rejected", "id", item.ID, "error", err)
		return err
	}

	if domain.ContainsID(l.selected, item.ID) {
		l.logger.Info("item already selected", "id", item.ID)
		return nil
	}

	l.selected = append(l.selected, l.items[index])
	l.selectionChanged(nil)
	return nil
}

// SetItemInactive removes the item with the given id from the selection
func (l *List) SetItemInactive(id string) error {
	if !domain.ContainsID(l.items, id) {
		err := &NotFoundError{ID: id, Where: InItems}
		l.logger.Warn("set item inactive rejected", "id", id, "error", err)
		return err
	}

	index := domain.IndexOf(l.selected, id)
	if index == -1 {
		err := &NotFoundError{ID: id, Where: InSelected}
		l.logger.Info("item already unselected", "id", id)
		return err
	}

	l.selected = append(l.selected[:index], l.selected[index+1:]...)
	l.selectionChanged(nil)
	return nil
}

// ToggleItemActive flips the selection membership of item
func (l *List) ToggleItemActive(item domain.Item) error {
	index := domain.IndexOf(l.items, item.ID)
	if index == -1 {
		err := &NotFoundError{ID: item.ID, Where: InItems}
		l.logger.Warn("toggle item rejected", "id", item.ID, "error", err)
		return err
	}

	if sel := domain.IndexOf(l.selected, item.ID); sel == -1 {
		l.selected = append(l.selected, l.items[index])
	} else {
		l.selected = append(l.selected[:sel], l.selected[sel+1:]...)
	}
	l.selectionChanged(nil)
	return nil
}

// SelectAll selects every item that is not selected yet, in collection order
func (l *List) SelectAll() {
	changed := false
	for _, it := range l.items {
		if !domain.ContainsID(l.selected, it.ID) {
			l.selected = append(l.selected, it)
			changed = true
		}
	}
	if changed {
		l.selectionChanged(nil)
	}
}

// ClearSelection deselects everything
func (l *List) ClearSelection() {
	if len(l.selected) == 0 {
		return
	}
	l.selected = make([]domain.Item, 0)
	l.selectionChanged(nil)
}

// Show shows the surface holding the list
func (l *List) Show() {
	l.visible = true
	if l.overlay != nil {
		l.overlay.Show()
	}
}

// Hide hides the surface holding the list
func (l *List) Hide() {
	l.visible = false
	if l.overlay != nil {
		l.overlay.Hide()
	}
}

// Visible reports whether the list was last shown or hidden
func (l *List) Visible() bool {
	return l.visible
}

// Confirm hides the list and publishes okbuttonclick so the selection can be read
func (l *List) Confirm() {
	l.Hide()
	l.bus.Publish(domain.OKButtonClickEvent{List: l})
}

// Redraw asks the renderer to rebuild every element from the current state
func (l *List) Redraw() {
	if l.renderer == nil {
		return
	}

	rows := make([]Row, 0, len(l.items))
	for _, it := range l.items {
		rows = append(rows, Row{Item: it, Selected: domain.ContainsID(l.selected, it.ID)})
	}
	l.renderer.Render(RenderView{
		Rows: rows,
		Activate: func(item domain.Item) {
			_ = l.ToggleItemActive(item)
		},
	})
}

// Items returns a copy of the item collection in display order
func (l *List) Items() []domain.Item {
	return append([]domain.Item(nil), l.items...)
}

// SelectedItems returns a copy of the selection in selection order
func (l *List) SelectedItems() []domain.Item {
	return append([]domain.Item(nil), l.selected...)
}

// IsSelected reports whether the item with the given id is selected
func (l *List) IsSelected(id string) bool {
	return domain.ContainsID(l.selected, id)
}

// Item looks up an item by id
func (l *List) Item(id string) (domain.Item, bool) {
	index := domain.IndexOf(l.items, id)
	if index == -1 {
		return domain.Item{}, false
	}
	return l.items[index], true
}

// Len returns the number of items
func (l *List) Len() int {
	return len(l.items)
}

// itemsChanged reconciles the selection after the collection changed, redraws and notifies
func (l *List) itemsChanged() {
	pruned := l.pruneSelection()
	l.Redraw()
	l.bus.Publish(domain.ItemsArrayChangedEvent{List: l})

	// handlers of itemsarraychanged may have selected a pruned id again
	pruned = l.stillUnselected(pruned)
	if len(pruned) > 0 {
		l.logger.Debug("pruned selection", "ids", domain.IDs(pruned))
		l.bus.Publish(domain.SelectedItemsChangedEvent{List: l, Pruned: pruned})
	}
}

func (l *List) stillUnselected(items []domain.Item) []domain.Item {
	var out []domain.Item
	for _, it := range items {
		if !domain.ContainsID(l.selected, it.ID) {
			out = append(out, it)
		}
	}
	return out
}

func (l *List) selectionChanged(pruned []domain.Item) {
	l.Redraw()
	l.bus.Publish(domain.SelectedItemsChangedEvent{List: l, Pruned: pruned})
}

// pruneSelection drops selected entries whose item is gone and returns them in selection order.
// Scans backwards so removal does not shift the entries still to visit.
func (l *List) pruneSelection() []domain.Item {
	var pruned []domain.Item
	for i := len(l.selected) - 1; i >= 0; i-- {
		item := l.selected[i]
		if !domain.ContainsID(l.items, item.ID) {
			l.selected = append(l.selected[:i], l.selected[i+1:]...)
			pruned = append([]domain.Item{item}, pruned...)
		}
	}
	return pruned
}
