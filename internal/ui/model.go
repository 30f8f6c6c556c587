package ui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"itemlist/internal/config"
	"itemlist/internal/domain"
	"itemlist/internal/eventbus"
	"itemlist/internal/itemslist"
	"itemlist/internal/ui/views"
)

// lines taken by everything but the rows: padding, title, status, help
const chromeHeight = 9

// Model represents the UI state
type Model struct {
	list    *itemslist.List
	surface *surface
	config  *config.Config
	logger  *slog.Logger

	keys     keyMap
	help     help.Model
	input    textinput.Model
	adding   bool
	renderer *views.Renderer

	width          int
	height         int
	cursor         int
	viewportOffset int
	viewportHeight int

	statusMessage string
	statusIsError bool

	confirmed   bool
	quitting    bool
	unsubscribe []func()
}

// NewModel creates the list described by cfg on bus and the UI that drives it
func NewModel(bus eventbus.EventBus, cfg *config.Config, logger *slog.Logger) (*Model, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := newSurface()
	list := itemslist.New(bus,
		itemslist.WithRenderer(s),
		itemslist.WithOverlay(s),
		itemslist.WithConfirmControl(s),
		itemslist.WithLogger(logger.With("component", "itemslist")),
	)

	if err := list.SetItems(cfg.DomainItems()); err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	for _, id := range cfg.Selected {
		if err := list.SetItemActive(domain.Item{ID: id}); err != nil {
			return nil, fmt.Errorf("failed to select %q: %w", id, err)
		}
	}

	input := textinput.New()
	input.Placeholder = "id=label"
	input.CharLimit = 120

	m := &Model{
		list:     list,
		surface:  s,
		config:   cfg,
		logger:   logger,
		keys:     newKeyMap(),
		help:     help.New(),
		input:    input,
		renderer: views.NewRenderer(cfg.UI.ActiveMarker, cfg.UI.InactiveMarker),
	}

	if err := m.subscribe(); err != nil {
		m.Close()
		return nil, err
	}

	// Make sure the surface has a view even for an empty config
	list.Redraw()

	return m, nil
}

// subscribe hooks the model to the list events, next to any other observer
func (m *Model) subscribe() error {
	handlers := map[domain.EventType]eventbus.EventHandler{
		domain.EventItemsArrayChanged: func(eventbus.DomainEvent) {
			m.clampCursor()
		},
		domain.EventSelectedItemsChanged: func(e eventbus.DomainEvent) {
			ev, ok := e.(domain.SelectedItemsChangedEvent)
			if !ok || ev.List != domain.ListState(m.list) || len(ev.Pruned) == 0 {
				return
			}
			m.setStatus(fmt.Sprintf("Dropped from selection: %s", labels(ev.Pruned)), false)
		},
		domain.EventOKButtonClick: func(e eventbus.DomainEvent) {
			if ev, ok := e.(domain.OKButtonClickEvent); ok && ev.List == domain.ListState(m.list) {
				m.confirmed = true
			}
		},
	}

	for _, name := range domain.ListEventTypes {
		unsub, err := m.list.On(name, handlers[name])
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", name, err)
		}
		m.unsubscribe = append(m.unsubscribe, unsub)
	}
	return nil
}

// Close detaches the model from the bus
func (m *Model) Close() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
}

// List returns the list driven by the model
func (m *Model) List() *itemslist.List {
	return m.list
}

// Confirmed reports whether the user confirmed the selection
func (m *Model) Confirmed() bool {
	return m.confirmed
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewportHeight()
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			m.logger.Error("help pager failed", "error", msg.err)
			m.setStatus(fmt.Sprintf("Help failed: %v", msg.err), true)
		}
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}

	if m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes a key press in list mode
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		m.surface.confirm()
		if m.confirmed {
			m.logger.Info("selection confirmed", "ids", domain.IDs(m.list.SelectedItems()))
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.Hide):
		if m.list.Visible() {
			m.list.Hide()
		} else {
			m.list.Show()
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		return m, showHelpInPager(renderHelpContent(m.keys))
	}

	// Everything below needs the list on screen
	if !m.surface.visible {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureCursorVisible()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.surface.view.Rows)-1 {
			m.cursor++
		}
		m.ensureCursorVisible()

	case key.Matches(msg, m.keys.Toggle):
		m.surface.activate(m.cursor)

	case key.Matches(msg, m.keys.All):
		m.list.SelectAll()

	case key.Matches(msg, m.keys.Clear):
		m.list.ClearSelection()

	case key.Matches(msg, m.keys.Remove):
		m.removeFocused()

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()
	}

	return m, nil
}

// updateInput processes a key press while the new item prompt is open
func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil

	case tea.KeyEnter:
		value := m.input.Value()
		m.closeInput()

		item, err := domain.ParseItem(value)
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		if err := m.list.AddItem(item); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.cursor = m.list.Len() - 1
		m.ensureCursorVisible()
		m.setStatus(fmt.Sprintf("Added %s", item.Label), false)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.adding = false
	m.input.Blur()
	m.input.Reset()
}

// removeFocused removes the item under the cursor
func (m *Model) removeFocused() {
	rows := m.surface.view.Rows
	if m.cursor < 0 || m.cursor >= len(rows) {
		return
	}
	item := rows[m.cursor].Item
	wasSelected := m.list.IsSelected(item.ID)
	if err := m.list.RemoveItem(item.ID); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	if wasSelected {
		m.setStatus(fmt.Sprintf("Removed %s and dropped it from the selection", item.Label), false)
		return
	}
	m.setStatus(fmt.Sprintf("Removed %s", item.Label), false)
}

// View renders the model
func (m *Model) View() string {
	if m.quitting || m.confirmed {
		return ""
	}

	helpView := ""
	if m.config.UI.ShowHelp {
		helpView = m.help.View(m.keys)
	}

	return m.renderer.Render(views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Title:          m.config.Title,
		Rows:           m.surface.view.Rows,
		Cursor:         m.cursor,
		ViewportOffset: m.viewportOffset,
		ViewportHeight: m.viewportHeight,
		Visible:        m.surface.visible,
		StatusMessage:  m.statusMessage,
		StatusIsError:  m.statusIsError,
		InputActive:    m.adding,
		TextInput:      m.input.View(),
		HelpView:       helpView,
	})
}

func (m *Model) setStatus(text string, isError bool) {
	m.statusMessage = text
	m.statusIsError = isError
}

func (m *Model) updateViewportHeight() {
	m.viewportHeight = m.height - chromeHeight
	if m.viewportHeight < 1 {
		m.viewportHeight = 1
	}
	m.ensureCursorVisible()
}

// clampCursor keeps the cursor on an existing row after the items changed
func (m *Model) clampCursor() {
	if n := len(m.surface.view.Rows); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

// ensureCursorVisible scrolls the viewport so the cursor row is shown
func (m *Model) ensureCursorVisible() {
	if m.viewportHeight <= 0 {
		m.viewportOffset = 0
		return
	}
	if m.cursor < m.viewportOffset {
		m.viewportOffset = m.cursor
	} else if m.cursor >= m.viewportOffset+m.viewportHeight {
		m.viewportOffset = m.cursor - m.viewportHeight + 1
	}
}

// labels joins item labels for status messages
func labels(items []domain.Item) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return strings.Join(out, ", ")
}
