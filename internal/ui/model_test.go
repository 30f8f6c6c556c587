package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itemlist/internal/config"
	"itemlist/internal/domain"
	"itemlist/internal/eventbus"
	"itemlist/internal/itemslist"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testConfig(selected ...string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Items = []config.ItemConfig{
		{ID: "1", Label: "Rua X"},
		{ID: "2", Label: "Avenida Y"},
		{ID: "3", Label: "Travessa Z"},
	}
	cfg.Selected = selected
	return cfg
}

func newTestModel(t *testing.T, cfg *config.Config) *Model {
	t.Helper()
	m, err := NewModel(eventbus.New(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	_, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m
}

func send(t *testing.T, m *Model, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		require.Same(t, m, next)
	}
	return cmd
}

func selectedIDs(m *Model) []string {
	return domain.IDs(m.List().SelectedItems())
}

func TestNewModelLoadsConfig(t *testing.T) {
	m := newTestModel(t, testConfig("2"))

	assert.Equal(t, 3, m.List().Len())
	assert.Equal(t, []string{"2"}, selectedIDs(m))
	require.Len(t, m.surface.view.Rows, 3)
	assert.True(t, m.surface.view.Rows[1].Selected)

	view := m.View()
	assert.Contains(t, view, "Rua X")
	assert.Contains(t, view, "1/3 selected")
}

func TestNewModelRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Items = append(cfg.Items, config.ItemConfig{ID: "1", Label: "again"})
	_, err := NewModel(eventbus.New(), cfg, nil)
	require.ErrorIs(t, err, itemslist.ErrDuplicateID)

	_, err = NewModel(eventbus.New(), testConfig("9"), nil)
	require.ErrorIs(t, err, itemslist.ErrNotFound)
}

func TestNewModelWithoutConfig(t *testing.T) {
	m, err := NewModel(eventbus.New(), nil, nil)
	require.NoError(t, err)
	defer m.Close()

	assert.Zero(t, m.List().Len())
	assert.Contains(t, m.View(), "No items")
}

func TestToggleWithKeys(t *testing.T) {
	m := newTestModel(t, testConfig("2"))

	send(t, m, runeKey(" "))
	assert.Equal(t, []string{"2", "1"}, selectedIDs(m))

	send(t, m, tea.KeyMsg{Type: tea.KeyDown}, runeKey(" "))
	assert.Equal(t, []string{"1"}, selectedIDs(m))

	send(t, m, runeKey("j"), runeKey(" "), runeKey("k"), runeKey("k"), runeKey(" "))
	assert.Equal(t, []string{"3"}, selectedIDs(m))
	assert.Equal(t, 0, m.cursor)
}

func TestCursorStaysInRange(t *testing.T) {
	m := newTestModel(t, testConfig())

	send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	send(t, m, runeKey("j"), runeKey("j"), runeKey("j"), runeKey("j"))
	assert.Equal(t, 2, m.cursor)
}

func TestSelectAllAndClear(t *testing.T) {
	m := newTestModel(t, testConfig("3"))

	send(t, m, runeKey("a"))
	assert.Equal(t, []string{"3", "1", "2"}, selectedIDs(m))

	send(t, m, runeKey("A"))
	assert.Empty(t, selectedIDs(m))

	send(t, m, runeKey("a"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, selectedIDs(m))
}

func TestConfirmQuitsWithSelection(t *testing.T) {
	m := newTestModel(t, testConfig("1", "3"))

	var confirmed []domain.Item
	unsub, err := m.List().On(domain.EventOKButtonClick, func(e eventbus.DomainEvent) {
		confirmed = e.(domain.OKButtonClickEvent).List.SelectedItems()
	})
	require.NoError(t, err)
	defer unsub()

	cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	assert.True(t, m.Confirmed())
	assert.False(t, m.List().Visible())
	assert.Equal(t, []string{"1", "3"}, domain.IDs(confirmed))
	assert.Empty(t, m.View())
}

func TestQuitWithoutConfirm(t *testing.T) {
	m := newTestModel(t, testConfig("1"))

	cmd := send(t, m, runeKey("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.Confirmed())
}

func TestAddItemThroughPrompt(t *testing.T) {
	m := newTestModel(t, testConfig())

	send(t, m, runeKey("n"))
	require.True(t, m.adding)
	assert.Contains(t, m.View(), "New item")

	send(t, m, runeKey("4=Rua W"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.adding)

	item, ok := m.List().Item("4")
	require.True(t, ok)
	assert.Equal(t, "Rua W", item.Label)
	assert.Equal(t, 3, m.cursor)
	assert.Equal(t, "Added Rua W", m.statusMessage)
	assert.False(t, m.statusIsError)

	// The new item can be toggled right away
	send(t, m, runeKey(" "))
	assert.Equal(t, []string{"4"}, selectedIDs(m))
}

func TestAddItemErrors(t *testing.T) {
	m := newTestModel(t, testConfig())

	send(t, m, runeKey("n"), runeKey("1=Again"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 3, m.List().Len())
	assert.True(t, m.statusIsError)
	assert.Contains(t, m.statusMessage, "duplicated id (1) found")

	send(t, m, runeKey("n"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.statusIsError)
	assert.Equal(t, 3, m.List().Len())
}

func TestAddItemCancelled(t *testing.T) {
	m := newTestModel(t, testConfig())

	send(t, m, runeKey("n"), runeKey("9=Nope"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.adding)
	assert.Equal(t, 3, m.List().Len())

	// Esc closed the prompt and did not reach the list bindings
	send(t, m, runeKey("n"))
	assert.Empty(t, m.input.Value())
}

func TestRemoveFocusedItem(t *testing.T) {
	m := newTestModel(t, testConfig("3", "1"))

	var pruned []domain.Item
	unsub, err := m.List().On(domain.EventSelectedItemsChanged, func(e eventbus.DomainEvent) {
		pruned = append(pruned, e.(domain.SelectedItemsChangedEvent).Pruned...)
	})
	require.NoError(t, err)
	defer unsub()

	send(t, m, runeKey("j"), runeKey("x"))
	assert.Equal(t, []string{"1", "3"}, domain.IDs(m.List().Items()))
	assert.Equal(t, []string{"3", "1"}, selectedIDs(m))
	assert.Empty(t, pruned)
	assert.Equal(t, "Removed Avenida Y", m.statusMessage)

	send(t, m, runeKey("x"))
	assert.Equal(t, []string{"1"}, domain.IDs(m.List().Items()))
	assert.Equal(t, []string{"1"}, selectedIDs(m))
	assert.Equal(t, []string{"3"}, domain.IDs(pruned))
	assert.Equal(t, "Removed Travessa Z and dropped it from the selection", m.statusMessage)
	assert.Equal(t, 0, m.cursor)

	send(t, m, runeKey("x"))
	assert.Zero(t, m.List().Len())
	assert.Empty(t, selectedIDs(m))

	// Nothing left to remove
	send(t, m, runeKey("x"))
	assert.Zero(t, m.List().Len())
}

func TestHideBlocksListKeys(t *testing.T) {
	m := newTestModel(t, testConfig())

	send(t, m, runeKey("h"))
	assert.False(t, m.List().Visible())
	assert.Contains(t, m.View(), "List hidden")

	send(t, m, runeKey(" "), runeKey("a"), runeKey("x"))
	assert.Empty(t, selectedIDs(m))
	assert.Equal(t, 3, m.List().Len())

	send(t, m, runeKey("h"), runeKey(" "))
	assert.True(t, m.List().Visible())
	assert.Equal(t, []string{"1"}, selectedIDs(m))
}

func TestExternalChangesReachTheModel(t *testing.T) {
	bus := eventbus.New()
	m, err := NewModel(bus, testConfig("3"), nil)
	require.NoError(t, err)
	defer m.Close()

	send(t, m, runeKey("j"), runeKey("j"))
	require.Equal(t, 2, m.cursor)

	require.NoError(t, m.List().RemoveItem("3"))
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.statusMessage, "Dropped from selection: Travessa Z")
	assert.Len(t, m.surface.view.Rows, 2)
}

func TestCloseUnsubscribes(t *testing.T) {
	bus := eventbus.New()
	m, err := NewModel(bus, testConfig(), nil)
	require.NoError(t, err)

	for _, name := range domain.ListEventTypes {
		assert.Equal(t, 1, bus.SubscriberCount(name))
	}
	m.Close()
	for _, name := range domain.ListEventTypes {
		assert.Zero(t, bus.SubscriberCount(name))
	}
}

func TestHelpContentListsBindings(t *testing.T) {
	content := renderHelpContent(newKeyMap())
	for _, want := range []string{"Navigation", "Selection", "space", "toggle", "enter", "new item"} {
		assert.Contains(t, content, want)
	}
}

func TestHelpPagerFailureSetsStatus(t *testing.T) {
	m := newTestModel(t, testConfig())

	send(t, m, helpPagerMsg{err: assert.AnError})
	assert.True(t, m.statusIsError)
	assert.Contains(t, m.statusMessage, "Help failed")
}

func TestHelpKeyOpensPager(t *testing.T) {
	keys := newKeyMap()
	assert.True(t, key.Matches(runeKey("?"), keys.Help))

	groups := keys.FullHelp()
	require.NotEmpty(t, groups)
	assert.Contains(t, groups[len(groups)-1], keys.Help)
	assert.Contains(t, keys.ShortHelp(), keys.Help)

	m := newTestModel(t, testConfig())
	assert.NotNil(t, send(t, m, runeKey("?")), "help key should hand the terminal to the pager")
}

func TestSurfaceFollowsListChanges(t *testing.T) {
	m := newTestModel(t, testConfig())
	list := m.List()

	require.NoError(t, list.AddItem(domain.Item{ID: "4", Label: "Beco W"}))
	require.Len(t, m.surface.view.Rows, 4)
	assert.False(t, m.surface.view.Rows[3].Selected)

	require.True(t, m.surface.activate(3))
	assert.True(t, list.IsSelected("4"))
	assert.True(t, m.surface.view.Rows[3].Selected)

	list.Hide()
	assert.False(t, m.surface.visible)
	list.Show()
	assert.True(t, m.surface.visible)
}
