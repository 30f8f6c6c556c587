package domain

// EventType represents the name of a list event
type EventType string

// Event types
const (
	EventItemsArrayChanged    EventType = "itemsarraychanged"
	EventSelectedItemsChanged EventType = "selecteditemschanged"
	EventOKButtonClick        EventType = "okbuttonclick"
)

// ListEventTypes are the names every list registers on its bus
var ListEventTypes = []EventType{
	EventItemsArrayChanged,
	EventSelectedItemsChanged,
	EventOKButtonClick,
}

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ItemsArrayChangedEvent is emitted when an item is added to or removed from a list
type ItemsArrayChangedEvent struct {
	List ListState
}

func (e ItemsArrayChangedEvent) Type() EventType { return EventItemsArrayChanged }

// SelectedItemsChangedEvent is emitted when the selection of a list changes
type SelectedItemsChangedEvent struct {
	List   ListState
	Pruned []Item // selections dropped because their item was removed
}

func (e SelectedItemsChangedEvent) Type() EventType { return EventSelectedItemsChanged }

// OKButtonClickEvent is emitted when the user confirms the selection
type OKButtonClickEvent struct {
	List ListState
}

func (e OKButtonClickEvent) Type() EventType { return EventOKButtonClick }
