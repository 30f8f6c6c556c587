package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Item is a selectable entry of a list
type Item struct {
	ID    string // unique within a list, assigned by the caller
	Label string // text shown to the user
}

// ListState is the read-only view of a list handed to event subscribers
type ListState interface {
	Items() []Item
	SelectedItems() []Item
	IsSelected(id string) bool
}

// ContainsID reports whether items has an entry with the given id
func ContainsID(items []Item, id string) bool {
	return IndexOf(items, id) != -1
}

// IndexOf returns the position of the item with the given id, or -1
func IndexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// IDs returns the ids of items in order
func IDs(items []Item) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

// ParseItem reads "id=label", or a bare label that gets a generated id.
// An "id=" entry uses the id as its label.
func ParseItem(value string) (Item, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Item{}, errors.New("empty item")
	}

	id, label, found := strings.Cut(value, "=")
	if !found {
		return Item{ID: uuid.NewString()[:8], Label: value}, nil
	}

	id = strings.TrimSpace(id)
	label = strings.TrimSpace(label)
	if id == "" {
		return Item{}, fmt.Errorf("empty id in %q", value)
	}
	if label == "" {
		label = id
	}
	return Item{ID: id, Label: label}, nil
}
