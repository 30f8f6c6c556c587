package itemslist

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID matches every DuplicateIDError under errors.Is
	ErrDuplicateID = errors.New("duplicated id")
	// ErrNotFound matches every NotFoundError under errors.Is
	ErrNotFound    = errors.New("item not found")
)

// DuplicateIDError is returned when adding an item whose id is already present
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicated id (%s) found", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// Collection names used in NotFoundError
const (
	InItems    = "items"
	InSelected = "selected items"
)

// NotFoundError is returned when an id is absent from the collection an operation needs
type NotFoundError struct {
	ID    string
	Where string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item not found in %s: %s", e.Where, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
