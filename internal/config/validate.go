package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ids closer than this to an unknown selected id are offered as a hint
const maxSuggestDistance = 2

// Validate checks field rules, that item ids are unique, and that selected ids exist
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return err
	}

	seen := make(map[string]bool, len(c.Items))
	for i, it := range c.Items {
		if seen[it.ID] {
			return fmt.Errorf("item %d: duplicated id %q", i, it.ID)
		}
		seen[it.ID] = true
	}
	for _, id := range c.Selected {
		if seen[id] {
			continue
		}
		if hint := c.closestID(id); hint != "" {
			return fmt.Errorf("selected id %q is not an item (did you mean %q?)", id, hint)
		}
		return fmt.Errorf("selected id %q is not an item", id)
	}
	return nil
}

// closestID returns the item id nearest to id by edit distance, or ""
func (c *Config) closestID(id string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, it := range c.Items {
		if d := levenshtein.ComputeDistance(id, it.ID); d < bestDist {
			best, bestDist = it.ID, d
		}
	}
	return best
}

func fieldError(e validator.FieldError) error {
	// Config.Items[0].ID reads better as items[0].id
	field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "Config."))
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "min":
		return fmt.Errorf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s characters", field, e.Param())
	default:
		return fmt.Errorf("%s failed %s validation", field, e.Tag())
	}
}
