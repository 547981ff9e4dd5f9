package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// CategoryID identifies a hazard category, e.g. "H-1"
type CategoryID string

var categoryIDPattern = regexp.MustCompile(`^H-[0-9]+$`)

// Validate checks if the CategoryID is valid
func (c CategoryID) Validate() error {
	if c == "" {
		return goerr.New("category ID cannot be empty")
	}
	if !categoryIDPattern.MatchString(string(c)) {
		return goerr.New("category ID must have the form H-<number>", goerr.V("id", c))
	}
	return nil
}

// String returns the string representation of CategoryID
func (c CategoryID) String() string {
	return string(c)
}
