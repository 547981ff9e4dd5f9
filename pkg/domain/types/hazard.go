package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// HazardID identifies a hazard as "<category_id>.<sequence>", e.g. "H-1.01"
type HazardID string

// NewHazardID builds the id for the n-th hazard of a category
func NewHazardID(category CategoryID, n int) HazardID {
	return HazardID(fmt.Sprintf("%s.%02d", category, n))
}

// Category returns the part before the last '.'
func (h HazardID) Category() CategoryID {
	s := string(h)
	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		return ""
	}
	return CategoryID(s[:idx])
}

// Sequence returns the numeric suffix after the last '.'
func (h HazardID) Sequence() (int, bool) {
	s := string(h)
	idx := strings.LastIndex(s, ".")
	if idx < 0 || idx == len(s)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(s[idx+1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Validate checks that the id belongs to the given category and has a numeric suffix
func (h HazardID) Validate(category CategoryID) error {
	if h == "" {
		return goerr.New("hazard ID cannot be empty")
	}
	if h.Category() != category {
		return goerr.New("hazard ID must start with its category ID",
			goerr.V("id", h), goerr.V("category_id", category))
	}
	if _, ok := h.Sequence(); !ok {
		return goerr.New("hazard ID must end with a numeric sequence", goerr.V("id", h))
	}
	return nil
}

// String returns the string representation of HazardID
func (h HazardID) String() string {
	return string(h)
}
