package model

import (
	"errors"
	"strings"

	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

// ImpactFlags marks which impact aspects apply
type ImpactFlags struct {
	Health      bool `json:"health"`
	Safety      bool `json:"safety"`
	Security    bool `json:"security"`
	Environment bool `json:"environment"`
	Social      bool `json:"social"`
}

// Has reports whether the flag for aspect is set
func (f ImpactFlags) Has(aspect types.ImpactAspect) bool {
	switch aspect {
	case types.ImpactHealth:
		return f.Health
	case types.ImpactSafety:
		return f.Safety
	case types.ImpactSecurity:
		return f.Security
	case types.ImpactEnvironment:
		return f.Environment
	case types.ImpactSocial:
		return f.Social
	default:
		return false
	}
}

// Hazard is a catalog entry belonging to one category
type Hazard struct {
	ID          types.HazardID   `json:"id"`
	CategoryID  types.CategoryID `json:"category_id" validate:"categoryid"`
	Description string           `json:"description" validate:"required"`
	ImpactFlags
	Sources string `json:"sources"`

	// CategoryName is filled on read and never stored
	CategoryName string `json:"category_name,omitempty"`
}

// Validate trims the hazard and checks its fields. An empty ID is allowed and
// means the ID is assigned on creation.
func (h *Hazard) Validate() error {
	h.ID = types.HazardID(strings.TrimSpace(string(h.ID)))
	h.CategoryID = types.CategoryID(strings.TrimSpace(string(h.CategoryID)))
	h.Description = strings.TrimSpace(h.Description)
	h.Sources = strings.TrimSpace(h.Sources)
	h.CategoryName = ""

	var verrs ValidationErrors
	if err := validateStruct(h); err != nil {
		if !errors.As(err, &verrs) {
			return err
		}
	}
	if h.ID != "" && h.CategoryID.Validate() == nil {
		if err := h.ID.Validate(h.CategoryID); err != nil {
			verrs = append(verrs, &FieldError{Kind: ErrInvalidFormat, Field: "id", Value: string(h.ID)})
		}
	}

	if len(verrs) > 0 {
		return verrs
	}
	return nil
}

// Copy returns a copy of the hazard
func (h *Hazard) Copy() *Hazard {
	if h == nil {
		return nil
	}
	cp := *h
	return &cp
}

// NextHazardID returns the ID following the highest sequence among hazards of
// category. Hazards of other categories and unparsable IDs are ignored.
func NextHazardID(category types.CategoryID, hazards []*Hazard) types.HazardID {
	maxSeq := 0
	for _, h := range hazards {
		if h.ID.Category() != category {
			continue
		}
		if n, ok := h.ID.Sequence(); ok && n > maxSeq {
			maxSeq = n
		}
	}
	return types.NewHazardID(category, maxSeq+1)
}

// ImpactFilter selects hazards that have every listed aspect set.
// An empty filter matches everything.
type ImpactFilter struct {
	Aspects []types.ImpactAspect
}

// NewImpactFilter builds a filter for the given aspects
func NewImpactFilter(aspects ...types.ImpactAspect) ImpactFilter {
	return ImpactFilter{Aspects: aspects}
}

// Match reports whether flags satisfy every requested aspect
func (f ImpactFilter) Match(flags ImpactFlags) bool {
	for _, a := range f.Aspects {
		if !flags.Has(a) {
			return false
		}
	}
	return true
}
