package model

import (
	"strings"

	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

// Category groups hazards under an "H-<n>" identifier
type Category struct {
	ID   types.CategoryID `json:"category_id" validate:"categoryid"`
	Name string           `json:"name" validate:"required"`
}

// Validate trims the category and checks its fields
func (c *Category) Validate() error {
	c.ID = types.CategoryID(strings.TrimSpace(string(c.ID)))
	c.Name = strings.TrimSpace(c.Name)
	return validateStruct(c)
}

// Copy returns a copy of the category
func (c *Category) Copy() *Category {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// CategoryWithHazards is a category together with all of its hazards
type CategoryWithHazards struct {
	Category
	Hazards []*Hazard `json:"hazards"`
}

// CategoryStats counts the hazards of a category and how many carry each impact flag
type CategoryStats struct {
	CategoryID       types.CategoryID `json:"category_id"`
	Name             string           `json:"name"`
	HazardCount      int              `json:"hazard_count"`
	HealthCount      int              `json:"health_count"`
	SafetyCount      int              `json:"safety_count"`
	SecurityCount    int              `json:"security_count"`
	EnvironmentCount int              `json:"environment_count"`
	SocialCount      int              `json:"social_count"`
}

// NewCategoryStats aggregates hazards that belong to category
func NewCategoryStats(category *Category, hazards []*Hazard) *CategoryStats {
	stats := &CategoryStats{
		CategoryID: category.ID,
		Name:       category.Name,
	}
	for _, h := range hazards {
		if h.CategoryID != category.ID {
			continue
		}
		stats.HazardCount++
		if h.Health {
			stats.HealthCount++
		}
		if h.Safety {
			stats.SafetyCount++
		}
		if h.Security {
			stats.SecurityCount++
		}
		if h.Environment {
			stats.EnvironmentCount++
		}
		if h.Social {
			stats.SocialCount++
		}
	}
	return stats
}
