package interfaces

import (
	"context"

	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

type CategoryRepository interface {
	// List retrieves all categories ordered by category ID
	List(ctx context.Context) ([]*model.Category, error)

	Get(ctx context.Context, id types.CategoryID) (*model.Category, error)

	// Create returns ErrDuplicate when the category ID is taken
	Create(ctx context.Context, category *model.Category) error

	// Update changes the name. Returns ErrNotFound when missing.
	Update(ctx context.Context, category *model.Category) error

	// Delete removes the category and every hazard that belongs to it
	Delete(ctx context.Context, id types.CategoryID) error
}

type HazardRepository interface {
	// List retrieves all hazards ordered by ID
	List(ctx context.Context) ([]*model.Hazard, error)

	Get(ctx context.Context, id types.HazardID) (*model.Hazard, error)

	// ListByCategory retrieves the hazards of one category ordered by ID
	ListByCategory(ctx context.Context, categoryID types.CategoryID) ([]*model.Hazard, error)

	// Search returns hazards whose description contains term, ignoring case
	Search(ctx context.Context, term string) ([]*model.Hazard, error)

	// Filter returns hazards that have every aspect of filter set
	Filter(ctx context.Context, filter model.ImpactFilter) ([]*model.Hazard, error)

	// Create returns ErrDuplicate for a taken ID and ErrForeignKey for an unknown category
	Create(ctx context.Context, hazard *model.Hazard) error

	// Update replaces every field except the ID. Returns ErrNotFound when missing.
	Update(ctx context.Context, hazard *model.Hazard) error

	Delete(ctx context.Context, id types.HazardID) error
}
