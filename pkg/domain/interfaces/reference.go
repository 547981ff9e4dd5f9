package interfaces

import (
	"context"

	"github.com/secmon-lab/riskregister/pkg/domain/model"
)

// ReferenceRepository stores named lookup records (departments, groups)
type ReferenceRepository interface {
	// List retrieves all records ordered by name
	List(ctx context.Context) ([]*model.Reference, error)

	// FindByName returns ErrNotFound when no record has exactly this name
	FindByName(ctx context.Context, name string) (*model.Reference, error)

	// Create assigns a new ID. Returns ErrDuplicate when the name is taken.
	Create(ctx context.Context, name string) (*model.Reference, error)
}
