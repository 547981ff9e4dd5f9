package interfaces

import (
	"context"

	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

type RiskRepository interface {
	// List retrieves all risks ordered by ID ascending
	List(ctx context.Context) ([]*model.RiskRecord, error)

	// Get retrieves a risk by ID with group and PIC names resolved
	Get(ctx context.Context, id types.RiskID) (*model.RiskRecord, error)

	// Count returns the number of stored risks
	Count(ctx context.Context) (int, error)

	// Create inserts a risk. Returns ErrDuplicate when the ID is taken.
	Create(ctx context.Context, risk *model.RiskRecord) error

	// Update replaces an existing risk. Returns ErrNotFound when missing.
	Update(ctx context.Context, risk *model.RiskRecord) error

	// Delete deletes a risk by ID
	Delete(ctx context.Context, id types.RiskID) error
}
