package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

type HazardUseCase struct {
	repo interfaces.Repository
}

func NewHazardUseCase(repo interfaces.Repository) *HazardUseCase {
	return &HazardUseCase{repo: repo}
}

func wrapHazardError(err error, msg string, hazard *model.Hazard) error {
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		return goerr.Wrap(ErrNotFound, "hazard not found", goerr.V(HazardIDKey, hazard.ID))
	case errors.Is(err, interfaces.ErrDuplicate):
		return goerr.Wrap(ErrDuplicateID, "hazard ID already exists", goerr.V(HazardIDKey, hazard.ID))
	case errors.Is(err, interfaces.ErrForeignKey):
		return goerr.Wrap(ErrUnknownCategory, "category does not exist",
			goerr.V(HazardIDKey, hazard.ID),
			goerr.V(CategoryIDKey, hazard.CategoryID))
	default:
		return goerr.Wrap(err, msg, goerr.V(HazardIDKey, hazard.ID))
	}
}

func (uc *HazardUseCase) ListHazards(ctx context.Context) ([]*model.Hazard, error) {
	hazards, err := uc.repo.Hazard().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list hazards")
	}
	return uc.withCategoryNames(ctx, hazards)
}

func (uc *HazardUseCase) GetHazard(ctx context.Context, id types.HazardID) (*model.Hazard, error) {
	hazard, err := uc.repo.Hazard().Get(ctx, id)
	if err != nil {
		return nil, wrapHazardError(err, "failed to get hazard", &model.Hazard{ID: id})
	}

	category, err := uc.repo.Category().Get(ctx, hazard.CategoryID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get category of hazard",
			goerr.V(HazardIDKey, id),
			goerr.V(CategoryIDKey, hazard.CategoryID))
	}
	hazard.CategoryName = category.Name
	return hazard, nil
}

func (uc *HazardUseCase) ListHazardsByCategory(ctx context.Context, categoryID types.CategoryID) ([]*model.Hazard, error) {
	hazards, err := uc.repo.Hazard().ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list hazards of category", goerr.V(CategoryIDKey, categoryID))
	}
	return uc.withCategoryNames(ctx, hazards)
}

// SearchHazards matches term against descriptions ignoring case
func (uc *HazardUseCase) SearchHazards(ctx context.Context, term string) ([]*model.Hazard, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "search term is required")
	}

	hazards, err := uc.repo.Hazard().Search(ctx, term)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search hazards", goerr.V("term", term))
	}
	return uc.withCategoryNames(ctx, hazards)
}

// FilterHazards returns hazards that have every aspect of filter set
func (uc *HazardUseCase) FilterHazards(ctx context.Context, filter model.ImpactFilter) ([]*model.Hazard, error) {
	for _, a := range filter.Aspects {
		if !a.IsValid() {
			return nil, goerr.Wrap(ErrInvalidInput, "unknown impact aspect", goerr.V("aspect", a))
		}
	}

	hazards, err := uc.repo.Hazard().Filter(ctx, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to filter hazards")
	}
	return uc.withCategoryNames(ctx, hazards)
}

// withCategoryNames sets CategoryName on every hazard
func (uc *HazardUseCase) withCategoryNames(ctx context.Context, hazards []*model.Hazard) ([]*model.Hazard, error) {
	if len(hazards) == 0 {
		return hazards, nil
	}

	categories, err := uc.repo.Category().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list categories")
	}
	names := make(map[types.CategoryID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	for _, h := range hazards {
		h.CategoryName = names[h.CategoryID]
	}
	return hazards, nil
}

// CreateHazard stores a hazard. Without an ID the next sequence of the
// category is assigned. Lookup, ID assignment and insert share one transaction.
func (uc *HazardUseCase) CreateHazard(ctx context.Context, hazard *model.Hazard) (*model.Hazard, error) {
	if err := hazard.Validate(); err != nil {
		return nil, err
	}

	err := uc.repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
		if _, err := tx.Category().Get(ctx, hazard.CategoryID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(ErrUnknownCategory, "category does not exist", goerr.V(CategoryIDKey, hazard.CategoryID))
			}
			return goerr.Wrap(err, "failed to get category", goerr.V(CategoryIDKey, hazard.CategoryID))
		}

		if hazard.ID == "" {
			existing, err := tx.Hazard().ListByCategory(ctx, hazard.CategoryID)
			if err != nil {
				return goerr.Wrap(err, "failed to list hazards of category", goerr.V(CategoryIDKey, hazard.CategoryID))
			}
			hazard.ID = model.NextHazardID(hazard.CategoryID, existing)
		} else {
			_, err := tx.Hazard().Get(ctx, hazard.ID)
			if err == nil {
				return goerr.Wrap(ErrDuplicateID, "hazard ID already exists", goerr.V(HazardIDKey, hazard.ID))
			}
			if !errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(err, "failed to check hazard ID", goerr.V(HazardIDKey, hazard.ID))
			}
		}

		if err := tx.Hazard().Create(ctx, hazard); err != nil {
			return wrapHazardError(err, "failed to create hazard", hazard)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.GetHazard(ctx, hazard.ID)
}

// UpdateHazard replaces every field of the hazard except its ID. The ID
// carries the category prefix, so the category cannot change.
func (uc *HazardUseCase) UpdateHazard(ctx context.Context, id types.HazardID, hazard *model.Hazard) (*model.Hazard, error) {
	hazard.ID = ""
	if err := hazard.Validate(); err != nil {
		return nil, err
	}
	hazard.ID = id

	err := uc.repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
		if _, err := tx.Hazard().Get(ctx, id); err != nil {
			return wrapHazardError(err, "failed to get hazard", hazard)
		}

		if _, err := tx.Category().Get(ctx, hazard.CategoryID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(ErrUnknownCategory, "category does not exist", goerr.V(CategoryIDKey, hazard.CategoryID))
			}
			return goerr.Wrap(err, "failed to get category", goerr.V(CategoryIDKey, hazard.CategoryID))
		}

		if id.Category() != hazard.CategoryID {
			return goerr.Wrap(ErrInvalidInput, "hazard cannot be moved to another category",
				goerr.V(HazardIDKey, id),
				goerr.V(CategoryIDKey, hazard.CategoryID))
		}

		if err := tx.Hazard().Update(ctx, hazard); err != nil {
			return wrapHazardError(err, "failed to update hazard", hazard)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.GetHazard(ctx, id)
}

func (uc *HazardUseCase) DeleteHazard(ctx context.Context, id types.HazardID) error {
	if err := uc.repo.Hazard().Delete(ctx, id); err != nil {
		return wrapHazardError(err, "failed to delete hazard", &model.Hazard{ID: id})
	}
	return nil
}
