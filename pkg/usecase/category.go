package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

type CategoryUseCase struct {
	repo interfaces.Repository
}

func NewCategoryUseCase(repo interfaces.Repository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

func wrapCategoryError(err error, msg string, id types.CategoryID) error {
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		return goerr.Wrap(ErrNotFound, "category not found", goerr.V(CategoryIDKey, id))
	case errors.Is(err, interfaces.ErrDuplicate):
		return goerr.Wrap(ErrDuplicateID, "category ID already exists", goerr.V(CategoryIDKey, id))
	default:
		return goerr.Wrap(err, msg, goerr.V(CategoryIDKey, id))
	}
}

func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := uc.repo.Category().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list categories")
	}
	return categories, nil
}

func (uc *CategoryUseCase) GetCategory(ctx context.Context, id types.CategoryID) (*model.Category, error) {
	category, err := uc.repo.Category().Get(ctx, id)
	if err != nil {
		return nil, wrapCategoryError(err, "failed to get category", id)
	}
	return category, nil
}

func (uc *CategoryUseCase) CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Category().Create(ctx, category); err != nil {
		return nil, wrapCategoryError(err, "failed to create category", category.ID)
	}
	return uc.GetCategory(ctx, category.ID)
}

// UpdateCategory renames a category. The ID never changes.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, id types.CategoryID, name string) (*model.Category, error) {
	category := &model.Category{ID: id, Name: name}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Category().Update(ctx, category); err != nil {
		return nil, wrapCategoryError(err, "failed to update category", id)
	}
	return uc.GetCategory(ctx, id)
}

// DeleteCategory deletes a category together with its hazards
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, id types.CategoryID) error {
	if err := uc.repo.Category().Delete(ctx, id); err != nil {
		return wrapCategoryError(err, "failed to delete category", id)
	}
	return nil
}

// GetCategoryWithHazards loads the category and its hazards concurrently
func (uc *CategoryUseCase) GetCategoryWithHazards(ctx context.Context, id types.CategoryID) (*model.CategoryWithHazards, error) {
	var (
		category *model.Category
		hazards  []*model.Hazard
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		category, err = uc.GetCategory(ctx, id)
		return err
	})
	eg.Go(func() error {
		var err error
		hazards, err = uc.repo.Hazard().ListByCategory(ctx, id)
		if err != nil {
			return goerr.Wrap(err, "failed to list hazards of category", goerr.V(CategoryIDKey, id))
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if hazards == nil {
		hazards = []*model.Hazard{}
	}
	for _, h := range hazards {
		h.CategoryName = category.Name
	}
	return &model.CategoryWithHazards{Category: *category, Hazards: hazards}, nil
}

// CategoryStats counts hazards and impact flags per category
func (uc *CategoryUseCase) CategoryStats(ctx context.Context) ([]*model.CategoryStats, error) {
	var (
		categories []*model.Category
		hazards    []*model.Hazard
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		categories, err = uc.ListCategories(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		hazards, err = uc.repo.Hazard().List(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to list hazards")
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	stats := make([]*model.CategoryStats, len(categories))
	for i, c := range categories {
		stats[i] = model.NewCategoryStats(c, hazards)
	}
	return stats, nil
}
