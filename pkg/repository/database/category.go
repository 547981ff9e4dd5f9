package database

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"gorm.io/gorm/clause"
)

type categoryRepository struct {
	d *Database
}

func (r *categoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	var rows []categoryRow
	if err := r.d.db.WithContext(ctx).Order("category_id").Find(&rows).Error; err != nil {
		return nil, translateError(err, "failed to list categories")
	}

	categories := make([]*model.Category, len(rows))
	for i := range rows {
		categories[i] = rows[i].toModel()
	}
	return categories, nil
}

func (r *categoryRepository) Get(ctx context.Context, id types.CategoryID) (*model.Category, error) {
	var row categoryRow
	if err := r.d.db.WithContext(ctx).Where("category_id = ?", id.String()).First(&row).Error; err != nil {
		return nil, translateError(err, "failed to get category", goerr.V(interfaces.CategoryIDKey, id))
	}
	return row.toModel(), nil
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.d.db.WithContext(ctx).Omit(clause.Associations).Create(toCategoryRow(category)).Error; err != nil {
		return translateError(err, "failed to create category", goerr.V(interfaces.CategoryIDKey, category.ID))
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	res := r.d.db.WithContext(ctx).Model(&categoryRow{}).
		Where("category_id = ?", category.ID.String()).
		Update("name", category.Name)
	if res.Error != nil {
		return translateError(res.Error, "failed to update category", goerr.V(interfaces.CategoryIDKey, category.ID))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "category not found", goerr.V(interfaces.CategoryIDKey, category.ID))
	}
	return nil
}

// Delete removes dependent hazards in the same transaction so the cascade
// holds even on databases created without the foreign key constraint.
func (r *categoryRepository) Delete(ctx context.Context, id types.CategoryID) error {
	return r.d.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
		db := tx.(*Database).db.WithContext(ctx)

		if err := db.Where("category_id = ?", id.String()).Delete(&hazardRow{}).Error; err != nil {
			return translateError(err, "failed to delete hazards of category", goerr.V(interfaces.CategoryIDKey, id))
		}

		res := db.Where("category_id = ?", id.String()).Delete(&categoryRow{})
		if res.Error != nil {
			return translateError(res.Error, "failed to delete category", goerr.V(interfaces.CategoryIDKey, id))
		}
		if res.RowsAffected == 0 {
			return goerr.Wrap(interfaces.ErrNotFound, "category not found", goerr.V(interfaces.CategoryIDKey, id))
		}
		return nil
	})
}
