package database

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type riskRepository struct {
	db *gorm.DB
}

// withNames loads the group and department rows joined to each risk
func (r *riskRepository) withNames(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Group").Preload("PIC")
}

func (r *riskRepository) List(ctx context.Context) ([]*model.RiskRecord, error) {
	var rows []riskRow
	if err := r.withNames(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, translateError(err, "failed to list risks")
	}

	risks := make([]*model.RiskRecord, len(rows))
	for i := range rows {
		risks[i] = rows[i].toModel()
	}
	return risks, nil
}

func (r *riskRepository) Get(ctx context.Context, id types.RiskID) (*model.RiskRecord, error) {
	var row riskRow
	if err := r.withNames(ctx).Where("id = ?", id.String()).First(&row).Error; err != nil {
		return nil, translateError(err, "failed to get risk", goerr.V(interfaces.IDKey, id))
	}
	return row.toModel(), nil
}

func (r *riskRepository) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&riskRow{}).Count(&n).Error; err != nil {
		return 0, translateError(err, "failed to count risks")
	}
	return int(n), nil
}

func (r *riskRepository) Create(ctx context.Context, risk *model.RiskRecord) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(toRiskRow(risk)).Error; err != nil {
		return translateError(err, "failed to create risk", goerr.V(interfaces.IDKey, risk.ID))
	}
	return nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.RiskRecord) error {
	row := toRiskRow(risk)
	res := r.db.WithContext(ctx).Model(&riskRow{}).
		Where("id = ?", row.ID).
		Updates(row.columns())
	if res.Error != nil {
		return translateError(res.Error, "failed to update risk", goerr.V(interfaces.IDKey, risk.ID))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "risk not found", goerr.V(interfaces.IDKey, risk.ID))
	}
	return nil
}

func (r *riskRepository) Delete(ctx context.Context, id types.RiskID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&riskRow{})
	if res.Error != nil {
		return translateError(res.Error, "failed to delete risk", goerr.V(interfaces.IDKey, id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "risk not found", goerr.V(interfaces.IDKey, id))
	}
	return nil
}
