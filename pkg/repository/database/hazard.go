package database

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type hazardRepository struct {
	db *gorm.DB
}

func (r *hazardRepository) find(ctx context.Context, scope func(db *gorm.DB) *gorm.DB) ([]*model.Hazard, error) {
	var rows []hazardRow
	if err := scope(r.db.WithContext(ctx)).Order("id").Find(&rows).Error; err != nil {
		return nil, translateError(err, "failed to list hazards")
	}

	hazards := make([]*model.Hazard, len(rows))
	for i := range rows {
		hazards[i] = rows[i].toModel()
	}
	return hazards, nil
}

func (r *hazardRepository) List(ctx context.Context) ([]*model.Hazard, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *hazardRepository) Get(ctx context.Context, id types.HazardID) (*model.Hazard, error) {
	var row hazardRow
	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&row).Error; err != nil {
		return nil, translateError(err, "failed to get hazard", goerr.V(interfaces.IDKey, id))
	}
	return row.toModel(), nil
}

func (r *hazardRepository) ListByCategory(ctx context.Context, categoryID types.CategoryID) ([]*model.Hazard, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("category_id = ?", categoryID.String())
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches case-insensitively. SQLite's LOWER() folds only ASCII, so
// on SQLite the descriptions are matched in Go with full Unicode folding.
func (r *hazardRepository) Search(ctx context.Context, term string) ([]*model.Hazard, error) {
	needle := strings.ToLower(term)
	if r.db.Dialector.Name() == "sqlite" {
		all, err := r.List(ctx)
		if err != nil {
			return nil, err
		}

		matched := []*model.Hazard{}
		for _, h := range all {
			if strings.Contains(strings.ToLower(h.Description), needle) {
				matched = append(matched, h)
			}
		}
		return matched, nil
	}

	pattern := "%" + likeEscaper.Replace(needle) + "%"
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where(`LOWER(description) LIKE ? ESCAPE '\'`, pattern)
	})
}

// impactColumns maps each aspect to a fixed column name. Nothing from the
// request is ever placed into the SQL text.
var impactColumns = map[types.ImpactAspect]string{
	types.ImpactHealth:      "health",
	types.ImpactSafety:      "safety",
	types.ImpactSecurity:    "security",
	types.ImpactEnvironment: "environment",
	types.ImpactSocial:      "social",
}

func (r *hazardRepository) Filter(ctx context.Context, filter model.ImpactFilter) ([]*model.Hazard, error) {
	for _, a := range filter.Aspects {
		if _, ok := impactColumns[a]; !ok {
			return nil, goerr.New("unknown impact aspect", goerr.V("aspect", a))
		}
	}

	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		for _, a := range filter.Aspects {
			db = db.Where(clause.Eq{Column: clause.Column{Name: impactColumns[a]}, Value: true})
		}
		return db
	})
}

func (r *hazardRepository) Create(ctx context.Context, hazard *model.Hazard) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(toHazardRow(hazard)).Error; err != nil {
		return translateError(err, "failed to create hazard", goerr.V(interfaces.IDKey, hazard.ID))
	}
	return nil
}

func (r *hazardRepository) Update(ctx context.Context, hazard *model.Hazard) error {
	row := toHazardRow(hazard)
	res := r.db.WithContext(ctx).Model(&hazardRow{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"category_id": row.CategoryID,
			"description": row.Description,
			"health":      row.Health,
			"safety":      row.Safety,
			"security":    row.Security,
			"environment": row.Environment,
			"social":      row.Social,
			"sources":     row.Sources,
		})
	if res.Error != nil {
		return translateError(res.Error, "failed to update hazard", goerr.V(interfaces.IDKey, hazard.ID))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "hazard not found", goerr.V(interfaces.IDKey, hazard.ID))
	}
	return nil
}

func (r *hazardRepository) Delete(ctx context.Context, id types.HazardID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&hazardRow{})
	if res.Error != nil {
		return translateError(res.Error, "failed to delete hazard", goerr.V(interfaces.IDKey, id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "hazard not found", goerr.V(interfaces.IDKey, id))
	}
	return nil
}
