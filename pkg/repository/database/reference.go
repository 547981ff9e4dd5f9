package database

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"gorm.io/gorm"
)

type referenceRow interface {
	departmentRow | groupRow
}

func toReference[T referenceRow](row *T) *model.Reference {
	switch v := any(row).(type) {
	case *departmentRow:
		return &model.Reference{ID: v.ID, Name: v.Name}
	case *groupRow:
		return &model.Reference{ID: v.ID, Name: v.Name}
	default:
		return nil
	}
}

func newReferenceRow[T referenceRow](name string) *T {
	var row T
	switch v := any(&row).(type) {
	case *departmentRow:
		v.Name = name
	case *groupRow:
		v.Name = name
	}
	return &row
}

// referenceRepository serves the departments and groups tables
type referenceRepository[T referenceRow] struct {
	db   *gorm.DB
	kind string
}

func (r *referenceRepository[T]) List(ctx context.Context) ([]*model.Reference, error) {
	var rows []T
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, translateError(err, "failed to list "+r.kind+"s")
	}

	refs := make([]*model.Reference, len(rows))
	for i := range rows {
		refs[i] = toReference(&rows[i])
	}
	return refs, nil
}

func (r *referenceRepository[T]) FindByName(ctx context.Context, name string) (*model.Reference, error) {
	var row T
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		return nil, translateError(err, "failed to find "+r.kind, goerr.V(interfaces.NameKey, name))
	}
	return toReference(&row), nil
}

func (r *referenceRepository[T]) Create(ctx context.Context, name string) (*model.Reference, error) {
	row := newReferenceRow[T](name)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, translateError(err, "failed to create "+r.kind, goerr.V(interfaces.NameKey, name))
	}
	return toReference(row), nil
}
