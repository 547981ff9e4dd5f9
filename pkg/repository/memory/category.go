package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

type categoryRepository struct {
	m *Memory
}

func (r *categoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	_ = r.m.read(func(d *data) error {
		categories = make([]*model.Category, 0, len(d.categories))
		for _, c := range d.categories {
			categories = append(categories, c.Copy())
		}
		return nil
	})

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

func (r *categoryRepository) Get(ctx context.Context, id types.CategoryID) (*model.Category, error) {
	var found *model.Category
	err := r.m.read(func(d *data) error {
		c, exists := d.categories[id]
		if !exists {
			return goerr.Wrap(interfaces.ErrNotFound, "category not found", goerr.V(interfaces.CategoryIDKey, id))
		}
		found = c.Copy()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.m.write(func(d *data) error {
		if _, exists := d.categories[category.ID]; exists {
			return goerr.Wrap(interfaces.ErrDuplicate, "category already exists", goerr.V(interfaces.CategoryIDKey, category.ID))
		}
		d.categories[category.ID] = category.Copy()
		return nil
	})
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	return r.m.write(func(d *data) error {
		existing, exists := d.categories[category.ID]
		if !exists {
			return goerr.Wrap(interfaces.ErrNotFound, "category not found", goerr.V(interfaces.CategoryIDKey, category.ID))
		}
		existing.Name = category.Name
		return nil
	})
}

func (r *categoryRepository) Delete(ctx context.Context, id types.CategoryID) error {
	return r.m.write(func(d *data) error {
		if _, exists := d.categories[id]; !exists {
			return goerr.Wrap(interfaces.ErrNotFound, "category not found", goerr.V(interfaces.CategoryIDKey, id))
		}
		for hid, h := range d.hazards {
			if h.CategoryID == id {
				delete(d.hazards, hid)
			}
		}
		delete(d.categories, id)
		return nil
	})
}
