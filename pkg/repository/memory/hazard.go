package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

type hazardRepository struct {
	m *Memory
}

func (r *hazardRepository) collect(match func(h *model.Hazard) bool) []*model.Hazard {
	var hazards []*model.Hazard
	_ = r.m.read(func(d *data) error {
		hazards = make([]*model.Hazard, 0, len(d.hazards))
		for _, h := range d.hazards {
			if match(h) {
				hazards = append(hazards, h.Copy())
			}
		}
		return nil
	})

	sort.Slice(hazards, func(i, j int) bool {
		return hazards[i].ID < hazards[j].ID
	})
	return hazards
}

func (r *hazardRepository) List(ctx context.Context) ([]*model.Hazard, error) {
	return r.collect(func(*model.Hazard) bool { return true }), nil
}

func (r *hazardRepository) Get(ctx context.Context, id types.HazardID) (*model.Hazard, error) {
	var found *model.Hazard
	err := r.m.read(func(d *data) error {
		h, exists := d.hazards[id]
		if !exists {
			return goerr.Wrap(interfaces.ErrNotFound, "hazard not found", goerr.V(interfaces.IDKey, id))
		}
		found = h.Copy()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *hazardRepository) ListByCategory(ctx context.Context, categoryID types.CategoryID) ([]*model.Hazard, error) {
	return r.collect(func(h *model.Hazard) bool { return h.CategoryID == categoryID }), nil
}

func (r *hazardRepository) Search(ctx context.Context, term string) ([]*model.Hazard, error) {
	needle := strings.ToLower(term)
	return r.collect(func(h *model.Hazard) bool {
		return strings.Contains(strings.ToLower(h.Description), needle)
	}), nil
}

func (r *hazardRepository) Filter(ctx context.Context, filter model.ImpactFilter) ([]*model.Hazard, error) {
	return r.collect(func(h *model.Hazard) bool { return filter.Match(h.ImpactFlags) }), nil
}

func (r *hazardRepository) Create(ctx context.Context, hazard *model.Hazard) error {
	return r.m.write(func(d *data) error {
		if _, exists := d.hazards[hazard.ID]; exists {
			return goerr.Wrap(interfaces.ErrDuplicate, "hazard already exists", goerr.V(interfaces.IDKey, hazard.ID))
		}
		if _, exists := d.categories[hazard.CategoryID]; !exists {
			return goerr.Wrap(interfaces.ErrForeignKey, "category does not exist", goerr.V(interfaces.CategoryIDKey, hazard.CategoryID))
		}
		d.hazards[hazard.ID] = hazard.Copy()
		return nil
	})
}

func (r *hazardRepository) Update(ctx context.Context, hazard *model.Hazard) error {
	return r.m.write(func(d *data) error {
		if _, exists := d.hazards[hazard.ID]; !exists {
			return goerr.Wrap(interfaces.ErrNotFound, "hazard not found", goerr.V(interfaces.IDKey, hazard.ID))
		}
		if _, exists := d.categories[hazard.CategoryID]; !exists {
			return goerr.Wrap(interfaces.ErrForeignKey, "category does not exist", goerr.V(interfaces.CategoryIDKey, hazard.CategoryID))
		}
		d.hazards[hazard.ID] = hazard.Copy()
		return nil
	})
}

func (r *hazardRepository) Delete(ctx context.Context, id types.HazardID) error {
	return r.m.write(func(d *data) error {
		if _, exists := d.hazards[id]; !exists {
			return goerr.Wrap(interfaces.ErrNotFound, "hazard not found", goerr.V(interfaces.IDKey, id))
		}
		delete(d.hazards, id)
		return nil
	})
}
