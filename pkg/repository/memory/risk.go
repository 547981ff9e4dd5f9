package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

type riskRepository struct {
	m *Memory
}

func (r *riskRepository) List(ctx context.Context) ([]*model.RiskRecord, error) {
	var risks []*model.RiskRecord
	_ = r.m.read(func(d *data) error {
		risks = make([]*model.RiskRecord, 0, len(d.risks))
		for _, risk := range d.risks {
			// Return a copy to prevent external modification
			risks = append(risks, risk.Copy())
		}
		return nil
	})

	sort.Slice(risks, func(i, j int) bool {
		return risks[i].ID < risks[j].ID
	})
	return risks, nil
}

func (r *riskRepository) Get(ctx context.Context, id types.RiskID) (*model.RiskRecord, error) {
	var found *model.RiskRecord
	err := r.m.read(func(d *data) error {
		risk, exists := d.risks[id]
		if !exists {
			return goerr.Wrap(interfaces.ErrNotFound, "risk not found", goerr.V(interfaces.IDKey, id))
		}
		found = risk.Copy()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *riskRepository) Count(ctx context.Context) (int, error) {
	var n int
	_ = r.m.read(func(d *data) error {
		n = len(d.risks)
		return nil
	})
	return n, nil
}

func (r *riskRepository) Create(ctx context.Context, risk *model.RiskRecord) error {
	return r.m.write(func(d *data) error {
		if _, exists := d.risks[risk.ID]; exists {
			return goerr.Wrap(interfaces.ErrDuplicate, "risk already exists", goerr.V(interfaces.IDKey, risk.ID))
		}
		if err := checkReferences(d, risk); err != nil {
			return err
		}
		d.risks[risk.ID] = risk.Copy()
		return nil
	})
}

func (r *riskRepository) Update(ctx context.Context, risk *model.RiskRecord) error {
	return r.m.write(func(d *data) error {
		if _, exists := d.risks[risk.ID]; !exists {
			return goerr.Wrap(interfaces.ErrNotFound, "risk not found", goerr.V(interfaces.IDKey, risk.ID))
		}
		if err := checkReferences(d, risk); err != nil {
			return err
		}
		d.risks[risk.ID] = risk.Copy()
		return nil
	})
}

func (r *riskRepository) Delete(ctx context.Context, id types.RiskID) error {
	return r.m.write(func(d *data) error {
		if _, exists := d.risks[id]; !exists {
			return goerr.Wrap(interfaces.ErrNotFound, "risk not found", goerr.V(interfaces.IDKey, id))
		}
		delete(d.risks, id)
		return nil
	})
}

func checkReferences(d *data, risk *model.RiskRecord) error {
	if risk.Group != nil {
		if _, exists := d.groups.byID[risk.Group.ID]; !exists {
			return goerr.Wrap(interfaces.ErrForeignKey, "group does not exist", goerr.V(interfaces.IDKey, risk.Group.ID))
		}
	}
	if risk.PIC != nil {
		if _, exists := d.departments.byID[risk.PIC.ID]; !exists {
			return goerr.Wrap(interfaces.ErrForeignKey, "department does not exist", goerr.V(interfaces.IDKey, risk.PIC.ID))
		}
	}
	return nil
}
