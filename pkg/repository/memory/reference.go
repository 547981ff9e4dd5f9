package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
)

type referenceTable struct {
	byID   map[int64]*model.Reference
	nextID int64
}

func newReferenceTable() *referenceTable {
	return &referenceTable{
		byID:   make(map[int64]*model.Reference),
		nextID: 1,
	}
}

func (t *referenceTable) clone() *referenceTable {
	c := &referenceTable{
		byID:   make(map[int64]*model.Reference, len(t.byID)),
		nextID: t.nextID,
	}
	for k, v := range t.byID {
		c.byID[k] = v.Copy()
	}
	return c
}

func (t *referenceTable) findByName(name string) *model.Reference {
	for _, ref := range t.byID {
		if ref.Name == name {
			return ref
		}
	}
	return nil
}

type referenceRepository struct {
	m     *Memory
	table func(d *data) *referenceTable
	kind  string
}

func (r *referenceRepository) List(ctx context.Context) ([]*model.Reference, error) {
	var refs []*model.Reference
	_ = r.m.read(func(d *data) error {
		t := r.table(d)
		refs = make([]*model.Reference, 0, len(t.byID))
		for _, ref := range t.byID {
			refs = append(refs, ref.Copy())
		}
		return nil
	})

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Name < refs[j].Name
	})
	return refs, nil
}

func (r *referenceRepository) FindByName(ctx context.Context, name string) (*model.Reference, error) {
	var found *model.Reference
	err := r.m.read(func(d *data) error {
		ref := r.table(d).findByName(name)
		if ref == nil {
			return goerr.Wrap(interfaces.ErrNotFound, r.kind+" not found", goerr.V(interfaces.NameKey, name))
		}
		found = ref.Copy()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *referenceRepository) Create(ctx context.Context, name string) (*model.Reference, error) {
	var created *model.Reference
	err := r.m.write(func(d *data) error {
		t := r.table(d)
		if t.findByName(name) != nil {
			return goerr.Wrap(interfaces.ErrDuplicate, r.kind+" already exists", goerr.V(interfaces.NameKey, name))
		}
		ref := &model.Reference{ID: t.nextID, Name: name}
		t.byID[ref.ID] = ref
		t.nextID++
		created = ref.Copy()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
