package memory

import (
	"context"
	"sync"

	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// data is the complete state of the store. Transactions work on a clone of it.
type data struct {
	categories  map[types.CategoryID]*model.Category
	hazards     map[types.HazardID]*model.Hazard
	risks       map[types.RiskID]*model.RiskRecord
	departments *referenceTable
	groups      *referenceTable
}

func newData() *data {
	return &data{
		categories:  make(map[types.CategoryID]*model.Category),
		hazards:     make(map[types.HazardID]*model.Hazard),
		risks:       make(map[types.RiskID]*model.RiskRecord),
		departments: newReferenceTable(),
		groups:      newReferenceTable(),
	}
}

func (d *data) clone() *data {
	c := &data{
		categories:  make(map[types.CategoryID]*model.Category, len(d.categories)),
		hazards:     make(map[types.HazardID]*model.Hazard, len(d.hazards)),
		risks:       make(map[types.RiskID]*model.RiskRecord, len(d.risks)),
		departments: d.departments.clone(),
		groups:      d.groups.clone(),
	}
	for k, v := range d.categories {
		c.categories[k] = v.Copy()
	}
	for k, v := range d.hazards {
		c.hazards[k] = v.Copy()
	}
	for k, v := range d.risks {
		c.risks[k] = v.Copy()
	}
	return c
}

type store struct {
	mu sync.RWMutex
	d  *data
}

// Memory is an in-process repository. Writes are serialized with transactions
// so a rolled back transaction never discards a concurrent write.
type Memory struct {
	txMu *sync.Mutex
	s    *store
	inTx bool
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		txMu: &sync.Mutex{},
		s:    &store{d: newData()},
	}
}

func (m *Memory) Category() interfaces.CategoryRepository {
	return &categoryRepository{m: m}
}

func (m *Memory) Hazard() interfaces.HazardRepository {
	return &hazardRepository{m: m}
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return &riskRepository{m: m}
}

func (m *Memory) Department() interfaces.ReferenceRepository {
	return &referenceRepository{m: m, table: func(d *data) *referenceTable { return d.departments }, kind: "department"}
}

func (m *Memory) Group() interfaces.ReferenceRepository {
	return &referenceRepository{m: m, table: func(d *data) *referenceTable { return d.groups }, kind: "group"}
}

func (m *Memory) RunInTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Repository) error) error {
	if m.inTx {
		return fn(ctx, m)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.s.mu.RLock()
	working := m.s.d.clone()
	m.s.mu.RUnlock()

	// fn writes to a private copy that replaces the shared data on commit
	tx := &Memory{txMu: m.txMu, s: &store{d: working}, inTx: true}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	m.s.mu.Lock()
	m.s.d = working
	m.s.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) read(fn func(d *data) error) error {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return fn(m.s.d)
}

func (m *Memory) write(fn func(d *data) error) error {
	if !m.inTx {
		m.txMu.Lock()
		defer m.txMu.Unlock()
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return fn(m.s.d)
}
