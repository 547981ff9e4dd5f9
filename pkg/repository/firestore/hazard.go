package firestore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type hazardDocument struct {
	ID          string `firestore:"id"`
	CategoryID  string `firestore:"category_id"`
	Description string `firestore:"description"`
	Health      bool   `firestore:"health"`
	Safety      bool   `firestore:"safety"`
	Security    bool   `firestore:"security"`
	Environment bool   `firestore:"environment"`
	Social      bool   `firestore:"social"`
	Sources     string `firestore:"sources"`
}

func toHazardDocument(h *model.Hazard) *hazardDocument {
	return &hazardDocument{
		ID:          h.ID.String(),
		CategoryID:  h.CategoryID.String(),
		Description: h.Description,
		Health:      h.Health,
		Safety:      h.Safety,
		Security:    h.Security,
		Environment: h.Environment,
		Social:      h.Social,
		Sources:     h.Sources,
	}
}

func (d *hazardDocument) toModel() *model.Hazard {
	return &model.Hazard{
		ID:          types.HazardID(d.ID),
		CategoryID:  types.CategoryID(d.CategoryID),
		Description: d.Description,
		ImpactFlags: model.ImpactFlags{
			Health:      d.Health,
			Safety:      d.Safety,
			Security:    d.Security,
			Environment: d.Environment,
			Social:      d.Social,
		},
		Sources: d.Sources,
	}
}

type hazardRepository struct {
	f *Firestore
}

func (r *hazardRepository) hazards() *firestore.CollectionRef {
	return r.f.collection("hazards")
}

func (r *hazardRepository) find(ctx context.Context, q firestore.Query) ([]*model.Hazard, error) {
	docs, err := r.f.query(ctx, q)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list hazards")
	}

	hazards := make([]*model.Hazard, 0, len(docs))
	for _, doc := range docs {
		var d hazardDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal hazard", goerr.V(interfaces.IDKey, doc.Ref.ID))
		}
		hazards = append(hazards, d.toModel())
	}
	return hazards, nil
}

func (r *hazardRepository) List(ctx context.Context) ([]*model.Hazard, error) {
	return r.find(ctx, r.hazards().OrderBy("id", firestore.Asc))
}

func (r *hazardRepository) Get(ctx context.Context, id types.HazardID) (*model.Hazard, error) {
	doc, err := r.f.get(ctx, r.hazards().Doc(id.String()))
	if err != nil {
		return nil, translateError(err, "failed to get hazard", goerr.V(interfaces.IDKey, id))
	}

	var d hazardDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal hazard", goerr.V(interfaces.IDKey, id))
	}
	return d.toModel(), nil
}

// ListByCategory needs the (category_id, id) composite index created by the migrate command
func (r *hazardRepository) ListByCategory(ctx context.Context, categoryID types.CategoryID) ([]*model.Hazard, error) {
	return r.find(ctx, r.hazards().
		Where("category_id", "==", categoryID.String()).
		OrderBy("id", firestore.Asc))
}

// Search scans the collection because Firestore has no substring query
func (r *hazardRepository) Search(ctx context.Context, term string) ([]*model.Hazard, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(term)
	matched := []*model.Hazard{}
	for _, h := range all {
		if strings.Contains(strings.ToLower(h.Description), term) {
			matched = append(matched, h)
		}
	}
	return matched, nil
}

func (r *hazardRepository) Filter(ctx context.Context, filter model.ImpactFilter) ([]*model.Hazard, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := []*model.Hazard{}
	for _, h := range all {
		if filter.Match(h.ImpactFlags) {
			matched = append(matched, h)
		}
	}
	return matched, nil
}

func (r *hazardRepository) Create(ctx context.Context, hazard *model.Hazard) error {
	return r.f.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
		f := tx.(*Firestore)
		if err := checkCategory(ctx, f, hazard.CategoryID); err != nil {
			return err
		}

		doc := toHazardDocument(hazard)
		if err := f.create(ctx, f.collection("hazards").Doc(doc.ID), doc); err != nil {
			return translateError(err, "failed to create hazard", goerr.V(interfaces.IDKey, hazard.ID))
		}
		return nil
	})
}

func (r *hazardRepository) Update(ctx context.Context, hazard *model.Hazard) error {
	return r.f.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
		f := tx.(*Firestore)
		ref := f.collection("hazards").Doc(hazard.ID.String())
		if _, err := f.get(ctx, ref); err != nil {
			return translateError(err, "failed to get hazard", goerr.V(interfaces.IDKey, hazard.ID))
		}
		if err := checkCategory(ctx, f, hazard.CategoryID); err != nil {
			return err
		}

		if err := f.set(ctx, ref, toHazardDocument(hazard)); err != nil {
			return goerr.Wrap(err, "failed to update hazard", goerr.V(interfaces.IDKey, hazard.ID))
		}
		return nil
	})
}

func (r *hazardRepository) Delete(ctx context.Context, id types.HazardID) error {
	if err := r.f.remove(ctx, r.hazards().Doc(id.String())); err != nil {
		return translateError(err, "failed to delete hazard", goerr.V(interfaces.IDKey, id))
	}
	return nil
}

func checkCategory(ctx context.Context, f *Firestore, id types.CategoryID) error {
	if _, err := f.get(ctx, f.collection("hazard_categories").Doc(id.String())); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrForeignKey, "category does not exist", goerr.V(interfaces.CategoryIDKey, id))
		}
		return goerr.Wrap(err, "failed to get category", goerr.V(interfaces.CategoryIDKey, id))
	}
	return nil
}
