package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

type categoryDocument struct {
	CategoryID string `firestore:"category_id"`
	Name       string `firestore:"name"`
}

func (d *categoryDocument) toModel() *model.Category {
	return &model.Category{ID: types.CategoryID(d.CategoryID), Name: d.Name}
}

type categoryRepository struct {
	f *Firestore
}

func (r *categoryRepository) categories() *firestore.CollectionRef {
	return r.f.collection("hazard_categories")
}

func (r *categoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	docs, err := r.f.query(ctx, r.categories().OrderBy("category_id", firestore.Asc))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list categories")
	}

	categories := make([]*model.Category, 0, len(docs))
	for _, doc := range docs {
		var d categoryDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal category", goerr.V(interfaces.CategoryIDKey, doc.Ref.ID))
		}
		categories = append(categories, d.toModel())
	}
	return categories, nil
}

func (r *categoryRepository) Get(ctx context.Context, id types.CategoryID) (*model.Category, error) {
	doc, err := r.f.get(ctx, r.categories().Doc(id.String()))
	if err != nil {
		return nil, translateError(err, "failed to get category", goerr.V(interfaces.CategoryIDKey, id))
	}

	var d categoryDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal category", goerr.V(interfaces.CategoryIDKey, id))
	}
	return d.toModel(), nil
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	doc := &categoryDocument{CategoryID: category.ID.String(), Name: category.Name}
	if err := r.f.create(ctx, r.categories().Doc(doc.CategoryID), doc); err != nil {
		return translateError(err, "failed to create category", goerr.V(interfaces.CategoryIDKey, category.ID))
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	return r.f.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
		f := tx.(*Firestore)
		ref := f.collection("hazard_categories").Doc(category.ID.String())
		if _, err := f.get(ctx, ref); err != nil {
			return translateError(err, "failed to get category", goerr.V(interfaces.CategoryIDKey, category.ID))
		}

		doc := &categoryDocument{CategoryID: category.ID.String(), Name: category.Name}
		if err := f.set(ctx, ref, doc); err != nil {
			return goerr.Wrap(err, "failed to update category", goerr.V(interfaces.CategoryIDKey, category.ID))
		}
		return nil
	})
}

// Delete removes the category and its hazards in one transaction
func (r *categoryRepository) Delete(ctx context.Context, id types.CategoryID) error {
	return r.f.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
		f := tx.(*Firestore)
		ref := f.collection("hazard_categories").Doc(id.String())
		if _, err := f.get(ctx, ref); err != nil {
			return translateError(err, "failed to get category", goerr.V(interfaces.CategoryIDKey, id))
		}

		hazards, err := f.query(ctx, f.collection("hazards").Where("category_id", "==", id.String()))
		if err != nil {
			return goerr.Wrap(err, "failed to list hazards of category", goerr.V(interfaces.CategoryIDKey, id))
		}

		for _, doc := range hazards {
			if err := f.remove(ctx, doc.Ref); err != nil {
				return translateError(err, "failed to delete hazard", goerr.V(interfaces.IDKey, doc.Ref.ID))
			}
		}
		if err := f.remove(ctx, ref); err != nil {
			return translateError(err, "failed to delete category", goerr.V(interfaces.CategoryIDKey, id))
		}
		return nil
	})
}
