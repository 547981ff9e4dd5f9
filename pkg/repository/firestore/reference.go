package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
)

type referenceDocument struct {
	ID   int64  `firestore:"id"`
	Name string `firestore:"name"`
}

type referenceRepository struct {
	f          *Firestore
	collection string
	kind       string
}

func (r *referenceRepository) refs() *firestore.CollectionRef {
	return r.f.collection(r.collection)
}

func (r *referenceRepository) List(ctx context.Context) ([]*model.Reference, error) {
	docs, err := r.f.query(ctx, r.refs().OrderBy("name", firestore.Asc))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list "+r.kind+"s")
	}

	refs := make([]*model.Reference, 0, len(docs))
	for _, doc := range docs {
		var d referenceDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal "+r.kind, goerr.V(interfaces.IDKey, doc.Ref.ID))
		}
		refs = append(refs, &model.Reference{ID: d.ID, Name: d.Name})
	}
	return refs, nil
}

func (r *referenceRepository) FindByName(ctx context.Context, name string) (*model.Reference, error) {
	docs, err := r.f.query(ctx, r.refs().Where("name", "==", name).Limit(1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find "+r.kind, goerr.V(interfaces.NameKey, name))
	}
	if len(docs) == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, r.kind+" not found", goerr.V(interfaces.NameKey, name))
	}

	var d referenceDocument
	if err := docs[0].DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal "+r.kind, goerr.V(interfaces.NameKey, name))
	}
	return &model.Reference{ID: d.ID, Name: d.Name}, nil
}

// Create checks the name, then takes the next ID from the counter document
func (r *referenceRepository) Create(ctx context.Context, name string) (*model.Reference, error) {
	var created *model.Reference
	err := r.f.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
		f := tx.(*Firestore)
		refs := f.collection(r.collection)

		docs, err := f.query(ctx, refs.Where("name", "==", name).Limit(1))
		if err != nil {
			return goerr.Wrap(err, "failed to find "+r.kind, goerr.V(interfaces.NameKey, name))
		}
		if len(docs) > 0 {
			return goerr.Wrap(interfaces.ErrDuplicate, r.kind+" already exists", goerr.V(interfaces.NameKey, name))
		}

		id, err := f.nextID(r.kind + "_counter")
		if err != nil {
			return err
		}

		doc := &referenceDocument{ID: id, Name: name}
		if err := f.create(ctx, refs.Doc(fmt.Sprintf("%d", id)), doc); err != nil {
			return translateError(err, "failed to create "+r.kind, goerr.V(interfaces.NameKey, name))
		}
		created = &model.Reference{ID: id, Name: name}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// lookupReferences loads a whole reference collection keyed by ID
func lookupReferences(ctx context.Context, f *Firestore, collection string) (map[int64]*model.Reference, error) {
	docs, err := f.query(ctx, f.collection(collection).Query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list references", goerr.V("collection", collection))
	}

	refs := make(map[int64]*model.Reference, len(docs))
	for _, doc := range docs {
		var d referenceDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal reference", goerr.V("collection", collection))
		}
		refs[d.ID] = &model.Reference{ID: d.ID, Name: d.Name}
	}
	return refs, nil
}

func getReference(ctx context.Context, f *Firestore, collection string, id int64) (*model.Reference, error) {
	doc, err := f.get(ctx, f.collection(collection).Doc(fmt.Sprintf("%d", id)))
	if err != nil {
		return nil, err
	}

	var d referenceDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal reference", goerr.V("collection", collection))
	}
	return &model.Reference{ID: d.ID, Name: d.Name}, nil
}
