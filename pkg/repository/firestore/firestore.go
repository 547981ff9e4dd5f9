package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore is a document store repository. Every operation that must check
// a record before writing runs inside a Firestore transaction, so all reads
// happen before the first write.
type Firestore struct {
	client           *firestore.Client
	collectionPrefix string
	tx               *firestore.Transaction
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Category() interfaces.CategoryRepository {
	return &categoryRepository{f: f}
}

func (f *Firestore) Hazard() interfaces.HazardRepository {
	return &hazardRepository{f: f}
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return &riskRepository{f: f}
}

func (f *Firestore) Department() interfaces.ReferenceRepository {
	return &referenceRepository{f: f, collection: "departments", kind: "department"}
}

func (f *Firestore) Group() interfaces.ReferenceRepository {
	return &referenceRepository{f: f, collection: "groups", kind: "group"}
}

func (f *Firestore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Repository) error) error {
	if f.tx != nil {
		return fn(ctx, f)
	}

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &Firestore{
			client:           f.client,
			collectionPrefix: f.collectionPrefix,
			tx:               tx,
		})
	})
	if err != nil {
		return translateError(err, "transaction failed")
	}
	return nil
}

func (f *Firestore) Close() error {
	if f.tx != nil {
		return nil
	}
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *Firestore) collection(name string) *firestore.CollectionRef {
	if f.collectionPrefix != "" {
		return f.client.Collection(f.collectionPrefix + "_" + name)
	}
	return f.client.Collection(name)
}

func (f *Firestore) get(ctx context.Context, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	if f.tx != nil {
		return f.tx.Get(ref)
	}
	return ref.Get(ctx)
}

func (f *Firestore) query(ctx context.Context, q firestore.Query) ([]*firestore.DocumentSnapshot, error) {
	var iter *firestore.DocumentIterator
	if f.tx != nil {
		iter = f.tx.Documents(q)
	} else {
		iter = q.Documents(ctx)
	}
	defer iter.Stop()

	var docs []*firestore.DocumentSnapshot
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (f *Firestore) create(ctx context.Context, ref *firestore.DocumentRef, data any) error {
	if f.tx != nil {
		return f.tx.Create(ref, data)
	}
	_, err := ref.Create(ctx, data)
	return err
}

func (f *Firestore) set(ctx context.Context, ref *firestore.DocumentRef, data any) error {
	if f.tx != nil {
		return f.tx.Set(ref, data)
	}
	_, err := ref.Set(ctx, data)
	return err
}

// remove deletes a document that must exist
func (f *Firestore) remove(ctx context.Context, ref *firestore.DocumentRef) error {
	if f.tx != nil {
		return f.tx.Delete(ref, firestore.Exists)
	}
	_, err := ref.Delete(ctx, firestore.Exists)
	return err
}

// nextID increments a counter document. It must run inside a transaction.
func (f *Firestore) nextID(counter string) (int64, error) {
	counterRef := f.collection("counters").Doc(counter)

	doc, err := f.tx.Get(counterRef)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			if err := f.tx.Set(counterRef, map[string]any{"value": int64(1)}); err != nil {
				return 0, goerr.Wrap(err, "failed to initialize counter", goerr.V("counter", counter))
			}
			return 1, nil
		}
		return 0, goerr.Wrap(err, "failed to get counter", goerr.V("counter", counter))
	}

	currentValue, err := doc.DataAt("value")
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get counter value", goerr.V("counter", counter))
	}
	current, ok := currentValue.(int64)
	if !ok {
		return 0, goerr.New("counter value is not an integer", goerr.V("counter", counter))
	}

	next := current + 1
	if err := f.tx.Update(counterRef, []firestore.Update{{Path: "value", Value: next}}); err != nil {
		return 0, goerr.Wrap(err, "failed to update counter", goerr.V("counter", counter))
	}
	return next, nil
}

// translateError maps gRPC status codes onto the repository sentinels
func translateError(err error, msg string, opts ...goerr.Option) error {
	if errors.Is(err, interfaces.ErrNotFound) ||
		errors.Is(err, interfaces.ErrDuplicate) ||
		errors.Is(err, interfaces.ErrForeignKey) {
		return err
	}

	switch status.Code(err) {
	case codes.NotFound:
		return goerr.Wrap(interfaces.ErrNotFound, msg, append(opts, goerr.V("firestore_error", err.Error()))...)
	case codes.AlreadyExists:
		return goerr.Wrap(interfaces.ErrDuplicate, msg, append(opts, goerr.V("firestore_error", err.Error()))...)
	default:
		return goerr.Wrap(err, msg, opts...)
	}
}
