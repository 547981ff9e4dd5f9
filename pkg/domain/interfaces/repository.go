package interfaces

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// Repository defines the interface for data persistence
type Repository interface {
	Category() CategoryRepository
	Hazard() HazardRepository
	Risk() RiskRepository
	Department() ReferenceRepository
	Group() ReferenceRepository

	// RunInTx runs fn atomically. fn must use tx, not the receiver, for every
	// read and write that belongs to the transaction. Any error returned by fn
	// rolls back all of its writes. Calling RunInTx on tx runs fn in the same
	// transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error

	Close() error
}

// Sentinel errors returned by every repository implementation
var (
	ErrNotFound   = goerr.New("record not found")
	ErrDuplicate  = goerr.New("record already exists")
	ErrForeignKey = goerr.New("referenced record does not exist")
)

// Context keys for error values
const (
	IDKey         = "id"
	CategoryIDKey = "category_id"
	NameKey       = "name"
)
