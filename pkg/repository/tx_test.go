package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/repository/memory"
)

func TestRunInTx(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newRepo repositoryFactory) {
		t.Run("commits every write when fn succeeds", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			err := repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
				if err := tx.Category().Create(ctx, &model.Category{ID: "H-1", Name: "Physical"}); err != nil {
					return err
				}
				return tx.Risk().Create(ctx, newTestRisk(t, "R-001", nil, nil))
			})
			gt.NoError(t, err).Required()

			_, err = repo.Category().Get(ctx, "H-1")
			gt.NoError(t, err)
			_, err = repo.Risk().Get(ctx, "R-001")
			gt.NoError(t, err)
		})

		t.Run("rolls back every write when fn fails", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()
			errAbort := errors.New("abort")

			err := repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
				if err := tx.Category().Create(ctx, &model.Category{ID: "H-1", Name: "Physical"}); err != nil {
					return err
				}
				if err := tx.Risk().Create(ctx, newTestRisk(t, "R-001", nil, nil)); err != nil {
					return err
				}
				return errAbort
			})
			gt.Error(t, err).Is(errAbort)

			_, err = repo.Category().Get(ctx, "H-1")
			gt.Error(t, err).Is(interfaces.ErrNotFound)

			n, err := repo.Risk().Count(ctx)
			gt.NoError(t, err).Required()
			gt.Number(t, n).Equal(0)
		})

		t.Run("nested RunInTx joins the outer transaction", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()
			errAbort := errors.New("abort")

			err := repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
				if err := tx.RunInTx(ctx, func(ctx context.Context, inner interfaces.Repository) error {
					return inner.Risk().Create(ctx, newTestRisk(t, "R-001", nil, nil))
				}); err != nil {
					return err
				}
				return errAbort
			})
			gt.Error(t, err).Is(errAbort)

			_, err = repo.Risk().Get(ctx, "R-001")
			gt.Error(t, err).Is(interfaces.ErrNotFound)
		})
	})
}

func TestMemoryRunInTx_HidesUncommittedWrites(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	err := repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
		if err := tx.Category().Create(ctx, &model.Category{ID: "H-1", Name: "Physical"}); err != nil {
			return err
		}

		_, err := tx.Category().Get(ctx, "H-1")
		gt.NoError(t, err)

		_, err = repo.Category().Get(ctx, "H-1")
		gt.Error(t, err).Is(interfaces.ErrNotFound)
		return nil
	})
	gt.NoError(t, err).Required()

	got, err := repo.Category().Get(ctx, "H-1")
	gt.NoError(t, err).Required()
	gt.Value(t, got.Name).Equal("Physical")
}
