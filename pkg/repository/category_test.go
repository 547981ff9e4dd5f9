package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
)

func TestCategoryRepository(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newRepo repositoryFactory) {
		t.Run("Create and Get round trip", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			seedCategory(t, repo, "H-1", "Physical")

			got, err := repo.Category().Get(ctx, "H-1")
			gt.NoError(t, err).Required()
			gt.Value(t, got.ID).Equal("H-1")
			gt.Value(t, got.Name).Equal("Physical")
		})

		t.Run("List is ordered by category ID", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			seedCategory(t, repo, "H-2", "Chemical")
			seedCategory(t, repo, "H-1", "Physical")
			seedCategory(t, repo, "H-3", "Biological")

			categories, err := repo.Category().List(ctx)
			gt.NoError(t, err).Required()
			gt.Array(t, categories).Length(3).Required()
			gt.Value(t, categories[0].ID).Equal("H-1")
			gt.Value(t, categories[1].ID).Equal("H-2")
			gt.Value(t, categories[2].ID).Equal("H-3")
		})

		t.Run("Create rejects a taken ID", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			seedCategory(t, repo, "H-1", "Physical")
			err := repo.Category().Create(ctx, &model.Category{ID: "H-1", Name: "Other"})
			gt.Error(t, err).Is(interfaces.ErrDuplicate)
		})

		t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
			repo := newRepo(t)
			_, err := repo.Category().Get(context.Background(), "H-99")
			gt.Error(t, err).Is(interfaces.ErrNotFound)
		})

		t.Run("Update changes the name", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			seedCategory(t, repo, "H-1", "Physical")
			gt.NoError(t, repo.Category().Update(ctx, &model.Category{ID: "H-1", Name: "Physical hazards"})).Required()

			got, err := repo.Category().Get(ctx, "H-1")
			gt.NoError(t, err).Required()
			gt.Value(t, got.Name).Equal("Physical hazards")
		})

		t.Run("Update returns ErrNotFound for unknown ID", func(t *testing.T) {
			repo := newRepo(t)
			err := repo.Category().Update(context.Background(), &model.Category{ID: "H-9", Name: "None"})
			gt.Error(t, err).Is(interfaces.ErrNotFound)
		})

		t.Run("Delete cascades to hazards of the category only", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			seedCategory(t, repo, "H-1", "Physical")
			seedCategory(t, repo, "H-2", "Chemical")
			seedHazard(t, repo, "H-1.01", "H-1", "Noise", model.ImpactFlags{Health: true})
			seedHazard(t, repo, "H-1.02", "H-1", "Vibration", model.ImpactFlags{Health: true})
			seedHazard(t, repo, "H-2.01", "H-2", "Solvent vapour", model.ImpactFlags{Health: true})

			gt.NoError(t, repo.Category().Delete(ctx, "H-1")).Required()

			_, err := repo.Category().Get(ctx, "H-1")
			gt.Error(t, err).Is(interfaces.ErrNotFound)

			hazards, err := repo.Hazard().List(ctx)
			gt.NoError(t, err).Required()
			gt.Array(t, hazards).Length(1).Required()
			gt.Value(t, hazards[0].ID).Equal("H-2.01")
		})

		t.Run("Delete returns ErrNotFound for unknown ID", func(t *testing.T) {
			repo := newRepo(t)
			err := repo.Category().Delete(context.Background(), "H-7")
			gt.Error(t, err).Is(interfaces.ErrNotFound)
		})
	})
}
