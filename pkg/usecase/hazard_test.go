package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"github.com/secmon-lab/riskregister/pkg/repository/memory"
	"github.com/secmon-lab/riskregister/pkg/usecase"
)

func setupCatalog(t *testing.T) *usecase.UseCases {
	t.Helper()
	uc := usecase.New(memory.New())
	ctx := context.Background()

	for _, c := range []*model.Category{
		{ID: "H-1", Name: "Physical"},
		{ID: "H-2", Name: "Chemical"},
	} {
		_, err := uc.Category.CreateCategory(ctx, c)
		gt.NoError(t, err).Required()
	}
	return uc
}

func TestHazardUseCase_CreateHazard(t *testing.T) {
	t.Run("assigns the next sequence of the category", func(t *testing.T) {
		uc := setupCatalog(t)
		ctx := context.Background()

		first, err := uc.Hazard.CreateHazard(ctx, &model.Hazard{CategoryID: "H-1", Description: "Noise"})
		gt.NoError(t, err).Required()
		gt.Value(t, first.ID).Equal("H-1.01")

		_, err = uc.Hazard.CreateHazard(ctx, &model.Hazard{ID: "H-1.07", CategoryID: "H-1", Description: "Vibration"})
		gt.NoError(t, err).Required()

		next, err := uc.Hazard.CreateHazard(ctx, &model.Hazard{CategoryID: "H-1", Description: "Heat"})
		gt.NoError(t, err).Required()
		gt.Value(t, next.ID).Equal("H-1.08")

		other, err := uc.Hazard.CreateHazard(ctx, &model.Hazard{CategoryID: "H-2", Description: "Acids"})
		gt.NoError(t, err).Required()
		gt.Value(t, other.ID).Equal("H-2.01")
	})

	t.Run("unknown category writes nothing", func(t *testing.T) {
		uc := setupCatalog(t)
		ctx := context.Background()

		_, err := uc.Hazard.CreateHazard(ctx, &model.Hazard{CategoryID: "H-9", Description: "Orphan"})
		gt.Error(t, err).Is(usecase.ErrUnknownCategory)

		hazards, err := uc.Hazard.ListHazards(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, hazards).Length(0)
	})

	t.Run("duplicate ID is rejected", func(t *testing.T) {
		uc := setupCatalog(t)
		ctx := context.Background()

		_, err := uc.Hazard.CreateHazard(ctx, &model.Hazard{ID: "H-1.01", CategoryID: "H-1", Description: "Noise"})
		gt.NoError(t, err).Required()
		_, err = uc.Hazard.CreateHazard(ctx, &model.Hazard{ID: "H-1.01", CategoryID: "H-1", Description: "Again"})
		gt.Error(t, err).Is(usecase.ErrDuplicateID)
	})

	t.Run("ID of another category is invalid", func(t *testing.T) {
		uc := setupCatalog(t)
		_, err := uc.Hazard.CreateHazard(context.Background(), &model.Hazard{ID: "H-2.01", CategoryID: "H-1", Description: "Noise"})
		gt.Error(t, err).Is(model.ErrInvalidFormat)
	})

	t.Run("missing description is invalid", func(t *testing.T) {
		uc := setupCatalog(t)
		_, err := uc.Hazard.CreateHazard(context.Background(), &model.Hazard{CategoryID: "H-1", Description: "  "})
		gt.Error(t, err).Is(model.ErrMissingField)
	})
}

func TestHazardUseCase_Queries(t *testing.T) {
	uc := setupCatalog(t)
	ctx := context.Background()

	for _, h := range []*model.Hazard{
		{CategoryID: "H-1", Description: "Excessive noise", ImpactFlags: model.ImpactFlags{Health: true}},
		{CategoryID: "H-1", Description: "Falling objects", ImpactFlags: model.ImpactFlags{Safety: true, Health: true}},
		{CategoryID: "H-2", Description: "Toxic fumes", ImpactFlags: model.ImpactFlags{Health: true, Environment: true}},
	} {
		_, err := uc.Hazard.CreateHazard(ctx, h)
		gt.NoError(t, err).Required()
	}

	t.Run("search ignores case", func(t *testing.T) {
		hazards, err := uc.Hazard.SearchHazards(ctx, "NOISE")
		gt.NoError(t, err).Required()
		gt.Array(t, hazards).Length(1).Required()
		gt.Value(t, hazards[0].ID).Equal("H-1.01")
	})

	t.Run("empty search term is rejected", func(t *testing.T) {
		_, err := uc.Hazard.SearchHazards(ctx, "  ")
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})

	t.Run("filter combines flags with AND", func(t *testing.T) {
		hazards, err := uc.Hazard.FilterHazards(ctx, model.NewImpactFilter(types.ImpactHealth, types.ImpactSafety))
		gt.NoError(t, err).Required()
		gt.Array(t, hazards).Length(1).Required()
		gt.Value(t, hazards[0].ID).Equal("H-1.02")
	})

	t.Run("filter rejects unknown aspect", func(t *testing.T) {
		_, err := uc.Hazard.FilterHazards(ctx, model.NewImpactFilter("radiation"))
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})

	t.Run("list by category", func(t *testing.T) {
		hazards, err := uc.Hazard.ListHazardsByCategory(ctx, "H-2")
		gt.NoError(t, err).Required()
		gt.Array(t, hazards).Length(1)
	})
}

func TestHazardUseCase_UpdateHazard(t *testing.T) {
	uc := setupCatalog(t)
	ctx := context.Background()

	created, err := uc.Hazard.CreateHazard(ctx, &model.Hazard{CategoryID: "H-1", Description: "Noise"})
	gt.NoError(t, err).Required()

	t.Run("replaces fields and keeps its ID", func(t *testing.T) {
		updated, err := uc.Hazard.UpdateHazard(ctx, created.ID, &model.Hazard{
			ID:          "ignored",
			CategoryID:  "H-1",
			Description: "Noise from compressors",
			ImpactFlags: model.ImpactFlags{Health: true},
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.ID).Equal(created.ID)
		gt.Value(t, updated.CategoryID).Equal("H-1")
		gt.Value(t, updated.Description).Equal("Noise from compressors")
		gt.Bool(t, updated.Health).True()
	})

	t.Run("moving to another category is rejected", func(t *testing.T) {
		_, err := uc.Hazard.UpdateHazard(ctx, created.ID, &model.Hazard{CategoryID: "H-2", Description: "Noise"})
		gt.Error(t, err).Is(usecase.ErrInvalidInput)

		got, err := uc.Hazard.GetHazard(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.CategoryID).Equal("H-1")
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		_, err := uc.Hazard.UpdateHazard(ctx, created.ID, &model.Hazard{CategoryID: "H-5", Description: "Noise"})
		gt.Error(t, err).Is(usecase.ErrUnknownCategory)
	})

	t.Run("unknown hazard is not found", func(t *testing.T) {
		_, err := uc.Hazard.UpdateHazard(ctx, "H-1.99", &model.Hazard{CategoryID: "H-1", Description: "Noise"})
		gt.Error(t, err).Is(usecase.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		gt.NoError(t, uc.Hazard.DeleteHazard(ctx, created.ID)).Required()
		gt.Error(t, uc.Hazard.DeleteHazard(ctx, created.ID)).Is(usecase.ErrNotFound)
	})
}

func TestHazardUseCase_SequenceSurvivesRejectedMove(t *testing.T) {
	uc := setupCatalog(t)
	ctx := context.Background()

	noise, err := uc.Hazard.CreateHazard(ctx, &model.Hazard{CategoryID: "H-1", Description: "Noise"})
	gt.NoError(t, err).Required()
	gt.Value(t, noise.ID).Equal("H-1.01")

	_, err = uc.Hazard.UpdateHazard(ctx, noise.ID, &model.Hazard{CategoryID: "H-2", Description: "Noise"})
	gt.Error(t, err).Is(usecase.ErrInvalidInput)

	vibration, err := uc.Hazard.CreateHazard(ctx, &model.Hazard{CategoryID: "H-1", Description: "Vibration"})
	gt.NoError(t, err).Required()
	gt.Value(t, vibration.ID).Equal("H-1.02")

	result, err := uc.ValidateDB(ctx)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.HasIssues()).False()
	gt.Number(t, result.Hazards).Equal(2)
}

func TestHazardUseCase_CategoryName(t *testing.T) {
	uc := setupCatalog(t)
	ctx := context.Background()

	created, err := uc.Hazard.CreateHazard(ctx, &model.Hazard{
		CategoryID:   "H-2",
		Description:  "Acid splashes",
		CategoryName: "client supplied",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, created.CategoryName).Equal("Chemical")

	got, err := uc.Hazard.GetHazard(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.CategoryName).Equal("Chemical")

	all, err := uc.Hazard.ListHazards(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(1).Required()
	gt.Value(t, all[0].CategoryName).Equal("Chemical")

	found, err := uc.Hazard.SearchHazards(ctx, "acid")
	gt.NoError(t, err).Required()
	gt.Array(t, found).Length(1).Required()
	gt.Value(t, found[0].CategoryName).Equal("Chemical")

	_, err = uc.Category.UpdateCategory(ctx, "H-2", "Chemical agents")
	gt.NoError(t, err).Required()

	byCategory, err := uc.Hazard.ListHazardsByCategory(ctx, "H-2")
	gt.NoError(t, err).Required()
	gt.Array(t, byCategory).Length(1).Required()
	gt.Value(t, byCategory[0].CategoryName).Equal("Chemical agents")
}
