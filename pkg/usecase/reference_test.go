package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	domainConfig "github.com/secmon-lab/riskregister/pkg/domain/model/config"
	"github.com/secmon-lab/riskregister/pkg/repository/memory"
	"github.com/secmon-lab/riskregister/pkg/usecase"
)

func TestReferenceUseCase_Seed(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	seed := &domainConfig.Seed{
		Departments: []string{"Warehouse", "Maintenance"},
		Groups:      []string{"Operations"},
		Categories: []domainConfig.Category{
			{ID: "H-1", Name: "Physical"},
		},
		Hazards: []domainConfig.Hazard{
			{ID: "H-1.01", CategoryID: "H-1", Description: "Noise", Health: true},
			{CategoryID: "H-1", Description: "Vibration", Health: true, Sources: "ISO 5349"},
		},
	}

	first, err := uc.Reference.Seed(ctx, seed)
	gt.NoError(t, err).Required()
	gt.Value(t, *first).Equal(usecase.SeedResult{Departments: 2, Groups: 1, Categories: 1, Hazards: 2})

	second, err := uc.Reference.Seed(ctx, seed)
	gt.NoError(t, err).Required()
	gt.Value(t, *second).Equal(usecase.SeedResult{})

	departments, err := uc.Reference.ListDepartments(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, departments).Length(2).Required()
	gt.Value(t, departments[0].Name).Equal("Maintenance")

	hazards, err := uc.Hazard.ListHazardsByCategory(ctx, "H-1")
	gt.NoError(t, err).Required()
	gt.Array(t, hazards).Length(2).Required()
	gt.Value(t, hazards[1].ID).Equal("H-1.02")
	gt.Value(t, hazards[1].Sources).Equal("ISO 5349")
}
