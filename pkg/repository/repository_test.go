package repository_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"github.com/secmon-lab/riskregister/pkg/repository/database"
	"github.com/secmon-lab/riskregister/pkg/repository/firestore"
	"github.com/secmon-lab/riskregister/pkg/repository/memory"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type repositoryFactory func(t *testing.T) interfaces.Repository

func newMemoryRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newSQLiteRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	ctx := context.Background()
	repo, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "riskregister.db"))
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Migrate(ctx)).Required()
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close sqlite repository: %v", err)
		}
	})
	return repo
}

func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	gt.NoError(t, err).Required()

	repo := database.New(db)
	ctx := context.Background()
	gt.NoError(t, repo.Migrate(ctx)).Required()
	gt.NoError(t, db.Exec("TRUNCATE risks, hazards, hazard_categories, departments, groups RESTART IDENTITY CASCADE").Error).Required()

	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close postgres repository: %v", err)
		}
	})
	return repo
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

// forEachBackend runs the same contract against every repository implementation
func forEachBackend(t *testing.T, run func(t *testing.T, newRepo repositoryFactory)) {
	t.Helper()

	backends := []struct {
		name    string
		newRepo repositoryFactory
	}{
		{"memory", newMemoryRepository},
		{"sqlite", newSQLiteRepository},
		{"postgres", newPostgresRepository},
		{"firestore", newFirestoreRepository},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			run(t, b.newRepo)
		})
	}
}

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 123456000, time.UTC)

func newTestRisk(t *testing.T, id types.RiskID, group, pic *model.Reference) *model.RiskRecord {
	t.Helper()

	draft := &model.RiskDraft{
		Activity:            "Forklift loading",
		Hazard:              "Moving vehicles",
		Impact:              3,
		ImpactDescription:   "Crushing injury",
		RiskDescription:     "Pedestrian struck by forklift",
		Aspects:             model.RiskAspects{Safety: true, Health: true},
		ExistingControl:     "Marked walkways",
		Probability:         4,
		Severity:            4,
		AdditionalControl:   "Proximity sensors",
		ResidualProbability: 2,
		ResidualSeverity:    3,
		TargetDate:          "2026-12-31",
		Status:              types.RiskStatusInProgress,
		LegalStandardInfo:   "OSH Act s.15",
		MAH:                 true,
	}
	if group != nil {
		draft.Group = group.Name
	}
	if pic != nil {
		draft.PIC = pic.Name
	}

	risk, err := model.NewRiskRecord(id, draft, group, pic)
	gt.NoError(t, err).Required()
	risk.CreatedAt = testTime
	risk.UpdatedAt = testTime
	return risk
}

func seedCategory(t *testing.T, repo interfaces.Repository, id types.CategoryID, name string) *model.Category {
	t.Helper()
	category := &model.Category{ID: id, Name: name}
	gt.NoError(t, repo.Category().Create(context.Background(), category)).Required()
	return category
}

func seedHazard(t *testing.T, repo interfaces.Repository, id types.HazardID, categoryID types.CategoryID, description string, flags model.ImpactFlags) *model.Hazard {
	t.Helper()
	hazard := &model.Hazard{
		ID:          id,
		CategoryID:  categoryID,
		Description: description,
		ImpactFlags: flags,
		Sources:     "ISO 45001",
	}
	gt.NoError(t, repo.Hazard().Create(context.Background(), hazard)).Required()
	return hazard
}
