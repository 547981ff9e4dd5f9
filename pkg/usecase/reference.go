package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	domainConfig "github.com/secmon-lab/riskregister/pkg/domain/model/config"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"github.com/secmon-lab/riskregister/pkg/utils/logging"
)

type ReferenceUseCase struct {
	repo interfaces.Repository
}

func NewReferenceUseCase(repo interfaces.Repository) *ReferenceUseCase {
	return &ReferenceUseCase{repo: repo}
}

// ListDepartments returns departments ordered by name
func (uc *ReferenceUseCase) ListDepartments(ctx context.Context) ([]*model.Reference, error) {
	refs, err := uc.repo.Department().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list departments")
	}
	return refs, nil
}

// ListGroups returns groups ordered by name
func (uc *ReferenceUseCase) ListGroups(ctx context.Context) ([]*model.Reference, error) {
	refs, err := uc.repo.Group().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list groups")
	}
	return refs, nil
}

// SeedResult counts records created by Seed. Existing records are skipped.
type SeedResult struct {
	Departments int
	Groups      int
	Categories  int
	Hazards     int
}

// Seed creates the seed records that do not exist yet. Running it twice
// creates nothing the second time.
func (uc *ReferenceUseCase) Seed(ctx context.Context, seed *domainConfig.Seed) (*SeedResult, error) {
	result := &SeedResult{}

	for _, name := range seed.Departments {
		created, err := seedReference(ctx, uc.repo.Department(), name)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to seed department", goerr.V(NameKey, name))
		}
		if created {
			result.Departments++
		}
	}

	for _, name := range seed.Groups {
		created, err := seedReference(ctx, uc.repo.Group(), name)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to seed group", goerr.V(NameKey, name))
		}
		if created {
			result.Groups++
		}
	}

	categories := NewCategoryUseCase(uc.repo)
	for _, c := range seed.Categories {
		_, err := categories.CreateCategory(ctx, &model.Category{ID: types.CategoryID(c.ID), Name: c.Name})
		switch {
		case err == nil:
			result.Categories++
		case errors.Is(err, ErrDuplicateID):
			logging.From(ctx).Debug("category already exists", "category_id", c.ID)
		default:
			return nil, goerr.Wrap(err, "failed to seed category", goerr.V(CategoryIDKey, c.ID))
		}
	}

	hazards := NewHazardUseCase(uc.repo)
	for _, h := range seed.Hazards {
		if h.ID == "" {
			exists, err := uc.hazardDescribed(ctx, types.CategoryID(h.CategoryID), h.Description)
			if err != nil {
				return nil, err
			}
			if exists {
				logging.From(ctx).Debug("hazard already exists", "category_id", h.CategoryID, "description", h.Description)
				continue
			}
		}

		_, err := hazards.CreateHazard(ctx, &model.Hazard{
			ID:          types.HazardID(h.ID),
			CategoryID:  types.CategoryID(h.CategoryID),
			Description: h.Description,
			ImpactFlags: model.ImpactFlags{
				Health:      h.Health,
				Safety:      h.Safety,
				Security:    h.Security,
				Environment: h.Environment,
				Social:      h.Social,
			},
			Sources: h.Sources,
		})
		switch {
		case err == nil:
			result.Hazards++
		case errors.Is(err, ErrDuplicateID):
			logging.From(ctx).Debug("hazard already exists", "hazard_id", h.ID)
		default:
			return nil, goerr.Wrap(err, "failed to seed hazard", goerr.V(HazardIDKey, h.ID))
		}
	}

	return result, nil
}

func seedReference(ctx context.Context, repo interfaces.ReferenceRepository, name string) (bool, error) {
	if _, err := repo.FindByName(ctx, name); err == nil {
		return false, nil
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return false, err
	}

	if _, err := repo.Create(ctx, name); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// hazardDescribed reports whether the category already has a hazard with this description
func (uc *ReferenceUseCase) hazardDescribed(ctx context.Context, categoryID types.CategoryID, description string) (bool, error) {
	existing, err := uc.repo.Hazard().ListByCategory(ctx, categoryID)
	if err != nil {
		return false, goerr.Wrap(err, "failed to list hazards of category", goerr.V(CategoryIDKey, categoryID))
	}
	for _, h := range existing {
		if strings.EqualFold(h.Description, strings.TrimSpace(description)) {
			return true, nil
		}
	}
	return false, nil
}
