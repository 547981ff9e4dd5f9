package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"github.com/secmon-lab/riskregister/pkg/utils/logging"
)

const (
	// maxRiskIDAttempts bounds retries when a generated ID is taken concurrently
	maxRiskIDAttempts = 3

	DefaultTopRiskLimit = 10
)

type RiskUseCase struct {
	repo             interfaces.Repository
	strictReferences bool
	clock            func() time.Time
}

func NewRiskUseCase(repo interfaces.Repository, strictReferences bool, clock func() time.Time) *RiskUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &RiskUseCase{
		repo:             repo,
		strictReferences: strictReferences,
		clock:            clock,
	}
}

func (uc *RiskUseCase) now() time.Time {
	return uc.clock().UTC().Truncate(time.Microsecond)
}

// ListRisks returns every risk ordered by ID
func (uc *RiskUseCase) ListRisks(ctx context.Context) ([]*model.RiskRecord, error) {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}
	return risks, nil
}

func (uc *RiskUseCase) GetRisk(ctx context.Context, id types.RiskID) (*model.RiskRecord, error) {
	risk, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V(RiskIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(RiskIDKey, id))
	}
	return risk, nil
}

// CreateRisk validates the draft, stores it with derived levels and returns
// the stored record. Nothing is written when validation fails.
func (uc *RiskUseCase) CreateRisk(ctx context.Context, draft *model.RiskDraft) (*model.RiskRecord, error) {
	if err := model.ValidateRiskDraft(draft); err != nil {
		return nil, err
	}

	autoID := draft.ID == ""
	var created *model.RiskRecord
	for attempt := 1; ; attempt++ {
		err := uc.repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
			group, pic, err := uc.resolveReferences(ctx, tx, draft)
			if err != nil {
				return err
			}

			id := draft.ID
			if autoID {
				if id, err = nextRiskID(ctx, tx); err != nil {
					return err
				}
			} else if err := ensureRiskIDFree(ctx, tx, id); err != nil {
				return err
			}

			record, err := model.NewRiskRecord(id, draft, group, pic)
			if err != nil {
				return err
			}
			now := uc.now()
			record.CreatedAt = now
			record.UpdatedAt = now

			if err := tx.Risk().Create(ctx, record); err != nil {
				if !autoID && errors.Is(err, interfaces.ErrDuplicate) {
					return goerr.Wrap(ErrDuplicateID, "risk ID already exists", goerr.V(RiskIDKey, id))
				}
				return goerr.Wrap(err, "failed to create risk", goerr.V(RiskIDKey, id))
			}
			created = record
			return nil
		})
		if err == nil {
			break
		}

		if autoID && errors.Is(err, interfaces.ErrDuplicate) && attempt < maxRiskIDAttempts {
			riskIDConflicts.Inc()
			logging.From(ctx).Warn("generated risk ID was taken, retrying",
				"attempt", attempt,
				"error", err)
			continue
		}
		return nil, err
	}

	recordRiskWrite("create", created.CurrentRiskLevel)
	return uc.GetRisk(ctx, created.ID)
}

// UpdateRisk replaces a risk with the draft. Levels are derived again and the
// creation time is kept.
func (uc *RiskUseCase) UpdateRisk(ctx context.Context, id types.RiskID, draft *model.RiskDraft) (*model.RiskRecord, error) {
	if err := model.ValidateRiskDraft(draft); err != nil {
		return nil, err
	}

	var updated *model.RiskRecord
	err := uc.repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
		existing, err := tx.Risk().Get(ctx, id)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(ErrNotFound, "risk not found", goerr.V(RiskIDKey, id))
			}
			return goerr.Wrap(err, "failed to get risk", goerr.V(RiskIDKey, id))
		}

		group, pic, err := uc.resolveReferences(ctx, tx, draft)
		if err != nil {
			return err
		}

		record, err := model.NewRiskRecord(id, draft, group, pic)
		if err != nil {
			return err
		}
		record.CreatedAt = existing.CreatedAt
		record.UpdatedAt = uc.now()

		if err := tx.Risk().Update(ctx, record); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(ErrNotFound, "risk not found", goerr.V(RiskIDKey, id))
			}
			return goerr.Wrap(err, "failed to update risk", goerr.V(RiskIDKey, id))
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordRiskWrite("update", updated.CurrentRiskLevel)
	return uc.GetRisk(ctx, id)
}

func (uc *RiskUseCase) DeleteRisk(ctx context.Context, id types.RiskID) error {
	if err := uc.repo.Risk().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrNotFound, "risk not found", goerr.V(RiskIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete risk", goerr.V(RiskIDKey, id))
	}
	return nil
}

// TopRisks returns the highest rated risks: current score first, then
// initial score, then ID. A limit below 1 means DefaultTopRiskLimit.
func (uc *RiskUseCase) TopRisks(ctx context.Context, limit int) ([]*model.RiskRecord, error) {
	if limit < 1 {
		limit = DefaultTopRiskLimit
	}

	risks, err := uc.ListRisks(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(risks, func(i, j int) bool {
		a, b := risks[i], risks[j]
		if a.CurrentScore() != b.CurrentScore() {
			return a.CurrentScore() > b.CurrentScore()
		}
		if a.InitialScore() != b.InitialScore() {
			return a.InitialScore() > b.InitialScore()
		}
		return a.ID < b.ID
	})

	if len(risks) > limit {
		risks = risks[:limit]
	}
	return risks, nil
}

// Summary counts every risk by current level and status
func (uc *RiskUseCase) Summary(ctx context.Context) (*model.RiskSummary, error) {
	risks, err := uc.ListRisks(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewRiskSummary(risks), nil
}

// resolveReferences looks up the group and PIC names of the draft. An
// unknown name resolves to nil, or to a validation error in strict mode.
func (uc *RiskUseCase) resolveReferences(ctx context.Context, tx interfaces.Repository, draft *model.RiskDraft) (*model.Reference, *model.Reference, error) {
	var verrs model.ValidationErrors

	group, err := uc.lookupReference(ctx, tx.Group(), "group", draft.Group)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil, err
		}
		verrs = append(verrs, &model.FieldError{Kind: model.ErrUnknownReference, Field: "group", Value: draft.Group})
	}

	pic, err := uc.lookupReference(ctx, tx.Department(), "pic", draft.PIC)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil, err
		}
		verrs = append(verrs, &model.FieldError{Kind: model.ErrUnknownReference, Field: "pic", Value: draft.PIC})
	}

	if len(verrs) > 0 {
		if uc.strictReferences {
			return nil, nil, verrs
		}
		for _, fe := range verrs {
			logging.From(ctx).Warn("unknown reference, storing risk without it",
				"field", fe.Field,
				"value", fe.Value)
		}
	}
	return group, pic, nil
}

func (uc *RiskUseCase) lookupReference(ctx context.Context, repo interfaces.ReferenceRepository, field, name string) (*model.Reference, error) {
	if name == "" {
		return nil, nil
	}
	ref, err := repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, err
		}
		return nil, goerr.Wrap(err, "failed to look up reference", goerr.V("field", field), goerr.V(NameKey, name))
	}
	return ref, nil
}

// nextRiskID starts from count + 1 and skips IDs already in use
func nextRiskID(ctx context.Context, tx interfaces.Repository) (types.RiskID, error) {
	n, err := tx.Risk().Count(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to count risks")
	}

	for seq := n + 1; ; seq++ {
		id := types.NewRiskID(seq)
		if _, err := tx.Risk().Get(ctx, id); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return id, nil
			}
			return "", goerr.Wrap(err, "failed to probe risk ID", goerr.V(RiskIDKey, id))
		}
	}
}

func ensureRiskIDFree(ctx context.Context, tx interfaces.Repository, id types.RiskID) error {
	_, err := tx.Risk().Get(ctx, id)
	if err == nil {
		return goerr.Wrap(ErrDuplicateID, "risk ID already exists", goerr.V(RiskIDKey, id))
	}
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil
	}
	return goerr.Wrap(err, "failed to check risk ID", goerr.V(RiskIDKey, id))
}
