package usecase

import (
	"time"

	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
)

type UseCases struct {
	repo             interfaces.Repository
	strictReferences bool
	clock            func() time.Time

	Category  *CategoryUseCase
	Hazard    *HazardUseCase
	Risk      *RiskUseCase
	Reference *ReferenceUseCase
}

type Option func(*UseCases)

// WithStrictReferences rejects risks whose group or PIC name is unknown
// instead of storing them with an empty reference
func WithStrictReferences(strict bool) Option {
	return func(uc *UseCases) {
		uc.strictReferences = strict
	}
}

// WithClock replaces the time source used for record timestamps
func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:  repo,
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Category = NewCategoryUseCase(repo)
	uc.Hazard = NewHazardUseCase(repo)
	uc.Risk = NewRiskUseCase(repo, uc.strictReferences, uc.clock)
	uc.Reference = NewReferenceUseCase(repo)

	return uc
}

// Repository returns the underlying repository
func (uc *UseCases) Repository() interfaces.Repository {
	return uc.repo
}
