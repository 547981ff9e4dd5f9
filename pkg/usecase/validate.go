package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

// ValidationIssue represents a single validation issue found during DB consistency check
type ValidationIssue struct {
	Entity   string
	ID       string
	Message  string
	Expected string
	Actual   string
}

// ValidationResult holds the results of DB validation
type ValidationResult struct {
	Risks   int
	Hazards int
	Issues  []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// ValidateDB checks stored data against the rules enforced on write:
// risk levels must match their probability and severity, and every hazard
// must carry its category's ID prefix and point at an existing category.
// It does NOT modify any data.
func (uc *UseCases) ValidateDB(ctx context.Context) (*ValidationResult, error) {
	result := &ValidationResult{}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}
	result.Risks = len(risks)
	for _, r := range risks {
		validateRiskLevels(result, r)
	}

	categories, err := uc.repo.Category().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list categories")
	}
	known := make(map[types.CategoryID]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}

	hazards, err := uc.repo.Hazard().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list hazards")
	}
	result.Hazards = len(hazards)
	for _, h := range hazards {
		if !known[h.CategoryID] {
			result.AddIssue(ValidationIssue{
				Entity:   "hazard",
				ID:       h.ID.String(),
				Message:  "hazard refers to a missing category",
				Expected: "existing category",
				Actual:   h.CategoryID.String(),
			})
		}
		if err := h.ID.Validate(h.CategoryID); err != nil {
			result.AddIssue(ValidationIssue{
				Entity:   "hazard",
				ID:       h.ID.String(),
				Message:  "hazard ID does not match its category",
				Expected: h.CategoryID.String() + ".<NN>",
				Actual:   h.ID.String(),
			})
		}
	}

	return result, nil
}

func validateRiskLevels(result *ValidationResult, r *model.RiskRecord) {
	check := func(name string, p, s int, actual types.RiskLevel) {
		expected := types.Classify(p, s)
		if expected != actual {
			result.AddIssue(ValidationIssue{
				Entity:   "risk",
				ID:       r.ID.String(),
				Message:  fmt.Sprintf("%s does not match %dx%d", name, p, s),
				Expected: expected.String(),
				Actual:   actual.String(),
			})
		}
	}

	check("initial_risk_level", r.Probability, r.Severity, r.InitialRiskLevel)
	check("residual_risk_level", r.ResidualProbability, r.ResidualSeverity, r.ResidualRiskLevel)
	check("current_risk_level", r.ResidualProbability, r.ResidualSeverity, r.CurrentRiskLevel)
}
