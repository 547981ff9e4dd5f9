package usecase

import (
	"errors"

	"github.com/secmon-lab/riskregister/pkg/domain/model"
)

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrNotFound = errors.New("not found")

	// Conflict and reference errors
	ErrDuplicateID      = errors.New("id already exists")
	ErrUnknownCategory  = errors.New("category does not exist")
	ErrUnknownReference = model.ErrUnknownReference

	// Request errors
	ErrInvalidExportFormat = errors.New("invalid export format")
	ErrInvalidInput        = errors.New("invalid input")
)

// Context keys for error values
const (
	RiskIDKey     = "risk_id"
	HazardIDKey   = "hazard_id"
	CategoryIDKey = "category_id"
	FormatKey     = "format"
	NameKey       = "name"
)
