package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/usecase"
)

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		usecase.ErrNotFound,
		usecase.ErrDuplicateID,
		usecase.ErrUnknownCategory,
		usecase.ErrUnknownReference,
		usecase.ErrInvalidExportFormat,
		usecase.ErrInvalidInput,
	}

	for i, a := range sentinels {
		gt.Value(t, a).NotNil()
		for j, b := range sentinels {
			if i != j {
				gt.Bool(t, errors.Is(a, b)).False()
			}
		}
	}
}

func TestErrors_UnknownReferenceMatchesFieldError(t *testing.T) {
	err := model.NewFieldError(model.ErrUnknownReference, "group", "Nowhere")
	gt.Error(t, err).Is(usecase.ErrUnknownReference)
}
