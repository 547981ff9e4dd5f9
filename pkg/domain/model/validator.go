package model

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their JSON names so errors match the request body
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("riskstatus", func(fl validator.FieldLevel) bool {
		return types.RiskStatus(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation("categoryid", func(fl validator.FieldLevel) bool {
		return types.CategoryID(fl.Field().String()).Validate() == nil
	})
}

// validateStruct runs struct tag validation and converts failures to ValidationErrors
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return goerr.Wrap(err, "failed to run validation")
	}

	result := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		result = append(result, &FieldError{
			Kind:  kindOfTag(fe.Tag()),
			Field: fe.Field(),
			Value: fe.Value(),
		})
	}
	return result
}

func kindOfTag(tag string) error {
	switch tag {
	case "required":
		return ErrMissingField
	case "min", "max", "gte", "lte":
		return ErrOutOfRange
	case "riskstatus":
		return ErrInvalidEnum
	default:
		return ErrInvalidFormat
	}
}
