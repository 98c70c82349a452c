package validator

import (
	"errors"
	"fmt"

	"jusbook/pkg/config"
	"jusbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

type ServiceValidator struct {
	validate *validator.Validate
}

func NewServiceValidator() *ServiceValidator {
	v := validator.New()

	// slot_label enforces the canonical "hh:mm AM" slot form so stored
	// slots compare byte-for-byte with parsed user input.
	_ = v.RegisterValidation("slot_label", func(fl validator.FieldLevel) bool {
		return config.SlotLabelRegex.MatchString(fl.Field().String())
	})

	return &ServiceValidator{
		validate: v,
	}
}

func (v *ServiceValidator) Validate(service *model.Service) error {
	if err := v.validate.Struct(service); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ServiceValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: v.messageFor(err),
		})
	}

	return validationErrors
}

func (v *ServiceValidator) messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "slot_label":
		return "must be a slot label like '09:00 AM'"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
