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

type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() *BookingValidator {
	v := validator.New()

	_ = v.RegisterValidation("slot_label", func(fl validator.FieldLevel) bool {
		return config.SlotLabelRegex.MatchString(fl.Field().String())
	})

	return &BookingValidator{
		validate: v,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: v.messageFor(err),
		})
	}

	return validationErrors
}

func (v *BookingValidator) messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date like '2026-03-02'"
	case "slot_label":
		return "must be a slot label like '09:00 AM'"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
