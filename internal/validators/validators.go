package validators

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sbilibin2017/auction-live/internal/auctionerrors"
)

var validate = validator.New()

// Required fails with a requirement error when the field was not supplied.
func Required[T any](field string, value *T) error {
	if value == nil {
		return auctionerrors.Required(field)
	}
	return nil
}

// NotBlank fails when the value is empty after trimming.
func NotBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return auctionerrors.Empty(field)
	}
	return nil
}

// Email fails when the value is not a well-formed e-mail address.
func Email(value string) error {
	if err := validate.Var(value, "required,email"); err != nil {
		return auctionerrors.NotEmail(value)
	}
	return nil
}

// Finite fails when the value is NaN or infinite.
func Finite(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return auctionerrors.Invalid(field, strconv.FormatFloat(value, 'g', -1, 64))
	}
	return nil
}

// NotNegative fails when the value is not a finite number of zero or more.
func NotNegative(field string, value float64) error {
	if err := Finite(field, value); err != nil {
		return err
	}
	if value < 0 {
		return auctionerrors.Negative(field)
	}
	return nil
}

// NotBefore fails when value precedes reference.
func NotBefore(field string, value time.Time, referenceField string, reference time.Time) error {
	if value.Before(reference) {
		return auctionerrors.DateOrder(field, referenceField)
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
