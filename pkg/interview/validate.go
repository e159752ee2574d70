package interview

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/artem13815/interviewrally/pkg/apperr"
)

var labels = map[string]string{
	"title":          "Title",
	"jobDescription": "Job description",
	"mode":           "Mode",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// toValidationError сообщает о первом невалидном поле.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("", err.Error())
	}
	fe := verrs[0]
	field := fe.Field()
	label := labels[field]
	if label == "" {
		label = field
	}
	switch fe.Tag() {
	case "required":
		return apperr.Validation(field, label+" is required")
	case "min":
		return apperr.Validation(field, fmt.Sprintf("%s must be at least %s characters", label, fe.Param()))
	case "max":
		return apperr.Validation(field, fmt.Sprintf("%s must be less than %s characters", label, fe.Param()))
	case "oneof":
		return apperr.Validation(field, fmt.Sprintf("%s must be one of: %s", label, fe.Param()))
	default:
		return apperr.Validation(field, label+" is invalid")
	}
}
