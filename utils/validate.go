package utils

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"shoestore/apperr"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in its errors are
// the JSON names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateStruct checks v's validate tags and reports the first failing
// field as a validation error.
func ValidateStruct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("", apperr.MsgInvalidBody)
	}

	fe := verrs[0]
	return apperr.Validation(fe.Field(), messageFor(fe))
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return apperr.MsgFieldRequired
	case "email":
		return "البريد الإلكتروني غير صالح"
	case "min":
		return "القيمة أقصر من الحد الأدنى (" + fe.Param() + ")"
	case "gt", "gte":
		return "القيمة يجب أن تكون أكبر من " + fe.Param()
	case "oneof":
		return "القيمة غير مسموحة"
	default:
		return apperr.MsgInvalidBody
	}
}
