package middleware

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/cashsplit/backend/internal/domain/entity"
	"github.com/cashsplit/backend/internal/domain/valueobject"
)

var setupOnce sync.Once

// SetupValidator registers the custom binding tags and reports field
// names by their JSON tag. It is safe to call more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("upi", func(fl validator.FieldLevel) bool {
			return valueobject.IsValidUPIID(fl.Field().String())
		})
		_ = v.RegisterValidation("splittype", func(fl validator.FieldLevel) bool {
			return entity.SplitType(fl.Field().String()).IsValid()
		})
	})
}

// DescribeBindingError turns a binding failure into a short, client-safe
// description such as "amount: required; upiId: invalid UPI id".
func DescribeBindingError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "malformed JSON body"
	}

	parts := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		parts = append(parts, e.Field()+": "+validationMessage(e))
	}
	return strings.Join(parts, "; ")
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "invalid email format"
	case "upi":
		return "invalid UPI id"
	case "splittype":
		return "must be equal or percentage"
	case "min":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must have at least " + e.Param() + " entries"
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must have at most " + e.Param() + " entries"
	default:
		return "invalid value"
	}
}
