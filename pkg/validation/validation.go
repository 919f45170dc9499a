// Package validation wraps go-playground/validator with the project's error
// type and a few diagram-specific rules.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Validator returns the shared validator instance
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New()

		// Use json tag names in error messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("nodekind", func(fl validator.FieldLevel) bool {
			_, err := valueobjects.ParseNodeKind(fl.Field().String())
			return err == nil
		})

		instance = v
	})
	return instance
}

// Struct validates s by its struct tags and returns a validation AppError
// listing every failing field.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.NewValidationError(err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	appErr := pkgerrors.NewValidationError("")
	for _, fe := range fieldErrs {
		msg := formatFieldError(fe)
		messages = append(messages, msg)
		appErr.WithDetail(fe.Namespace(), msg)
	}
	appErr.Message = strings.Join(messages, "; ")
	return appErr
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("%s is out of range (%s %s)", field, e.Tag(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "nodekind":
		return fmt.Sprintf("%s is not a known node kind", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
