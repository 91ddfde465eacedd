// Package validation checks struct tags with go-playground/validator and
// reports failures as INVALID_INPUT errors.
package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/blackwell-systems/shelfmap/internal/errors"
)

// Validator wraps go-playground/validator with error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that names fields by their yaml tag.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate validates a struct and returns an INVALID_INPUT error listing
// every failing field.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !stderrors.As(err, &validationErrs) {
		return errors.Wrap(errors.CodeInvalidInput, err, "validation failed")
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", e.Namespace(), friendlyMessage(e)))
	}
	sort.Strings(msgs)
	return errors.New(errors.CodeInvalidInput, "%s", strings.Join(msgs, "; "))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must not exceed " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}

var std = New()

// Validate validates s with a shared validator.
func Validate(s any) error {
	return std.Validate(s)
}
