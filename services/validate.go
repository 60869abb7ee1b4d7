package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateProject checks the structural invariants of a project snapshot:
// non-negative quantities, prices and project margin, and a supported
// currency. The returned error wraps ErrInvalidProject.
func ValidateProject(p Project) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}
	return nil
}

// ValidationMessages converts a ValidateProject error into a map of
// namespaced field → human-readable message.
func ValidationMessages(err error) map[string]string {
	msgs := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return msgs
	}
	for _, e := range ve {
		msgs[fieldPath(e.Namespace())] = formatFieldError(e)
	}
	return msgs
}

// fieldPath drops the root struct name, e.g. "Project.rooms[0].id" →
// "rooms[0].id".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}
