// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/javajoker/product-inventory/internal/utils"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateResource = errors.New("duplicate resource")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
)

// DuplicateError names the fields that collided with an existing product.
// Fields is empty when the collision was reported by the store's unique
// index rather than the pre-check.
type DuplicateError struct {
	Fields []string
}

func (e *DuplicateError) Error() string {
	if len(e.Fields) == 0 {
		return ErrDuplicateResource.Error()
	}
	return fmt.Sprintf("%s: %s already in use", ErrDuplicateResource, strings.Join(e.Fields, ", "))
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateResource
}

// validationError wraps validator output so that both ErrValidation and the
// underlying validator.ValidationErrors are reachable through errors.Is/As.
func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func validate(req interface{}) error {
	if err := utils.ValidateStruct(req); err != nil {
		return validationError(err)
	}
	return nil
}

// outcome labels an operation result for the catalog metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrDuplicateResource):
		return "duplicate"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
