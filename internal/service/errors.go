package service

import (
	"errors"
	"fmt"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("room unavailable for requested range")
	ErrDuplicateOrder = errors.New("order code already exists")
	ErrNotFound       = errors.New("not found")
	ErrStore          = errors.New("store failure")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(entity string, id any) error {
	return fmt.Errorf("%s %v: %w", entity, id, ErrNotFound)
}

// classify maps a store error onto the service taxonomy. Errors that are
// already classified pass through; anything unrecognised is logged and
// wrapped in ErrStore.
func classify(log *zap.Logger, op string, err error, fields ...zap.Field) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict),
		errors.Is(err, ErrDuplicateOrder), errors.Is(err, ErrNotFound), errors.Is(err, ErrStore):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case repository.IsUniqueViolation(err, models.OrderCodeIndex):
		return ErrDuplicateOrder
	case repository.IsExclusionViolation(err):
		return ErrConflict
	case repository.IsUniqueViolation(err, ""):
		return fmt.Errorf("%s: duplicate value: %w", op, ErrConflict)
	case repository.IsForeignKeyViolation(err):
		return validationf("%s: referenced record does not exist or is still in use", op)
	}
	log.Error("store operation failed", append(fields, zap.String("op", op), zap.Error(err))...)
	return fmt.Errorf("%s: %w", op, ErrStore)
}
