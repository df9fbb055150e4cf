package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs units of work. With a nil parent fn gets a fresh
// transaction; otherwise fn runs in a savepoint nested in parent, so its
// failure can be rolled back without aborting the outer transaction.
type Transactor interface {
	InTx(ctx context.Context, parent *gorm.DB, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) InTx(ctx context.Context, parent *gorm.DB, fn func(tx *gorm.DB) error) error {
	if parent == nil {
		parent = t.db
	}
	return parent.WithContext(ctx).Transaction(fn)
}
