package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListQuery narrows a Store listing. Filters are column = value pairs; the
// caller is responsible for only passing known column names.
type ListQuery struct {
	Filters map[string]any
	Order   string
	Limit   int
	Offset  int
}

// Store is plain single-table CRUD for the back-office entities (rooms,
// guests, expenses, housekeeping, ...).
type Store[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	List(ctx context.Context, q ListQuery) ([]T, error)
	Update(ctx context.Context, id uint, entity *T) (*T, error)
	Delete(ctx context.Context, id uint) error
}

type gormStore[T any] struct {
	db *gorm.DB
}

func NewStore[T any](db *gorm.DB) Store[T] {
	return &gormStore[T]{db: db}
}

func (s *gormStore[T]) Create(ctx context.Context, entity *T) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error
}

func (s *gormStore[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := s.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *gormStore[T]) List(ctx context.Context, q ListQuery) ([]T, error) {
	tx := s.db.WithContext(ctx)
	for column, value := range q.Filters {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}
	order := q.Order
	if order == "" {
		order = "id ASC"
	}
	tx = tx.Order(order)
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit).Offset(q.Offset)
	}

	var out []T
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites every column of row id with entity, except the key and
// the creation timestamp, and returns the stored row.
func (s *gormStore[T]) Update(ctx context.Context, id uint, entity *T) (*T, error) {
	res := s.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(entity)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return s.FindByID(ctx, id)
}

func (s *gormStore[T]) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
