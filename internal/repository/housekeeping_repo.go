package repository

import (
	"context"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CleaningTaskRepository interface {
	Create(ctx context.Context, tx *gorm.DB, task *models.CleaningTask) error
	ExistsForReservation(ctx context.Context, tx *gorm.DB, reservationID uint) (bool, error)
}

type cleaningTaskRepository struct {
	db *gorm.DB
}

func NewCleaningTaskRepository(db *gorm.DB) CleaningTaskRepository {
	return &cleaningTaskRepository{db: db}
}

func (r *cleaningTaskRepository) Create(ctx context.Context, tx *gorm.DB, task *models.CleaningTask) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

func (r *cleaningTaskRepository) ExistsForReservation(ctx context.Context, tx *gorm.DB, reservationID uint) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.CleaningTask{}).
		Where("reservation_id = ?", reservationID).
		Count(&count).Error
	return count > 0, err
}
