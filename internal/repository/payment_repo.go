package repository

import (
	"context"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	List(ctx context.Context, reservationID *uint) ([]models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uint) error
	DeleteByReservation(ctx context.Context, tx *gorm.DB, reservationID uint) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Omit(clause.Associations).Create(payment).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, reservationID *uint) ([]models.Payment, error) {
	q := r.db.WithContext(ctx)
	if reservationID != nil {
		q = q.Where("reservation_id = ?", *reservationID)
	}

	var payments []models.Payment
	if err := q.Order("id ASC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Select("reservation_id", "amount", "payment_date", "method", "status", "note", "updated_at").
		Updates(payment)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Payment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *paymentRepository) DeleteByReservation(ctx context.Context, tx *gorm.DB, reservationID uint) (int64, error) {
	res := tx.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Delete(&models.Payment{})
	return res.RowsAffected, res.Error
}
