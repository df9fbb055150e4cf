package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationFilter struct {
	Status  *models.ReservationStatus
	RoomID  *uint
	GuestID *uint
}

type ReservationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error)
	Update(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.ReservationStatus) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	HasOverlap(ctx context.Context, tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeID *uint) (bool, error)
	SumTotalByMemberCode(ctx context.Context, tx *gorm.DB, memberCode string) (float64, error)

	CreateItem(ctx context.Context, item *models.InvoiceItem) error
	ListItems(ctx context.Context, reservationID uint) ([]models.InvoiceItem, error)
	DeleteItems(ctx context.Context, tx *gorm.DB, reservationID uint) error
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *reservationRepository) Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return r.conn(tx).WithContext(ctx).Omit(clause.Associations).Create(reservation).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Guest").
		Preload("Room").
		First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	q := r.db.WithContext(ctx).Preload("Guest").Preload("Room")
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.RoomID != nil {
		q = q.Where("room_id = ?", *filter.RoomID)
	}
	if filter.GuestID != nil {
		q = q.Where("guest_id = ?", *filter.GuestID)
	}

	var reservations []models.Reservation
	if err := q.Order("check_in DESC, id DESC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) Update(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	res := r.conn(tx).WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", reservation.ID).
		Select("room_id", "check_in", "check_out", "status", "loyalty_member_code",
			"total_amount", "adults", "children", "notes", "updated_at").
		Updates(reservation)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.ReservationStatus) error {
	res := r.conn(tx).WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	res := r.conn(tx).WithContext(ctx).Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasOverlap reports whether a non-cancelled reservation on roomID shares a
// night with [checkIn, checkOut). Two stays overlap iff inA < outB and
// outA > inB, so a check-out and a check-in on the same day do not clash.
// Inside a transaction the matching row is locked.
func (r *reservationRepository) HasOverlap(ctx context.Context, tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeID *uint) (bool, error) {
	q := r.conn(tx).WithContext(ctx).
		Model(&models.Reservation{}).
		Where("room_id = ? AND status <> ?", roomID, models.StatusCancelled).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if tx != nil {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ids []uint
	if err := q.Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *reservationRepository) SumTotalByMemberCode(ctx context.Context, tx *gorm.DB, memberCode string) (float64, error) {
	var sum float64
	err := r.conn(tx).WithContext(ctx).
		Model(&models.Reservation{}).
		Where("loyalty_member_code = ?", memberCode).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *reservationRepository) CreateItem(ctx context.Context, item *models.InvoiceItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *reservationRepository) ListItems(ctx context.Context, reservationID uint) ([]models.InvoiceItem, error) {
	var items []models.InvoiceItem
	if err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *reservationRepository) DeleteItems(ctx context.Context, tx *gorm.DB, reservationID uint) error {
	return r.conn(tx).WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Delete(&models.InvoiceItem{}).Error
}
