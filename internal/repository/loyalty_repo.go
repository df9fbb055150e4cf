package repository

import (
	"context"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoyaltyRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, member *models.LoyaltyMember) error
	FindByCode(ctx context.Context, memberCode string) (*models.LoyaltyMember, error)
	List(ctx context.Context) ([]models.LoyaltyMember, error)
}

type loyaltyRepository struct {
	db *gorm.DB
}

func NewLoyaltyRepository(db *gorm.DB) LoyaltyRepository {
	return &loyaltyRepository{db: db}
}

// Upsert inserts the member or, when the code exists, overwrites its points
// and last activity. joined_at and name keep their first values.
func (r *loyaltyRepository) Upsert(ctx context.Context, tx *gorm.DB, member *models.LoyaltyMember) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"points", "last_activity_at"}),
	}).Create(member).Error
}

func (r *loyaltyRepository) FindByCode(ctx context.Context, memberCode string) (*models.LoyaltyMember, error) {
	var member models.LoyaltyMember
	if err := r.db.WithContext(ctx).
		Where("member_code = ?", memberCode).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *loyaltyRepository) List(ctx context.Context) ([]models.LoyaltyMember, error) {
	var members []models.LoyaltyMember
	if err := r.db.WithContext(ctx).
		Order("points DESC, member_code ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
