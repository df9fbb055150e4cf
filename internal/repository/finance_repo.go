package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FinanceRepository interface {
	RealizedRevenue(ctx context.Context, from, to time.Time) (float64, error)
	PendingPayments(ctx context.Context) (float64, error)
	BookedRevenue(ctx context.Context, from, to time.Time) (float64, error)
	ExpenseTotal(ctx context.Context, from, to time.Time) (float64, error)
	MonthlyRealizedRevenue(ctx context.Context, year int) (map[int]float64, error)

	UpsertBudget(ctx context.Context, budget *models.MonthlyBudget) error
	UpsertTarget(ctx context.Context, target *models.RevenueTarget) error
	FindBudget(ctx context.Context, year, month int) (*models.MonthlyBudget, error)
	FindTarget(ctx context.Context, year, month int) (*models.RevenueTarget, error)
}

type financeRepository struct {
	db *gorm.DB
}

func NewFinanceRepository(db *gorm.DB) FinanceRepository {
	return &financeRepository{db: db}
}

func (r *financeRepository) sum(ctx context.Context, model any, column string, scopes ...func(*gorm.DB) *gorm.DB) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(model).
		Scopes(scopes...).
		Select("COALESCE(SUM(" + column + "), 0)").
		Scan(&total).Error
	return total, err
}

// RealizedRevenue sums payments that carry a payment date in [from, to).
// Undated payments are pending and never count.
func (r *financeRepository) RealizedRevenue(ctx context.Context, from, to time.Time) (float64, error) {
	return r.sum(ctx, &models.Payment{}, "amount", func(db *gorm.DB) *gorm.DB {
		return db.Where("payment_date IS NOT NULL AND payment_date >= ? AND payment_date < ?", from, to)
	})
}

func (r *financeRepository) PendingPayments(ctx context.Context) (float64, error) {
	return r.sum(ctx, &models.Payment{}, "amount", func(db *gorm.DB) *gorm.DB {
		return db.Where("payment_date IS NULL")
	})
}

func (r *financeRepository) BookedRevenue(ctx context.Context, from, to time.Time) (float64, error) {
	return r.sum(ctx, &models.Reservation{}, "total_amount", func(db *gorm.DB) *gorm.DB {
		return db.Where("status <> ? AND check_in >= ? AND check_in < ?", models.StatusCancelled, from, to)
	})
}

func (r *financeRepository) ExpenseTotal(ctx context.Context, from, to time.Time) (float64, error) {
	return r.sum(ctx, &models.Expense{}, "amount", func(db *gorm.DB) *gorm.DB {
		return db.Where("expense_date >= ? AND expense_date < ?", from, to)
	})
}

func (r *financeRepository) MonthlyRealizedRevenue(ctx context.Context, year int) (map[int]float64, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var rows []struct {
		Month int
		Total float64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("CAST(EXTRACT(MONTH FROM payment_date) AS INTEGER) AS month, COALESCE(SUM(amount), 0) AS total").
		Where("payment_date IS NOT NULL AND payment_date >= ? AND payment_date < ?", from, to).
		Group("month").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[int]float64, len(rows))
	for _, row := range rows {
		out[row.Month] = row.Total
	}
	return out, nil
}

func (r *financeRepository) UpsertBudget(ctx context.Context, budget *models.MonthlyBudget) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(budget).Error
}

func (r *financeRepository) UpsertTarget(ctx context.Context, target *models.RevenueTarget) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(target).Error
}

// FindBudget returns nil without error when no budget is set for the month.
func (r *financeRepository) FindBudget(ctx context.Context, year, month int) (*models.MonthlyBudget, error) {
	var budget models.MonthlyBudget
	err := r.db.WithContext(ctx).Where("year = ? AND month = ?", year, month).First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *financeRepository) FindTarget(ctx context.Context, year, month int) (*models.RevenueTarget, error) {
	var target models.RevenueTarget
	err := r.db.WithContext(ctx).Where("year = ? AND month = ?", year, month).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &target, nil
}
