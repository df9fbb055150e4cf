package database

import (
	"fmt"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Models lists every table owned by the service, parents first.
var Models = []any{
	&models.Room{},
	&models.Guest{},
	&models.LoyaltyMember{},
	&models.Reservation{},
	&models.InvoiceItem{},
	&models.Payment{},
	&models.Expense{},
	&models.MonthlyBudget{},
	&models.RevenueTarget{},
	&models.InventoryItem{},
	&models.MaintenanceTicket{},
	&models.CleaningTask{},
	&models.StaffShift{},
	&models.Campaign{},
}

func NewPostgresDB(dsn string, pool PoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the tables and the no-overlap exclusion constraint.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// Backstop for the row-locked availability check: no two active stays
	// on one room may share a night.
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap') THEN
				ALTER TABLE reservations
				ADD CONSTRAINT reservations_no_overlap
				EXCLUDE USING gist (room_id WITH =, daterange(check_in, check_out, '[)') WITH &&)
				WHERE (status <> 'Cancelled');
			END IF;
		END $$`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("schema guard: %w", err)
		}
	}
	return nil
}
