package models

import "time"

type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Category    string    `gorm:"size:50;not null;index" json:"category"`
	Description string    `json:"description"`
	Amount      float64   `gorm:"not null" json:"amount"`
	ExpenseDate Date      `gorm:"not null;index" json:"expense_date"`
	Vendor      string    `gorm:"size:150" json:"vendor"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MonthlyBudget caps spending for one calendar month.
type MonthlyBudget struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Year      int       `gorm:"not null;uniqueIndex:idx_budget_period" json:"year"`
	Month     int       `gorm:"not null;uniqueIndex:idx_budget_period" json:"month"`
	Amount    float64   `gorm:"not null" json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RevenueTarget is the realized revenue the hotel aims for in one month.
type RevenueTarget struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Year      int       `gorm:"not null;uniqueIndex:idx_target_period" json:"year"`
	Month     int       `gorm:"not null;uniqueIndex:idx_target_period" json:"month"`
	Amount    float64   `gorm:"not null" json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`
}
