package models

import (
	"time"

	"gorm.io/datatypes"
)

type LoyaltyMember struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	MemberCode     string    `gorm:"size:64;not null;uniqueIndex" json:"member_code"`
	Name           string    `gorm:"size:150" json:"name"`
	Points         int       `gorm:"not null;default:0" json:"points"`
	JoinedAt       time.Time `gorm:"not null" json:"joined_at"`
	LastActivityAt time.Time `gorm:"not null" json:"last_activity_at"`
}

type Campaign struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:150;not null" json:"name"`
	Channel   string         `gorm:"size:50" json:"channel"`
	StartDate Date           `json:"start_date"`
	EndDate   Date           `json:"end_date"`
	Budget    float64        `gorm:"not null;default:0" json:"budget"`
	Status    string         `gorm:"size:20;not null;default:'Draft'" json:"status"`
	Audience  datatypes.JSON `json:"audience"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
