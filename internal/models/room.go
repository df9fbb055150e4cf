package models

import "time"

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "Available"
	RoomOccupied    RoomStatus = "Occupied"
	RoomMaintenance RoomStatus = "Maintenance"
	RoomDirty       RoomStatus = "Dirty"
)

// Room ids are assigned by the hotel (101, 102, ... 302), not by a sequence.
type Room struct {
	ID         uint       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	RoomNumber string     `gorm:"size:20;not null;uniqueIndex" json:"room_number"`
	Type       string     `gorm:"size:50;not null" json:"type"`
	Price      float64    `gorm:"not null" json:"price"`
	Status     RoomStatus `gorm:"type:varchar(20);not null;default:'Available'" json:"status"`
	Floor      int        `gorm:"not null" json:"floor"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
