package models

import "time"

type InventoryItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	Category     string    `gorm:"size:50" json:"category"`
	Quantity     int       `gorm:"not null;default:0" json:"quantity"`
	Unit         string    `gorm:"size:20" json:"unit"`
	ReorderLevel int       `gorm:"not null;default:0" json:"reorder_level"`
	UnitCost     float64   `gorm:"not null;default:0" json:"unit_cost"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MaintenanceTicket struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	RoomID      *uint      `gorm:"index" json:"room_id"`
	Title       string     `gorm:"size:150;not null" json:"title"`
	Description string     `json:"description"`
	Priority    string     `gorm:"size:20;not null;default:'Normal'" json:"priority"`
	Status      string     `gorm:"size:20;not null;default:'Open'" json:"status"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	CreatedAt   time.Time  `json:"reported_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Room *Room `gorm:"foreignKey:RoomID" json:"-"`
}

const (
	CleaningPending    = "Pending"
	CleaningInProgress = "In_Progress"
	CleaningDone       = "Done"
)

type CleaningTask struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RoomID        uint      `gorm:"not null;index" json:"room_id"`
	ReservationID *uint     `gorm:"index" json:"reservation_id"`
	AssignedTo    string    `gorm:"size:100" json:"assigned_to"`
	Status        string    `gorm:"size:20;not null;default:'Pending'" json:"status"`
	ScheduledFor  time.Time `json:"scheduled_for"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Room *Room `gorm:"foreignKey:RoomID" json:"-"`
}

// StaffShift times are wall-clock "HH:MM" strings in hotel local time.
type StaffShift struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StaffName string    `gorm:"size:150;not null" json:"staff_name"`
	Role      string    `gorm:"size:50" json:"role"`
	ShiftDate Date      `gorm:"not null;index" json:"shift_date"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
