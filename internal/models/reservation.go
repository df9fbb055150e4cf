package models

import "time"

type ReservationStatus string

const (
	StatusConfirmed  ReservationStatus = "Confirmed"
	StatusCheckedIn  ReservationStatus = "Checked_In"
	StatusCheckedOut ReservationStatus = "Checked_Out"
	StatusCancelled  ReservationStatus = "Cancelled"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

// OrderCodeIndex is the unique index on reservations.order_code. It is
// named so unique violations on it can be told apart from other ones.
const OrderCodeIndex = "idx_reservations_order_code"

// Reservation stays are half-open: the room is free again on CheckOut.
type Reservation struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	GuestID           uint              `gorm:"not null;index" json:"guest_id"`
	RoomID            uint              `gorm:"not null;index" json:"room_id"`
	OrderCode         string            `gorm:"size:64;not null;uniqueIndex:idx_reservations_order_code" json:"order_code"`
	CheckIn           Date              `gorm:"not null;index" json:"check_in"`
	CheckOut          Date              `gorm:"not null" json:"check_out"`
	Status            ReservationStatus `gorm:"type:varchar(20);not null;default:'Confirmed';index" json:"status"`
	LoyaltyMemberCode *string           `gorm:"size:64;index" json:"loyalty_member_code,omitempty"`
	TotalAmount       float64           `gorm:"not null;default:0" json:"total_amount"`
	Adults            int               `gorm:"not null;default:1" json:"adults"`
	Children          int               `gorm:"not null;default:0" json:"children"`
	Notes             string            `json:"notes"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	Guest *Guest `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Room  *Room  `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// InvoiceItem is an extra charge billed against a reservation.
type InvoiceItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReservationID uint      `gorm:"not null;index" json:"reservation_id"`
	Description   string    `gorm:"not null" json:"description"`
	Quantity      int       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice     float64   `gorm:"not null" json:"unit_price"`
	Amount        float64   `gorm:"not null" json:"amount"`
	CreatedAt     time.Time `json:"created_at"`

	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"-"`
}
