package models

import "time"

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "Unpaid"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentPartial  PaymentStatus = "Partial"
	PaymentPending  PaymentStatus = "Pending"
	PaymentRefunded PaymentStatus = "Refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentPartial, PaymentPending, PaymentRefunded:
		return true
	}
	return false
}

// Payment with a nil PaymentDate is pending and does not count as realized revenue.
type Payment struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	ReservationID uint          `gorm:"not null;index" json:"reservation_id"`
	Amount        float64       `gorm:"not null" json:"amount"`
	PaymentDate   *time.Time    `gorm:"index" json:"payment_date"`
	Method        string        `gorm:"size:30" json:"method"`
	Status        PaymentStatus `gorm:"type:varchar(20);not null;default:'Paid'" json:"status"`
	Note          string        `json:"note"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"-"`
}
