package models

import "time"

// Routing keys published on the hotel exchange.
const (
	RoutingReservationCreated       = "reservation.created"
	RoutingReservationStatusChanged = "reservation.status_changed"
	RoutingReservationDeleted       = "reservation.deleted"
	RoutingPaymentRecorded          = "payment.recorded"
)

type ReservationEvent struct {
	ReservationID  uint              `json:"reservation_id"`
	RoomID         uint              `json:"room_id"`
	OrderCode      string            `json:"order_code"`
	Status         ReservationStatus `json:"status"`
	PreviousStatus ReservationStatus `json:"previous_status,omitempty"`
	CheckIn        Date              `json:"check_in"`
	CheckOut       Date              `json:"check_out"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

type PaymentEvent struct {
	PaymentID     uint          `json:"payment_id"`
	ReservationID uint          `json:"reservation_id"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

func NewReservationEvent(r *Reservation, previous ReservationStatus, at time.Time) ReservationEvent {
	return ReservationEvent{
		ReservationID:  r.ID,
		RoomID:         r.RoomID,
		OrderCode:      r.OrderCode,
		Status:         r.Status,
		PreviousStatus: previous,
		CheckIn:        r.CheckIn,
		CheckOut:       r.CheckOut,
		OccurredAt:     at,
	}
}
