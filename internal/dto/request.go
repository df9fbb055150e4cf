package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/service"
)

// CreateBookingRequest is the body of POST /api/v1/bookings. Dates are
// YYYY-MM-DD; payment_date also accepts RFC3339.
type CreateBookingRequest struct {
	GuestName   string `json:"guest_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Nationality string `json:"nationality"`
	IDNumber    string `json:"id_number"`
	Address     string `json:"address"`

	RoomID            uint     `json:"room_id"`
	CheckIn           string   `json:"check_in"`
	CheckOut          string   `json:"check_out"`
	OrderCode         string   `json:"order_code"`
	LoyaltyMemberCode string   `json:"loyalty_member_code"`
	TotalAmount       *float64 `json:"total_amount"`
	Status            string   `json:"status"`
	Adults            int      `json:"adults"`
	Children          int      `json:"children"`
	Notes             string   `json:"notes"`

	PaymentStatus string   `json:"payment_status"`
	PaymentMethod string   `json:"payment_method"`
	PaymentAmount *float64 `json:"payment_amount"`
	PaymentDate   string   `json:"payment_date"`
}

// ToInput converts the request into the orchestrator input. Only the
// format of the dates is checked here; presence and ordering are
// validated by the service.
func (r CreateBookingRequest) ToInput() (service.BookingInput, error) {
	in := service.BookingInput{
		Guest: service.GuestInfo{
			Name:        r.GuestName,
			Email:       r.Email,
			Phone:       r.Phone,
			Nationality: r.Nationality,
			IDNumber:    r.IDNumber,
			Address:     r.Address,
		},
		RoomID:            r.RoomID,
		OrderCode:         r.OrderCode,
		LoyaltyMemberCode: r.LoyaltyMemberCode,
		TotalAmount:       r.TotalAmount,
		Status:            models.ReservationStatus(r.Status),
		PaymentStatus:     models.PaymentStatus(r.PaymentStatus),
		PaymentMethod:     r.PaymentMethod,
		PaymentAmount:     r.PaymentAmount,
		Adults:            r.Adults,
		Children:          r.Children,
		Notes:             r.Notes,
	}

	var err error
	if in.CheckIn, err = optionalDate("check_in", r.CheckIn); err != nil {
		return in, err
	}
	if in.CheckOut, err = optionalDate("check_out", r.CheckOut); err != nil {
		return in, err
	}
	if in.PaymentDate, err = ParseTimestamp("payment_date", r.PaymentDate); err != nil {
		return in, err
	}
	return in, nil
}

func optionalDate(field, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: expected YYYY-MM-DD", field)
	}
	return d.Time(), nil
}

// ParseTimestamp accepts RFC3339 or a bare YYYY-MM-DD. Empty yields nil.
func ParseTimestamp(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%s: expected RFC3339 or YYYY-MM-DD", field)
	}
	return &t, nil
}

// UpdateReservationRequest is the body of PUT /api/v1/reservations/:id.
// Omitted fields keep their stored value.
type UpdateReservationRequest struct {
	RoomID            *uint    `json:"room_id"`
	CheckIn           *string  `json:"check_in"`
	CheckOut          *string  `json:"check_out"`
	Status            *string  `json:"status"`
	TotalAmount       *float64 `json:"total_amount"`
	LoyaltyMemberCode *string  `json:"loyalty_member_code"`
	Adults            *int     `json:"adults"`
	Children          *int     `json:"children"`
	Notes             *string  `json:"notes"`
}

func (r UpdateReservationRequest) ToUpdate() (service.ReservationUpdate, error) {
	upd := service.ReservationUpdate{
		RoomID:            r.RoomID,
		TotalAmount:       r.TotalAmount,
		LoyaltyMemberCode: r.LoyaltyMemberCode,
		Adults:            r.Adults,
		Children:          r.Children,
		Notes:             r.Notes,
	}
	if r.Status != nil {
		st := models.ReservationStatus(*r.Status)
		upd.Status = &st
	}
	for _, f := range []struct {
		name string
		raw  *string
		dst  **time.Time
	}{
		{"check_in", r.CheckIn, &upd.CheckIn},
		{"check_out", r.CheckOut, &upd.CheckOut},
	} {
		if f.raw == nil {
			continue
		}
		d, err := models.ParseDate(*f.raw)
		if err != nil {
			return upd, fmt.Errorf("%s: expected YYYY-MM-DD", f.name)
		}
		t := d.Time()
		*f.dst = &t
	}
	return upd, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type AmountRequest struct {
	Amount *float64 `json:"amount"`
}
