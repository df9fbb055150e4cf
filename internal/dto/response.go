package dto

import (
	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/service"
)

type BookingResponse struct {
	Guest       *models.Guest       `json:"guest"`
	Reservation *models.Reservation `json:"reservation"`
	Payment     *models.Payment     `json:"payment,omitempty"`
}

type AvailabilityResponse struct {
	RoomID    uint        `json:"room_id"`
	CheckIn   models.Date `json:"check_in"`
	CheckOut  models.Date `json:"check_out"`
	Available bool        `json:"available"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(r *service.BookingResult) BookingResponse {
	return BookingResponse{
		Guest:       r.Guest,
		Reservation: r.Reservation,
		Payment:     r.Payment,
	}
}
