package service

import (
	"context"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/repository"
	"gorm.io/gorm"
)

// AvailabilityChecker answers whether a room is already taken for a stay.
type AvailabilityChecker struct {
	reservations repository.ReservationRepository
}

func NewAvailabilityChecker(reservations repository.ReservationRepository) *AvailabilityChecker {
	return &AvailabilityChecker{reservations: reservations}
}

// HasOverlap reports whether any non-cancelled reservation on roomID other
// than excludeID overlaps [checkIn, checkOut). With a non-nil tx the
// conflicting rows are locked until tx ends.
func (a *AvailabilityChecker) HasOverlap(ctx context.Context, tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeID *uint) (bool, error) {
	return a.reservations.HasOverlap(ctx, tx, roomID, checkIn, checkOut, excludeID)
}
