package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReservationUpdate carries the fields an edit may change; nil means keep.
type ReservationUpdate struct {
	RoomID            *uint
	CheckIn           *time.Time
	CheckOut          *time.Time
	Status            *models.ReservationStatus
	TotalAmount       *float64
	LoyaltyMemberCode *string
	Adults            *int
	Children          *int
	Notes             *string
}

type ReservationService interface {
	Get(ctx context.Context, id uint) (*models.Reservation, error)
	List(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error)
	Update(ctx context.Context, id uint, upd ReservationUpdate) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus) (*models.Reservation, error)
	Delete(ctx context.Context, id uint) error
	CheckAvailability(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeID *uint) (bool, error)
	AddItem(ctx context.Context, reservationID uint, item *models.InvoiceItem) error
	ListItems(ctx context.Context, reservationID uint) ([]models.InvoiceItem, error)
}

type reservationService struct {
	tx           repository.Transactor
	rooms        repository.RoomRepository
	reservations repository.ReservationRepository
	payments     repository.PaymentRepository
	checker      *AvailabilityChecker
	publisher    EventPublisher
	log          *zap.Logger
	now          func() time.Time
}

func NewReservationService(d BookingDeps) ReservationService {
	return &reservationService{
		tx:           d.Tx,
		rooms:        d.Rooms,
		reservations: d.Reservations,
		payments:     d.Payments,
		checker:      d.Checker,
		publisher:    d.Publisher,
		log:          d.Log.Named("reservation"),
		now:          time.Now,
	}
}

func (s *reservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	r, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("reservation", id)
		}
		return nil, classify(s.log, "get reservation", err, zap.Uint("reservation_id", id))
	}
	return r, nil
}

func (s *reservationService) List(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error) {
	out, err := s.reservations.List(ctx, filter)
	if err != nil {
		return nil, classify(s.log, "list reservations", err)
	}
	return out, nil
}

// lockReservation takes the row locks a change to reservation id needs, in
// the order every writer follows: rooms by ascending id, then the
// reservation. toRoom is the room the reservation moves to, or 0. Booking
// creation locks its room before scanning reservations, so taking the
// reservation row first would invert that order.
func (s *reservationService) lockReservation(ctx context.Context, tx *gorm.DB, id, toRoom uint) (*models.Reservation, error) {
	seen, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("reservation", id)
		}
		return nil, err
	}

	rooms := []uint{seen.RoomID}
	if toRoom != 0 && toRoom != seen.RoomID {
		rooms = append(rooms, toRoom)
	}
	slices.Sort(rooms)
	for _, roomID := range rooms {
		if _, err := s.rooms.FindByIDForUpdate(ctx, tx, roomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, validationf("room %d does not exist", roomID)
			}
			return nil, err
		}
	}

	current, err := s.reservations.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("reservation", id)
		}
		return nil, err
	}
	if current.RoomID != seen.RoomID {
		return nil, fmt.Errorf("reservation %d moved to room %d meanwhile: %w", id, current.RoomID, ErrConflict)
	}
	return current, nil
}

// ensureFree fails with ErrConflict when another active reservation already
// holds part of r's range. The caller holds the lock on r's room.
func (s *reservationService) ensureFree(ctx context.Context, tx *gorm.DB, r *models.Reservation) error {
	id := r.ID
	overlap, err := s.checker.HasOverlap(ctx, tx, r.RoomID, r.CheckIn.Time(), r.CheckOut.Time(), &id)
	if err != nil {
		return err
	}
	if overlap {
		return fmt.Errorf("room %d from %s to %s: %w", r.RoomID, r.CheckIn, r.CheckOut, ErrConflict)
	}
	return nil
}

func (s *reservationService) Update(ctx context.Context, id uint, upd ReservationUpdate) (*models.Reservation, error) {
	ctx, span := tracer.Start(ctx, "ReservationService.Update", trace.WithAttributes(
		attribute.Int64("reservation.id", int64(id)),
	))
	defer span.End()

	if upd.Status != nil && !upd.Status.Valid() {
		return nil, validationf("unknown reservation status %q", *upd.Status)
	}
	if upd.TotalAmount != nil && *upd.TotalAmount < 0 {
		return nil, validationf("total_amount must not be negative")
	}

	var toRoom uint
	if upd.RoomID != nil {
		if *upd.RoomID == 0 {
			return nil, validationf("room_id must not be zero")
		}
		toRoom = *upd.RoomID
	}

	var previous models.ReservationStatus
	err := s.tx.InTx(ctx, nil, func(tx *gorm.DB) error {
		current, err := s.lockReservation(ctx, tx, id, toRoom)
		if err != nil {
			return err
		}
		previous = current.Status
		wasCancelled := current.Status == models.StatusCancelled

		moved := false
		if upd.RoomID != nil && *upd.RoomID != current.RoomID {
			current.RoomID = *upd.RoomID
			moved = true
		}
		if upd.CheckIn != nil && !upd.CheckIn.Equal(current.CheckIn.Time()) {
			current.CheckIn = models.NewDate(*upd.CheckIn)
			moved = true
		}
		if upd.CheckOut != nil && !upd.CheckOut.Equal(current.CheckOut.Time()) {
			current.CheckOut = models.NewDate(*upd.CheckOut)
			moved = true
		}
		if upd.Status != nil {
			current.Status = *upd.Status
		}
		if upd.TotalAmount != nil {
			current.TotalAmount = *upd.TotalAmount
		}
		if upd.LoyaltyMemberCode != nil {
			if *upd.LoyaltyMemberCode == "" {
				current.LoyaltyMemberCode = nil
			} else {
				code := *upd.LoyaltyMemberCode
				current.LoyaltyMemberCode = &code
			}
		}
		if upd.Adults != nil {
			current.Adults = *upd.Adults
		}
		if upd.Children != nil {
			current.Children = *upd.Children
		}
		if upd.Notes != nil {
			current.Notes = *upd.Notes
		}

		if !current.CheckOut.Time().After(current.CheckIn.Time()) {
			return validationf("check_out must be after check_in")
		}

		active := current.Status != models.StatusCancelled
		if active && (moved || wasCancelled) {
			if err := s.ensureFree(ctx, tx, current); err != nil {
				return err
			}
		}
		return s.reservations.Update(ctx, tx, current)
	})
	if err != nil {
		span.RecordError(err)
		return nil, classify(s.log, "update reservation", err, zap.Uint("reservation_id", id))
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated.Status != previous {
		publish(ctx, s.publisher, s.log, models.RoutingReservationStatusChanged,
			models.NewReservationEvent(updated, previous, s.now()))
	}
	return updated, nil
}

// UpdateStatus accepts any transition. Reviving a cancelled reservation
// re-checks availability since it takes the room back.
func (s *reservationService) UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus) (*models.Reservation, error) {
	if !status.Valid() {
		return nil, validationf("unknown reservation status %q", status)
	}

	var previous models.ReservationStatus
	err := s.tx.InTx(ctx, nil, func(tx *gorm.DB) error {
		current, err := s.lockReservation(ctx, tx, id, 0)
		if err != nil {
			return err
		}
		previous = current.Status

		if previous == models.StatusCancelled && status != models.StatusCancelled {
			if err := s.ensureFree(ctx, tx, current); err != nil {
				return err
			}
		}
		return s.reservations.UpdateStatus(ctx, tx, id, status)
	})
	if err != nil {
		return nil, classify(s.log, "update reservation status", err, zap.Uint("reservation_id", id))
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if previous != status {
		publish(ctx, s.publisher, s.log, models.RoutingReservationStatusChanged,
			models.NewReservationEvent(updated, previous, s.now()))
	}
	return updated, nil
}

// Delete removes the reservation together with its payments and invoice
// items. Dependents go first to satisfy the foreign keys.
func (s *reservationService) Delete(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "ReservationService.Delete", trace.WithAttributes(
		attribute.Int64("reservation.id", int64(id)),
	))
	defer span.End()

	var deleted *models.Reservation
	err := s.tx.InTx(ctx, nil, func(tx *gorm.DB) error {
		current, err := s.lockReservation(ctx, tx, id, 0)
		if err != nil {
			return err
		}
		if _, err := s.payments.DeleteByReservation(ctx, tx, id); err != nil {
			return err
		}
		if err := s.reservations.DeleteItems(ctx, tx, id); err != nil {
			return err
		}
		if err := s.reservations.Delete(ctx, tx, id); err != nil {
			return err
		}
		deleted = current
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return classify(s.log, "delete reservation", err, zap.Uint("reservation_id", id))
	}

	s.log.Info("reservation deleted", zap.Uint("reservation_id", id))
	publish(ctx, s.publisher, s.log, models.RoutingReservationDeleted,
		models.NewReservationEvent(deleted, deleted.Status, s.now()))
	return nil
}

func (s *reservationService) CheckAvailability(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeID *uint) (bool, error) {
	if !checkOut.After(checkIn) {
		return false, validationf("check_out must be after check_in")
	}
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, notFound("room", roomID)
		}
		return false, classify(s.log, "check availability", err)
	}

	overlap, err := s.checker.HasOverlap(ctx, nil, roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return false, classify(s.log, "check availability", err, zap.Uint("room_id", roomID))
	}
	return !overlap, nil
}

func (s *reservationService) AddItem(ctx context.Context, reservationID uint, item *models.InvoiceItem) error {
	if item.Description == "" {
		return validationf("description is required")
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.Quantity < 0 || item.UnitPrice < 0 {
		return validationf("quantity and unit_price must not be negative")
	}
	if _, err := s.Get(ctx, reservationID); err != nil {
		return err
	}

	item.ID = 0
	item.ReservationID = reservationID
	item.Amount = float64(item.Quantity) * item.UnitPrice
	if err := s.reservations.CreateItem(ctx, item); err != nil {
		return classify(s.log, "add invoice item", err, zap.Uint("reservation_id", reservationID))
	}
	return nil
}

func (s *reservationService) ListItems(ctx context.Context, reservationID uint) ([]models.InvoiceItem, error) {
	if _, err := s.Get(ctx, reservationID); err != nil {
		return nil, err
	}
	items, err := s.reservations.ListItems(ctx, reservationID)
	if err != nil {
		return nil, classify(s.log, "list invoice items", err, zap.Uint("reservation_id", reservationID))
	}
	return items, nil
}
