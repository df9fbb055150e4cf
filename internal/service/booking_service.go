package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("hotel-pms/service")

// EventPublisher sends domain events to the message broker. Publishing is
// best effort: a failure is logged and never undoes a committed write.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type GuestInfo struct {
	Name        string
	Email       string
	Phone       string
	Nationality string
	IDNumber    string
	Address     string
}

// BookingInput is a booking request after decoding. Optional fields and
// their defaults:
//   - Status: Confirmed
//   - LoyaltyMemberCode: empty means no loyalty accrual
//   - PaymentStatus: Unpaid, in which case no payment row is written
//   - PaymentAmount: TotalAmount
//   - PaymentDate: time of booking
//   - Adults: 1
type BookingInput struct {
	Guest             GuestInfo
	RoomID            uint
	CheckIn           time.Time
	CheckOut          time.Time
	OrderCode         string
	LoyaltyMemberCode string
	TotalAmount       *float64
	Status            models.ReservationStatus
	PaymentStatus     models.PaymentStatus
	PaymentMethod     string
	PaymentAmount     *float64
	PaymentDate       *time.Time
	Adults            int
	Children          int
	Notes             string
}

func (in *BookingInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Guest.Name) == "" {
		missing = append(missing, "guest_name")
	}
	if in.RoomID == 0 {
		missing = append(missing, "room_id")
	}
	if strings.TrimSpace(in.OrderCode) == "" {
		missing = append(missing, "order_code")
	}
	if in.CheckIn.IsZero() {
		missing = append(missing, "check_in")
	}
	if in.CheckOut.IsZero() {
		missing = append(missing, "check_out")
	}
	if in.TotalAmount == nil {
		missing = append(missing, "total_amount")
	}
	if len(missing) > 0 {
		return validationf("missing required fields: %s", strings.Join(missing, ", "))
	}

	if !in.CheckOut.After(in.CheckIn) {
		return validationf("check_out must be after check_in")
	}
	if *in.TotalAmount < 0 {
		return validationf("total_amount must not be negative")
	}
	if in.PaymentAmount != nil && *in.PaymentAmount < 0 {
		return validationf("payment_amount must not be negative")
	}
	if in.Status != "" && !in.Status.Valid() {
		return validationf("unknown reservation status %q", in.Status)
	}
	if in.PaymentStatus != "" && !in.PaymentStatus.Valid() {
		return validationf("unknown payment status %q", in.PaymentStatus)
	}
	if in.Adults < 0 || in.Children < 0 {
		return validationf("adults and children must not be negative")
	}
	return nil
}

func (in *BookingInput) applyDefaults(now time.Time) {
	in.OrderCode = strings.TrimSpace(in.OrderCode)
	in.LoyaltyMemberCode = strings.TrimSpace(in.LoyaltyMemberCode)
	if in.Status == "" {
		in.Status = models.StatusConfirmed
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = models.PaymentUnpaid
	}
	if in.PaymentAmount == nil {
		amount := *in.TotalAmount
		in.PaymentAmount = &amount
	}
	if in.PaymentDate == nil {
		paidAt := now
		in.PaymentDate = &paidAt
	}
	if in.Adults == 0 {
		in.Adults = 1
	}
}

type BookingResult struct {
	Guest       *models.Guest
	Reservation *models.Reservation
	Payment     *models.Payment
}

type BookingService interface {
	CreateBooking(ctx context.Context, in BookingInput) (*BookingResult, error)
}

type bookingService struct {
	tx           repository.Transactor
	rooms        repository.RoomRepository
	guests       repository.GuestRepository
	reservations repository.ReservationRepository
	payments     repository.PaymentRepository
	members      repository.LoyaltyRepository
	checker      *AvailabilityChecker
	loyalty      *LoyaltyCalculator
	publisher    EventPublisher
	log          *zap.Logger
	now          func() time.Time
}

type BookingDeps struct {
	Tx           repository.Transactor
	Rooms        repository.RoomRepository
	Guests       repository.GuestRepository
	Reservations repository.ReservationRepository
	Payments     repository.PaymentRepository
	Members      repository.LoyaltyRepository
	Checker      *AvailabilityChecker
	Loyalty      *LoyaltyCalculator
	Publisher    EventPublisher
	Log          *zap.Logger
}

func NewBookingService(d BookingDeps) BookingService {
	return &bookingService{
		tx:           d.Tx,
		rooms:        d.Rooms,
		guests:       d.Guests,
		reservations: d.Reservations,
		payments:     d.Payments,
		members:      d.Members,
		checker:      d.Checker,
		loyalty:      d.Loyalty,
		publisher:    d.Publisher,
		log:          d.Log.Named("booking"),
		now:          time.Now,
	}
}

// CreateBooking registers a new guest and their stay as one unit of work.
// The room row is locked before the availability check so concurrent
// bookings of the same room are serialised; nothing is written when the
// range is taken or the order code is already used.
func (s *bookingService) CreateBooking(ctx context.Context, in BookingInput) (*BookingResult, error) {
	ctx, span := tracer.Start(ctx, "BookingService.CreateBooking", trace.WithAttributes(
		attribute.Int64("room.id", int64(in.RoomID)),
		attribute.String("order.code", in.OrderCode),
	))
	defer span.End()

	if err := in.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	now := s.now()
	in.applyDefaults(now)

	var result BookingResult
	err := s.tx.InTx(ctx, nil, func(tx *gorm.DB) error {
		// 1. Lock the room; serialises bookings of the same room
		if _, err := s.rooms.FindByIDForUpdate(ctx, tx, in.RoomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationf("room %d does not exist", in.RoomID)
			}
			return err
		}

		// 2. Availability
		overlap, err := s.checker.HasOverlap(ctx, tx, in.RoomID, in.CheckIn, in.CheckOut, nil)
		if err != nil {
			return err
		}
		if overlap {
			return fmt.Errorf("room %d from %s to %s: %w",
				in.RoomID, in.CheckIn.Format(models.DateLayout), in.CheckOut.Format(models.DateLayout), ErrConflict)
		}

		// 3. Guest, always a new row
		guest := &models.Guest{
			Name:        strings.TrimSpace(in.Guest.Name),
			Email:       in.Guest.Email,
			Phone:       in.Guest.Phone,
			Nationality: in.Guest.Nationality,
			IDNumber:    in.Guest.IDNumber,
			Address:     in.Guest.Address,
		}
		if err := s.guests.Create(ctx, tx, guest); err != nil {
			return err
		}

		// 4. Loyalty, before the reservation exists so it is counted once
		var memberCode *string
		if in.LoyaltyMemberCode != "" {
			code := in.LoyaltyMemberCode
			memberCode = &code
			s.accrueLoyalty(ctx, tx, code, guest.Name, *in.TotalAmount, now)
		}

		// 5. Reservation
		reservation := &models.Reservation{
			GuestID:           guest.ID,
			RoomID:            in.RoomID,
			OrderCode:         in.OrderCode,
			CheckIn:           models.NewDate(in.CheckIn),
			CheckOut:          models.NewDate(in.CheckOut),
			Status:            in.Status,
			LoyaltyMemberCode: memberCode,
			TotalAmount:       *in.TotalAmount,
			Adults:            in.Adults,
			Children:          in.Children,
			Notes:             in.Notes,
		}
		if err := s.reservations.Create(ctx, tx, reservation); err != nil {
			return err
		}

		// 6. Payment, unless the booking is unpaid
		var payment *models.Payment
		if in.PaymentStatus != models.PaymentUnpaid {
			payment = &models.Payment{
				ReservationID: reservation.ID,
				Amount:        *in.PaymentAmount,
				PaymentDate:   in.PaymentDate,
				Method:        in.PaymentMethod,
				Status:        in.PaymentStatus,
			}
			if err := s.payments.Create(ctx, tx, payment); err != nil {
				return err
			}
		}

		result = BookingResult{Guest: guest, Reservation: reservation, Payment: payment}
		return nil
	})
	if err != nil {
		err = classify(s.log, "create booking", err,
			zap.Uint("room_id", in.RoomID), zap.String("order_code", in.OrderCode))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.log.Info("booking created",
		zap.Uint("reservation_id", result.Reservation.ID),
		zap.Uint("room_id", in.RoomID),
		zap.String("order_code", in.OrderCode))
	span.SetAttributes(attribute.Int64("reservation.id", int64(result.Reservation.ID)))

	publish(ctx, s.publisher, s.log, models.RoutingReservationCreated,
		models.NewReservationEvent(result.Reservation, "", now))
	if result.Payment != nil {
		publish(ctx, s.publisher, s.log, models.RoutingPaymentRecorded, paymentEvent(result.Payment, now))
	}
	return &result, nil
}

// accrueLoyalty runs in a savepoint so a failure rolls back only the
// loyalty writes. Errors are logged and swallowed; the booking goes on.
func (s *bookingService) accrueLoyalty(ctx context.Context, tx *gorm.DB, memberCode, guestName string, amount float64, now time.Time) {
	err := s.tx.InTx(ctx, tx, func(sp *gorm.DB) error {
		points, err := s.loyalty.RecomputeBalance(ctx, sp, memberCode, amount)
		if err != nil {
			return fmt.Errorf("recompute balance: %w", err)
		}
		return s.members.Upsert(ctx, sp, &models.LoyaltyMember{
			MemberCode:     memberCode,
			Name:           guestName,
			Points:         points,
			JoinedAt:       now,
			LastActivityAt: now,
		})
	})
	if err != nil {
		s.log.Warn("loyalty accrual failed, booking continues",
			zap.String("member_code", memberCode), zap.Error(err))
	}
}

func paymentEvent(p *models.Payment, at time.Time) models.PaymentEvent {
	return models.PaymentEvent{
		PaymentID:     p.ID,
		ReservationID: p.ReservationID,
		Amount:        p.Amount,
		Status:        p.Status,
		PaymentDate:   p.PaymentDate,
		OccurredAt:    at,
	}
}

func publish(ctx context.Context, pub EventPublisher, log *zap.Logger, routingKey string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, routingKey, payload); err != nil {
		log.Warn("publish failed", zap.String("routing_key", routingKey), zap.Error(err))
	}
}
