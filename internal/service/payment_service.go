package service

import (
	"context"
	"errors"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService interface {
	Create(ctx context.Context, payment *models.Payment) error
	Get(ctx context.Context, id uint) (*models.Payment, error)
	List(ctx context.Context, reservationID *uint) ([]models.Payment, error)
	Update(ctx context.Context, id uint, payment *models.Payment) (*models.Payment, error)
	Delete(ctx context.Context, id uint) error
}

type paymentService struct {
	payments     repository.PaymentRepository
	reservations repository.ReservationRepository
	publisher    EventPublisher
	log          *zap.Logger
	now          func() time.Time
}

func NewPaymentService(payments repository.PaymentRepository, reservations repository.ReservationRepository, publisher EventPublisher, log *zap.Logger) PaymentService {
	return &paymentService{
		payments:     payments,
		reservations: reservations,
		publisher:    publisher,
		log:          log.Named("payment"),
		now:          time.Now,
	}
}

func (s *paymentService) validate(ctx context.Context, p *models.Payment) error {
	if p.ReservationID == 0 {
		return validationf("reservation_id is required")
	}
	if p.Amount < 0 {
		return validationf("amount must not be negative")
	}
	if p.Status == "" {
		p.Status = models.PaymentPaid
	}
	if !p.Status.Valid() {
		return validationf("unknown payment status %q", p.Status)
	}
	if _, err := s.reservations.FindByID(ctx, p.ReservationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationf("reservation %d does not exist", p.ReservationID)
		}
		return classify(s.log, "find reservation", err)
	}
	return nil
}

func (s *paymentService) Create(ctx context.Context, payment *models.Payment) error {
	if err := s.validate(ctx, payment); err != nil {
		return err
	}
	payment.ID = 0
	if err := s.payments.Create(ctx, nil, payment); err != nil {
		return classify(s.log, "create payment", err, zap.Uint("reservation_id", payment.ReservationID))
	}

	publish(ctx, s.publisher, s.log, models.RoutingPaymentRecorded, paymentEvent(payment, s.now()))
	return nil
}

func (s *paymentService) Get(ctx context.Context, id uint) (*models.Payment, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("payment", id)
		}
		return nil, classify(s.log, "get payment", err, zap.Uint("payment_id", id))
	}
	return p, nil
}

func (s *paymentService) List(ctx context.Context, reservationID *uint) ([]models.Payment, error) {
	out, err := s.payments.List(ctx, reservationID)
	if err != nil {
		return nil, classify(s.log, "list payments", err)
	}
	return out, nil
}

func (s *paymentService) Update(ctx context.Context, id uint, payment *models.Payment) (*models.Payment, error) {
	if err := s.validate(ctx, payment); err != nil {
		return nil, err
	}
	payment.ID = id
	if err := s.payments.Update(ctx, payment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("payment", id)
		}
		return nil, classify(s.log, "update payment", err, zap.Uint("payment_id", id))
	}
	return s.Get(ctx, id)
}

func (s *paymentService) Delete(ctx context.Context, id uint) error {
	if err := s.payments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("payment", id)
		}
		return classify(s.log, "delete payment", err, zap.Uint("payment_id", id))
	}
	return nil
}
