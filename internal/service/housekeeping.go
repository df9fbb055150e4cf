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

// HousekeepingService reacts to reservation status changes: a check-out
// leaves the room dirty with a cleaning task queued, a check-in marks it
// occupied.
type HousekeepingService interface {
	HandleReservationEvent(ctx context.Context, routingKey string, ev models.ReservationEvent) error
}

type housekeepingService struct {
	tx       repository.Transactor
	rooms    repository.RoomRepository
	cleaning repository.CleaningTaskRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewHousekeepingService(tx repository.Transactor, rooms repository.RoomRepository, cleaning repository.CleaningTaskRepository, log *zap.Logger) HousekeepingService {
	return &housekeepingService{
		tx:       tx,
		rooms:    rooms,
		cleaning: cleaning,
		log:      log.Named("housekeeping"),
		now:      time.Now,
	}
}

// HandleReservationEvent is idempotent: a redelivered check-out does not
// queue a second cleaning task. Events for rooms that no longer exist are
// dropped.
func (s *housekeepingService) HandleReservationEvent(ctx context.Context, routingKey string, ev models.ReservationEvent) error {
	if routingKey != models.RoutingReservationStatusChanged {
		return nil
	}

	var err error
	switch ev.Status {
	case models.StatusCheckedOut:
		err = s.tx.InTx(ctx, nil, func(tx *gorm.DB) error {
			if err := s.rooms.UpdateStatus(ctx, tx, ev.RoomID, models.RoomDirty); err != nil {
				return err
			}
			exists, err := s.cleaning.ExistsForReservation(ctx, tx, ev.ReservationID)
			if err != nil || exists {
				return err
			}
			reservationID := ev.ReservationID
			return s.cleaning.Create(ctx, tx, &models.CleaningTask{
				RoomID:        ev.RoomID,
				ReservationID: &reservationID,
				Status:        models.CleaningPending,
				ScheduledFor:  s.now(),
			})
		})
	case models.StatusCheckedIn:
		err = s.rooms.UpdateStatus(ctx, nil, ev.RoomID, models.RoomOccupied)
	default:
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Warn("room not found, event dropped",
			zap.Uint("room_id", ev.RoomID), zap.Uint("reservation_id", ev.ReservationID))
		return nil
	}
	if err != nil {
		return classify(s.log, "housekeeping", err, zap.Uint("room_id", ev.RoomID))
	}
	s.log.Info("room status synced",
		zap.Uint("room_id", ev.RoomID), zap.String("reservation_status", string(ev.Status)))
	return nil
}
