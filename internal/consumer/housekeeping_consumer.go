package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type HousekeepingConsumer struct {
	svc service.HousekeepingService
	log *zap.Logger
}

func NewHousekeepingConsumer(svc service.HousekeepingService, log *zap.Logger) *HousekeepingConsumer {
	return &HousekeepingConsumer{svc: svc, log: log.Named("housekeeping-consumer")}
}

// Start handles deliveries until msgs is closed. The returned channel is
// closed once the loop has exited.
func (hc *HousekeepingConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			hc.handleMessage(ctx, msg)
		}
		hc.log.Info("channel closed, stopping consumer")
	}()
	return done
}

func (hc *HousekeepingConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var ev models.ReservationEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		hc.log.Warn("failed to unmarshal", zap.String("routing_key", msg.RoutingKey), zap.Error(err))
		msg.Nack(false, false)
		return
	}

	err := hc.svc.HandleReservationEvent(ctx, msg.RoutingKey, ev)
	switch {
	case err == nil:
		msg.Ack(false)
	case errors.Is(err, service.ErrStore):
		hc.log.Error("failed to handle event, requeueing",
			zap.Uint("reservation_id", ev.ReservationID), zap.Error(err))
		msg.Nack(false, true)
	default:
		hc.log.Warn("event rejected",
			zap.Uint("reservation_id", ev.ReservationID), zap.Error(err))
		msg.Nack(false, false)
	}
}
