package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *zap.Logger

	// amqp channels are not safe for concurrent publishing
	mu sync.Mutex
}

func NewPublisher(url string, log *zap.Logger) (*Publisher, error) {
	conn, ch, err := dial(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, log: log.Named("rabbitmq")}, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	msg, err := NewMessage(payload, time.Now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx, ExchangeName, routingKey, false, false, msg)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.log.Debug("published", zap.String("routing_key", routingKey), zap.String("message_id", msg.MessageId))
	return nil
}

// NewMessage wraps payload as a persistent JSON message with a fresh id.
func NewMessage(payload any, at time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal payload: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    at,
		Body:         body,
	}, nil
}

func (p *Publisher) Close() {
	closeAll(p.conn, p.channel)
}
