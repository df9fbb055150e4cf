package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	HousekeepingQueue   = "hotel-pms.housekeeping"
	HousekeepingBinding = "reservation.*"
)

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *zap.Logger
}

// NewConsumer declares a durable queue bound to the hotel exchange with
// the given routing pattern.
func NewConsumer(url, queue, binding string, log *zap.Logger) (*Consumer, error) {
	conn, ch, err := dial(url)
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		closeAll(conn, ch)
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	if err := ch.QueueBind(q.Name, binding, ExchangeName, false, nil); err != nil {
		closeAll(conn, ch)
		return nil, fmt.Errorf("rabbitmq queue bind: %w", err)
	}

	return &Consumer{conn: conn, channel: ch, queue: q.Name, log: log.Named("rabbitmq")}, nil
}

func (c *Consumer) Consume() (<-chan amqp.Delivery, error) {
	if err := c.channel.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("rabbitmq qos: %w", err)
	}
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // manual ack after processing
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume: %w", err)
	}

	c.log.Info("consuming", zap.String("queue", c.queue))
	return msgs, nil
}

func (c *Consumer) Close() {
	closeAll(c.conn, c.channel)
}
