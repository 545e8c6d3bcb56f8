package push

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"pos-terminal/models"
)

// RabbitMQSource consumes push events from a broker instead of a WebSocket.
// Restaurant-LAN deployments fan order events out on an exchange; each
// terminal binds its own exclusive queue to it.
type RabbitMQSource struct {
	url      string
	exchange string
	log      *zap.SugaredLogger
}

// NewRabbitMQSource builds a source consuming from the given fanout exchange.
func NewRabbitMQSource(url, exchange string, log *zap.SugaredLogger) *RabbitMQSource {
	return &RabbitMQSource{url: url, exchange: exchange, log: log}
}

// Run connects, binds an exclusive queue and consumes events until ctx ends.
func (s *RabbitMQSource) Run(ctx context.Context, handle func(context.Context, models.PushEvent)) error {
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil && ctx.Err() == nil {
			s.log.Warnf("amqp connection close: %v", err)
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(
		s.exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	// Server-named exclusive queue: each terminal gets its own copy of the
	// event stream and the queue vanishes with the connection.
	q, err := ch.QueueDeclare(
		"",
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	if err := ch.QueueBind(q.Name, "", s.exchange, false, nil); err != nil {
		return err
	}

	msgs, err := ch.Consume(
		q.Name,
		"pos-terminal", // consumer tag
		false,          // auto-ack
		true,           // exclusive
		false,          // no-local
		false,          // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	s.log.Infof("consuming order events from exchange %s", s.exchange)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return amqp.ErrClosed
			}
			s.process(ctx, msg, handle)
		}
	}
}

func (s *RabbitMQSource) process(ctx context.Context, msg amqp.Delivery, handle func(context.Context, models.PushEvent)) {
	var ev models.PushEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		s.log.Warnf("invalid event body: %v", err)
		if err := msg.Nack(false, false); err != nil {
			s.log.Warnf("nack: %v", err)
		}
		return
	}

	handle(ctx, ev)

	if err := msg.Ack(false); err != nil {
		s.log.Warnf("ack: %v", err)
	}
}
