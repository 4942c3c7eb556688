package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	Exchange          = "datasets.exchange"
	RoutingJobCreated = "datasets.created"
	RoutingReady      = "datasets.ready"
	QueueJobCreated   = "datasets.created.q"

	// AppID tags every message this service publishes.
	AppID = "aiml-mocks"
)

// publishChannel is the subset of *amqp.Channel used for publishing.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher sends JSON events for one routing key on a topic exchange.
type RabbitPublisher struct {
	channel    publishChannel
	exchange   string
	routingKey string
	now        func() time.Time
}

func NewRabbitPublisher(conn *amqp.Connection, exchange, routingKey string) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return newPublisher(ch, exchange, routingKey), nil
}

func newPublisher(ch publishChannel, exchange, routingKey string) *RabbitPublisher {
	return &RabbitPublisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		now:        time.Now,
	}
}

// Publish sends body as a persistent message. Each attempt gets a fresh
// message id, so consumers must dedupe on the job id inside the body.
func (p *RabbitPublisher) Publish(ctx context.Context, body json.RawMessage) error {
	msg := p.publishing(body)
	if err := p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", msg.MessageId, p.routingKey, err)
	}
	return nil
}

func (p *RabbitPublisher) publishing(body json.RawMessage) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Timestamp:    p.now().UTC(),
		Type:         p.routingKey,
		AppId:        AppID,
		Body:         body,
	}
}

func (p *RabbitPublisher) Close() error {
	return p.channel.Close()
}
