package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
	"github.com/saral1230/AIML-applied-mocks/internal/domain/usecase"
	"github.com/saral1230/AIML-applied-mocks/pkg/logger"
)

type JobProcessor interface {
	ProcessJob(ctx context.Context, msg entity.JobCreatedMessage) error
}

// acknowledger is the part of amqp.Delivery the consumer needs.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type DatasetConsumer struct {
	channel     *amqp.Channel
	queue       string
	Processor   JobProcessor
	Log         *logger.Logger
	prefetchCnt int
	wg          sync.WaitGroup
}

func NewDatasetConsumer(conn *amqp.Connection, exchange, routingKey, queue string, prefetch int, p JobProcessor, log *logger.Logger) (*DatasetConsumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if prefetch <= 0 {
		prefetch = 1
	}

	consumer := &DatasetConsumer{
		channel:     ch,
		queue:       queue,
		Processor:   p,
		Log:         log,
		prefetchCnt: prefetch,
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}

	if err := ch.QueueBind(
		queue,
		routingKey,
		exchange,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		return nil, err
	}

	if err := ch.Qos(consumer.prefetchCnt, 0, false); err != nil {
		_ = ch.Close()
		return nil, err
	}

	return consumer, nil
}

// Start consumes until ctx is cancelled, then waits for in-flight jobs.
func (c *DatasetConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}
	defer c.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			c.Log.Info("dataset consumer shutting down")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				c.Log.Warn("rabbitmq channel closed")
				return nil
			}

			c.wg.Add(1)
			go func(msg amqp.Delivery) {
				defer c.wg.Done()
				c.handle(ctx, msg.Body, msg)
			}(msg)
		}
	}
}

func (c *DatasetConsumer) handle(ctx context.Context, body []byte, d acknowledger) {
	var msg entity.JobCreatedMessage
	if err := json.Unmarshal(body, &msg); err != nil || msg.JobID == "" {
		c.Log.Error("dropping malformed job message", "error", err, "body", string(body))
		_ = d.Nack(false, false)
		return
	}

	if err := c.process(ctx, msg); err != nil {
		requeue := !usecase.IsPermanent(err)
		c.Log.Error("failed to process job", "job_id", msg.JobID, "requeue", requeue, "error", err)
		_ = d.Nack(false, requeue)
		return
	}
	_ = d.Ack(false)
}

// process turns a panicking job into a permanent failure so the message is
// dropped instead of redelivered forever.
func (c *DatasetConsumer) process(ctx context.Context, msg entity.JobCreatedMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", usecase.ErrInvalidJob, r)
		}
	}()
	return c.Processor.ProcessJob(ctx, msg)
}

func (c *DatasetConsumer) Close() error {
	return c.channel.Close()
}
