package rabbitmq

import (
	"context"
	"errors"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

var (
	ErrNotConfirmed   = errors.New("rabbitmq: broker nacked the message")
	ErrConfirmTimeout = errors.New("rabbitmq: publish confirm timeout")
	ErrChannelClosed  = errors.New("rabbitmq: channel is closed")
)

// confirmation is the broker's answer for one published message.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type confirmChannel interface {
	publish(ctx context.Context, exchange, routingKey string, msg amqp091.Publishing) (confirmation, error)
	Close() error
}

// amqpChannel is a channel in confirm mode. Every publish gets its own
// delivery tag to wait on.
type amqpChannel struct {
	ch *amqp091.Channel
}

func (c amqpChannel) publish(ctx context.Context, exchange, routingKey string, msg amqp091.Publishing) (confirmation, error) {
	if c.ch.IsClosed() {
		return nil, ErrChannelClosed
	}

	dc, err := c.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, routingKey, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("AMQP channel is not in confirm mode")
	}
	return dc, nil
}

func (c amqpChannel) Close() error {
	return c.ch.Close()
}

type Publisher struct {
	ch             confirmChannel
	exchange       string
	routingKey     string
	confirmTimeout time.Duration
}

func NewPublisher(conn *amqp091.Connection, exchange, routingKey string, confirmTimeout time.Duration) (*Publisher, error) {

	if conn == nil {
		return nil, errors.New("AMQP connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, err
	}

	return newPublisher(amqpChannel{ch: ch}, exchange, routingKey, confirmTimeout), nil
}

func newPublisher(ch confirmChannel, exchange, routingKey string, confirmTimeout time.Duration) *Publisher {
	return &Publisher{
		ch:             ch,
		exchange:       exchange,
		routingKey:     routingKey,
		confirmTimeout: confirmTimeout,
	}
}

// Publish sends one persistent JSON message and blocks until the broker
// confirms that message. A confirm arriving after ErrConfirmTimeout is
// never credited to a later publish.
func (p *Publisher) Publish(ctx context.Context, body []byte) error {
	confirm, err := p.ch.publish(ctx, p.exchange, p.routingKey, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.confirmTimeout)
	defer cancel()

	ack, err := confirm.WaitContext(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return ErrConfirmTimeout
		}
		return err
	}
	if !ack {
		return ErrNotConfirmed
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}
