package rabbitmq

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
)

// Handler processes one delivery. A nil error acks it, anything else nacks
// it without requeue.
type Handler interface {
	Handle(ctx context.Context, msg amqp091.Delivery) error
}
