package alert

import (
	"context"
	"healthwatch/pkg/apperror"
	"healthwatch/pkg/rabbitmq"

	"github.com/rs/zerolog"
)

// MessagePublisher is satisfied by *rabbitmq.Publisher.
type MessagePublisher interface {
	Publish(ctx context.Context, body []byte) error
}

type Publisher struct {
	pub    MessagePublisher
	logger *zerolog.Logger
}

func NewPublisher(pub MessagePublisher, logger *zerolog.Logger) *Publisher {
	return &Publisher{
		pub:    pub,
		logger: logger,
	}
}

// Publish returns once the broker confirmed the event.
func (p *Publisher) Publish(ctx context.Context, evt StatusChanged) error {
	const op string = "publisher.alert.publish"

	body, err := rabbitmq.NewEvent(EventStatusChanged, evt, evt.ObservedAt)
	if err != nil {
		return apperror.New(apperror.Internal, op, err)
	}

	if err := p.pub.Publish(ctx, body); err != nil {
		return &apperror.Error{
			Kind:    apperror.Dependency,
			Op:      op,
			Err:     err,
			Message: "status change could not be published",
		}
	}

	p.logger.Info().
		Str("owner_id", evt.OwnerID.String()).
		Str("address", evt.Address).
		Str("status", string(evt.Status)).
		Msg("status change published")
	return nil
}
