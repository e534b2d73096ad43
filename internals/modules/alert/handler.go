package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"healthwatch/pkg/apperror"
	"healthwatch/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type Recipients interface {
	EmailOf(ctx context.Context, ownerID uuid.UUID) (string, error)
}

// Handler is the consumer side of StatusChanged. Delivery is simulated: the
// mail that would be sent is written to the log.
type Handler struct {
	recipients Recipients
	logger     *zerolog.Logger
}

func NewHandler(recipients Recipients, logger *zerolog.Logger) *Handler {
	return &Handler{
		recipients: recipients,
		logger:     logger,
	}
}

func (h *Handler) Handle(ctx context.Context, msg amqp091.Delivery) error {
	var env rabbitmq.EventPayload
	if err := json.Unmarshal(msg.Body, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	if env.Type != EventStatusChanged {
		h.logger.Debug().Str("event_type", env.Type).Msg("ignoring unknown event")
		return nil
	}

	var evt StatusChanged
	if err := json.Unmarshal(env.Payload, &evt); err != nil {
		return fmt.Errorf("decode %s payload: %w", env.Type, err)
	}

	email, err := h.recipients.EmailOf(ctx, evt.OwnerID)
	if err != nil {
		if apperror.IsKind(err, apperror.NotFound) {
			h.logger.Warn().Str("owner_id", evt.OwnerID.String()).Msg("owner gone, dropping notification")
			return nil
		}
		return err
	}

	h.logger.Info().
		Str("event_id", env.ID.String()).
		Str("to", email).
		Str("address", evt.Address).
		Str("status", string(evt.Status)).
		Time("observed_at", evt.ObservedAt).
		Msgf("sending email: %s is now %s", evt.Address, evt.Status)

	return nil
}
